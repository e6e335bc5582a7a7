package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/farwaysec/backend/internal/api/middleware"
	"github.com/farwaysec/backend/internal/models"
	"github.com/farwaysec/backend/internal/services"
)

// DeviceHandler exposes the per-user device inventory endpoints.
type DeviceHandler struct {
	service *services.DeviceService
}

// NewDeviceHandler creates a new device handler.
func NewDeviceHandler(service *services.DeviceService) *DeviceHandler {
	return &DeviceHandler{service: service}
}

// RegisterRoutes registers device routes. All require authentication.
func (h *DeviceHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/device/add", h.Add)
	router.DELETE("/device/:id", h.Delete)
	router.PUT("/device/:id", h.Update)
	router.GET("/device/all", h.List)
}

type AddDeviceRequest struct {
	DeviceName string              `json:"deviceName"`
	OS         models.DeviceOS     `json:"os"`
	OSVersion  string              `json:"osVersion"`
	IPAddress  string              `json:"ipAddress"`
}

func (h *DeviceHandler) Add(c *gin.Context) {
	var req AddDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if req.DeviceName == "" || req.OS == "" || req.OSVersion == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required device information"})
		return
	}

	userID, _ := middleware.UserID(c)

	device, err := h.service.Add(userID, services.AddDeviceInput{
		DeviceName: req.DeviceName,
		OS:         req.OS,
		OSVersion:  req.OSVersion,
		IPAddress:  req.IPAddress,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error adding device", "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Device added successfully", "device": device})
}

func (h *DeviceHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid device ID"})
		return
	}

	userID, _ := middleware.UserID(c)

	if err := h.service.Delete(userID, uint(id)); err != nil {
		if errors.Is(err, services.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Device not found or not authorized"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting device", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device deleted successfully"})
}

type UpdateDeviceRequest struct {
	DeviceName string               `json:"deviceName"`
	OS         models.DeviceOS      `json:"os"`
	OSVersion  string               `json:"osVersion"`
	IPAddress  string               `json:"ipAddress"`
	Status     models.DeviceStatus  `json:"status"`
}

func (h *DeviceHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid device ID"})
		return
	}

	var req UpdateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	userID, _ := middleware.UserID(c)

	device, err := h.service.Update(userID, uint(id), services.UpdateDeviceInput{
		DeviceName: req.DeviceName,
		OS:         req.OS,
		OSVersion:  req.OSVersion,
		IPAddress:  req.IPAddress,
		Status:     req.Status,
	})
	if err != nil {
		if errors.Is(err, services.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Device not found or not authorized"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating device", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device updated successfully", "device": device})
}

func (h *DeviceHandler) List(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	devices, err := h.service.List(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching devices", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"devices": devices})
}
