package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farwaysec/backend/internal/api/middleware"
	"github.com/farwaysec/backend/internal/services"
)

// ScanHandler exposes scan execution and report listing.
type ScanHandler struct {
	service *services.ScanService
}

// NewScanHandler creates a new scan handler.
func NewScanHandler(service *services.ScanService) *ScanHandler {
	return &ScanHandler{service: service}
}

// RegisterRoutes registers scan routes. All require authentication.
func (h *ScanHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/scan/run", h.Run)
	router.GET("/scan", h.Reports)
}

type RunScanRequest struct {
	DeviceID    uint     `json:"deviceId"`
	PathsToScan []string `json:"pathsToScan"`
}

func (h *ScanHandler) Run(c *gin.Context) {
	var req RunScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if req.DeviceID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Device ID is required"})
		return
	}

	result, err := h.service.Run(req.DeviceID, req.PathsToScan)
	if err != nil {
		if errors.Is(err, services.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Device not found"})
			return
		}
		middleware.GetRequestLogger(c).WithError(err).Error("scan run failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error initiating scan", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Scan initiated successfully",
		"newThreatsCount": result.NewThreats,
		"scanLog":         result.ScanLog,
		"scanReportId":    result.ReportID,
	})
}

func (h *ScanHandler) Reports(c *gin.Context) {
	deviceName := c.Query("device")

	reports, err := h.service.Reports(deviceName)
	if err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("failed to fetch scan reports")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching scan reports", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reports)
}
