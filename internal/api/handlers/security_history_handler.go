package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farwaysec/backend/internal/api/middleware"
	"github.com/farwaysec/backend/internal/services"
)

// SecurityHistoryHandler exposes the per-user audit trail.
type SecurityHistoryHandler struct {
	service *services.SecurityHistoryService
}

// NewSecurityHistoryHandler creates a new security history handler.
func NewSecurityHistoryHandler(service *services.SecurityHistoryService) *SecurityHistoryHandler {
	return &SecurityHistoryHandler{service: service}
}

// RegisterRoutes registers security history routes. All require authentication.
func (h *SecurityHistoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/security-history", h.List)
	router.POST("/security-history", h.Append)
}

func (h *SecurityHistoryHandler) List(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	events, err := h.service.List(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, events)
}

type AppendEventRequest struct {
	Action  string `json:"action"`
	Details string `json:"details"`
}

func (h *SecurityHistoryHandler) Append(c *gin.Context) {
	var req AppendEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	userID, _ := middleware.UserID(c)

	event, err := h.service.Append(userID, req.Action, req.Details)
	if err != nil {
		if errors.Is(err, services.ErrMissingAction) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide user ID and action"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, event)
}
