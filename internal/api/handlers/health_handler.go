package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farwaysec/backend/internal/version"
)

// HealthHandler responds with basic service metadata for uptime checks.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Server is running",
		"service": version.Name,
		"version": version.Version,
	})
}
