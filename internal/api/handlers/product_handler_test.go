package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farwaysec/backend/internal/api/middleware"
	"github.com/farwaysec/backend/internal/models"
	"github.com/farwaysec/backend/internal/services"
)

func setupProductRouter(t *testing.T, role models.UserRole) *gin.Engine {
	db := setupHandlerDB(t)
	handler := NewProductHandler(services.NewProductService(db))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	api.Use(asUser(1, role))
	handler.RegisterRoutes(api, middleware.RequireRole("admin"))
	return r
}

func TestProductHandler_Create_AdminOnly(t *testing.T) {
	r := setupProductRouter(t, models.RoleClient)

	w := jsonRequest(t, r, "POST", "/api/products", map[string]interface{}{
		"name": "Sneaky", "description": "x", "type": "antivirus",
		"tier": "free", "price": 0, "version": "1.0.0",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProductHandler_CreateAndList(t *testing.T) {
	r := setupProductRouter(t, models.RoleAdmin)

	w := jsonRequest(t, r, "POST", "/api/products", map[string]interface{}{
		"name":        "Farway Antivirus",
		"description": "Baseline protection",
		"type":        "antivirus",
		"tier":        "free",
		"price":       0,
		"features":    []string{"On-demand scans"},
		"version":     "1.0.0",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Farway Antivirus", body["name"])
	assert.NotEmpty(t, body["uuid"])

	w = jsonRequest(t, r, "GET", "/api/products", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Farway Antivirus")
}

func TestProductHandler_NegativePrice(t *testing.T) {
	r := setupProductRouter(t, models.RoleAdmin)

	w := jsonRequest(t, r, "POST", "/api/products", map[string]interface{}{
		"name": "Bogus", "description": "x", "type": "antivirus",
		"tier": "free", "price": -5, "version": "1.0.0",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "price must not be negative")
}
