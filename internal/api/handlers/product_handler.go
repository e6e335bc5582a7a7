package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farwaysec/backend/internal/models"
	"github.com/farwaysec/backend/internal/services"
)

// ProductHandler exposes the global product catalog.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// RegisterRoutes registers product routes. Listing needs a token; creation
// additionally needs the admin role.
func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup, requireAdmin gin.HandlerFunc) {
	router.GET("/products", h.List)
	router.POST("/products", requireAdmin, h.Create)
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.service.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := h.service.Create(&product); err != nil {
		if errors.Is(err, services.ErrNegativePrice) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, product)
}
