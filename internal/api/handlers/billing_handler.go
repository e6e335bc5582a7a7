package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farwaysec/backend/internal/api/middleware"
	"github.com/farwaysec/backend/internal/services"
)

// BillingHandler exposes subscription details and the stubbed payment
// endpoints.
type BillingHandler struct {
	service *services.BillingService
}

// NewBillingHandler creates a new billing handler.
func NewBillingHandler(service *services.BillingService) *BillingHandler {
	return &BillingHandler{service: service}
}

// RegisterRoutes registers billing routes. All require authentication.
func (h *BillingHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/billing/subscription", h.GetSubscription)
	router.PUT("/billing/subscription", h.UpdateSubscription)
	router.PUT("/billing/payment-method", h.UpdatePaymentMethod)
	router.GET("/billing/invoices", h.InvoiceHistory)
}

func (h *BillingHandler) GetSubscription(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	sub, err := h.service.GetSubscription(userID)
	if err != nil {
		if errors.Is(err, services.ErrSubscriptionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Subscription not found for this user."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while fetching subscription details."})
		return
	}

	c.JSON(http.StatusOK, sub)
}

type UpdateSubscriptionRequest struct {
	NewPlanID *uint `json:"newPlanId"`
	AutoRenew *bool `json:"autoRenew"`
}

func (h *BillingHandler) UpdateSubscription(c *gin.Context) {
	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	userID, _ := middleware.UserID(c)

	sub, err := h.service.UpdateSubscription(userID, services.SubscriptionUpdate{
		NewPlanID: req.NewPlanID,
		AutoRenew: req.AutoRenew,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "New plan (product) not found."})
		case errors.Is(err, services.ErrSubscriptionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Subscription not found."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while updating subscription."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription updated successfully.", "subscription": sub})
}

type UpdatePaymentMethodRequest struct {
	PaymentToken string `json:"paymentToken"`
}

func (h *BillingHandler) UpdatePaymentMethod(c *gin.Context) {
	var req UpdatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	userID, _ := middleware.UserID(c)

	if err := h.service.UpdatePaymentMethod(userID, req.PaymentToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while updating payment method."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment method updated successfully."})
}

func (h *BillingHandler) InvoiceHistory(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	invoices, err := h.service.InvoiceHistory(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while fetching invoice history."})
		return
	}

	c.JSON(http.StatusOK, invoices)
}
