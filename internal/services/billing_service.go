package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/farwaysec/backend/internal/models"
)

// BillingService exposes the user's subscription and the stubbed payment
// endpoints. Payment-method updates and invoice history are simulated; real
// gateway integration is out of scope for this system.
type BillingService struct {
	db *gorm.DB
}

// NewBillingService creates a new billing service.
func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{db: db}
}

// GetSubscription returns the user's subscription with its product joined in.
func (s *BillingService) GetSubscription(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.Preload("Product").Where("user_id = ?", userID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("lookup subscription: %w", err)
	}
	return &sub, nil
}

// SubscriptionUpdate carries the changeable subscription fields. Nil means
// "leave untouched".
type SubscriptionUpdate struct {
	NewPlanID *uint
	AutoRenew *bool
}

// UpdateSubscription switches the user onto a new plan and/or flips
// auto-renew. A new plan must reference an existing product.
func (s *BillingService) UpdateSubscription(userID uint, upd SubscriptionUpdate) (*models.Subscription, error) {
	if upd.NewPlanID != nil {
		var product models.Product
		if err := s.db.First(&product, *upd.NewPlanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("lookup product: %w", err)
		}
	}

	var sub models.Subscription
	if err := s.db.Where("user_id = ?", userID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("lookup subscription: %w", err)
	}

	if upd.NewPlanID != nil {
		sub.ProductID = *upd.NewPlanID
	}
	if upd.AutoRenew != nil {
		sub.AutoRenew = *upd.AutoRenew
	}

	if err := s.db.Save(&sub).Error; err != nil {
		return nil, fmt.Errorf("update subscription: %w", err)
	}

	return s.GetSubscription(userID)
}

// UpdatePaymentMethod simulates forwarding a payment token to a gateway.
// Always succeeds; no token is stored.
func (s *BillingService) UpdatePaymentMethod(userID uint, paymentToken string) error {
	_ = paymentToken
	return nil
}

// Invoice is a billing line item. Only sample data is ever returned.
type Invoice struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Status      string  `json:"status"`
	DownloadURL string  `json:"downloadUrl"`
}

// InvoiceHistory returns static sample invoices, standing in for a payment
// gateway lookup.
func (s *BillingService) InvoiceHistory(userID uint) ([]Invoice, error) {
	return []Invoice{
		{ID: "inv_001", Date: "2023-05-01", Amount: 9.99, Currency: "USD", Status: "Paid", DownloadURL: "/api/invoices/inv_001/download"},
		{ID: "inv_002", Date: "2023-06-01", Amount: 9.99, Currency: "USD", Status: "Paid", DownloadURL: "/api/invoices/inv_002/download"},
	}, nil
}

// ExpireLapsed marks active subscriptions whose end date has passed as
// expired. Run periodically from the cron scheduler. Returns the number of
// rows flipped.
func (s *BillingService) ExpireLapsed(now time.Time) (int64, error) {
	res := s.db.Model(&models.Subscription{}).
		Where("status = ? AND end_date < ?", models.SubscriptionActive, now).
		Update("status", models.SubscriptionExpired)
	if res.Error != nil {
		return 0, fmt.Errorf("expire subscriptions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
