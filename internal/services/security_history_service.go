package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/farwaysec/backend/internal/models"
)

// ErrMissingAction rejects events without an action string.
var ErrMissingAction = errors.New("action is required")

// SecurityHistoryService reads and appends the per-user audit trail.
type SecurityHistoryService struct {
	db *gorm.DB
}

// NewSecurityHistoryService creates a new security history service.
func NewSecurityHistoryService(db *gorm.DB) *SecurityHistoryService {
	return &SecurityHistoryService{db: db}
}

// List returns the user's events, newest first.
func (s *SecurityHistoryService) List(userID uint) ([]models.SecurityEvent, error) {
	var events []models.SecurityEvent
	if err := s.db.Where("user_id = ?", userID).Order("timestamp desc").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list security events: %w", err)
	}
	return events, nil
}

// Append records a new event for the user.
func (s *SecurityHistoryService) Append(userID uint, action, details string) (*models.SecurityEvent, error) {
	if action == "" {
		return nil, ErrMissingAction
	}

	event := &models.SecurityEvent{
		UserID:    userID,
		Action:    action,
		Timestamp: time.Now(),
		Details:   details,
	}
	if err := s.db.Create(event).Error; err != nil {
		return nil, fmt.Errorf("create security event: %w", err)
	}
	return event, nil
}
