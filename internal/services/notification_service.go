package services

import (
	"fmt"

	"github.com/containrrr/shoutrrr"

	"github.com/farwaysec/backend/internal/logger"
)

// NotificationService pushes outbound alerts through a shoutrrr URL.
// With no URL configured it is a no-op.
type NotificationService struct {
	url string
}

// NewNotificationService creates a notification service for the given
// shoutrrr URL. An empty URL disables sending.
func NewNotificationService(url string) *NotificationService {
	return &NotificationService{url: url}
}

// Send delivers a notification asynchronously. Delivery is best-effort:
// failures are logged, never returned.
func (s *NotificationService) Send(title, message string) {
	if s.url == "" {
		return
	}

	go func() {
		msg := fmt.Sprintf("%s\n\n%s", title, message)
		if err := shoutrrr.Send(s.url, msg); err != nil {
			logger.Log().WithError(err).Warn("failed to send notification")
		}
	}()
}
