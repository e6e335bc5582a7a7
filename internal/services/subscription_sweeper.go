package services

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/farwaysec/backend/internal/logger"
)

// SubscriptionSweeper periodically expires subscriptions whose end date has
// passed. The original billing flow stores end dates but nothing ever flips
// the status; this closes that loop.
type SubscriptionSweeper struct {
	billing *BillingService
	Cron    *cron.Cron
}

// NewSubscriptionSweeper creates the sweeper and schedules an hourly run.
func NewSubscriptionSweeper(billing *BillingService) *SubscriptionSweeper {
	s := &SubscriptionSweeper{
		billing: billing,
		Cron:    cron.New(),
	}

	s.Cron.AddFunc("@hourly", s.Sweep)
	return s
}

// Start begins the cron schedule.
func (s *SubscriptionSweeper) Start() {
	s.Cron.Start()
}

// Stop halts the cron schedule.
func (s *SubscriptionSweeper) Stop() {
	s.Cron.Stop()
}

// Sweep runs one expiry pass.
func (s *SubscriptionSweeper) Sweep() {
	n, err := s.billing.ExpireLapsed(time.Now())
	if err != nil {
		logger.Log().WithError(err).Error("subscription expiry sweep failed")
		return
	}
	if n > 0 {
		logger.WithFields(map[string]interface{}{"expired": n}).Info("expired lapsed subscriptions")
	}
}
