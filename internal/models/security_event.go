package models

import "time"

// SecurityEvent is an append-only audit record of a security-relevant action
// (login, 2FA toggle, scan, ...). Rows are never updated or deleted.
type SecurityEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"index;not null"`
	Action    string    `json:"action" gorm:"not null"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
