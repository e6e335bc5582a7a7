package models

import "time"

// SubscriptionStatus tracks the lifecycle of an entitlement.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionExpired  SubscriptionStatus = "expired"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionPending  SubscriptionStatus = "pending"
)

// Subscription links a user to a product they are entitled to.
type Subscription struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	UserID    uint `json:"userId" gorm:"index;not null"`
	ProductID uint `json:"productId" gorm:"not null"`

	// Product is joined in at read time by the billing service.
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`

	LicenseKey string             `json:"licenseKey" gorm:"uniqueIndex;not null"`
	Tier       ProductTier        `json:"tier" gorm:"not null"`
	Status     SubscriptionStatus `json:"status" gorm:"default:'active'"`

	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	MaxDevices    int  `json:"maxDevices" gorm:"default:1"`
	ActiveDevices int  `json:"activeDevices" gorm:"default:0"`
	AutoRenew     bool `json:"autoRenew" gorm:"default:true"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
