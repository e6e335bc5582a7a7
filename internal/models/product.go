package models

import "time"

// ProductType enumerates the catalog product families.
type ProductType string

const (
	ProductAntivirus     ProductType = "antivirus"
	ProductEndpoint      ProductType = "endpoint"
	ProductSecuritySuite ProductType = "security_suite"
)

// ProductTier enumerates pricing tiers.
type ProductTier string

const (
	TierFree       ProductTier = "free"
	TierPro        ProductTier = "pro"
	TierEnterprise ProductTier = "enterprise"
)

// DownloadLinks holds per-platform installer URLs.
type DownloadLinks struct {
	Windows string `json:"windows,omitempty"`
	Mac     string `json:"mac,omitempty"`
	Linux   string `json:"linux,omitempty"`
}

// Product is a catalog entry. Created by admins, rarely mutated.
type Product struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	UUID        string        `json:"uuid" gorm:"uniqueIndex"`
	Name        string        `json:"name" gorm:"not null"`
	Description string        `json:"description" gorm:"not null"`
	Type        ProductType   `json:"type" gorm:"not null"`
	Tier        ProductTier   `json:"tier" gorm:"not null"`
	Price       float64       `json:"price" gorm:"not null;check:price >= 0"`
	Features    []string      `json:"features" gorm:"serializer:json"`
	Downloads   DownloadLinks `json:"downloadLinks" gorm:"serializer:json"`
	Version     string        `json:"version" gorm:"not null"`
	ReleaseDate time.Time     `json:"releaseDate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
