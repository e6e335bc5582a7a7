package models

import "time"

// DeviceOS enumerates the operating systems the agent supports.
type DeviceOS string

const (
	OSWindows DeviceOS = "windows"
	OSMacOS   DeviceOS = "macos"
	OSLinux   DeviceOS = "linux"
	OSAndroid DeviceOS = "android"
	OSIOS     DeviceOS = "ios"
)

// DeviceStatus tracks the protection state of a device.
type DeviceStatus string

const (
	DeviceActive      DeviceStatus = "active"
	DeviceInactive    DeviceStatus = "inactive"
	DeviceCompromised DeviceStatus = "compromised"
)

// Device is a protected endpoint registered by a user.
type Device struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"userId" gorm:"index;not null"`

	// DeviceID is the agent-facing identifier, distinct from the row ID.
	DeviceID   string       `json:"deviceId" gorm:"uniqueIndex;not null"`
	DeviceName string       `json:"deviceName" gorm:"not null"`
	OS         DeviceOS     `json:"os" gorm:"not null"`
	OSVersion  string       `json:"osVersion" gorm:"not null"`
	Status     DeviceStatus `json:"status" gorm:"default:'active'"`
	IPAddress  string       `json:"ipAddress,omitempty"`

	LastScan    time.Time `json:"lastScan"`
	LastUpdate  time.Time `json:"lastUpdate"`
	ThreatCount int       `json:"threatCount" gorm:"default:0"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
