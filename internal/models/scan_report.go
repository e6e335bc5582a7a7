package models

import "time"

// ScanStatus is the terminal state of a scan run. The simulation only ever
// produces completed reports; the failed value exists in the schema but no
// code path writes it.
type ScanStatus string

const (
	ScanCompleted ScanStatus = "completed"
	ScanFailed    ScanStatus = "failed"
)

// LogLevel classifies a scan log line.
type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogWarning LogLevel = "warning"
	LogError   LogLevel = "error"
)

// ScanLogEntry is a single timestamped line of scan output.
type ScanLogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Level     LogLevel  `json:"level"`
}

// ScanReport captures the outcome of a scan run. Immutable once persisted.
type ScanReport struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	DeviceID   uint   `json:"deviceId" gorm:"index;not null"`
	DeviceName string `json:"deviceName" gorm:"not null"`

	ScanDate     time.Time  `json:"scanDate"`
	Status       ScanStatus `json:"status" gorm:"not null"`
	ThreatsFound int        `json:"threatsFound" gorm:"default:0"`

	Threats []Threat `json:"threats" gorm:"many2many:scan_report_threats;"`

	ScanLog      []ScanLogEntry `json:"scanLog" gorm:"serializer:json"`
	Duration     int64          `json:"duration"` // milliseconds
	ScannedPaths []string       `json:"scannedPaths" gorm:"serializer:json"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
