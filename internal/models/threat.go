package models

import "time"

// ThreatSeverity ranks how dangerous a detection is.
type ThreatSeverity string

const (
	SeverityLow      ThreatSeverity = "low"
	SeverityMedium   ThreatSeverity = "medium"
	SeverityHigh     ThreatSeverity = "high"
	SeverityCritical ThreatSeverity = "critical"
)

// ThreatType classifies a detection.
type ThreatType string

const (
	ThreatVirus      ThreatType = "virus"
	ThreatMalware    ThreatType = "malware"
	ThreatRansomware ThreatType = "ransomware"
	ThreatSpyware    ThreatType = "spyware"
	ThreatTrojan     ThreatType = "trojan"
	ThreatPhishing   ThreatType = "phishing"
	ThreatRootkit    ThreatType = "rootkit"
	ThreatOther      ThreatType = "other"
)

// Threat is a detection record. Rows are only ever created as a byproduct of
// a scan run.
type Threat struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description" gorm:"not null"`
	Type        ThreatType     `json:"type" gorm:"not null"`
	Severity    ThreatSeverity `json:"severity" gorm:"not null"`

	SignatureHash string    `json:"signatureHash" gorm:"uniqueIndex;not null"`
	DetectionDate time.Time `json:"detectionDate"`

	AffectedSystems  []string `json:"affectedSystems" gorm:"serializer:json"`
	RemediationSteps []string `json:"remediationSteps" gorm:"serializer:json"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
