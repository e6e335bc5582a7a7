package services

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/farwaysec/backend/internal/metrics"
	"github.com/farwaysec/backend/internal/models"
)

// Detection probabilities and simulated latencies for the scan engine.
// Paths containing a known malicious marker are always flagged.
const (
	pathThreatChance   = 0.2
	systemThreatChance = 0.1

	pathScanDelay    = 500 * time.Millisecond
	systemCheckDelay = 1500 * time.Millisecond
	analyzeDelay     = 1500 * time.Millisecond
)

var maliciousMarkers = []string{"malware", "virus"}

// ScanService runs simulated malware scans and persists reports. The random
// source and sleep function are injectable so tests can be deterministic
// and instant.
type ScanService struct {
	db       *gorm.DB
	notifier *NotificationService

	randFloat func() float64
	sleep     func(time.Duration)
}

// NewScanService creates a scan service with the default random source.
func NewScanService(db *gorm.DB, notifier *NotificationService) *ScanService {
	return &ScanService{
		db:        db,
		notifier:  notifier,
		randFloat: rand.Float64,
		sleep:     time.Sleep,
	}
}

// WithRand overrides the threat-draw random source. Test hook.
func (s *ScanService) WithRand(f func() float64) *ScanService {
	s.randFloat = f
	return s
}

// WithSleep overrides the simulated-delay function. Test hook.
func (s *ScanService) WithSleep(f func(time.Duration)) *ScanService {
	s.sleep = f
	return s
}

// ScanResult is what a scan run hands back to the caller: the persisted
// report id, the log, and how many new threats were flagged.
type ScanResult struct {
	ReportID   uint
	NewThreats int
	ScanLog    []models.ScanLogEntry
}

// Run executes a simulated scan against the device. Each explicit path is
// checked with a fixed delay and a probabilistic threat draw; with no paths
// a single synthetic system check runs instead. The report itself is only
// written once the run completes.
func (s *ScanService) Run(deviceID uint, pathsToScan []string) (*ScanResult, error) {
	var device models.Device
	if err := s.db.First(&device, deviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("lookup device: %w", err)
	}

	var (
		scanLog      []models.ScanLogEntry
		scannedPaths []string
		threats      []models.Threat
	)
	logLine := func(level models.LogLevel, format string, args ...interface{}) {
		scanLog = append(scanLog, models.ScanLogEntry{
			Timestamp: time.Now(),
			Message:   fmt.Sprintf(format, args...),
			Level:     level,
		})
	}

	start := time.Now()
	logLine(models.LogInfo, "Starting scan for device: %s (%s)...", device.DeviceName, device.IPAddress)

	if len(pathsToScan) > 0 {
		for _, path := range pathsToScan {
			scannedPaths = append(scannedPaths, path)
			logLine(models.LogInfo, "Checking %s...", path)
			s.sleep(pathScanDelay)

			if hasMaliciousMarker(path) || s.randFloat() < pathThreatChance {
				threat := models.Threat{
					Name:             fmt.Sprintf("Simulated Threat in %s", path),
					Description:      fmt.Sprintf("A simulated threat detected during scan in path: %s.", path),
					Type:             models.ThreatMalware,
					Severity:         models.SeverityHigh,
					SignatureHash:    fmt.Sprintf("hash-%d-%s", time.Now().UnixNano(), path),
					DetectionDate:    time.Now(),
					AffectedSystems:  []string{device.DeviceName},
					RemediationSteps: []string{"Quarantine file", "Run full system scan"},
				}
				if err := s.db.Create(&threat).Error; err != nil {
					return nil, fmt.Errorf("persist threat: %w", err)
				}
				threats = append(threats, threat)
				logLine(models.LogWarning, "THREAT DETECTED: %s (Severity: %s)", threat.Name, threat.Severity)
			}
		}
	} else {
		logLine(models.LogInfo, "No specific paths to scan provided. Performing a quick system check...")
		scannedPaths = append(scannedPaths, "System Check")
		s.sleep(systemCheckDelay)

		if s.randFloat() < systemThreatChance {
			threat := models.Threat{
				Name:             "Simulated System Threat",
				Description:      "A simulated system threat detected during quick check.",
				Type:             models.ThreatRootkit,
				Severity:         models.SeverityMedium,
				SignatureHash:    fmt.Sprintf("hash-%d-system", time.Now().UnixNano()),
				DetectionDate:    time.Now(),
				AffectedSystems:  []string{device.DeviceName},
				RemediationSteps: []string{"Review system logs", "Perform full scan"},
			}
			if err := s.db.Create(&threat).Error; err != nil {
				return nil, fmt.Errorf("persist threat: %w", err)
			}
			threats = append(threats, threat)
			logLine(models.LogWarning, "THREAT DETECTED: %s (Severity: %s)", threat.Name, threat.Severity)
		}
	}

	logLine(models.LogInfo, "Analyzing system files...")
	s.sleep(analyzeDelay)

	duration := time.Since(start).Milliseconds()
	logLine(models.LogInfo, "Scan completed for device: %s. Threats found: %d. Duration: %dms.",
		device.DeviceName, len(threats), duration)

	report := models.ScanReport{
		DeviceID:     device.ID,
		DeviceName:   device.DeviceName,
		ScanDate:     time.Now(),
		Status:       models.ScanCompleted,
		ThreatsFound: len(threats),
		Threats:      threats,
		ScanLog:      scanLog,
		Duration:     duration,
		ScannedPaths: scannedPaths,
	}
	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("persist scan report: %w", err)
	}

	device.LastScan = time.Now()
	device.ThreatCount += len(threats)
	if err := s.db.Save(&device).Error; err != nil {
		return nil, fmt.Errorf("update device after scan: %w", err)
	}

	metrics.IncScan()
	metrics.AddThreatsDetected(len(threats))

	if s.notifier != nil && len(threats) > 0 {
		s.notifier.Send(
			fmt.Sprintf("Threats detected on %s", device.DeviceName),
			fmt.Sprintf("Scan found %d threat(s) on device %s.", len(threats), device.DeviceName),
		)
	}

	return &ScanResult{
		ReportID:   report.ID,
		NewThreats: len(threats),
		ScanLog:    scanLog,
	}, nil
}

// Reports lists scan reports newest-first with their threats joined in,
// optionally filtered by device name.
func (s *ScanService) Reports(deviceName string) ([]models.ScanReport, error) {
	query := s.db.Preload("Threats").Order("scan_date desc")
	if deviceName != "" {
		query = query.Where("device_name = ?", deviceName)
	}

	reports := []models.ScanReport{}
	if err := query.Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("list scan reports: %w", err)
	}
	return reports, nil
}

func hasMaliciousMarker(path string) bool {
	for _, marker := range maliciousMarkers {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return false
}
