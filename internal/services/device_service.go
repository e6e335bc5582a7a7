package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farwaysec/backend/internal/models"
)

// DeviceService manages the per-user device inventory. Every lookup is
// scoped by owner: a device that exists but belongs to someone else is
// indistinguishable from one that does not exist.
type DeviceService struct {
	db *gorm.DB
}

// NewDeviceService creates a new device service.
func NewDeviceService(db *gorm.DB) *DeviceService {
	return &DeviceService{db: db}
}

// AddDeviceInput carries the fields needed to register a device.
type AddDeviceInput struct {
	DeviceName string
	OS         models.DeviceOS
	OSVersion  string
	IPAddress  string
}

// Add registers a new device for the user. The agent-facing device
// identifier is generated server-side.
func (s *DeviceService) Add(userID uint, in AddDeviceInput) (*models.Device, error) {
	now := time.Now()
	device := &models.Device{
		UserID:     userID,
		DeviceID:   "device-" + uuid.NewString(),
		DeviceName: in.DeviceName,
		OS:         in.OS,
		OSVersion:  in.OSVersion,
		Status:     models.DeviceActive,
		IPAddress:  in.IPAddress,
		LastScan:   now,
		LastUpdate: now,
	}

	if err := s.db.Create(device).Error; err != nil {
		return nil, fmt.Errorf("create device: %w", err)
	}
	return device, nil
}

// List returns all devices owned by the user.
func (s *DeviceService) List(userID uint) ([]models.Device, error) {
	var devices []models.Device
	if err := s.db.Where("user_id = ?", userID).Find(&devices).Error; err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return devices, nil
}

// Get returns the device with the given row id, scoped to the owner.
func (s *DeviceService) Get(userID, id uint) (*models.Device, error) {
	var device models.Device
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&device).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("lookup device: %w", err)
	}
	return &device, nil
}

// UpdateDeviceInput carries the mutable device fields. Zero values are
// left untouched.
type UpdateDeviceInput struct {
	DeviceName string
	OS         models.DeviceOS
	OSVersion  string
	IPAddress  string
	Status     models.DeviceStatus
}

// Update merges the provided fields into the device record.
func (s *DeviceService) Update(userID, id uint, in UpdateDeviceInput) (*models.Device, error) {
	device, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	if in.DeviceName != "" {
		device.DeviceName = in.DeviceName
	}
	if in.OS != "" {
		device.OS = in.OS
	}
	if in.OSVersion != "" {
		device.OSVersion = in.OSVersion
	}
	if in.IPAddress != "" {
		device.IPAddress = in.IPAddress
	}
	if in.Status != "" {
		device.Status = in.Status
	}
	device.LastUpdate = time.Now()

	if err := s.db.Save(device).Error; err != nil {
		return nil, fmt.Errorf("update device: %w", err)
	}
	return device, nil
}

// Delete removes the device, scoped to the owner.
func (s *DeviceService) Delete(userID, id uint) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Device{})
	if res.Error != nil {
		return fmt.Errorf("delete device: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDeviceNotFound
	}
	return nil
}
