package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/farwaysec/backend/internal/models"
)

func main() {
	db, err := gorm.Open(sqlite.Open("./data/farway.db"), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Device{},
		&models.Product{},
		&models.Subscription{},
		&models.Threat{},
		&models.ScanReport{},
		&models.SecurityEvent{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	products := []models.Product{
		{
			UUID:        uuid.NewString(),
			Name:        "Farway Antivirus Free",
			Description: "Baseline malware protection for a single device",
			Type:        models.ProductAntivirus,
			Tier:        models.TierFree,
			Price:       0,
			Features:    []string{"On-demand scans", "Threat quarantine"},
			Version:     "1.0.0",
			ReleaseDate: time.Now(),
		},
		{
			UUID:        uuid.NewString(),
			Name:        "Farway Security Suite Pro",
			Description: "Full suite with scheduled scans and priority support",
			Type:        models.ProductSecuritySuite,
			Tier:        models.TierPro,
			Price:       9.99,
			Features:    []string{"On-demand scans", "Scheduled scans", "2FA", "Priority support"},
			Downloads: models.DownloadLinks{
				Windows: "https://downloads.farway.example/pro/windows",
				Mac:     "https://downloads.farway.example/pro/mac",
				Linux:   "https://downloads.farway.example/pro/linux",
			},
			Version:     "1.2.0",
			ReleaseDate: time.Now(),
		},
		{
			UUID:        uuid.NewString(),
			Name:        "Farway Endpoint Enterprise",
			Description: "Fleet-wide endpoint protection for partner organizations",
			Type:        models.ProductEndpoint,
			Tier:        models.TierEnterprise,
			Price:       49.99,
			Features:    []string{"Fleet dashboard", "Unlimited devices", "Audit trail"},
			Version:     "1.2.0",
			ReleaseDate: time.Now(),
		},
	}

	for i := range products {
		var existing models.Product
		if err := db.Where("name = ?", products[i].Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&products[i]).Error; err != nil {
				log.Fatal("Failed to seed product:", err)
			}
			fmt.Printf("✓ Seeded product %q\n", products[i].Name)
		}
	}

	var admin models.User
	if err := db.Where("email = ?", "admin@farway.example").First(&admin).Error; err == gorm.ErrRecordNotFound {
		admin = models.User{
			UUID:      uuid.NewString(),
			Email:     "admin@farway.example",
			FirstName: "Admin",
			LastName:  "User",
			Role:      models.RoleAdmin,
		}
		if err := admin.SetPassword("changeme123"); err != nil {
			log.Fatal("Failed to hash password:", err)
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatal("Failed to seed admin user:", err)
		}
		fmt.Println("✓ Seeded admin user admin@farway.example (password: changeme123)")
	}

	var sub models.Subscription
	if err := db.Where("user_id = ?", admin.ID).First(&sub).Error; err == gorm.ErrRecordNotFound {
		sub = models.Subscription{
			UserID:     admin.ID,
			ProductID:  products[1].ID,
			LicenseKey: "FW-" + uuid.NewString(),
			Tier:       models.TierPro,
			Status:     models.SubscriptionActive,
			StartDate:  time.Now(),
			EndDate:    time.Now().AddDate(1, 0, 0),
			MaxDevices: 5,
			AutoRenew:  true,
		}
		if err := db.Create(&sub).Error; err != nil {
			log.Fatal("Failed to seed subscription:", err)
		}
		fmt.Println("✓ Seeded demo subscription for admin user")
	}

	fmt.Println("✓ Seeding complete")
}
