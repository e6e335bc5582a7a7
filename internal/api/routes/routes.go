package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/farwaysec/backend/internal/api/handlers"
	"github.com/farwaysec/backend/internal/api/middleware"
	"github.com/farwaysec/backend/internal/config"
	"github.com/farwaysec/backend/internal/metrics"
	"github.com/farwaysec/backend/internal/models"
	"github.com/farwaysec/backend/internal/services"
)

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Device{},
		&models.Product{},
		&models.Subscription{},
		&models.Threat{},
		&models.ScanReport{},
		&models.SecurityEvent{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	router.GET("/health", handlers.HealthHandler)

	registry := prometheus.NewRegistry()
	metrics.Register(registry)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	authService := services.NewAuthService(db, cfg)
	authMiddleware := middleware.AuthMiddleware(authService)
	notifier := services.NewNotificationService(cfg.NotifyURL)

	api := router.Group("/api")

	authHandler := handlers.NewAuthHandler(authService)
	authHandler.RegisterRoutes(api, authMiddleware)

	protected := api.Group("")
	protected.Use(authMiddleware)

	deviceHandler := handlers.NewDeviceHandler(services.NewDeviceService(db))
	deviceHandler.RegisterRoutes(protected)

	scanHandler := handlers.NewScanHandler(services.NewScanService(db, notifier))
	scanHandler.RegisterRoutes(protected)

	productHandler := handlers.NewProductHandler(services.NewProductService(db))
	productHandler.RegisterRoutes(protected, middleware.RequireRole("admin"))

	billingHandler := handlers.NewBillingHandler(services.NewBillingService(db))
	billingHandler.RegisterRoutes(protected)

	historyHandler := handlers.NewSecurityHistoryHandler(services.NewSecurityHistoryService(db))
	historyHandler.RegisterRoutes(protected)

	return nil
}
