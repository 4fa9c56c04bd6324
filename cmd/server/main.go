package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	httpapi "gearup-backend/internal/api/http"
	"gearup-backend/internal/auth"
	"gearup-backend/internal/config"
	"gearup-backend/internal/logger"
	"gearup-backend/internal/repository/postgres"
	"gearup-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting GearUp Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize identity verifier
	var verifier auth.Verifier
	switch cfg.Auth.Mode {
	case "firebase":
		verifier, err = auth.NewFirebaseVerifier(context.Background(), cfg.Auth.FirebaseProjectID, cfg.Auth.FirebaseCredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize Firebase verifier", "error", err)
			log.Fatalf("Failed to initialize Firebase verifier: %v", err)
		}
		logger.Info("Using Firebase identity verification", "project_id", cfg.Auth.FirebaseProjectID)
	default:
		verifier = auth.NewJWTVerifier(cfg.Auth.JWTSecret)
		logger.Info("Using JWT identity verification")
	}

	// Initialize Email Service
	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)

	retry := service.RetryConfig{
		Attempts: cfg.Retry.Attempts,
		Backoff:  time.Duration(cfg.Retry.BackoffMs) * time.Millisecond,
	}

	// Initialize Services
	notifier := service.NewNotifier(store.NotificationRepository)
	bookingSvc := service.NewBookingService(
		store.BookingRepository,
		store.EquipmentRepository,
		store.UserRepository,
		notifier,
		emailSvc,
		retry,
	)
	catalogSvc := service.NewCatalogService(
		store.EquipmentRepository,
		store.UserRepository,
		notifier,
		emailSvc,
		retry,
	)
	availabilitySvc := service.NewAvailabilityService(store.BookingRepository, store.EquipmentRepository)
	notificationSvc := service.NewNotificationService(store.NotificationRepository)
	userSvc := service.NewUserService(store.UserRepository)

	// Initialize HTTP handlers and routes
	router := httpapi.NewRouter(verifier, httpapi.Handlers{
		Booking:      httpapi.NewBookingHandler(bookingSvc, availabilitySvc),
		Catalog:      httpapi.NewCatalogHandler(catalogSvc),
		Notification: httpapi.NewNotificationHandler(notificationSvc),
		User:         httpapi.NewUserHandler(userSvc),
	})

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("Failed to serve HTTP", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
