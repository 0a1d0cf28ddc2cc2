package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	httpapi "propshare-backend/internal/api/http"
	"propshare-backend/internal/config"
	"propshare-backend/internal/logger"
	"propshare-backend/internal/repository/postgres"
	"propshare-backend/internal/security"
	"propshare-backend/internal/service"
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
	logger.Info("Starting PropShare Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
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

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)
	inviteTokens := security.NewInviteTokenIssuer(security.InviteTokenMode(cfg.JWT.InviteTokenMode), cfg.JWT.Secret)

	// Initialize Email Service
	emailSvc := service.NewEmailService(
		cfg.Email.APIKey,
		cfg.Email.FromEmail,
		cfg.Email.FromName,
		cfg.Server.BaseURL,
	)

	// Initialize Services
	authSvc := service.NewAuthService(store.Users, tokenManager)
	propertySvc := service.NewPropertyService(store, store.Repos, inviteTokens, emailSvc)
	availabilitySvc := service.NewAvailabilityService(store.Properties, store.Ownerships, store.Bookings, store.Blackouts)
	bookingSvc := service.NewBookingService(store, store.Repos, emailSvc)
	expenseSvc := service.NewExpenseService(store, store.Repos, emailSvc)
	notificationSvc := service.NewNotificationService(store.Notifications)

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.RouterDeps{
		Tokens:          tokenManager,
		RateLimiter:     httpapi.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst),
		AuthSvc:         authSvc,
		PropertySvc:     propertySvc,
		AvailabilitySvc: availabilitySvc,
		BookingSvc:      bookingSvc,
		ExpenseSvc:      expenseSvc,
		NotificationSvc: notificationSvc,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := server.ListenAndServe(); err != nil {
		logger.Error("Failed to serve HTTP", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
