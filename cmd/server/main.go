package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/venueworks/service-booking/internal/application"
	"github.com/venueworks/service-booking/internal/auth"
	"github.com/venueworks/service-booking/internal/config"
	"github.com/venueworks/service-booking/internal/database"
	"github.com/venueworks/service-booking/internal/events"
	"github.com/venueworks/service-booking/internal/handler"
	"github.com/venueworks/service-booking/internal/logger"
	"github.com/venueworks/service-booking/internal/middleware"
	"github.com/venueworks/service-booking/internal/repository"
	"github.com/venueworks/service-booking/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.Duration("status_interval", cfg.StatusInterval),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig.DSN(), log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.BookingModel{}, &repository.VenueModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.URL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		cfg.JWTConfig.AccessTTL,
		cfg.JWTConfig.RefreshTTL,
	)

	// Initialize Kafka producer
	producer := events.NewProducer(cfg.KafkaConfig.Brokers, "service-booking", log)
	defer func() { _ = producer.Close() }()

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	venueRepo := repository.NewGormVenueRepository(db)

	// Initialize application services
	bookingService := application.NewBookingService(bookingRepo, producer, log)
	statusService := application.NewStatusService(bookingRepo, producer, log)
	venueService := application.NewVenueService(venueRepo, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the payment event consumer in a goroutine
	groupID := cfg.KafkaConfig.GroupPrefix + "booking-service"
	paymentConsumer := events.NewPaymentEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		bookingService,
		log,
	)
	defer func() { _ = paymentConsumer.Close() }()

	go func() {
		log.Info("starting payment event consumer")
		if err := paymentConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("payment event consumer error", zap.Error(err))
		}
	}()

	// Start the periodic status refresher in a goroutine
	refresher := scheduler.NewStatusRefresher(statusService, cfg.StatusInterval, log)
	go func() {
		log.Info("starting status refresher")
		if err := refresher.Start(ctx); err != nil && err != context.Canceled {
			log.Error("status refresher error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	venueHandler := handler.NewVenueHandler(venueService)
	adminHandler := handler.NewAdminBookingHandler(bookingService, statusService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Health check
	router.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "service-booking"})
	})

	// Register routes
	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	venueHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	adminHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	// Stop the consumer and refresher
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
