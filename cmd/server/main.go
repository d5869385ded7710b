package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gemcompare/gemcompare-backend/config"
	"github.com/gemcompare/gemcompare-backend/internal/app/controller"
	"github.com/gemcompare/gemcompare-backend/internal/app/repository"
	"github.com/gemcompare/gemcompare-backend/internal/app/service"
	"github.com/gemcompare/gemcompare-backend/internal/db"
	"github.com/gemcompare/gemcompare-backend/internal/middleware"
	"github.com/gemcompare/gemcompare-backend/internal/router"
	"github.com/gemcompare/gemcompare-backend/internal/scheduler"
	"github.com/gemcompare/gemcompare-backend/internal/session"
	"github.com/gemcompare/gemcompare-backend/pkg/logger"
	"github.com/gemcompare/gemcompare-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting GEMCOMPARE Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis for the session store
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()
	sessionStore := session.NewRedisStore(redis.GetClient())

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	priceRepo := repository.NewPriceRepository(db.GetDB())
	watchlistRepo := repository.NewWatchlistRepository(db.GetDB())
	resetRepo := repository.NewPasswordResetRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo)
	productService := service.NewProductService(productRepo, priceRepo)
	watchlistService := service.NewWatchlistService(watchlistRepo, productRepo, priceRepo)
	passwordResetService := service.NewPasswordResetService(
		resetRepo,
		userRepo,
		cfg.Auth.ResetTokenSecret,
		cfg.Auth.ResetTokenExpiry,
	)

	// Initialize middleware
	sessionMiddleware := middleware.NewSessionMiddleware(sessionStore, &cfg.Session)
	authMiddleware := middleware.NewAuthMiddleware()
	csrfMiddleware := middleware.NewCSRFMiddleware()

	// Initialize controllers
	authController := controller.NewAuthController(authService, passwordResetService, sessionMiddleware)
	productController := controller.NewProductController(productService)
	watchlistController := controller.NewWatchlistController(watchlistService)

	// Start the nightly reset cleanup
	cleanupScheduler := scheduler.NewCleanupScheduler(passwordResetService)
	if err := cleanupScheduler.Start(); err != nil {
		logger.Fatal("Failed to start cleanup scheduler", err)
	}
	defer cleanupScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		watchlistController,
		sessionMiddleware,
		authMiddleware,
		csrfMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
