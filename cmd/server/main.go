package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nkuzn/shoply-backend/config"
	"github.com/nkuzn/shoply-backend/internal/app/controller"
	"github.com/nkuzn/shoply-backend/internal/app/repository"
	"github.com/nkuzn/shoply-backend/internal/app/service"
	"github.com/nkuzn/shoply-backend/internal/db"
	"github.com/nkuzn/shoply-backend/internal/middleware"
	"github.com/nkuzn/shoply-backend/internal/router"
	"github.com/nkuzn/shoply-backend/internal/scheduler"
	"github.com/nkuzn/shoply-backend/internal/storage"
	"github.com/nkuzn/shoply-backend/pkg/logger"
	"github.com/nkuzn/shoply-backend/pkg/redis"
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

	logger.Info("Starting SHOPLY Backend Server", map[string]interface{}{
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

	// Seed the initial administrator when ADMIN_EMAIL/ADMIN_PASSWORD are set
	if err := db.SeedAdmin(&cfg.Admin); err != nil {
		logger.Warn("Failed to seed admin account", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis backs the token blacklist; without it, logout is a no-op
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Failed to connect to Redis, token revocation disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	commentRepo := repository.NewCommentRepository(db.GetDB())
	favoriteRepo := repository.NewFavoriteRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	productService := service.NewProductService(productRepo)
	commentService := service.NewCommentService(commentRepo, productRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo, productRepo)

	// Initialize storage
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService, favoriteService)
	commentController := controller.NewCommentController(commentService)
	favoriteController := controller.NewFavoriteController(favoriteService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start the nightly purge of soft-deleted rows
	purgeScheduler := scheduler.NewPurgeScheduler(productRepo, commentRepo)
	if err := purgeScheduler.Start(); err != nil {
		logger.Warn("Failed to start purge scheduler", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer purgeScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		commentController,
		favoriteController,
		uploadController,
		authMiddleware,
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
