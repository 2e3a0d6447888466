package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"classhub/internal/adapters/blob"
	"classhub/internal/adapters/http/middleware"
	"classhub/internal/adapters/http/routes"
	"classhub/internal/adapters/persistence/models"
	"classhub/internal/adapters/persistence/repositories"
	"classhub/internal/config"
	"classhub/internal/core/services"
	"classhub/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Select blob store backend
	blobs, err := newBlobStore(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize blob store: %v", err)
	}

	// Shared access token revocation set
	revocations := jwt.NewRevocationSet()

	// Webhook notifier for workflow events
	notifier := services.NewNotificationService(cfg.Notify.WebhookURL)

	// Scheduled cleanup of expired refresh tokens and revocation entries
	cleanupService := services.NewCleanupService(repositories.NewRefreshTokenRepository(db), revocations)
	if err := cleanupService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cleanup service: %v", err)
	}
	defer cleanupService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "classhub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg, revocations, blobs, notifier)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// newBlobStore builds the configured blob store backend
func newBlobStore(cfg *config.Config) (services.BlobStore, error) {
	switch cfg.Blob.Backend {
	case "b2":
		return blob.NewB2Store(context.Background(), cfg.Blob.B2Account, cfg.Blob.B2Key, cfg.Blob.B2Bucket)
	default:
		return blob.NewLocalStore(cfg.Blob.LocalDir)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
