package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"memberhub/internal/adapters/http/middleware"
	"memberhub/internal/adapters/http/routes"
	"memberhub/internal/adapters/persistence/models"
	"memberhub/internal/adapters/persistence/repositories"
	"memberhub/internal/adapters/storage"
	"memberhub/internal/config"
	"memberhub/internal/core/services"
	"memberhub/internal/pkg/logger"
	"memberhub/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"

	_ "memberhub/docs" // Swagger docs
)

// @title MemberHub API
// @version 1.0
// @description Membership management API: members, zones, events, payments and notifications.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@memberhub.local

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:5000
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Logger first so config loading can report problems
	if err := logger.Init(os.Getenv("APP_MODE")); err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables and indexes if not exist)
	if err := models.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to auto migrate", "error", err)
	}
	logger.Info("Database migration completed")

	// Seed bootstrap admin and default zone
	if err := config.NewSeeder(db, cfg.Seed).Run(); err != nil {
		logger.Warn("Failed to seed database", "error", err)
	}

	// Object storage for uploads
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	fileStore, err := storage.New(ctx, cfg.Storage)
	cancel()
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}

	m := metrics.NewRegistry()

	// Scheduled jobs: membership expiry sweep and token cleanup
	store := repositories.NewStore(db)
	cronService := services.NewCronService(
		services.NewMemberService(store, services.NewQRCodeService(), m),
		services.NewAuthService(store.Users, store.RefreshTokens, cfg),
		cfg.Cron,
	)
	if err := cronService.Start(); err != nil {
		logger.Fatal("Failed to start cron", "error", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "MemberHub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    int(cfg.Upload.MaxFileBytes) + 1<<20,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Setup middlewares
	middleware.Setup(app, cfg, m)

	// Setup routes
	routes.Setup(app, db, cfg, fileStore, m)

	// Graceful shutdown
	go gracefulShutdown(app)

	logger.Info("Server starting", "port", cfg.Port, "mode", cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server", "error", err)
	}
	logger.Info("Server stopped gracefully")
}

// gracefulShutdown stops accepting connections on SIGINT/SIGTERM and lets
// in-flight requests finish
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
		logger.Error("Error during shutdown", "error", err)
	}
}
