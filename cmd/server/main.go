package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"palika-console/internal/adapters/http/middleware"
	"palika-console/internal/adapters/http/routes"
	"palika-console/internal/adapters/persistence/models"
	"palika-console/internal/adapters/persistence/repositories"
	"palika-console/internal/config"
	"palika-console/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// @title Palika Console API
// @version 1.0
// @description Municipal office administration API: departments, monthly progress reports, fiscal-year budgets and users.

// @contact.name API Support
// @contact.email support@palika.gov.np

// @host localhost:5000
// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-auth-token

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

	// Seed departments and the initial admin account
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed database: %v", err)
	}

	// Start the nightly maintenance scheduler
	scheduler := services.NewSchedulerService(
		repositories.NewReportRepository(db),
		repositories.NewRefreshTokenRepository(db),
	)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("❌ Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Palika Console API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
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
