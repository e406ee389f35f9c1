package routes

import (
	"palika-console/internal/adapters/http/handlers"
	"palika-console/internal/adapters/http/middleware"
	"palika-console/internal/adapters/persistence/repositories"
	"palika-console/internal/config"
	"palika-console/internal/core/services"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	deptRepo := repositories.NewDepartmentRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	budgetRepo := repositories.NewBudgetRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, deptRepo, cfg)
	userService := services.NewUserService(userRepo, refreshTokenRepo, deptRepo)
	deptService := services.NewDepartmentService(deptRepo)
	reportService := services.NewReportService(reportRepo, deptRepo)
	budgetService := services.NewBudgetService(budgetRepo, deptRepo)
	dashboardService := services.NewDashboardService(deptRepo, reportRepo, budgetRepo, userRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	deptHandler := handlers.NewDepartmentHandler(deptService)
	reportHandler := handlers.NewReportHandler(reportService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.Check)

	// Swagger documentation
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "swagger",
	}))

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, authHandler, userHandler, deptHandler,
		reportHandler, budgetHandler, dashboardHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	deptHandler *handlers.DepartmentHandler,
	reportHandler *handlers.ReportHandler,
	budgetHandler *handlers.BudgetHandler,
	dashboardHandler *handlers.DashboardHandler,
	cfg *config.Config,
) {
	// Auth routes (public, with stricter rate limit)
	auth := router.Group("/auth")
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)

	// Auth routes (protected)
	auth.Get("/user", middleware.AuthMiddleware(cfg), authHandler.Me)

	// Everything below requires a valid token
	protected := router.Group("", middleware.AuthMiddleware(cfg))

	// Dashboard
	protected.Get("/dashboard", dashboardHandler.Stats)

	// Departments: reads for everyone, writes admin only
	departments := protected.Group("/departments")
	departments.Get("/", deptHandler.List)
	departments.Get("/:id", deptHandler.Get)
	departments.Post("/", middleware.AdminOnly(), deptHandler.Create)
	departments.Put("/:id", middleware.AdminOnly(), deptHandler.Update)
	departments.Delete("/:id", middleware.AdminOnly(), deptHandler.Delete)

	// Reports: any signed-in user may file; edits re-checked in the
	// service against the creator-or-admin rule
	reports := protected.Group("/reports")
	reports.Get("/", reportHandler.List)
	reports.Get("/:id", reportHandler.Get)
	reports.Post("/", reportHandler.Create)
	reports.Put("/:id", reportHandler.Update)
	reports.Delete("/:id", reportHandler.Delete)

	// Budgets: reads for everyone, writes admin only
	budgets := protected.Group("/budgets")
	budgets.Get("/", budgetHandler.List)
	budgets.Get("/:id", budgetHandler.Get)
	budgets.Post("/", middleware.AdminOnly(), budgetHandler.Create)
	budgets.Put("/:id", middleware.AdminOnly(), budgetHandler.Update)
	budgets.Put("/:id/expenditure", middleware.AdminOnly(), budgetHandler.AddExpenditure)

	// Users: admin only
	users := protected.Group("/users", middleware.AdminOnly())
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
}
