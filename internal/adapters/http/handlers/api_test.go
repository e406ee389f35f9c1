package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"palika-console/internal/adapters/http/middleware"
	"palika-console/internal/adapters/persistence/models"
	"palika-console/internal/adapters/persistence/repositories"
	"palika-console/internal/config"
	"palika-console/internal/core/services"
	"palika-console/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type apiEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

// setupTestApp wires the full API against an in-memory SQLite database
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}

	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	deptRepo := repositories.NewDepartmentRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	budgetRepo := repositories.NewBudgetRepository(db)

	authService := services.NewAuthService(userRepo, refreshTokenRepo, deptRepo, cfg)
	userService := services.NewUserService(userRepo, refreshTokenRepo, deptRepo)
	deptService := services.NewDepartmentService(deptRepo)
	reportService := services.NewReportService(reportRepo, deptRepo)
	budgetService := services.NewBudgetService(budgetRepo, deptRepo)
	dashboardService := services.NewDashboardService(deptRepo, reportRepo, budgetRepo, userRepo)

	authHandler := NewAuthHandler(authService, cfg)
	userHandler := NewUserHandler(userService)
	deptHandler := NewDepartmentHandler(deptService)
	reportHandler := NewReportHandler(reportService)
	budgetHandler := NewBudgetHandler(budgetService)
	dashboardHandler := NewDashboardHandler(dashboardService)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})

	api := app.Group("/api/v1")
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/user", middleware.AuthMiddleware(cfg), authHandler.Me)

	protected := api.Group("", middleware.AuthMiddleware(cfg))
	protected.Get("/dashboard", dashboardHandler.Stats)

	departments := protected.Group("/departments")
	departments.Get("/", deptHandler.List)
	departments.Get("/:id", deptHandler.Get)
	departments.Post("/", middleware.AdminOnly(), deptHandler.Create)
	departments.Put("/:id", middleware.AdminOnly(), deptHandler.Update)
	departments.Delete("/:id", middleware.AdminOnly(), deptHandler.Delete)

	reports := protected.Group("/reports")
	reports.Get("/", reportHandler.List)
	reports.Get("/:id", reportHandler.Get)
	reports.Post("/", reportHandler.Create)
	reports.Put("/:id", reportHandler.Update)
	reports.Delete("/:id", reportHandler.Delete)

	budgets := protected.Group("/budgets")
	budgets.Get("/", budgetHandler.List)
	budgets.Get("/:id", budgetHandler.Get)
	budgets.Post("/", middleware.AdminOnly(), budgetHandler.Create)
	budgets.Put("/:id", middleware.AdminOnly(), budgetHandler.Update)
	budgets.Put("/:id/expenditure", middleware.AdminOnly(), budgetHandler.AddExpenditure)

	users := protected.Group("/users", middleware.AdminOnly())
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	return app, db
}

func seedUser(t *testing.T, db *gorm.DB, name, email, pass, role string, deptID *uint) *models.User {
	t.Helper()
	hashed, err := password.Hash(pass)
	require.NoError(t, err)
	user := &models.User{
		Name:         name,
		Email:        email,
		Password:     hashed,
		Role:         role,
		DepartmentID: deptID,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedDepartment(t *testing.T, db *gorm.DB, name, code string) *models.Department {
	t.Helper()
	dept := &models.Department{Name: name, Code: code, Head: "Head of " + name, Description: name + " department"}
	require.NoError(t, db.Create(dept).Error)
	return dept
}

func request(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, apiEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func login(t *testing.T, app *fiber.App, email, pass string) string {
	t.Helper()
	status, env := request(t, app, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": pass,
	})
	require.Equal(t, fiber.StatusOK, status)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestLoginAndCurrentUser(t *testing.T) {
	app, db := setupTestApp(t)
	seedUser(t, db, "Test Staff", "a@b.com", "secret1", "staff", nil)

	token := login(t, app, "a@b.com", "secret1")

	status, env := request(t, app, "GET", "/api/v1/auth/user", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	var user struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, "staff", user.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	app, db := setupTestApp(t)
	seedUser(t, db, "Test Staff", "a@b.com", "secret1", "staff", nil)

	status, env := request(t, app, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    "a@b.com",
		"password": "wrong-pass",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestDepartmentCreateAdminOnly(t *testing.T) {
	app, db := setupTestApp(t)
	seedUser(t, db, "Admin", "admin@palika.gov.np", "admin123456", "admin", nil)
	seedUser(t, db, "Staff", "staff@palika.gov.np", "secret1", "staff", nil)

	adminToken := login(t, app, "admin@palika.gov.np", "admin123456")
	staffToken := login(t, app, "staff@palika.gov.np", "secret1")

	payload := map[string]string{
		"name":        "Health",
		"code":        "HLT",
		"head":        "Dr. Rai",
		"description": "Public health programs",
	}

	// Staff cannot create
	status, _ := request(t, app, "POST", "/api/v1/departments", staffToken, payload)
	assert.Equal(t, fiber.StatusForbidden, status)

	// Admin can
	status, _ = request(t, app, "POST", "/api/v1/departments", adminToken, payload)
	require.Equal(t, fiber.StatusCreated, status)

	// The new department appears exactly once in the list
	status, env := request(t, app, "GET", "/api/v1/departments", staffToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	var departments []struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &departments))
	count := 0
	for _, d := range departments {
		if d.Code == "HLT" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	// Duplicate code conflicts
	status, _ = request(t, app, "POST", "/api/v1/departments", adminToken, payload)
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestDepartmentValidation(t *testing.T) {
	app, db := setupTestApp(t)
	seedUser(t, db, "Admin", "admin@palika.gov.np", "admin123456", "admin", nil)
	adminToken := login(t, app, "admin@palika.gov.np", "admin123456")

	status, env := request(t, app, "POST", "/api/v1/departments", adminToken, map[string]string{
		"code": "FIN",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Fields, "name")
	assert.Contains(t, env.Fields, "head")
}

func TestReportCreatorOrAdminRule(t *testing.T) {
	app, db := setupTestApp(t)
	dept := seedDepartment(t, db, "Education", "EDU")
	seedUser(t, db, "Admin", "admin@palika.gov.np", "admin123456", "admin", nil)
	seedUser(t, db, "Writer", "writer@palika.gov.np", "secret1", "staff", &dept.ID)
	seedUser(t, db, "Other", "other@palika.gov.np", "secret1", "staff", &dept.ID)

	adminToken := login(t, app, "admin@palika.gov.np", "admin123456")
	writerToken := login(t, app, "writer@palika.gov.np", "secret1")
	otherToken := login(t, app, "other@palika.gov.np", "secret1")

	payload := map[string]interface{}{
		"department_id": dept.ID,
		"month":         4,
		"year":          2026,
		"title":         "School repairs",
		"description":   "Roof repairs at two schools",
		"progress":      40,
	}

	status, env := request(t, app, "POST", "/api/v1/reports", writerToken, payload)
	require.Equal(t, fiber.StatusCreated, status)
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	payload["progress"] = 60

	// A different staff user may not edit
	status, _ = request(t, app, "PUT", fmt.Sprintf("/api/v1/reports/%d", created.ID), otherToken, payload)
	assert.Equal(t, fiber.StatusForbidden, status)

	// The creator may
	status, _ = request(t, app, "PUT", fmt.Sprintf("/api/v1/reports/%d", created.ID), writerToken, payload)
	assert.Equal(t, fiber.StatusOK, status)

	// So may an admin
	payload["progress"] = 80
	status, _ = request(t, app, "PUT", fmt.Sprintf("/api/v1/reports/%d", created.ID), adminToken, payload)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestBudgetExpenditureFlow(t *testing.T) {
	app, db := setupTestApp(t)
	dept := seedDepartment(t, db, "Infrastructure", "INF")
	seedUser(t, db, "Admin", "admin@palika.gov.np", "admin123456", "admin", nil)
	adminToken := login(t, app, "admin@palika.gov.np", "admin123456")

	status, env := request(t, app, "POST", "/api/v1/budgets", adminToken, map[string]interface{}{
		"department_id":    dept.ID,
		"fiscal_year":      "2082/83",
		"total_budget":     "500000",
		"allocated_budget": "400000",
	})
	require.Equal(t, fiber.StatusCreated, status)
	var budget struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &budget))

	// Negative amount never reaches storage
	status, env = request(t, app, "PUT", fmt.Sprintf("/api/v1/budgets/%d/expenditure", budget.ID), adminToken, map[string]interface{}{
		"amount":      "-5",
		"description": "bad line",
		"date":        "2026-04-01T00:00:00Z",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Fields, "amount")

	// A valid line lands and shows up in spent_budget
	status, env = request(t, app, "PUT", fmt.Sprintf("/api/v1/budgets/%d/expenditure", budget.ID), adminToken, map[string]interface{}{
		"amount":      "2500",
		"description": "Road gravel",
		"date":        "2026-04-01T00:00:00Z",
		"category":    "materials",
	})
	require.Equal(t, fiber.StatusOK, status)

	var updated struct {
		SpentBudget string `json:"spent_budget"`
		Expenditure []struct {
			Amount string `json:"amount"`
		} `json:"expenditures"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "2500", updated.SpentBudget)
	require.Len(t, updated.Expenditure, 1)
}

func TestBudgetStatusOnlyUpdate(t *testing.T) {
	app, db := setupTestApp(t)
	dept := seedDepartment(t, db, "Agriculture", "AGR")
	seedUser(t, db, "Admin", "admin@palika.gov.np", "admin123456", "admin", nil)
	adminToken := login(t, app, "admin@palika.gov.np", "admin123456")

	status, env := request(t, app, "POST", "/api/v1/budgets", adminToken, map[string]interface{}{
		"department_id":    dept.ID,
		"fiscal_year":      "2082/83",
		"total_budget":     "500000",
		"allocated_budget": "400000",
	})
	require.Equal(t, fiber.StatusCreated, status)
	var budget struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &budget))

	// A status-only body is a valid partial update and must not zero
	// the figures
	status, env = request(t, app, "PUT", fmt.Sprintf("/api/v1/budgets/%d", budget.ID), adminToken, map[string]interface{}{
		"status": "completed",
	})
	require.Equal(t, fiber.StatusOK, status)

	var updated struct {
		Status          string `json:"status"`
		TotalBudget     string `json:"total_budget"`
		AllocatedBudget string `json:"allocated_budget"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, "500000", updated.TotalBudget)
	assert.Equal(t, "400000", updated.AllocatedBudget)

	// Provided figures are still validated
	status, env = request(t, app, "PUT", fmt.Sprintf("/api/v1/budgets/%d", budget.ID), adminToken, map[string]interface{}{
		"total_budget": "-1",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Fields, "totalBudget")
}

func TestUserSelfDeleteRejected(t *testing.T) {
	app, db := setupTestApp(t)
	admin := seedUser(t, db, "Admin", "admin@palika.gov.np", "admin123456", "admin", nil)
	staff := seedUser(t, db, "Staff", "staff@palika.gov.np", "secret1", "staff", nil)
	adminToken := login(t, app, "admin@palika.gov.np", "admin123456")

	// Deleting yourself is rejected
	status, env := request(t, app, "DELETE", fmt.Sprintf("/api/v1/users/%d", admin.ID), adminToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.NotEmpty(t, env.Error)

	// Deleting someone else works
	status, _ = request(t, app, "DELETE", fmt.Sprintf("/api/v1/users/%d", staff.ID), adminToken, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestUserCreateStaffNeedsDepartment(t *testing.T) {
	app, db := setupTestApp(t)
	seedUser(t, db, "Admin", "admin@palika.gov.np", "admin123456", "admin", nil)
	adminToken := login(t, app, "admin@palika.gov.np", "admin123456")

	status, env := request(t, app, "POST", "/api/v1/users", adminToken, map[string]interface{}{
		"name":     "New Staff",
		"email":    "new@palika.gov.np",
		"password": "secret1",
		"role":     "staff",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Fields, "department")
}

func TestDashboardTotals(t *testing.T) {
	app, db := setupTestApp(t)
	dept := seedDepartment(t, db, "Finance", "FIN")
	seedUser(t, db, "Admin", "admin@palika.gov.np", "admin123456", "admin", nil)
	adminToken := login(t, app, "admin@palika.gov.np", "admin123456")

	status, _ := request(t, app, "POST", "/api/v1/budgets", adminToken, map[string]interface{}{
		"department_id":    dept.ID,
		"fiscal_year":      "2082/83",
		"total_budget":     "100000",
		"allocated_budget": "80000",
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, env := request(t, app, "GET", "/api/v1/dashboard", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)

	var stats struct {
		TotalDepartments int64  `json:"total_departments"`
		TotalBudgets     int64  `json:"total_budgets"`
		TotalAllocated   string `json:"total_allocated"`
		RemainingBudget  string `json:"remaining_budget"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(1), stats.TotalDepartments)
	assert.Equal(t, int64(1), stats.TotalBudgets)
	assert.Equal(t, "80000", stats.TotalAllocated)
	assert.Equal(t, "80000", stats.RemainingBudget)
}
