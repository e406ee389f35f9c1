package middleware

import (
	"net/http/httptest"
	"testing"

	"palika-console/internal/config"
	"palika-console/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			RefreshSecret:   "test-refresh-secret",
			AccessTokenMins: 15,
		},
	}
}

func protectedApp(cfg *config.Config, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{AuthMiddleware(cfg)}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals("userID"),
			"role":    c.Locals("role"),
		})
	})
	app.Get("/protected", handlers...)
	return app
}

func TestAuthMiddlewareNoToken(t *testing.T) {
	app := protectedApp(testConfig())

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareTokenHeader(t *testing.T) {
	cfg := testConfig()
	app := protectedApp(cfg)

	token, err := jwt.GenerateAccessToken(3, "ram@palika.gov.np", "staff", cfg.JWT.Secret, 15)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("x-auth-token", token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddlewareBearerFallback(t *testing.T) {
	cfg := testConfig()
	app := protectedApp(cfg)

	token, err := jwt.GenerateAccessToken(3, "ram@palika.gov.np", "staff", cfg.JWT.Secret, 15)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	cfg := testConfig()
	app := protectedApp(cfg)

	token, err := jwt.GenerateAccessToken(3, "ram@palika.gov.np", "staff", cfg.JWT.Secret, -1)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("x-auth-token", token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminOnlyRejectsStaff(t *testing.T) {
	cfg := testConfig()
	app := protectedApp(cfg, AdminOnly())

	token, err := jwt.GenerateAccessToken(3, "ram@palika.gov.np", "staff", cfg.JWT.Secret, 15)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("x-auth-token", token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminOnlyAllowsAdmin(t *testing.T) {
	cfg := testConfig()
	app := protectedApp(cfg, AdminOnly())

	token, err := jwt.GenerateAccessToken(1, "admin@palika.gov.np", "admin", cfg.JWT.Secret, 15)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("x-auth-token", token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
