package handlers

import (
	"time"

	"palika-console/internal/config"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startTime: time.Now()}
}

// Root returns basic service information
// @Summary Service info
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    "Palika Console API",
		"version": "1.0",
		"docs":    "/swagger",
	})
}

// Check returns service health including database connectivity
// @Summary Health check
// @Description Returns service status, uptime and database connectivity
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "up"
	status := fiber.StatusOK
	if err := config.HealthCheck(); err != nil {
		dbStatus = "down"
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status":   dbStatus,
		"uptime":   time.Since(h.startTime).String(),
		"database": dbStatus,
		"time":     time.Now().Format(time.RFC3339),
	})
}
