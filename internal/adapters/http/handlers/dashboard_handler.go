package handlers

import (
	"palika-console/internal/core/services"
	"palika-console/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles the overview screen figures
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats returns record counts and budget totals
// @Summary Dashboard statistics
// @Description Counts of departments, reports, budgets and users plus allocated/spent/remaining budget totals
// @Tags dashboard
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} response.Response
// @Router /dashboard [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetStats(c.UserContext())
	if err != nil {
		return response.InternalServerError(c, "Failed to gather dashboard statistics")
	}
	return response.Success(c, "", stats)
}
