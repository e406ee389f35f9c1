package handlers

import (
	"errors"
	"strconv"

	"palika-console/internal/adapters/persistence/repositories"
	"palika-console/internal/core/services"
	"palika-console/internal/pkg/response"
	"palika-console/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles monthly progress report requests
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func reportValues(input *services.ReportInput) validation.Values {
	return validation.Values{
		"department":  numField(input.DepartmentID),
		"month":       numField(input.Month),
		"year":        numField(input.Year),
		"title":       input.Title,
		"description": input.Description,
		"progress":    input.Progress,
	}
}

// List returns reports, optionally filtered by department, month, year
// and status query parameters
// @Summary List reports
// @Tags reports
// @Produce json
// @Security ApiKeyAuth
// @Param department_id query int false "Filter by department"
// @Param month query int false "Filter by month (1-12)"
// @Param year query int false "Filter by year"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Response
// @Router /reports [get]
func (h *ReportHandler) List(c *fiber.Ctx) error {
	filter := &repositories.ReportFilter{
		Status: c.Query("status"),
	}
	if v, err := strconv.Atoi(c.Query("department_id", "0")); err == nil && v > 0 {
		filter.DepartmentID = uint(v)
	}
	if v, err := strconv.Atoi(c.Query("month", "0")); err == nil && v > 0 {
		filter.Month = v
	}
	if v, err := strconv.Atoi(c.Query("year", "0")); err == nil && v > 0 {
		filter.Year = v
	}

	reports, err := h.reportService.ListReports(c.UserContext(), filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to list reports")
	}
	return response.Success(c, "", reports)
}

// Get returns one report
// @Summary Get report
// @Tags reports
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Report ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reports/{id} [get]
func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid report ID")
	}

	report, err := h.reportService.GetReport(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return response.NotFound(c, "Report not found")
		}
		return response.InternalServerError(c, "Failed to get report")
	}
	return response.Success(c, "", report)
}

// Create files a new monthly report
// @Summary Create report
// @Tags reports
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body services.ReportInput true "Report data"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /reports [post]
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	// 1. Parse request body
	var input services.ReportInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// 2. Validate
	if errs := validation.ReportSchema.Validate(reportValues(&input)); errs != nil {
		return response.ValidationFailed(c, errs)
	}

	// 3. Create on behalf of the caller
	report, err := h.reportService.CreateReport(c.UserContext(), currentUserID(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownDepartment):
			return response.BadRequest(c, "Department not found")
		case errors.Is(err, services.ErrInvalidReportStatus):
			return response.BadRequest(c, "Invalid report status")
		default:
			return response.InternalServerError(c, "Failed to create report")
		}
	}

	return response.Created(c, "Report created", report)
}

// Update edits a report. The server re-checks that the caller is the
// creator or an admin regardless of what the client showed.
// @Summary Update report
// @Tags reports
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Report ID"
// @Param request body services.ReportInput true "Report data"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reports/{id} [put]
func (h *ReportHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid report ID")
	}

	var input services.ReportInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if errs := validation.ReportSchema.Validate(reportValues(&input)); errs != nil {
		return response.ValidationFailed(c, errs)
	}

	report, err := h.reportService.UpdateReport(c.UserContext(), id, currentUserID(c), currentRole(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReportNotFound):
			return response.NotFound(c, "Report not found")
		case errors.Is(err, services.ErrReportAccessDenied):
			return response.Forbidden(c, "Only the creator or an admin can edit this report")
		case errors.Is(err, services.ErrUnknownDepartment):
			return response.BadRequest(c, "Department not found")
		case errors.Is(err, services.ErrInvalidReportStatus):
			return response.BadRequest(c, "Invalid report status")
		default:
			return response.InternalServerError(c, "Failed to update report")
		}
	}

	return response.Success(c, "Report updated", report)
}

// Delete deletes a report (creator or admin)
// @Summary Delete report
// @Tags reports
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Report ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reports/{id} [delete]
func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid report ID")
	}

	if err := h.reportService.DeleteReport(c.UserContext(), id, currentUserID(c), currentRole(c)); err != nil {
		switch {
		case errors.Is(err, services.ErrReportNotFound):
			return response.NotFound(c, "Report not found")
		case errors.Is(err, services.ErrReportAccessDenied):
			return response.Forbidden(c, "Only the creator or an admin can delete this report")
		default:
			return response.InternalServerError(c, "Failed to delete report")
		}
	}

	return response.Success(c, "Report deleted", nil)
}
