package handlers

import (
	"errors"

	"palika-console/internal/core/services"
	"palika-console/internal/pkg/response"
	"palika-console/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// DepartmentHandler handles department requests
type DepartmentHandler struct {
	deptService *services.DepartmentService
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(deptService *services.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptService: deptService}
}

func departmentValues(input *services.DepartmentInput) validation.Values {
	return validation.Values{
		"name":        input.Name,
		"code":        input.Code,
		"head":        input.Head,
		"description": input.Description,
	}
}

// List returns all departments
// @Summary List departments
// @Tags departments
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} response.Response
// @Router /departments [get]
func (h *DepartmentHandler) List(c *fiber.Ctx) error {
	departments, err := h.deptService.ListDepartments(c.UserContext())
	if err != nil {
		return response.InternalServerError(c, "Failed to list departments")
	}
	return response.Success(c, "", departments)
}

// Get returns one department
// @Summary Get department
// @Tags departments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Department ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /departments/{id} [get]
func (h *DepartmentHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid department ID")
	}

	dept, err := h.deptService.GetDepartment(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrDepartmentNotFound) {
			return response.NotFound(c, "Department not found")
		}
		return response.InternalServerError(c, "Failed to get department")
	}
	return response.Success(c, "", dept)
}

// Create creates a department (admin only)
// @Summary Create department
// @Tags departments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body services.DepartmentInput true "Department data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /departments [post]
func (h *DepartmentHandler) Create(c *fiber.Ctx) error {
	// 1. Parse request body
	var input services.DepartmentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// 2. Validate
	if errs := validation.DepartmentSchema.Validate(departmentValues(&input)); errs != nil {
		return response.ValidationFailed(c, errs)
	}

	// 3. Create
	dept, err := h.deptService.CreateDepartment(c.UserContext(), &input)
	if err != nil {
		if errors.Is(err, services.ErrDepartmentCodeExists) {
			return response.Conflict(c, "Department code already in use")
		}
		return response.InternalServerError(c, "Failed to create department")
	}

	return response.Created(c, "Department created", dept)
}

// Update updates a department (admin only)
// @Summary Update department
// @Tags departments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Department ID"
// @Param request body services.DepartmentInput true "Department data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /departments/{id} [put]
func (h *DepartmentHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid department ID")
	}

	var input services.DepartmentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if errs := validation.DepartmentSchema.Validate(departmentValues(&input)); errs != nil {
		return response.ValidationFailed(c, errs)
	}

	dept, err := h.deptService.UpdateDepartment(c.UserContext(), id, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDepartmentNotFound):
			return response.NotFound(c, "Department not found")
		case errors.Is(err, services.ErrDepartmentCodeExists):
			return response.Conflict(c, "Department code already in use")
		default:
			return response.InternalServerError(c, "Failed to update department")
		}
	}

	return response.Success(c, "Department updated", dept)
}

// Delete deletes a department (admin only)
// @Summary Delete department
// @Tags departments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Department ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /departments/{id} [delete]
func (h *DepartmentHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid department ID")
	}

	if err := h.deptService.DeleteDepartment(c.UserContext(), id); err != nil {
		if errors.Is(err, services.ErrDepartmentNotFound) {
			return response.NotFound(c, "Department not found")
		}
		return response.InternalServerError(c, "Failed to delete department")
	}

	return response.Success(c, "Department deleted", nil)
}
