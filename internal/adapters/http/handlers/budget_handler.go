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

// BudgetHandler handles fiscal-year budget requests
type BudgetHandler struct {
	budgetService *services.BudgetService
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budgetService *services.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// List returns budgets, optionally filtered by department, fiscal year
// and status query parameters
// @Summary List budgets
// @Tags budgets
// @Produce json
// @Security ApiKeyAuth
// @Param department_id query int false "Filter by department"
// @Param fiscal_year query string false "Filter by fiscal year"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Response
// @Router /budgets [get]
func (h *BudgetHandler) List(c *fiber.Ctx) error {
	filter := &repositories.BudgetFilter{
		FiscalYear: c.Query("fiscal_year"),
		Status:     c.Query("status"),
	}
	if v, err := strconv.Atoi(c.Query("department_id", "0")); err == nil && v > 0 {
		filter.DepartmentID = uint(v)
	}

	budgets, err := h.budgetService.ListBudgets(c.UserContext(), filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to list budgets")
	}
	return response.Success(c, "", budgets)
}

// Get returns one budget with its expenditure lines
// @Summary Get budget
// @Tags budgets
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Budget ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /budgets/{id} [get]
func (h *BudgetHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid budget ID")
	}

	budget, err := h.budgetService.GetBudget(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrBudgetNotFound) {
			return response.NotFound(c, "Budget not found")
		}
		return response.InternalServerError(c, "Failed to get budget")
	}
	return response.Success(c, "", budget)
}

// Create creates a fiscal-year budget (admin only)
// @Summary Create budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body services.BudgetInput true "Budget data"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /budgets [post]
func (h *BudgetHandler) Create(c *fiber.Ctx) error {
	// 1. Parse request body
	var input services.BudgetInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// 2. Validate
	if errs := validation.BudgetSchema.Validate(validation.Values{
		"department":      numField(input.DepartmentID),
		"fiscalYear":      input.FiscalYear,
		"totalBudget":     input.TotalBudget.String(),
		"allocatedBudget": input.AllocatedBudget.String(),
	}); errs != nil {
		return response.ValidationFailed(c, errs)
	}

	// 3. Create on behalf of the caller
	budget, err := h.budgetService.CreateBudget(c.UserContext(), currentUserID(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownDepartment):
			return response.BadRequest(c, "Department not found")
		case errors.Is(err, services.ErrNegativeAmount):
			return response.BadRequest(c, "Budget figures cannot be negative")
		case errors.Is(err, services.ErrInvalidBudgetStatus):
			return response.BadRequest(c, "Invalid budget status")
		default:
			return response.InternalServerError(c, "Failed to create budget")
		}
	}

	return response.Created(c, "Budget created", budget)
}

// Update updates a budget's figures and status (admin only)
// @Summary Update budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Budget ID"
// @Param request body services.UpdateBudgetInput true "Budget data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /budgets/{id} [put]
func (h *BudgetHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid budget ID")
	}

	var input services.UpdateBudgetInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate only the fields being changed; a status-only update
	// carries none of the figure fields. The status value itself is
	// checked by the service.
	vals := validation.Values{}
	if input.DepartmentID != nil {
		vals["department"] = numField(*input.DepartmentID)
	}
	if input.FiscalYear != nil {
		vals["fiscalYear"] = *input.FiscalYear
	}
	if input.TotalBudget != nil {
		vals["totalBudget"] = input.TotalBudget.String()
	}
	if input.AllocatedBudget != nil {
		vals["allocatedBudget"] = input.AllocatedBudget.String()
	}
	var partial validation.Schema
	for _, f := range validation.BudgetSchema.Fields {
		if _, ok := vals[f.Name]; ok {
			partial.Fields = append(partial.Fields, f)
		}
	}
	if errs := partial.Validate(vals); errs != nil {
		return response.ValidationFailed(c, errs)
	}

	budget, err := h.budgetService.UpdateBudget(c.UserContext(), id, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBudgetNotFound):
			return response.NotFound(c, "Budget not found")
		case errors.Is(err, services.ErrUnknownDepartment):
			return response.BadRequest(c, "Department not found")
		case errors.Is(err, services.ErrNegativeAmount):
			return response.BadRequest(c, "Budget figures cannot be negative")
		case errors.Is(err, services.ErrInvalidBudgetStatus):
			return response.BadRequest(c, "Invalid budget status")
		default:
			return response.InternalServerError(c, "Failed to update budget")
		}
	}

	return response.Success(c, "Budget updated", budget)
}

// AddExpenditure appends a spending line to a budget
// @Summary Add expenditure
// @Tags budgets
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Budget ID"
// @Param request body services.ExpenditureInput true "Expenditure data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /budgets/{id}/expenditure [put]
func (h *BudgetHandler) AddExpenditure(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid budget ID")
	}

	var input services.ExpenditureInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// The date maps through its zero check, not IsEmpty
	var dateValue interface{}
	if !input.Date.IsZero() {
		dateValue = input.Date.Format("2006-01-02")
	}
	if errs := validation.ExpenditureSchema.Validate(validation.Values{
		"amount":      input.Amount.String(),
		"description": input.Description,
		"date":        dateValue,
	}); errs != nil {
		return response.ValidationFailed(c, errs)
	}

	budget, err := h.budgetService.AddExpenditure(c.UserContext(), id, currentUserID(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBudgetNotFound):
			return response.NotFound(c, "Budget not found")
		case errors.Is(err, services.ErrNegativeAmount):
			return response.BadRequest(c, "Amount cannot be negative")
		default:
			return response.InternalServerError(c, "Failed to record expenditure")
		}
	}

	return response.Success(c, "Expenditure recorded", budget)
}
