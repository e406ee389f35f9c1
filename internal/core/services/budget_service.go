package services

import (
	"context"
	"errors"
	"log"
	"time"

	"palika-console/internal/adapters/persistence/models"
	"palika-console/internal/adapters/persistence/repositories"
	"palika-console/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget errors
var (
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrInvalidBudgetStatus = errors.New("invalid budget status")
	ErrNegativeAmount      = errors.New("amount cannot be negative")
)

// BudgetService handles fiscal-year budget business logic
type BudgetService struct {
	budgetRepo repositories.BudgetRepository
	deptRepo   repositories.DepartmentRepository
}

// NewBudgetService creates a new budget service
func NewBudgetService(
	budgetRepo repositories.BudgetRepository,
	deptRepo repositories.DepartmentRepository,
) *BudgetService {
	return &BudgetService{
		budgetRepo: budgetRepo,
		deptRepo:   deptRepo,
	}
}

// BudgetInput represents input for creating a budget
type BudgetInput struct {
	DepartmentID    uint            `json:"department_id"`
	FiscalYear      string          `json:"fiscal_year"`
	TotalBudget     decimal.Decimal `json:"total_budget"`
	AllocatedBudget decimal.Decimal `json:"allocated_budget"`
	Status          string          `json:"status"`
}

// ExpenditureInput represents one spending line to append to a budget
type ExpenditureInput struct {
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	BillNumber  string          `json:"bill_number"`
}

func validBudgetStatus(status string) bool {
	switch status {
	case domain.BudgetActive, domain.BudgetCompleted, domain.BudgetCancelled:
		return true
	}
	return false
}

// ListBudgets lists budgets matching the filter
func (s *BudgetService) ListBudgets(ctx context.Context, filter *repositories.BudgetFilter) ([]*models.BudgetResponse, error) {
	budgets, err := s.budgetRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.BudgetResponse, 0, len(budgets))
	for _, b := range budgets {
		responses = append(responses, b.ToResponse())
	}
	return responses, nil
}

// GetBudget gets a budget by ID with its expenditure lines
func (s *BudgetService) GetBudget(ctx context.Context, id uint) (*models.BudgetResponse, error) {
	budget, err := s.budgetRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}
	return budget.ToResponse(), nil
}

// CreateBudget creates a fiscal-year budget for a department
func (s *BudgetService) CreateBudget(ctx context.Context, creatorID uint, input *BudgetInput) (*models.BudgetResponse, error) {
	// 1. Resolve the department
	if _, err := s.deptRepo.GetByID(ctx, input.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownDepartment
		}
		return nil, err
	}

	// 2. Figures must not be negative
	if input.TotalBudget.IsNegative() || input.AllocatedBudget.IsNegative() {
		return nil, ErrNegativeAmount
	}

	// 3. Default and validate status
	status := input.Status
	if status == "" {
		status = domain.BudgetActive
	}
	if !validBudgetStatus(status) {
		return nil, ErrInvalidBudgetStatus
	}

	// 4. Create
	budget := &models.Budget{
		DepartmentID:    input.DepartmentID,
		FiscalYear:      input.FiscalYear,
		TotalBudget:     input.TotalBudget,
		AllocatedBudget: input.AllocatedBudget,
		Status:          status,
		CreatedByID:     creatorID,
	}
	if err := s.budgetRepo.Create(ctx, budget); err != nil {
		return nil, err
	}

	created, err := s.budgetRepo.GetByID(ctx, budget.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Budget created: department %d, FY %s", budget.DepartmentID, budget.FiscalYear)
	return created.ToResponse(), nil
}

// UpdateBudgetInput carries a partial update. Nil fields keep their
// current values, which lets the console flip just the status.
type UpdateBudgetInput struct {
	DepartmentID    *uint            `json:"department_id"`
	FiscalYear      *string          `json:"fiscal_year"`
	TotalBudget     *decimal.Decimal `json:"total_budget"`
	AllocatedBudget *decimal.Decimal `json:"allocated_budget"`
	Status          *string          `json:"status"`
}

// UpdateBudget updates a budget's figures and status. Only the fields
// present in the input change.
func (s *BudgetService) UpdateBudget(ctx context.Context, id uint, input *UpdateBudgetInput) (*models.BudgetResponse, error) {
	// 1. Load
	budget, err := s.budgetRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}

	// 2. Department move
	if input.DepartmentID != nil && *input.DepartmentID != budget.DepartmentID {
		if _, err := s.deptRepo.GetByID(ctx, *input.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnknownDepartment
			}
			return nil, err
		}
		budget.DepartmentID = *input.DepartmentID
	}

	// 3. Figures, when provided, must not be negative
	if input.TotalBudget != nil {
		if input.TotalBudget.IsNegative() {
			return nil, ErrNegativeAmount
		}
		budget.TotalBudget = *input.TotalBudget
	}
	if input.AllocatedBudget != nil {
		if input.AllocatedBudget.IsNegative() {
			return nil, ErrNegativeAmount
		}
		budget.AllocatedBudget = *input.AllocatedBudget
	}

	// 4. Status
	if input.Status != nil && *input.Status != "" {
		if !validBudgetStatus(*input.Status) {
			return nil, ErrInvalidBudgetStatus
		}
		budget.Status = *input.Status
	}

	// 5. Fiscal year, then save
	if input.FiscalYear != nil && *input.FiscalYear != "" {
		budget.FiscalYear = *input.FiscalYear
	}

	if err := s.budgetRepo.Update(ctx, budget); err != nil {
		return nil, err
	}

	updated, err := s.budgetRepo.GetByID(ctx, budget.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Budget updated: ID %d (FY %s)", budget.ID, budget.FiscalYear)
	return updated.ToResponse(), nil
}

// AddExpenditure appends a spending line to a budget. approverID is the
// user recording the line.
func (s *BudgetService) AddExpenditure(ctx context.Context, budgetID, approverID uint, input *ExpenditureInput) (*models.BudgetResponse, error) {
	// 1. Load the budget
	budget, err := s.budgetRepo.GetByID(ctx, budgetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}

	// 2. Amount must not be negative
	if input.Amount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	// 3. Append the line
	exp := &models.Expenditure{
		BudgetID:     budget.ID,
		Category:     input.Category,
		Amount:       input.Amount,
		Date:         input.Date,
		Description:  input.Description,
		BillNumber:   input.BillNumber,
		ApprovedByID: approverID,
	}
	if err := s.budgetRepo.AddExpenditure(ctx, exp); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}

	// 4. Overruns are recorded, not rejected; finance reconciles them
	// against supplementary allocations later.
	spent := budget.SpentBudget().Add(input.Amount)
	if spent.GreaterThan(budget.AllocatedBudget) {
		log.Printf("⚠️ Budget %d (FY %s) overspent: %s spent of %s allocated",
			budget.ID, budget.FiscalYear, spent.String(), budget.AllocatedBudget.String())
	}

	updated, err := s.budgetRepo.GetByID(ctx, budget.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Expenditure recorded: budget %d, amount %s", budget.ID, input.Amount.String())
	return updated.ToResponse(), nil
}
