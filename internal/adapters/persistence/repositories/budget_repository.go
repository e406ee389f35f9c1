package repositories

import (
	"context"

	"palika-console/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// budgetRepository implements BudgetRepository interface
type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *gorm.DB) BudgetRepository {
	return &budgetRepository{db: db}
}

// Create creates a new budget
func (r *budgetRepository) Create(ctx context.Context, budget *models.Budget) error {
	return r.db.WithContext(ctx).Create(budget).Error
}

// GetByID gets a budget by ID with department, creator and expenditures
func (r *budgetRepository) GetByID(ctx context.Context, id uint) (*models.Budget, error) {
	var budget models.Budget
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("CreatedBy").
		Preload("Expenditures", func(db *gorm.DB) *gorm.DB {
			return db.Order("expenditures.date ASC, expenditures.id ASC")
		}).
		Preload("Expenditures.ApprovedBy").
		Where("id = ?", id).
		First(&budget).Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// Update updates a budget
func (r *budgetRepository) Update(ctx context.Context, budget *models.Budget) error {
	return r.db.WithContext(ctx).Save(budget).Error
}

// List lists budgets matching the filter, newest fiscal year first
func (r *budgetRepository) List(ctx context.Context, filter *BudgetFilter) ([]*models.Budget, error) {
	q := r.db.WithContext(ctx).
		Preload("Department").
		Preload("CreatedBy").
		Preload("Expenditures", func(db *gorm.DB) *gorm.DB {
			return db.Order("expenditures.date ASC, expenditures.id ASC")
		}).
		Preload("Expenditures.ApprovedBy").
		Order("fiscal_year DESC, id ASC")

	if filter != nil {
		if filter.DepartmentID > 0 {
			q = q.Where("department_id = ?", filter.DepartmentID)
		}
		if filter.FiscalYear != "" {
			q = q.Where("fiscal_year = ?", filter.FiscalYear)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
	}

	var budgets []*models.Budget
	if err := q.Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

// AddExpenditure appends one expenditure line to a budget. The insert
// runs in a transaction so a line cannot land on a budget deleted
// between the caller's load and the write.
func (r *budgetRepository) AddExpenditure(ctx context.Context, exp *models.Expenditure) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Budget{}).Where("id = ?", exp.BudgetID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(exp).Error
	})
}

// Count counts all budgets
func (r *budgetRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Budget{}).Count(&count).Error
	return count, err
}
