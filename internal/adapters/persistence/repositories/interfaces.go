package repositories

import (
	"context"

	"palika-console/internal/adapters/persistence/models"
)

// UserRepository defines the user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	TouchLastLogin(ctx context.Context, id uint) error
}

// RefreshTokenRepository defines the refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// DepartmentRepository defines the department repository interface
type DepartmentRepository interface {
	Create(ctx context.Context, dept *models.Department) error
	GetByID(ctx context.Context, id uint) (*models.Department, error)
	GetByCode(ctx context.Context, code string) (*models.Department, error)
	Update(ctx context.Context, dept *models.Department) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*models.Department, error)
	ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// ReportFilter narrows report listings (all fields optional)
type ReportFilter struct {
	DepartmentID uint
	Month        int
	Year         int
	Status       string
}

// ReportRepository defines the progress report repository interface
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	Update(ctx context.Context, report *models.Report) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter *ReportFilter) ([]*models.Report, error)
	MarkDelayed(ctx context.Context, beforeYear, beforeMonth int) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// BudgetFilter narrows budget listings (all fields optional)
type BudgetFilter struct {
	DepartmentID uint
	FiscalYear   string
	Status       string
}

// BudgetRepository defines the budget repository interface
type BudgetRepository interface {
	Create(ctx context.Context, budget *models.Budget) error
	GetByID(ctx context.Context, id uint) (*models.Budget, error)
	Update(ctx context.Context, budget *models.Budget) error
	List(ctx context.Context, filter *BudgetFilter) ([]*models.Budget, error)
	AddExpenditure(ctx context.Context, exp *models.Expenditure) error
	Count(ctx context.Context) (int64, error)
}
