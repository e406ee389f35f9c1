package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role represents a user role in the system
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleDepartmentHead Role = "department_head"
	RoleStaff          Role = "staff"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleDepartmentHead || r == RoleStaff
}

// Report statuses
const (
	ReportPending    = "pending"
	ReportInProgress = "in-progress"
	ReportCompleted  = "completed"
	ReportDelayed    = "delayed"
)

// Budget statuses
const (
	BudgetActive    = "active"
	BudgetCompleted = "completed"
	BudgetCancelled = "cancelled"
)

// User represents a municipal office user in the domain layer
type User struct {
	ID           uint
	Name         string
	Email        string
	Password     string // Hashed
	Role         Role
	DepartmentID *uint
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Department represents a municipal department
type Department struct {
	ID          uint
	Name        string
	Code        string // Unique short code, e.g. "HLT"
	Head        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Report represents a monthly progress report filed by a department
type Report struct {
	ID           uint
	DepartmentID uint
	Month        int // Fiscal month, 1-12
	Year         int
	Title        string
	Description  string
	Progress     int // 0-100
	Status       string
	CreatedByID  uint
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Budget represents a department budget for one fiscal year
type Budget struct {
	ID              uint
	DepartmentID    uint
	FiscalYear      string // Label such as "2081/82"
	TotalBudget     decimal.Decimal
	AllocatedBudget decimal.Decimal
	Expenditures    []Expenditure
	Status          string
	CreatedByID     uint
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Expenditure represents one spending line inside a budget
type Expenditure struct {
	ID           uint
	BudgetID     uint
	Category     string
	Amount       decimal.Decimal
	Date         time.Time
	Description  string
	BillNumber   string
	ApprovedByID uint
	CreatedAt    time.Time
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RefreshToken represents a refresh token in the domain
type RefreshToken struct {
	ID        uint
	UserID    uint
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}
