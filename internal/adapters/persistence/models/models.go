package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents the users table
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:100;not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password     string         `gorm:"size:255;not null" json:"-"`
	Role         string         `gorm:"size:20;default:'staff'" json:"role"`
	DepartmentID *uint          `gorm:"index" json:"department_id"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	LastLogin    *time.Time     `json:"last_login"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID             uint       `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	DepartmentID   *uint      `json:"department_id"`
	DepartmentName string     `json:"department_name,omitempty"`
	IsActive       bool       `json:"is_active"`
	LastLogin      *time.Time `json:"last_login"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		DepartmentID: u.DepartmentID,
		IsActive:     u.IsActive,
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt,
	}
	if u.Department != nil {
		resp.DepartmentName = u.Department.Name
	}
	return resp
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Municipal Records
// ============================================================

// Department represents the departments table
type Department struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Code        string         `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Head        string         `gorm:"size:100;not null" json:"head"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Department) TableName() string {
	return "departments"
}

// Report represents the reports table (monthly progress reports)
type Report struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	DepartmentID uint           `gorm:"not null;index" json:"department_id"`
	Month        int            `gorm:"not null" json:"month"`
	Year         int            `gorm:"not null" json:"year"`
	Title        string         `gorm:"size:200;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Progress     int            `gorm:"not null;default:0" json:"progress"`
	Status       string         `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedByID  uint           `gorm:"not null" json:"created_by_id"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	CreatedBy  *User       `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

func (Report) TableName() string {
	return "reports"
}

// ReportResponse DTO
type ReportResponse struct {
	ID             uint      `json:"id"`
	DepartmentID   uint      `json:"department_id"`
	DepartmentName string    `json:"department_name,omitempty"`
	Month          int       `json:"month"`
	Year           int       `json:"year"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Progress       int       `json:"progress"`
	Status         string    `json:"status"`
	CreatedByID    uint      `json:"created_by_id"`
	CreatedByName  string    `json:"created_by_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (r *Report) ToResponse() *ReportResponse {
	resp := &ReportResponse{
		ID:           r.ID,
		DepartmentID: r.DepartmentID,
		Month:        r.Month,
		Year:         r.Year,
		Title:        r.Title,
		Description:  r.Description,
		Progress:     r.Progress,
		Status:       r.Status,
		CreatedByID:  r.CreatedByID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.Department != nil {
		resp.DepartmentName = r.Department.Name
	}
	if r.CreatedBy != nil {
		resp.CreatedByName = r.CreatedBy.Name
	}
	return resp
}

// Budget represents the budgets table (one row per department per fiscal year)
type Budget struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	DepartmentID    uint            `gorm:"not null;index" json:"department_id"`
	FiscalYear      string          `gorm:"size:20;not null;index" json:"fiscal_year"`
	TotalBudget     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_budget"`
	AllocatedBudget decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"allocated_budget"`
	Status          string          `gorm:"size:20;not null;default:'active'" json:"status"`
	CreatedByID     uint            `gorm:"not null" json:"created_by_id"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	Department   *Department   `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	CreatedBy    *User         `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Expenditures []Expenditure `gorm:"foreignKey:BudgetID" json:"expenditures"`
}

func (Budget) TableName() string {
	return "budgets"
}

// Expenditure represents the expenditures table (spending lines per budget)
type Expenditure struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	BudgetID     uint            `gorm:"not null;index" json:"budget_id"`
	Category     string          `gorm:"size:50" json:"category"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date         time.Time       `gorm:"type:date;not null" json:"date"`
	Description  string          `gorm:"type:text;not null" json:"description"`
	BillNumber   string          `gorm:"size:50" json:"bill_number,omitempty"`
	ApprovedByID uint            `gorm:"not null" json:"approved_by_id"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`

	Budget     *Budget `gorm:"foreignKey:BudgetID" json:"-"`
	ApprovedBy *User   `gorm:"foreignKey:ApprovedByID" json:"approved_by,omitempty"`
}

func (Expenditure) TableName() string {
	return "expenditures"
}

// BudgetResponse DTO
type BudgetResponse struct {
	ID              uint                  `json:"id"`
	DepartmentID    uint                  `json:"department_id"`
	DepartmentName  string                `json:"department_name,omitempty"`
	FiscalYear      string                `json:"fiscal_year"`
	TotalBudget     decimal.Decimal       `json:"total_budget"`
	AllocatedBudget decimal.Decimal       `json:"allocated_budget"`
	SpentBudget     decimal.Decimal       `json:"spent_budget"`
	Status          string                `json:"status"`
	CreatedByID     uint                  `json:"created_by_id"`
	CreatedByName   string                `json:"created_by_name,omitempty"`
	Expenditures    []ExpenditureResponse `json:"expenditures"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// ExpenditureResponse DTO
type ExpenditureResponse struct {
	ID             uint            `json:"id"`
	Category       string          `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	BillNumber     string          `json:"bill_number,omitempty"`
	ApprovedByID   uint            `json:"approved_by_id"`
	ApprovedByName string          `json:"approved_by_name,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (e *Expenditure) ToResponse() *ExpenditureResponse {
	resp := &ExpenditureResponse{
		ID:           e.ID,
		Category:     e.Category,
		Amount:       e.Amount,
		Date:         e.Date,
		Description:  e.Description,
		BillNumber:   e.BillNumber,
		ApprovedByID: e.ApprovedByID,
		CreatedAt:    e.CreatedAt,
	}
	if e.ApprovedBy != nil {
		resp.ApprovedByName = e.ApprovedBy.Name
	}
	return resp
}

// SpentBudget sums the budget's expenditure amounts.
func (b *Budget) SpentBudget() decimal.Decimal {
	spent := decimal.Zero
	for _, e := range b.Expenditures {
		spent = spent.Add(e.Amount)
	}
	return spent
}

func (b *Budget) ToResponse() *BudgetResponse {
	resp := &BudgetResponse{
		ID:              b.ID,
		DepartmentID:    b.DepartmentID,
		FiscalYear:      b.FiscalYear,
		TotalBudget:     b.TotalBudget,
		AllocatedBudget: b.AllocatedBudget,
		SpentBudget:     b.SpentBudget(),
		Status:          b.Status,
		CreatedByID:     b.CreatedByID,
		Expenditures:    make([]ExpenditureResponse, 0, len(b.Expenditures)),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.Department != nil {
		resp.DepartmentName = b.Department.Name
	}
	if b.CreatedBy != nil {
		resp.CreatedByName = b.CreatedBy.Name
	}
	for i := range b.Expenditures {
		resp.Expenditures = append(resp.Expenditures, *b.Expenditures[i].ToResponse())
	}
	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Department{},
		&Report{},
		&Budget{},
		&Expenditure{},
	)
}
