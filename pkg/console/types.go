// Package console is the client SDK behind the municipal admin console:
// session lifecycle, the authenticated API gateway client, the shared
// list-resource controller and the route guard. It talks to the REST
// API served by cmd/server and mirrors its response shapes.
package console

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// User mirrors the server's user response
type User struct {
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

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == "admin"
}

// Department mirrors the server's department response
type Department struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Head        string    `json:"head"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Report mirrors the server's report response
type Report struct {
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

// Expenditure mirrors one spending line in a budget response
type Expenditure struct {
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

// Budget mirrors the server's budget response
type Budget struct {
	ID              uint            `json:"id"`
	DepartmentID    uint            `json:"department_id"`
	DepartmentName  string          `json:"department_name,omitempty"`
	FiscalYear      string          `json:"fiscal_year"`
	TotalBudget     decimal.Decimal `json:"total_budget"`
	AllocatedBudget decimal.Decimal `json:"allocated_budget"`
	SpentBudget     decimal.Decimal `json:"spent_budget"`
	Status          string          `json:"status"`
	CreatedByID     uint            `json:"created_by_id"`
	Expenditures    []Expenditure   `json:"expenditures"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// DashboardStats mirrors the server's dashboard response
type DashboardStats struct {
	TotalDepartments int64 `json:"total_departments"`
	TotalReports     int64 `json:"total_reports"`
	TotalBudgets     int64 `json:"total_budgets"`
	TotalUsers       int64 `json:"total_users"`

	PendingReports   int64 `json:"pending_reports"`
	CompletedReports int64 `json:"completed_reports"`
	DelayedReports   int64 `json:"delayed_reports"`

	TotalAllocated  decimal.Decimal `json:"total_allocated"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
	RemainingBudget decimal.Decimal `json:"remaining_budget"`
}

// AuthResult is the payload of a successful login or registration
type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// APIError carries the server's message for a failed request
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// IsUnauthorized reports whether the failure was an auth rejection
func (e *APIError) IsUnauthorized() bool {
	return e.Status == 401
}
