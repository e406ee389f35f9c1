package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// TokenHeader is the header the backend reads the session token from.
const TokenHeader = "x-auth-token"

// Client is the API gateway client. Every outgoing request carries the
// stored session token in the x-auth-token header when one is present;
// without a token the request goes out unauthenticated. Resource
// methods are plain request/response mappings with no retry and no
// caching.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
}

// NewClient creates an API client for the given base URL, e.g.
// "http://localhost:5000/api/v1".
func NewClient(baseURL string, tokens TokenStore) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
	}
}

// SetHTTPClient swaps the underlying HTTP client, mainly for tests
func (c *Client) SetHTTPClient(h *http.Client) {
	c.http = h
}

// envelope is the server's standard response wrapper
type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

// do issues one request with the stored token attached
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	token, _ := c.tokens.Load()
	return c.doWithToken(ctx, method, path, token, body, out)
}

// doWithToken issues one request with an explicit token. Used during
// login, when the token exists but has not been persisted yet.
func (c *Client) doWithToken(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Transport failures surface as a generic message
		return &APIError{Message: "Unable to reach the server"}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{Status: resp.StatusCode}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		return &APIError{Status: resp.StatusCode, Message: msg, Fields: env.Fields}
	}

	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// ============================================================
// Auth
// ============================================================

// RegisterInput is the self-registration payload
type RegisterInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	DepartmentID *uint  `json:"department_id,omitempty"`
}

// Login authenticates and returns the token and user. The token is
// NOT persisted here; the Session does that once the whole login
// sequence succeeds.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates an account and returns the token and user
func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", input, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CurrentUser fetches the profile for the stored token
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUserWithToken fetches the profile for an explicit token
func (c *Client) CurrentUserWithToken(ctx context.Context, token string) (*User, error) {
	var user User
	if err := c.doWithToken(ctx, http.MethodGet, "/auth/user", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout revokes the session server-side
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// ============================================================
// Departments
// ============================================================

// DepartmentInput is the create/update payload for a department
type DepartmentInput struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Head        string `json:"head"`
	Description string `json:"description"`
}

func (c *Client) ListDepartments(ctx context.Context) ([]Department, error) {
	var departments []Department
	if err := c.do(ctx, http.MethodGet, "/departments", nil, &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

func (c *Client) CreateDepartment(ctx context.Context, input DepartmentInput) (*Department, error) {
	var dept Department
	if err := c.do(ctx, http.MethodPost, "/departments", input, &dept); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (c *Client) UpdateDepartment(ctx context.Context, id uint, input DepartmentInput) (*Department, error) {
	var dept Department
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/departments/%d", id), input, &dept); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (c *Client) DeleteDepartment(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/departments/%d", id), nil, nil)
}

// ============================================================
// Reports
// ============================================================

// ReportInput is the create/update payload for a monthly report
type ReportInput struct {
	DepartmentID uint   `json:"department_id"`
	Month        int    `json:"month"`
	Year         int    `json:"year"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Progress     int    `json:"progress"`
	Status       string `json:"status,omitempty"`
}

// ReportListFilter narrows ListReports; zero fields are omitted from
// the query string.
type ReportListFilter struct {
	DepartmentID uint
	Month        int
	Year         int
	Status       string
}

func (f *ReportListFilter) query() string {
	if f == nil {
		return ""
	}
	q := url.Values{}
	if f.DepartmentID > 0 {
		q.Set("department_id", strconv.FormatUint(uint64(f.DepartmentID), 10))
	}
	if f.Month > 0 {
		q.Set("month", strconv.Itoa(f.Month))
	}
	if f.Year > 0 {
		q.Set("year", strconv.Itoa(f.Year))
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ListReports fetches reports, narrowed by the filter when non-nil
func (c *Client) ListReports(ctx context.Context, filter *ReportListFilter) ([]Report, error) {
	var reports []Report
	if err := c.do(ctx, http.MethodGet, "/reports"+filter.query(), nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *Client) CreateReport(ctx context.Context, input ReportInput) (*Report, error) {
	var report Report
	if err := c.do(ctx, http.MethodPost, "/reports", input, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) UpdateReport(ctx context.Context, id uint, input ReportInput) (*Report, error) {
	var report Report
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/reports/%d", id), input, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) DeleteReport(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/reports/%d", id), nil, nil)
}

// ============================================================
// Budgets
// ============================================================

// BudgetInput is the create/update payload for a budget
type BudgetInput struct {
	DepartmentID    uint            `json:"department_id"`
	FiscalYear      string          `json:"fiscal_year"`
	TotalBudget     decimal.Decimal `json:"total_budget"`
	AllocatedBudget decimal.Decimal `json:"allocated_budget"`
	Status          string          `json:"status,omitempty"`
}

// ExpenditureInput is the payload for appending a spending line
type ExpenditureInput struct {
	Category    string          `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	BillNumber  string          `json:"bill_number,omitempty"`
}

// BudgetListFilter narrows ListBudgets; zero fields are omitted from
// the query string.
type BudgetListFilter struct {
	DepartmentID uint
	FiscalYear   string
	Status       string
}

func (f *BudgetListFilter) query() string {
	if f == nil {
		return ""
	}
	q := url.Values{}
	if f.DepartmentID > 0 {
		q.Set("department_id", strconv.FormatUint(uint64(f.DepartmentID), 10))
	}
	if f.FiscalYear != "" {
		q.Set("fiscal_year", f.FiscalYear)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ListBudgets fetches budgets, narrowed by the filter when non-nil
func (c *Client) ListBudgets(ctx context.Context, filter *BudgetListFilter) ([]Budget, error) {
	var budgets []Budget
	if err := c.do(ctx, http.MethodGet, "/budgets"+filter.query(), nil, &budgets); err != nil {
		return nil, err
	}
	return budgets, nil
}

func (c *Client) CreateBudget(ctx context.Context, input BudgetInput) (*Budget, error) {
	var budget Budget
	if err := c.do(ctx, http.MethodPost, "/budgets", input, &budget); err != nil {
		return nil, err
	}
	return &budget, nil
}

func (c *Client) UpdateBudget(ctx context.Context, id uint, input BudgetInput) (*Budget, error) {
	var budget Budget
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/budgets/%d", id), input, &budget); err != nil {
		return nil, err
	}
	return &budget, nil
}

func (c *Client) AddExpenditure(ctx context.Context, budgetID uint, input ExpenditureInput) (*Budget, error) {
	var budget Budget
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/budgets/%d/expenditure", budgetID), input, &budget); err != nil {
		return nil, err
	}
	return &budget, nil
}

// ============================================================
// Users
// ============================================================

// UserInput is the create/update payload for a user. Password may be
// empty on update to keep the current one.
type UserInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password,omitempty"`
	Role         string `json:"role"`
	DepartmentID *uint  `json:"department_id,omitempty"`
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, input UserInput) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/users", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, id uint, input UserInput) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}

// ============================================================
// Dashboard
// ============================================================

func (c *Client) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
