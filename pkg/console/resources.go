package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"palika-console/pkg/validation"

	"github.com/shopspring/decimal"
)

// ErrSelfDelete short-circuits an attempt to delete the signed-in
// user's own account before any network call is made.
var ErrSelfDelete = errors.New("you cannot delete your own account")

// Form value coercion. Forms carry strings and numbers interchangeably;
// these readers normalize them for the request payloads.

func formString(form validation.Values, key string) string {
	if v, ok := form[key]; ok && v != nil {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func formInt(form validation.Values, key string) int {
	switch v := form[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case uint:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

func formUint(form validation.Values, key string) uint {
	n := formInt(form, key)
	if n < 0 {
		return 0
	}
	return uint(n)
}

func formDecimal(form validation.Values, key string) decimal.Decimal {
	switch v := form[key].(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case string:
		d, err := decimal.NewFromString(v)
		if err == nil {
			return d
		}
	}
	return decimal.Zero
}

// NewDepartmentController builds the Departments screen controller.
// Everyone sees the list; only admins may create, edit or delete.
func NewDepartmentController(client *Client, session *Session, notifier Notifier, confirmer Confirmer) *ListController[Department] {
	return NewListController(ControllerConfig[Department]{
		Name:   "department",
		Schema: validation.DepartmentSchema,
		API: ResourceAPI[Department]{
			List: client.ListDepartments,
			Create: func(ctx context.Context, form validation.Values) error {
				_, err := client.CreateDepartment(ctx, departmentInput(form))
				return err
			},
			Update: func(ctx context.Context, id uint, form validation.Values) error {
				_, err := client.UpdateDepartment(ctx, id, departmentInput(form))
				return err
			},
			Delete: client.DeleteDepartment,
		},
		ID: func(d Department) uint { return d.ID },
		Form: func(d Department) validation.Values {
			return validation.Values{
				"name":        d.Name,
				"code":        d.Code,
				"head":        d.Head,
				"description": d.Description,
			}
		},
		CanModify: func(Department) bool {
			return session.CurrentUser().IsAdmin()
		},
		Notifier:  notifier,
		Confirmer: confirmer,
	})
}

func departmentInput(form validation.Values) DepartmentInput {
	return DepartmentInput{
		Name:        formString(form, "name"),
		Code:        formString(form, "code"),
		Head:        formString(form, "head"),
		Description: formString(form, "description"),
	}
}

// NewReportController builds the Reports screen controller. Any
// signed-in user may file a report; editing is limited to the creator
// or an admin. Reports are never deleted from the console.
func NewReportController(client *Client, session *Session, notifier Notifier) *ListController[Report] {
	return NewListController(ControllerConfig[Report]{
		Name:   "report",
		Schema: validation.ReportSchema,
		API: ResourceAPI[Report]{
			List: func(ctx context.Context) ([]Report, error) {
				return client.ListReports(ctx, nil)
			},
			Create: func(ctx context.Context, form validation.Values) error {
				_, err := client.CreateReport(ctx, reportInput(form))
				return err
			},
			Update: func(ctx context.Context, id uint, form validation.Values) error {
				_, err := client.UpdateReport(ctx, id, reportInput(form))
				return err
			},
		},
		ID: func(r Report) uint { return r.ID },
		Form: func(r Report) validation.Values {
			return validation.Values{
				"department":  r.DepartmentID,
				"month":       r.Month,
				"year":        r.Year,
				"title":       r.Title,
				"description": r.Description,
				"progress":    r.Progress,
				"status":      r.Status,
			}
		},
		Defaults: func() validation.Values {
			now := time.Now()
			return validation.Values{
				"month":    int(now.Month()),
				"year":     now.Year(),
				"progress": 0,
				"status":   "pending",
			}
		},
		CanModify: func(r Report) bool {
			user := session.CurrentUser()
			if user == nil {
				return false
			}
			return user.IsAdmin() || r.CreatedByID == user.ID
		},
		Notifier: notifier,
	})
}

func reportInput(form validation.Values) ReportInput {
	return ReportInput{
		DepartmentID: formUint(form, "department"),
		Month:        formInt(form, "month"),
		Year:         formInt(form, "year"),
		Title:        formString(form, "title"),
		Description:  formString(form, "description"),
		Progress:     formInt(form, "progress"),
		Status:       formString(form, "status"),
	}
}

// NewBudgetController builds the Budgets screen controller. Only
// admins may create or edit; budgets are never deleted.
func NewBudgetController(client *Client, session *Session, notifier Notifier) *ListController[Budget] {
	return NewListController(ControllerConfig[Budget]{
		Name:   "budget",
		Schema: validation.BudgetSchema,
		API: ResourceAPI[Budget]{
			List: func(ctx context.Context) ([]Budget, error) {
				return client.ListBudgets(ctx, nil)
			},
			Create: func(ctx context.Context, form validation.Values) error {
				_, err := client.CreateBudget(ctx, budgetInput(form))
				return err
			},
			Update: func(ctx context.Context, id uint, form validation.Values) error {
				_, err := client.UpdateBudget(ctx, id, budgetInput(form))
				return err
			},
		},
		ID: func(b Budget) uint { return b.ID },
		Form: func(b Budget) validation.Values {
			return validation.Values{
				"department":      b.DepartmentID,
				"fiscalYear":      b.FiscalYear,
				"totalBudget":     b.TotalBudget.String(),
				"allocatedBudget": b.AllocatedBudget.String(),
				"status":          b.Status,
			}
		},
		Defaults: func() validation.Values {
			return validation.Values{"status": "active"}
		},
		CanModify: func(Budget) bool {
			return session.CurrentUser().IsAdmin()
		},
		Notifier: notifier,
	})
}

func budgetInput(form validation.Values) BudgetInput {
	return BudgetInput{
		DepartmentID:    formUint(form, "department"),
		FiscalYear:      formString(form, "fiscalYear"),
		TotalBudget:     formDecimal(form, "totalBudget"),
		AllocatedBudget: formDecimal(form, "allocatedBudget"),
		Status:          formString(form, "status"),
	}
}

// ExpenditureForm handles the add-expenditure modal on the budget
// screen. It follows the same validate-then-call contract as Submit:
// an invalid form never issues the PUT.
type ExpenditureForm struct {
	client   *Client
	notifier Notifier
}

// NewExpenditureForm creates the add-expenditure form handler
func NewExpenditureForm(client *Client, notifier Notifier) *ExpenditureForm {
	return &ExpenditureForm{client: client, notifier: notifier}
}

// Submit validates and appends one expenditure line to the budget
func (f *ExpenditureForm) Submit(ctx context.Context, budgetID uint, form validation.Values) error {
	if errs := validation.ExpenditureSchema.Validate(form); errs != nil {
		return errs
	}

	date, err := time.Parse("2006-01-02", formString(form, "date"))
	if err != nil {
		return validation.Errors{"date": "Enter a valid date (YYYY-MM-DD)"}
	}

	_, err = f.client.AddExpenditure(ctx, budgetID, ExpenditureInput{
		Category:    formString(form, "category"),
		Amount:      formDecimal(form, "amount"),
		Date:        date,
		Description: formString(form, "description"),
		BillNumber:  formString(form, "billNumber"),
	})
	if err != nil {
		f.notifier.Error(errorMessage(err))
		return err
	}

	f.notifier.Success("Expenditure recorded")
	return nil
}

// NewUserController builds the Users screen controller. The screen is
// admin-only server-side; the self-delete guard still short-circuits
// locally so no DELETE for the signed-in account ever leaves the
// client.
func NewUserController(client *Client, session *Session, notifier Notifier, confirmer Confirmer) *ListController[User] {
	return NewListController(ControllerConfig[User]{
		Name:   "user",
		Schema: validation.UserSchema,
		API: ResourceAPI[User]{
			List: client.ListUsers,
			Create: func(ctx context.Context, form validation.Values) error {
				_, err := client.CreateUser(ctx, userInput(form))
				return err
			},
			Update: func(ctx context.Context, id uint, form validation.Values) error {
				_, err := client.UpdateUser(ctx, id, userInput(form))
				return err
			},
			Delete: client.DeleteUser,
		},
		ID: func(u User) uint { return u.ID },
		Form: func(u User) validation.Values {
			form := validation.Values{
				"id":    u.ID,
				"name":  u.Name,
				"email": u.Email,
				"role":  u.Role,
			}
			if u.DepartmentID != nil {
				form["department"] = *u.DepartmentID
			}
			return form
		},
		Defaults: func() validation.Values {
			return validation.Values{"role": "staff"}
		},
		BeforeRemove: func(id uint) error {
			if user := session.CurrentUser(); user != nil && user.ID == id {
				return ErrSelfDelete
			}
			return nil
		},
		Notifier:  notifier,
		Confirmer: confirmer,
	})
}

func userInput(form validation.Values) UserInput {
	input := UserInput{
		Name:     formString(form, "name"),
		Email:    formString(form, "email"),
		Password: formString(form, "password"),
		Role:     formString(form, "role"),
	}
	if id := formUint(form, "department"); id > 0 {
		input.DepartmentID = &id
	}
	return input
}
