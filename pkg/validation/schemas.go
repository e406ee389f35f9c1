package validation

// Form schemas for every console screen. Rules mirror the forms
// rendered by the web console: the same checks run on field change
// there and on the server before any write.

// LoginSchema validates the sign-in form.
var LoginSchema = Schema{Fields: []Field{
	{Name: "email", Rules: []Rule{
		Required("Email is required"),
		Email("Enter a valid email address"),
	}},
	{Name: "password", Rules: []Rule{
		Required("Password is required"),
		MinLen(6, "Password must be at least 6 characters"),
	}},
}}

// DepartmentSchema validates department create/edit forms.
var DepartmentSchema = Schema{Fields: []Field{
	{Name: "name", Rules: []Rule{Required("Department name is required")}},
	{Name: "code", Rules: []Rule{Required("Department code is required")}},
	{Name: "head", Rules: []Rule{Required("Department head is required")}},
	{Name: "description", Rules: []Rule{Required("Description is required")}},
}}

// ReportSchema validates progress report create/edit forms.
var ReportSchema = Schema{Fields: []Field{
	{Name: "department", Rules: []Rule{Required("Select a department")}},
	{Name: "month", Rules: []Rule{
		Required("Select a month"),
		Min(1, "Month must be between 1 and 12"),
		Max(12, "Month must be between 1 and 12"),
	}},
	{Name: "year", Rules: []Rule{
		Required("Year is required"),
		Numeric("Year must be a number"),
	}},
	{Name: "title", Rules: []Rule{Required("Title is required")}},
	{Name: "description", Rules: []Rule{Required("Description is required")}},
	{Name: "progress", Rules: []Rule{
		Required("Progress is required"),
		Min(0, "Progress must be between 0 and 100"),
		Max(100, "Progress must be between 0 and 100"),
	}},
}}

// ReportStatuses are the accepted report status values.
var ReportStatuses = []string{"pending", "in-progress", "completed", "delayed"}

// BudgetSchema validates fiscal-year budget create/edit forms.
var BudgetSchema = Schema{Fields: []Field{
	{Name: "department", Rules: []Rule{Required("Select a department")}},
	{Name: "fiscalYear", Rules: []Rule{Required("Fiscal year is required")}},
	{Name: "totalBudget", Rules: []Rule{
		Required("Total budget is required"),
		Min(0, "Total budget must be zero or more"),
	}},
	{Name: "allocatedBudget", Rules: []Rule{
		Required("Allocated budget is required"),
		Min(0, "Allocated budget must be zero or more"),
	}},
}}

// BudgetStatuses are the accepted budget status values.
var BudgetStatuses = []string{"active", "completed", "cancelled"}

// ExpenditureSchema validates the add-expenditure form.
var ExpenditureSchema = Schema{Fields: []Field{
	{Name: "amount", Rules: []Rule{
		Required("Amount is required"),
		Min(0, "Amount must be zero or more"),
	}},
	{Name: "description", Rules: []Rule{Required("Description is required")}},
	{Name: "date", Rules: []Rule{Required("Date is required")}},
}}

// UserSchema validates user create/edit forms. Password is only
// required when creating; department only when the role is staff.
var UserSchema = Schema{Fields: []Field{
	{Name: "name", Rules: []Rule{Required("Name is required")}},
	{Name: "email", Rules: []Rule{
		Required("Email is required"),
		Email("Enter a valid email address"),
	}},
	{Name: "password", Rules: []Rule{
		RequiredOnCreate("id", "Password is required"),
		MinLen(6, "Password must be at least 6 characters"),
	}},
	{Name: "role", Rules: []Rule{
		Required("Select a role"),
		OneOf([]string{"admin", "department_head", "staff"}, "Invalid role"),
	}},
	{Name: "department", Rules: []Rule{
		RequiredIf("role", "staff", "Select a department"),
	}},
}}
