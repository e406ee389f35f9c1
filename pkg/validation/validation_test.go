package validation

import (
	"testing"
)

func TestRequired(t *testing.T) {
	cases := []struct {
		value interface{}
		fails bool
	}{
		{nil, true},
		{"", true},
		{"   ", true},
		{"x", false},
		{0, false},
	}
	for _, c := range cases {
		got := Required("required")(Values{"f": c.value}, "f")
		if (got != "") != c.fails {
			t.Errorf("Required(%v) fail = %v, want %v", c.value, got != "", c.fails)
		}
	}
}

func TestEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@com", "plain"}
	for _, e := range valid {
		if msg := Email("bad")(Values{"email": e}, "email"); msg != "" {
			t.Errorf("Email(%q) failed, want pass", e)
		}
	}
	for _, e := range invalid {
		if msg := Email("bad")(Values{"email": e}, "email"); msg == "" {
			t.Errorf("Email(%q) passed, want fail", e)
		}
	}
}

func TestMinMaxCoercion(t *testing.T) {
	cases := []struct {
		value interface{}
		min   float64
		max   float64
		fails bool
	}{
		{50, 0, 100, false},
		{"50", 0, 100, false},
		{-5, 0, 100, true},
		{"101", 0, 100, true},
		{150.5, 0, 100, true},
		{"abc", 0, 100, true},
	}
	for _, c := range cases {
		v := Values{"n": c.value}
		failed := Min(c.min, "low")(v, "n") != "" || Max(c.max, "high")(v, "n") != ""
		if failed != c.fails {
			t.Errorf("bounds(%v) fail = %v, want %v", c.value, failed, c.fails)
		}
	}
}

func TestRequiredIf(t *testing.T) {
	rule := RequiredIf("role", "staff", "department needed")

	if msg := rule(Values{"role": "staff", "department": ""}, "department"); msg == "" {
		t.Error("staff without department passed, want fail")
	}
	if msg := rule(Values{"role": "staff", "department": "1"}, "department"); msg != "" {
		t.Error("staff with department failed, want pass")
	}
	if msg := rule(Values{"role": "admin", "department": ""}, "department"); msg != "" {
		t.Error("admin without department failed, want pass")
	}
}

func TestRequiredOnCreate(t *testing.T) {
	rule := RequiredOnCreate("id", "password needed")

	// Create: no id yet, password mandatory.
	if msg := rule(Values{"id": "", "password": ""}, "password"); msg == "" {
		t.Error("create without password passed, want fail")
	}
	// Edit: id present, blank password means "keep current".
	if msg := rule(Values{"id": "7", "password": ""}, "password"); msg != "" {
		t.Error("edit without password failed, want pass")
	}
}

func TestUserSchema(t *testing.T) {
	// A valid staff user on create.
	errs := UserSchema.Validate(Values{
		"name":       "Sita Sharma",
		"email":      "sita@palika.gov.np",
		"password":   "secret1",
		"role":       "staff",
		"department": "2",
	})
	if errs != nil {
		t.Fatalf("valid user rejected: %v", errs)
	}

	// Staff without a department must fail on exactly that field.
	errs = UserSchema.Validate(Values{
		"name":     "Sita Sharma",
		"email":    "sita@palika.gov.np",
		"password": "secret1",
		"role":     "staff",
	})
	if _, ok := errs["department"]; !ok {
		t.Fatalf("expected department error, got %v", errs)
	}
}

func TestExpenditureSchemaRejectsNegativeAmount(t *testing.T) {
	errs := ExpenditureSchema.Validate(Values{
		"amount":      -5,
		"description": "Stationery",
		"date":        "2026-04-01",
	})
	if _, ok := errs["amount"]; !ok {
		t.Fatalf("expected amount error, got %v", errs)
	}
}

func TestValidateFieldOnlyChecksNamedField(t *testing.T) {
	v := Values{"title": "", "progress": 250}
	if msg := ReportSchema.ValidateField(v, "title"); msg == "" {
		t.Error("blank title passed, want fail")
	}
	if msg := ReportSchema.ValidateField(v, "description"); msg != "" {
		t.Error("untouched description reported an error")
	}
}
