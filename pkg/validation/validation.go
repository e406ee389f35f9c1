// Package validation implements the declarative form validation layer
// shared by the HTTP handlers and the console client. A Schema lists
// per-field rules (presence, numeric bounds, email format, cross-field
// conditions); evaluation is purely structural and never touches the
// network or the database.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Values holds a form's field values keyed by field name.
type Values map[string]interface{}

// Errors maps field names to the first failing rule's message.
type Errors map[string]string

func (e Errors) Error() string {
	var msgs []string
	for field, msg := range e {
		msgs = append(msgs, field+": "+msg)
	}
	return strings.Join(msgs, "; ")
}

// Rule checks one field within the full value set. It returns a
// user-facing message when the rule fails, or "" when it passes.
type Rule func(v Values, field string) string

// Field couples a field name with its ordered rules.
type Field struct {
	Name  string
	Rules []Rule
}

// Schema is an ordered set of field declarations.
type Schema struct {
	Fields []Field
}

// Validate evaluates every field and returns all failures.
// An empty result means the value set is acceptable.
func (s Schema) Validate(v Values) Errors {
	errs := Errors{}
	for _, f := range s.Fields {
		if msg := s.validateField(v, f); msg != "" {
			errs[f.Name] = msg
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateField evaluates the rules of a single declared field, used
// for on-change validation. A field whose key is absent from the value
// set has not been touched yet and stays quiet; the full Validate on
// submit still checks every declared field.
func (s Schema) ValidateField(v Values, name string) string {
	if _, present := v[name]; !present {
		return ""
	}
	for _, f := range s.Fields {
		if f.Name == name {
			return s.validateField(v, f)
		}
	}
	return ""
}

func (s Schema) validateField(v Values, f Field) string {
	for _, rule := range f.Rules {
		if msg := rule(v, f.Name); msg != "" {
			return msg
		}
	}
	return ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// IsEmpty reports whether a raw value is absent or blank.
func IsEmpty(raw interface{}) bool {
	if raw == nil {
		return true
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// toNumber coerces the numeric representations a form can produce.
func toNumber(raw interface{}) (float64, bool) {
	switch n := raw.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Required fails when the field is absent or blank.
func Required(msg string) Rule {
	return func(v Values, field string) string {
		if IsEmpty(v[field]) {
			return msg
		}
		return ""
	}
}

// Email fails when a present value is not a valid email address.
func Email(msg string) Rule {
	return func(v Values, field string) string {
		raw := v[field]
		if IsEmpty(raw) {
			return ""
		}
		s, ok := raw.(string)
		if !ok || !emailRegex.MatchString(strings.TrimSpace(s)) {
			return msg
		}
		return ""
	}
}

// Numeric fails when a present value cannot be read as a number.
func Numeric(msg string) Rule {
	return func(v Values, field string) string {
		if IsEmpty(v[field]) {
			return ""
		}
		if _, ok := toNumber(v[field]); !ok {
			return msg
		}
		return ""
	}
}

// Min fails when a present numeric value is below min.
func Min(min float64, msg string) Rule {
	return func(v Values, field string) string {
		if IsEmpty(v[field]) {
			return ""
		}
		n, ok := toNumber(v[field])
		if !ok || n < min {
			return msg
		}
		return ""
	}
}

// Max fails when a present numeric value is above max.
func Max(max float64, msg string) Rule {
	return func(v Values, field string) string {
		if IsEmpty(v[field]) {
			return ""
		}
		n, ok := toNumber(v[field])
		if !ok || n > max {
			return msg
		}
		return ""
	}
}

// MinLen fails when a present string is shorter than n characters.
func MinLen(n int, msg string) Rule {
	return func(v Values, field string) string {
		raw := v[field]
		if IsEmpty(raw) {
			return ""
		}
		s, ok := raw.(string)
		if !ok || len(s) < n {
			return msg
		}
		return ""
	}
}

// OneOf fails when a present value is not in the allowed set.
func OneOf(allowed []string, msg string) Rule {
	return func(v Values, field string) string {
		raw := v[field]
		if IsEmpty(raw) {
			return ""
		}
		s := fmt.Sprintf("%v", raw)
		for _, a := range allowed {
			if s == a {
				return ""
			}
		}
		return msg
	}
}

// RequiredIf makes the field required only when another field holds
// the given value ("department is required when role is staff").
func RequiredIf(other string, equals interface{}, msg string) Rule {
	return func(v Values, field string) string {
		got := fmt.Sprintf("%v", v[other])
		want := fmt.Sprintf("%v", equals)
		if got == want && IsEmpty(v[field]) {
			return msg
		}
		return ""
	}
}

// RequiredOnCreate makes the field required only when the value set
// has no identity yet ("password is required on create, not on edit").
func RequiredOnCreate(idField, msg string) Rule {
	return func(v Values, field string) string {
		if IsEmpty(v[idField]) && IsEmpty(v[field]) {
			return msg
		}
		return ""
	}
}
