package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	apperrors "github.com/kbukum/corebundle/errors"
)

// FieldError is the failure of one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Form collects field errors. The checks chain and never stop early.
type Form struct {
	errors []FieldError
}

// NewForm creates an empty Form.
func NewForm() *Form {
	return &Form{}
}

// AddError records a failure of field.
func (f *Form) AddError(field, message string) {
	f.errors = append(f.errors, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any check failed.
func (f *Form) HasErrors() bool {
	return len(f.errors) > 0
}

// Errors returns the failures in the order they were found.
func (f *Form) Errors() []FieldError {
	return f.errors
}

// Has reports whether field failed a check.
func (f *Form) Has(field string) bool {
	return slices.ContainsFunc(f.errors, func(e FieldError) bool { return e.Field == field })
}

// Err returns nil, or an INVALID_INPUT AppError carrying the failures.
func (f *Form) Err() error {
	if !f.HasErrors() {
		return nil
	}
	messages := make([]string, len(f.errors))
	for i, e := range f.errors {
		messages[i] = e.Field + ": " + e.Message
	}
	return apperrors.Validation(strings.Join(messages, "; ")).
		WithDetail("fields", f.errors)
}

// Required fails for blank values.
func (f *Form) Required(field, value string) *Form {
	if strings.TrimSpace(value) == "" {
		f.AddError(field, "is required")
	}
	return f
}

// MaxLength fails when value is longer than n bytes.
func (f *Form) MaxLength(field, value string, n int) *Form {
	if len(value) > n {
		f.AddError(field, fmt.Sprintf("must be at most %d characters", n))
	}
	return f
}

// Pattern fails when a non-empty value does not match re.
func (f *Form) Pattern(field, value string, re *regexp.Regexp) *Form {
	if value != "" && !re.MatchString(value) {
		f.AddError(field, "has an invalid format")
	}
	return f
}

// OneOf fails when a non-empty value is not in allowed.
func (f *Form) OneOf(field, value string, allowed ...string) *Form {
	if value != "" && !slices.Contains(allowed, value) {
		f.AddError(field, "must be one of: "+strings.Join(allowed, ", "))
	}
	return f
}

// Check fails field with message unless ok holds.
func (f *Form) Check(ok bool, field, message string) *Form {
	if !ok {
		f.AddError(field, message)
	}
	return f
}
