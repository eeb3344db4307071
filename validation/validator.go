package validation

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/kbukum/deckurl/errors"
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates FieldErrors across chained checks.
type Validator struct {
	errs []FieldError
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{}
}

// AddError records a failure for field.
func (v *Validator) AddError(field, message string) {
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool { return len(v.errs) > 0 }

// Errors returns the failures in the order they were recorded.
func (v *Validator) Errors() []FieldError { return v.errs }

// Validate returns nil or an INVALID_INPUT error listing every failure.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}
	return fieldsError(v.errs)
}

// Err is Validate typed as error, so a success compares equal to nil.
func (v *Validator) Err() error {
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Custom records message unless ok.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}

// Required rejects empty and whitespace-only values.
func (v *Validator) Required(field, value string) *Validator {
	return v.Custom(strings.TrimSpace(value) != "", field, "is required")
}

// MaxLength rejects values longer than maxLen bytes.
func (v *Validator) MaxLength(field, value string, maxLen int) *Validator {
	return v.Custom(len(value) <= maxLen, field, fmt.Sprintf("must be %d characters or less", maxLen))
}

// NoControlChars rejects values containing control characters.
func (v *Validator) NoControlChars(field, value string) *Validator {
	return v.Custom(!strings.ContainsFunc(value, unicode.IsControl), field, "must not contain control characters")
}

// OneOf rejects a non-empty value outside allowed.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	ok := value == "" || slices.Contains(allowed, value)
	return v.Custom(ok, field, "must be one of: "+strings.Join(allowed, ", "))
}

// Required checks a single field.
func Required(field, value string) error {
	return New().Required(field, value).Err()
}

func fieldsError(fields []FieldError) *errors.AppError {
	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return errors.Validation(strings.Join(msgs, "; ")).WithDetail("fields", fields)
}
