package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/deckurl/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(configKey)
	})
	return validate
}

// configKey names a field by its mapstructure key, falling back to the json
// tag and then to the snake_cased Go name.
func configKey(fld reflect.StructField) string {
	for _, tag := range []string{"mapstructure", "json"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return toSnakeCase(fld.Name)
}

// Validate checks s against its `validate` struct tags. Failures come back as
// one INVALID_INPUT error whose "fields" detail lists each dotted config path,
// e.g. "redis.addr".
func Validate(s any) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Validation("validation failed").WithCause(err)
	}

	fields := make([]FieldError, len(verrs))
	for i, e := range verrs {
		fields[i] = FieldError{Field: fieldPath(e), Message: ruleMessage(e)}
	}
	return fieldsError(fields)
}

var ruleMessages = map[string]func(param string) string{
	"required":      func(string) string { return "is required" },
	"url":           func(string) string { return "must be a valid URL" },
	"hostname_port": func(string) string { return "must be host:port" },
	"oneof":         func(p string) string { return "must be one of: " + p },
	"min":           func(p string) string { return "must be at least " + p + " characters" },
	"max":           func(p string) string { return "must be at most " + p + " characters" },
	"gte":           func(p string) string { return "must be at least " + p },
	"lte":           func(p string) string { return "must be at most " + p },
	"required_if":   func(p string) string { return "is required when " + strings.Replace(p, " ", " is ", 1) },
	"required_with": func(p string) string { return "is required with " + toSnakeCase(p) },
}

func ruleMessage(e validator.FieldError) string {
	if msg, ok := ruleMessages[e.Tag()]; ok {
		return msg(e.Param())
	}
	return "is invalid"
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(e validator.FieldError) string {
	if _, rest, ok := strings.Cut(e.Namespace(), "."); ok {
		return rest
	}
	return e.Field()
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
