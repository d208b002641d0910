package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator runs validator/v10 struct tags and reports failures as
// Violations keyed by JSON field name.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that names fields after their json tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s. It returns nil when s is valid, the violations when
// tags failed, and a plain error when s could not be validated at all.
func (val *Validator) Struct(s any) (Violations, error) {
	err := val.v.Struct(s)
	if err == nil {
		return nil, nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}
	out := Violations{}
	for _, fe := range fieldErrs {
		out.Add(fe.Field(), code(fe))
	}
	return out, nil
}

func code(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "invalid_email"
	case "url", "http_url":
		return "invalid_url"
	case "min":
		if fe.Kind() == reflect.String {
			return "too_short"
		}
		return "too_small"
	case "max":
		if fe.Kind() == reflect.String {
			return "too_long"
		}
		return "too_large"
	case "gte", "gt":
		return "too_small"
	case "lte", "lt":
		return "too_large"
	default:
		return "invalid"
	}
}
