// Package dto holds the request and response shapes of the JSON API.
//
// Inputs use pointer fields where PATCH must tell an absent field from a
// zero value. Validate methods return nil or the violations keyed by JSON
// field name. Apply methods copy validated input onto a model.
package dto

import (
	"strings"

	"github.com/diewo77/go-recipes/validation"
)

var validate = validation.New()

// check runs the struct tags of s.
func check(s any) validation.Violations {
	v, err := validate.Struct(s)
	if err != nil {
		return validation.Violations{"non_field_errors": "invalid"}
	}
	if v == nil {
		return validation.Violations{}
	}
	return v
}

// requiredString flags a missing or blank value. Absent values are only
// accepted when partial is set.
func requiredString(field string, value *string, partial bool, v validation.Violations) {
	if value == nil {
		if !partial {
			v.Add(field, "required")
		}
		return
	}
	validation.Required(field, *value, v)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func orNil(v validation.Violations) validation.Violations {
	if v.Empty() {
		return nil
	}
	return v
}
