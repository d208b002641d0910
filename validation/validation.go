package validation

import (
	"math"
	"strings"
)

// Violations maps a JSON field name to a short violation code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records msg for field unless the field already has a violation.
func (v Violations) Add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

// Merge copies the violations of other into v, keeping existing entries.
func (v Violations) Merge(other Violations) {
	for field, msg := range other {
		v.Add(field, msg)
	}
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "required")
	}
}

func NonNegativeInt(field string, val int, v Violations) {
	if val < 0 {
		v.Add(field, "must_not_be_negative")
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if math.IsNaN(val) || val < minVal || val > maxVal {
		v.Add(field, "out_of_range")
	}
}
