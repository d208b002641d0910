package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Price bounds of a decimal(5,2) column.
const (
	MinPrice = 0
	MaxPrice = 999.99
)

var (
	errPriceFormat   = errors.New("invalid_number")
	errPriceDecimals = errors.New("too_many_decimals")
)

// Price renders as a string with two decimals, e.g. "5.00".
type Price float64

func (p Price) String() string { return strconv.FormatFloat(float64(p), 'f', 2, 64) }

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}

// ParsePrice reads a JSON number or numeric string with at most two decimals.
func ParsePrice(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	var text string
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, errPriceFormat
		}
		text = strings.TrimSpace(text)
	} else {
		text = string(raw)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errPriceFormat
	}
	if cents := v * 100; math.Abs(cents-math.Round(cents)) > 1e-6 {
		return 0, errPriceDecimals
	}
	return math.Round(v*100) / 100, nil
}
