package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Forgiving numeric fields. The clients send form-shaped JSON where numbers
// arrive as numbers, numeric strings, empty strings or garbage. Input that
// cannot be parsed is treated as absent and the per-field documented default
// applies instead of a validation error.

// FlexInt accepts a JSON number or string. Valid reports whether a usable
// integer was supplied.
type FlexInt struct {
	Value int
	Valid bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	// Accept "12.0"-style input the way parseInt does: leading integer part.
	if v, err := strconv.Atoi(s); err == nil {
		f.Value, f.Valid = v, true
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		f.Value, f.Valid = int(v), true
	}
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value)
}

// Or returns the supplied value, or def when the input was absent/unparseable.
func (f FlexInt) Or(def int) int {
	if f.Valid {
		return f.Value
	}
	return def
}

// FlexDecimal accepts a JSON number or string for money fields.
type FlexDecimal struct {
	Value decimal.Decimal
	Valid bool
}

func (f *FlexDecimal) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	if v, err := decimal.NewFromString(s); err == nil {
		f.Value, f.Valid = v, true
	}
	return nil
}

func (f FlexDecimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value)
}

func (f FlexDecimal) Or(def decimal.Decimal) decimal.Decimal {
	if f.Valid {
		return f.Value
	}
	return def
}

// Multipart forms carry every field as a string; the same forgiving rules
// apply there.

// CoerceInt parses s, falling back to def on empty or invalid input.
func CoerceInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int(v)
	}
	return def
}

// CoerceFloat parses s, falling back to def on empty or invalid input.
func CoerceFloat(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return def
}

// CoerceDecimal parses s, falling back to zero on empty or invalid input.
func CoerceDecimal(s string) decimal.Decimal {
	if v, err := decimal.NewFromString(strings.TrimSpace(s)); err == nil {
		return v
	}
	return decimal.Zero
}
