package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// Values holds the typed result of a successful Schema.Validate call.
// Getters return zero values for absent fields; pointer getters return nil,
// which maps directly onto the optional fields of the canonical records.
type Values struct {
	m map[string]any
}

// Has reports whether the field was present (or defaulted).
func (v Values) Has(name string) bool {
	_, ok := v.m[name]
	return ok
}

// String returns the field as a string, or "" when absent.
func (v Values) String(name string) string {
	s, _ := v.m[name].(string)
	return s
}

// StringPtr returns the field as *string, or nil when absent.
func (v Values) StringPtr(name string) *string {
	if s, ok := v.m[name].(string); ok {
		return &s
	}
	return nil
}

// Int returns the field as an int, or 0 when absent.
func (v Values) Int(name string) int {
	n, _ := v.m[name].(int)
	return n
}

// IntPtr returns the field as *int, or nil when absent.
func (v Values) IntPtr(name string) *int {
	if n, ok := v.m[name].(int); ok {
		return &n
	}
	return nil
}

// Decimal returns the field as a decimal, or zero when absent.
func (v Values) Decimal(name string) decimal.Decimal {
	d, _ := v.m[name].(decimal.Decimal)
	return d
}

// Bool returns the field as a bool, or false when absent.
func (v Values) Bool(name string) bool {
	b, _ := v.m[name].(bool)
	return b
}

// BoolPtr returns the field as *bool, or nil when absent.
func (v Values) BoolPtr(name string) *bool {
	if b, ok := v.m[name].(bool); ok {
		return &b
	}
	return nil
}

// Time returns the field as a time.Time, or the zero time when absent.
func (v Values) Time(name string) time.Time {
	t, _ := v.m[name].(time.Time)
	return t
}

// StringList returns the field as a string slice, or nil when absent.
func (v Values) StringList(name string) []string {
	l, _ := v.m[name].([]string)
	return l
}
