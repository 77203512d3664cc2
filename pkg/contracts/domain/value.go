package domain

import (
	"bytes"
	"encoding/json"
	"math"
)

// Value is an optional decimal observation. An absent Value is distinct
// from zero: it means the source cell could not be parsed or no data
// contributed to an aggregate.
type Value struct {
	Float64 float64
	Valid   bool
}

// Some returns a present Value. NaN and infinities are treated as absent.
func Some(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{Float64: f, Valid: true}
}

// Absent returns the missing Value.
func Absent() Value {
	return Value{}
}

// Get returns the underlying float and whether it is present.
func (v Value) Get() (float64, bool) {
	return v.Float64, v.Valid
}

// MarshalJSON encodes absent values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float64)
}

// UnmarshalJSON accepts a number or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}
