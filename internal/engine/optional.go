package engine

import (
	"encoding/json"
	"fmt"
)

// UndefinedReason explains why an Optional carries no value.
type UndefinedReason string

// Reasons an engine result is undefined.
const (
	// ReasonNone marks a defined value.
	ReasonNone UndefinedReason = ""
	// ReasonNoBaseline means no baseline material was supplied.
	ReasonNoBaseline UndefinedReason = "no_baseline"
	// ReasonEqualEmissions means the material and baseline emit the same CO2e,
	// so MAC would divide by zero.
	ReasonEqualEmissions UndefinedReason = "equal_emissions"
	// ReasonNoSavings means operating savings are zero or negative, so the
	// capital premium is never recouped.
	ReasonNoSavings UndefinedReason = "no_savings"
	// ReasonZeroImpact means the category total is zero, so a per-impact
	// ratio cannot be formed.
	ReasonZeroImpact UndefinedReason = "zero_impact"
	// ReasonZeroBaseline means a relative comparison was made against zero.
	ReasonZeroBaseline UndefinedReason = "zero_reference"
)

// Optional is a result that may be undefined. Callers must check Defined
// before reading Value: an undefined result is not the same as zero.
type Optional[T any] struct {
	value   T
	defined bool
	reason  UndefinedReason
}

// Some returns a defined Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, defined: true}
}

// Undefined returns an Optional with no value and the given reason.
func Undefined[T any](reason UndefinedReason) Optional[T] {
	return Optional[T]{reason: reason}
}

// Defined reports whether the Optional holds a value.
func (o Optional[T]) Defined() bool {
	return o.defined
}

// Get returns the value and whether it is defined.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.defined
}

// ValueOr returns the value if defined, otherwise fallback.
func (o Optional[T]) ValueOr(fallback T) T {
	if o.defined {
		return o.value
	}
	return fallback
}

// Reason returns why the Optional is undefined, or ReasonNone.
func (o Optional[T]) Reason() UndefinedReason {
	return o.reason
}

// String renders the value, or "undefined(<reason>)".
func (o Optional[T]) String() string {
	if !o.defined {
		return fmt.Sprintf("undefined(%s)", o.reason)
	}
	return fmt.Sprint(o.value)
}

// MarshalJSON encodes an undefined Optional as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.defined {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
