package ingest

import (
	"errors"
	"fmt"
)

// ErrEmptyResult is returned when a submitted block yields no records at
// all. Individual unparseable lines are skipped silently; an entirely empty
// result is a user-visible failure and nothing is persisted.
var ErrEmptyResult = errors.New("no records parsed from input")

// MalformedNumberError indicates a non-numeric price or count field. The
// whole block is rejected rather than coercing the value to zero.
type MalformedNumberError struct {
	Value string
	Line  string
}

func (e *MalformedNumberError) Error() string {
	return fmt.Sprintf("malformed number %q in line %q", e.Value, e.Line)
}

// NegativeDiscountError indicates an actual price above the standard price.
// The original inputs this guards against are typos, not markups, so the
// block is rejected.
type NegativeDiscountError struct {
	Name     string
	Standard float64
	Actual   float64
}

func (e *NegativeDiscountError) Error() string {
	return fmt.Sprintf("actual price %.2f exceeds standard price %.2f for %q", e.Actual, e.Standard, e.Name)
}
