package rates

import "fmt"

// MissingRateError indicates the requested currency has no column in the
// resolved snapshot. Conversions must abort rather than assume a rate of 1.0.
type MissingRateError struct {
	Currency string
	Month    string
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("no exchange rate for %s in snapshot %s", e.Currency, e.Month)
}

// EmptyTableError indicates a rate lookup against a table with no snapshots
type EmptyTableError struct{}

func (e *EmptyTableError) Error() string {
	return "exchange-rate table has no snapshots"
}
