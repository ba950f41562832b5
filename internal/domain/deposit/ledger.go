// Package deposit tracks refundable container deposits (Pfand) by count.
// Matching is fungible: a return is settled against any open deposit-bearing
// items, not the specific units originally purchased.
package deposit

// Ledger maps a deposit-item name to its outstanding count
type Ledger map[string]int

// Increment raises the outstanding count for a name by one
func (l Ledger) Increment(name string) {
	l[name]++
}

// Decrement lowers the outstanding count for a name, clamped at zero
func (l Ledger) Decrement(name string, n int) {
	count := l[name] - n
	if count < 0 {
		count = 0
	}
	l[name] = count
}

// Outstanding returns the total open deposit count across all names
func (l Ledger) Outstanding() int {
	total := 0
	for _, count := range l {
		total += count
	}
	return total
}

// Return is a parsed deposit-return event: count units handed back for the
// given refund amount on the given date.
type Return struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}
