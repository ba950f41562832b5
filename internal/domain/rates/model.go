package rates

// Snapshot is one monthly row of the exchange-rate table. Rates are
// expressed as units of the currency per 1 unit of the base currency, so the
// base currency column is always 1.0.
type Snapshot struct {
	Month string             `json:"month"` // YYYY-MM
	Rates map[string]float64 `json:"rates"`
}

// Table is the ordered exchange-rate table. Rows are appended in
// chronological order; the table is never rewritten retroactively.
type Table struct {
	Snapshots []Snapshot `json:"snapshots"`
}

// IsEmpty reports whether the table has no snapshots
func (t Table) IsEmpty() bool {
	return len(t.Snapshots) == 0
}

// Currencies returns the currency codes of the most recent snapshot
func (t Table) Currencies() []string {
	if t.IsEmpty() {
		return nil
	}
	last := t.Snapshots[len(t.Snapshots)-1]
	codes := make([]string, 0, len(last.Rates))
	for code := range last.Rates {
		codes = append(codes, code)
	}
	return codes
}

// SeedTable returns the initial table written when no rate table exists yet
func SeedTable(baseCurrency string) Table {
	seed := Snapshot{
		Month: "2025-09",
		Rates: map[string]float64{
			"EUR": 1.0,
			"CNY": 7.8,
			"USD": 1.1,
			"JPY": 150.0,
		},
	}
	seed.Rates[baseCurrency] = 1.0
	return Table{Snapshots: []Snapshot{seed}}
}
