package rates

// Engine resolves currency conversion multipliers against monthly snapshots.
// Lookup takes the snapshot whose month matches the date's year-month; when
// that month has no snapshot the most recently appended row is used.
type Engine struct {
	baseCurrency string
	table        Table
}

// NewEngine creates an engine over a loaded rate table
func NewEngine(baseCurrency string, table Table) *Engine {
	return &Engine{
		baseCurrency: baseCurrency,
		table:        table,
	}
}

// BaseCurrency returns the base currency all values normalize to
func (e *Engine) BaseCurrency() string {
	return e.baseCurrency
}

// Table returns the underlying snapshot table
func (e *Engine) Table() Table {
	return e.table
}

// Rate returns the conversion multiplier for a currency at a date
// (YYYY-MM-DD). The multiplier is units of currency per 1 base unit.
func (e *Engine) Rate(currency string, date string) (float64, error) {
	if e.table.IsEmpty() {
		return 0, &EmptyTableError{}
	}

	month := yearMonth(date)
	row := e.table.Snapshots[len(e.table.Snapshots)-1]
	for _, snap := range e.table.Snapshots {
		if snap.Month == month {
			row = snap
			break
		}
	}

	rate, ok := row.Rates[currency]
	if !ok {
		return 0, &MissingRateError{Currency: currency, Month: row.Month}
	}
	return rate, nil
}

// ToBase converts an amount in the given currency to the base currency using
// the snapshot in effect at date. Rates are units-per-base, so conversion to
// base divides.
func (e *Engine) ToBase(amount float64, currency string, date string) (float64, error) {
	if currency == e.baseCurrency {
		return amount, nil
	}
	rate, err := e.Rate(currency, date)
	if err != nil {
		return 0, err
	}
	return amount / rate, nil
}

// FromBase converts a base-currency amount into the given display currency
func (e *Engine) FromBase(amount float64, currency string, date string) (float64, error) {
	if currency == e.baseCurrency {
		return amount, nil
	}
	rate, err := e.Rate(currency, date)
	if err != nil {
		return 0, err
	}
	return amount * rate, nil
}

// yearMonth truncates a YYYY-MM-DD date to its YYYY-MM month
func yearMonth(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}
