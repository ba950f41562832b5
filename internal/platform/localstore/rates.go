package localstore

import (
	"context"
	"sort"

	"github.com/hausbuch/hausbuch/internal/domain/rates"
)

// RateRepository implements rates.Repository over the exchange-rate CSV. The
// file has a month column plus one column per currency; row order carries the
// append order the fallback lookup depends on.
type RateRepository struct {
	store *Store
}

// NewRateRepository creates a rate repository over a store
func NewRateRepository(store *Store) *RateRepository {
	return &RateRepository{store: store}
}

// Load returns the full snapshot table, or an empty table when the store
// holds none
func (r *RateRepository) Load(ctx context.Context) (rates.Table, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	header, rows, err := r.store.readCSV(exchangeRatesFile)
	if err != nil {
		return rates.Table{}, err
	}

	index := columnIndex(header)
	table := rates.Table{Snapshots: make([]rates.Snapshot, 0, len(rows))}
	for _, fields := range rows {
		snap := rates.Snapshot{
			Month: cell(index, fields, "month"),
			Rates: make(map[string]float64),
		}
		for _, column := range header {
			if column == "month" {
				continue
			}
			if value := cell(index, fields, column); value != "" {
				snap.Rates[column] = parseFloat(value)
			}
		}
		table.Snapshots = append(table.Snapshots, snap)
	}
	return table, nil
}

// Save rewrites the snapshot table
func (r *RateRepository) Save(ctx context.Context, table rates.Table) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	currencies := make(map[string]bool)
	for _, snap := range table.Snapshots {
		for currency := range snap.Rates {
			currencies[currency] = true
		}
	}
	columns := make([]string, 0, len(currencies))
	for currency := range currencies {
		columns = append(columns, currency)
	}
	sort.Strings(columns)

	header := append([]string{"month"}, columns...)
	rows := make([][]string, 0, len(table.Snapshots))
	for _, snap := range table.Snapshots {
		fields := []string{snap.Month}
		for _, currency := range columns {
			if rate, ok := snap.Rates[currency]; ok {
				fields = append(fields, formatFloat(rate))
			} else {
				fields = append(fields, "")
			}
		}
		rows = append(rows, fields)
	}
	return r.store.writeCSV(exchangeRatesFile, header, rows)
}
