package rates

import (
	"context"
)

// Service loads the rate table from the record store and hands out engines.
// The table is reloaded per interaction cycle; the store owns the data.
type Service struct {
	repo         Repository
	baseCurrency string
}

// NewService creates a new rates service
func NewService(repo Repository, baseCurrency string) *Service {
	return &Service{
		repo:         repo,
		baseCurrency: baseCurrency,
	}
}

// Engine loads the current table and returns a lookup engine over it. An
// absent table is seeded with the initial snapshot row and persisted.
func (s *Service) Engine(ctx context.Context) (*Engine, error) {
	table, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if table.IsEmpty() {
		table = SeedTable(s.baseCurrency)
		if err := s.repo.Save(ctx, table); err != nil {
			return nil, err
		}
	}
	return NewEngine(s.baseCurrency, table), nil
}

// Append adds a new monthly snapshot row and persists the table
func (s *Service) Append(ctx context.Context, snap Snapshot) error {
	table, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	table.Snapshots = append(table.Snapshots, snap)
	return s.repo.Save(ctx, table)
}
