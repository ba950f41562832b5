package localstore

import (
	"context"

	"github.com/hausbuch/hausbuch/internal/domain/deposit"
)

// DepositRepository implements deposit.Repository over the deposits JSON file
type DepositRepository struct {
	store *Store
}

// NewDepositRepository creates a deposit repository over a store
func NewDepositRepository(store *Store) *DepositRepository {
	return &DepositRepository{store: store}
}

// Load returns the ledger, empty when the store holds none
func (r *DepositRepository) Load(ctx context.Context) (deposit.Ledger, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ledger := make(deposit.Ledger)
	if err := r.store.readJSON(depositsFile, &ledger); err != nil {
		return nil, err
	}
	return ledger, nil
}

// Save rewrites the ledger
func (r *DepositRepository) Save(ctx context.Context, ledger deposit.Ledger) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.writeJSON(depositsFile, ledger)
}
