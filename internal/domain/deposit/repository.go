package deposit

import (
	"context"
)

// Repository defines the interface for deposit-ledger persistence
type Repository interface {
	// Load returns the ledger, empty when the store holds none
	Load(ctx context.Context) (Ledger, error)

	// Save rewrites the ledger
	Save(ctx context.Context, ledger Ledger) error
}
