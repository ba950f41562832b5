package rates

import (
	"context"
)

// Repository defines the interface for exchange-rate table persistence
type Repository interface {
	// Load returns the full snapshot table, or an empty table when the
	// store holds none
	Load(ctx context.Context) (Table, error)

	// Save rewrites the snapshot table
	Save(ctx context.Context, table Table) error
}
