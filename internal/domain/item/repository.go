package item

import (
	"context"
)

// Repository defines the interface for item collection persistence. Each
// lifecycle state is its own collection, mirroring the record store layout.
type Repository interface {
	// ListInventory returns all items currently in inventory
	ListInventory(ctx context.Context) ([]Item, error)

	// GetInventoryItem returns a single inventory item by ID
	GetInventoryItem(ctx context.Context, id string) (Item, error)

	// AppendInventory adds items to the inventory collection
	AppendInventory(ctx context.Context, items ...Item) error

	// DeleteInventoryItem removes an item from inventory without archiving
	DeleteInventoryItem(ctx context.Context, id string) error

	// ListHistory returns all checked-out records
	ListHistory(ctx context.Context) ([]HistoryRecord, error)

	// AppendHistory adds records to the checkout archive
	AppendHistory(ctx context.Context, records ...HistoryRecord) error

	// ListLost returns all lost records
	ListLost(ctx context.Context) ([]LostRecord, error)

	// GetLostItem returns a single lost record by ID
	GetLostItem(ctx context.Context, id string) (LostRecord, error)

	// AppendLost adds records to the lost collection
	AppendLost(ctx context.Context, records ...LostRecord) error

	// DeleteLostItem removes a record from the lost collection
	DeleteLostItem(ctx context.Context, id string) error

	// ListSold returns all sold records
	ListSold(ctx context.Context) ([]SoldRecord, error)

	// AppendSold adds records to the sold archive
	AppendSold(ctx context.Context, records ...SoldRecord) error
}
