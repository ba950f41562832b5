package catalog

import (
	"context"
)

// Repository defines the interface for catalog persistence. Categories and
// accounts are append-only label sets with insertion order preserved; there
// is no deletion path.
type Repository interface {
	// ListProducts returns all catalog products
	ListProducts(ctx context.Context) ([]Product, error)

	// GetProduct returns a product by name, or a not-found error
	GetProduct(ctx context.Context, name string) (Product, error)

	// PutProduct creates or replaces a product
	PutProduct(ctx context.Context, product Product) error

	// ListCategories returns all category labels in insertion order
	ListCategories(ctx context.Context) ([]string, error)

	// AddCategory appends a category label; adding an existing label is a
	// no-op
	AddCategory(ctx context.Context, name string) error

	// ListAccounts returns all account labels in insertion order
	ListAccounts(ctx context.Context) ([]string, error)

	// AddAccount appends an account label; adding an existing label is a
	// no-op
	AddAccount(ctx context.Context, name string) error
}
