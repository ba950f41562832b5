package localstore

import (
	"context"
	"sort"

	"github.com/hausbuch/hausbuch/internal/domain/catalog"
	commonErrors "github.com/hausbuch/hausbuch/internal/domain/errors"
)

// CatalogRepository implements catalog.Repository over the catalog JSON
// files: a product map plus two label lists
type CatalogRepository struct {
	store *Store
}

// NewCatalogRepository creates a catalog repository over a store
func NewCatalogRepository(store *Store) *CatalogRepository {
	return &CatalogRepository{store: store}
}

// ListProducts returns all catalog products sorted by name, so hint matching
// against the catalog stays deterministic
func (r *CatalogRepository) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	byName, err := r.loadProducts()
	if err != nil {
		return nil, err
	}
	products := make([]catalog.Product, 0, len(byName))
	for _, p := range byName {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
	return products, nil
}

// GetProduct returns a product by name, or a not-found error
func (r *CatalogRepository) GetProduct(ctx context.Context, name string) (catalog.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	byName, err := r.loadProducts()
	if err != nil {
		return catalog.Product{}, err
	}
	p, ok := byName[name]
	if !ok {
		return catalog.Product{}, commonErrors.NewNotFoundError("product not found").
			WithDetail("name", name)
	}
	return p, nil
}

// PutProduct creates or replaces a product
func (r *CatalogRepository) PutProduct(ctx context.Context, product catalog.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	byName, err := r.loadProducts()
	if err != nil {
		return err
	}
	byName[product.Name] = product
	return r.store.writeJSON(productsFile, byName)
}

// ListCategories returns all category labels in insertion order. A fresh
// store starts from the default category set.
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.loadCategories()
}

// AddCategory appends a category label; adding an existing label is a no-op
func (r *CatalogRepository) AddCategory(ctx context.Context, name string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	categories, err := r.loadCategories()
	if err != nil {
		return err
	}
	for _, c := range categories {
		if c == name {
			return nil
		}
	}
	return r.store.writeJSON(categoriesFile, append(categories, name))
}

// ListAccounts returns all account labels in insertion order
func (r *CatalogRepository) ListAccounts(ctx context.Context) ([]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.loadAccounts()
}

// AddAccount appends an account label; adding an existing label is a no-op
func (r *CatalogRepository) AddAccount(ctx context.Context, name string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	accounts, err := r.loadAccounts()
	if err != nil {
		return err
	}
	for _, a := range accounts {
		if a == name {
			return nil
		}
	}
	return r.store.writeJSON(accountsFile, append(accounts, name))
}

func (r *CatalogRepository) loadProducts() (map[string]catalog.Product, error) {
	byName := make(map[string]catalog.Product)
	if err := r.store.readJSON(productsFile, &byName); err != nil {
		return nil, err
	}
	return byName, nil
}

func (r *CatalogRepository) loadCategories() ([]string, error) {
	if !r.store.fileExists(categoriesFile) {
		return append([]string{}, catalog.DefaultCategories...), nil
	}
	categories := make([]string, 0)
	if err := r.store.readJSON(categoriesFile, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CatalogRepository) loadAccounts() ([]string, error) {
	accounts := make([]string, 0)
	if err := r.store.readJSON(accountsFile, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}
