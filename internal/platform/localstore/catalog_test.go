package localstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hausbuch/hausbuch/internal/domain/catalog"
	commonErrors "github.com/hausbuch/hausbuch/internal/domain/errors"
)

func TestCatalogRepository_ProductRoundTrip(t *testing.T) {
	repo := NewCatalogRepository(newTestStore(t))
	ctx := context.Background()

	want := catalog.Product{
		Name:          "Milch",
		StandardPrice: 1.29,
		Currency:      "EUR",
		Category:      "饮料",
		PurchaseCount: 3,
		Buyout:        true,
	}
	require.NoError(t, repo.PutProduct(ctx, want))
	require.NoError(t, repo.PutProduct(ctx, catalog.Product{Name: "Brot", StandardPrice: 2.5}))

	got, err := repo.GetProduct(ctx, "Milch")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Listing is name-sorted for stable quick-input matching
	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Brot", products[0].Name)
	assert.Equal(t, "Milch", products[1].Name)
}

func TestCatalogRepository_GetProduct_NotFound(t *testing.T) {
	repo := NewCatalogRepository(newTestStore(t))

	_, err := repo.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, commonErrors.NewNotFoundError(""))
}

func TestCatalogRepository_CategoriesSeedDefaults(t *testing.T) {
	repo := NewCatalogRepository(newTestStore(t))
	ctx := context.Background()

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultCategories, categories)

	// Appending persists the file; defaults stay in front
	require.NoError(t, repo.AddCategory(ctx, "电子产品"))
	categories, err = repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, append(append([]string{}, catalog.DefaultCategories...), "电子产品"), categories)

	// Duplicates are no-ops
	require.NoError(t, repo.AddCategory(ctx, "电子产品"))
	categories, err = repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, len(catalog.DefaultCategories)+1)
}

func TestCatalogRepository_Accounts(t *testing.T) {
	repo := NewCatalogRepository(newTestStore(t))
	ctx := context.Background()

	accounts, err := repo.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts, "accounts have no seed set")

	require.NoError(t, repo.AddAccount(ctx, "EC"))
	require.NoError(t, repo.AddAccount(ctx, "PayPal"))
	require.NoError(t, repo.AddAccount(ctx, "EC"))

	accounts, err = repo.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"EC", "PayPal"}, accounts)
}
