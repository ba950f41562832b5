package localstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonErrors "github.com/hausbuch/hausbuch/internal/domain/errors"
	"github.com/hausbuch/hausbuch/internal/domain/item"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func sampleItem(id string) item.Item {
	return item.Item{
		ID:            id,
		Name:          "Milch",
		Category:      "饮料",
		ActualPrice:   1.19,
		StandardPrice: 1.29,
		Currency:      "EUR",
		PurchaseDate:  "2025-09-20",
		Source:        "Rewe",
		Account:       "EC",
		InvoiceName:   "rewe09",
		Discount:      0.1,
		InTransit:     true,
		PurchaseRate:  1.0,
	}
}

func TestItemRepository_InventoryRoundTrip(t *testing.T) {
	repo := NewItemRepository(newTestStore(t))
	ctx := context.Background()

	items, err := repo.ListInventory(ctx)
	require.NoError(t, err)
	assert.Empty(t, items, "missing file reads as empty inventory")

	want := sampleItem("a1")
	require.NoError(t, repo.AppendInventory(ctx, want, sampleItem("a2")))

	items, err = repo.ListInventory(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, want, items[0])

	got, err := repo.GetInventoryItem(ctx, "a2")
	require.NoError(t, err)
	assert.Equal(t, "a2", got.ID)
}

func TestItemRepository_GetInventoryItem_NotFound(t *testing.T) {
	repo := NewItemRepository(newTestStore(t))

	_, err := repo.GetInventoryItem(context.Background(), "missing")
	assert.ErrorIs(t, err, commonErrors.NewNotFoundError(""))
}

func TestItemRepository_DeleteInventoryItem(t *testing.T) {
	repo := NewItemRepository(newTestStore(t))
	ctx := context.Background()
	require.NoError(t, repo.AppendInventory(ctx, sampleItem("a1"), sampleItem("a2")))

	require.NoError(t, repo.DeleteInventoryItem(ctx, "a1"))
	items, err := repo.ListInventory(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a2", items[0].ID)

	err = repo.DeleteInventoryItem(ctx, "a1")
	assert.ErrorIs(t, err, commonErrors.NewNotFoundError(""))
}

func TestItemRepository_HistoryRoundTrip(t *testing.T) {
	repo := NewItemRepository(newTestStore(t))
	ctx := context.Background()

	rec := item.HistoryRecord{
		Item:          sampleItem("a1"),
		CheckoutDate:  "2025-10-01",
		Utilization:   85,
		DaysInService: 11,
		CheckoutMode:  item.ModeNormal,
	}
	require.NoError(t, repo.AppendHistory(ctx, rec))

	records, err := repo.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec, records[0])
}

func TestItemRepository_LostRoundTrip(t *testing.T) {
	repo := NewItemRepository(newTestStore(t))
	ctx := context.Background()

	rec := item.LostRecord{Item: sampleItem("a1"), LostDate: "2025-10-02"}
	require.NoError(t, repo.AppendLost(ctx, rec))

	got, err := repo.GetLostItem(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	require.NoError(t, repo.DeleteLostItem(ctx, "a1"))
	records, err := repo.ListLost(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestItemRepository_SoldRoundTrip(t *testing.T) {
	repo := NewItemRepository(newTestStore(t))
	ctx := context.Background()

	rec := item.SoldRecord{
		HistoryRecord: item.HistoryRecord{
			Item:          sampleItem("a1"),
			CheckoutDate:  "2025-10-01",
			DaysInService: 11,
			CheckoutMode:  item.ModeSell,
		},
		SellPrice:   0.5,
		SellAccount: "PayPal",
	}
	require.NoError(t, repo.AppendSold(ctx, rec))

	records, err := repo.ListSold(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec, records[0])
}

func TestItemRepository_ToleratesMissingColumns(t *testing.T) {
	// A file written before newer columns existed still reads cleanly
	store := newTestStore(t)
	csv := "id,name,actualPrice,purchaseDate\n" +
		"a1,Milch,1.19,2025-09-20\n"
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), inventoryFile), []byte(csv), 0o644))

	items, err := NewItemRepository(store).ListInventory(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := items[0]
	assert.Equal(t, "Milch", got.Name)
	assert.Equal(t, 1.19, got.ActualPrice)
	assert.Equal(t, "", got.Category)
	assert.Equal(t, 0.0, got.PurchaseRate)
	assert.False(t, got.InTransit)
}

func TestItemRepository_ToleratesJunkNumbers(t *testing.T) {
	store := newTestStore(t)
	csv := "id,name,actualPrice,discount\na1,Milch,kaputt,\n"
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), inventoryFile), []byte(csv), 0o644))

	items, err := NewItemRepository(store).ListInventory(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 0.0, items[0].ActualPrice)
	assert.Equal(t, 0.0, items[0].Discount)
}
