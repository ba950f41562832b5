package localstore

import (
	"context"
	"strconv"

	commonErrors "github.com/hausbuch/hausbuch/internal/domain/errors"
	"github.com/hausbuch/hausbuch/internal/domain/item"
)

var (
	inventoryColumns = []string{
		"id", "name", "category", "actualPrice", "standardPrice", "currency",
		"purchaseDate", "source", "account", "invoiceName", "discount",
		"inTransit", "purchaseRate",
	}
	historyColumns = append(append([]string{}, inventoryColumns...),
		"checkoutDate", "utilization", "daysInService", "checkoutMode")
	lostColumns = append(append([]string{}, inventoryColumns...), "lostDate")
	soldColumns = append(append([]string{}, historyColumns...),
		"sellPrice", "sellAccount")
)

// ItemRepository implements item.Repository over the four collection CSVs
type ItemRepository struct {
	store *Store
}

// NewItemRepository creates an item repository over a store
func NewItemRepository(store *Store) *ItemRepository {
	return &ItemRepository{store: store}
}

// ListInventory returns all items currently in inventory
func (r *ItemRepository) ListInventory(ctx context.Context) ([]item.Item, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.loadInventory()
}

// GetInventoryItem returns a single inventory item by ID
func (r *ItemRepository) GetInventoryItem(ctx context.Context, id string) (item.Item, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items, err := r.loadInventory()
	if err != nil {
		return item.Item{}, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return item.Item{}, commonErrors.NewNotFoundError("item not found in inventory").
		WithDetail("id", id)
}

// AppendInventory adds items to the inventory collection
func (r *ItemRepository) AppendInventory(ctx context.Context, items ...item.Item) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, err := r.loadInventory()
	if err != nil {
		return err
	}
	return r.saveInventory(append(existing, items...))
}

// DeleteInventoryItem removes an item from inventory without archiving
func (r *ItemRepository) DeleteInventoryItem(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items, err := r.loadInventory()
	if err != nil {
		return err
	}
	kept := items[:0]
	found := false
	for _, it := range items {
		if it.ID == id {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	if !found {
		return commonErrors.NewNotFoundError("item not found in inventory").
			WithDetail("id", id)
	}
	return r.saveInventory(kept)
}

// ListHistory returns all checked-out records
func (r *ItemRepository) ListHistory(ctx context.Context) ([]item.HistoryRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.loadHistory()
}

// AppendHistory adds records to the checkout archive
func (r *ItemRepository) AppendHistory(ctx context.Context, records ...item.HistoryRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, err := r.loadHistory()
	if err != nil {
		return err
	}
	existing = append(existing, records...)

	rows := make([][]string, 0, len(existing))
	for _, rec := range existing {
		rows = append(rows, historyRow(rec))
	}
	return r.store.writeCSV(historyFile, historyColumns, rows)
}

// ListLost returns all lost records
func (r *ItemRepository) ListLost(ctx context.Context) ([]item.LostRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.loadLost()
}

// GetLostItem returns a single lost record by ID
func (r *ItemRepository) GetLostItem(ctx context.Context, id string) (item.LostRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	records, err := r.loadLost()
	if err != nil {
		return item.LostRecord{}, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return item.LostRecord{}, commonErrors.NewNotFoundError("item not found in lost collection").
		WithDetail("id", id)
}

// AppendLost adds records to the lost collection
func (r *ItemRepository) AppendLost(ctx context.Context, records ...item.LostRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, err := r.loadLost()
	if err != nil {
		return err
	}
	existing = append(existing, records...)
	return r.saveLost(existing)
}

// DeleteLostItem removes a record from the lost collection
func (r *ItemRepository) DeleteLostItem(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	records, err := r.loadLost()
	if err != nil {
		return err
	}
	kept := records[:0]
	found := false
	for _, rec := range records {
		if rec.ID == id {
			found = true
			continue
		}
		kept = append(kept, rec)
	}
	if !found {
		return commonErrors.NewNotFoundError("item not found in lost collection").
			WithDetail("id", id)
	}
	return r.saveLost(kept)
}

// ListSold returns all sold records
func (r *ItemRepository) ListSold(ctx context.Context) ([]item.SoldRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.listSoldLocked()
}

// AppendSold adds records to the sold archive
func (r *ItemRepository) AppendSold(ctx context.Context, records ...item.SoldRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, err := r.listSoldLocked()
	if err != nil {
		return err
	}
	existing = append(existing, records...)

	rows := make([][]string, 0, len(existing))
	for _, rec := range existing {
		rows = append(rows, append(historyRow(rec.HistoryRecord),
			formatFloat(rec.SellPrice), rec.SellAccount))
	}
	return r.store.writeCSV(soldFile, soldColumns, rows)
}

func (r *ItemRepository) listSoldLocked() ([]item.SoldRecord, error) {
	header, rows, err := r.store.readCSV(soldFile)
	if err != nil {
		return nil, err
	}
	index := columnIndex(header)
	records := make([]item.SoldRecord, 0, len(rows))
	for _, fields := range rows {
		records = append(records, item.SoldRecord{
			HistoryRecord: decodeHistory(index, fields),
			SellPrice:     parseFloat(cell(index, fields, "sellPrice")),
			SellAccount:   cell(index, fields, "sellAccount"),
		})
	}
	return records, nil
}

func (r *ItemRepository) loadInventory() ([]item.Item, error) {
	header, rows, err := r.store.readCSV(inventoryFile)
	if err != nil {
		return nil, err
	}
	index := columnIndex(header)
	items := make([]item.Item, 0, len(rows))
	for _, fields := range rows {
		items = append(items, decodeItem(index, fields))
	}
	return items, nil
}

func (r *ItemRepository) saveInventory(items []item.Item) error {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, itemRow(it))
	}
	return r.store.writeCSV(inventoryFile, inventoryColumns, rows)
}

func (r *ItemRepository) loadHistory() ([]item.HistoryRecord, error) {
	header, rows, err := r.store.readCSV(historyFile)
	if err != nil {
		return nil, err
	}
	index := columnIndex(header)
	records := make([]item.HistoryRecord, 0, len(rows))
	for _, fields := range rows {
		records = append(records, decodeHistory(index, fields))
	}
	return records, nil
}

func (r *ItemRepository) loadLost() ([]item.LostRecord, error) {
	header, rows, err := r.store.readCSV(lostFile)
	if err != nil {
		return nil, err
	}
	index := columnIndex(header)
	records := make([]item.LostRecord, 0, len(rows))
	for _, fields := range rows {
		records = append(records, item.LostRecord{
			Item:     decodeItem(index, fields),
			LostDate: cell(index, fields, "lostDate"),
		})
	}
	return records, nil
}

func (r *ItemRepository) saveLost(records []item.LostRecord) error {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, append(itemRow(rec.Item), rec.LostDate))
	}
	return r.store.writeCSV(lostFile, lostColumns, rows)
}

func decodeItem(index map[string]int, fields []string) item.Item {
	return item.Item{
		ID:            cell(index, fields, "id"),
		Name:          cell(index, fields, "name"),
		Category:      cell(index, fields, "category"),
		ActualPrice:   parseFloat(cell(index, fields, "actualPrice")),
		StandardPrice: parseFloat(cell(index, fields, "standardPrice")),
		Currency:      cell(index, fields, "currency"),
		PurchaseDate:  cell(index, fields, "purchaseDate"),
		Source:        cell(index, fields, "source"),
		Account:       cell(index, fields, "account"),
		InvoiceName:   cell(index, fields, "invoiceName"),
		Discount:      parseFloat(cell(index, fields, "discount")),
		InTransit:     cell(index, fields, "inTransit") == "true",
		PurchaseRate:  parseFloat(cell(index, fields, "purchaseRate")),
	}
}

func decodeHistory(index map[string]int, fields []string) item.HistoryRecord {
	return item.HistoryRecord{
		Item:          decodeItem(index, fields),
		CheckoutDate:  cell(index, fields, "checkoutDate"),
		Utilization:   parseInt(cell(index, fields, "utilization")),
		DaysInService: parseInt(cell(index, fields, "daysInService")),
		CheckoutMode:  item.CheckoutMode(cell(index, fields, "checkoutMode")),
	}
}

func itemRow(it item.Item) []string {
	return []string{
		it.ID, it.Name, it.Category,
		formatFloat(it.ActualPrice), formatFloat(it.StandardPrice),
		it.Currency, it.PurchaseDate, it.Source, it.Account, it.InvoiceName,
		formatFloat(it.Discount), strconv.FormatBool(it.InTransit),
		formatFloat(it.PurchaseRate),
	}
}

func historyRow(rec item.HistoryRecord) []string {
	return append(itemRow(rec.Item),
		rec.CheckoutDate,
		strconv.Itoa(rec.Utilization),
		strconv.Itoa(rec.DaysInService),
		string(rec.CheckoutMode))
}

// parseFloat reads a numeric cell, treating blanks and junk as zero the way
// the CSVs have always been read
func parseFloat(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
