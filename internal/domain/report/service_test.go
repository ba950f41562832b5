package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	commonErrors "github.com/hausbuch/hausbuch/internal/domain/errors"
	"github.com/hausbuch/hausbuch/internal/domain/item"
	"github.com/hausbuch/hausbuch/internal/domain/rates"
)

type fakeItemRepository struct {
	inventory []item.Item
	history   []item.HistoryRecord
	lost      []item.LostRecord
	sold      []item.SoldRecord
}

func (f *fakeItemRepository) ListInventory(ctx context.Context) ([]item.Item, error) {
	return f.inventory, nil
}

func (f *fakeItemRepository) GetInventoryItem(ctx context.Context, id string) (item.Item, error) {
	return item.Item{}, commonErrors.NewNotFoundError("item not found")
}

func (f *fakeItemRepository) AppendInventory(ctx context.Context, items ...item.Item) error {
	f.inventory = append(f.inventory, items...)
	return nil
}

func (f *fakeItemRepository) DeleteInventoryItem(ctx context.Context, id string) error {
	return nil
}

func (f *fakeItemRepository) ListHistory(ctx context.Context) ([]item.HistoryRecord, error) {
	return f.history, nil
}

func (f *fakeItemRepository) AppendHistory(ctx context.Context, records ...item.HistoryRecord) error {
	f.history = append(f.history, records...)
	return nil
}

func (f *fakeItemRepository) ListLost(ctx context.Context) ([]item.LostRecord, error) {
	return f.lost, nil
}

func (f *fakeItemRepository) GetLostItem(ctx context.Context, id string) (item.LostRecord, error) {
	return item.LostRecord{}, commonErrors.NewNotFoundError("lost item not found")
}

func (f *fakeItemRepository) AppendLost(ctx context.Context, records ...item.LostRecord) error {
	f.lost = append(f.lost, records...)
	return nil
}

func (f *fakeItemRepository) DeleteLostItem(ctx context.Context, id string) error {
	return nil
}

func (f *fakeItemRepository) ListSold(ctx context.Context) ([]item.SoldRecord, error) {
	return f.sold, nil
}

func (f *fakeItemRepository) AppendSold(ctx context.Context, records ...item.SoldRecord) error {
	f.sold = append(f.sold, records...)
	return nil
}

type fakeRateRepository struct {
	table rates.Table
}

func (f *fakeRateRepository) Load(ctx context.Context) (rates.Table, error) {
	return f.table, nil
}

func (f *fakeRateRepository) Save(ctx context.Context, table rates.Table) error {
	f.table = table
	return nil
}

func newTestService(repo *fakeItemRepository, now time.Time) *Service {
	table := rates.Table{Snapshots: []rates.Snapshot{
		{Month: "2025-09", Rates: map[string]float64{"EUR": 1.0, "CNY": 8.0}},
	}}
	svc := NewService(repo, rates.NewService(&fakeRateRepository{table: table}, "EUR"), zap.NewNop())
	svc.Now = func() time.Time { return now }
	return svc
}

func inv(name, category, date string, price float64) item.Item {
	return item.Item{Name: name, Category: category, PurchaseDate: date, ActualPrice: price, Currency: "EUR"}
}

func TestWeeklyTrend(t *testing.T) {
	// 2025-10-01 is a Wednesday; the week runs from Monday 09-29
	repo := &fakeItemRepository{
		inventory: []item.Item{
			inv("Milch", "饮料", "2025-09-29", 2), // Monday, this week
			inv("Brot", "谷物", "2025-09-30", 3),  // Tuesday, this week
			inv("Apfel", "水果", "2025-09-24", 5), // Wednesday, last week
		},
		history: []item.HistoryRecord{
			{Item: inv("Reis", "谷物", "2025-10-01", 4)}, // today
		},
		sold: []item.SoldRecord{
			{HistoryRecord: item.HistoryRecord{Item: inv("Regal", "家具", "2025-09-30", 99)}},
		},
	}
	svc := newTestService(repo, time.Date(2025, 10, 1, 15, 0, 0, 0, time.UTC))

	week, err := svc.WeeklyTrend(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "EUR", week.Currency)
	assert.Equal(t, []string{"一", "二", "三", "四", "五", "六", "日"}, week.Labels)

	// Cumulative, truncated at today (Wednesday); sold rows excluded
	assert.Equal(t, []float64{2, 5, 9}, week.Current)
	assert.Equal(t, []float64{0, 0, 5, 5, 5, 5, 5}, week.Previous)
	assert.Equal(t, 9.0, week.CurrentTotal())
	assert.Equal(t, 5.0, week.PreviousTotal())
}

func TestWeeklyTrend_ForeignDisplayCurrency(t *testing.T) {
	repo := &fakeItemRepository{inventory: []item.Item{
		inv("Milch", "饮料", "2025-09-29", 2),
	}}
	svc := newTestService(repo, time.Date(2025, 9, 29, 15, 0, 0, 0, time.UTC))

	week, err := svc.WeeklyTrend(context.Background(), "CNY")
	require.NoError(t, err)
	assert.Equal(t, "CNY", week.Currency)
	assert.Equal(t, []float64{16}, week.Current)
}

func TestMonthlyTrend(t *testing.T) {
	repo := &fakeItemRepository{
		inventory: []item.Item{
			inv("Milch", "饮料", "2025-10-01", 2),
			inv("Brot", "谷物", "2025-10-03", 3),
			inv("Apfel", "水果", "2025-09-02", 5),
			inv("Reis", "谷物", "2025-09-20", 1),
		},
	}
	svc := newTestService(repo, time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC))

	comparison, err := svc.MonthlyTrend(context.Background(), "2025-10", "2025-09", "")
	require.NoError(t, err)

	// Current month truncated at today, previous month full
	require.Len(t, comparison.Series1, 5)
	assert.Equal(t, []float64{2, 2, 5, 5, 5}, comparison.Series1)
	require.Len(t, comparison.Series2, 30)
	assert.Equal(t, 5.0, comparison.Series2[1])
	assert.Equal(t, 6.0, comparison.Series2[29])

	// Totals cover the full months even where the series is truncated
	assert.Equal(t, 5.0, comparison.Total1)
	assert.Equal(t, 6.0, comparison.Total2)
	assert.InDelta(t, -1.0, comparison.Diff(), 1e-9)
}

func TestMonths(t *testing.T) {
	repo := &fakeItemRepository{
		inventory: []item.Item{inv("Milch", "饮料", "2025-10-01", 2)},
		history: []item.HistoryRecord{
			{Item: inv("Brot", "谷物", "2025-08-15", 3)},
			{Item: inv("Reis", "谷物", "2025-10-20", 1)},
		},
	}
	svc := newTestService(repo, time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC))

	months, err := svc.Months(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-10", "2025-08"}, months)
}

func TestFlows_GroupsBySourceAndAccount(t *testing.T) {
	withPayment := func(it item.Item, source, account string) item.Item {
		it.Source = source
		it.Account = account
		return it
	}
	repo := &fakeItemRepository{
		inventory: []item.Item{
			withPayment(inv("Milch", "饮料", "2025-10-01", 2), "Rewe", "EC"),
			withPayment(inv("Brot", "谷物", "2025-10-03", 3), "Edeka", "EC"),
		},
		history: []item.HistoryRecord{
			{Item: withPayment(inv("Reis", "谷物", "2025-10-02", 4), "Rewe", "Bargeld")},
			// Before the period start, excluded from the month window
			{Item: withPayment(inv("Apfel", "水果", "2025-09-20", 9), "Rewe", "EC")},
		},
	}
	svc := newTestService(repo, time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC))

	flows, err := svc.Flows(context.Background(), FlowMonth)
	require.NoError(t, err)

	assert.Equal(t, []Flow{{Name: "Rewe", Total: 6}, {Name: "Edeka", Total: 3}}, flows.Sources)
	assert.Equal(t, []Flow{{Name: "EC", Total: 5}, {Name: "Bargeld", Total: 4}}, flows.Accounts)

	// The all window includes September again
	flows, err = svc.Flows(context.Background(), FlowAll)
	require.NoError(t, err)
	assert.Equal(t, []Flow{{Name: "Rewe", Total: 15}, {Name: "Edeka", Total: 3}}, flows.Sources)
}

func TestUtilization(t *testing.T) {
	rec := func(name, category string, price float64, utilization, days int) item.HistoryRecord {
		return item.HistoryRecord{
			Item:          item.Item{Name: name, Category: category, ActualPrice: price, Currency: "EUR"},
			Utilization:   utilization,
			DaysInService: days,
		}
	}
	repo := &fakeItemRepository{history: []item.HistoryRecord{
		rec("Milch", "饮料", 1.0, 100, 5),
		rec("Milch", "饮料", 1.4, 60, 7),
		rec("Zeitschrift", "日用品", 4.0, 30, 2),
	}}
	svc := newTestService(repo, time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC))

	stats, err := svc.Utilization(context.Background())
	require.NoError(t, err)
	require.Len(t, stats.Products, 2)

	// Sorted by average utilization, best first
	milch := stats.Products[0]
	assert.Equal(t, "Milch", milch.Name)
	assert.Equal(t, 80.0, milch.AvgUtilization)
	assert.Equal(t, 60, milch.MinUtilization)
	assert.Equal(t, 100, milch.MaxUtilization)
	assert.Equal(t, 2, milch.Count)
	assert.InDelta(t, 1.2, milch.AvgPrice, 1e-9)
	assert.Equal(t, 6.0, milch.AvgDays)
	assert.InDelta(t, 1.2, milch.BaseValue, 1e-9)

	assert.Equal(t, "Zeitschrift", stats.Products[1].Name)
	assert.Equal(t, 55.0, stats.OverallAvg)
	assert.Equal(t, 1, stats.HighCount)
	assert.Equal(t, 1, stats.LowCount)
}

func TestBreakdown_IncludesAllCollections(t *testing.T) {
	repo := &fakeItemRepository{
		inventory: []item.Item{inv("Milch", "饮料", "2025-10-01", 2)},
		history:   []item.HistoryRecord{{Item: inv("Brot", "谷物", "2025-10-02", 3)}},
		lost:      []item.LostRecord{{Item: inv("Schirm", "日用品", "2025-10-03", 7)}},
		sold:      []item.SoldRecord{{HistoryRecord: item.HistoryRecord{Item: inv("Regal", "日用品", "2025-10-04", 5)}}},
		// Different month, ignored
	}
	repo.inventory = append(repo.inventory, inv("Reis", "谷物", "2025-09-20", 99))
	svc := newTestService(repo, time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC))

	breakdown, err := svc.Breakdown(context.Background(), "2025-10")
	require.NoError(t, err)

	assert.Equal(t, "2025-10", breakdown.Month)
	assert.Equal(t, []CategoryTotal{
		{Category: "日用品", Total: 12},
		{Category: "谷物", Total: 3},
		{Category: "饮料", Total: 2},
	}, breakdown.Categories)
	assert.Equal(t, 17.0, breakdown.Total)
}

func TestReports_SkipRowsWithUnresolvableRates(t *testing.T) {
	repo := &fakeItemRepository{inventory: []item.Item{
		inv("Milch", "饮料", "2025-10-01", 2),
		{Name: "拉面", Category: "饮料", PurchaseDate: "2025-10-02", ActualPrice: 980, Currency: "JPY"},
	}}
	svc := newTestService(repo, time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC))

	breakdown, err := svc.Breakdown(context.Background(), "2025-10")
	require.NoError(t, err)
	assert.Equal(t, 2.0, breakdown.Total, "the JPY row has no rate and is dropped")
}
