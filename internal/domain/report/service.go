package report

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/hausbuch/hausbuch/internal/domain/item"
	"github.com/hausbuch/hausbuch/internal/domain/rates"
)

// Service computes spending reports over the item collections. Reports are
// best-effort about conversion: a row whose rate cannot be resolved is logged
// and skipped rather than failing the whole report.
type Service struct {
	items item.Repository
	rates *rates.Service
	log   *zap.Logger

	// Now is the reporting clock; overridable in tests
	Now func() time.Time
}

// NewService creates a new report service
func NewService(items item.Repository, ratesSvc *rates.Service, log *zap.Logger) *Service {
	return &Service{
		items: items,
		rates: ratesSvc,
		log:   log,
		Now:   time.Now,
	}
}

// WeeklyTrend compares cumulative daily spending of the running week (from
// Monday) against the previous week, in the given display currency
func (s *Service) WeeklyTrend(ctx context.Context, currency string) (WeekComparison, error) {
	engine, err := s.rates.Engine(ctx)
	if err != nil {
		return WeekComparison{}, err
	}
	rows, err := s.trendRows(ctx)
	if err != nil {
		return WeekComparison{}, err
	}
	if currency == "" {
		currency = engine.BaseCurrency()
	}

	today := dateOnly(s.Now())
	weekStart := today.AddDate(0, 0, -mondayOffset(today))
	prevStart := weekStart.AddDate(0, 0, -7)

	current := make([]float64, 7)
	previous := make([]float64, 7)
	for _, row := range rows {
		value, ok := s.display(engine, row, currency)
		if !ok {
			continue
		}
		day, err := time.Parse(item.DateLayout, row.PurchaseDate)
		if err != nil {
			continue
		}
		switch {
		case !day.Before(weekStart) && day.Before(weekStart.AddDate(0, 0, 7)):
			current[int(day.Sub(weekStart).Hours()/24)] += value
		case !day.Before(prevStart) && day.Before(weekStart):
			previous[int(day.Sub(prevStart).Hours()/24)] += value
		}
	}

	accumulate(current)
	accumulate(previous)

	labels := []string{"一", "二", "三", "四", "五", "六", "日"}
	todayIdx := mondayOffset(today)
	return WeekComparison{
		Currency: currency,
		Labels:   labels,
		Current:  current[:todayIdx+1],
		Previous: previous,
	}, nil
}

// MonthlyTrend compares cumulative daily spending of two months (YYYY-MM), in
// the given display currency. The series of the month containing today stops
// at today.
func (s *Service) MonthlyTrend(ctx context.Context, month1, month2, currency string) (MonthComparison, error) {
	engine, err := s.rates.Engine(ctx)
	if err != nil {
		return MonthComparison{}, err
	}
	rows, err := s.trendRows(ctx)
	if err != nil {
		return MonthComparison{}, err
	}
	if currency == "" {
		currency = engine.BaseCurrency()
	}

	series1 := make([]float64, daysInMonth(month1))
	series2 := make([]float64, daysInMonth(month2))
	for _, row := range rows {
		value, ok := s.display(engine, row, currency)
		if !ok {
			continue
		}
		month, day := splitDate(row.PurchaseDate)
		switch month {
		case month1:
			series1[day-1] += value
		case month2:
			series2[day-1] += value
		}
	}

	accumulate(series1)
	accumulate(series2)

	total1 := last(series1)
	total2 := last(series2)

	today := dateOnly(s.Now())
	if month1 == today.Format("2006-01") {
		series1 = series1[:today.Day()]
	}
	if month2 == today.Format("2006-01") {
		series2 = series2[:today.Day()]
	}

	return MonthComparison{
		Currency: currency,
		Month1:   month1,
		Month2:   month2,
		Series1:  series1,
		Series2:  series2,
		Total1:   total1,
		Total2:   total2,
	}, nil
}

// Months lists every month (YYYY-MM) that has at least one record, most
// recent first
func (s *Service) Months(ctx context.Context) ([]string, error) {
	rows, err := s.trendRows(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, row := range rows {
		if month, _ := splitDate(row.PurchaseDate); month != "" {
			seen[month] = true
		}
	}
	months := make([]string, 0, len(seen))
	for month := range seen {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months, nil
}

// Flows groups spending by merchant and by payment account over the given
// period, in the base currency. Sold and lost records stay out: their money
// movement happened on checkout, not on purchase.
func (s *Service) Flows(ctx context.Context, period FlowPeriod) (AccountFlows, error) {
	engine, err := s.rates.Engine(ctx)
	if err != nil {
		return AccountFlows{}, err
	}

	inventory, err := s.items.ListInventory(ctx)
	if err != nil {
		return AccountFlows{}, err
	}
	history, err := s.items.ListHistory(ctx)
	if err != nil {
		return AccountFlows{}, err
	}

	rows := make([]expenseRow, 0, len(inventory)+len(history))
	for _, it := range inventory {
		rows = append(rows, itemRow(it))
	}
	for _, rec := range history {
		rows = append(rows, itemRow(rec.Item))
	}

	start := s.periodStart(period)
	sources := make(map[string]float64)
	accounts := make(map[string]float64)
	for _, row := range rows {
		day, err := time.Parse(item.DateLayout, row.PurchaseDate)
		if err != nil || day.Before(start) {
			continue
		}
		value, ok := s.display(engine, row, engine.BaseCurrency())
		if !ok {
			continue
		}
		if row.Source != "" {
			sources[row.Source] += value
		}
		if row.Account != "" {
			accounts[row.Account] += value
		}
	}

	return AccountFlows{
		Period:   period,
		Sources:  sortedFlows(sources),
		Accounts: sortedFlows(accounts),
	}, nil
}

// Utilization aggregates the checkout history per product name: how fully and
// how long things were used before leaving inventory
func (s *Service) Utilization(ctx context.Context) (UtilizationReport, error) {
	engine, err := s.rates.Engine(ctx)
	if err != nil {
		return UtilizationReport{}, err
	}
	history, err := s.items.ListHistory(ctx)
	if err != nil {
		return UtilizationReport{}, err
	}

	type acc struct {
		first                 item.HistoryRecord
		utilSum, priceSum     float64
		daysSum               float64
		minUtil, maxUtil, cnt int
	}
	byName := make(map[string]*acc)
	order := make([]string, 0)
	for _, rec := range history {
		a, ok := byName[rec.Name]
		if !ok {
			a = &acc{first: rec, minUtil: rec.Utilization, maxUtil: rec.Utilization}
			byName[rec.Name] = a
			order = append(order, rec.Name)
		}
		a.utilSum += float64(rec.Utilization)
		a.priceSum += rec.ActualPrice
		a.daysSum += float64(rec.DaysInService)
		if rec.Utilization < a.minUtil {
			a.minUtil = rec.Utilization
		}
		if rec.Utilization > a.maxUtil {
			a.maxUtil = rec.Utilization
		}
		a.cnt++
	}

	today := dateOnly(s.Now()).Format(item.DateLayout)
	report := UtilizationReport{Products: make([]ProductUtilization, 0, len(order))}
	for _, name := range order {
		a := byName[name]
		avgPrice := a.priceSum / float64(a.cnt)
		baseValue, err := engine.ToBase(avgPrice, a.first.Currency, today)
		if err != nil {
			s.log.Warn("skipping base-value conversion",
				zap.String("product", name), zap.Error(err))
		}
		p := ProductUtilization{
			Name:           name,
			Category:       a.first.Category,
			Currency:       a.first.Currency,
			AvgUtilization: a.utilSum / float64(a.cnt),
			MinUtilization: a.minUtil,
			MaxUtilization: a.maxUtil,
			Count:          a.cnt,
			AvgPrice:       avgPrice,
			AvgDays:        a.daysSum / float64(a.cnt),
			BaseValue:      baseValue,
		}
		report.Products = append(report.Products, p)
		report.OverallAvg += p.AvgUtilization
		if p.AvgUtilization >= 80 {
			report.HighCount++
		}
		if p.AvgUtilization < 50 {
			report.LowCount++
		}
	}
	if len(report.Products) > 0 {
		report.OverallAvg /= float64(len(report.Products))
	}

	sort.SliceStable(report.Products, func(i, j int) bool {
		return report.Products[i].AvgUtilization > report.Products[j].AvgUtilization
	})
	return report, nil
}

// Breakdown sums one month's spending by category across all four
// collections, in the base currency, largest category first
func (s *Service) Breakdown(ctx context.Context, month string) (MonthlyBreakdown, error) {
	engine, err := s.rates.Engine(ctx)
	if err != nil {
		return MonthlyBreakdown{}, err
	}
	rows, err := s.allRows(ctx)
	if err != nil {
		return MonthlyBreakdown{}, err
	}

	totals := make(map[string]float64)
	for _, row := range rows {
		if m, _ := splitDate(row.PurchaseDate); m != month {
			continue
		}
		value, ok := s.display(engine, row, engine.BaseCurrency())
		if !ok {
			continue
		}
		totals[row.Category] += value
	}

	breakdown := MonthlyBreakdown{Month: month}
	for _, flow := range sortedFlows(totals) {
		breakdown.Categories = append(breakdown.Categories, CategoryTotal{Category: flow.Name, Total: flow.Total})
		breakdown.Total += flow.Total
	}
	return breakdown, nil
}

// trendRows flattens inventory, history and lost into expense rows. The sold
// archive stays out of trends since a sale recoups the outflow.
func (s *Service) trendRows(ctx context.Context) ([]expenseRow, error) {
	inventory, err := s.items.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.items.ListHistory(ctx)
	if err != nil {
		return nil, err
	}
	lost, err := s.items.ListLost(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]expenseRow, 0, len(inventory)+len(history)+len(lost))
	for _, it := range inventory {
		rows = append(rows, itemRow(it))
	}
	for _, rec := range history {
		rows = append(rows, itemRow(rec.Item))
	}
	for _, rec := range lost {
		rows = append(rows, itemRow(rec.Item))
	}
	return rows, nil
}

// allRows additionally includes the sold archive
func (s *Service) allRows(ctx context.Context) ([]expenseRow, error) {
	rows, err := s.trendRows(ctx)
	if err != nil {
		return nil, err
	}
	sold, err := s.items.ListSold(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range sold {
		rows = append(rows, itemRow(rec.Item))
	}
	return rows, nil
}

// display converts one row into the display currency using the rate in effect
// at its purchase date. Rows with unresolvable rates are logged and dropped.
func (s *Service) display(engine *rates.Engine, row expenseRow, currency string) (float64, bool) {
	base, err := engine.ToBase(row.ActualPrice, row.Currency, row.PurchaseDate)
	if err == nil && currency != engine.BaseCurrency() {
		base, err = engine.FromBase(base, currency, row.PurchaseDate)
	}
	if err != nil {
		s.log.Warn("skipping row with unresolvable rate",
			zap.String("name", row.Name),
			zap.String("currency", row.Currency),
			zap.String("date", row.PurchaseDate),
			zap.Error(err))
		return 0, false
	}
	return base, true
}

func (s *Service) periodStart(period FlowPeriod) time.Time {
	now := dateOnly(s.Now())
	switch period {
	case FlowMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	case FlowQuarter:
		quarterStart := time.Month((int(now.Month())-1)/3*3 + 1)
		return time.Date(now.Year(), quarterStart, 1, 0, 0, 0, 0, time.UTC)
	case FlowYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}
	}
}

func itemRow(it item.Item) expenseRow {
	return expenseRow{
		Name:         it.Name,
		Category:     it.Category,
		ActualPrice:  it.ActualPrice,
		Currency:     it.Currency,
		PurchaseDate: it.PurchaseDate,
		Source:       it.Source,
		Account:      it.Account,
	}
}

func sortedFlows(totals map[string]float64) []Flow {
	flows := make([]Flow, 0, len(totals))
	for name, total := range totals {
		flows = append(flows, Flow{Name: name, Total: total})
	}
	sort.SliceStable(flows, func(i, j int) bool {
		if flows[i].Total != flows[j].Total {
			return flows[i].Total > flows[j].Total
		}
		return flows[i].Name < flows[j].Name
	})
	return flows
}

func accumulate(series []float64) {
	for i := 1; i < len(series); i++ {
		series[i] += series[i-1]
	}
}

func last(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

// mondayOffset is the number of days since the week's Monday
func mondayOffset(day time.Time) int {
	return (int(day.Weekday()) + 6) % 7
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// splitDate breaks a YYYY-MM-DD date into its month and day-of-month
func splitDate(date string) (string, int) {
	day, err := time.Parse(item.DateLayout, date)
	if err != nil {
		return "", 0
	}
	return day.Format("2006-01"), day.Day()
}

func daysInMonth(month string) int {
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return 31
	}
	return first.AddDate(0, 1, -1).Day()
}
