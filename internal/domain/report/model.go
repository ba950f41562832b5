package report

// expenseRow is the common shape reports aggregate over, regardless of which
// collection a record came from
type expenseRow struct {
	Name         string
	Category     string
	ActualPrice  float64
	Currency     string
	PurchaseDate string
	Source       string
	Account      string
}

// WeekComparison holds cumulative daily spending for the running week against
// the previous one. Current stops at today; Previous always covers seven days.
type WeekComparison struct {
	Currency string
	Labels   []string
	Current  []float64
	Previous []float64
}

// CurrentTotal is the running total of the week so far
func (w WeekComparison) CurrentTotal() float64 {
	if len(w.Current) == 0 {
		return 0
	}
	return w.Current[len(w.Current)-1]
}

// PreviousTotal is the full previous-week total
func (w WeekComparison) PreviousTotal() float64 {
	if len(w.Previous) == 0 {
		return 0
	}
	return w.Previous[len(w.Previous)-1]
}

// MonthComparison holds cumulative daily spending for two months. The series
// of a month containing today is truncated at today.
type MonthComparison struct {
	Currency string
	Month1   string
	Month2   string
	Series1  []float64
	Series2  []float64
	Total1   float64
	Total2   float64
}

// Diff is Total1 minus Total2
func (m MonthComparison) Diff() float64 {
	return m.Total1 - m.Total2
}

// FlowPeriod selects the purchase-date window of an account-flow report
type FlowPeriod string

const (
	FlowMonth   FlowPeriod = "month"
	FlowQuarter FlowPeriod = "quarter"
	FlowYear    FlowPeriod = "year"
	FlowAll     FlowPeriod = "all"
)

// Flow is one source or account with its total in the base currency
type Flow struct {
	Name  string
	Total float64
}

// AccountFlows groups spending by merchant and by payment account. Transfers
// and refunds also land here, so the totals need not match net consumption.
type AccountFlows struct {
	Period   FlowPeriod
	Sources  []Flow
	Accounts []Flow
}

// ProductUtilization aggregates the checkout history of one product name
type ProductUtilization struct {
	Name           string
	Category       string
	Currency       string
	AvgUtilization float64
	MinUtilization int
	MaxUtilization int
	Count          int
	AvgPrice       float64
	AvgDays        float64
	BaseValue      float64
}

// UtilizationReport is the per-product view plus its headline numbers
type UtilizationReport struct {
	Products   []ProductUtilization
	OverallAvg float64
	HighCount  int // avg utilization >= 80
	LowCount   int // avg utilization < 50
}

// CategoryTotal is one slice of a monthly breakdown, in the base currency
type CategoryTotal struct {
	Category string
	Total    float64
}

// MonthlyBreakdown sums a month's spending by category across every
// collection, active and checked out alike
type MonthlyBreakdown struct {
	Month      string
	Categories []CategoryTotal
	Total      float64
}
