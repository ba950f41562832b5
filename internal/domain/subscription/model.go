package subscription

// Period is the recurrence kind of a subscription
type Period string

const (
	// PeriodMonthly renews on a fixed day of month
	PeriodMonthly Period = "M"
	// PeriodYearly renews on a fixed month and day
	PeriodYearly Period = "Y"
)

// Subscription is a recurring-charge definition keyed by product name.
// Anchor is the day-of-month for monthly subscriptions and MMDD for yearly
// ones; NextDate is advanced by the recurrence engine, one period at a time.
type Subscription struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Period   Period  `json:"period"`
	Anchor   string  `json:"day"`
	NextDate string  `json:"nextDate"` // YYYY-MM-DD
	Currency string  `json:"currency"`
	Source   string  `json:"source"`
	Account  string  `json:"account"`
	Category string  `json:"category"`
}

// Totals are the aggregate subscription charges shown in the status listing
type Totals struct {
	Count        int
	MonthlyTotal float64
	YearlyTotal  float64
}
