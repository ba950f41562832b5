package catalog

// DefaultCategories seeds the category set of a fresh store
var DefaultCategories = []string{"水果", "谷物", "饮料", "日用品", "Pfand"}

// Product is a memoized catalog entry keyed by name. Buyout products are
// one-time purchases; the flag flips to false permanently once the name is
// registered as a subscription.
type Product struct {
	Name          string  `json:"name"`
	StandardPrice float64 `json:"standardPrice"`
	Currency      string  `json:"currency"`
	Category      string  `json:"category"`
	PurchaseCount int     `json:"purchaseCount"`
	Buyout        bool    `json:"buyout"`
}
