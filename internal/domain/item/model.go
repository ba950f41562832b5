package item

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// DateLayout is the date format used across all persisted records
const DateLayout = "2006-01-02"

// CheckoutMode tags how an item left active inventory
type CheckoutMode string

const (
	// ModeNormal is a user-driven checkout with a utilization rating
	ModeNormal CheckoutMode = "normal"
	// ModeSell is a checkout through sale
	ModeSell CheckoutMode = "sell"
	// ModeSubscriptionAuto is an expiry performed by the recurrence engine
	ModeSubscriptionAuto CheckoutMode = "subscription_auto"
	// ModePfandReturn is a checkout through a matched deposit return
	ModePfandReturn CheckoutMode = "pfand_return"
)

// Item is a purchased unit in active inventory.
// Invariant: Discount = StandardPrice - ActualPrice, both prices >= 0.
type Item struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	ActualPrice   float64 `json:"actualPrice"`
	StandardPrice float64 `json:"standardPrice"`
	Currency      string  `json:"currency"`
	PurchaseDate  string  `json:"purchaseDate"` // YYYY-MM-DD
	Source        string  `json:"source"`       // payee / merchant
	Account       string  `json:"account"`      // payment method
	InvoiceName   string  `json:"invoiceName"`
	Discount      float64 `json:"discount"`
	InTransit     bool    `json:"inTransit"`
	PurchaseRate  float64 `json:"purchaseRate"` // exchange rate at purchase time
}

// HistoryRecord is an archived item that left inventory through checkout
type HistoryRecord struct {
	Item
	CheckoutDate  string       `json:"checkoutDate"`
	Utilization   int          `json:"utilization"` // 0-100
	DaysInService int          `json:"daysInService"`
	CheckoutMode  CheckoutMode `json:"checkoutMode"`
}

// SoldRecord is an archived item that left inventory through sale
type SoldRecord struct {
	HistoryRecord
	SellPrice   float64 `json:"sellPrice"`
	SellAccount string  `json:"sellAccount"`
}

// LostRecord is an item marked lost; unlike checkout this is reversible
type LostRecord struct {
	Item
	LostDate string `json:"lostDate"`
}

// NewID generates a unique item identifier from the purchase timestamp and
// the item name: yymmdd + 4 random digits + first 6 alphanumerics of the
// lowercased name.
func NewID(name string, now time.Time) string {
	u := uuid.New()
	random := binary.BigEndian.Uint32(u[0:4]) % 10000

	var slug strings.Builder
	for _, r := range name {
		if slug.Len() >= 6 {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			slug.WriteRune(unicode.ToLower(r))
		}
	}

	return fmt.Sprintf("%s%04d_%s", now.Format("060102"), random, slug.String())
}

// IsDepositBearing reports whether the item carries a refundable deposit:
// either the name contains the deposit keyword or the category equals it,
// case-insensitively.
func IsDepositBearing(it Item, keyword string) bool {
	if keyword == "" {
		return false
	}
	if strings.Contains(strings.ToLower(it.Name), strings.ToLower(keyword)) {
		return true
	}
	return strings.EqualFold(it.Category, keyword)
}
