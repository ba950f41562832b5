package item

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonErrors "github.com/hausbuch/hausbuch/internal/domain/errors"
)

func sampleItem() Item {
	return Item{
		ID:            "2509011234_milch",
		Name:          "Milch",
		Category:      "饮料",
		ActualPrice:   1.19,
		StandardPrice: 1.29,
		Currency:      "EUR",
		PurchaseDate:  "2025-09-01",
		Source:        "Rewe",
		Account:       "EC",
		Discount:      0.1,
	}
}

func TestCheckout(t *testing.T) {
	rec, err := Checkout(sampleItem(), "2025-09-11", 80, ModeNormal)
	require.NoError(t, err)

	assert.Equal(t, "2025-09-11", rec.CheckoutDate)
	assert.Equal(t, 80, rec.Utilization)
	assert.Equal(t, 10, rec.DaysInService)
	assert.Equal(t, ModeNormal, rec.CheckoutMode)
	assert.Equal(t, "Milch", rec.Name)
}

func TestCheckout_UtilizationBounds(t *testing.T) {
	for _, utilization := range []int{-1, 101} {
		_, err := Checkout(sampleItem(), "2025-09-11", utilization, ModeNormal)
		assert.ErrorIs(t, err, commonErrors.NewValidationError(""))
	}

	for _, utilization := range []int{0, 100} {
		_, err := Checkout(sampleItem(), "2025-09-11", utilization, ModeNormal)
		assert.NoError(t, err)
	}
}

func TestCheckout_InvalidDate(t *testing.T) {
	_, err := Checkout(sampleItem(), "yesterday", 100, ModeNormal)
	assert.ErrorIs(t, err, commonErrors.NewInvalidInputError("", nil))
}

func TestSell(t *testing.T) {
	rec, err := Sell(sampleItem(), "2025-09-21", 0.5, "PayPal")
	require.NoError(t, err)

	assert.Equal(t, ModeSell, rec.CheckoutMode)
	assert.Equal(t, 20, rec.DaysInService)
	assert.Equal(t, 0.5, rec.SellPrice)
	assert.Equal(t, "PayPal", rec.SellAccount)
}

func TestSell_NegativePrice(t *testing.T) {
	_, err := Sell(sampleItem(), "2025-09-21", -1, "PayPal")
	assert.ErrorIs(t, err, commonErrors.NewValidationError(""))
}

func TestMarkLostAndRecover_RoundTrip(t *testing.T) {
	it := sampleItem()
	lr := MarkLost(it, "2025-09-15")
	assert.Equal(t, "2025-09-15", lr.LostDate)

	recovered := Recover(lr)
	assert.Equal(t, it, recovered)
}

func TestDaysBetween(t *testing.T) {
	days, err := DaysBetween("2025-09-28", "2025-10-02")
	require.NoError(t, err)
	assert.Equal(t, 4, days)

	days, err = DaysBetween("2025-09-01", "2025-09-01")
	require.NoError(t, err)
	assert.Equal(t, 0, days)
}

func TestNewID_Format(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	id := NewID("Brot-Riegel 5er", now)
	assert.Regexp(t, `^250901\d{4}_brotri$`, id)

	// Short names keep whatever alphanumerics they have
	id = NewID("茶", now)
	assert.Regexp(t, `^250901\d{4}_茶$`, id)
}

func TestIsDepositBearing(t *testing.T) {
	assert.True(t, IsDepositBearing(Item{Name: "Wasser pfand 1L"}, "Pfand"))
	assert.True(t, IsDepositBearing(Item{Name: "Cola", Category: "pfand"}, "Pfand"))
	assert.False(t, IsDepositBearing(Item{Name: "Cola", Category: "饮料"}, "Pfand"))
	assert.False(t, IsDepositBearing(Item{Name: "Pfandflasche"}, ""))
}
