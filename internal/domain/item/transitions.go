package item

import (
	"time"

	commonErrors "github.com/hausbuch/hausbuch/internal/domain/errors"
)

// Transitions are pure: they take an item value and return the archived
// record without touching any store. Persisting both sides of a transition
// is the service's job, and only after every transition has succeeded.

// Checkout moves an inventory item into history
func Checkout(it Item, date string, utilization int, mode CheckoutMode) (HistoryRecord, error) {
	if utilization < 0 || utilization > 100 {
		return HistoryRecord{}, commonErrors.NewValidationError("utilization must be between 0 and 100")
	}
	days, err := DaysBetween(it.PurchaseDate, date)
	if err != nil {
		return HistoryRecord{}, err
	}
	return HistoryRecord{
		Item:          it,
		CheckoutDate:  date,
		Utilization:   utilization,
		DaysInService: days,
		CheckoutMode:  mode,
	}, nil
}

// Sell moves an inventory item into the sold archive
func Sell(it Item, date string, price float64, account string) (SoldRecord, error) {
	if price < 0 {
		return SoldRecord{}, commonErrors.NewValidationError("sell price must not be negative")
	}
	days, err := DaysBetween(it.PurchaseDate, date)
	if err != nil {
		return SoldRecord{}, err
	}
	return SoldRecord{
		HistoryRecord: HistoryRecord{
			Item:          it,
			CheckoutDate:  date,
			DaysInService: days,
			CheckoutMode:  ModeSell,
		},
		SellPrice:   price,
		SellAccount: account,
	}, nil
}

// MarkLost moves an inventory item into the lost collection
func MarkLost(it Item, date string) LostRecord {
	return LostRecord{
		Item:     it,
		LostDate: date,
	}
}

// Recover restores a lost item to inventory. The returned item is identical
// to the one originally lost; only the lost date is dropped.
func Recover(lr LostRecord) Item {
	return lr.Item
}

// DaysBetween returns the elapsed whole days from one YYYY-MM-DD date to
// another
func DaysBetween(from, to string) (int, error) {
	start, err := time.Parse(DateLayout, from)
	if err != nil {
		return 0, commonErrors.NewInvalidInputError("invalid purchase date", err)
	}
	end, err := time.Parse(DateLayout, to)
	if err != nil {
		return 0, commonErrors.NewInvalidInputError("invalid checkout date", err)
	}
	return int(end.Sub(start).Hours() / 24), nil
}
