package subscription

import (
	"strconv"
	"time"

	commonErrors "github.com/hausbuch/hausbuch/internal/domain/errors"
)

// NextAfter computes the first renewal date strictly after today for the
// given anchor. Monthly anchors beyond a month's length clamp to its last
// day (anchor 31 in April renews on the 30th); the anchor itself is kept,
// so a later month with enough days renews on the full anchor day again.
func NextAfter(period Period, anchor string, today time.Time) (time.Time, error) {
	switch period {
	case PeriodMonthly:
		day, err := strconv.Atoi(anchor)
		if err != nil || day < 1 || day > 31 {
			return time.Time{}, commonErrors.NewValidationError("monthly anchor must be a day of month between 1 and 31")
		}
		next := clampedDate(today.Year(), today.Month(), day)
		if !next.After(midnight(today)) {
			next = clampedDate(today.Year(), today.Month()+1, day)
		}
		return next, nil

	case PeriodYearly:
		month, day, err := parseYearlyAnchor(anchor)
		if err != nil {
			return time.Time{}, err
		}
		next := clampedDate(today.Year(), month, day)
		if !next.After(midnight(today)) {
			next = clampedDate(today.Year()+1, month, day)
		}
		return next, nil
	}
	return time.Time{}, commonErrors.NewValidationError("subscription period must be M or Y")
}

// Advance moves a due date forward by exactly one period from the previous
// due date, preserving the anchor. Advancing from today instead would drift
// the renewal day after a late check.
func Advance(period Period, anchor string, prev time.Time) (time.Time, error) {
	switch period {
	case PeriodMonthly:
		day, err := strconv.Atoi(anchor)
		if err != nil || day < 1 || day > 31 {
			return time.Time{}, commonErrors.NewValidationError("monthly anchor must be a day of month between 1 and 31")
		}
		return clampedDate(prev.Year(), prev.Month()+1, day), nil

	case PeriodYearly:
		month, day, err := parseYearlyAnchor(anchor)
		if err != nil {
			return time.Time{}, err
		}
		return clampedDate(prev.Year()+1, month, day), nil
	}
	return time.Time{}, commonErrors.NewValidationError("subscription period must be M or Y")
}

func parseYearlyAnchor(anchor string) (time.Month, int, error) {
	if len(anchor) != 4 {
		return 0, 0, commonErrors.NewValidationError("yearly anchor must be MMDD")
	}
	month, err := strconv.Atoi(anchor[:2])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, commonErrors.NewValidationError("yearly anchor month must be between 01 and 12")
	}
	day, err := strconv.Atoi(anchor[2:])
	if err != nil || day < 1 || day > 31 {
		return 0, 0, commonErrors.NewValidationError("yearly anchor day must be between 01 and 31")
	}
	return time.Month(month), day, nil
}

// clampedDate builds a date with the day clamped to the target month's
// length instead of normalizing into the following month
func clampedDate(year int, month time.Month, day int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
