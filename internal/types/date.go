package types

import (
	"fmt"
	"time"
)

// NextDueDate calculates the due date of the billing cycle following the
// one that starts at the given date.
// For example:
// - MONTHLY adds one calendar month, SEMI_ANNUAL adds six.
// - ANNUAL adds one calendar year, so Feb 29 lands on Feb 28 in non-leap years.
// - CUSTOM_DURATION adds the configured amount of days, weeks or months.
// Month arithmetic clamps to the last day of shorter target months, so a
// cycle anchored on Jan 31 falls due on Feb 28 (or Feb 29 in leap years).
// CUSTOM_TERM cycles have a fixed term end and never advance; callers must
// treat the returned error as "do not advance", the same as for an unknown
// billing period.
func NextDueDate(start time.Time, cycle BillingCycle) (time.Time, error) {
	switch cycle.Period {
	case BILLING_PERIOD_MONTHLY:
		return AddClampedDate(start, 0, 1, 0), nil
	case BILLING_PERIOD_SEMI_ANNUAL:
		return AddClampedDate(start, 0, 6, 0), nil
	case BILLING_PERIOD_ANNUAL:
		return AddClampedDate(start, 1, 0, 0), nil
	case BILLING_PERIOD_CUSTOM_DURATION:
		if cycle.Duration == nil {
			return start, fmt.Errorf("custom duration period requires a duration")
		}
		if cycle.Duration.Amount <= 0 {
			return start, fmt.Errorf("duration amount must be a positive integer, got %d", cycle.Duration.Amount)
		}
		switch cycle.Duration.Unit {
		case DURATION_UNIT_DAYS:
			return AddClampedDate(start, 0, 0, cycle.Duration.Amount), nil
		case DURATION_UNIT_WEEKS:
			return AddClampedDate(start, 0, 0, 7*cycle.Duration.Amount), nil
		case DURATION_UNIT_MONTHS:
			return AddClampedDate(start, 0, cycle.Duration.Amount, 0), nil
		default:
			return start, fmt.Errorf("invalid duration unit: %s", cycle.Duration.Unit)
		}
	default:
		return start, fmt.Errorf("billing period does not advance: %s", cycle.Period)
	}
}

// AddClampedDate adds years, months and days to a date, clamping the day of
// month to the last valid day of the target month instead of overflowing
// into the next one the way time.AddDate does.
func AddClampedDate(t time.Time, years, months, days int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	// Calculate the proposed year and month
	newY := y + years
	newM := time.Month(int(m) + months)

	// If we move beyond December, it adjusts correctly,
	// for example adding 2 months to November will land on January next year.
	for newM > 12 {
		newM -= 12
		newY++
	}
	for newM < 1 {
		newM += 12
		newY--
	}

	// Find the last valid day of the new month
	firstOfNextMonth := time.Date(newY, newM+1, 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfNextMonth.Add(-24 * time.Hour).Day()

	newD := d
	if newD > lastDay {
		// Clamp to last valid day
		newD = lastDay
	}

	out := time.Date(newY, newM, newD, h, min, sec, t.Nanosecond(), t.Location())
	if days != 0 {
		out = out.AddDate(0, 0, days)
	}
	return out
}
