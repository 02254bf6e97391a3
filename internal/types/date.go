package types

import "time"

// ElapsedBillingMonths returns the number of whole calendar months between
// from and to, computed on calendar fields only (year*12+month difference).
// Day-of-month is deliberately ignored; the result is floored to 1 because a
// period always lasts at least one billing cycle.
func ElapsedBillingMonths(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if months < 1 {
		return 1
	}
	return months
}

// AddBillingMonths advances t by the given number of calendar months keeping
// the day-of-month, with the usual normalization for short months.
func AddBillingMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}

// OneBillingMonthAgo returns now minus one calendar month. Accounts whose
// last token reset is at or before this instant are due for a monthly reset.
func OneBillingMonthAgo(now time.Time) time.Time {
	return now.AddDate(0, -1, 0)
}
