package diagnostics

import "time"

// PeriodUnit is the billing-cadence unit of a subscription.
type PeriodUnit string

const (
	PeriodDay   PeriodUnit = "day"
	PeriodWeek  PeriodUnit = "week"
	PeriodMonth PeriodUnit = "month"
	PeriodYear  PeriodUnit = "year"
)

// PeriodDays returns the approximate billing-period length in days.
// Month and year use fixed lengths (30/365) on purpose: the cadence checks
// look for gross multi-period gaps, not calendar-exact drift. An unrecognized
// unit returns (0, false) and propagates as "cannot evaluate cadence".
func PeriodDays(unit PeriodUnit, interval int) (int, bool) {
	if interval <= 0 {
		interval = 1
	}
	var days int
	switch unit {
	case PeriodDay:
		days = 1
	case PeriodWeek:
		days = 7
	case PeriodMonth:
		days = 30
	case PeriodYear:
		days = 365
	default:
		return 0, false
	}
	return days * interval, true
}

// ExpectedNext derives the expected next billing instant from an anchor using
// the fixed-day approximation.
func ExpectedNext(anchor time.Time, unit PeriodUnit, interval int) (time.Time, bool) {
	days, ok := PeriodDays(unit, interval)
	if !ok {
		return time.Time{}, false
	}
	return anchor.Add(time.Duration(days) * 24 * time.Hour), true
}

// ExpectedNextCalendar derives the expected next billing instant using exact
// calendar units. The payment-timing interval check uses this form; the
// skipped-cycle scan deliberately keeps the fixed-day approximation above,
// so the two checks carry different tolerances for real calendar months.
func ExpectedNextCalendar(anchor time.Time, unit PeriodUnit, interval int) (time.Time, bool) {
	if interval <= 0 {
		interval = 1
	}
	switch unit {
	case PeriodDay:
		return anchor.AddDate(0, 0, interval), true
	case PeriodWeek:
		return anchor.AddDate(0, 0, 7*interval), true
	case PeriodMonth:
		return anchor.AddDate(0, interval, 0), true
	case PeriodYear:
		return anchor.AddDate(interval, 0, 0), true
	default:
		return time.Time{}, false
	}
}
