package diagnostics

import (
	"fmt"
	"sort"
	"time"
)

// completedPaymentInstants returns the chronological payment-evidence
// timestamps of completed orders. Only completed orders count: pending or
// failed orders are not payments.
func completedPaymentInstants(orders []Order) []time.Time {
	var instants []time.Time
	for _, order := range orders {
		if order.Status != OrderCompleted {
			continue
		}
		t := order.PaymentInstant()
		if !IsKnownInstant(t) {
			continue
		}
		instants = append(instants, t)
	}
	sort.Slice(instants, func(i, j int) bool { return instants[i].Before(instants[j]) })
	return instants
}

// detectSkippedCycles walks consecutive completed-payment timestamps against
// the expected cadence. A pair is flagged only when the actual payment lands
// more than one day past a full period after its predecessor, which absorbs
// scheduling noise (weekends, processing delays) while still reporting each
// genuine gap exactly once.
func (e *Engine) detectSkippedCycles(snap *snapshot) []Discrepancy {
	sub := snap.sub
	periodDays, ok := PeriodDays(sub.PeriodUnit, sub.Interval)
	if !ok {
		// Unknown cadence: nothing to evaluate.
		return nil
	}

	payments := completedPaymentInstants(snap.orders)

	if len(payments) == 0 {
		return e.noPaymentsCheck(snap)
	}

	var found []Discrepancy
	comparisons := len(payments) - 1
	if comparisons > e.opts.CycleComparisonCap {
		comparisons = e.opts.CycleComparisonCap
	}
	for i := 0; i < comparisons; i++ {
		previous := payments[i]
		actual := payments[i+1]
		expected, _ := ExpectedNext(previous, sub.PeriodUnit, sub.Interval)
		daysLate := actual.Sub(expected).Hours() / 24
		if daysLate <= 1 {
			continue
		}
		suggested := expected
		found = append(found, Discrepancy{
			Type:     "skipped_cycle",
			Category: CategoryPaymentTiming,
			Severity: SeverityHigh,
			Description: fmt.Sprintf("Expected a renewal payment around %s but the next one arrived %s (%d days late).",
				CanonicalTimestamp(expected), CanonicalTimestamp(actual), int(daysLate)),
			Recommendation: "Review the gap for a missed renewal charge and confirm the next payment date is correct.",
			Details: map[string]any{
				"last_payment_date":  CanonicalTimestamp(previous),
				"expected_next_date": CanonicalTimestamp(expected),
				"actual_next_date":   CanonicalTimestamp(actual),
				"days_skipped":       int(daysLate),
				"period_days":        periodDays,
			},
			Correctable:       true,
			SuggestedNextDate: &suggested,
		})
	}

	// Tail check: the most recent payment may itself be the start of a gap.
	last := payments[len(payments)-1]
	expected, _ := ExpectedNext(last, sub.PeriodUnit, sub.Interval)
	overdueDays := snap.now.Sub(expected).Hours() / 24
	if overdueDays > float64(periodDays) {
		found = append(found, Discrepancy{
			Type:     "overdue_payment",
			Category: CategoryPaymentTiming,
			Severity: SeverityWarning,
			Description: fmt.Sprintf("No renewal payment since %s; the next one was expected around %s.",
				CanonicalTimestamp(last), CanonicalTimestamp(expected)),
			Recommendation: "Check whether the renewal is stuck or the subscription should have ended.",
			Details: map[string]any{
				"last_payment_date":  CanonicalTimestamp(last),
				"expected_next_date": CanonicalTimestamp(expected),
				"days_overdue":       int(overdueDays),
			},
		})
	}
	return found
}

// noPaymentsCheck covers subscriptions that should have billed at least once
// by now but have no completed orders at all.
func (e *Engine) noPaymentsCheck(snap *snapshot) []Discrepancy {
	sub := snap.sub
	anchor := NormalizeInstant(sub.StartDate)
	if !IsKnownInstant(anchor) {
		anchor = NormalizeInstant(sub.DateCreated)
	}
	if !IsKnownInstant(anchor) {
		return nil
	}
	expected, ok := ExpectedNext(anchor, sub.PeriodUnit, sub.Interval)
	if !ok || !snap.now.After(expected) {
		return nil
	}
	return []Discrepancy{{
		Type:     "no_payments",
		Category: CategoryPaymentTiming,
		Severity: SeverityWarning,
		Description: fmt.Sprintf("Subscription started %s and should have billed by %s, but no completed payment exists.",
			CanonicalTimestamp(anchor), CanonicalTimestamp(expected)),
		Recommendation: "Verify the first renewal was charged; the gateway may never have been invoked.",
		Details: map[string]any{
			"start_date":         CanonicalTimestamp(anchor),
			"expected_next_date": CanonicalTimestamp(expected),
		},
		Correctable: false,
	}}
}
