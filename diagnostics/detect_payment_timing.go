package diagnostics

import (
	"fmt"
	"math"
	"time"
)

// detectPaymentTiming evaluates the next-payment date against now, and the
// last-to-next gap against the subscription's cadence. Unlike the
// skipped-cycle scan this uses exact calendar units for the expected gap:
// the two checks intentionally carry different tolerances.
func (e *Engine) detectPaymentTiming(snap *snapshot) []Discrepancy {
	sub := snap.sub
	var found []Discrepancy

	next := NormalizeInstant(sub.NextPaymentDate)
	if IsKnownInstant(next) {
		if next.Before(snap.now) {
			overdueDays := int(math.Ceil(snap.now.Sub(next).Hours() / 24))
			if overdueDays < 1 {
				overdueDays = 1
			}
			found = append(found, Discrepancy{
				Type:     "payment_overdue",
				Category: CategoryPaymentTiming,
				Severity: SeverityCritical,
				Description: fmt.Sprintf("The next payment was due %s and is %d day(s) overdue.",
					CanonicalTimestamp(next), overdueDays),
				Recommendation: "Trigger the renewal payment manually or investigate why the charge never ran.",
				Details: map[string]any{
					"next_payment_date": CanonicalTimestamp(next),
					"days_overdue":      overdueDays,
				},
				Correctable: true,
			})
		} else {
			daysUntil := int(math.Ceil(next.Sub(snap.now).Hours() / 24))
			if daysUntil <= e.opts.DueSoonDays {
				found = append(found, Discrepancy{
					Type:     "payment_due_soon",
					Category: CategoryPaymentTiming,
					Severity: SeverityWarning,
					Description: fmt.Sprintf("The next payment is due in %d day(s), on %s.",
						daysUntil, CanonicalTimestamp(next)),
					Recommendation: "Confirm the payment method is chargeable before the renewal runs.",
					Details: map[string]any{
						"next_payment_date": CanonicalTimestamp(next),
						"days_until_next":   daysUntil,
					},
				})
			}
		}
	}

	last := NormalizeInstant(sub.LastPaymentDate)
	if IsKnownInstant(last) && IsKnownInstant(next) {
		expected, ok := ExpectedNextCalendar(last, sub.PeriodUnit, sub.Interval)
		if ok {
			drift := next.Sub(expected)
			if drift < 0 {
				drift = -drift
			}
			if drift > 24*time.Hour {
				driftDays := int(math.Round(drift.Hours() / 24))
				found = append(found, Discrepancy{
					Type:     "irregular_payment_interval",
					Category: CategoryPaymentTiming,
					Severity: SeverityMedium,
					Description: fmt.Sprintf("The gap between last (%s) and next (%s) payment differs from the billing cadence by %d day(s).",
						CanonicalTimestamp(last), CanonicalTimestamp(next), driftDays),
					Recommendation: "Check whether the next payment date was edited by hand or shifted by a failed retry.",
					Details: map[string]any{
						"last_payment_date":  CanonicalTimestamp(last),
						"next_payment_date":  CanonicalTimestamp(next),
						"expected_next_date": CanonicalTimestamp(expected),
						"drift_days":         driftDays,
					},
					Correctable: true,
				})
			}
		}
	}

	return found
}
