package diagnostics

import "fmt"

// detectStatusConsistency runs the pure contradiction predicates over the
// subscription record. The checks are independent; both may fire.
func (e *Engine) detectStatusConsistency(snap *snapshot) []Discrepancy {
	sub := snap.sub
	var found []Discrepancy

	next := NormalizeInstant(sub.NextPaymentDate)
	if sub.Status == SubscriptionExpired && IsKnownInstant(next) && next.After(snap.now) {
		found = append(found, Discrepancy{
			Type:     "status_mismatch",
			Category: CategoryStatusIssue,
			Severity: SeverityError,
			Description: fmt.Sprintf("Subscription is expired but still has a future next payment on %s.",
				CanonicalTimestamp(next)),
			Recommendation: "Clear the next payment date or reactivate the subscription; the two cannot both be right.",
			Details: map[string]any{
				"status":            sub.Status,
				"next_payment_date": CanonicalTimestamp(next),
			},
		})
	}

	end := NormalizeInstant(sub.EndDate)
	if sub.Status == SubscriptionActive && IsKnownInstant(end) && end.Before(snap.now) {
		found = append(found, Discrepancy{
			Type:     "status_mismatch",
			Category: CategoryStatusIssue,
			Severity: SeverityError,
			Description: fmt.Sprintf("Subscription is active but its own end date %s has already passed.",
				CanonicalTimestamp(end)),
			Recommendation: "Expire the subscription or remove the stale end date.",
			Details: map[string]any{
				"status":   sub.Status,
				"end_date": CanonicalTimestamp(end),
			},
		})
	}

	return found
}
