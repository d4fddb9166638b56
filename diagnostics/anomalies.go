package diagnostics

import (
	"context"
)

// ManualCompletion flags a completed renewal order that shows no evidence of
// a gateway charge: no recorded paid date, or no payment method at all.
type ManualCompletion struct {
	OrderID   int    `json:"order_id"`
	CreatedAt string `json:"created_at,omitempty"`
	Reason    string `json:"reason"`
}

// YearOverYearComparison compares completed-renewal volume in the trailing
// 365 days against the 365 days before that.
type YearOverYearComparison struct {
	CurrentPeriodCount int  `json:"current_period_count"`
	PriorPeriodCount   int  `json:"prior_period_count"`
	DropDetected       bool `json:"drop_detected"`
}

// AnomalyScan is the DetectAnomalies result: the targeted rule families,
// grouped rather than flattened, for hosts that render them separately.
type AnomalyScan struct {
	SkippedCycles     []Discrepancy           `json:"skipped_cycles"`
	ManualCompletions []ManualCompletion      `json:"manual_completions"`
	StatusMismatches  []Discrepancy           `json:"status_mismatches"`
	SchedulerAudit    []Discrepancy           `json:"scheduler_audit"`
	YearOverYear      *YearOverYearComparison `json:"year_over_year,omitempty"`
}

// DetectAnomalies runs the targeted scans over one snapshot.
func (e *Engine) DetectAnomalies(ctx context.Context, subscriptionID int) (*AnomalyScan, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.AnalysisTimeout)
	defer cancel()

	snap, err := e.loadSnapshot(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	return &AnomalyScan{
		SkippedCycles:     e.detectSkippedCycles(snap),
		ManualCompletions: scanManualCompletions(snap),
		StatusMismatches:  e.detectStatusConsistency(snap),
		SchedulerAudit:    e.detectSchedulerIssues(snap),
		YearOverYear:      scanYearOverYear(snap),
	}, nil
}

func scanManualCompletions(snap *snapshot) []ManualCompletion {
	var found []ManualCompletion
	for _, order := range snap.orders {
		if order.Relation != RelationRenewal || order.Status != OrderCompleted {
			continue
		}
		var reason string
		switch {
		case order.PaidAt == nil:
			reason = "completed without a recorded paid date"
		case order.PaymentMethod == "":
			reason = "completed without a payment method"
		default:
			continue
		}
		mc := ManualCompletion{OrderID: order.ID, Reason: reason}
		if order.CreatedAt != nil {
			mc.CreatedAt = CanonicalTimestamp(NormalizeInstant(order.CreatedAt))
		}
		found = append(found, mc)
	}
	return found
}

// scanYearOverYear flags a drop of more than half in completed-renewal
// volume. Prior-year counts below 2 are too thin to compare and stay silent.
func scanYearOverYear(snap *snapshot) *YearOverYearComparison {
	yearAgo := snap.now.AddDate(-1, 0, 0)
	twoYearsAgo := snap.now.AddDate(-2, 0, 0)

	comparison := &YearOverYearComparison{}
	for _, order := range snap.orders {
		if order.Relation != RelationRenewal || order.Status != OrderCompleted {
			continue
		}
		t := order.PaymentInstant()
		if !IsKnownInstant(t) {
			continue
		}
		switch {
		case t.After(yearAgo):
			comparison.CurrentPeriodCount++
		case t.After(twoYearsAgo):
			comparison.PriorPeriodCount++
		}
	}
	comparison.DropDetected = comparison.PriorPeriodCount >= 2 &&
		comparison.CurrentPeriodCount*2 < comparison.PriorPeriodCount
	return comparison
}
