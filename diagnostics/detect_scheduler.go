package diagnostics

import (
	"fmt"
	"strings"
)

// isPaymentHook matches the renewal-charge hooks the job store schedules for
// a subscription. Hook names differ across hosts but all carry "payment".
func isPaymentHook(hook string) bool {
	return strings.Contains(strings.ToLower(hook), "payment")
}

// detectSchedulerIssues audits the scheduled-job store. It no-ops when the
// store was unavailable for this run: an empty result there means "unknown",
// not "healthy", and flagging it would be noise.
func (e *Engine) detectSchedulerIssues(snap *snapshot) []Discrepancy {
	if !snap.jobStoreOK {
		return nil
	}
	sub := snap.sub
	var found []Discrepancy

	// An active, gateway-charged subscription must have a pending payment
	// job or the next renewal will never fire.
	if sub.Status == SubscriptionActive && !sub.ManualRenewal {
		pendingPayment := false
		for _, job := range snap.jobs {
			if job.Status == JobPending && isPaymentHook(job.Hook) {
				pendingPayment = true
				break
			}
		}
		if !pendingPayment {
			found = append(found, Discrepancy{
				Type:           "missing_action",
				Category:       CategorySchedulerIssue,
				Severity:       SeverityWarning,
				Description:    "No pending scheduled payment action exists for this active subscription.",
				Recommendation: "Re-schedule the renewal action or the next payment will not be attempted.",
				Details: map[string]any{
					"subscription_id": sub.ID,
					"jobs_inspected":  len(snap.jobs),
				},
				Correctable: true,
			})
		}
	}

	for _, job := range snap.jobs {
		if job.Status != JobFailed {
			continue
		}
		details := map[string]any{
			"action_id":   job.ID,
			"hook":        job.Hook,
			"retry_count": job.RetryCount,
		}
		if job.ScheduledAt != nil {
			details["scheduled_date"] = CanonicalTimestamp(NormalizeInstant(job.ScheduledAt))
		}
		if job.LastAttemptAt != nil {
			details["last_attempt_date"] = CanonicalTimestamp(NormalizeInstant(job.LastAttemptAt))
		}
		found = append(found, Discrepancy{
			Type:     "failed_scheduled_action",
			Category: CategorySchedulerIssue,
			Severity: SeverityError,
			Description: fmt.Sprintf("Scheduled action %q for this subscription is in a failed state after %d retries.",
				job.Hook, job.RetryCount),
			Recommendation: "Inspect the action's error log and re-run or re-schedule it.",
			Details:        details,
		})
	}

	return found
}
