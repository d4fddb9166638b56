package diagnostics

import (
	"sort"
	"time"
)

// Severity orders detector findings. "error" and "high" share a rank, as do
// "medium" and "warning": detectors emit whichever name reads naturally and
// the assembler ranks them identically.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityError    Severity = "error"
	SeverityWarning  Severity = "warning"
	SeverityMedium   Severity = "medium"
	SeverityInfo     Severity = "info"
)

func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh, SeverityError:
		return 1
	case SeverityWarning, SeverityMedium:
		return 2
	default:
		return 3
	}
}

// DiscrepancyCategory groups findings for presentation.
type DiscrepancyCategory string

const (
	CategoryPaymentTiming        DiscrepancyCategory = "payment_timing"
	CategorySchedulerIssue       DiscrepancyCategory = "scheduler_issue"
	CategoryStatusIssue          DiscrepancyCategory = "status_issue"
	CategoryGatewayCommunication DiscrepancyCategory = "gateway_communication"
	CategoryConfiguration        DiscrepancyCategory = "configuration"
)

// Discrepancy is one detector finding. Findings are created fresh on each
// analysis run and never persisted by this engine.
type Discrepancy struct {
	Type              string              `json:"type"`
	Category          DiscrepancyCategory `json:"category"`
	Severity          Severity            `json:"severity"`
	Description       string              `json:"description"`
	Recommendation    string              `json:"recommendation,omitempty"`
	Details           map[string]any      `json:"details,omitempty"`
	Correctable       bool                `json:"correctable"`
	SuggestedNextDate *time.Time          `json:"suggested_next_date,omitempty"`
}

// sortBySeverity ranks critical > high/error > warning/medium > info. The
// sort is stable: equal severities keep detector emission order so output
// stays deterministic.
func sortBySeverity(list []Discrepancy) {
	sort.SliceStable(list, func(i, j int) bool {
		return severityRank(list[i].Severity) < severityRank(list[j].Severity)
	})
}
