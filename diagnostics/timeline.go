package diagnostics

import "sort"

// TimelineSummary counts merged events along each axis.
type TimelineSummary struct {
	ByKind     map[string]int `json:"by_kind"`
	ByCategory map[string]int `json:"by_category"`
	ByStatus   map[string]int `json:"by_status"`
}

// mergeEvents stably sorts events by normalized timestamp ascending. Ties
// keep collection order, so the collector's per-source emission convention
// is the tie-break and the output is deterministic across runs. Events with
// the Epoch sentinel sort before everything with a real date.
func mergeEvents(events []TimelineEvent) ([]TimelineEvent, TimelineSummary) {
	merged := make([]TimelineEvent, len(events))
	copy(merged, events)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.Before(merged[j].Timestamp)
	})

	summary := TimelineSummary{
		ByKind:     make(map[string]int),
		ByCategory: make(map[string]int),
		ByStatus:   make(map[string]int),
	}
	for _, ev := range merged {
		summary.ByKind[ev.Kind]++
		summary.ByCategory[string(ev.Category)]++
		summary.ByStatus[string(ev.Status)]++
	}
	return merged, summary
}
