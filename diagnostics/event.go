package diagnostics

import (
	"strings"
	"time"
)

// EventCategory groups timeline events by the slice of the system they
// describe.
type EventCategory string

const (
	CategorySubscription EventCategory = "subscription"
	CategoryOrder        EventCategory = "order"
	CategoryPayment      EventCategory = "payment"
	CategorySystem       EventCategory = "system"
)

// EventStatus is the signal strength derived from the source record.
type EventStatus string

const (
	EventInfo    EventStatus = "info"
	EventSuccess EventStatus = "success"
	EventWarning EventStatus = "warning"
	EventError   EventStatus = "error"
)

// TimelineEvent is one observed or inferred occurrence. Events are immutable
// once created; the merger only reorders.
type TimelineEvent struct {
	Timestamp   time.Time         `json:"timestamp"`
	Category    EventCategory     `json:"category"`
	Kind        string            `json:"kind"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Status      EventStatus       `json:"status"`
	Source      string            `json:"source"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// noteStatusRules maps note-content substrings to an event status. Order
// matters: the first bucket with a hit wins, and failure language outranks
// success language ("payment failed" is an error even though it mentions
// payment).
var noteStatusRules = []struct {
	status  EventStatus
	needles []string
}{
	{EventError, []string{"error", "failed", "declin"}},
	{EventWarning, []string{"warning", "retry"}},
	{EventSuccess, []string{"completed", "successful", "paid"}},
}

// StatusFromNoteContent derives an event status from free note text via the
// fixed keyword table above. Unmatched content is informational.
func StatusFromNoteContent(content string) EventStatus {
	lowered := strings.ToLower(content)
	for _, rule := range noteStatusRules {
		for _, needle := range rule.needles {
			if strings.Contains(lowered, needle) {
				return rule.status
			}
		}
	}
	return EventInfo
}

// jobStatusTable maps scheduled-job states onto event statuses.
var jobStatusTable = map[string]EventStatus{
	JobComplete:   EventSuccess,
	JobPending:    EventInfo,
	JobInProgress: EventWarning,
	JobFailed:     EventError,
	JobCanceled:   EventWarning,
}

// StatusFromJobState maps a scheduled-job state through the fixed status
// table; unset or unknown states are informational.
func StatusFromJobState(state string) EventStatus {
	if status, ok := jobStatusTable[strings.ToLower(strings.TrimSpace(state))]; ok {
		return status
	}
	return EventInfo
}
