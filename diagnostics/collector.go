package diagnostics

import (
	"fmt"
	"strconv"
	"time"
)

// Provenance tags on collected events.
const (
	SourceSubscription = "subscription"
	SourceOrders       = "orders"
	SourceScheduler    = "scheduler"
	SourceNotes        = "notes"
)

// collectEvents flattens the snapshot into the common event shape. Emission
// order is the merge tie-break convention: subscription dates, then order
// events, then scheduler events, then notes.
func (e *Engine) collectEvents(snap *snapshot) []TimelineEvent {
	var events []TimelineEvent
	events = append(events, collectSubscriptionDates(snap.sub)...)
	events = append(events, collectOrderEvents(snap.orders)...)
	events = append(events, collectJobEvents(snap.jobs)...)
	events = append(events, collectNoteEvents(snap)...)
	return events
}

// lifecycleDates enumerates the subscription dates that become events, in a
// fixed order so ties on equal timestamps stay deterministic.
func lifecycleDates(sub *Subscription) []struct {
	Label string
	Value *time.Time
} {
	return []struct {
		Label string
		Value *time.Time
	}{
		{"created", sub.DateCreated},
		{"started", sub.StartDate},
		{"trial_end", sub.TrialEndDate},
		{"last_payment", sub.LastPaymentDate},
		{"next_payment", sub.NextPaymentDate},
		{"cancelled", sub.CancelledDate},
		{"ended", sub.EndDate},
	}
}

func collectSubscriptionDates(sub *Subscription) []TimelineEvent {
	if sub == nil {
		return nil
	}
	var events []TimelineEvent
	for _, d := range lifecycleDates(sub) {
		if d.Value == nil {
			continue
		}
		events = append(events, TimelineEvent{
			Timestamp:   NormalizeInstant(d.Value),
			Category:    CategorySubscription,
			Kind:        "subscription_date",
			Title:       fmt.Sprintf("Subscription %s", d.Label),
			Description: fmt.Sprintf("Subscription %s on %s", d.Label, CanonicalTimestamp(NormalizeInstant(d.Value))),
			Status:      EventInfo,
			Source:      SourceSubscription,
			Metadata: map[string]string{
				"date_field": d.Label,
			},
		})
	}
	return events
}

func orderEventStatus(status string) EventStatus {
	switch status {
	case OrderFailed:
		return EventError
	case OrderCancelled, OrderRefunded:
		return EventWarning
	case OrderCompleted:
		return EventSuccess
	default:
		return EventInfo
	}
}

func collectOrderEvents(orders []Order) []TimelineEvent {
	var events []TimelineEvent
	for _, order := range orders {
		meta := map[string]string{
			"order_id": strconv.Itoa(order.ID),
			"relation": order.Relation,
			"status":   order.Status,
			"total":    order.Total.String(),
		}
		events = append(events, TimelineEvent{
			Timestamp:   NormalizeInstant(order.CreatedAt),
			Category:    CategoryOrder,
			Kind:        "order_created",
			Title:       fmt.Sprintf("Order #%d created (%s)", order.ID, order.Relation),
			Description: fmt.Sprintf("Order #%d (%s) created with status %s", order.ID, order.Relation, order.Status),
			Status:      orderEventStatus(order.Status),
			Source:      SourceOrders,
			Metadata:    meta,
		})
		if order.PaidAt != nil {
			events = append(events, TimelineEvent{
				Timestamp:   NormalizeInstant(order.PaidAt),
				Category:    CategoryPayment,
				Kind:        "payment_completed",
				Title:       fmt.Sprintf("Payment completed for order #%d", order.ID),
				Description: fmt.Sprintf("Order #%d paid %s via %s", order.ID, order.Total.String(), order.PaymentMethod),
				Status:      EventSuccess,
				Source:      SourceOrders,
				Metadata:    meta,
			})
		}
	}
	return events
}

func collectJobEvents(jobs []ScheduledJob) []TimelineEvent {
	var events []TimelineEvent
	for _, job := range jobs {
		events = append(events, TimelineEvent{
			Timestamp:   NormalizeInstant(job.ScheduledAt),
			Category:    CategorySystem,
			Kind:        "scheduled_action",
			Title:       fmt.Sprintf("Scheduled action: %s", job.Hook),
			Description: fmt.Sprintf("Action %q in state %s", job.Hook, job.Status),
			Status:      StatusFromJobState(job.Status),
			Source:      SourceScheduler,
			Metadata: map[string]string{
				"action_id":   strconv.Itoa(job.ID),
				"hook":        job.Hook,
				"status":      job.Status,
				"retry_count": strconv.Itoa(job.RetryCount),
			},
		})
	}
	return events
}

func collectNoteEvents(snap *snapshot) []TimelineEvent {
	var events []TimelineEvent
	for _, note := range snap.subNotes {
		events = append(events, noteEvent(note, CategorySubscription, map[string]string{
			"note_id": strconv.Itoa(note.ID),
			"entity":  string(NoteEntitySubscription),
		}))
	}
	// Order notes follow the snapshot's order listing so re-runs produce an
	// identical sequence.
	for _, order := range snap.orders {
		for _, note := range snap.orderNotes[order.ID] {
			events = append(events, noteEvent(note, CategoryOrder, map[string]string{
				"note_id":  strconv.Itoa(note.ID),
				"entity":   string(NoteEntityOrder),
				"order_id": strconv.Itoa(order.ID),
			}))
		}
	}
	return events
}

func noteEvent(note Note, category EventCategory, meta map[string]string) TimelineEvent {
	if note.AuthorType != "" {
		meta["author_type"] = note.AuthorType
	}
	return TimelineEvent{
		Timestamp:   NormalizeInstant(note.CreatedAt),
		Category:    category,
		Kind:        "note",
		Title:       "Note",
		Description: note.Content,
		Status:      StatusFromNoteContent(note.Content),
		Source:      SourceNotes,
		Metadata:    meta,
	}
}
