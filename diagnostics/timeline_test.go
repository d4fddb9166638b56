package diagnostics

import (
	"testing"
	"time"
)

func eventAt(ts time.Time, kind, title string) TimelineEvent {
	return TimelineEvent{
		Timestamp: ts,
		Category:  CategoryOrder,
		Kind:      kind,
		Title:     title,
		Status:    EventInfo,
		Source:    SourceOrders,
	}
}

func TestMergeEventsOrdersByTimestamp(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	t3 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	merged, _ := mergeEvents([]TimelineEvent{
		eventAt(t3, "order_created", "c"),
		eventAt(t1, "order_created", "a"),
		eventAt(t2, "order_created", "b"),
	})

	want := []string{"a", "b", "c"}
	for i, ev := range merged {
		if ev.Title != want[i] {
			t.Fatalf("position %d: got %q, want %q", i, ev.Title, want[i])
		}
	}
}

func TestMergeEventsIsStableAndDeterministic(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	input := []TimelineEvent{
		eventAt(ts, "subscription_date", "first"),
		eventAt(ts, "order_created", "second"),
		eventAt(ts, "scheduled_action", "third"),
		eventAt(ts, "note", "fourth"),
	}

	first, _ := mergeEvents(input)
	for run := 0; run < 5; run++ {
		again, _ := mergeEvents(input)
		for i := range first {
			if first[i].Title != again[i].Title {
				t.Fatalf("run %d: ordering changed at %d: %q vs %q", run, i, first[i].Title, again[i].Title)
			}
		}
	}
	// Ties keep collection order.
	want := []string{"first", "second", "third", "fourth"}
	for i, ev := range first {
		if ev.Title != want[i] {
			t.Fatalf("tie-break at %d: got %q, want %q", i, ev.Title, want[i])
		}
	}
}

func TestMergeEventsSentinelSortsFirst(t *testing.T) {
	valid := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	merged, _ := mergeEvents([]TimelineEvent{
		eventAt(valid, "order_created", "dated"),
		eventAt(Epoch, "note", "undated"),
	})
	if merged[0].Title != "undated" || merged[1].Title != "dated" {
		t.Fatalf("sentinel event must sort first, got [%q, %q]", merged[0].Title, merged[1].Title)
	}
}

func TestMergeEventsSummaryCounts(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []TimelineEvent{
		{Timestamp: ts, Category: CategoryOrder, Kind: "order_created", Status: EventSuccess},
		{Timestamp: ts, Category: CategoryOrder, Kind: "order_created", Status: EventError},
		{Timestamp: ts, Category: CategorySystem, Kind: "scheduled_action", Status: EventInfo},
	}
	_, summary := mergeEvents(events)
	if summary.ByKind["order_created"] != 2 {
		t.Fatalf("ByKind[order_created] = %d", summary.ByKind["order_created"])
	}
	if summary.ByCategory[string(CategoryOrder)] != 2 || summary.ByCategory[string(CategorySystem)] != 1 {
		t.Fatalf("unexpected category counts: %v", summary.ByCategory)
	}
	if summary.ByStatus[string(EventError)] != 1 {
		t.Fatalf("ByStatus[error] = %d", summary.ByStatus[string(EventError)])
	}
}
