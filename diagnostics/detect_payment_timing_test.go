package diagnostics

import (
	"testing"
	"time"
)

func TestPaymentOverdueBoundary(t *testing.T) {
	e := testEngine()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// One second overdue still counts as at least one day overdue.
	next := now.Add(-time.Second)
	snap := &snapshot{sub: &Subscription{ID: 1, PeriodUnit: PeriodMonth, Interval: 1, NextPaymentDate: tp(next)}, now: now}
	found := ofType(e.detectPaymentTiming(snap), "payment_overdue")
	if len(found) != 1 {
		t.Fatalf("expected one payment_overdue, got %d", len(found))
	}
	if found[0].Severity != SeverityCritical {
		t.Fatalf("payment_overdue severity = %s, want critical", found[0].Severity)
	}
	if days, _ := found[0].Details["days_overdue"].(int); days < 1 {
		t.Fatalf("days_overdue = %v, want >= 1", found[0].Details["days_overdue"])
	}

	// One day out: due soon, not overdue.
	snap.sub.NextPaymentDate = tp(now.Add(24 * time.Hour))
	all := e.detectPaymentTiming(snap)
	if len(ofType(all, "payment_overdue")) != 0 {
		t.Fatal("future payment must not be overdue")
	}
	if len(ofType(all, "payment_due_soon")) != 1 {
		t.Fatalf("expected payment_due_soon, got %+v", all)
	}

	// Outside the due-soon window: quiet.
	snap.sub.NextPaymentDate = tp(now.AddDate(0, 0, 10))
	if all := e.detectPaymentTiming(snap); len(all) != 0 {
		t.Fatalf("expected no findings 10 days out, got %+v", all)
	}
}

func TestIrregularPaymentInterval(t *testing.T) {
	e := testEngine()
	now := day(2024, time.February, 1)
	last := day(2024, time.January, 15)

	sub := &Subscription{ID: 1, PeriodUnit: PeriodMonth, Interval: 1, LastPaymentDate: tp(last)}

	// Calendar-exact expectation is Feb 15; five days of drift flags.
	sub.NextPaymentDate = tp(day(2024, time.February, 20))
	snap := &snapshot{sub: sub, now: now}
	found := ofType(e.detectPaymentTiming(snap), "irregular_payment_interval")
	if len(found) != 1 {
		t.Fatalf("expected one irregular_payment_interval, got %d", len(found))
	}
	if got := found[0].Details["drift_days"]; got != 5 {
		t.Fatalf("drift_days = %v, want 5", got)
	}

	// Exact calendar month: quiet.
	sub.NextPaymentDate = tp(day(2024, time.February, 15))
	if found := ofType(e.detectPaymentTiming(snap), "irregular_payment_interval"); len(found) != 0 {
		t.Fatalf("exact calendar gap must not flag, got %d", len(found))
	}

	// One day of drift is within tolerance.
	sub.NextPaymentDate = tp(day(2024, time.February, 16))
	if found := ofType(e.detectPaymentTiming(snap), "irregular_payment_interval"); len(found) != 0 {
		t.Fatalf("one-day drift must not flag, got %d", len(found))
	}
}

func TestPaymentTimingWithoutDates(t *testing.T) {
	e := testEngine()
	snap := &snapshot{sub: &Subscription{ID: 1, PeriodUnit: PeriodMonth, Interval: 1}, now: day(2024, time.June, 1)}
	if found := e.detectPaymentTiming(snap); len(found) != 0 {
		t.Fatalf("no dates, no findings; got %+v", found)
	}
}
