package diagnostics

import (
	"testing"
	"time"
)

func TestExpiredWithFutureNextPayment(t *testing.T) {
	e := testEngine()
	now := day(2024, time.June, 1)

	sub := &Subscription{ID: 1, Status: SubscriptionExpired, NextPaymentDate: tp(now.AddDate(0, 0, 10))}
	found := e.detectStatusConsistency(&snapshot{sub: sub, now: now})
	if len(found) != 1 || found[0].Type != "status_mismatch" {
		t.Fatalf("expected exactly one status_mismatch, got %+v", found)
	}
	if found[0].Severity != SeverityError {
		t.Fatalf("severity = %s, want error", found[0].Severity)
	}

	// No next payment date: contradiction impossible.
	sub.NextPaymentDate = nil
	if found := e.detectStatusConsistency(&snapshot{sub: sub, now: now}); len(found) != 0 {
		t.Fatalf("expected zero findings, got %+v", found)
	}
}

func TestActivePastEndDate(t *testing.T) {
	e := testEngine()
	now := day(2024, time.June, 1)

	sub := &Subscription{ID: 1, Status: SubscriptionActive, EndDate: tp(now.AddDate(0, 0, -5))}
	found := e.detectStatusConsistency(&snapshot{sub: sub, now: now})
	if len(found) != 1 {
		t.Fatalf("expected one finding, got %d", len(found))
	}

	sub.EndDate = tp(now.AddDate(0, 0, 5))
	if found := e.detectStatusConsistency(&snapshot{sub: sub, now: now}); len(found) != 0 {
		t.Fatalf("future end date is fine, got %+v", found)
	}
}

func TestBothContradictionsFire(t *testing.T) {
	e := testEngine()
	now := day(2024, time.June, 1)

	// The checks are independent; a record can be wrong both ways at once
	// (status flapped from active to expired mid-write, say).
	sub := &Subscription{
		ID:              1,
		Status:          SubscriptionExpired,
		NextPaymentDate: tp(now.AddDate(0, 0, 10)),
	}
	first := e.detectStatusConsistency(&snapshot{sub: sub, now: now})

	sub.Status = SubscriptionActive
	sub.EndDate = tp(now.AddDate(0, 0, -10))
	second := e.detectStatusConsistency(&snapshot{sub: sub, now: now})

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("each contradiction must fire on its own: %d, %d", len(first), len(second))
	}
}
