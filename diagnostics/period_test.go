package diagnostics

import (
	"testing"
	"time"
)

func TestPeriodDays(t *testing.T) {
	cases := []struct {
		unit     PeriodUnit
		interval int
		want     int
		ok       bool
	}{
		{PeriodDay, 1, 1, true},
		{PeriodWeek, 2, 14, true},
		{PeriodMonth, 1, 30, true},
		{PeriodMonth, 3, 90, true},
		{PeriodYear, 1, 365, true},
		{PeriodUnit("fortnight"), 1, 0, false},
		{PeriodMonth, 0, 30, true}, // zero interval treated as 1
	}
	for _, tc := range cases {
		got, ok := PeriodDays(tc.unit, tc.interval)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("PeriodDays(%s, %d) = (%d, %v), want (%d, %v)", tc.unit, tc.interval, got, ok, tc.want, tc.ok)
		}
	}
}

func TestExpectedNext(t *testing.T) {
	anchor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	got, ok := ExpectedNext(anchor, PeriodMonth, 1)
	if !ok {
		t.Fatal("expected ok for month unit")
	}
	if want := anchor.AddDate(0, 0, 30); !got.Equal(want) {
		t.Fatalf("ExpectedNext month = %s, want %s", got, want)
	}

	if _, ok := ExpectedNext(anchor, PeriodUnit("eon"), 1); ok {
		t.Fatal("unknown unit must not produce an instant")
	}
}

func TestExpectedNextCalendar(t *testing.T) {
	// Calendar months differ from the 30-day approximation: Jan 31 + 1
	// month lands on Mar 2 via AddDate normalization, and Jan 15 + 1 month
	// is Feb 15 (31 calendar days, not 30).
	anchor := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	got, ok := ExpectedNextCalendar(anchor, PeriodMonth, 1)
	if !ok {
		t.Fatal("expected ok for month unit")
	}
	if want := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("ExpectedNextCalendar = %s, want %s", got, want)
	}

	got, _ = ExpectedNextCalendar(anchor, PeriodYear, 2)
	if want := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("ExpectedNextCalendar year = %s, want %s", got, want)
	}

	if _, ok := ExpectedNextCalendar(anchor, PeriodUnit(""), 1); ok {
		t.Fatal("unknown unit must not produce an instant")
	}
}
