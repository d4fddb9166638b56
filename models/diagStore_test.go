package models

import (
	"strings"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/subscription_diagnostics/diagnostics"
	"bitbucket.org/mmdatafocus/subscription_diagnostics/utils"
)

func TestJobArgsNeedlesMatchStoredBlobs(t *testing.T) {
	blobs := map[string]string{
		"json tail":   `{"subscription_id":1523}`,
		"json middle": `{"subscription_id":1523,"attempt":2}`,
		"serialized":  `a:1:{s:15:"subscription_id";i:1523;}`,
	}
	needles := JobArgsNeedles(1523)
	for name, blob := range blobs {
		matched := false
		for _, needle := range needles {
			if strings.Contains(blob, needle) {
				matched = true
				break
			}
		}
		if !matched {
			t.Fatalf("%s blob %q matched no needle", name, blob)
		}
	}
}

func TestJobArgsNeedlesRejectOtherSubscriptions(t *testing.T) {
	// id 152 is a prefix of 1523; the terminators in each needle must keep it
	// from matching.
	blobs := []string{
		`{"subscription_id":1523}`,
		`{"subscription_id":1523,"attempt":2}`,
		`a:1:{s:15:"subscription_id";i:1523;}`,
	}
	for _, needle := range JobArgsNeedles(152) {
		for _, blob := range blobs {
			if strings.Contains(blob, needle) {
				t.Fatalf("needle %q for id 152 matched blob %q", needle, blob)
			}
		}
	}
}

func TestToDiagSubscription(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	next := start.AddDate(0, 1, 0)
	sub := &Subscription{
		ID:              7,
		Status:          SubscriptionStatusActive,
		BillingPeriod:   BillingPeriodMonth,
		BillingInterval: 2,
		PaymentMethod:   "stripe",
		PaymentTokenId:  "tok_9",
		ManualRenewal:   utils.NewTrue(),
		StartDate:       &start,
		NextPaymentDate: &next,
		CreatedAt:       start,
		Metadata: []SubscriptionMeta{
			{MetaKey: "plan", MetaValue: "gold"},
		},
	}

	got := toDiagSubscription(sub)
	if got.ID != 7 || got.Status != string(SubscriptionStatusActive) {
		t.Fatalf("identity fields wrong: %+v", got)
	}
	if got.PeriodUnit != diagnostics.PeriodMonth || got.Interval != 2 {
		t.Fatalf("cadence wrong: %s/%d", got.PeriodUnit, got.Interval)
	}
	if !got.ManualRenewal {
		t.Fatal("manual renewal flag lost")
	}
	if got.DateCreated == nil || !got.DateCreated.Equal(start) {
		t.Fatalf("date created = %v", got.DateCreated)
	}
	if got.StartDate != sub.StartDate || got.NextPaymentDate != sub.NextPaymentDate {
		t.Fatal("date pointers must pass through")
	}
	if got.PaymentTokenID != "tok_9" {
		t.Fatalf("token = %q", got.PaymentTokenID)
	}
	if got.Metadata["plan"] != "gold" {
		t.Fatalf("metadata lost: %+v", got.Metadata)
	}

	// Nil manual-renewal column reads as false.
	sub.ManualRenewal = nil
	if toDiagSubscription(sub).ManualRenewal {
		t.Fatal("nil manual renewal must read as false")
	}
}
