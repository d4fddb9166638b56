package diagnostics

import (
	"testing"
	"time"
)

func TestNormalizeInstant(t *testing.T) {
	ref := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		name  string
		input any
		want  time.Time
	}{
		{"nil", nil, Epoch},
		{"empty string", "", Epoch},
		{"zero mysql date", "0000-00-00 00:00:00", Epoch},
		{"garbage string", "not a date", Epoch},
		{"time value", ref, ref},
		{"time pointer", &ref, ref},
		{"nil time pointer", (*time.Time)(nil), Epoch},
		{"zero time", time.Time{}, Epoch},
		{"rfc3339", "2024-03-15T10:30:00Z", ref},
		{"mysql datetime", "2024-03-15 10:30:00", ref},
		{"bare date", "2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"slash date", "2024/03/15 10:30:00", ref},
		{"unix int64", int64(1710498600), ref},
		{"unix int", int(1710498600), ref},
		{"unix float", float64(1710498600), ref},
		{"unix string", "1710498600", ref},
		{"negative unix", int64(-5), Epoch},
		{"unsupported type", struct{}{}, Epoch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeInstant(tc.input)
			if !got.Equal(tc.want) {
				t.Fatalf("NormalizeInstant(%v) = %s, want %s", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeInstantTruncatesToSeconds(t *testing.T) {
	in := time.Date(2024, 3, 15, 10, 30, 0, 123456789, time.UTC)
	got := NormalizeInstant(in)
	if got.Nanosecond() != 0 {
		t.Fatalf("expected second precision, got %s", got)
	}
}

func TestIsKnownInstant(t *testing.T) {
	if IsKnownInstant(Epoch) {
		t.Fatal("Epoch must not be a known instant")
	}
	if !IsKnownInstant(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("real date must be a known instant")
	}
}

func TestCanonicalTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	in := time.Date(2024, 3, 15, 17, 30, 0, 0, loc)
	if got := CanonicalTimestamp(in); got != "2024-03-15 10:30:00" {
		t.Fatalf("CanonicalTimestamp = %q", got)
	}
}
