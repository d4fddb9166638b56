package diagnostics

import (
	"strconv"
	"strings"
	"time"
)

// Epoch is the sentinel instant used for unparseable or absent timestamps.
// Normalizing to a fixed minimum keeps ordering total: unknown-dated events
// always sort before every real event instead of failing the merge.
var Epoch = time.Unix(0, 0).UTC()

// Layouts accepted by NormalizeInstant, most specific first. Source systems
// disagree on separators and on whether a time component is present.
var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// NormalizeInstant converts a heterogeneous date representation into a single
// comparable instant at second precision, in UTC. Accepted inputs: time.Time,
// *time.Time, ISO-ish strings, unix seconds (int/int64/float64) and absence
// (nil, empty string, zero time). Anything unparseable maps to Epoch; callers
// that need "unknown" semantics must check IsKnownInstant explicitly.
func NormalizeInstant(value any) time.Time {
	switch v := value.(type) {
	case nil:
		return Epoch
	case time.Time:
		return normalizeTime(v)
	case *time.Time:
		if v == nil {
			return Epoch
		}
		return normalizeTime(*v)
	case string:
		return normalizeString(v)
	case int:
		return normalizeUnix(int64(v))
	case int64:
		return normalizeUnix(v)
	case float64:
		return normalizeUnix(int64(v))
	default:
		return Epoch
	}
}

func normalizeTime(t time.Time) time.Time {
	if t.IsZero() || !t.After(Epoch) {
		return Epoch
	}
	return t.UTC().Truncate(time.Second)
}

func normalizeString(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0000-00-00 00:00:00" || raw == "0000-00-00" {
		return Epoch
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return normalizeTime(t)
		}
	}
	// Bare unix timestamps also arrive as strings from some stores.
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return normalizeUnix(secs)
	}
	return Epoch
}

func normalizeUnix(secs int64) time.Time {
	if secs <= 0 {
		return Epoch
	}
	return time.Unix(secs, 0).UTC()
}

// IsKnownInstant reports whether t carries real date information, i.e. is not
// the Epoch sentinel.
func IsKnownInstant(t time.Time) bool {
	return t.After(Epoch)
}

// CanonicalTimestamp renders the normalized form every comparison and report
// field uses: YYYY-MM-DD HH:MM:SS at UTC granularity.
func CanonicalTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
