package repository

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// firestoreTimestamp covers both the client SDK ({seconds, nanoseconds})
// and the admin SDK ({_seconds, _nanoseconds}) encodings.
type firestoreTimestamp struct {
	Seconds      *int64 `json:"seconds"`
	Nanoseconds  int64  `json:"nanoseconds"`
	USeconds     *int64 `json:"_seconds"`
	UNanoseconds int64  `json:"_nanoseconds"`
}

// NormalizeTimestamp converts a stored timestamp into a time.Time.
// Accepted shapes: {seconds, nanoseconds}, {_seconds, _nanoseconds}, integer milliseconds
// (number or numeric string) and RFC3339 strings. Anything else yields now.
func NormalizeTimestamp(raw json.RawMessage, now time.Time) time.Time {
	if t, ok := ParseTimestamp(raw); ok {
		return t
	}
	return now
}

// ParseTimestamp is NormalizeTimestamp without the fallback; ok is false for
// missing, null or unrecognized values.
func ParseTimestamp(raw json.RawMessage) (time.Time, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, false
	}

	switch raw[0] {
	case '{':
		var ts firestoreTimestamp
		if err := json.Unmarshal(raw, &ts); err != nil {
			return time.Time{}, false
		}
		if ts.Seconds != nil {
			return time.Unix(*ts.Seconds, ts.Nanoseconds).UTC(), true
		}
		if ts.USeconds != nil {
			return time.Unix(*ts.USeconds, ts.UNanoseconds).UTC(), true
		}
		return time.Time{}, false
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, false
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.UTC(), true
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), true
		}
		return time.Time{}, false
	default:
		var ms float64
		if err := json.Unmarshal(raw, &ms); err != nil {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(ms)).UTC(), true
	}
}
