package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTimestamp(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	want := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	cases := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"client sdk", `{"seconds":1709285400,"nanoseconds":0}`, want},
		{"admin sdk", `{"_seconds":1709285400,"_nanoseconds":0}`, want},
		{"millis", `1709285400000`, want},
		{"millis string", `"1709285400000"`, want},
		{"rfc3339", `"2024-03-01T09:30:00Z"`, want},
		{"null", `null`, now},
		{"empty object", `{}`, now},
		{"garbage string", `"yesterday"`, now},
		{"bool", `true`, now},
		{"missing", ``, now},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.want.Equal(NormalizeTimestamp(json.RawMessage(tc.raw), now)))

			_, ok := ParseTimestamp(json.RawMessage(tc.raw))
			assert.Equal(t, !tc.want.Equal(now), ok)
		})
	}
}
