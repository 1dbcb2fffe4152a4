package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
)

const timestampLayout = "Monday, January 2, 2006 at 3:04 PM MST"

// FormatTimestamp renders a meeting time for humans in the configured zone
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(timestampLayout)
}

// attributedDescription appends the meeting attribution to an action item description
func attributedDescription(item entities.ActionItem, t *entities.TranscriptData, loc *time.Location) string {
	attribution := fmt.Sprintf("Created from meeting: %s\nTimestamp: %s", t.DisplayName(), FormatTimestamp(t.Timestamp, loc))
	if !item.HasDescription() {
		return attribution
	}
	return strings.TrimSpace(item.Description) + "\n\n" + attribution
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// splitName splits a display name into first name and last name.
// The last name defaults to a placeholder since Salesforce requires it.
func splitName(name string) (first, last string) {
	fields := strings.Fields(name)
	last = "(no last name)"
	if len(fields) == 0 {
		return "", last
	}
	first = fields[0]
	if len(fields) > 1 {
		last = strings.Join(fields[1:], " ")
	}
	return first, last
}
