package entities

import (
	"strings"
	"time"
)

// Attendee is a meeting participant as recorded with the transcript
type Attendee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TranscriptData is the summarized output of one meeting.
// It is loaded once per export run and never mutated afterwards.
type TranscriptData struct {
	ID          string       `json:"id"`
	Timestamp   time.Time    `json:"timestamp"`
	Name        string       `json:"name"`
	Notes       string       `json:"notes,omitempty"`
	Transcript  string       `json:"transcript"`
	ActionItems []ActionItem `json:"actionItems"`
	Attendees   []Attendee   `json:"attendees,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
}

// DefaultMeetingName is used wherever a meeting has no name
const DefaultMeetingName = "Untitled Meeting"

// DisplayName returns the meeting name or the default when empty
func (t *TranscriptData) DisplayName() string {
	if name := strings.TrimSpace(t.Name); name != "" {
		return name
	}
	return DefaultMeetingName
}

// HasNotes reports whether the transcript carries non-blank notes
func (t *TranscriptData) HasNotes() bool {
	return strings.TrimSpace(t.Notes) != ""
}

// HasActionItems reports whether there is at least one action item
func (t *TranscriptData) HasActionItems() bool {
	return len(t.ActionItems) > 0
}

// HasTag reports whether any of the given tags is carried by the transcript (case-insensitive)
func (t *TranscriptData) HasTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range t.Tags {
			if strings.EqualFold(strings.TrimSpace(want), strings.TrimSpace(have)) {
				return true
			}
		}
	}
	return false
}
