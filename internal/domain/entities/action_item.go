package entities

import "strings"

// ActionItem is one task extracted from a meeting
type ActionItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Done        bool   `json:"done"`
}

// HasDescription reports whether the item carries a non-blank description
func (a ActionItem) HasDescription() bool {
	return strings.TrimSpace(a.Description) != ""
}
