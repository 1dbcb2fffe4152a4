package entities

import "errors"

// Domain errors
var (
	// Store errors
	ErrDocumentNotFound = errors.New("document not found")

	// Lookup errors
	ErrTranscriptNotFound = errors.New("transcript not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrWorkspaceNotFound  = errors.New("slack workspace not found")
	ErrRunNotFound        = errors.New("export run not found")
)
