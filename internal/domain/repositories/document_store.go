package repositories

import (
	"context"
	"encoding/json"
	"time"
)

// Document is one JSON document addressed by a slash-separated path
// such as "users/{user}" or "integratedautomations/{user}/automations/{id}".
type Document struct {
	Path       string
	Collection string
	ID         string
	Data       json.RawMessage
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DocumentStore is the generic document repository the export engine reads from
type DocumentStore interface {
	// Get returns the document at path or entities.ErrDocumentNotFound
	Get(ctx context.Context, path string) (*Document, error)

	// Set creates or replaces the document at path with the JSON encoding of data
	Set(ctx context.Context, path string, data any) error

	// List returns the direct children of a collection in creation order
	List(ctx context.Context, collection string) ([]*Document, error)

	// Delete removes the document at path
	Delete(ctx context.Context, path string) error
}
