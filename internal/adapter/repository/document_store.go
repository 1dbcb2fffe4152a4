package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
	domainrepo "github.com/johnquangdev/meeting-automations/internal/domain/repositories"
)

// documentRecord is the row layout of the documents table
type documentRecord struct {
	Path       string         `gorm:"primaryKey;size:512"`
	Collection string         `gorm:"size:512;not null;index:idx_documents_collection"`
	DocID      string         `gorm:"column:doc_id;size:255;not null"`
	Data       datatypes.JSON `gorm:"not null"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (documentRecord) TableName() string {
	return "documents"
}

// DocumentStore implements the document repository on a single GORM table
type DocumentStore struct {
	db *gorm.DB
}

// NewDocumentStore creates a new document store
func NewDocumentStore(db *gorm.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// NewDocumentStoreFromDB creates the table if needed. Used with in-memory databases.
func NewDocumentStoreFromDB(db *gorm.DB) (*DocumentStore, error) {
	if err := db.AutoMigrate(&documentRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}
	return NewDocumentStore(db), nil
}

var _ domainrepo.DocumentStore = (*DocumentStore)(nil)

// Get returns the document at path
func (s *DocumentStore) Get(ctx context.Context, path string) (*domainrepo.Document, error) {
	path = cleanPath(path)
	var rec documentRecord
	if err := s.db.WithContext(ctx).Where("path = ?", path).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document %s: %w", path, err)
	}
	return rec.toDocument(), nil
}

// Set creates or replaces the document at path
func (s *DocumentStore) Set(ctx context.Context, path string, data any) error {
	path = cleanPath(path)
	collection, id := splitPath(path)
	if id == "" {
		return fmt.Errorf("invalid document path %q", path)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", path, err)
	}

	rec := documentRecord{
		Path:       path,
		Collection: collection,
		DocID:      id,
		Data:       datatypes.JSON(raw),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to set document %s: %w", path, err)
	}
	return nil
}

// List returns the direct children of a collection in creation order
func (s *DocumentStore) List(ctx context.Context, collection string) ([]*domainrepo.Document, error) {
	collection = cleanPath(collection)
	var recs []documentRecord
	if err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("created_at ASC").
		Order("doc_id ASC").
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list collection %s: %w", collection, err)
	}

	docs := make([]*domainrepo.Document, 0, len(recs))
	for i := range recs {
		docs = append(docs, recs[i].toDocument())
	}
	return docs, nil
}

// Delete removes the document at path
func (s *DocumentStore) Delete(ctx context.Context, path string) error {
	path = cleanPath(path)
	if err := s.db.WithContext(ctx).Where("path = ?", path).Delete(&documentRecord{}).Error; err != nil {
		return fmt.Errorf("failed to delete document %s: %w", path, err)
	}
	return nil
}

func (r *documentRecord) toDocument() *domainrepo.Document {
	return &domainrepo.Document{
		Path:       r.Path,
		Collection: r.Collection,
		ID:         r.DocID,
		Data:       json.RawMessage(r.Data),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func cleanPath(p string) string {
	return strings.Trim(strings.TrimSpace(p), "/")
}

// splitPath splits "a/b/c" into collection "a/b" and id "c"
func splitPath(p string) (string, string) {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return "", p
	}
	return p[:idx], p[idx+1:]
}

// joinPath builds a document path from segments
func joinPath(segments ...string) string {
	return strings.Join(segments, "/")
}
