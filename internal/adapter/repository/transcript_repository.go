package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
	domainrepo "github.com/johnquangdev/meeting-automations/internal/domain/repositories"
)

// transcriptDocument is the stored shape of transcript/{user}/timestamps/{id}
type transcriptDocument struct {
	Timestamp   json.RawMessage      `json:"timestamp"`
	Name        string               `json:"name"`
	Notes       string               `json:"notes"`
	Transcript  string               `json:"transcript"`
	ActionItems []actionItemDocument `json:"actionItems"`
	Attendees   []entities.Attendee  `json:"attendees"`
	Tags        []string             `json:"tags"`
}

// transcriptHeader is decoded first to rank documents without decoding their bodies
type transcriptHeader struct {
	Timestamp json.RawMessage `json:"timestamp"`
}

type actionItemDocument struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Done        flexBool `json:"done"`
}

// flexBool accepts JSON booleans and the strings "true" and "false".
// Older dashboard versions stored done as a string.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = flexBool(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected boolean, got %s", data)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*b = false
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("expected boolean, got %q", s)
	}
	*b = flexBool(v)
	return nil
}

// TranscriptRepository reads transcripts from the document store
type TranscriptRepository struct {
	store  domainrepo.DocumentStore
	logger *zap.Logger
	now    func() time.Time
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(store domainrepo.DocumentStore, logger *zap.Logger) *TranscriptRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptRepository{store: store, logger: logger, now: time.Now}
}

var _ domainrepo.TranscriptRepository = (*TranscriptRepository)(nil)

// TranscriptCollection returns the collection path holding a user's transcripts
func TranscriptCollection(userID string) string {
	return joinPath("transcript", userID, "timestamps")
}

type transcriptCandidate struct {
	doc   *domainrepo.Document
	at    time.Time
	dated bool
	seq   int
}

// Latest returns the most recent transcript by meeting timestamp.
// Documents without a recognizable timestamp are only considered when no
// dated document exists; the newest-created one is used and stamped with now.
// Documents that fail to decode are skipped.
func (r *TranscriptRepository) Latest(ctx context.Context, userID string) (*entities.TranscriptData, error) {
	docs, err := r.store.List(ctx, TranscriptCollection(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}

	candidates := make([]transcriptCandidate, 0, len(docs))
	skipped := 0
	for i, doc := range docs {
		var header transcriptHeader
		if err := json.Unmarshal(doc.Data, &header); err != nil {
			r.skip(doc, err)
			skipped++
			continue
		}
		at, dated := ParseTimestamp(header.Timestamp)
		candidates = append(candidates, transcriptCandidate{doc: doc, at: at, dated: dated, seq: i})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.dated != b.dated {
			return a.dated
		}
		if a.dated {
			return a.at.After(b.at)
		}
		return a.seq > b.seq
	})

	for _, c := range candidates {
		var raw transcriptDocument
		if err := json.Unmarshal(c.doc.Data, &raw); err != nil {
			r.skip(c.doc, err)
			skipped++
			continue
		}

		at := c.at
		if !c.dated {
			at = r.now().UTC()
		}
		return &entities.TranscriptData{
			ID:          c.doc.ID,
			Timestamp:   at,
			Name:        raw.Name,
			Notes:       raw.Notes,
			Transcript:  raw.Transcript,
			ActionItems: validActionItems(raw.ActionItems),
			Attendees:   raw.Attendees,
			Tags:        raw.Tags,
		}, nil
	}

	if skipped > 0 {
		return nil, fmt.Errorf("%w: %d stored transcripts could not be decoded", entities.ErrTranscriptNotFound, skipped)
	}
	return nil, entities.ErrTranscriptNotFound
}

func (r *TranscriptRepository) skip(doc *domainrepo.Document, err error) {
	r.logger.Warn("⚠️ Skipping undecodable transcript",
		zap.String("path", doc.Path),
		zap.Error(err),
	)
}

// validActionItems drops items without a title; a title is required by every provider
func validActionItems(items []actionItemDocument) []entities.ActionItem {
	out := make([]entities.ActionItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Title) == "" {
			continue
		}
		out = append(out, entities.ActionItem{
			ID:          item.ID,
			Title:       item.Title,
			Description: item.Description,
			Done:        bool(item.Done),
		})
	}
	return out
}
