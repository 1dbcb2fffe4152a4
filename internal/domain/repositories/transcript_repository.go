package repositories

import (
	"context"

	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
)

// TranscriptRepository reads meeting transcripts produced by the summarization pipeline
type TranscriptRepository interface {
	// Latest returns the most recent transcript of the user or entities.ErrTranscriptNotFound
	Latest(ctx context.Context, userID string) (*entities.TranscriptData, error)
}
