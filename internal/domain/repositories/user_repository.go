package repositories

import (
	"context"

	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
)

// UserRepository reads the per-user credential bundle
type UserRepository interface {
	// GetCredentials returns the user's provider grants or entities.ErrUserNotFound
	GetCredentials(ctx context.Context, userID string) (*entities.Credentials, error)

	// SaveHubSpotCredential persists a refreshed HubSpot grant, leaving other fields untouched
	SaveHubSpotCredential(ctx context.Context, userID string, cred *entities.HubSpotCredential) error
}

// SlackWorkspaceRepository reads workspace-level Slack bot records
type SlackWorkspaceRepository interface {
	// Get returns the workspace or entities.ErrWorkspaceNotFound
	Get(ctx context.Context, teamID string) (*entities.SlackWorkspace, error)
}
