package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
	domainrepo "github.com/johnquangdev/meeting-automations/internal/domain/repositories"
)

// Field names of the integration records on users/{user}
const (
	fieldNotion     = "notionIntegration"
	fieldSlack      = "slackIntegration"
	fieldHubSpot    = "hubspotIntegration"
	fieldLinear     = "linearIntegration"
	fieldMonday     = "mondayIntegration"
	fieldSalesforce = "salesforceIntegration"
)

// hubspotDocument keeps expiresAt raw; the dashboard writes epoch millis
type hubspotDocument struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	ExpiresAt    json.RawMessage `json:"expiresAt"`
	PortalID     json.RawMessage `json:"portalId"`
}

// UserRepository reads user credential bundles from the document store
type UserRepository struct {
	store domainrepo.DocumentStore
	now   func() time.Time
}

// NewUserRepository creates a new user repository
func NewUserRepository(store domainrepo.DocumentStore) *UserRepository {
	return &UserRepository{store: store, now: time.Now}
}

var _ domainrepo.UserRepository = (*UserRepository)(nil)

// UserPath returns the document path of a user record
func UserPath(userID string) string {
	return joinPath("users", userID)
}

// GetCredentials returns the user's provider grants
func (r *UserRepository) GetCredentials(ctx context.Context, userID string) (*entities.Credentials, error) {
	fields, err := r.loadFields(ctx, userID)
	if err != nil {
		return nil, err
	}

	creds := &entities.Credentials{UserID: userID}
	if creds.Notion, err = decodeField[entities.NotionCredential](fields, fieldNotion); err != nil {
		return nil, err
	}
	if creds.Slack, err = decodeField[entities.SlackCredential](fields, fieldSlack); err != nil {
		return nil, err
	}
	if creds.Linear, err = decodeField[entities.LinearCredential](fields, fieldLinear); err != nil {
		return nil, err
	}
	if creds.Monday, err = decodeField[entities.MondayCredential](fields, fieldMonday); err != nil {
		return nil, err
	}
	if creds.Salesforce, err = decodeField[entities.SalesforceCredential](fields, fieldSalesforce); err != nil {
		return nil, err
	}

	hs, err := decodeField[hubspotDocument](fields, fieldHubSpot)
	if err != nil {
		return nil, err
	}
	if hs != nil {
		creds.HubSpot = &entities.HubSpotCredential{
			AccessToken:  hs.AccessToken,
			RefreshToken: hs.RefreshToken,
			// A missing expiry normalizes to now, which forces a refresh
			ExpiresAt: NormalizeTimestamp(hs.ExpiresAt, r.now().UTC()),
			PortalID:  rawScalar(hs.PortalID),
		}
	}

	return creds, nil
}

// SaveHubSpotCredential writes the refreshed HubSpot grant back to users/{user}
func (r *UserRepository) SaveHubSpotCredential(ctx context.Context, userID string, cred *entities.HubSpotCredential) error {
	fields, err := r.loadFields(ctx, userID)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(map[string]any{
		"accessToken":  cred.AccessToken,
		"refreshToken": cred.RefreshToken,
		"expiresAt":    cred.ExpiresAt.UnixMilli(),
		"portalId":     cred.PortalID,
	})
	if err != nil {
		return fmt.Errorf("failed to encode hubspot credential: %w", err)
	}
	fields[fieldHubSpot] = raw

	if err := r.store.Set(ctx, UserPath(userID), fields); err != nil {
		return fmt.Errorf("failed to save hubspot credential: %w", err)
	}
	return nil
}

func (r *UserRepository) loadFields(ctx context.Context, userID string) (map[string]json.RawMessage, error) {
	doc, err := r.store.Get(ctx, UserPath(userID))
	if err != nil {
		if errors.Is(err, entities.ErrDocumentNotFound) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(doc.Data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", userID, err)
	}
	return fields, nil
}

// decodeField decodes one integration record. Missing and null fields return nil.
func decodeField[T any](fields map[string]json.RawMessage, name string) (*T, error) {
	raw, ok := fields[name]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return &v, nil
}

// rawScalar renders a JSON string or number as a plain string
func rawScalar(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// SlackWorkspaceRepository reads slack_workspaces/{teamId}
type SlackWorkspaceRepository struct {
	store domainrepo.DocumentStore
}

// NewSlackWorkspaceRepository creates a new workspace repository
func NewSlackWorkspaceRepository(store domainrepo.DocumentStore) *SlackWorkspaceRepository {
	return &SlackWorkspaceRepository{store: store}
}

var _ domainrepo.SlackWorkspaceRepository = (*SlackWorkspaceRepository)(nil)

// Get returns the workspace record for a Slack team
func (r *SlackWorkspaceRepository) Get(ctx context.Context, teamID string) (*entities.SlackWorkspace, error) {
	doc, err := r.store.Get(ctx, joinPath("slack_workspaces", teamID))
	if err != nil {
		if errors.Is(err, entities.ErrDocumentNotFound) {
			return nil, entities.ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to get slack workspace: %w", err)
	}

	var ws entities.SlackWorkspace
	if err := json.Unmarshal(doc.Data, &ws); err != nil {
		return nil, fmt.Errorf("failed to decode slack workspace %s: %w", teamID, err)
	}
	if ws.TeamID == "" {
		ws.TeamID = teamID
	}
	return &ws, nil
}
