package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	apperrors "github.com/johnquangdev/meeting-automations/errors"
	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
	domainrepo "github.com/johnquangdev/meeting-automations/internal/domain/repositories"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/hubspot"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/httpclient"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-automations/pkg/validator"
)

// DefaultRefreshSkew is how long before expiry a HubSpot token is renewed
const DefaultRefreshSkew = 5 * time.Minute

// HubSpotAPI is the subset of the HubSpot client the adapter uses
type HubSpotAPI interface {
	CreateNote(ctx context.Context, token, body string, timestamp time.Time) (string, error)
	FindContactIDs(ctx context.Context, token string, emails []string) ([]string, error)
	ContactDealIDs(ctx context.Context, token, contactID string) ([]string, error)
	AssociateNote(ctx context.Context, token, noteID, objectType, objectID string) error
}

// TokenRefresher renews an OAuth access token
type TokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// HubSpotAdapter logs the meeting as a note engagement
type HubSpotAdapter struct {
	api       HubSpotAPI
	refresher TokenRefresher
	users     domainrepo.UserRepository
	validate  *validator.CustomValidator
	loc       *time.Location
	skew      time.Duration
	now       func() time.Time
}

// NewHubSpotAdapter creates a HubSpot adapter
func NewHubSpotAdapter(
	api HubSpotAPI,
	refresher TokenRefresher,
	users domainrepo.UserRepository,
	v *validator.CustomValidator,
	loc *time.Location,
	skew time.Duration,
) *HubSpotAdapter {
	if skew <= 0 {
		skew = DefaultRefreshSkew
	}
	return &HubSpotAdapter{
		api:       api,
		refresher: refresher,
		users:     users,
		validate:  v,
		loc:       loc,
		skew:      skew,
		now:       time.Now,
	}
}

// Export creates the note and its associations
func (a *HubSpotAdapter) Export(ctx context.Context, in ExportInput) error {
	var cfg entities.HubSpotStepConfig
	if err := a.validate.DecodeAndValidate(in.Step.Config, &cfg); err != nil {
		return apperrors.ErrStepConfigInvalid(string(entities.StepTypeHubSpot), err)
	}

	name := providerName(entities.StepTypeHubSpot)
	cred := in.Credentials.HubSpot
	if cred.AccessToken == "" && cred.RefreshToken == "" {
		return apperrors.ErrIncompleteIntegration(name, "accessToken")
	}
	if cfg.PortalID != "" && cred.PortalID != "" && cfg.PortalID != cred.PortalID {
		return apperrors.ErrStepConfigInvalid(string(entities.StepTypeHubSpot),
			fmt.Errorf("portal %s does not match connected portal %s", cfg.PortalID, cred.PortalID))
	}

	token, err := a.accessToken(ctx, in)
	if err != nil {
		return err
	}

	body := BuildHubSpotBody(in.Transcript, cfg, a.loc)
	noteID, err := a.api.CreateNote(ctx, token, body, in.Transcript.Timestamp)
	if err != nil {
		if httpclient.IsUnauthorized(err) {
			return apperrors.ErrInvalidCredential(name, err)
		}
		return err
	}
	in.Items.Succeeded()

	in.Logger.Info("✅ HubSpot note created",
		zap.String("note_id", noteID),
		zap.String("portal_id", cred.PortalID),
		zap.String("account_type", cfg.AccountType),
	)

	if cfg.Contacts || cfg.Deals {
		a.associate(ctx, in, cfg, token, noteID)
	}
	return in.Items.Err()
}

// associate links the note to attendee contacts and, when enabled, their deals.
// Association failures are tracked per item and never undo the note.
func (a *HubSpotAdapter) associate(ctx context.Context, in ExportInput, cfg entities.HubSpotStepConfig, token, noteID string) {
	emails := attendeeEmails(in.Transcript)
	if len(emails) == 0 {
		in.Logger.Info("No attendee emails to associate with HubSpot note")
		return
	}

	contactIDs, err := a.api.FindContactIDs(ctx, token, emails)
	if err != nil {
		in.Items.Fail(0, "contact search", err)
		in.Logger.Warn("⚠️ HubSpot contact search failed", zap.Error(err))
		return
	}

	seenDeals := make(map[string]bool)
	for i, contactID := range contactIDs {
		if cfg.Contacts {
			if err := a.api.AssociateNote(ctx, token, noteID, hubspot.ObjectContacts, contactID); err != nil {
				in.Items.Fail(i, "contact "+contactID, err)
				in.Logger.Warn("⚠️ Failed to associate HubSpot contact",
					zap.String("contact_id", contactID),
					zap.Error(err),
				)
			} else {
				in.Items.Succeeded()
			}
		}

		if !cfg.Deals {
			continue
		}
		dealIDs, err := a.api.ContactDealIDs(ctx, token, contactID)
		if err != nil {
			in.Items.Fail(i, "deals of contact "+contactID, err)
			in.Logger.Warn("⚠️ Failed to list HubSpot deals", zap.String("contact_id", contactID), zap.Error(err))
			continue
		}
		for _, dealID := range dealIDs {
			if seenDeals[dealID] {
				continue
			}
			seenDeals[dealID] = true
			if err := a.api.AssociateNote(ctx, token, noteID, hubspot.ObjectDeals, dealID); err != nil {
				in.Items.Fail(i, "deal "+dealID, err)
				in.Logger.Warn("⚠️ Failed to associate HubSpot deal", zap.String("deal_id", dealID), zap.Error(err))
				continue
			}
			in.Items.Succeeded()
		}
	}
}

// needsRefresh is true once the token is within skew of its expiry
func (a *HubSpotAdapter) needsRefresh(cred *entities.HubSpotCredential) bool {
	return cred.AccessToken == "" || !a.now().Before(cred.ExpiresAt.Add(-a.skew))
}

// accessToken returns a usable token, refreshing at most once per run.
// The refreshed grant is persisted before it is handed to any step.
func (a *HubSpotAdapter) accessToken(ctx context.Context, in ExportInput) (string, error) {
	cred, done, err := in.Run.hubspotResult()
	if done {
		if err != nil {
			return "", err
		}
		return cred.AccessToken, nil
	}

	stored := in.Credentials.HubSpot
	if !a.needsRefresh(stored) {
		return stored.AccessToken, nil
	}

	v, err, _ := in.Run.refresh.Do("hubspot", func() (interface{}, error) {
		if cred, done, err := in.Run.hubspotResult(); done {
			return cred, err
		}
		fresh, err := a.refresh(ctx, in, stored)
		in.Run.setHubSpotResult(fresh, err)
		return fresh, err
	})
	if err != nil {
		return "", err
	}
	return v.(*entities.HubSpotCredential).AccessToken, nil
}

func (a *HubSpotAdapter) refresh(ctx context.Context, in ExportInput, stored *entities.HubSpotCredential) (*entities.HubSpotCredential, error) {
	name := providerName(entities.StepTypeHubSpot)
	if stored.RefreshToken == "" {
		metrics.TokenRefreshTotal.WithLabelValues(string(entities.StepTypeHubSpot), "failed").Inc()
		return nil, apperrors.ErrIncompleteIntegration(name, "refreshToken")
	}

	in.Logger.Info("🔄 Refreshing HubSpot access token",
		zap.Time("expires_at", stored.ExpiresAt),
	)

	token, err := a.refresher.RefreshToken(ctx, stored.RefreshToken)
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues(string(entities.StepTypeHubSpot), "failed").Inc()
		return nil, apperrors.ErrTokenRefresh(name, err)
	}

	expiresAt := token.Expiry
	if expiresAt.IsZero() {
		expiresAt = a.now().Add(30 * time.Minute)
	}
	fresh := &entities.HubSpotCredential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    expiresAt,
		PortalID:     stored.PortalID,
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = stored.RefreshToken
	}

	if err := a.users.SaveHubSpotCredential(ctx, in.UserID, fresh); err != nil {
		metrics.TokenRefreshTotal.WithLabelValues(string(entities.StepTypeHubSpot), "failed").Inc()
		return nil, apperrors.ErrTokenRefresh(name, fmt.Errorf("failed to persist refreshed token: %w", err))
	}

	metrics.TokenRefreshTotal.WithLabelValues(string(entities.StepTypeHubSpot), "succeeded").Inc()
	in.Logger.Info("✅ HubSpot access token refreshed", zap.Time("expires_at", fresh.ExpiresAt))
	return fresh, nil
}

// BuildHubSpotBody composes the free-text note body
func BuildHubSpotBody(t *entities.TranscriptData, cfg entities.HubSpotStepConfig, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Meeting: %s\n", t.DisplayName())
	fmt.Fprintf(&b, "Date: %s\n", FormatTimestamp(t.Timestamp, loc))

	if cfg.IncludeMeetingNotes && t.HasNotes() {
		b.WriteString("\nMeeting Notes:\n")
		b.WriteString(strings.TrimSpace(t.Notes))
		b.WriteString("\n")
	}

	if cfg.IncludeActionItems && t.HasActionItems() {
		b.WriteString("\nAction Items:\n")
		for _, item := range t.ActionItems {
			fmt.Fprintf(&b, "- %s\n", item.Title)
			if item.HasDescription() {
				fmt.Fprintf(&b, "    %s\n", strings.TrimSpace(item.Description))
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func attendeeEmails(t *entities.TranscriptData) []string {
	seen := make(map[string]bool)
	var emails []string
	for _, att := range t.Attendees {
		email := strings.ToLower(strings.TrimSpace(att.Email))
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		emails = append(emails, email)
	}
	return emails
}
