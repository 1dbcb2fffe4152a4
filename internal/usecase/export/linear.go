package export

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-automations/errors"
	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/httpclient"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/linear"
	"github.com/johnquangdev/meeting-automations/pkg/validator"
)

// LinearAPI is the subset of the Linear client the adapter uses
type LinearAPI interface {
	CreateIssue(ctx context.Context, token string, input linear.IssueInput) (*linear.Issue, error)
}

// LinearAdapter files one issue per action item
type LinearAdapter struct {
	api      LinearAPI
	validate *validator.CustomValidator
	loc      *time.Location
}

// NewLinearAdapter creates a Linear adapter
func NewLinearAdapter(api LinearAPI, v *validator.CustomValidator, loc *time.Location) *LinearAdapter {
	return &LinearAdapter{api: api, validate: v, loc: loc}
}

// Export creates the issues. A failing item does not stop the others.
func (a *LinearAdapter) Export(ctx context.Context, in ExportInput) error {
	var cfg entities.LinearStepConfig
	if err := a.validate.DecodeAndValidate(in.Step.Config, &cfg); err != nil {
		return apperrors.ErrStepConfigInvalid(string(entities.StepTypeLinear), err)
	}

	name := providerName(entities.StepTypeLinear)
	cred := in.Credentials.Linear
	if cred.AccessToken == "" {
		return apperrors.ErrIncompleteIntegration(name, "accessToken")
	}

	if !in.Transcript.HasActionItems() {
		in.Logger.Info("No action items to export to Linear")
		return nil
	}

	for i, item := range in.Transcript.ActionItems {
		issue, err := a.api.CreateIssue(ctx, cred.AccessToken, linear.IssueInput{
			TeamID:      cfg.TeamID,
			Title:       item.Title,
			Description: attributedDescription(item, in.Transcript, a.loc),
			Priority:    linear.DefaultPriority,
		})
		if err != nil {
			if httpclient.IsUnauthorized(err) {
				return apperrors.ErrInvalidCredential(name, err)
			}
			in.Items.Fail(i, item.Title, err)
			in.Logger.Error("❌ Failed to create Linear issue",
				zap.Int("item_index", i),
				zap.String("title", item.Title),
				zap.String("team_id", cfg.TeamID),
				zap.Error(err),
			)
			// the step deadline is shared by all items
			if ctx.Err() != nil {
				return in.Items.Err()
			}
			continue
		}

		in.Items.Succeeded()
		in.Logger.Info("✅ Linear issue created",
			zap.String("issue", issue.Identifier),
			zap.String("team_name", cfg.TeamName),
		)
	}

	return in.Items.Err()
}
