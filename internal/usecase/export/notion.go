package export

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-automations/errors"
	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/notion"
	"github.com/johnquangdev/meeting-automations/pkg/validator"
)

// NotionAPI is the subset of the Notion client the adapter uses
type NotionAPI interface {
	VerifyToken(ctx context.Context, token string) error
	CreatePage(ctx context.Context, token, parentID, title string, children []notion.Block) (*notion.Page, error)
}

// NotionAdapter exports a meeting as a child page of a configured Notion page
type NotionAdapter struct {
	api      NotionAPI
	validate *validator.CustomValidator
	loc      *time.Location
}

// NewNotionAdapter creates a Notion adapter
func NewNotionAdapter(api NotionAPI, v *validator.CustomValidator, loc *time.Location) *NotionAdapter {
	return &NotionAdapter{api: api, validate: v, loc: loc}
}

// Export creates the meeting page
func (a *NotionAdapter) Export(ctx context.Context, in ExportInput) error {
	var cfg entities.NotionStepConfig
	if err := a.validate.DecodeAndValidate(in.Step.Config, &cfg); err != nil {
		return apperrors.ErrStepConfigInvalid(string(entities.StepTypeNotion), err)
	}

	cred := in.Credentials.Notion
	if cred.AccessToken == "" {
		return apperrors.ErrIncompleteIntegration(providerName(entities.StepTypeNotion), "accessToken")
	}

	// Token problems are reported as a reconnect request, never retried
	if err := a.api.VerifyToken(ctx, cred.AccessToken); err != nil {
		return apperrors.ErrInvalidCredential(providerName(entities.StepTypeNotion), err)
	}

	blocks := BuildNotionBlocks(in.Transcript, cfg, a.loc)
	page, err := a.api.CreatePage(ctx, cred.AccessToken, cfg.PageID, in.Transcript.DisplayName(), blocks)
	if err != nil {
		return err
	}

	in.Logger.Info("✅ Notion page created",
		zap.String("page_id", page.ID),
		zap.String("parent_page_id", cfg.PageID),
		zap.String("parent_page_title", cfg.PageTitle),
		zap.Int("blocks", len(blocks)),
	)
	return nil
}

// BuildNotionBlocks lays out the meeting page
func BuildNotionBlocks(t *entities.TranscriptData, cfg entities.NotionStepConfig, loc *time.Location) []notion.Block {
	blocks := []notion.Block{
		notion.Heading("Meeting Details"),
		notion.Paragraph("🕒 " + FormatTimestamp(t.Timestamp, loc)),
	}

	if cfg.ExportNotes && t.HasNotes() {
		blocks = append(blocks,
			notion.Heading("Meeting Notes"),
			notion.Paragraph(t.Notes),
		)
	}

	if cfg.ExportActionItems && t.HasActionItems() {
		blocks = append(blocks, notion.Heading("Action Items"))
		for _, item := range t.ActionItems {
			blocks = append(blocks, notion.ToDo(item.Title, item.Done))
			if item.HasDescription() {
				blocks = append(blocks, notion.Paragraph(item.Description))
			}
		}
	}

	return blocks
}
