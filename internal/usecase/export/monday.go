package export

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-automations/errors"
	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/httpclient"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/monday"
	"github.com/johnquangdev/meeting-automations/pkg/validator"
)

// doneStatusLabel is the status label set on items that were already completed
const doneStatusLabel = "Done"

var (
	descriptionColumnTypes    = []string{monday.ColumnTypeText, monday.ColumnTypeLongText}
	descriptionColumnKeywords = []string{"description", "notes", "details"}
	statusColumnTypes         = []string{monday.ColumnTypeStatus, monday.ColumnTypeColor}
	statusColumnKeywords      = []string{"status", "state"}
)

// MondayAPI is the subset of the Monday.com client the adapter uses
type MondayAPI interface {
	CreateItem(ctx context.Context, token, boardID, groupID, name string) (string, error)
	BoardColumns(ctx context.Context, token, boardID string) ([]monday.Column, error)
	ChangeColumnValues(ctx context.Context, token, boardID, itemID string, values map[string]any) error
}

// MondayAdapter creates one board item per action item
type MondayAdapter struct {
	api      MondayAPI
	validate *validator.CustomValidator
	loc      *time.Location
}

// NewMondayAdapter creates a Monday.com adapter
func NewMondayAdapter(api MondayAPI, v *validator.CustomValidator, loc *time.Location) *MondayAdapter {
	return &MondayAdapter{api: api, validate: v, loc: loc}
}

// boardColumns is the result of introspecting the board once per step
type boardColumns struct {
	loaded      bool
	description *monday.Column
	status      *monday.Column
}

// Export creates the items. A failing item does not stop the others.
func (a *MondayAdapter) Export(ctx context.Context, in ExportInput) error {
	var cfg entities.MondayStepConfig
	if err := a.validate.DecodeAndValidate(in.Step.Config, &cfg); err != nil {
		return apperrors.ErrStepConfigInvalid(string(entities.StepTypeMonday), err)
	}

	name := providerName(entities.StepTypeMonday)
	cred := in.Credentials.Monday
	if cred.AccessToken == "" {
		return apperrors.ErrIncompleteIntegration(name, "accessToken")
	}

	if !in.Transcript.HasActionItems() {
		in.Logger.Info("No action items to export to Monday.com")
		return nil
	}

	var cols boardColumns
	for i, item := range in.Transcript.ActionItems {
		itemID, err := a.api.CreateItem(ctx, cred.AccessToken, cfg.Board, cfg.Group, item.Title)
		if err != nil {
			if httpclient.IsUnauthorized(err) {
				return apperrors.ErrInvalidCredential(name, err)
			}
			in.Items.Fail(i, item.Title, err)
			in.Logger.Error("❌ Failed to create Monday.com item",
				zap.Int("item_index", i),
				zap.String("title", item.Title),
				zap.String("board_id", cfg.Board),
				zap.String("group_id", cfg.Group),
				zap.Error(err),
			)
			if ctx.Err() != nil {
				return in.Items.Err()
			}
			continue
		}
		in.Items.Succeeded()

		if !cols.loaded {
			cols = a.introspect(ctx, in, cred.AccessToken, cfg.Board)
		}
		a.updateColumns(ctx, in, cred.AccessToken, cfg.Board, itemID, item, cols)

		in.Logger.Info("✅ Monday.com item created",
			zap.String("item_id", itemID),
			zap.String("board_name", cfg.BoardName),
			zap.String("group_name", cfg.GroupName),
		)
	}

	return in.Items.Err()
}

// introspect finds the description and status columns.
// A failed lookup disables column updates for the rest of the step.
func (a *MondayAdapter) introspect(ctx context.Context, in ExportInput, token, boardID string) boardColumns {
	cols := boardColumns{loaded: true}

	columns, err := a.api.BoardColumns(ctx, token, boardID)
	if err != nil {
		in.Logger.Warn("⚠️ Failed to read Monday.com board columns, skipping column updates",
			zap.String("board_id", boardID),
			zap.Error(err),
		)
		return cols
	}

	cols.description = monday.FindColumn(columns, descriptionColumnTypes, descriptionColumnKeywords)
	cols.status = monday.FindColumn(columns, statusColumnTypes, statusColumnKeywords)
	return cols
}

// updateColumns writes description and status in a single mutation, if any apply
func (a *MondayAdapter) updateColumns(ctx context.Context, in ExportInput, token, boardID, itemID string, item entities.ActionItem, cols boardColumns) {
	values := make(map[string]any)
	if cols.description != nil {
		values[cols.description.ID] = monday.ColumnValue(cols.description.Type, attributedDescription(item, in.Transcript, a.loc))
	}
	if cols.status != nil && item.Done {
		values[cols.status.ID] = monday.StatusValue(doneStatusLabel)
	}
	if len(values) == 0 {
		return
	}

	if err := a.api.ChangeColumnValues(ctx, token, boardID, itemID, values); err != nil {
		in.Logger.Warn("⚠️ Monday.com item created but column update failed",
			zap.String("item_id", itemID),
			zap.Error(err),
		)
	}
}
