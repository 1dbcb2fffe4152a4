package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-automations/errors"
	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
	domainrepo "github.com/johnquangdev/meeting-automations/internal/domain/repositories"
	"github.com/johnquangdev/meeting-automations/pkg/validator"
)

// Slack Block Kit limits
const (
	maxSlackBlocks      = 50
	maxSlackHeaderText  = 150
	maxSlackSectionText = 3000
)

// SlackAPI is the subset of the Slack client the adapter uses
type SlackAPI interface {
	PostMessage(ctx context.Context, botToken, channelID, fallback string, blocks []slack.Block) (string, error)
}

// SlackAdapter posts a meeting summary to a channel with the workspace bot
type SlackAdapter struct {
	api        SlackAPI
	workspaces domainrepo.SlackWorkspaceRepository
	validate   *validator.CustomValidator
	loc        *time.Location
}

// NewSlackAdapter creates a Slack adapter
func NewSlackAdapter(api SlackAPI, workspaces domainrepo.SlackWorkspaceRepository, v *validator.CustomValidator, loc *time.Location) *SlackAdapter {
	return &SlackAdapter{api: api, workspaces: workspaces, validate: v, loc: loc}
}

// Export posts the message
func (a *SlackAdapter) Export(ctx context.Context, in ExportInput) error {
	var cfg entities.SlackStepConfig
	if err := a.validate.DecodeAndValidate(in.Step.Config, &cfg); err != nil {
		return apperrors.ErrStepConfigInvalid(string(entities.StepTypeSlack), err)
	}

	name := providerName(entities.StepTypeSlack)
	cred := in.Credentials.Slack
	switch {
	case cred.TeamID == "":
		return apperrors.ErrIncompleteIntegration(name, "teamId")
	case cred.BotUserID == "":
		return apperrors.ErrIncompleteIntegration(name, "botUserId")
	case cred.BotEmail == "":
		return apperrors.ErrIncompleteIntegration(name, "botEmail")
	}

	ws, err := a.workspaces.Get(ctx, cred.TeamID)
	if err != nil {
		if errors.Is(err, entities.ErrWorkspaceNotFound) {
			return apperrors.ErrIncompleteIntegration(name, "workspace")
		}
		return apperrors.ErrDBQueryFailed("slack_workspaces", err)
	}
	if ws.BotToken == "" {
		return apperrors.ErrIncompleteIntegration(name, "botToken")
	}

	blocks := BuildSlackBlocks(in.Transcript, cfg, a.loc)
	ts, err := a.api.PostMessage(ctx, ws.BotToken, cfg.ChannelID, "📝 "+escapeMrkdwn(in.Transcript.DisplayName()), blocks)
	if err != nil {
		return err
	}

	in.Logger.Info("✅ Slack message posted",
		zap.String("channel_id", cfg.ChannelID),
		zap.String("channel_name", cfg.ChannelName),
		zap.String("team_id", ws.TeamID),
		zap.String("ts", ts),
		zap.Int("blocks", len(blocks)),
	)
	return nil
}

func plainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, true, false)
}

func markdown(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

// mrkdwnEscaper escapes the control characters of Slack mrkdwn so user text
// cannot form links or mentions such as <!channel>
var mrkdwnEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeMrkdwn(text string) string {
	return mrkdwnEscaper.Replace(text)
}

func markdownSection(text string) slack.Block {
	return slack.NewSectionBlock(markdown(truncate(text, maxSlackSectionText)), nil, nil)
}

// BuildSlackBlocks lays out the message. Action items that do not fit under
// the block limit are summarized in a trailing context line.
func BuildSlackBlocks(t *entities.TranscriptData, cfg entities.SlackStepConfig, loc *time.Location) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(plainText(truncate("📝 "+t.DisplayName(), maxSlackHeaderText))),
		slack.NewContextBlock("", markdown("🕒 "+FormatTimestamp(t.Timestamp, loc))),
		slack.NewDividerBlock(),
	}

	if cfg.SendNotes && t.HasNotes() {
		blocks = append(blocks,
			markdownSection("*Meeting Notes*\n"+escapeMrkdwn(t.Notes)),
			slack.NewDividerBlock(),
		)
	}

	if !cfg.SendActionItems || !t.HasActionItems() {
		return blocks
	}

	for i, item := range t.ActionItems {
		needed := 1
		if item.HasDescription() {
			needed = 2
		}
		limit := maxSlackBlocks
		if i < len(t.ActionItems)-1 {
			// room for the overflow line
			limit--
		}
		if len(blocks)+needed > limit {
			omitted := len(t.ActionItems) - i
			blocks = append(blocks, slack.NewContextBlock("",
				markdown(fmt.Sprintf("…and %d more action items not shown", omitted))))
			break
		}

		line := fmt.Sprintf("%d. %s", i+1, escapeMrkdwn(item.Title))
		if item.Done {
			line += " ✅"
		}
		blocks = append(blocks, markdownSection(line))
		if item.HasDescription() {
			blocks = append(blocks, markdownSection("_"+escapeMrkdwn(item.Description)+"_"))
		}
	}

	return blocks
}
