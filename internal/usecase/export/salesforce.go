package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-automations/errors"
	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/httpclient"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/salesforce"
	"github.com/johnquangdev/meeting-automations/pkg/validator"
)

// Task field values
const (
	taskStatusCompleted  = "Completed"
	taskStatusNotStarted = "Not Started"
	taskTypeActionItem   = "Action Item"
	taskPriorityNormal   = "Normal"
)

// SalesforceAPI is the subset of the Salesforce client the adapter uses
type SalesforceAPI interface {
	CreateTask(ctx context.Context, s salesforce.Session, task salesforce.Task) (string, error)
	CreateContact(ctx context.Context, s salesforce.Session, contact salesforce.Contact) (string, error)
	FindContactByEmail(ctx context.Context, s salesforce.Session, email string) (string, error)
}

// SalesforceAdapter logs the meeting and its action items as Tasks and upserts attendee contacts
type SalesforceAdapter struct {
	api      SalesforceAPI
	validate *validator.CustomValidator
	loc      *time.Location
}

// NewSalesforceAdapter creates a Salesforce adapter
func NewSalesforceAdapter(api SalesforceAPI, v *validator.CustomValidator, loc *time.Location) *SalesforceAdapter {
	return &SalesforceAdapter{api: api, validate: v, loc: loc}
}

// Export creates the tasks and contacts; every record is isolated from the others
func (a *SalesforceAdapter) Export(ctx context.Context, in ExportInput) error {
	var cfg entities.SalesforceStepConfig
	if err := a.validate.DecodeAndValidate(in.Step.Config, &cfg); err != nil {
		return apperrors.ErrStepConfigInvalid(string(entities.StepTypeSalesforce), err)
	}

	name := providerName(entities.StepTypeSalesforce)
	cred := in.Credentials.Salesforce
	switch {
	case cred.AccessToken == "":
		return apperrors.ErrIncompleteIntegration(name, "accessToken")
	case cred.InstanceURL == "":
		return apperrors.ErrIncompleteIntegration(name, "instanceUrl")
	}
	session := salesforce.Session{InstanceURL: cred.InstanceURL, AccessToken: cred.AccessToken}

	t := in.Transcript
	activityDate := t.Timestamp.In(a.location()).Format("2006-01-02")

	if cfg.IncludeMeetingNotes {
		task := salesforce.Task{
			Subject:      truncate("Meeting: "+t.DisplayName(), 255),
			Description:  a.meetingSummary(t),
			ActivityDate: activityDate,
			Status:       taskStatusCompleted,
			Priority:     taskPriorityNormal,
		}
		if err := a.track(ctx, in, 0, task.Subject, func() (string, error) {
			return a.api.CreateTask(ctx, session, task)
		}); err != nil {
			return err
		}
	}

	if cfg.IncludeActionItems {
		for i, item := range t.ActionItems {
			task := salesforce.Task{
				Subject:      truncate(item.Title, 255),
				Description:  attributedDescription(item, t, a.loc),
				ActivityDate: activityDate,
				Status:       taskStatusNotStarted,
				Priority:     taskPriorityNormal,
				Type:         taskTypeActionItem,
			}
			if err := a.track(ctx, in, i, item.Title, func() (string, error) {
				return a.api.CreateTask(ctx, session, task)
			}); err != nil {
				return err
			}
		}
	}

	if cfg.UpdateContacts {
		for i, att := range t.Attendees {
			email := strings.TrimSpace(att.Email)
			if email == "" {
				continue
			}
			if err := a.track(ctx, in, i, email, func() (string, error) {
				return a.upsertContact(ctx, session, att.Name, email)
			}); err != nil {
				return err
			}
		}
	}

	return in.Items.Err()
}

// track runs one record creation. Only a rejected grant aborts the step.
func (a *SalesforceAdapter) track(ctx context.Context, in ExportInput, index int, title string, create func() (string, error)) error {
	id, err := create()
	if err == nil {
		in.Items.Succeeded()
		in.Logger.Info("✅ Salesforce record saved", zap.String("record_id", id), zap.String("title", title))
		return nil
	}

	if httpclient.IsUnauthorized(err) {
		return apperrors.ErrInvalidCredential(providerName(entities.StepTypeSalesforce), err)
	}

	in.Items.Fail(index, title, err)
	in.Logger.Error("❌ Failed to save Salesforce record",
		zap.Int("item_index", index),
		zap.String("title", title),
		zap.Error(err),
	)
	if ctx.Err() != nil {
		return in.Items.Err()
	}
	return nil
}

func (a *SalesforceAdapter) upsertContact(ctx context.Context, s salesforce.Session, name, email string) (string, error) {
	id, err := a.api.FindContactByEmail(ctx, s, email)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}

	first, last := splitName(name)
	return a.api.CreateContact(ctx, s, salesforce.Contact{
		FirstName: first,
		LastName:  last,
		Email:     email,
	})
}

func (a *SalesforceAdapter) meetingSummary(t *entities.TranscriptData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Meeting: %s\nDate: %s\n", t.DisplayName(), FormatTimestamp(t.Timestamp, a.loc))
	if t.HasNotes() {
		fmt.Fprintf(&b, "\nNotes:\n%s\n", strings.TrimSpace(t.Notes))
	}
	if t.HasActionItems() {
		b.WriteString("\nAction Items:\n")
		for _, item := range t.ActionItems {
			fmt.Fprintf(&b, "- %s\n", item.Title)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *SalesforceAdapter) location() *time.Location {
	if a.loc == nil {
		return time.UTC
	}
	return a.loc
}
