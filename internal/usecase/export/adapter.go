package export

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
)

// Adapter turns one configured step into provider API calls
type Adapter interface {
	Export(ctx context.Context, in ExportInput) error
}

// Registry maps each dispatchable step type to its adapter
type Registry map[entities.StepType]Adapter

// ExportInput is everything an adapter sees for one step.
// Transcript and Credentials are shared across steps and must be treated as read-only.
type ExportInput struct {
	RunID       uuid.UUID
	UserID      string
	Transcript  *entities.TranscriptData
	Step        *entities.Step
	Credentials *entities.Credentials
	Run         *RunState
	Items       *ItemTracker
	Logger      *zap.Logger
}

// RunState is per-run state shared by all steps of one export run
type RunState struct {
	refresh singleflight.Group

	mu          sync.Mutex
	hubspot     *entities.HubSpotCredential
	hubspotErr  error
	hubspotDone bool
}

// NewRunState creates empty run state
func NewRunState() *RunState {
	return &RunState{}
}

func (r *RunState) hubspotResult() (*entities.HubSpotCredential, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hubspot, r.hubspotDone, r.hubspotErr
}

func (r *RunState) setHubSpotResult(cred *entities.HubSpotCredential, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hubspot = cred
	r.hubspotErr = err
	r.hubspotDone = true
}

// ItemError is the failure of one sub-item of a step
type ItemError struct {
	Index int
	Title string
	Err   error
}

// ItemErrors is returned by a step whose sub-items failed in part or in full
type ItemErrors struct {
	Total  int
	Failed []ItemError
}

func (e *ItemErrors) Error() string {
	parts := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		parts = append(parts, fmt.Sprintf("%q: %v", f.Title, f.Err))
	}
	return fmt.Sprintf("%d of %d items failed: %s", len(e.Failed), e.Total, strings.Join(parts, "; "))
}

// Unwrap exposes the individual item errors to errors.Is/As
func (e *ItemErrors) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, f := range e.Failed {
		errs = append(errs, f.Err)
	}
	return errs
}

// Partial reports whether at least one item succeeded
func (e *ItemErrors) Partial() bool {
	return len(e.Failed) < e.Total
}

// ItemTracker counts the sub-items of a step (issues, board items, tasks, associations)
type ItemTracker struct {
	mu     sync.Mutex
	total  int
	failed []ItemError
}

// Succeeded records a successful item
func (t *ItemTracker) Succeeded() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total++
}

// Fail records a failed item
func (t *ItemTracker) Fail(index int, title string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total++
	t.failed = append(t.failed, ItemError{Index: index, Title: title, Err: err})
}

// Counts returns the number of tracked and failed items
func (t *ItemTracker) Counts() (total, failed int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total, len(t.failed)
}

// Err returns an *ItemErrors when any item failed, or nil
func (t *ItemTracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.failed) == 0 {
		return nil
	}
	failed := make([]ItemError, len(t.failed))
	copy(failed, t.failed)
	return &ItemErrors{Total: t.total, Failed: failed}
}

// Provider names shown to users in reconnect messages
var providerNames = map[entities.StepType]string{
	entities.StepTypeNotion:     "Notion",
	entities.StepTypeSlack:      "Slack",
	entities.StepTypeHubSpot:    "HubSpot",
	entities.StepTypeLinear:     "Linear",
	entities.StepTypeMonday:     "Monday.com",
	entities.StepTypeSalesforce: "Salesforce",
}

func providerName(t entities.StepType) string {
	if name, ok := providerNames[t]; ok {
		return name
	}
	return string(t)
}
