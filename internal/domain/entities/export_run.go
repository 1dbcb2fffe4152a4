package entities

import (
	"time"

	"github.com/google/uuid"
)

// StepStatus is the outcome of one dispatched step
type StepStatus string

const (
	StepStatusSucceeded     StepStatus = "succeeded"
	StepStatusPartial       StepStatus = "partial"
	StepStatusFailed        StepStatus = "failed"
	StepStatusNotConnected  StepStatus = "not_connected"
	StepStatusMisconfigured StepStatus = "misconfigured"
	StepStatusUnsupported   StepStatus = "unsupported"
)

// OK reports whether the status should be shown as a success to the user
func (s StepStatus) OK() bool {
	return s != StepStatusFailed && s != StepStatusMisconfigured
}

// StepResult is the per-step feedback record of an export run
type StepResult struct {
	AutomationID string        `json:"automationId"`
	StepID       string        `json:"stepId"`
	Type         StepType      `json:"type"`
	Status       StepStatus    `json:"status"`
	OK           bool          `json:"ok"`
	Error        string        `json:"error,omitempty"`
	ItemsTotal   int           `json:"itemsTotal,omitempty"`
	ItemsFailed  int           `json:"itemsFailed,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// HasFailures reports whether the step or any of its sub-items failed.
// A partial step is OK but still has failures.
func (r StepResult) HasFailures() bool {
	return !r.OK || r.ItemsFailed > 0
}

// ExportRun is the audit record of one Export invocation
type ExportRun struct {
	ID           uuid.UUID    `json:"id"`
	UserID       string       `json:"userId"`
	TranscriptID string       `json:"transcriptId"`
	Success      bool         `json:"success"`
	StartedAt    time.Time    `json:"startedAt"`
	FinishedAt   time.Time    `json:"finishedAt"`
	Results      []StepResult `json:"results"`
}

// NewExportRun creates a new run for the user
func NewExportRun(userID string) *ExportRun {
	return &ExportRun{
		ID:        uuid.New(),
		UserID:    userID,
		StartedAt: time.Now(),
		Results:   make([]StepResult, 0),
	}
}

// Failed returns the results with at least one failure, partial steps included
func (r *ExportRun) Failed() []StepResult {
	var out []StepResult
	for _, res := range r.Results {
		if res.HasFailures() {
			out = append(out, res)
		}
	}
	return out
}
