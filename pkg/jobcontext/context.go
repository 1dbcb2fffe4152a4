package jobcontext

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type KeyContext string

var (
	keyRunID        KeyContext = "run_id"
	keyUserID       KeyContext = "user_id"
	keyAutomationID KeyContext = "automation_id"
	keyStepID       KeyContext = "step_id"
	keyStepType     KeyContext = "step_type"
	keyRunStartTime KeyContext = "run_start_time"
)

// RunMetadata holds metadata for an export run, and for one step of it when set
type RunMetadata struct {
	RunID        uuid.UUID
	UserID       string
	AutomationID string
	StepID       string
	StepType     string
	StartTime    time.Time
}

// RunBegin attaches run metadata to the context
func RunBegin(parentCtx context.Context, runID uuid.UUID, userID string) context.Context {
	ctx := context.WithValue(parentCtx, keyRunID, runID)
	ctx = context.WithValue(ctx, keyUserID, userID)
	ctx = context.WithValue(ctx, keyRunStartTime, time.Now())
	return ctx
}

// StepBegin derives a step context bounded by timeout.
// A zero timeout leaves the parent deadline in place.
func StepBegin(runCtx context.Context, automationID, stepID, stepType string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := context.WithValue(runCtx, keyAutomationID, automationID)
	ctx = context.WithValue(ctx, keyStepID, stepID)
	ctx = context.WithValue(ctx, keyStepType, stepType)

	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// StepEnd runs stepFunc and converts a panic into an error.
// The step is not run when its context is already done.
func StepEnd(ctx context.Context, stepFunc func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic recovered: %v", p)
		}
	}()

	if ctx.Err() != nil {
		return fmt.Errorf("context cancelled before step execution: %w", ctx.Err())
	}

	if err = stepFunc(ctx); err != nil && ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("step timed out: %w", err)
	}
	return err
}

// GetRunMetadata extracts all run metadata from context
func GetRunMetadata(ctx context.Context) *RunMetadata {
	runID, _ := ctx.Value(keyRunID).(uuid.UUID)
	userID, _ := ctx.Value(keyUserID).(string)
	startTime, _ := ctx.Value(keyRunStartTime).(time.Time)
	automationID, _ := ctx.Value(keyAutomationID).(string)
	stepID, _ := ctx.Value(keyStepID).(string)
	stepType, _ := ctx.Value(keyStepType).(string)

	return &RunMetadata{
		RunID:        runID,
		UserID:       userID,
		AutomationID: automationID,
		StepID:       stepID,
		StepType:     stepType,
		StartTime:    startTime,
	}
}

// RunFields returns the run-level log fields
func (m *RunMetadata) RunFields() []zap.Field {
	return []zap.Field{
		zap.String(string(keyRunID), m.RunID.String()),
		zap.String(string(keyUserID), m.UserID),
	}
}

// StepFields returns the step-level log fields
func (m *RunMetadata) StepFields() []zap.Field {
	return []zap.Field{
		zap.String(string(keyAutomationID), m.AutomationID),
		zap.String(string(keyStepID), m.StepID),
		zap.String(string(keyStepType), m.StepType),
	}
}
