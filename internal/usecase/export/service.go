package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/johnquangdev/meeting-automations/errors"
	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
	domainrepo "github.com/johnquangdev/meeting-automations/internal/domain/repositories"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-automations/pkg/config"
	"github.com/johnquangdev/meeting-automations/pkg/jobcontext"
)

// Service defines export orchestration methods
type Service interface {
	// Export fans the user's latest transcript out to every configured step.
	// Only transcript and user lookup failures are returned; step failures are
	// reported in the run's results.
	Export(ctx context.Context, userID string) (*entities.ExportRun, error)
	GetRun(ctx context.Context, userID, runID string) (*entities.ExportRun, error)
}

type exportService struct {
	transcripts domainrepo.TranscriptRepository
	users       domainrepo.UserRepository
	automations domainrepo.AutomationRepository
	runs        domainrepo.ExportRunRepository
	registry    Registry
	cfg         config.ExportConfig
	logger      *zap.Logger
}

// NewExportService constructs the export dispatcher
func NewExportService(
	transcripts domainrepo.TranscriptRepository,
	users domainrepo.UserRepository,
	automations domainrepo.AutomationRepository,
	runs domainrepo.ExportRunRepository,
	registry Registry,
	cfg config.ExportConfig,
	logger *zap.Logger,
) Service {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &exportService{
		transcripts: transcripts,
		users:       users,
		automations: automations,
		runs:        runs,
		registry:    registry,
		cfg:         cfg,
		logger:      logger,
	}
}

// stepTask is one dispatchable step with the automation it belongs to
type stepTask struct {
	automation *entities.Automation
	step       *entities.Step
}

// Export runs every step of every automation of the user
func (s *exportService) Export(ctx context.Context, userID string) (*entities.ExportRun, error) {
	run := entities.NewExportRun(userID)
	ctx = jobcontext.RunBegin(ctx, run.ID, userID)
	logger := s.logger.With(jobcontext.GetRunMetadata(ctx).RunFields()...)

	transcript, err := s.transcripts.Latest(ctx, userID)
	if err != nil {
		metrics.ExportRunsTotal.WithLabelValues("aborted").Inc()
		if errors.Is(err, entities.ErrTranscriptNotFound) {
			logger.Warn("❌ Export aborted, no transcript found")
			return nil, apperrors.ErrNoTranscript(userID)
		}
		logger.Error("❌ Failed to load transcript", zap.Error(err))
		return nil, apperrors.ErrDBQueryFailed("transcript", err)
	}

	creds, err := s.users.GetCredentials(ctx, userID)
	if err != nil {
		metrics.ExportRunsTotal.WithLabelValues("aborted").Inc()
		if errors.Is(err, entities.ErrUserNotFound) {
			logger.Warn("❌ Export aborted, user not found")
			return nil, apperrors.ErrUserNotFound(userID)
		}
		logger.Error("❌ Failed to load credentials", zap.Error(err))
		return nil, apperrors.ErrDBQueryFailed("users", err)
	}

	run.TranscriptID = transcript.ID
	logger = logger.With(zap.String("transcript_id", transcript.ID))
	logger.Info("🚀 Export started",
		zap.String("meeting", transcript.DisplayName()),
		zap.Int("action_items", len(transcript.ActionItems)),
	)

	tasks, listFailures := s.collectTasks(ctx, userID, transcript, logger)

	results := make([]entities.StepResult, len(tasks))
	state := NewRunState()

	g := new(errgroup.Group)
	g.SetLimit(s.cfg.Concurrency)
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			results[i] = s.runStep(ctx, run, state, transcript, creds, task, logger)
			return nil
		})
	}
	_ = g.Wait()

	run.Results = append(listFailures, results...)
	run.Success = true
	run.FinishedAt = time.Now()

	failed := len(run.Failed())
	if failed > 0 {
		metrics.ExportRunsTotal.WithLabelValues("completed_with_failures").Inc()
	} else {
		metrics.ExportRunsTotal.WithLabelValues("completed").Inc()
	}

	if err := s.runs.Save(ctx, run); err != nil {
		logger.Error("⚠️ Failed to save export run", zap.Error(err))
	}

	logger.Info("✅ Export finished",
		zap.Int("steps", len(run.Results)),
		zap.Int("failed", failed),
		zap.Duration("duration", run.FinishedAt.Sub(run.StartedAt)),
	)
	return run, nil
}

// collectTasks lists automations and their steps in stored order.
// A failed step listing is reported as a failed result and does not stop other automations.
func (s *exportService) collectTasks(ctx context.Context, userID string, transcript *entities.TranscriptData, logger *zap.Logger) ([]stepTask, []entities.StepResult) {
	automations, err := s.automations.ListAutomations(ctx, userID)
	if err != nil {
		logger.Error("❌ Failed to list automations", zap.Error(err))
		return nil, []entities.StepResult{{
			Status: entities.StepStatusFailed,
			Error:  apperrors.ErrDBQueryFailed("automations", err).Message,
		}}
	}

	var tasks []stepTask
	var failures []entities.StepResult
	for _, a := range automations {
		steps, err := s.automations.ListSteps(ctx, userID, a.ID)
		if err != nil {
			logger.Error("❌ Failed to list automation steps",
				zap.String("automation_id", a.ID),
				zap.Error(err),
			)
			failures = append(failures, entities.StepResult{
				AutomationID: a.ID,
				Status:       entities.StepStatusFailed,
				Error:        apperrors.ErrDBQueryFailed("steps", err).Message,
			})
			continue
		}

		if !matchesTrigger(transcript, steps) {
			logger.Info("⏭️ Automation skipped, trigger tags do not match",
				zap.String("automation_id", a.ID),
				zap.String("automation_name", a.Name),
			)
			continue
		}

		for _, step := range steps {
			if step.Type == entities.StepTypeTrigger {
				continue
			}
			tasks = append(tasks, stepTask{automation: a, step: step})
		}
	}
	return tasks, failures
}

// matchesTrigger applies trigger tag filters. Untagged transcripts and
// triggers without tags always match.
func matchesTrigger(t *entities.TranscriptData, steps []*entities.Step) bool {
	if len(t.Tags) == 0 {
		return true
	}
	for _, step := range steps {
		if step.Type != entities.StepTypeTrigger || len(step.Config) == 0 {
			continue
		}
		var cfg entities.TriggerConfig
		if err := json.Unmarshal(step.Config, &cfg); err != nil || len(cfg.Tags) == 0 {
			continue
		}
		if !t.HasTag(cfg.Tags) {
			return false
		}
	}
	return true
}

// runStep dispatches one step and converts its outcome into a result.
// It never returns an error and never panics.
func (s *exportService) runStep(
	runCtx context.Context,
	run *entities.ExportRun,
	state *RunState,
	transcript *entities.TranscriptData,
	creds *entities.Credentials,
	task stepTask,
	logger *zap.Logger,
) entities.StepResult {
	step := task.step
	result := entities.StepResult{
		AutomationID: task.automation.ID,
		StepID:       step.ID,
		Type:         step.Type,
	}
	ctx, cancel := jobcontext.StepBegin(runCtx, task.automation.ID, step.ID, string(step.Type), s.cfg.StepTimeout)
	defer cancel()
	stepLogger := logger.With(jobcontext.GetRunMetadata(ctx).StepFields()...)

	if !step.Type.IsValid() {
		err := apperrors.ErrStepConfigInvalid(string(step.Type), fmt.Errorf("unknown step type %q", step.Type))
		result.Status = classify(err)
		result.OK = result.Status.OK()
		result.Error = describe(err)
		stepLogger.Warn("⚠️ Step skipped, unknown step type")
		metrics.StepsTotal.WithLabelValues(string(step.Type), string(result.Status)).Inc()
		return result
	}

	adapter, ok := s.registry[step.Type]
	if !ok {
		result.Status = entities.StepStatusUnsupported
		result.OK = result.Status.OK()
		result.Error = apperrors.ErrStepUnsupported(string(step.Type)).Message
		stepLogger.Info("⏭️ Step skipped, no exporter for step type")
		metrics.StepsTotal.WithLabelValues(string(step.Type), string(result.Status)).Inc()
		return result
	}

	if !creds.Has(step.Type) {
		result.Status = entities.StepStatusNotConnected
		result.OK = result.Status.OK()
		stepLogger.Info("⏭️ Step skipped, integration not connected")
		metrics.StepsTotal.WithLabelValues(string(step.Type), string(result.Status)).Inc()
		return result
	}

	items := &ItemTracker{}
	start := time.Now()
	err := jobcontext.StepEnd(ctx, func(ctx context.Context) error {
		return adapter.Export(ctx, ExportInput{
			RunID:       run.ID,
			UserID:      run.UserID,
			Transcript:  transcript,
			Step:        step,
			Credentials: creds,
			Run:         state,
			Items:       items,
			Logger:      stepLogger,
		})
	})
	result.Duration = time.Since(start)
	result.ItemsTotal, result.ItemsFailed = items.Counts()
	result.Status = classify(err)
	result.OK = result.Status.OK()

	metrics.StepsTotal.WithLabelValues(string(step.Type), string(result.Status)).Inc()
	metrics.StepDuration.WithLabelValues(string(step.Type)).Observe(result.Duration.Seconds())

	if err != nil {
		result.Error = describe(err)
		stepLogger.Error("❌ Step failed",
			zap.String("status", string(result.Status)),
			zap.Int("items_total", result.ItemsTotal),
			zap.Int("items_failed", result.ItemsFailed),
			zap.Any("details", errorDetails(err)),
			zap.Error(err),
		)
		return result
	}

	stepLogger.Info("✅ Step succeeded", zap.Duration("duration", result.Duration))
	return result
}

// classify maps a step error onto a result status
func classify(err error) entities.StepStatus {
	if err == nil {
		return entities.StepStatusSucceeded
	}

	var itemErrs *ItemErrors
	if errors.As(err, &itemErrs) {
		if itemErrs.Partial() {
			return entities.StepStatusPartial
		}
		return entities.StepStatusFailed
	}

	switch apperrors.CodeOf(err) {
	case apperrors.ErrorCode_INTEGRATION_INVALID_CREDENTIAL,
		apperrors.ErrorCode_INTEGRATION_INCOMPLETE,
		apperrors.ErrorCode_EXPORT_STEP_CONFIG:
		return entities.StepStatusMisconfigured
	case apperrors.ErrorCode_EXPORT_STEP_UNSUPPORTED:
		return entities.StepStatusUnsupported
	}
	return entities.StepStatusFailed
}

// describe returns the user-facing message of a step error
func describe(err error) string {
	var itemErrs *ItemErrors
	if errors.As(err, &itemErrs) {
		return itemErrs.Error()
	}
	var appErr apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Raw != nil && appErr.Code == apperrors.ErrorCode_EXPORT_STEP_CONFIG {
			return appErr.Message + ": " + appErr.Raw.Error()
		}
		return appErr.Message
	}
	return err.Error()
}

func errorDetails(err error) map[string]string {
	var appErr apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}

// GetRun returns a stored export run
func (s *exportService) GetRun(ctx context.Context, userID, runID string) (*entities.ExportRun, error) {
	run, err := s.runs.Get(ctx, userID, runID)
	if err != nil {
		if errors.Is(err, entities.ErrRunNotFound) {
			return nil, apperrors.ErrRunNotFound(runID)
		}
		return nil, apperrors.ErrDBQueryFailed("export_runs", err)
	}
	return run, nil
}
