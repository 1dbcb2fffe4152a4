package presenter

import (
	"github.com/johnquangdev/meeting-automations/internal/adapter/dto/export"
	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
)

// ToExportRunResponse converts an ExportRun entity to ExportRunResponse DTO
func ToExportRunResponse(run *entities.ExportRun) *export.ExportRunResponse {
	if run == nil {
		return nil
	}

	results := make([]export.StepResultResponse, len(run.Results))
	for i, r := range run.Results {
		results[i] = ToStepResultResponse(r)
	}

	return &export.ExportRunResponse{
		ID:           run.ID.String(),
		UserID:       run.UserID,
		TranscriptID: run.TranscriptID,
		Success:      run.Success,
		Failed:       len(run.Failed()),
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
		Results:      results,
	}
}

// ToStepResultResponse converts a StepResult to its DTO
func ToStepResultResponse(r entities.StepResult) export.StepResultResponse {
	return export.StepResultResponse{
		AutomationID: r.AutomationID,
		StepID:       r.StepID,
		Type:         string(r.Type),
		Status:       string(r.Status),
		OK:           r.OK,
		Error:        r.Error,
		ItemsTotal:   r.ItemsTotal,
		ItemsFailed:  r.ItemsFailed,
		DurationMs:   r.Duration.Milliseconds(),
	}
}
