package export

import "time"

// StepResultResponse is the feedback for one dispatched step
type StepResultResponse struct {
	AutomationID string `json:"automation_id"`
	StepID       string `json:"step_id"`
	Type         string `json:"type"`
	Status       string `json:"status"`
	OK           bool   `json:"ok"`
	Error        string `json:"error,omitempty"`
	ItemsTotal   int    `json:"items_total,omitempty"`
	ItemsFailed  int    `json:"items_failed,omitempty"`
	DurationMs   int64  `json:"duration_ms"`
}

// ExportRunResponse represents an export run
type ExportRunResponse struct {
	ID           string               `json:"id"`
	UserID       string               `json:"user_id"`
	TranscriptID string               `json:"transcript_id"`
	Success      bool                 `json:"success"`
	Failed       int                  `json:"failed"`
	StartedAt    time.Time            `json:"started_at"`
	FinishedAt   time.Time            `json:"finished_at"`
	Results      []StepResultResponse `json:"results"`
}
