package export

// TriggerExportRequest represents the request to export a user's latest transcript
type TriggerExportRequest struct {
	UserID string `json:"user_id" validate:"required,max=255"`
}

// GetRunRequest represents the path parameters of a run lookup
type GetRunRequest struct {
	UserID string `json:"user" param:"user" validate:"required"`
	RunID  string `json:"run_id" param:"runId" validate:"required,uuid"`
}
