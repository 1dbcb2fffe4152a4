package repositories

import (
	"context"

	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
)

// AutomationRepository enumerates a user's configured automations and their steps
type AutomationRepository interface {
	ListAutomations(ctx context.Context, userID string) ([]*entities.Automation, error)

	// ListSteps returns the steps of an automation in stored order
	ListSteps(ctx context.Context, userID, automationID string) ([]*entities.Step, error)
}

// ExportRunRepository persists export run audit records
type ExportRunRepository interface {
	Save(ctx context.Context, run *entities.ExportRun) error
	Get(ctx context.Context, userID, runID string) (*entities.ExportRun, error)
}
