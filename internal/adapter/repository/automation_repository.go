package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
	domainrepo "github.com/johnquangdev/meeting-automations/internal/domain/repositories"
)

type automationDocument struct {
	Name      string          `json:"name"`
	CreatedAt json.RawMessage `json:"createdAt"`
}

type stepDocument struct {
	Type   entities.StepType `json:"type"`
	Order  *int              `json:"order"`
	Config json.RawMessage   `json:"config"`
}

// AutomationRepository reads integratedautomations/{user}/automations/{id}/steps/{stepId}
type AutomationRepository struct {
	store domainrepo.DocumentStore
}

// NewAutomationRepository creates a new automation repository
func NewAutomationRepository(store domainrepo.DocumentStore) *AutomationRepository {
	return &AutomationRepository{store: store}
}

var _ domainrepo.AutomationRepository = (*AutomationRepository)(nil)

// AutomationCollection returns the collection path of a user's automations
func AutomationCollection(userID string) string {
	return joinPath("integratedautomations", userID, "automations")
}

// StepCollection returns the collection path of an automation's steps
func StepCollection(userID, automationID string) string {
	return joinPath(AutomationCollection(userID), automationID, "steps")
}

// ListAutomations returns the user's automations in creation order
func (r *AutomationRepository) ListAutomations(ctx context.Context, userID string) ([]*entities.Automation, error) {
	docs, err := r.store.List(ctx, AutomationCollection(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list automations: %w", err)
	}

	automations := make([]*entities.Automation, 0, len(docs))
	for _, doc := range docs {
		var raw automationDocument
		if err := json.Unmarshal(doc.Data, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode automation %s: %w", doc.Path, err)
		}
		automations = append(automations, &entities.Automation{
			ID:        doc.ID,
			Name:      raw.Name,
			CreatedAt: NormalizeTimestamp(raw.CreatedAt, doc.CreatedAt),
		})
	}
	return automations, nil
}

// ListSteps returns the steps of an automation. Steps with an explicit order are
// sorted by it; otherwise the store's creation order is kept.
func (r *AutomationRepository) ListSteps(ctx context.Context, userID, automationID string) ([]*entities.Step, error) {
	docs, err := r.store.List(ctx, StepCollection(userID, automationID))
	if err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}

	steps := make([]*entities.Step, 0, len(docs))
	for i, doc := range docs {
		var raw stepDocument
		if err := json.Unmarshal(doc.Data, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode step %s: %w", doc.Path, err)
		}
		order := i
		if raw.Order != nil {
			order = *raw.Order
		}
		steps = append(steps, &entities.Step{
			ID:     doc.ID,
			Type:   raw.Type,
			Order:  order,
			Config: raw.Config,
		})
	}

	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })
	return steps, nil
}

// ExportRunRepository stores run audit records at export_runs/{user}/runs/{runId}
type ExportRunRepository struct {
	store domainrepo.DocumentStore
}

// NewExportRunRepository creates a new export run repository
func NewExportRunRepository(store domainrepo.DocumentStore) *ExportRunRepository {
	return &ExportRunRepository{store: store}
}

var _ domainrepo.ExportRunRepository = (*ExportRunRepository)(nil)

func exportRunPath(userID, runID string) string {
	return joinPath("export_runs", userID, "runs", runID)
}

// Save persists the run
func (r *ExportRunRepository) Save(ctx context.Context, run *entities.ExportRun) error {
	if err := r.store.Set(ctx, exportRunPath(run.UserID, run.ID.String()), run); err != nil {
		return fmt.Errorf("failed to save export run: %w", err)
	}
	return nil
}

// Get returns a persisted run or entities.ErrRunNotFound
func (r *ExportRunRepository) Get(ctx context.Context, userID, runID string) (*entities.ExportRun, error) {
	doc, err := r.store.Get(ctx, exportRunPath(userID, runID))
	if err != nil {
		if errors.Is(err, entities.ErrDocumentNotFound) {
			return nil, entities.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get export run: %w", err)
	}

	var run entities.ExportRun
	if err := json.Unmarshal(doc.Data, &run); err != nil {
		return nil, fmt.Errorf("failed to decode export run %s: %w", runID, err)
	}
	return &run, nil
}
