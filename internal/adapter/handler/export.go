package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-automations/errors"
	dto "github.com/johnquangdev/meeting-automations/internal/adapter/dto/export"
	"github.com/johnquangdev/meeting-automations/internal/adapter/presenter"
	exportUsecase "github.com/johnquangdev/meeting-automations/internal/usecase/export"
)

// Export handles export trigger and run lookup requests
type Export struct {
	exportService exportUsecase.Service
	logger        *zap.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportService exportUsecase.Service, logger *zap.Logger) *Export {
	return &Export{
		exportService: exportService,
		logger:        logger,
	}
}

// TriggerExport handles POST /exports
// @Summary      Export the latest transcript
// @Description  Runs every automation step of the user against their most recent transcript
// @Tags         Exports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      export.TriggerExportRequest  true  "Export request"
// @Success      200      {object}  export.ExportRunResponse  "Run finished, see per-step results"
// @Failure      400      {object}  map[string]interface{}  "Invalid request or validation failed"
// @Failure      404      {object}  map[string]interface{}  "No transcript or unknown user"
// @Router       /exports [post]
func (h *Export) TriggerExport(c echo.Context) error {
	var req dto.TriggerExportRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	run, err := h.exportService.Export(c.Request().Context(), req.UserID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToExportRunResponse(run))
}

// GetRun handles GET /exports/:user/:runId
// @Summary      Get an export run
// @Tags         Exports
// @Produce      json
// @Security     BearerAuth
// @Param        user   path      string  true  "User ID"
// @Param        runId  path      string  true  "Run ID"
// @Success      200    {object}  export.ExportRunResponse
// @Failure      404    {object}  map[string]interface{}  "Run not found"
// @Router       /exports/{user}/{runId} [get]
func (h *Export) GetRun(c echo.Context) error {
	req := dto.GetRunRequest{
		UserID: c.Param("user"),
		RunID:  c.Param("runId"),
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	run, err := h.exportService.GetRun(c.Request().Context(), req.UserID, req.RunID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToExportRunResponse(run))
}
