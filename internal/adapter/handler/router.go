package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/johnquangdev/meeting-automations/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg           *config.Config
	exportHandler *Export
	authenticate  echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers.
// authenticate guards the /v1 group; nil leaves it open.
func NewRouter(cfg *config.Config, exportHandler *Export, authenticate echo.MiddlewareFunc) *Router {
	return &Router{
		cfg:           cfg,
		exportHandler: exportHandler,
		authenticate:  authenticate,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1")
	if rt.authenticate != nil {
		v1.Use(rt.authenticate)
	}

	rt.setupExportRoutes(v1)
}

// setupExportRoutes configures export trigger and audit routes
func (rt *Router) setupExportRoutes(g *echo.Group) {
	exportGroup := g.Group("/exports")

	if rt.exportHandler != nil {
		exportGroup.POST("", rt.exportHandler.TriggerExport)
		exportGroup.GET("/:user/:runId", rt.exportHandler.GetRun)
	} else {
		exportGroup.POST("", rt.notImplemented)
		exportGroup.GET("/:user/:runId", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	environment := "development"
	if rt.cfg != nil {
		environment = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"time":        time.Now().Format(time.RFC3339),
		"environment": environment,
	})
}
