// Package metrics provides Prometheus metrics for the export engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExportRunsTotal tracks export runs by outcome
	ExportRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meeting_automations",
			Subsystem: "export",
			Name:      "runs_total",
			Help:      "Total number of export runs by outcome",
		},
		[]string{"outcome"},
	)

	// StepsTotal tracks dispatched steps by provider and status
	StepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meeting_automations",
			Subsystem: "export",
			Name:      "steps_total",
			Help:      "Total number of automation steps by provider and status",
		},
		[]string{"provider", "status"},
	)

	// StepDuration tracks adapter execution time
	StepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "meeting_automations",
			Subsystem: "export",
			Name:      "step_duration_seconds",
			Help:      "Duration of provider adapter executions in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider"},
	)

	// ProviderRequestsTotal tracks outbound provider API requests
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meeting_automations",
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Total number of outbound provider API requests",
		},
		[]string{"provider", "status_code"},
	)

	// TokenRefreshTotal tracks OAuth token refreshes
	TokenRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meeting_automations",
			Subsystem: "provider",
			Name:      "token_refresh_total",
			Help:      "Total number of OAuth token refreshes by provider and result",
		},
		[]string{"provider", "result"},
	)
)
