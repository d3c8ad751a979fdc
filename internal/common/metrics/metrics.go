// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EvaluationsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "evaluations_submitted_total",
			Help: "Total number of evaluation attempts that reached the backend",
		},
	)

	EvaluationsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "evaluations_completed_total",
			Help: "Total number of evaluations rendered successfully",
		},
	)

	EvaluationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluations_failed_total",
			Help: "Total number of evaluation attempts that ended in the error state",
		},
		[]string{"error_code"},
	)

	EvaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evaluation_duration_seconds",
			Help:    "Duration of evaluation attempts from submit to idle",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"outcome"},
	)

	EvaluationsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "evaluations_in_flight",
			Help: "Number of evaluation attempts currently loading",
		},
	)

	RenderedSections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_sections_rendered_total",
			Help: "Payload sections written by the renderer",
		},
		[]string{"section"},
	)
)
