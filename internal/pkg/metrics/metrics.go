package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "leadforge"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	// stage: title | outline | section
	GenerationCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "calls_total",
			Help:      "Total number of generator calls by stage and outcome",
		},
		[]string{"stage", "status"},
	)

	GenerationCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "call_duration_seconds",
			Help:      "Generator call duration in seconds",
			Buckets:   []float64{.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		},
		[]string{"stage"},
	)

	GenerationDraftsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "drafts_total",
			Help:      "Generation runs that reached draft persistence, by outcome",
		},
		[]string{"status"},
	)

	GenerationActiveRuns = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "active_runs",
			Help:      "Generation runs currently held in memory",
		},
	)

	ContactSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Contact form submissions by lead tier",
		},
		[]string{"tier"},
	)
)

// Outcome returns the status label for an error.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
