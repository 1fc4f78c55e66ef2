// Package metrics holds the Prometheus collectors shared by the HTTP layer
// and the model-backed components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "palace_ai",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template, method and status code.",
		},
		[]string{"route", "method", "code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "palace_ai",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"route"},
	)

	ModelCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "palace_ai",
			Name:      "model_calls_total",
			Help:      "Model invocations by component and outcome (ok, error).",
		},
		[]string{"component", "outcome"},
	)

	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "palace_ai",
			Name:      "fallback_responses_total",
			Help:      "Safe default responses returned instead of model output.",
		},
		[]string{"component", "reason"},
	)
)

// ObserveModelCall records one model invocation for component.
func ObserveModelCall(component string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ModelCallsTotal.WithLabelValues(component, outcome).Inc()
}

// ObserveFallback records a safe-default response for component.
func ObserveFallback(component, reason string) {
	FallbacksTotal.WithLabelValues(component, reason).Inc()
}
