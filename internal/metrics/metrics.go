// Package metrics provides Prometheus metrics for the dose-safety API.
// It exports HTTP request metrics plus counters for dose-check outcomes:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//   - dose_checks_total: Counter with drug and outcome labels
//   - dose_check_alerts_total: Counter with severity labels
//
// All metrics are registered with the Prometheus default registry during
// package initialization and served on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	DoseChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dose_checks_total",
			Help: "Total dose safety checks by drug identity and outcome",
		},
		[]string{"drug", "outcome"},
	)

	DoseCheckAlertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dose_check_alerts_total",
			Help: "Total alerts raised by dose safety checks, by severity",
		},
		[]string{"severity"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(DoseChecksTotal)
	prometheus.MustRegister(DoseCheckAlertsTotal)
}
