// Package observability provides Prometheus metrics for monitoring SDK
// traffic: API calls, streaming connections, per-event stream outcomes,
// and token consumption.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// APIRequestsTotal counts API calls by method, route, and status class.
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fragen_api_requests_total",
			Help: "Total API requests",
		},
		[]string{"method", "route", "status"},
	)

	// APIRequestDuration records API call duration in seconds by method and route.
	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fragen_api_request_duration_seconds",
			Help:    "API request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method", "route"},
	)

	// StreamsActive tracks the number of completion streams currently open.
	StreamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fragen_streams_active",
			Help: "Active completion streams",
		},
	)

	// StreamEventsTotal counts stream events by outcome
	// ("forwarded" or "skipped").
	StreamEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fragen_stream_events_total",
			Help: "Stream events by outcome",
		},
		[]string{"outcome"},
	)

	// TokensTotal counts tokens reported in usage blocks by direction
	// ("prompt" or "completion").
	TokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fragen_tokens_total",
			Help: "Token count",
		},
		[]string{"model", "direction"},
	)
)

func init() {
	prometheus.MustRegister(
		APIRequestsTotal,
		APIRequestDuration,
		StreamsActive,
		StreamEventsTotal,
		TokensTotal,
	)
}

// ObserveRequest records one completed API call. The status label is a
// class like "2xx"; route is the API route without IDs (e.g.
// "chat/completions").
func ObserveRequest(method, route, status string, elapsed time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordStreamEvent counts a single stream event outcome:
// "forwarded" for deltas delivered to the consumer, "skipped" for
// malformed payloads dropped at the stream adapter boundary.
func RecordStreamEvent(outcome string) {
	StreamEventsTotal.WithLabelValues(outcome).Inc()
}

// RecordTokens records token usage for a completed request.
func RecordTokens(model string, promptTokens, completionTokens int) {
	if promptTokens > 0 {
		TokensTotal.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		TokensTotal.WithLabelValues(model, "completion").Add(float64(completionTokens))
	}
}
