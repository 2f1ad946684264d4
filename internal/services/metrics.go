package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	// Completion API metrics
	CompletionRequests *prometheus.CounterVec
	CompletionLatency  *prometheus.HistogramVec

	// Content lifecycle metrics
	ContentCreated *prometheus.CounterVec

	// URL fetch metrics
	FetchRequests *prometheus.CounterVec
}

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	return &Metrics{
		// Completion requests by task and outcome (counter - only goes up)
		CompletionRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_completion_requests_total",
			Help: "Total number of completion API calls by task and outcome",
		}, []string{"task", "outcome"}), // task: "generate" or "summarize"

		// Completion latency histogram
		CompletionLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "inkwell_completion_request_duration_seconds",
			Help:    "Completion API call duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"task"}),

		// Content records created by kind
		ContentCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_content_created_total",
			Help: "Total number of content records created by kind",
		}, []string{"kind"}),

		// URL fetches by outcome
		FetchRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_fetch_requests_total",
			Help: "Total number of URL fetches by outcome",
		}, []string{"outcome"}),
	}
}
