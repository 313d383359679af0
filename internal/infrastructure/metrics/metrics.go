package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Storefront-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aistore",
			Subsystem: "storefront_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "aistore",
			Subsystem: "storefront_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Sales chat counters, labelled by which backend produced the reply
	ChatRepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aistore",
			Subsystem: "storefront_api",
			Name:      "chat_replies_total",
			Help:      "Total sales chat replies",
		},
		[]string{"backend", "stage"},
	)

	// External completion calls
	CompletionCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aistore",
			Subsystem: "storefront_api",
			Name:      "completion_calls_total",
			Help:      "Total external completion calls",
		},
		[]string{"status"},
	)

	// Completion call duration
	CompletionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "aistore",
			Subsystem: "storefront_api",
			Name:      "completion_duration_seconds",
			Help:      "External completion call duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// Tool invocations requested by the model
	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aistore",
			Subsystem: "storefront_api",
			Name:      "tool_calls_total",
			Help:      "Total sales agent tool invocations",
		},
		[]string{"tool", "status"},
	)

	// Orders created through chat or checkout
	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aistore",
			Subsystem: "storefront_api",
			Name:      "orders_total",
			Help:      "Total order creation attempts",
		},
		[]string{"status"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordChatReply records a sales chat reply
func RecordChatReply(backend, stage string) {
	ChatRepliesTotal.WithLabelValues(backend, stage).Inc()
}

// RecordCompletion records an external completion call
func RecordCompletion(status string, durationSec float64) {
	CompletionCallsTotal.WithLabelValues(status).Inc()
	CompletionDuration.Observe(durationSec)
}

// RecordToolCall records a sales agent tool invocation
func RecordToolCall(tool, status string) {
	ToolCallsTotal.WithLabelValues(tool, status).Inc()
}

// RecordOrder records an order creation attempt
func RecordOrder(status string) {
	OrdersTotal.WithLabelValues(status).Inc()
}
