package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Analysis metrics
	ProfitComputations *prometheus.CounterVec
	BatchRowsProcessed *prometheus.CounterVec
	BatchDuration      prometheus.Histogram

	// History metrics
	HistoryOperations *prometheus.CounterVec

	// Sink metrics
	SinkCalls    *prometheus.CounterVec
	SinkDuration prometheus.Histogram
	SinkFailures *prometheus.CounterVec
}

// New registers the collectors on the default Prometheus registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors on reg. Tests pass a fresh
// prometheus.NewRegistry() so collectors never clash.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		ProfitComputations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profit_computations_total",
				Help: "Total number of profit reports computed",
			},
			[]string{"source", "ad_mode"},
		),

		BatchRowsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "batch_rows_processed_total",
				Help: "Total number of batch input rows processed",
			},
			[]string{"status"},
		),

		BatchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "batch_duration_seconds",
				Help:    "Batch analysis duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
		),

		HistoryOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "history_operations_total",
				Help: "Total number of history store operations",
			},
			[]string{"operation", "status"},
		),

		SinkCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_sink_calls_total",
				Help: "Total number of report sink calls",
			},
			[]string{"status"},
		),

		SinkDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "report_sink_duration_seconds",
				Help:    "Report sink call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		SinkFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_sink_failures_total",
				Help: "Total number of report sink failures",
			},
			[]string{"error_type"},
		),
	}
}

// HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// Profit computation, labelled by caller and whether ads were enabled
func (m *Metrics) RecordComputation(source string, adEnabled bool) {
	mode := "organic"
	if adEnabled {
		mode = "advertised"
	}
	m.ProfitComputations.WithLabelValues(source, mode).Inc()
}

func (m *Metrics) RecordBatchRows(status string, count int) {
	m.BatchRowsProcessed.WithLabelValues(status).Add(float64(count))
}

func (m *Metrics) RecordBatch(duration time.Duration) {
	m.BatchDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordHistoryOperation(operation, status string) {
	m.HistoryOperations.WithLabelValues(operation, status).Inc()
}

func (m *Metrics) RecordSinkCall(status string, duration time.Duration) {
	m.SinkCalls.WithLabelValues(status).Inc()
	m.SinkDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordSinkFailure(errorType string) {
	m.SinkFailures.WithLabelValues(errorType).Inc()
}

// HTTP requests in flight counter
func (m *Metrics) IncHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// HTTP requests in flight counter
func (m *Metrics) DecHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}
