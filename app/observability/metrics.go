package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is implemented by the Prometheus recorder and the no-op recorder.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, d time.Duration)
	RecordEventHandled(ctx context.Context, topic string, success bool)
	RecordHTTPRequest(ctx context.Context, method, route string, status int, d time.Duration)
}

// PrometheusMetrics records to a Prometheus registry.
type PrometheusMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	events    *prometheus.CounterVec
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the ghostlog collectors with reg.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ghostlog",
			Name:      "operation_attempts_total",
			Help:      "Store operations started.",
		}, []string{"operation", "service"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ghostlog",
			Name:      "operation_success_total",
			Help:      "Store operations that succeeded.",
		}, []string{"operation", "service"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ghostlog",
			Name:      "operation_failures_total",
			Help:      "Store operations that returned an error.",
		}, []string{"operation", "service"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ghostlog",
			Name:      "operation_duration_seconds",
			Help:      "Store operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "service"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ghostlog",
			Name:      "events_handled_total",
			Help:      "Change events consumed from the event bus.",
		}, []string{"topic", "result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ghostlog",
			Name:      "http_requests_total",
			Help:      "HTTP API requests by route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ghostlog",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP API latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	for _, c := range []prometheus.Collector{
		m.attempts, m.successes, m.failures, m.duration, m.events, m.requests, m.latency,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	m.duration.WithLabelValues(operation, service).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordEventHandled(_ context.Context, topic string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	m.events.WithLabelValues(topic, result).Inc()
}

func (m *PrometheusMetrics) RecordHTTPRequest(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

// NoOpMetrics discards all measurements.
type NoOpMetrics struct{}

// NewNoOpMetrics returns a Metrics that does nothing.
func NewNoOpMetrics() *NoOpMetrics { return &NoOpMetrics{} }

func (*NoOpMetrics) RecordOperationAttempt(context.Context, string, string)                 {}
func (*NoOpMetrics) RecordOperationSuccess(context.Context, string, string)                 {}
func (*NoOpMetrics) RecordOperationFailure(context.Context, string, string)                 {}
func (*NoOpMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (*NoOpMetrics) RecordEventHandled(context.Context, string, bool)                       {}
func (*NoOpMetrics) RecordHTTPRequest(context.Context, string, string, int, time.Duration)  {}
