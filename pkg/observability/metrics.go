// Package observability provides Prometheus metrics and OpenTelemetry
// tracing for the server runtime.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string

	// MetricsPath is the HTTP path for the scrape endpoint (default /metrics).
	MetricsPath string
	// MetricsPort is the port for the scrape server (default 9090).
	MetricsPort int

	// Namespace is the Prometheus namespace (default mcp).
	Namespace string
	// HistogramBuckets override the latency buckets, in milliseconds.
	HistogramBuckets []float64

	ConstLabels prometheus.Labels
}

// MetricsProvider records the server-side events the dispatcher emits.
// A nil *Metrics is a valid provider that records nothing, so callers
// never have to nil-check at the call site.
type MetricsProvider interface {
	RecordRequest(method, status string, duration time.Duration)
	RecordNotification(method string)
	RecordInFlight(delta int)
	RecordAbandoned(method string)
	RecordToolCall(tool, status string, duration time.Duration)
	RecordError(code, method string)

	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Metrics implements MetricsProvider on Prometheus collectors.
type Metrics struct {
	config MetricsConfig
	server *http.Server

	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	notificationTotal *prometheus.CounterVec
	inFlight          prometheus.Gauge
	abandonedTotal    *prometheus.CounterVec
	toolCallDuration  *prometheus.HistogramVec
	errorTotal        *prometheus.CounterVec
}

var _ MetricsProvider = (*Metrics)(nil)

// NewMetrics creates and registers the server metric collectors.
func NewMetrics(config MetricsConfig) (*Metrics, error) {
	if config.Namespace == "" {
		config.Namespace = "mcp"
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}
	if config.MetricsPort == 0 {
		config.MetricsPort = 9090
	}
	if config.HistogramBuckets == nil {
		config.HistogramBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}
	}

	if config.ConstLabels == nil {
		config.ConstLabels = prometheus.Labels{}
	}
	if config.ServiceName != "" {
		config.ConstLabels["service"] = config.ServiceName
	}
	if config.ServiceVersion != "" {
		config.ConstLabels["version"] = config.ServiceVersion
	}
	if config.Environment != "" {
		config.ConstLabels["environment"] = config.Environment
	}

	m := &Metrics{config: config}

	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "request_duration_milliseconds",
			Help:        "Duration of handled requests in milliseconds",
			Buckets:     config.HistogramBuckets,
			ConstLabels: config.ConstLabels,
		},
		[]string{"method", "status"},
	)

	m.requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "request_total",
			Help:        "Total number of handled requests",
			ConstLabels: config.ConstLabels,
		},
		[]string{"method", "status"},
	)

	m.notificationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "notification_total",
			Help:        "Total number of received notifications",
			ConstLabels: config.ConstLabels,
		},
		[]string{"method"},
	)

	m.inFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "requests_in_flight",
			Help:        "Number of requests currently being handled",
			ConstLabels: config.ConstLabels,
		},
	)

	m.abandonedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "abandoned_request_total",
			Help:        "Requests abandoned because shutdown exceeded the grace period",
			ConstLabels: config.ConstLabels,
		},
		[]string{"method"},
	)

	m.toolCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "tool_call_duration_milliseconds",
			Help:        "Duration of tool handler executions in milliseconds",
			Buckets:     config.HistogramBuckets,
			ConstLabels: config.ConstLabels,
		},
		[]string{"tool", "status"},
	)

	m.errorTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "error_total",
			Help:        "Total number of error responses by code",
			ConstLabels: config.ConstLabels,
		},
		[]string{"code", "method"},
	)

	collectors := []prometheus.Collector{
		m.requestDuration,
		m.requestTotal,
		m.notificationTotal,
		m.inFlight,
		m.abandonedTotal,
		m.toolCallDuration,
		m.errorTotal,
	}
	for _, c := range collectors {
		if err := prometheus.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, fmt.Errorf("failed to register collector: %w", err)
			}
		}
	}

	return m, nil
}

// RecordRequest records one completed request.
func (m *Metrics) RecordRequest(method, status string, duration time.Duration) {
	if m == nil {
		return
	}
	ms := float64(duration.Milliseconds())
	m.requestDuration.WithLabelValues(method, status).Observe(ms)
	m.requestTotal.WithLabelValues(method, status).Inc()
}

// RecordNotification records one received notification.
func (m *Metrics) RecordNotification(method string) {
	if m == nil {
		return
	}
	m.notificationTotal.WithLabelValues(method).Inc()
}

// RecordInFlight adjusts the in-flight request gauge.
func (m *Metrics) RecordInFlight(delta int) {
	if m == nil {
		return
	}
	m.inFlight.Add(float64(delta))
}

// RecordAbandoned records a request whose handler outlived the shutdown
// grace period.
func (m *Metrics) RecordAbandoned(method string) {
	if m == nil {
		return
	}
	m.abandonedTotal.WithLabelValues(method).Inc()
}

// RecordToolCall records one tool handler execution.
func (m *Metrics) RecordToolCall(tool, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.toolCallDuration.WithLabelValues(tool, status).Observe(float64(duration.Milliseconds()))
}

// RecordError records one error response by wire code.
func (m *Metrics) RecordError(code, method string) {
	if m == nil {
		return
	}
	m.errorTotal.WithLabelValues(code, method).Inc()
}

// Start exposes the scrape endpoint on the configured port.
func (m *Metrics) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle(m.config.MetricsPath, promhttp.Handler())

	m.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", m.config.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		_ = m.server.ListenAndServe()
	}()
	return nil
}

// Shutdown stops the scrape server.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil || m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}
