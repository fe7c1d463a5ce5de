package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Forecast sources.
const (
	SourceModel      = "model"
	SourceFallback   = "fallback"
	SourceModelError = "model_error"
)

// Approval outcomes.
const (
	ApprovalApproved = "approved"
	ApprovalNotFound = "not_found"
	ApprovalConflict = "conflict"
	ApprovalError    = "error"
)

// Metrics holds the engine's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	forecastRequests *prometheus.CounterVec
	approvals        *prometheus.CounterVec
	modelsLoaded     prometheus.Gauge
	httpDuration     *prometheus.HistogramVec
}

// New builds the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		forecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forecast_requests_total",
			Help: "Forecast requests by series source.",
		}, []string{"source"}),
		approvals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transfer_approvals_total",
			Help: "Transfer approval attempts by outcome.",
		}, []string{"outcome"}),
		modelsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "forecast_models_loaded",
			Help: "Trained forecast models currently published.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route", "status"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.forecastRequests,
		m.approvals,
		m.modelsLoaded,
		m.httpDuration,
	)

	return m
}

func (m *Metrics) ObserveForecast(source string) {
	if m == nil {
		return
	}
	m.forecastRequests.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveApproval(outcome string) {
	if m == nil {
		return
	}
	m.approvals.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetModelsLoaded(n int) {
	if m == nil {
		return
	}
	m.modelsLoaded.Set(float64(n))
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
