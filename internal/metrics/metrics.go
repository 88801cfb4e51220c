// Package metrics exposes Prometheus collectors for the read model and its
// HTTP surface.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"billdash/internal/middleware/ratelimit"
)

// Outcome labels for read operations.
const (
	OutcomeSuccess    = "success"
	OutcomeNotFound   = "not_found"
	OutcomeValidation = "validation"
	OutcomeDatastore  = "datastore"
)

// Metrics groups the collectors registered by this service. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "billdash",
			Subsystem: "readmodel",
			Name:      "operations_total",
			Help:      "Read operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "billdash",
			Subsystem: "readmodel",
			Name:      "operation_duration_seconds",
			Help:      "Read operation latency including all datastore queries.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "billdash",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "billdash",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.operations,
		m.operationDuration,
		m.requests,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveOperation records one completed read operation.
func (m *Metrics) ObserveOperation(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// RateLimitStats is implemented by *ratelimit.Limiter.
type RateLimitStats interface {
	GetMetrics() ratelimit.Metrics
}

// RegisterRateLimiter exposes the limiter's rejection count and tracked
// client count, read at scrape time.
func (m *Metrics) RegisterRateLimiter(src RateLimitStats) error {
	if m == nil || src == nil {
		return nil
	}
	rejected := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "billdash",
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter.",
	}, func() float64 {
		return float64(src.GetMetrics().TotalHits)
	})
	clients := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "billdash",
		Subsystem: "http",
		Name:      "rate_limit_clients",
		Help:      "Clients currently tracked by the rate limiter.",
	}, func() float64 {
		return float64(src.GetMetrics().ClientCount)
	})
	for _, c := range []prometheus.Collector{rejected, clients} {
		if err := m.registry.Register(c); err != nil {
			return fmt.Errorf("register rate limit collector: %w", err)
		}
	}
	return nil
}

// Registry returns the registry backing these collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
