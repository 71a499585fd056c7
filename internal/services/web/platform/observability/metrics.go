package observability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "teamdesk"
	subsystem = "web"
)

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

// unmatchedRoute labels requests no route pattern claimed.
const unmatchedRoute = "unmatched"

// Metrics records HTTP and tenant API metrics on a dedicated registry.
type Metrics struct {
	registry       *prometheus.Registry
	requestTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	apiCalls       *prometheus.CounterVec
	apiLatency     *prometheus.HistogramVec
}

// NewMetrics builds a metrics set registered on registry. A nil registry gets
// a fresh one with the Go and process collectors.
func NewMetrics(registry *prometheus.Registry) (*Metrics, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m := &Metrics{
		registry: registry,
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		apiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tenant_api_calls_total",
			Help:      "Count of tenant API calls by operation and outcome",
		}, []string{"operation", "outcome"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tenant_api_call_duration_seconds",
			Help:      "Latency distribution of tenant API calls",
			Buckets:   histogramBuckets,
		}, []string{"operation"}),
	}

	if err := register(registry, &m.requestTotal); err != nil {
		return nil, err
	}
	if err := register(registry, &m.requestLatency); err != nil {
		return nil, err
	}
	if err := register(registry, &m.apiCalls); err != nil {
		return nil, err
	}
	if err := register(registry, &m.apiLatency); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds collector to registry, adopting an identical collector that
// is already registered.
func register[T prometheus.Collector](registry *prometheus.Registry, collector *T) error {
	err := registry.Register(*collector)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			*collector = existing
			return nil
		}
	}
	return err
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts and latency labelled by route pattern.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			route := r.Pattern
			if route == "" {
				route = unmatchedRoute
			}
			labels := prometheus.Labels{
				"method": r.Method,
				"route":  route,
				"status": strconv.Itoa(rec.statusCode()),
			}
			m.requestTotal.With(labels).Inc()
			m.requestLatency.With(labels).Observe(time.Since(started).Seconds())
		})
	}
}

// ObserveCall records one tenant API call.
func (m *Metrics) ObserveCall(operation string, outcome string, elapsed time.Duration) {
	m.apiCalls.With(prometheus.Labels{"operation": operation, "outcome": outcome}).Inc()
	m.apiLatency.With(prometheus.Labels{"operation": operation}).Observe(elapsed.Seconds())
}
