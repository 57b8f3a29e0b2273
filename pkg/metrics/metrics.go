package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/getmockd/restmock/pkg/stateful"
)

// Namespace prefixes every metric name.
const Namespace = "restmock"

// DefaultBuckets are the request duration buckets in seconds.
var DefaultBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// Metrics holds the collectors of one server.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	rows       *prometheus.GaugeVec
	operations *prometheus.CounterVec
	errors     *prometheus.CounterVec

	routes prometheus.Gauge
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "requests_total",
				Help:      "Total number of mock requests",
			},
			[]string{"method", "route", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of mock requests in seconds",
				Buckets:   DefaultBuckets,
			},
			[]string{"method", "route"},
		),
		rows: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "rows",
				Help:      "Current number of rows per resource file",
			},
			[]string{"file"},
		),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "resource_operations_total",
				Help:      "Total number of successful resource operations",
			},
			[]string{"file", "operation"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "resource_errors_total",
				Help:      "Total number of failed resource operations",
			},
			[]string{"file", "operation", "code"},
		),
		routes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "routes",
				Help:      "Current number of served routes",
			},
		),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.rows,
		m.operations,
		m.errors,
		m.routes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one served request. route is the route template,
// not the request path, to keep the label set bounded.
func (m *Metrics) ObserveRequest(method, route string, code int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(method, route).Observe(d.Seconds())
}

// SetRoutes records the size of the route table.
func (m *Metrics) SetRoutes(n int) {
	m.routes.Set(float64(n))
}

// SetRows records the row count of a resource file.
func (m *Metrics) SetRows(file string, n int) {
	m.rows.WithLabelValues(file).Set(float64(n))
}

// ResetRows replaces every row count with counts, dropping unloaded files.
func (m *Metrics) ResetRows(counts map[string]int) {
	m.rows.Reset()
	for file, n := range counts {
		m.SetRows(file, n)
	}
}

// OnOperation implements stateful.Observer.
func (m *Metrics) OnOperation(resource string, op stateful.Operation, rows int, _ time.Duration) {
	m.operations.WithLabelValues(resource, string(op)).Inc()
	m.SetRows(resource, rows)
}

// OnError implements stateful.Observer.
func (m *Metrics) OnError(resource string, op stateful.Operation, err error) {
	code := http.StatusInternalServerError
	if sce, ok := err.(stateful.StatusCodeError); ok {
		code = sce.StatusCode()
	}
	m.errors.WithLabelValues(resource, string(op), strconv.Itoa(code)).Inc()
}

var _ stateful.Observer = (*Metrics)(nil)
