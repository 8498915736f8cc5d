package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsNamespace = "coverage_calculator"

	endpointLabel = "endpoint"
	statusLabel   = "status"
)

// serverMetrics owns its registry so several handlers can coexist in one process.
type serverMetrics struct {
	registry        *prometheus.Registry
	calculations    prometheus.Counter
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func newServerMetrics() *serverMetrics {
	m := &serverMetrics{
		registry: prometheus.NewRegistry(),
		calculations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "calculations_total",
			Help:      "number of coverage calculations performed",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "number of API requests by endpoint and status code",
		}, []string{endpointLabel, statusLabel}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{endpointLabel}),
	}
	m.registry.MustRegister(m.calculations, m.requestsTotal, m.requestDuration)
	return m
}

func (m *serverMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument records request count and latency for one endpoint.
func (m *serverMetrics) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		m.requestsTotal.WithLabelValues(endpoint, strconv.Itoa(rec.status)).Inc()
		m.requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}
