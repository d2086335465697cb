package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Store metrics
	StoreOperationsTotal   *prometheus.CounterVec
	StoreOperationDuration *prometheus.HistogramVec

	// Auth metrics
	LoginAttemptsTotal      *prometheus.CounterVec
	TokenVerificationsTotal *prometheus.CounterVec
	PasswordResetsTotal     *prometheus.CounterVec

	// Upload metrics
	UploadsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics on a private
// registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "openshelf_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "openshelf_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		StoreOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "openshelf_store_operations_total",
				Help: "Total number of document store operations",
			},
			[]string{"collection", "operation", "status"},
		),
		StoreOperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "openshelf_store_operation_duration_seconds",
				Help:    "Document store operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"collection", "operation"},
		),
		LoginAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "openshelf_login_attempts_total",
				Help: "Total number of login attempts",
			},
			[]string{"status"},
		),
		TokenVerificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "openshelf_token_verifications_total",
				Help: "Total number of bearer token verifications",
			},
			[]string{"status"},
		),
		PasswordResetsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "openshelf_password_resets_total",
				Help: "Total number of password reset operations",
			},
			[]string{"step", "status"},
		),
		UploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "openshelf_uploads_total",
				Help: "Total number of image uploads",
			},
			[]string{"backend", "status"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.StoreOperationsTotal,
		m.StoreOperationDuration,
		m.LoginAttemptsTotal,
		m.TokenVerificationsTotal,
		m.PasswordResetsTotal,
		m.UploadsTotal,
	)

	return m
}

// Handler returns the HTTP handler exposing the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records a completed HTTP request
func (m *Metrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveStoreOperation records a document store operation
func (m *Metrics) ObserveStoreOperation(collection, operation string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.StoreOperationsTotal.WithLabelValues(collection, operation, status).Inc()
	m.StoreOperationDuration.WithLabelValues(collection, operation).Observe(duration.Seconds())
}

// MetricsMiddleware instruments HTTP handlers. The path label uses the
// mux route template where available to bound cardinality.
func (m *Metrics) MetricsMiddleware(routePath func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)
			path := r.URL.Path
			if routePath != nil {
				if p := routePath(r); p != "" {
					path = p
				}
			}
			m.ObserveRequest(r.Method, path, rw.status, time.Since(start))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}
