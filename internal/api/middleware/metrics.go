// metrics.go — Prometheus HTTP metrics for the portal.
// Registers: hb_http_requests_total, hb_http_request_duration_seconds.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	// httpRequestsTotal — total number of HTTP requests.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hb_http_requests_total",
			Help: "Total number of HTTP requests to the portal",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — HTTP request duration histogram.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hb_http_request_duration_seconds",
			Help:    "HTTP request duration of the portal in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware returns an HTTP middleware collecting Prometheus
// metrics: request count and duration per endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Normalize the path for metric labels (replace ids with
			// {id} to keep cardinality bounded).
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// metricsResponseWriter — wrapper capturing the status code.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the original ResponseWriter.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// normalizePath replaces dynamic path segments with {id} so the metric
// label set stays bounded.
// /confirmation/a1b2c3d4-... → /confirmation/{id}
func normalizePath(path string) string {
	switch path {
	case "/", "/order", "/terms", "/privacy", "/language",
		"/health/live", "/health/ready", "/metrics",
		"/test", "/test/database", "/test/storage":
		return path
	}

	prefixes := []struct {
		prefix string
		result string
	}{
		{"/confirmation/", "/confirmation/{id}"},
	}
	for _, p := range prefixes {
		if strings.HasPrefix(path, p.prefix) && len(path) > len(p.prefix) {
			return p.result
		}
	}

	if strings.HasPrefix(path, "/static/") {
		return "/static/*"
	}

	return path
}
