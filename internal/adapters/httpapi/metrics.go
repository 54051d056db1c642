package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mousetrack_http_requests_total",
			Help: "Total HTTP requests served.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mousetrack_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	photosStoredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mousetrack_photos_stored_total",
			Help: "Photos stored, by ear side.",
		},
		[]string{"side"},
	)

	archivesBuiltTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mousetrack_archives_built_total",
			Help: "Daily archives built for download or publication.",
		},
	)
)

// Metrics wraps a handler with request count and duration collection.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		wrapped := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses per-mouse and per-day segments so label
// cardinality stays bounded.
func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/v1/mice/"):
		rest := strings.Split(strings.TrimPrefix(path, "/api/v1/mice/"), "/")
		switch {
		case len(rest) >= 3 && rest[1] == "photos":
			return "/api/v1/mice/{id}/photos/{side}"
		case len(rest) == 2 && rest[1] == "photos":
			return "/api/v1/mice/{id}/photos"
		default:
			return "/api/v1/mice/{id}"
		}
	case strings.HasPrefix(path, "/api/v1/archives/"):
		return "/api/v1/archives/{date}"
	}
	return path
}

// statusWriter captures the response status for metric labels.
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
