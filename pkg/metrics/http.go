package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request count, latency histogram and latency percentiles per endpoint
type HTTPMetrics struct {
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
}

// NewHTTPMetrics registers the request metrics of one component on reg.
// Metric names are prefixed with namespace, e.g. storefront_products_requests_total.
func NewHTTPMetrics(reg prometheus.Registerer, namespace string) *HTTPMetrics {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: namespace + "_requests_total",
			Help: "Total number of requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    namespace + "_request_duration_seconds",
			Help:    "Duration of requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// client-side quantiles for p50, p90, p95, p99
	requestSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: namespace + "_request_duration_summary",
			Help: "Summary of request durations with percentiles",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.01,
				0.99: 0.001,
			},
			MaxAge: 10 * time.Minute,
		},
		[]string{"method", "endpoint"},
	)

	reg.MustRegister(requestCounter, requestLatency, requestSummary)

	return &HTTPMetrics{
		requestCounter: requestCounter,
		requestLatency: requestLatency,
		requestSummary: requestSummary,
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Wrap records metrics for next under the route template endpoint
func (m *HTTPMetrics) Wrap(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		m.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		m.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		m.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}
