package middleware

import (
	"net/http"
	"time"

	"github.com/tair/reclaimed-storefront/pkg/logger"
)

// statusRecorder captures the status code and body size written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// Logging logs request start and completion with status and duration
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-Id")

		logger.Debug(r.Context()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Str("user_agent", r.UserAgent()).
			Str("request_id", requestID).
			Msg("Request started")

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		duration := time.Since(start)

		event := logger.Info(r.Context())
		if rec.status >= 500 {
			event = logger.Error(r.Context())
		} else if rec.status >= 400 {
			event = logger.Warn(r.Context())
		}

		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", duration).
			Int64("duration_ms", duration.Milliseconds()).
			Int("response_size", rec.size).
			Str("request_id", requestID).
			Msg("Request completed")
	})
}
