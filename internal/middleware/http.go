package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mmynk/splitledger/internal/metrics"
)

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging logs all incoming HTTP requests.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// RouteMetrics returns a gorilla/mux middleware that records each request
// under the matched route's name.
func RouteMetrics(rec *metrics.Recorder) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sr, r)

			operation := "unknown"
			if route := mux.CurrentRoute(r); route != nil && route.GetName() != "" {
				operation = route.GetName()
			}
			rec.Record(operation, resultForStatus(sr.status), time.Since(start))
		})
	}
}

func resultForStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return metrics.ResultNotFound
	case status == http.StatusBadRequest:
		return metrics.ResultInvalid
	case status >= 400:
		return metrics.ResultError
	default:
		return metrics.ResultOK
	}
}
