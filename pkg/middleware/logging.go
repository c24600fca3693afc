package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogging logs one structured line per request: method, path, status,
// duration and the organization when the route is org-scoped.
func RequestLogging(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			fields := logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      recorder.status,
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if orgID := mux.Vars(r)["org_id"]; orgID != "" {
				fields["org_id"] = orgID
			}

			entry := logger.WithFields(fields)
			if recorder.status >= http.StatusInternalServerError {
				entry.Error("request failed")
			} else {
				entry.Info("request completed")
			}
		})
	}
}
