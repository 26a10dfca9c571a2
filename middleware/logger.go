package middleware

import (
	"net/http"
	"time"

	"chordsync-go/stats"

	log "github.com/sirupsen/logrus"
)

// statusRecorder captures the response status for logging and stats.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs every request with method, path, status and
// duration, and feeds the status-code counters.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		stats.Get().RecordStatus(rec.status)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
			"remote":   r.RemoteAddr,
		}).Info("request completed")
	})
}
