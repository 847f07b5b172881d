package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/optilens/backoffice/pkg/logger"
)

// RequestLog assigns each request an ID and logs method, path, status and
// duration on completion.
type RequestLog struct {
	log *logger.Logger
}

// NewRequestLog builds the middleware.
func NewRequestLog(log *logger.Logger) *RequestLog {
	if log == nil {
		log = logger.NewDefault("http")
	}
	return &RequestLog{log: log}
}

// Handler wraps next with request logging. An incoming X-Request-ID header is
// honoured so upstream proxies can correlate.
func (m *RequestLog) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rw, r)

		m.log.WithField("request_id", requestID).
			WithField("method", r.Method).
			WithField("path", r.URL.Path).
			WithField("status", rw.status).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			Info("request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
