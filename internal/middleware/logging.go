package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medirec/medirec-backend/pkg/clientip"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs one line per request with a generated request id.
func RequestLogger(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			requestID := uuid.NewString()
			w.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(sw, r)

			log.Infow("http request",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"ip", clientip.RealClientIP(r),
				"status", sw.status,
				"latency", time.Since(start),
			)
		})
	}
}
