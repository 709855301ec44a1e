package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/meetscribe/logger"
)

var quietPaths = map[string]bool{
	"/health": true,
	"/info":   true,
}

// RequestLogger returns middleware that logs every request with method,
// path, status code and duration. Health and info paths are skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			fields := map[string]any{
				"method":              r.Method,
				logger.FieldPath:      r.URL.Path,
				logger.FieldStatus:    sw.status,
				logger.FieldDuration:  time.Since(start).Milliseconds(),
				logger.FieldRequestID: r.Header.Get(RequestIDHeader),
			}
			logByStatus(log, fields, sw.status)
		})
	}
}

func logByStatus(log *logger.Logger, fields map[string]any, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Info("Request completed", fields)
	}
}
