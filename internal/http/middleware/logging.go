package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/valet/pkg/log"
)

// Logging кладёт request-scoped логгер (request_id, method, path) в контекст
// и пишет итоговую запись msg="http": Info для 2xx/3xx, Warn для 4xx, Error для 5xx.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := l.With(
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			if rid := r.Header.Get(HeaderRequestID); rid != "" {
				reqLogger = reqLogger.With(slog.String("request_id", rid))
			}
			r = r.WithContext(log.Into(r.Context(), reqLogger))

			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			if sw.status == 0 {
				sw.status = http.StatusOK
			}

			reqLogger.LogAttrs(r.Context(), levelFor(sw.status), "http",
				slog.Int("status", sw.status),
				slog.Duration("dur", time.Since(start)),
				slog.Int("bytes", sw.count),
			)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
