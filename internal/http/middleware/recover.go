package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	apierrors "github.com/pribylovaa/valet/internal/errors"
	"github.com/pribylovaa/valet/pkg/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Recover перехватывает panic и отвечает 500/internal. Детали паники не уходят клиенту.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.From(r.Context()).LogAttrs(r.Context(), slog.LevelError, "panic recovered",
						slog.String("path", r.URL.Path),
						slog.Any("panic", rec),
						slog.String("stack", string(debug.Stack())),
					)
					apierrors.WriteError(w, r, status.Error(codes.Internal, "internal"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
