package middleware

import (
	"errors"
	"net/http"

	"github.com/pribylovaa/valet/internal/auth"
	apierrors "github.com/pribylovaa/valet/internal/errors"
	"github.com/pribylovaa/valet/pkg/log"
	"github.com/pribylovaa/valet/pkg/redact"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Auth проверяет "Authorization: Bearer <jwt>" и кладёт владельца в контекст.
// Без валидного токена запрос дальше не идёт: 401/unauthenticated.
func Auth(v *auth.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			owner, err := v.VerifyHeader(header)
			if err != nil {
				log.From(r.Context()).Warn("unauthenticated", "authorization", redact.Bearer(header), "err", err)

				msg := "invalid token"
				switch {
				case errors.Is(err, auth.ErrMissingToken):
					msg = "missing bearer token"
				case errors.Is(err, auth.ErrTokenExpired):
					msg = "token expired"
				}
				apierrors.WriteError(w, r, status.Error(codes.Unauthenticated, msg))
				return
			}

			ctx, _ := log.With(auth.WithOwner(r.Context(), owner), "owner_id", owner.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
