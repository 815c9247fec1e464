package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/pribylovaa/valet/pkg/log"
	"github.com/pribylovaa/valet/pkg/redact"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// publicPrefixes — методы, не требующие токена.
var publicPrefixes = []string{
	"/grpc.health.v1.Health/",
	"/grpc.reflection.",
}

// UnaryServerInterceptor проверяет metadata "authorization: Bearer <jwt>"
// и кладёт владельца в контекст. Ошибки -> codes.Unauthenticated.
func UnaryServerInterceptor(v *Verifier) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		for _, p := range publicPrefixes {
			if strings.HasPrefix(info.FullMethod, p) {
				return handler(ctx, req)
			}
		}

		var header string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get("authorization"); len(vals) > 0 {
				header = vals[0]
			}
		}

		owner, err := v.VerifyHeader(header)
		if err != nil {
			log.From(ctx).Warn("unauthenticated",
				"method", info.FullMethod,
				"authorization", redact.Bearer(header),
				"err", err,
			)

			msg := "invalid token"
			switch {
			case errors.Is(err, ErrMissingToken):
				msg = "missing bearer token"
			case errors.Is(err, ErrTokenExpired):
				msg = "token expired"
			}

			return nil, status.Error(codes.Unauthenticated, msg)
		}

		ctx, _ = log.With(WithOwner(ctx, owner), "owner_id", owner.String())

		return handler(ctx, req)
	}
}
