package interceptors

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/valet/pkg/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// RequestIDKey — ключ metadata для сквозного идентификатора запроса.
const RequestIDKey = "x-request-id"

// UnaryLoggingInterceptor логирует unary-вызовы и кладёт обогащённый логгер в контекст.
//
// request_id берётся из metadata x-request-id (иначе генерируется UUID) и
// возвращается клиенту в заголовке ответа. Итоговая запись msg="grpc" с code и dur:
// Info для OK, Warn для ошибок клиента, Error для серверных кодов.
func UnaryLoggingInterceptor(base *slog.Logger) grpc.UnaryServerInterceptor {
	if base == nil {
		base = slog.Default()
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		var rid string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get(RequestIDKey); len(v) > 0 && v[0] != "" {
				rid = v[0]
			}
		}
		if rid == "" {
			rid = uuid.NewString()
		}

		// Вне реального сервера (unit-тесты) SetHeader вернёт ошибку — это не критично.
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDKey, rid))

		peerStr := "-"
		if p, ok := peer.FromContext(ctx); ok && p != nil && p.Addr != nil {
			peerStr = p.Addr.String()
		}

		l := base.With(
			slog.String("request_id", rid),
			slog.String("method", info.FullMethod),
			slog.String("peer", peerStr),
		)
		ctx = log.Into(ctx, l)

		resp, err := handler(ctx, req)

		code := status.Code(err)
		l.Log(ctx, levelFor(code), "grpc",
			slog.String("code", code.String()),
			slog.Duration("dur", time.Since(start)),
		)

		return resp, err
	}
}

func levelFor(code codes.Code) slog.Level {
	switch code {
	case codes.OK:
		return slog.LevelInfo
	case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable, codes.Unimplemented:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
