package interceptors

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/pribylovaa/valet/pkg/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Recover перехватывает паники в обработчиках, логирует метод и стек
// и отвечает клиенту нейтральной ошибкой codes.Internal.
// Логгер берётся из контекста, если его туда положил UnaryLoggingInterceptor.
func Recover(base *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				l := log.From(ctx)
				if l == slog.Default() && base != nil {
					l = base
				}

				l.Error("panic recovered",
					slog.String("method", info.FullMethod),
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())),
				)

				resp, err = nil, status.Error(codes.Internal, "internal server error")
			}
		}()

		return handler(ctx, req)
	}
}
