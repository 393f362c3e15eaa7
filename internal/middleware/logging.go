package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// with its procedure, caller, duration and error code.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []slog.Attr{
				slog.String("procedure", req.Spec().Procedure),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			if userID := GetUserID(ctx); userID != "" {
				attrs = append(attrs, slog.String("user_id", userID))
			}

			var connectErr *connect.Error
			switch {
			case err == nil:
				slog.LogAttrs(ctx, slog.LevelInfo, "RPC ok", attrs...)
			case errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal:
				attrs = append(attrs,
					slog.String("code", connectErr.Code().String()),
					slog.String("error", connectErr.Message()),
				)
				slog.LogAttrs(ctx, slog.LevelWarn, "RPC error", attrs...)
			default:
				attrs = append(attrs, slog.Any("error", err))
				slog.LogAttrs(ctx, slog.LevelError, "RPC error", attrs...)
			}
			return resp, err
		}
	}
}
