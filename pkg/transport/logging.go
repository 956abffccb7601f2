package transport

import (
	"context"
	"log/slog"
	"time"

	"github.com/rhuss/brandsmith/pkg/api"
)

// Logging returns middleware that emits one structured log entry per call
// with the request ID, operation, asset label, duration and outcome.
// Failures are logged at warn level for client-side error types and at
// error level otherwise.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, call *Call) (*api.GenerationResult, error) {
			start := time.Now()

			result, err := next.Handle(ctx, call)

			attrs := []slog.Attr{
				slog.String("request_id", RequestIDFromContext(ctx)),
				slog.String("op", string(call.Op)),
				slog.String("asset", call.Label()),
				slog.Duration("duration", time.Since(start)),
			}

			if err != nil {
				kind := api.KindOf(err)
				attrs = append(attrs,
					slog.String("error_type", string(kind)),
					slog.String("error", err.Error()))
				level := slog.LevelError
				switch kind {
				case api.ErrorTypeInvalidRequest, api.ErrorTypeNotConfigured,
					api.ErrorTypeQuotaExceeded, api.ErrorTypeCancelled:
					level = slog.LevelWarn
				}
				logger.LogAttrs(ctx, level, "request failed", attrs...)
				return nil, err
			}

			if result != nil {
				attrs = append(attrs,
					slog.String("id", result.ID),
					slog.Int("attempts", result.Attempts),
					slog.Int("regenerations", result.RegenerationCount))
			}
			logger.LogAttrs(ctx, slog.LevelInfo, "request completed", attrs...)
			return result, nil
		})
	}
}
