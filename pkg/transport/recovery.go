package transport

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rhuss/brandsmith/pkg/api"
)

// Recovery returns middleware that catches panics in the handler and
// converts them to server errors. The server continues to accept new
// requests after a panic is recovered.
func Recovery() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, call *Call) (result *api.GenerationResult, retErr error) {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("panic in generation handler",
						"request_id", RequestIDFromContext(ctx),
						"op", string(call.Op),
						"panic", fmt.Sprint(r))
					result = nil
					retErr = api.NewServerError(fmt.Sprintf("internal server error: %v", r))
				}
			}()
			return next.Handle(ctx, call)
		})
	}
}
