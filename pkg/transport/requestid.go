package transport

import (
	"context"

	"github.com/google/uuid"

	"github.com/rhuss/brandsmith/pkg/api"
)

// RequestID returns middleware that assigns a unique request ID to each
// call. If the context already carries a request ID (set by the HTTP
// adapter from the X-Request-ID header), that value is used.
func RequestID() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, call *Call) (*api.GenerationResult, error) {
			if RequestIDFromContext(ctx) == "" {
				ctx = ContextWithRequestID(ctx, NewRequestID())
			}
			return next.Handle(ctx, call)
		})
	}
}

// NewRequestID returns a random UUID string.
func NewRequestID() string {
	return uuid.NewString()
}
