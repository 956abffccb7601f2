package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	oai "github.com/openai/openai-go"

	"github.com/rhuss/brandsmith/pkg/api"
)

// quotaCodes are backend error codes that signal billing or rate limits.
var quotaCodes = map[string]bool{
	"insufficient_quota":          true,
	"billing_hard_limit_reached":  true,
	"billing_not_active":          true,
	"rate_limit_exceeded":         true,
	"tokens_exceeded":             true,
	"requests_per_minute_limited": true,
}

// mapError converts an SDK error into an *api.APIError. Billing and rate
// limit failures become quota_exceeded; every other backend or network
// failure becomes provider_error. The call is reported as cancelled only
// when the caller's ctx is done; the provider's own request timeout is a
// provider_error with code "timeout".
func mapError(ctx context.Context, err error) *api.APIError {
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return api.NewCancelledError(fmt.Sprintf("backend call aborted: %s", ctx.Err().Error()))
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return api.NewProviderError("timeout", fmt.Sprintf("backend did not respond in time: %s", err.Error()))
	}
	if errors.Is(err, context.Canceled) {
		return api.NewCancelledError(fmt.Sprintf("backend call aborted: %s", err.Error()))
	}

	var apiErr *oai.Error
	if !errors.As(err, &apiErr) {
		return api.NewProviderError("connection_error",
			fmt.Sprintf("backend connection error: %s", err.Error()))
	}

	message := apiErr.Message
	code := apiErr.Code
	if code == "" {
		code = apiErr.Type
	}

	switch {
	case quotaCodes[apiErr.Code] || quotaCodes[apiErr.Type]:
		if message == "" {
			message = "backend quota exceeded"
		}
		return api.NewQuotaExceededError(code, message)

	case apiErr.StatusCode == http.StatusPaymentRequired || apiErr.StatusCode == http.StatusTooManyRequests:
		if message == "" {
			message = "backend rate limit exceeded"
		}
		return api.NewQuotaExceededError(code, message)

	case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
		if message == "" {
			message = "backend authentication failed"
		}
		e := api.NewProviderError("invalid_api_key", message)
		e.Hint = "check the configured generation API key"
		return e

	case apiErr.StatusCode >= http.StatusInternalServerError:
		if message == "" {
			message = fmt.Sprintf("backend server error (HTTP %d)", apiErr.StatusCode)
		}
		return api.NewProviderError(code, message)

	default:
		if message == "" {
			message = fmt.Sprintf("unexpected backend error (HTTP %d)", apiErr.StatusCode)
		}
		return api.NewProviderError(code, message)
	}
}
