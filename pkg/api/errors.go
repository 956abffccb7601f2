package api

import (
	"context"
	"errors"
	"fmt"
)

// ErrorType represents the category of an API error.
type ErrorType string

const (
	// ErrorTypeNotConfigured means no credential is present for the needed
	// capability. Recoverable by configuration, never retried.
	ErrorTypeNotConfigured ErrorType = "not_configured"

	// ErrorTypeQuotaExceeded means the provider rejected the call for billing
	// or rate limit reasons. Not retried automatically.
	ErrorTypeQuotaExceeded ErrorType = "quota_exceeded"

	// ErrorTypeProviderError is a transient or unknown provider failure.
	ErrorTypeProviderError ErrorType = "provider_error"

	ErrorTypeInvalidRequest ErrorType = "invalid_request"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeServerError    ErrorType = "server_error"
	ErrorTypeCancelled      ErrorType = "cancelled"
)

// APIError represents a structured API error with type, code, param, and message.
type APIError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code,omitempty"`
	Param   string    `json:"param,omitempty"`
	Message string    `json:"message"`

	// Hint points the caller at a way to resolve the error.
	Hint string `json:"hint,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param: %s)", e.Type, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorResponse wraps an APIError for JSON serialization as the top-level error response.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// NewNotConfiguredError creates an APIError for a capability without credentials.
// secretName is the secret that has to be set to enable the capability.
func NewNotConfiguredError(capability, secretName string) *APIError {
	e := &APIError{
		Type:    ErrorTypeNotConfigured,
		Param:   capability,
		Message: fmt.Sprintf("%s generation is not configured", capability),
	}
	if secretName != "" {
		e.Hint = fmt.Sprintf("set the %s secret via PUT /v1/secrets/%s or the secrets.seed configuration", secretName, secretName)
	}
	return e
}

// NewQuotaExceededError creates an APIError for billing or rate limit failures.
func NewQuotaExceededError(code, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeQuotaExceeded,
		Code:    code,
		Message: message,
		Hint:    "check the provider plan and billing details",
	}
}

// NewProviderError creates an APIError for a failed generation call.
func NewProviderError(code, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeProviderError,
		Code:    code,
		Message: message,
	}
}

// NewInvalidRequestError creates an APIError for invalid request parameters.
func NewInvalidRequestError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Param:   param,
		Message: message,
	}
}

// NewNotFoundError creates an APIError for resources that cannot be found.
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewServerError creates an APIError for internal server errors.
func NewServerError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeServerError,
		Message: message,
	}
}

// NewCancelledError creates an APIError for requests aborted by the caller.
func NewCancelledError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeCancelled,
		Message: message,
	}
}

// AsAPIError converts any error into an *APIError. Context cancellation and
// deadline errors become cancelled errors; other non-API errors become
// server errors.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewCancelledError(err.Error())
	}
	return NewServerError(err.Error())
}

// KindOf returns the ErrorType carried by err, or the empty string for nil.
func KindOf(err error) ErrorType {
	if err == nil {
		return ""
	}
	return AsAPIError(err).Type
}

// IsNotConfigured reports whether err is a not_configured error.
func IsNotConfigured(err error) bool {
	return KindOf(err) == ErrorTypeNotConfigured
}

// IsQuotaExceeded reports whether err is a quota_exceeded error.
func IsQuotaExceeded(err error) bool {
	return KindOf(err) == ErrorTypeQuotaExceeded
}
