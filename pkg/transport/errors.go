package transport

import (
	"encoding/json"
	"net/http"

	"github.com/rhuss/brandsmith/pkg/api"
)

// StatusClientClosedRequest is the non-standard status used when the
// client cancelled the request before it completed.
const StatusClientClosedRequest = 499

// HTTPStatusFromError maps an APIError type to the corresponding HTTP status
// code. Transport-level errors (body too large, unsupported content type)
// are handled separately by the HTTP adapter.
func HTTPStatusFromError(err *api.APIError) int {
	switch err.Type {
	case api.ErrorTypeNotConfigured:
		return http.StatusServiceUnavailable
	case api.ErrorTypeQuotaExceeded:
		return http.StatusPaymentRequired
	case api.ErrorTypeProviderError:
		return http.StatusBadGateway
	case api.ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case api.ErrorTypeNotFound:
		return http.StatusNotFound
	case api.ErrorTypeCancelled:
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorResponse writes a JSON error envelope
// {"success": false, "error": {...}} with the given status code.
func WriteErrorResponse(w http.ResponseWriter, apiErr *api.APIError, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(api.ErrorResponse{Success: false, Error: apiErr})
}

// WriteAPIError writes an error response, deriving the HTTP status code
// from the error type. Errors that are not APIErrors are reported as
// server errors, or as cancelled for context errors.
func WriteAPIError(w http.ResponseWriter, err error) {
	apiErr := api.AsAPIError(err)
	WriteErrorResponse(w, apiErr, HTTPStatusFromError(apiErr))
}
