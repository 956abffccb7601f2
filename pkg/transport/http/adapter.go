package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/rhuss/brandsmith/pkg/api"
	"github.com/rhuss/brandsmith/pkg/registry"
	"github.com/rhuss/brandsmith/pkg/secrets"
	"github.com/rhuss/brandsmith/pkg/transport"
)

// Adapter serves the brandsmith generation API over HTTP.
// It routes requests to the middleware-wrapped generator and serializes
// results.
type Adapter struct {
	generator transport.Generator
	handler   transport.Handler
	secrets   secrets.Store // nil when runtime secret updates are disabled
	inflight  *transport.InFlightRegistry
	mux       *http.ServeMux
	config    Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	MaxBodySize int64

	// RequestTimeout bounds each generation request. Zero means no limit
	// beyond the client connection.
	RequestTimeout time.Duration
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize:    1 << 20, // 1 MB
		RequestTimeout: 5 * time.Minute,
	}
}

// generationResponse is the success envelope for generation endpoints.
type generationResponse struct {
	Success bool `json:"success"`
	*api.GenerationResult
}

// capabilitiesResponse is the success envelope for GET /v1/capabilities.
type capabilitiesResponse struct {
	Success bool `json:"success"`
	registry.Availability
}

// NewAdapter creates an HTTP adapter for the given generator. The secret
// store is optional; when nil the PUT /v1/secrets/{name} route is not
// registered. Middleware wraps every generation call in the given order.
func NewAdapter(gen transport.Generator, store secrets.Store, cfg Config, middlewares ...transport.Middleware) *Adapter {
	handler := transport.Dispatch(gen)
	if len(middlewares) > 0 {
		handler = transport.Chain(middlewares...)(handler)
	}

	a := &Adapter{
		generator: gen,
		handler:   handler,
		secrets:   store,
		inflight:  transport.NewInFlightRegistry(),
		mux:       http.NewServeMux(),
		config:    cfg,
	}

	a.mux.HandleFunc("POST /v1/assets", a.handleAsset)
	a.mux.HandleFunc("POST /v1/text", a.handleText)
	a.mux.HandleFunc("POST /v1/images", a.handleImage)
	a.mux.HandleFunc("GET /v1/capabilities", a.handleCapabilities)
	a.mux.HandleFunc("DELETE /v1/generations/{id}", a.handleCancel)
	if store != nil {
		a.mux.HandleFunc("PUT /v1/secrets/{name}", a.handlePutSecret)
	}

	return a
}

// Handler returns the http.Handler for this adapter. Use this to integrate
// with an http.Server or test with httptest. The returned handler includes
// HTTP-level middleware for request ID propagation.
func (a *Adapter) Handler() http.Handler {
	return httpRequestIDMiddleware(a.mux)
}

// httpRequestIDMiddleware takes the X-Request-ID header or generates a new
// ID, stores it in the request context and echoes it in the response.
func httpRequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if id == "" {
			id = transport.NewRequestID()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(transport.ContextWithRequestID(r.Context(), id)))
	})
}

// handleAsset handles POST /v1/assets.
func (a *Adapter) handleAsset(w http.ResponseWriter, r *http.Request) {
	var req api.GenerationRequest
	if !a.decode(w, r, &req) {
		return
	}
	a.serve(w, r, &transport.Call{Op: transport.OpAsset, Asset: &req})
}

// handleText handles POST /v1/text.
func (a *Adapter) handleText(w http.ResponseWriter, r *http.Request) {
	var req api.TextGenerationRequest
	if !a.decode(w, r, &req) {
		return
	}
	a.serve(w, r, &transport.Call{Op: transport.OpText, Text: &req})
}

// handleImage handles POST /v1/images.
func (a *Adapter) handleImage(w http.ResponseWriter, r *http.Request) {
	var req api.ImageGenerationRequest
	if !a.decode(w, r, &req) {
		return
	}
	a.serve(w, r, &transport.Call{Op: transport.OpImage, Image: &req})
}

// serve runs call under a cancellable context registered by request ID so
// that DELETE /v1/generations/{id} can stop it.
func (a *Adapter) serve(w http.ResponseWriter, r *http.Request, call *transport.Call) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	if a.config.RequestTimeout > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, a.config.RequestTimeout)
		defer timeoutCancel()
	}

	id := transport.RequestIDFromContext(ctx)
	if id != "" && a.inflight.Register(id, cancel) {
		defer a.inflight.Remove(id)
	}

	result, err := a.handler.Handle(ctx, call)
	if err != nil {
		transport.WriteAPIError(w, err)
		return
	}
	if result == nil {
		transport.WriteAPIError(w, api.NewServerError("generator returned no result"))
		return
	}

	writeJSON(w, http.StatusOK, generationResponse{Success: true, GenerationResult: result})
}

// handleCapabilities handles GET /v1/capabilities.
func (a *Adapter) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	avail := a.generator.Capabilities(r.Context())
	writeJSON(w, http.StatusOK, capabilitiesResponse{Success: true, Availability: avail})
}

// handleCancel handles DELETE /v1/generations/{id}, where id is the
// request ID of an in-flight generation.
func (a *Adapter) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if a.inflight.Cancel(id) {
		slog.Info("generation cancelled", "request_id", id)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	transport.WriteAPIError(w, api.NewNotFoundError(fmt.Sprintf("no in-flight generation %q", id)))
}

// handlePutSecret handles PUT /v1/secrets/{name}.
func (a *Adapter) handlePutSecret(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := secrets.ValidateName(name); err != nil {
		transport.WriteAPIError(w, api.NewInvalidRequestError("name", err.Error()))
		return
	}

	var body struct {
		Value *string `json:"value"`
	}
	if !a.decode(w, r, &body) {
		return
	}
	if body.Value == nil || strings.TrimSpace(*body.Value) == "" {
		transport.WriteAPIError(w, api.NewInvalidRequestError("value", "value is required"))
		return
	}

	if err := a.secrets.Set(r.Context(), name, *body.Value); err != nil {
		slog.Error("secret update failed", "name", name, "error", err.Error())
		transport.WriteAPIError(w, api.NewServerError("failed to store secret"))
		return
	}

	slog.Info("secret updated", "name", name,
		"request_id", transport.RequestIDFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// decode reads a JSON body into v, writing an error response and
// returning false on failure.
func (a *Adapter) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			transport.WriteErrorResponse(w,
				api.NewInvalidRequestError("content_type", "Content-Type must be application/json"),
				http.StatusUnsupportedMediaType,
			)
			return false
		}
	}

	if a.config.MaxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)
	}

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteErrorResponse(w,
				api.NewInvalidRequestError("body", fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize)),
				http.StatusRequestEntityTooLarge,
			)
			return false
		}
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("body", "invalid JSON: "+err.Error()),
			http.StatusBadRequest,
		)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
