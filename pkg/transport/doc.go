// Package transport defines the generator contract and middleware chain for
// the brandsmith HTTP layer.
//
// The transport layer bridges external clients and the generation engine.
// It decodes incoming requests into the types defined in pkg/api,
// dispatches them as Calls through a middleware chain and serializes
// results back to the client as JSON.
//
// # Generator
//
// Generator is the contract between the transport layer and the engine. It
// covers the design asset pipeline, the plain text and image flows and the
// capability report. Dispatch adapts a Generator into a Handler so that
// every generation call goes through the same middleware chain.
//
// # Middleware
//
// Built-in middleware provides panic recovery, request ID assignment
// (X-Request-ID, generated with google/uuid) and structured logging via
// log/slog.
package transport
