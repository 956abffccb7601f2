// Package api defines the core types of the brandsmith generation gateway.
//
// This package provides the data model shared by every layer: asset types,
// generation requests, briefs, attempts, quality verdicts, generation
// results, the pipeline state machine, error types, request validation and
// ID generation.
//
// The package performs no I/O. All types produce the JSON wire format used
// by the HTTP surface.
//
// Core types:
//   - [GenerationRequest]: Client request for a branded asset
//   - [Brief]: Enhanced (or passthrough) prompt sent to the provider
//   - [QualityVerdict]: Structured judgment of a generated artifact
//   - [GenerationResult]: Terminal output with provenance metadata
//   - [APIError]: Structured error with type, code, param, message and hint
package api
