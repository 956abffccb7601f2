package provider

import (
	"context"
)

// TextGenerator produces text from a prompt and an optional system prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, req *TextRequest) (*TextResponse, error)
}

// ImageGenerator produces an image reference from a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req *ImageRequest) (*ImageResponse, error)
}

// Provider abstracts a generation backend offering both capabilities.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Provider interface {
	TextGenerator
	ImageGenerator

	// Name returns the provider identifier (e.g., "openai").
	Name() string

	// Capabilities returns what this provider supports.
	Capabilities() Capabilities

	// Close releases provider resources (HTTP clients, connections).
	Close() error
}

// KeySource resolves the credential for a capability at call time.
// Providers consult it on every call so a credential set at runtime is
// used by the next call.
type KeySource interface {
	Credential(ctx context.Context, kind Kind) (string, error)
}

// StaticKey is a KeySource that always returns the same credential.
type StaticKey string

// Credential implements KeySource.
func (k StaticKey) Credential(_ context.Context, _ Kind) (string, error) {
	return string(k), nil
}
