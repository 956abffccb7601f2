package transport

import (
	"context"
	"fmt"

	"github.com/rhuss/brandsmith/pkg/api"
	"github.com/rhuss/brandsmith/pkg/registry"
)

// Generator is implemented by the engine. All methods must be safe for
// concurrent use.
type Generator interface {
	// Generate runs the design asset pipeline.
	Generate(ctx context.Context, req *api.GenerationRequest) (*api.GenerationResult, error)

	// GenerateText runs a plain text generation.
	GenerateText(ctx context.Context, prompt, system string) (*api.GenerationResult, error)

	// GenerateImage runs a plain image generation. An empty size selects
	// the provider default.
	GenerateImage(ctx context.Context, prompt, size string) (*api.GenerationResult, error)

	// Capabilities reports which capabilities are configured.
	Capabilities(ctx context.Context) registry.Availability
}

// Operation names the generation flow a Call targets.
type Operation string

const (
	OpAsset Operation = "asset"
	OpText  Operation = "text"
	OpImage Operation = "image"
)

// Call is one generation request travelling through the middleware chain.
// Exactly one of Asset, Text or Image is set, matching Op.
type Call struct {
	Op    Operation
	Asset *api.GenerationRequest
	Text  *api.TextGenerationRequest
	Image *api.ImageGenerationRequest
}

// Label returns a short description for logs: the asset type for design
// assets and the operation otherwise.
func (c *Call) Label() string {
	if c.Op == OpAsset && c.Asset != nil {
		return string(c.Asset.AssetType)
	}
	return string(c.Op)
}

// Handler executes a Call.
type Handler interface {
	Handle(ctx context.Context, call *Call) (*api.GenerationResult, error)
}

// HandlerFunc is an adapter that allows using an ordinary function as a
// Handler.
type HandlerFunc func(ctx context.Context, call *Call) (*api.GenerationResult, error)

// Handle calls f(ctx, call).
func (f HandlerFunc) Handle(ctx context.Context, call *Call) (*api.GenerationResult, error) {
	return f(ctx, call)
}

// Dispatch returns a Handler that routes each Call to the matching
// Generator method.
func Dispatch(g Generator) Handler {
	return HandlerFunc(func(ctx context.Context, call *Call) (*api.GenerationResult, error) {
		switch call.Op {
		case OpAsset:
			if call.Asset == nil {
				return nil, api.NewInvalidRequestError("", "asset request is required")
			}
			return g.Generate(ctx, call.Asset)
		case OpText:
			if call.Text == nil {
				return nil, api.NewInvalidRequestError("", "text request is required")
			}
			return g.GenerateText(ctx, call.Text.Prompt, call.Text.System)
		case OpImage:
			if call.Image == nil {
				return nil, api.NewInvalidRequestError("", "image request is required")
			}
			return g.GenerateImage(ctx, call.Image.Prompt, call.Image.Size)
		default:
			return nil, api.NewServerError(fmt.Sprintf("unknown operation %q", call.Op))
		}
	})
}
