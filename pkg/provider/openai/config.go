package openai

import (
	"net/http"
	"time"

	"github.com/rhuss/brandsmith/pkg/provider"
)

// Config holds configuration for the OpenAI provider adapter.
type Config struct {
	// BaseURL overrides the API endpoint (e.g., "http://localhost:9090/v1/").
	// Empty uses the SDK default.
	BaseURL string

	// Keys resolves the API key per capability on every call.
	Keys provider.KeySource

	// TextModel is the chat model used for text generation.
	TextModel string

	// ImageModel is the model used for image generation.
	ImageModel string

	// ImageSize is the default image size.
	ImageSize string

	// Timeout for individual API requests. Defaults to 60s.
	Timeout time.Duration

	// HTTPClient overrides the HTTP client used by the SDK.
	HTTPClient *http.Client
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(keys provider.KeySource) Config {
	return Config{
		Keys:       keys,
		TextModel:  "gpt-4o-mini",
		ImageModel: "dall-e-3",
		ImageSize:  "1024x1024",
		Timeout:    60 * time.Second,
	}
}

// imageSizes lists the sizes accepted by the Images API.
var imageSizes = []string{
	"256x256",
	"512x512",
	"1024x1024",
	"1024x1536",
	"1536x1024",
	"1024x1792",
	"1792x1024",
}
