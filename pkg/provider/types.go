package provider

import "github.com/rhuss/brandsmith/pkg/api"

// Kind names a generation capability.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Kinds lists every capability in a stable order.
var Kinds = []Kind{KindText, KindImage}

// KindFor returns the capability that produces the given asset type.
func KindFor(t api.AssetType) Kind {
	if t.IsImage() {
		return KindImage
	}
	return KindText
}

// Capabilities declares which generation kinds a provider supports and the
// models it uses for them.
type Capabilities struct {
	Text  bool
	Image bool

	TextModel  string
	ImageModel string

	// ImageSizes lists accepted image sizes. Empty means any size.
	ImageSizes []string
}

// TextRequest is the backend-facing text generation request.
type TextRequest struct {
	// System is an optional system prompt.
	System string `json:"system,omitempty"`
	Prompt string `json:"prompt"`

	// Model overrides the provider's default text model.
	Model string `json:"model,omitempty"`

	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

// TextResponse is the result of a text generation call.
type TextResponse struct {
	Text  string `json:"text"`
	Model string `json:"model"`
	Usage Usage  `json:"usage"`
}

// Usage reports token consumption for a text call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ImageRequest is the backend-facing image generation request.
type ImageRequest struct {
	Prompt string `json:"prompt"`

	// Model overrides the provider's default image model.
	Model string `json:"model,omitempty"`

	// Size overrides the provider's default image size.
	Size string `json:"size,omitempty"`
}

// ImageResponse is the result of an image generation call.
type ImageResponse struct {
	URL string `json:"url"`

	// RevisedPrompt is the prompt the backend actually used, when reported.
	RevisedPrompt string `json:"revised_prompt,omitempty"`

	Model string `json:"model"`
}
