package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/rhuss/brandsmith/pkg/api"
	"github.com/rhuss/brandsmith/pkg/debug"
	"github.com/rhuss/brandsmith/pkg/provider"
)

// Provider implements provider.Provider for OpenAI and OpenAI-compatible
// backends via the official SDK.
type Provider struct {
	cfg    Config
	client oai.Client
	caps   provider.Capabilities
}

// Ensure Provider implements provider.Provider at compile time.
var _ provider.Provider = (*Provider)(nil)

// New creates a new Provider with the given configuration.
// Returns an error if the configuration is invalid.
func New(cfg Config) (*Provider, error) {
	if cfg.Keys == nil {
		return nil, fmt.Errorf("openai: key source is required")
	}

	defaults := DefaultConfig(cfg.Keys)
	if cfg.TextModel == "" {
		cfg.TextModel = defaults.TextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = defaults.ImageModel
	}
	if cfg.ImageSize == "" {
		cfg.ImageSize = defaults.ImageSize
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}

	// The SDK never retries on its own. Repeats happen only inside the
	// engine's bounded attempt loop.
	opts := []option.RequestOption{
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Provider{
		cfg:    cfg,
		client: oai.NewClient(opts...),
		caps: provider.Capabilities{
			Text:       true,
			Image:      true,
			TextModel:  cfg.TextModel,
			ImageModel: cfg.ImageModel,
			ImageSizes: imageSizes,
		},
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "openai"
}

// Capabilities returns what this provider supports.
func (p *Provider) Capabilities() provider.Capabilities {
	return p.caps
}

// GenerateText runs a single chat completion.
func (p *Provider) GenerateText(ctx context.Context, req *provider.TextRequest) (*provider.TextResponse, error) {
	key, err := p.cfg.Keys.Credential(ctx, provider.KindText)
	if err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = p.cfg.TextModel
	}

	messages := make([]oai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, oai.SystemMessage(req.System))
	}
	messages = append(messages, oai.UserMessage(req.Prompt))

	params := oai.ChatCompletionNewParams{
		Model:    oai.ChatModel(model),
		Messages: messages,
	}
	if req.Temperature != nil {
		params.Temperature = oai.Float(*req.Temperature)
	}
	if req.MaxTokens != nil {
		params.MaxTokens = oai.Int(int64(*req.MaxTokens))
	}

	debug.Log("providers", "chat completion request",
		"model", model, "prompt_len", len(req.Prompt), "system_len", len(req.System))
	debug.Trace("providers", "chat completion prompt", "prompt", req.Prompt)

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, params, option.WithAPIKey(key))
	if err != nil {
		return nil, mapError(ctx, err)
	}

	if len(resp.Choices) == 0 {
		return nil, api.NewProviderError("empty_response", "backend returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, api.NewProviderError("empty_response", "backend returned empty content")
	}

	debug.Log("providers", "chat completion response",
		"model", resp.Model,
		"duration_ms", time.Since(start).Milliseconds(),
		"completion_tokens", resp.Usage.CompletionTokens,
		"text", debug.Truncate(text, 200))

	return &provider.TextResponse{
		Text:  text,
		Model: resp.Model,
		Usage: provider.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

// GenerateImage generates one image and returns its URL.
func (p *Provider) GenerateImage(ctx context.Context, req *provider.ImageRequest) (*provider.ImageResponse, error) {
	key, err := p.cfg.Keys.Credential(ctx, provider.KindImage)
	if err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = p.cfg.ImageModel
	}
	size := req.Size
	if size == "" {
		size = p.cfg.ImageSize
	}

	params := oai.ImageGenerateParams{
		Prompt:         req.Prompt,
		Model:          oai.ImageModel(model),
		Size:           oai.ImageGenerateParamsSize(size),
		ResponseFormat: oai.ImageGenerateParamsResponseFormatURL,
		N:              oai.Int(1),
	}

	debug.Log("providers", "image generation request",
		"model", model, "size", size, "prompt_len", len(req.Prompt))

	start := time.Now()
	resp, err := p.client.Images.Generate(ctx, params, option.WithAPIKey(key))
	if err != nil {
		return nil, mapError(ctx, err)
	}

	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return nil, api.NewProviderError("empty_response", "backend returned no image")
	}

	debug.Log("providers", "image generation response",
		"model", model, "duration_ms", time.Since(start).Milliseconds())

	return &provider.ImageResponse{
		URL:           resp.Data[0].URL,
		RevisedPrompt: resp.Data[0].RevisedPrompt,
		Model:         model,
	}, nil
}

// Close releases provider resources. The SDK client holds no resources
// beyond its HTTP client, which is shared.
func (p *Provider) Close() error {
	return nil
}
