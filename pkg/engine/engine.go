package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rhuss/brandsmith/pkg/api"
	"github.com/rhuss/brandsmith/pkg/brief"
	"github.com/rhuss/brandsmith/pkg/observability"
	"github.com/rhuss/brandsmith/pkg/provider"
	"github.com/rhuss/brandsmith/pkg/quality"
	"github.com/rhuss/brandsmith/pkg/registry"
	"github.com/rhuss/brandsmith/pkg/transport"
)

// CapabilityChecker reports which generation capabilities are configured.
// *registry.Registry implements it.
type CapabilityChecker interface {
	CheckAvailability(ctx context.Context) registry.Availability
	SecretName(kind provider.Kind) string
}

// BriefEnhancer turns a raw request into the brief used for generation.
// It must not fail; *brief.Enhancer implements it.
type BriefEnhancer interface {
	Enhance(ctx context.Context, req *api.GenerationRequest) api.Brief
}

// QualityAssessor judges a generated artifact. It must not fail;
// *quality.Assessor implements it.
type QualityAssessor interface {
	Assess(ctx context.Context, in quality.Input) api.QualityVerdict
}

// Engine orchestrates generation requests against a provider. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	provider provider.Provider
	caps     CapabilityChecker
	enhancer BriefEnhancer
	assessor QualityAssessor
	cfg      Config
}

// Ensure Engine implements transport.Generator at compile time.
var _ transport.Generator = (*Engine)(nil)

// New creates a new Engine. The provider and capability checker must not
// be nil. Unless overridden in cfg, the enhancer and assessor use the
// provider's text capability.
func New(p provider.Provider, caps CapabilityChecker, cfg Config) (*Engine, error) {
	if p == nil {
		return nil, fmt.Errorf("engine: provider must not be nil")
	}
	if caps == nil {
		return nil, fmt.Errorf("engine: capability checker must not be nil")
	}
	policy, err := ParseFailurePolicy(string(cfg.FailurePolicy))
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	cfg.FailurePolicy = policy

	p = instrument(p)
	e := &Engine{
		provider: p,
		caps:     caps,
		enhancer: cfg.Enhancer,
		assessor: cfg.Assessor,
		cfg:      cfg,
	}
	if e.enhancer == nil {
		e.enhancer = brief.New(p)
	}
	if e.assessor == nil {
		e.assessor = quality.New(p)
	}
	return e, nil
}

// Capabilities reports the current availability of each capability.
func (e *Engine) Capabilities(ctx context.Context) registry.Availability {
	return e.caps.CheckAvailability(ctx)
}

// Generate runs the design asset pipeline for req. The caller's request is
// not modified.
func (e *Engine) Generate(ctx context.Context, req *api.GenerationRequest) (*api.GenerationResult, error) {
	if req == nil {
		return nil, api.NewInvalidRequestError("", "request body is required")
	}
	if apiErr := api.ValidateGenerationRequest(req, e.cfg.validation()); apiErr != nil {
		return nil, apiErr
	}
	normalized := *req
	normalized.AssetType, _ = api.ParseAssetType(string(req.AssetType))
	req = &normalized

	observability.InFlightGenerations.Inc()
	defer observability.InFlightGenerations.Dec()

	result, err := e.runPipeline(ctx, req)
	recordOutcome(string(req.AssetType), err)
	return result, err
}

// GenerateText runs a plain text generation without enhancement or
// assessment.
func (e *Engine) GenerateText(ctx context.Context, prompt, system string) (*api.GenerationResult, error) {
	req := &api.TextGenerationRequest{Prompt: prompt, System: system}
	if apiErr := api.ValidateTextRequest(req, e.cfg.validation()); apiErr != nil {
		return nil, apiErr
	}

	observability.InFlightGenerations.Inc()
	defer observability.InFlightGenerations.Dec()

	result, err := e.runPlain(ctx, provider.KindText, "", func(ctx context.Context) (api.Output, string, error) {
		resp, err := e.provider.GenerateText(ctx, &provider.TextRequest{
			System: strings.TrimSpace(system),
			Prompt: prompt,
		})
		if err != nil {
			return api.Output{}, "", err
		}
		return api.Output{Text: resp.Text}, resp.Model, nil
	})
	recordOutcome(string(provider.KindText), err)
	if err != nil {
		return nil, err
	}
	result.Text = strings.TrimSpace(result.Text)
	return result, nil
}

// GenerateImage runs a plain image generation without enhancement or
// assessment. An empty size uses the provider default.
func (e *Engine) GenerateImage(ctx context.Context, prompt, size string) (*api.GenerationResult, error) {
	req := &api.ImageGenerationRequest{Prompt: prompt, Size: size}
	if apiErr := api.ValidateImageRequest(req, e.cfg.validation()); apiErr != nil {
		return nil, apiErr
	}

	observability.InFlightGenerations.Inc()
	defer observability.InFlightGenerations.Dec()

	result, err := e.runPlain(ctx, provider.KindImage, size, func(ctx context.Context) (api.Output, string, error) {
		return e.generateImage(ctx, prompt, size)
	})
	recordOutcome(string(provider.KindImage), err)
	return result, err
}

// checkCapability fails with not_configured before any provider call when
// kind has no credential, and with invalid_request when the provider
// cannot serve the call.
func (e *Engine) checkCapability(ctx context.Context, kind provider.Kind, size string) error {
	if apiErr := provider.ValidateCapabilities(e.provider.Capabilities(), kind, size); apiErr != nil {
		return apiErr
	}
	avail := e.caps.CheckAvailability(ctx)
	if !avail.Available(kind) {
		apiErr := api.NewNotConfiguredError(string(kind), e.caps.SecretName(kind))
		if diag := avail.Diagnostics[kind]; diag != "" {
			apiErr.Message = fmt.Sprintf("%s: %s", apiErr.Message, diag)
		}
		return apiErr
	}
	return nil
}

// generate performs one generation call of the given kind.
func (e *Engine) generate(ctx context.Context, kind provider.Kind, b api.Brief, size string) (api.Output, string, error) {
	if kind == provider.KindImage {
		return e.generateImage(ctx, b.Text, size)
	}
	resp, err := e.provider.GenerateText(ctx, &provider.TextRequest{Prompt: b.Text})
	if err != nil {
		return api.Output{}, "", err
	}
	return api.Output{Text: strings.TrimSpace(resp.Text)}, resp.Model, nil
}

func (e *Engine) generateImage(ctx context.Context, prompt, size string) (api.Output, string, error) {
	resp, err := e.provider.GenerateImage(ctx, &provider.ImageRequest{Prompt: prompt, Size: size})
	if err != nil {
		return api.Output{}, "", err
	}
	if resp.URL == "" {
		return api.Output{}, "", api.NewProviderError("empty_response", "image backend returned no image")
	}
	return api.Output{ImageURL: resp.URL}, resp.Model, nil
}

func (e *Engine) newResult(assetType api.AssetType, out api.Output, model string) *api.GenerationResult {
	return &api.GenerationResult{
		ID:        api.NewGenerationID(),
		Object:    "generation",
		AssetType: assetType,
		Text:      out.Text,
		ImageURL:  out.ImageURL,
		Provider:  e.provider.Name(),
		Model:     model,
		CreatedAt: time.Now().Unix(),
	}
}

func recordOutcome(label string, err error) {
	outcome := "success"
	if err != nil {
		outcome = string(api.KindOf(err))
	}
	observability.GenerationsTotal.WithLabelValues(label, outcome).Inc()
}
