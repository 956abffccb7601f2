package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rhuss/brandsmith/pkg/api"
	"github.com/rhuss/brandsmith/pkg/provider"
	"github.com/rhuss/brandsmith/pkg/quality"
	"github.com/rhuss/brandsmith/pkg/registry"
	"github.com/rhuss/brandsmith/pkg/secrets/memory"
)

// callResult is one scripted provider outcome.
type callResult struct {
	text string
	url  string
	err  error
}

// mockProvider implements provider.Provider with scripted outcomes. Each
// generation call consumes the next result; the last one repeats.
type mockProvider struct {
	mu      sync.Mutex
	caps    provider.Capabilities
	results []callResult

	textCalls  []*provider.TextRequest
	imageCalls []*provider.ImageRequest

	// textFn overrides scripted results for text calls when set.
	textFn func(req *provider.TextRequest) (*provider.TextResponse, error)
}

func newMockProvider(results ...callResult) *mockProvider {
	return &mockProvider{
		caps:    provider.Capabilities{Text: true, Image: true, TextModel: "mock-text", ImageModel: "mock-image"},
		results: results,
	}
}

func (m *mockProvider) next() callResult {
	n := len(m.textCalls) + len(m.imageCalls) - 1
	if len(m.results) == 0 {
		return callResult{text: "ok", url: "https://img.example/ok.png"}
	}
	if n >= len(m.results) {
		n = len(m.results) - 1
	}
	return m.results[n]
}

func (m *mockProvider) Name() string                        { return "mock" }
func (m *mockProvider) Capabilities() provider.Capabilities { return m.caps }
func (m *mockProvider) Close() error                        { return nil }

func (m *mockProvider) GenerateText(_ context.Context, req *provider.TextRequest) (*provider.TextResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.textCalls = append(m.textCalls, req)
	if m.textFn != nil {
		return m.textFn(req)
	}
	r := m.next()
	if r.err != nil {
		return nil, r.err
	}
	return &provider.TextResponse{Text: r.text, Model: "mock-text"}, nil
}

func (m *mockProvider) GenerateImage(_ context.Context, req *provider.ImageRequest) (*provider.ImageResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imageCalls = append(m.imageCalls, req)
	r := m.next()
	if r.err != nil {
		return nil, r.err
	}
	return &provider.ImageResponse{URL: r.url, Model: "mock-image"}, nil
}

func (m *mockProvider) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.textCalls) + len(m.imageCalls)
}

// stubCaps is a CapabilityChecker with fixed availability.
type stubCaps struct {
	text, image bool
}

func (s stubCaps) CheckAvailability(_ context.Context) registry.Availability {
	return registry.Availability{
		PerCapability: map[provider.Kind]bool{provider.KindText: s.text, provider.KindImage: s.image},
		AnyAvailable:  s.text || s.image,
	}
}

func (s stubCaps) SecretName(provider.Kind) string { return registry.DefaultSecretName }

var allCaps = stubCaps{text: true, image: true}

// mockEnhancer prefixes the prompt and counts calls.
type mockEnhancer struct {
	calls int
}

func (m *mockEnhancer) Enhance(_ context.Context, req *api.GenerationRequest) api.Brief {
	m.calls++
	text := "Detailed brief: " + req.Prompt
	return api.Brief{Text: text, Enhanced: true, SourceLength: len(req.Prompt), ResultLength: len(text)}
}

// mockAssessor returns scripted scores; the last one repeats.
type mockAssessor struct {
	scores []int
	inputs []quality.Input
	hook   func()
}

func (m *mockAssessor) Assess(_ context.Context, in quality.Input) api.QualityVerdict {
	m.inputs = append(m.inputs, in)
	if m.hook != nil {
		m.hook()
	}
	score := api.NeutralScore
	if len(m.scores) > 0 {
		i := min(len(m.inputs)-1, len(m.scores)-1)
		score = m.scores[i]
	}
	return api.NewVerdict(score, fmt.Sprintf("scored %d", score), nil, nil, api.VerdictSourceStructured)
}

func newTestEngine(t *testing.T, p provider.Provider, caps CapabilityChecker, cfg Config) *Engine {
	t.Helper()
	eng, err := New(p, caps, cfg)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	return eng
}

func intPtr(n int) *int { return &n }

func TestEngine_New_NilProvider(t *testing.T) {
	if _, err := New(nil, allCaps, Config{}); err == nil {
		t.Fatal("expected error for nil provider")
	}
}

func TestEngine_New_NilCapabilityChecker(t *testing.T) {
	if _, err := New(newMockProvider(), nil, Config{}); err == nil {
		t.Fatal("expected error for nil capability checker")
	}
}

func TestEngine_New_UnknownFailurePolicy(t *testing.T) {
	if _, err := New(newMockProvider(), allCaps, Config{FailurePolicy: "explode"}); err == nil {
		t.Fatal("expected error for unknown failure policy")
	}
}

// A first attempt that meets the bar is returned without regeneration.
func TestGenerate_AcceptsFirstGoodAttempt(t *testing.T) {
	mp := newMockProvider(callResult{url: "https://img.example/logo1.png"})
	asr := &mockAssessor{scores: []int{8}}
	eng := newTestEngine(t, mp, allCaps, Config{Enhancer: &mockEnhancer{}, Assessor: asr})

	res, err := eng.Generate(context.Background(), &api.GenerationRequest{
		AssetType: api.AssetTypeLogo,
		Prompt:    "coffee shop logo",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mp.calls() != 1 {
		t.Errorf("provider calls = %d, want 1", mp.calls())
	}
	if res.ImageURL != "https://img.example/logo1.png" {
		t.Errorf("ImageURL = %q", res.ImageURL)
	}
	if res.RegenerationCount != 0 || res.SucceededAttempt != 0 || res.Attempts != 1 {
		t.Errorf("provenance = regen %d, succeeded %d, attempts %d; want 0, 0, 1",
			res.RegenerationCount, res.SucceededAttempt, res.Attempts)
	}
	if res.QualityAssessment == nil || res.QualityAssessment.Score != 8 {
		t.Errorf("QualityAssessment = %+v, want score 8", res.QualityAssessment)
	}
	if !res.PromptEnhanced || res.FinalBrief != "Detailed brief: coffee shop logo" {
		t.Errorf("brief provenance = %v %q", res.PromptEnhanced, res.FinalBrief)
	}
	if !strings.HasPrefix(res.ID, "gen_") {
		t.Errorf("ID = %q, want gen_ prefix", res.ID)
	}
	if res.Provider != "mock" || res.Model != "mock-image" {
		t.Errorf("provider/model = %q/%q", res.Provider, res.Model)
	}
	if got := mp.imageCalls[0].Prompt; got != "Detailed brief: coffee shop logo" {
		t.Errorf("generation prompt = %q, want the enhanced brief", got)
	}
}

// A weak first attempt is regenerated once.
func TestGenerate_RegeneratesAfterLowScore(t *testing.T) {
	mp := newMockProvider(
		callResult{url: "https://img.example/weak.png"},
		callResult{url: "https://img.example/strong.png"},
	)
	asr := &mockAssessor{scores: []int{3, 8}}
	eng := newTestEngine(t, mp, allCaps, Config{Enhancer: &mockEnhancer{}, Assessor: asr})

	res, err := eng.Generate(context.Background(), &api.GenerationRequest{
		AssetType: api.AssetTypeBanner,
		Prompt:    "summer sale banner",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mp.calls() != 2 {
		t.Errorf("provider calls = %d, want 2", mp.calls())
	}
	if res.ImageURL != "https://img.example/strong.png" {
		t.Errorf("ImageURL = %q, want the second output", res.ImageURL)
	}
	if res.RegenerationCount != 1 || res.SucceededAttempt != 1 || res.Attempts != 2 {
		t.Errorf("provenance = regen %d, succeeded %d, attempts %d; want 1, 1, 2",
			res.RegenerationCount, res.SucceededAttempt, res.Attempts)
	}
	if res.QualityAssessment.Score != 8 {
		t.Errorf("final verdict score = %d, want 8", res.QualityAssessment.Score)
	}
}

// A missing image credential fails before any call; setting it at runtime
// unblocks the next request.
func TestGenerate_NotConfiguredSkipsProvider(t *testing.T) {
	mp := newMockProvider()
	enh := &mockEnhancer{}
	store := memory.New()
	reg := registry.New(store, map[provider.Kind]string{provider.KindImage: "IMAGE_API_KEY"})
	eng := newTestEngine(t, mp, reg, Config{Enhancer: enh, Assessor: &mockAssessor{}})

	_, err := eng.Generate(context.Background(), &api.GenerationRequest{
		AssetType: api.AssetTypePoster,
		Prompt:    "jazz night poster",
	})
	if !api.IsNotConfigured(err) {
		t.Fatalf("error = %v, want not_configured", err)
	}
	apiErr := api.AsAPIError(err)
	if !strings.Contains(apiErr.Hint, "/v1/secrets/IMAGE_API_KEY") {
		t.Errorf("hint = %q, want pointer to IMAGE_API_KEY", apiErr.Hint)
	}
	if apiErr.Param != "image" {
		t.Errorf("param = %q, want image", apiErr.Param)
	}
	if mp.calls() != 0 || enh.calls != 0 {
		t.Errorf("provider calls = %d, enhancer calls = %d; want none", mp.calls(), enh.calls)
	}

	// A credential set at runtime is honored by the next request.
	store.Set(context.Background(), "IMAGE_API_KEY", "sk-live")
	if _, err := eng.Generate(context.Background(), &api.GenerationRequest{
		AssetType: api.AssetTypePoster,
		Prompt:    "jazz night poster",
	}); err != nil {
		t.Fatalf("after setting secret: %v", err)
	}
}

// When every attempt asks for regeneration the last output is returned.
func TestGenerate_ReturnsLastAttemptWhenBudgetExhausted(t *testing.T) {
	mp := newMockProvider(
		callResult{text: "1. Meh"},
		callResult{text: "1. Still meh"},
		callResult{text: "1. Last try"},
	)
	asr := &mockAssessor{scores: []int{2}}
	eng := newTestEngine(t, mp, allCaps, Config{Enhancer: &mockEnhancer{}, Assessor: asr})

	res, err := eng.Generate(context.Background(), &api.GenerationRequest{
		AssetType: api.AssetTypeSlogan,
		Prompt:    "eco sneakers",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mp.calls() != 3 {
		t.Errorf("provider calls = %d, want maxRetries+1 = 3", mp.calls())
	}
	if res.Text != "1. Last try" {
		t.Errorf("Text = %q, want the last output", res.Text)
	}
	if res.RegenerationCount != 2 || res.SucceededAttempt != 2 {
		t.Errorf("regen %d succeeded %d, want 2 and 2", res.RegenerationCount, res.SucceededAttempt)
	}
	if res.QualityAssessment == nil || !res.QualityAssessment.ShouldRegenerate {
		t.Errorf("final verdict = %+v, want the failing verdict", res.QualityAssessment)
	}
}

func TestGenerate_AttemptBound(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		override  *int
		wantCalls int
	}{
		{"default bound", Config{}, nil, 3},
		{"configured bound", Config{MaxRetries: 4}, nil, 5},
		{"configured bound capped by limit", Config{MaxRetries: 4, MaxRetriesLimit: 1}, nil, 2},
		{"request override", Config{}, intPtr(1), 2},
		{"request override zero", Config{MaxRetries: 3}, intPtr(0), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mp := newMockProvider(callResult{text: "weak"})
			tt.cfg.Enhancer = &mockEnhancer{}
			tt.cfg.Assessor = &mockAssessor{scores: []int{1}}
			eng := newTestEngine(t, mp, allCaps, tt.cfg)

			res, err := eng.Generate(context.Background(), &api.GenerationRequest{
				AssetType:  api.AssetTypeTagline,
				Prompt:     "bank for freelancers",
				MaxRetries: tt.override,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mp.calls() != tt.wantCalls {
				t.Errorf("provider calls = %d, want %d", mp.calls(), tt.wantCalls)
			}
			if res.RegenerationCount != tt.wantCalls-1 {
				t.Errorf("RegenerationCount = %d, want %d", res.RegenerationCount, tt.wantCalls-1)
			}
		})
	}
}

func TestGenerate_SkipQualityCheck(t *testing.T) {
	mp := newMockProvider(callResult{text: "Brew Bold"})
	asr := &mockAssessor{scores: []int{1}}
	eng := newTestEngine(t, mp, allCaps, Config{Enhancer: &mockEnhancer{}, Assessor: asr})

	res, err := eng.Generate(context.Background(), &api.GenerationRequest{
		AssetType:        api.AssetTypeSlogan,
		Prompt:           "coffee",
		SkipQualityCheck: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(asr.inputs) != 0 {
		t.Errorf("assessor called %d times, want 0", len(asr.inputs))
	}
	if mp.calls() != 1 {
		t.Errorf("provider calls = %d, want 1", mp.calls())
	}
	if res.QualityAssessment != nil {
		t.Errorf("QualityAssessment = %+v, want nil", res.QualityAssessment)
	}
}

func TestGenerate_DisableQualityCheckConfig(t *testing.T) {
	mp := newMockProvider(callResult{text: "Brew Bold"})
	asr := &mockAssessor{scores: []int{1}}
	eng := newTestEngine(t, mp, allCaps, Config{
		Enhancer:            &mockEnhancer{},
		Assessor:            asr,
		DisableQualityCheck: true,
	})

	if _, err := eng.Generate(context.Background(), &api.GenerationRequest{
		AssetType: api.AssetTypeSlogan,
		Prompt:    "coffee",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(asr.inputs) != 0 {
		t.Errorf("assessor called %d times, want 0", len(asr.inputs))
	}
}

func TestGenerate_AssessorSeesOriginalPrompt(t *testing.T) {
	mp := newMockProvider(callResult{text: "Brew Bold"})
	asr := &mockAssessor{scores: []int{9}}
	eng := newTestEngine(t, mp, allCaps, Config{Enhancer: &mockEnhancer{}, Assessor: asr})

	ctxHints := map[string]any{"tone": "warm"}
	if _, err := eng.Generate(context.Background(), &api.GenerationRequest{
		AssetType: api.AssetTypeSlogan,
		Prompt:    "coffee",
		Context:   ctxHints,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in := asr.inputs[0]
	if in.OriginalPrompt != "coffee" {
		t.Errorf("OriginalPrompt = %q, want the raw prompt", in.OriginalPrompt)
	}
	if in.Output.Text != "Brew Bold" || in.AssetType != api.AssetTypeSlogan {
		t.Errorf("assessor input = %+v", in)
	}
	if in.Context["tone"] != "warm" {
		t.Errorf("context not forwarded: %v", in.Context)
	}
}

func TestGenerate_TextAssetItems(t *testing.T) {
	mp := newMockProvider(callResult{text: "Here are some ideas:\n1. \"Brew Bold\"\n2. Wake Up Wonderful\n\n3. **Sip Happens**"})
	eng := newTestEngine(t, mp, allCaps, Config{Enhancer: &mockEnhancer{}, Assessor: &mockAssessor{scores: []int{8}}})

	res, err := eng.Generate(context.Background(), &api.GenerationRequest{
		AssetType: api.AssetTypeSlogan,
		Prompt:    "coffee",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Brew Bold", "Wake Up Wonderful", "Sip Happens"}
	if strings.Join(res.Items, "|") != strings.Join(want, "|") {
		t.Errorf("Items = %q, want %q", res.Items, want)
	}
}

func TestGenerate_NumberedListOfEight(t *testing.T) {
	output := strings.Join([]string{
		"1. Brew Bold",
		"2. Wake Up Wonderful",
		"3. Sip Happens",
		"4. Roasted With Love",
		"5. Grounds For Joy",
		"6. Daily Grind, Done Right",
		"7. Espresso Yourself",
		"8. Beans Worth Waking For",
	}, "\n")
	mp := newMockProvider(callResult{text: output})
	eng := newTestEngine(t, mp, allCaps, Config{Enhancer: &mockEnhancer{}, Assessor: &mockAssessor{scores: []int{8}}})

	res, err := eng.Generate(context.Background(), &api.GenerationRequest{
		AssetType: api.AssetTypeSlogan,
		Prompt:    "coffee roaster slogans",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Items) != 8 {
		t.Fatalf("Items = %d entries %q, want 8", len(res.Items), res.Items)
	}
	for i, item := range res.Items {
		if strings.HasPrefix(item, fmt.Sprintf("%d.", i+1)) || strings.TrimSpace(item) != item {
			t.Errorf("Items[%d] = %q, want numbering stripped", i, item)
		}
	}
	if res.Items[0] != "Brew Bold" || res.Items[7] != "Beans Worth Waking For" {
		t.Errorf("Items = %q", res.Items)
	}
}

func TestGenerate_NotConfiguredForEveryAssetType(t *testing.T) {
	for _, assetType := range api.AssetTypes {
		t.Run(string(assetType), func(t *testing.T) {
			mp := newMockProvider()
			enh := &mockEnhancer{}
			reg := registry.New(memory.New(), nil)
			eng := newTestEngine(t, mp, reg, Config{Enhancer: enh, Assessor: &mockAssessor{}})

			_, err := eng.Generate(context.Background(), &api.GenerationRequest{
				AssetType: assetType,
				Prompt:    "tech startup " + string(assetType),
			})
			if !api.IsNotConfigured(err) {
				t.Fatalf("error = %v, want not_configured", err)
			}
			want := string(provider.KindFor(assetType))
			if param := api.AsAPIError(err).Param; param != want {
				t.Errorf("param = %q, want %q", param, want)
			}
			if mp.calls() != 0 || enh.calls != 0 {
				t.Errorf("provider calls = %d, enhancer calls = %d; want none", mp.calls(), enh.calls)
			}
		})
	}
}

func TestGenerate_LogoWithOnlyTextConfigured(t *testing.T) {
	mp := newMockProvider()
	enh := &mockEnhancer{}
	eng := newTestEngine(t, mp, stubCaps{text: true}, Config{Enhancer: enh, Assessor: &mockAssessor{}})

	_, err := eng.Generate(context.Background(), &api.GenerationRequest{
		AssetType: api.AssetTypeLogo,
		Prompt:    "tech startup logo",
	})
	if !api.IsNotConfigured(err) {
		t.Fatalf("error = %v, want not_configured", err)
	}
	if param := api.AsAPIError(err).Param; param != "image" {
		t.Errorf("param = %q, want image", param)
	}
	if len(mp.imageCalls) != 0 || len(mp.textCalls) != 0 || enh.calls != 0 {
		t.Errorf("image calls = %d, text calls = %d, enhancer calls = %d; want none",
			len(mp.imageCalls), len(mp.textCalls), enh.calls)
	}
}

func TestGenerate_ImageAssetHasNoItems(t *testing.T) {
	mp := newMockProvider(callResult{url: "https://img.example/a.png"})
	eng := newTestEngine(t, mp, allCaps, Config{Enhancer: &mockEnhancer{}, Assessor: &mockAssessor{scores: []int{8}}})

	res, err := eng.Generate(context.Background(), &api.GenerationRequest{
		AssetType: api.AssetTypeLogo,
		Prompt:    "fox logo",
		Size:      "512x512",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Items != nil {
		t.Errorf("Items = %v, want nil for image assets", res.Items)
	}
	if mp.imageCalls[0].Size != "512x512" {
		t.Errorf("size = %q, want 512x512", mp.imageCalls[0].Size)
	}
}

func TestGenerate_InvalidRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       *api.GenerationRequest
		wantParam string
	}{
		{"nil request", nil, ""},
		{"unknown asset type", &api.GenerationRequest{AssetType: "jingle", Prompt: "x"}, "asset_type"},
		{"blank prompt", &api.GenerationRequest{AssetType: api.AssetTypeLogo, Prompt: "  "}, "prompt"},
		{"override above limit", &api.GenerationRequest{AssetType: api.AssetTypeLogo, Prompt: "x", MaxRetries: intPtr(9)}, "max_retries"},
		{"size on text asset", &api.GenerationRequest{AssetType: api.AssetTypeSlogan, Prompt: "x", Size: "512x512"}, "size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mp := newMockProvider()
			eng := newTestEngine(t, mp, allCaps, Config{Enhancer: &mockEnhancer{}, Assessor: &mockAssessor{}})

			_, err := eng.Generate(context.Background(), tt.req)
			apiErr := api.AsAPIError(err)
			if apiErr == nil || apiErr.Type != api.ErrorTypeInvalidRequest {
				t.Fatalf("error = %v, want invalid_request", err)
			}
			if apiErr.Param != tt.wantParam {
				t.Errorf("param = %q, want %q", apiErr.Param, tt.wantParam)
			}
			if mp.calls() != 0 {
				t.Errorf("provider calls = %d, want 0", mp.calls())
			}
		})
	}
}

func TestGenerate_UnsupportedImageSize(t *testing.T) {
	mp := newMockProvider()
	mp.caps.ImageSizes = []string{"1024x1024"}
	eng := newTestEngine(t, mp, allCaps, Config{Enhancer: &mockEnhancer{}, Assessor: &mockAssessor{}})

	_, err := eng.Generate(context.Background(), &api.GenerationRequest{
		AssetType: api.AssetTypeLogo,
		Prompt:    "x",
		Size:      "640x480",
	})
	if apiErr := api.AsAPIError(err); apiErr == nil || apiErr.Param != "size" {
		t.Fatalf("error = %v, want invalid size", err)
	}
}

func TestGenerate_NormalizesAssetType(t *testing.T) {
	mp := newMockProvider(callResult{text: "Nimbus"})
	eng := newTestEngine(t, mp, allCaps, Config{Enhancer: &mockEnhancer{}, Assessor: &mockAssessor{scores: []int{8}}})

	res, err := eng.Generate(context.Background(), &api.GenerationRequest{
		AssetType: " BrandName ",
		Prompt:    "cloud backup startup",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AssetType != api.AssetTypeBrandName {
		t.Errorf("AssetType = %q, want brandname", res.AssetType)
	}
}

func TestGenerateText_PlainFlow(t *testing.T) {
	mp := newMockProvider(callResult{text: "  hello there  "})
	enh := &mockEnhancer{}
	asr := &mockAssessor{}
	eng := newTestEngine(t, mp, allCaps, Config{Enhancer: enh, Assessor: asr})

	res, err := eng.GenerateText(context.Background(), "say hi", "be friendly")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "hello there" {
		t.Errorf("Text = %q", res.Text)
	}
	if enh.calls != 0 || len(asr.inputs) != 0 {
		t.Errorf("enhancer/assessor called on plain flow: %d/%d", enh.calls, len(asr.inputs))
	}
	if mp.calls() != 1 {
		t.Errorf("provider calls = %d, want 1", mp.calls())
	}
	if got := mp.textCalls[0]; got.Prompt != "say hi" || got.System != "be friendly" {
		t.Errorf("text request = %+v", got)
	}
	if res.Attempts != 1 || res.PromptEnhanced || res.QualityAssessment != nil {
		t.Errorf("plain provenance = %+v", res)
	}
}

func TestGenerateText_ProviderErrorNotRetried(t *testing.T) {
	mp := newMockProvider(callResult{err: api.NewProviderError("server_error", "boom")})
	eng := newTestEngine(t, mp, allCaps, Config{FailurePolicy: FailurePolicyRetry})

	_, err := eng.GenerateText(context.Background(), "say hi", "")
	if api.KindOf(err) != api.ErrorTypeProviderError {
		t.Fatalf("error = %v, want provider_error", err)
	}
	if mp.calls() != 1 {
		t.Errorf("provider calls = %d, want 1 for plain flows", mp.calls())
	}
}

func TestGenerateImage_PlainFlow(t *testing.T) {
	mp := newMockProvider(callResult{url: "https://img.example/fox.png"})
	eng := newTestEngine(t, mp, allCaps, Config{})

	res, err := eng.GenerateImage(context.Background(), "a fox", "1024x1024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ImageURL != "https://img.example/fox.png" {
		t.Errorf("ImageURL = %q", res.ImageURL)
	}
	if mp.imageCalls[0].Prompt != "a fox" || mp.imageCalls[0].Size != "1024x1024" {
		t.Errorf("image request = %+v", mp.imageCalls[0])
	}
}

func TestGenerateImage_NotConfigured(t *testing.T) {
	mp := newMockProvider()
	eng := newTestEngine(t, mp, stubCaps{text: true}, Config{})

	_, err := eng.GenerateImage(context.Background(), "a fox", "")
	if !api.IsNotConfigured(err) {
		t.Fatalf("error = %v, want not_configured", err)
	}
	if mp.calls() != 0 {
		t.Errorf("provider calls = %d, want 0", mp.calls())
	}
}

func TestGenerateImage_EmptyURL(t *testing.T) {
	mp := newMockProvider(callResult{url: ""})
	eng := newTestEngine(t, mp, allCaps, Config{})

	_, err := eng.GenerateImage(context.Background(), "a fox", "")
	if api.KindOf(err) != api.ErrorTypeProviderError {
		t.Fatalf("error = %v, want provider_error", err)
	}
}

func TestEngine_Capabilities(t *testing.T) {
	eng := newTestEngine(t, newMockProvider(), stubCaps{image: true}, Config{})
	avail := eng.Capabilities(context.Background())
	if avail.Available(provider.KindText) || !avail.Available(provider.KindImage) {
		t.Errorf("availability = %+v", avail.PerCapability)
	}
}
