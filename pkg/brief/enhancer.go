// Package brief expands terse user requests into structured professional
// briefs. Enhancement is best effort: any failure falls back to the raw
// prompt and never blocks generation.
package brief

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rhuss/brandsmith/pkg/api"
	"github.com/rhuss/brandsmith/pkg/debug"
	"github.com/rhuss/brandsmith/pkg/observability"
	"github.com/rhuss/brandsmith/pkg/provider"
)

// SystemPrompt frames the text capability as a brief writer.
const SystemPrompt = "You are a senior creative director. You turn short client requests " +
	"into clear, specific creative briefs. Keep every detail the client gave, " +
	"add concrete direction where they were vague, and never invent a different brand."

// Enhancement results recorded in metrics.
const (
	ResultEnhanced    = "enhanced"
	ResultFallback    = "fallback"
	ResultUnavailable = "unavailable"
	ResultError       = "error"
)

// Enhancer rewrites raw prompts into briefs using the text capability.
type Enhancer struct {
	text        provider.TextGenerator
	temperature float64
}

// New creates an Enhancer backed by the given text capability.
func New(text provider.TextGenerator) *Enhancer {
	return &Enhancer{text: text, temperature: 0.7}
}

// Enhance returns an enhanced brief for req, or the raw prompt unchanged
// when enhancement fails or does not lengthen the prompt. It never returns
// an error.
func (e *Enhancer) Enhance(ctx context.Context, req *api.GenerationRequest) api.Brief {
	fallback := api.PassthroughBrief(req.Prompt)

	if e.text == nil {
		e.record(req.AssetType, ResultUnavailable)
		return fallback
	}

	if _, ok := TemplateFor(req.AssetType); !ok {
		slog.Warn("no brief template for asset type, using generic template",
			"asset_type", req.AssetType)
	}

	instruction := Instruction(req)
	temp := e.temperature

	start := time.Now()
	resp, err := e.text.GenerateText(ctx, &provider.TextRequest{
		System:      SystemPrompt,
		Prompt:      instruction,
		Temperature: &temp,
	})
	if err != nil {
		result := ResultError
		if api.IsNotConfigured(err) {
			result = ResultUnavailable
		}
		debug.Log("brief", "enhancement failed, using raw prompt",
			"asset_type", req.AssetType, "error", err.Error())
		e.record(req.AssetType, result)
		return fallback
	}

	text := strings.TrimSpace(resp.Text)
	sourceLen := utf8.RuneCountInString(req.Prompt)
	resultLen := utf8.RuneCountInString(text)

	if resultLen <= sourceLen {
		debug.Log("brief", "enhancement did not lengthen prompt, using raw prompt",
			"asset_type", req.AssetType, "source_len", sourceLen, "result_len", resultLen)
		e.record(req.AssetType, ResultFallback)
		return fallback
	}

	debug.Log("brief", "prompt enhanced",
		"asset_type", req.AssetType,
		"source_len", sourceLen,
		"result_len", resultLen,
		"duration_ms", time.Since(start).Milliseconds())
	debug.Trace("brief", "enhanced brief", "text", text)
	e.record(req.AssetType, ResultEnhanced)

	return api.Brief{
		Text:         text,
		Enhanced:     true,
		SourceLength: sourceLen,
		ResultLength: resultLen,
	}
}

func (e *Enhancer) record(t api.AssetType, result string) {
	observability.EnhancementsTotal.WithLabelValues(string(t), result).Inc()
}
