// Package quality scores generated artifacts against the original request.
// Assessment is advisory: when the text capability is unavailable or fails,
// the assessor returns a neutral verdict instead of an error.
package quality

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rhuss/brandsmith/pkg/api"
	"github.com/rhuss/brandsmith/pkg/debug"
	"github.com/rhuss/brandsmith/pkg/observability"
	"github.com/rhuss/brandsmith/pkg/provider"
)

// SystemPrompt frames the text capability as a reviewer.
const SystemPrompt = "You are a strict creative reviewer. You judge work against the client's " +
	"original request using the rubric you are given and answer only with JSON."

// Input is what the assessor judges.
type Input struct {
	Output    api.Output
	AssetType api.AssetType

	// OriginalPrompt is the raw user prompt, never the enhanced brief.
	OriginalPrompt string

	Context map[string]any
}

// Assessor produces quality verdicts using the text capability.
type Assessor struct {
	text        provider.TextGenerator
	temperature float64
}

// New creates an Assessor backed by the given text capability.
func New(text provider.TextGenerator) *Assessor {
	return &Assessor{text: text, temperature: 0.2}
}

// Assess judges in.Output. It never returns an error.
func (a *Assessor) Assess(ctx context.Context, in Input) api.QualityVerdict {
	if a.text == nil {
		return a.observe(in.AssetType, api.NeutralVerdict("text capability unavailable"))
	}

	temp := a.temperature
	start := time.Now()
	resp, err := a.text.GenerateText(ctx, &provider.TextRequest{
		System:      SystemPrompt,
		Prompt:      Prompt(in),
		Temperature: &temp,
	})
	if err != nil {
		reason := "assessment call failed"
		if api.IsNotConfigured(err) {
			reason = "text capability unavailable"
		}
		debug.Log("quality", "assessment failed, using neutral verdict",
			"asset_type", in.AssetType, "error", err.Error())
		return a.observe(in.AssetType, api.NeutralVerdict(reason))
	}

	parsed := Parse(resp.Text)
	verdict := parsed.Resolve()

	debug.Log("quality", "artifact assessed",
		"asset_type", in.AssetType,
		"parse", parsed.Kind.String(),
		"score", verdict.Score,
		"should_regenerate", verdict.ShouldRegenerate,
		"duration_ms", time.Since(start).Milliseconds())

	return a.observe(in.AssetType, verdict)
}

func (a *Assessor) observe(t api.AssetType, v api.QualityVerdict) api.QualityVerdict {
	observability.QualityScore.WithLabelValues(string(t), string(v.Source)).Observe(float64(v.Score))
	return v
}

// Prompt composes the assessment request for in.
func Prompt(in Input) string {
	rubric := RubricFor(in.AssetType)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Assess this %s against the client's original request.\n\n", assetLabel(in.AssetType))
	fmt.Fprintf(&sb, "Original request: %s\n", strings.TrimSpace(in.OriginalPrompt))
	if ctx := api.FormatContext(in.Context); ctx != "" {
		sb.WriteString("Context:\n")
		sb.WriteString(ctx)
		sb.WriteString("\n")
	}

	sb.WriteString("\nArtifact:\n")
	if in.Output.IsImage() {
		fmt.Fprintf(&sb, "Image at %s\n", in.Output.ImageURL)
	} else {
		sb.WriteString(strings.TrimSpace(in.Output.Text))
		sb.WriteString("\n")
	}

	sb.WriteString("\nRubric:\n")
	sb.WriteString(rubric.String())
	sb.WriteString("\n\nScore from 1 (unusable) to 10 (outstanding) as the weighted result of the rubric.\n")
	sb.WriteString(`Answer with JSON only: {"score": <1-10>, "feedback": "<one paragraph>", ` +
		`"strengths": ["..."], "improvements": ["..."]}`)
	return sb.String()
}

func assetLabel(t api.AssetType) string {
	if t == api.AssetTypeBrandName {
		return "brand name list"
	}
	if t == "" {
		return "asset"
	}
	return string(t)
}
