// Command demo walks through the offline parts of the brandsmith pipeline:
// brief templates, quality rubrics, verdict parsing, list extraction and
// the pipeline state machine. It makes no network calls.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/rhuss/brandsmith/pkg/api"
	"github.com/rhuss/brandsmith/pkg/brief"
	"github.com/rhuss/brandsmith/pkg/engine"
	"github.com/rhuss/brandsmith/pkg/quality"
)

func main() {
	fmt.Println("=== brandsmith pipeline demo ===")
	fmt.Println()

	// 1. Build and validate a request
	retries := 1
	req := &api.GenerationRequest{
		AssetType: api.AssetTypeSlogan,
		Prompt:    "slogans for a neighbourhood coffee roaster",
		Context: map[string]any{
			"audience": "young professionals",
			"tone":     []string{"warm", "playful"},
		},
		MaxRetries: &retries,
	}
	if err := api.ValidateGenerationRequest(req, api.DefaultValidationConfig()); err != nil {
		fmt.Printf("Validation FAILED: %v\n", err)
		return
	}
	fmt.Println("[1] Request validated successfully")

	data, _ := json.MarshalIndent(req, "", "  ")
	fmt.Printf("\n[2] Request JSON:\n%s\n", data)

	// 2. Brief instruction sent to the text capability
	fmt.Printf("\n[3] Brief instruction:\n%s\n", brief.Instruction(req))

	// 3. Assessment prompt for a candidate output
	candidate := "Here are some ideas:\n1. \"Roasted round the corner\"\n2. **Your daily grind, done right**\n- Small batch, big heart"
	in := quality.Input{
		Output:         api.Output{Text: candidate},
		AssetType:      req.AssetType,
		OriginalPrompt: req.Prompt,
		Context:        req.Context,
	}
	fmt.Printf("\n[4] Rubric for %s:\n%s\n", req.AssetType, quality.RubricFor(req.AssetType))
	fmt.Printf("\n[5] Assessment prompt:\n%s\n", quality.Prompt(in))

	// 4. Verdict parsing
	fmt.Println("\n[6] Verdict parsing:")
	responses := []string{
		`{"score": 8, "feedback": "Punchy and on brief", "strengths": ["memorable"], "improvements": []}`,
		"```json\n{\"score\": \"3/10\", \"feedback\": \"Generic\", \"weaknesses\": [\"no local flavour\"]}\n```",
		"This is excellent work that fully meets the brief.",
		"The result is off-brand and needs major revision.",
	}
	for _, raw := range responses {
		parsed := quality.Parse(raw)
		v := parsed.Verdict
		if parsed.Kind == quality.Unstructured {
			v = quality.HeuristicVerdict(raw)
		}
		fmt.Printf("    %-12s score=%-2d meets=%-5v regenerate=%-5v source=%s\n",
			parsed.Kind, v.Score, v.MeetsRequirements, v.ShouldRegenerate, v.Source)
	}

	// 5. List extraction for text assets
	fmt.Println("\n[7] Parsed list items:")
	for i, item := range engine.ParseList(candidate) {
		fmt.Printf("    %d. %s\n", i+1, item)
	}

	// 6. State machine transitions
	fmt.Println("\n[8] Pipeline transitions:")
	transitions := []struct {
		from api.PipelineState
		to   api.PipelineState
	}{
		{"", api.StateEnhancing},
		{api.StateEnhancing, api.StateGenerating},
		{api.StateGenerating, api.StateAssessing},
		{api.StateAssessing, api.StateRegenerating},
		{api.StateRegenerating, api.StateGenerating},
		{api.StateAssessing, api.StateDone},
		{api.StateDone, api.StateGenerating},
		{api.StateEnhancing, api.StateAssessing},
	}
	for _, t := range transitions {
		from := string(t.from)
		if from == "" {
			from = "(initial)"
		}
		if err := api.ValidatePipelineTransition(t.from, t.to); err != nil {
			fmt.Printf("    %s -> %s: BLOCKED (%s)\n", from, t.to, err.Message)
		} else {
			fmt.Printf("    %s -> %s: OK\n", from, t.to)
		}
	}

	// 7. Validation error demo
	fmt.Println("\n[9] Validation error examples:")
	cfg := api.DefaultValidationConfig()
	if err := api.ValidateGenerationRequest(&api.GenerationRequest{AssetType: "mascot", Prompt: "a fox"}, cfg); err != nil {
		fmt.Printf("    Unknown asset type: %v\n", err)
	}
	if err := api.ValidateGenerationRequest(&api.GenerationRequest{AssetType: api.AssetTypeLogo, Prompt: "  "}, cfg); err != nil {
		fmt.Printf("    Blank prompt: %v\n", err)
	}
	tooMany := 99
	if err := api.ValidateGenerationRequest(&api.GenerationRequest{AssetType: api.AssetTypeLogo, Prompt: "a fox", MaxRetries: &tooMany}, cfg); err != nil {
		fmt.Printf("    Retry budget: %v\n", err)
	}

	// 8. Typed errors
	fmt.Println("\n[10] Typed errors:")
	for _, err := range []*api.APIError{
		api.NewNotConfiguredError("image", "IMAGE_API_KEY"),
		api.NewQuotaExceededError("insufficient_quota", "quota exhausted"),
		api.NewProviderError("server_error", "backend unavailable"),
	} {
		fmt.Printf("    %-16s %s\n", err.Type, err.Message)
	}

	fmt.Println("\n=== demo complete ===")
}
