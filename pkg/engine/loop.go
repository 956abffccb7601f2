package engine

import (
	"context"
	"log/slog"

	"github.com/rhuss/brandsmith/pkg/api"
	"github.com/rhuss/brandsmith/pkg/debug"
	"github.com/rhuss/brandsmith/pkg/observability"
	"github.com/rhuss/brandsmith/pkg/provider"
	"github.com/rhuss/brandsmith/pkg/quality"
)

// pipeline tracks the state of one request. Every move goes through
// api.ValidatePipelineTransition.
type pipeline struct {
	label string
	state api.PipelineState
}

func (p *pipeline) advance(to api.PipelineState) error {
	if apiErr := api.ValidatePipelineTransition(p.state, to); apiErr != nil {
		return apiErr
	}
	debug.Log("engine", "state transition", "asset", p.label, "from", p.state, "to", to)
	p.state = to
	return nil
}

// fail moves the pipeline to FAILED and returns cause.
func (p *pipeline) fail(cause error) error {
	if err := p.advance(api.StateFailed); err != nil {
		return err
	}
	return cause
}

// runPipeline executes the bounded regeneration loop:
//
//	ENHANCING -> GENERATING -> ASSESSING -> DONE
//	                  ^            |
//	                  +-- REGENERATING
//
// The loop makes at most retries+1 generation calls. When every verdict
// asks for regeneration the last output is returned.
func (e *Engine) runPipeline(ctx context.Context, req *api.GenerationRequest) (*api.GenerationResult, error) {
	kind := provider.KindFor(req.AssetType)
	if err := e.checkCapability(ctx, kind, req.Size); err != nil {
		return nil, err
	}

	p := &pipeline{label: string(req.AssetType)}
	if err := p.advance(api.StateEnhancing); err != nil {
		return nil, err
	}
	b := e.enhancer.Enhance(ctx, req)
	if err := ctx.Err(); err != nil {
		return nil, p.fail(cancelled(err))
	}

	retries := e.cfg.retriesFor(req)
	assess := !req.SkipQualityCheck && !e.cfg.DisableQualityCheck
	policy := e.cfg.failurePolicy()

	var (
		attempts      []api.GenerationAttempt
		regenerations int
	)

	for index := 0; index <= retries; index++ {
		if err := ctx.Err(); err != nil {
			return nil, p.fail(cancelled(err))
		}
		if err := p.advance(api.StateGenerating); err != nil {
			return nil, err
		}

		out, model, err := e.generate(ctx, kind, b, req.Size)
		if err != nil {
			attempts = append(attempts, api.GenerationAttempt{
				Brief:     b,
				Index:     index,
				ErrorKind: api.KindOf(err),
			})
			if ctx.Err() != nil {
				return nil, p.fail(cancelled(ctx.Err()))
			}
			if policy == FailurePolicyRetry && retryable(err) && index < retries {
				slog.Warn("generation attempt failed, retrying",
					"asset_type", req.AssetType, "attempt", index, "error", err.Error())
				continue
			}
			return nil, p.fail(err)
		}

		attempt := api.GenerationAttempt{
			Brief:     b,
			Output:    out,
			Index:     index,
			Succeeded: true,
		}

		if !assess {
			attempts = append(attempts, attempt)
			if err := p.advance(api.StateDone); err != nil {
				return nil, err
			}
			return e.pipelineResult(req, b, attempt, model, attempts, regenerations), nil
		}

		if err := p.advance(api.StateAssessing); err != nil {
			return nil, err
		}
		verdict := e.assessor.Assess(ctx, quality.Input{
			Output:         out,
			AssetType:      req.AssetType,
			OriginalPrompt: req.Prompt,
			Context:        req.Context,
		})
		// The assessor absorbs a cancelled call into a neutral verdict.
		if err := ctx.Err(); err != nil {
			return nil, p.fail(cancelled(err))
		}
		attempt.Verdict = &verdict
		attempts = append(attempts, attempt)

		debug.Log("engine", "attempt assessed",
			"asset_type", req.AssetType,
			"attempt", index,
			"score", verdict.Score,
			"source", verdict.Source,
			"regenerate", verdict.ShouldRegenerate)

		if !verdict.ShouldRegenerate || index == retries {
			if err := p.advance(api.StateDone); err != nil {
				return nil, err
			}
			return e.pipelineResult(req, b, attempt, model, attempts, regenerations), nil
		}

		if err := p.advance(api.StateRegenerating); err != nil {
			return nil, err
		}
		regenerations++
		observability.RegenerationsTotal.WithLabelValues(string(req.AssetType)).Inc()
	}

	// Not reached: the last iteration always returns.
	return nil, p.fail(api.NewServerError("generation budget exhausted"))
}

// runPlain executes a single generation call for the plain flows.
func (e *Engine) runPlain(ctx context.Context, kind provider.Kind, size string,
	call func(context.Context) (api.Output, string, error)) (*api.GenerationResult, error) {
	if err := e.checkCapability(ctx, kind, size); err != nil {
		return nil, err
	}

	p := &pipeline{label: string(kind)}
	if err := p.advance(api.StateGenerating); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, p.fail(cancelled(err))
	}

	out, model, err := call(ctx)
	if err != nil {
		return nil, p.fail(err)
	}
	if err := p.advance(api.StateDone); err != nil {
		return nil, err
	}

	result := e.newResult("", out, model)
	result.Attempts = 1
	return result, nil
}

func (e *Engine) pipelineResult(req *api.GenerationRequest, b api.Brief, final api.GenerationAttempt,
	model string, attempts []api.GenerationAttempt, regenerations int) *api.GenerationResult {
	result := e.newResult(req.AssetType, final.Output, model)
	result.PromptEnhanced = b.Enhanced
	result.FinalBrief = b.Text
	result.QualityAssessment = final.Verdict
	result.RegenerationCount = regenerations
	result.Attempts = len(attempts)
	result.SucceededAttempt = final.Index
	if req.AssetType.IsText() {
		result.Items = ParseList(final.Output.Text)
	}

	slog.Info("generation completed",
		"id", result.ID,
		"asset_type", req.AssetType,
		"attempts", result.Attempts,
		"regenerations", regenerations,
		"enhanced", b.Enhanced)
	return result
}

func cancelled(err error) *api.APIError {
	return api.NewCancelledError("generation cancelled: " + err.Error())
}

// retryable reports whether the retry policy may repeat a failed call.
// Configuration, quota and cancellation failures are never repeated.
func retryable(err error) bool {
	return api.KindOf(err) == api.ErrorTypeProviderError
}
