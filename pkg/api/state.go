package api

import "fmt"

// PipelineState is a state of the generation pipeline.
type PipelineState string

const (
	StateEnhancing    PipelineState = "enhancing"
	StateGenerating   PipelineState = "generating"
	StateAssessing    PipelineState = "assessing"
	StateRegenerating PipelineState = "regenerating"
	StateDone         PipelineState = "done"
	StateFailed       PipelineState = "failed"
)

// pipelineTransitions lists the allowed outgoing transitions per state.
// GENERATING -> GENERATING is only taken by the retry failure policy.
var pipelineTransitions = map[PipelineState][]PipelineState{
	"":                {StateEnhancing, StateGenerating},
	StateEnhancing:    {StateGenerating, StateFailed},
	StateGenerating:   {StateAssessing, StateDone, StateFailed, StateGenerating},
	StateAssessing:    {StateDone, StateRegenerating, StateFailed},
	StateRegenerating: {StateGenerating, StateFailed},
}

// ValidatePipelineTransition checks whether a pipeline state transition is valid.
// An empty "from" state represents the initial state before the pipeline starts;
// plain flows skip enhancement and start in StateGenerating.
// Terminal states (done, failed) do not allow outgoing transitions.
func ValidatePipelineTransition(from, to PipelineState) *APIError {
	allowed, exists := pipelineTransitions[from]
	if !exists {
		return NewServerError(fmt.Sprintf("invalid pipeline transition from %s to %s", from, to))
	}

	for _, s := range allowed {
		if s == to {
			return nil
		}
	}

	return NewServerError(fmt.Sprintf("invalid pipeline transition from %s to %s", from, to))
}

// IsTerminal reports whether s ends the pipeline.
func (s PipelineState) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}
