package engine

import (
	"fmt"
	"strings"

	"github.com/rhuss/brandsmith/pkg/api"
)

// FailurePolicy decides what happens when a generation call fails hard.
type FailurePolicy string

const (
	// FailurePolicyAbort fails the request with the typed error.
	FailurePolicyAbort FailurePolicy = "abort"

	// FailurePolicyRetry repeats a failed provider_error call while
	// attempts remain. Each repeat consumes one attempt.
	FailurePolicyRetry FailurePolicy = "retry"
)

// ParseFailurePolicy converts s into a FailurePolicy. Empty means abort.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return FailurePolicyAbort, nil
	case FailurePolicyAbort, FailurePolicyRetry:
		return p, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q (expected abort or retry)", s)
	}
}

// Config holds configuration for the orchestrator.
type Config struct {
	// MaxRetries is the number of quality-triggered regenerations allowed
	// for design assets. Zero or negative means use the default of 2.
	// Requests may override it with max_retries, including 0.
	MaxRetries int

	// MaxRetriesLimit caps MaxRetries and per-request overrides.
	// Zero or negative means 5.
	MaxRetriesLimit int

	// FailurePolicy applies to hard generation failures. Empty means abort.
	FailurePolicy FailurePolicy

	// DisableQualityCheck turns assessment off for every request.
	DisableQualityCheck bool

	// Validation limits for incoming requests. The zero value means
	// api.DefaultValidationConfig with MaxRetriesLimit applied.
	Validation api.ValidationConfig

	// Enhancer and Assessor replace the default implementations built on
	// the provider's text capability. Mostly useful in tests.
	Enhancer BriefEnhancer
	Assessor QualityAssessor
}

// maxRetries returns the effective regeneration bound, defaulting to 2.
func (c Config) maxRetries() int {
	n := c.MaxRetries
	if n <= 0 {
		n = 2
	}
	return min(n, c.maxRetriesLimit())
}

// maxRetriesLimit returns the effective override cap, defaulting to 5.
func (c Config) maxRetriesLimit() int {
	if c.MaxRetriesLimit <= 0 {
		return 5
	}
	return c.MaxRetriesLimit
}

func (c Config) failurePolicy() FailurePolicy {
	if c.FailurePolicy == "" {
		return FailurePolicyAbort
	}
	return c.FailurePolicy
}

func (c Config) validation() api.ValidationConfig {
	v := c.Validation
	if v == (api.ValidationConfig{}) {
		v = api.DefaultValidationConfig()
	}
	v.MaxRetriesLimit = c.maxRetriesLimit()
	return v
}

// retriesFor resolves the regeneration bound for one request.
func (c Config) retriesFor(req *api.GenerationRequest) int {
	if req.MaxRetries == nil {
		return c.maxRetries()
	}
	return max(0, min(*req.MaxRetries, c.maxRetriesLimit()))
}
