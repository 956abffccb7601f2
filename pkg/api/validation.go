package api

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ValidationConfig holds configurable limits for request validation.
type ValidationConfig struct {
	MaxPromptLength   int
	MaxContextEntries int

	// MaxRetriesLimit caps per-request max_retries overrides.
	MaxRetriesLimit int
}

// DefaultValidationConfig returns a ValidationConfig with sensible defaults.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		MaxPromptLength:   4000,
		MaxContextEntries: 32,
		MaxRetriesLimit:   5,
	}
}

var sizePattern = regexp.MustCompile(`^[1-9][0-9]{1,4}x[1-9][0-9]{1,4}$`)

// ValidateGenerationRequest checks a GenerationRequest for validity. It returns
// an *APIError describing the first validation failure, or nil if the request
// is valid. The asset type is matched case-insensitively; req is not modified.
func ValidateGenerationRequest(req *GenerationRequest, cfg ValidationConfig) *APIError {
	if req.AssetType == "" {
		return NewInvalidRequestError("asset_type", "asset_type is required")
	}
	t, ok := ParseAssetType(string(req.AssetType))
	if !ok {
		return NewInvalidRequestError("asset_type",
			fmt.Sprintf("unsupported asset_type %q", req.AssetType))
	}

	if apiErr := validatePrompt(req.Prompt, cfg); apiErr != nil {
		return apiErr
	}

	if cfg.MaxContextEntries > 0 && len(req.Context) > cfg.MaxContextEntries {
		return NewInvalidRequestError("context",
			fmt.Sprintf("context exceeds maximum of %d entries", cfg.MaxContextEntries))
	}

	if req.MaxRetries != nil {
		if *req.MaxRetries < 0 {
			return NewInvalidRequestError("max_retries", "max_retries must not be negative")
		}
		if cfg.MaxRetriesLimit > 0 && *req.MaxRetries > cfg.MaxRetriesLimit {
			return NewInvalidRequestError("max_retries",
				fmt.Sprintf("max_retries exceeds maximum of %d", cfg.MaxRetriesLimit))
		}
	}

	if req.Size != "" {
		if !t.IsImage() {
			return NewInvalidRequestError("size", "size is only supported for image assets")
		}
		if apiErr := ValidateSize(req.Size); apiErr != nil {
			return apiErr
		}
	}

	return nil
}

// ValidateTextRequest checks a plain text generation request.
func ValidateTextRequest(req *TextGenerationRequest, cfg ValidationConfig) *APIError {
	return validatePrompt(req.Prompt, cfg)
}

// ValidateImageRequest checks a plain image generation request.
func ValidateImageRequest(req *ImageGenerationRequest, cfg ValidationConfig) *APIError {
	if apiErr := validatePrompt(req.Prompt, cfg); apiErr != nil {
		return apiErr
	}
	if req.Size != "" {
		return ValidateSize(req.Size)
	}
	return nil
}

// ValidateSize checks an image size of the form WIDTHxHEIGHT.
func ValidateSize(size string) *APIError {
	if !sizePattern.MatchString(size) {
		return NewInvalidRequestError("size",
			fmt.Sprintf("invalid size %q: must be WIDTHxHEIGHT", size))
	}
	return nil
}

func validatePrompt(prompt string, cfg ValidationConfig) *APIError {
	if strings.TrimSpace(prompt) == "" {
		return NewInvalidRequestError("prompt", "prompt is required")
	}
	if cfg.MaxPromptLength > 0 && utf8.RuneCountInString(prompt) > cfg.MaxPromptLength {
		return NewInvalidRequestError("prompt",
			fmt.Sprintf("prompt exceeds maximum length of %d characters", cfg.MaxPromptLength))
	}
	return nil
}
