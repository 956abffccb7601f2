package provider

import (
	"fmt"
	"slices"

	"github.com/rhuss/brandsmith/pkg/api"
)

// Supports reports whether the capabilities include the given kind.
func (c Capabilities) Supports(kind Kind) bool {
	switch kind {
	case KindText:
		return c.Text
	case KindImage:
		return c.Image
	}
	return false
}

// ValidateCapabilities checks whether a call of the given kind is compatible
// with the provider's declared capabilities. size is only checked for image
// calls. Returns an APIError identifying the unsupported feature, or nil.
func ValidateCapabilities(caps Capabilities, kind Kind, size string) *api.APIError {
	if !caps.Supports(kind) {
		return api.NewInvalidRequestError("asset_type",
			fmt.Sprintf("the configured provider does not support %s generation", kind))
	}

	if kind == KindImage && size != "" && len(caps.ImageSizes) > 0 {
		if !slices.Contains(caps.ImageSizes, size) {
			return api.NewInvalidRequestError("size",
				fmt.Sprintf("the configured provider does not support image size %q", size))
		}
	}

	return nil
}
