// Package provider defines the generation capability used by the pipeline.
// A provider exposes two explicit capabilities, text and image, and the
// caller selects one per call by Kind. Adapters (e.g., openai) handle their
// own backend protocol and map backend failures to *api.APIError values of
// type quota_exceeded or provider_error.
package provider
