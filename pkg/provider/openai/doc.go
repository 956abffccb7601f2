// Package openai implements provider.Provider on top of the official
// github.com/openai/openai-go SDK. Text generation uses Chat Completions,
// image generation uses the Images API. The API key is resolved through a
// provider.KeySource on every call.
package openai
