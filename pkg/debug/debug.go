// Package debug provides category-based debug logging for brandsmith.
//
// Categories select which pipeline stages log at DEBUG; BRANDSMITH_DEBUG
// (or debug.categories) lists them, comma separated. The slog level comes
// from BRANDSMITH_LOG_LEVEL (or debug.level). At TRACE, full prompts and
// model replies are logged.
//
//	debug.Log("quality", "verdict parsed", "score", v.Score)
package debug

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"
)

// Environment variables that override configured categories and level.
const (
	EnvCategories = "BRANDSMITH_DEBUG"
	EnvLevel      = "BRANDSMITH_LOG_LEVEL"
)

// LevelTrace is below slog.LevelDebug for maximum verbosity.
const LevelTrace = slog.LevelDebug - 4

// Known lists the categories the pipeline logs under. "all" enables every
// category.
var Known = []string{"engine", "brief", "quality", "providers", "secrets", "transport", "config"}

// categories is read-only after Init.
var categories map[string]bool

func init() {
	categories = parseCategories(os.Getenv(EnvCategories))
}

// Init configures categories and the default slog logger. Environment
// variables take precedence over the configured values. It returns the
// enabled categories that no component logs under, so the caller can warn
// about typos.
func Init(configCategories, configLevel string) (unknown []string) {
	cats := os.Getenv(EnvCategories)
	if cats == "" {
		cats = configCategories
	}
	categories = parseCategories(cats)

	level := os.Getenv(EnvLevel)
	if level == "" {
		level = configLevel
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})))

	for _, cat := range Categories() {
		if cat != "all" && !slices.Contains(Known, cat) {
			unknown = append(unknown, cat)
		}
	}
	return unknown
}

// Enabled reports whether debug output is active for the given category.
func Enabled(category string) bool {
	return categories["all"] || categories[category]
}

// Log emits a DEBUG message tagged with category. No-op when the category
// is disabled.
func Log(category, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Debug(msg, append([]any{"debug", category}, args...)...)
}

// Trace emits a TRACE message tagged with category.
func Trace(category, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Log(context.Background(), LevelTrace, msg, append([]any{"debug", category}, args...)...)
}

// ParseLevel converts a level name to a slog.Level. Unknown names mean INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Categories returns the enabled categories, sorted.
func Categories() []string {
	result := make([]string, 0, len(categories))
	for k := range categories {
		result = append(result, k)
	}
	slices.Sort(result)
	return result
}

// Truncate shortens s to at most maxLen runes, appending "..." when cut.
// It never splits a rune.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

func parseCategories(s string) map[string]bool {
	m := make(map[string]bool)
	for _, cat := range strings.Split(s, ",") {
		if cat = strings.ToLower(strings.TrimSpace(cat)); cat != "" {
			m[cat] = true
		}
	}
	return m
}
