package quality

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rhuss/brandsmith/pkg/api"
	"github.com/rhuss/brandsmith/pkg/debug"
)

// ParseKind tags the outcome of parsing an assessment response.
type ParseKind int

const (
	// Structured means a JSON verdict with a numeric score was decoded.
	Structured ParseKind = iota + 1

	// Unstructured means the response is free text and must be scored
	// heuristically.
	Unstructured
)

func (k ParseKind) String() string {
	switch k {
	case Structured:
		return "structured"
	case Unstructured:
		return "unstructured"
	}
	return "unknown"
}

// Parsed is the tagged result of Parse.
type Parsed struct {
	Kind ParseKind

	// Verdict is set when Kind is Structured.
	Verdict api.QualityVerdict

	// Raw is the original response text.
	Raw string
}

// Resolve returns the structured verdict, or a heuristic verdict derived
// from the raw text for unstructured responses.
func (p Parsed) Resolve() api.QualityVerdict {
	if p.Kind == Structured {
		return p.Verdict
	}
	return HeuristicVerdict(p.Raw)
}

// rawVerdict mirrors the JSON shape requested from the assessor model.
type rawVerdict struct {
	Score        json.RawMessage `json:"score"`
	Feedback     string          `json:"feedback"`
	Strengths    []string        `json:"strengths"`
	Improvements []string        `json:"improvements"`
	Weaknesses   []string        `json:"weaknesses"`
}

// Parse decodes an assessment response. JSON may be bare, fenced in a
// markdown code block, or embedded in prose.
func Parse(raw string) Parsed {
	for _, candidate := range jsonCandidates(raw) {
		var rv rawVerdict
		if err := json.Unmarshal([]byte(candidate), &rv); err != nil {
			continue
		}
		score, ok := parseScore(rv.Score)
		if !ok {
			continue
		}
		improvements := rv.Improvements
		if len(improvements) == 0 {
			improvements = rv.Weaknesses
		}
		return Parsed{
			Kind: Structured,
			Verdict: api.NewVerdict(score, strings.TrimSpace(rv.Feedback),
				cleanList(rv.Strengths), cleanList(improvements), api.VerdictSourceStructured),
			Raw: raw,
		}
	}
	return Parsed{Kind: Unstructured, Raw: raw}
}

// jsonCandidates returns substrings of s that may hold a JSON object, most
// specific first.
func jsonCandidates(s string) []string {
	var out []string
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "```"); start >= 0 {
		body := s[start+3:]
		// Drop the language tag line (```json).
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			body = body[nl+1:]
		}
		if end := strings.Index(body, "```"); end >= 0 {
			out = append(out, strings.TrimSpace(body[:end]))
		}
	}

	out = append(out, s)

	if first, last := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}'); first >= 0 && last > first {
		out = append(out, s[first:last+1])
	}
	return out
}

// parseScore accepts a JSON number or a numeric string, clamps it to the
// score range and rounds to int.
func parseScore(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		// Accept "8" and "8/10".
		s, _, _ = strings.Cut(strings.TrimSpace(s), "/")
		f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Max(api.MinScore, math.Min(api.MaxScore, f))
	return int(math.Round(f)), true
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

// heuristicRules map phrases to scores. The first matching rule wins.
var heuristicRules = []struct {
	phrases []string
	score   int
}{
	{[]string{"excellent"}, 9},
	{[]string{"good"}, 7},
	{[]string{"acceptable"}, 6},
	{[]string{"poor", "issues"}, 4},
}

// HeuristicDefaultScore is used when no phrase matches.
const HeuristicDefaultScore = 7

// HeuristicScore derives a coarse score from free-text feedback.
func HeuristicScore(text string) int {
	lower := strings.ToLower(text)
	for _, rule := range heuristicRules {
		for _, p := range rule.phrases {
			if strings.Contains(lower, p) {
				return rule.score
			}
		}
	}
	return HeuristicDefaultScore
}

// HeuristicVerdict builds a verdict from free-text feedback.
func HeuristicVerdict(text string) api.QualityVerdict {
	feedback := debug.Truncate(strings.TrimSpace(text), 500)
	return api.NewVerdict(HeuristicScore(text), feedback, nil, nil, api.VerdictSourceHeuristic)
}
