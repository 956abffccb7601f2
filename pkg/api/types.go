package api

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Asset types
// ---------------------------------------------------------------------------

// AssetType identifies the kind of branded asset being generated.
type AssetType string

const (
	AssetTypeLogo      AssetType = "logo"
	AssetTypeBanner    AssetType = "banner"
	AssetTypePoster    AssetType = "poster"
	AssetTypeSlogan    AssetType = "slogan"
	AssetTypeTagline   AssetType = "tagline"
	AssetTypeBrandName AssetType = "brandname"
)

// AssetTypes lists every supported asset type in a stable order.
var AssetTypes = []AssetType{
	AssetTypeLogo,
	AssetTypeBanner,
	AssetTypePoster,
	AssetTypeSlogan,
	AssetTypeTagline,
	AssetTypeBrandName,
}

// ParseAssetType normalizes s and returns the matching AssetType.
// The second return value is false for unknown types.
func ParseAssetType(s string) (AssetType, bool) {
	t := AssetType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

// Valid reports whether t is one of the supported asset types.
func (t AssetType) Valid() bool {
	for _, known := range AssetTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsImage reports whether the asset is produced by the image capability.
func (t AssetType) IsImage() bool {
	switch t {
	case AssetTypeLogo, AssetTypeBanner, AssetTypePoster:
		return true
	}
	return false
}

// IsText reports whether the asset is produced by the text capability.
func (t AssetType) IsText() bool {
	switch t {
	case AssetTypeSlogan, AssetTypeTagline, AssetTypeBrandName:
		return true
	}
	return false
}

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

// GenerationRequest is a client request for a branded asset. It is treated
// as immutable once validated; the pipeline never modifies it.
type GenerationRequest struct {
	AssetType AssetType `json:"asset_type"`

	// Prompt is the raw, user-supplied request text.
	Prompt string `json:"prompt"`

	// Context holds type-specific hints (style, colors, industry, audience, ...).
	Context map[string]any `json:"context,omitempty"`

	// MaxRetries overrides the configured regeneration bound when set.
	MaxRetries *int `json:"max_retries,omitempty"`

	// SkipQualityCheck disables assessment and regeneration for this request.
	SkipQualityCheck bool `json:"skip_quality_check,omitempty"`

	// Size is the requested image size for image assets (e.g. "1024x1024").
	Size string `json:"size,omitempty"`
}

// TextGenerationRequest is a plain text generation request. It bypasses
// enhancement and quality assessment.
type TextGenerationRequest struct {
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
}

// ImageGenerationRequest is a plain image generation request. It bypasses
// enhancement and quality assessment.
type ImageGenerationRequest struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size,omitempty"`
}

// FormatContext renders context hints as sorted "key: value" lines.
// Slice values are joined with ", ". Empty keys and nil values are skipped.
func FormatContext(ctx map[string]any) string {
	if len(ctx) == 0 {
		return ""
	}
	keys := make([]string, 0, len(ctx))
	for k, v := range ctx {
		if strings.TrimSpace(k) == "" || v == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		val := formatContextValue(ctx[k])
		if val == "" {
			continue
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(val)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatContextValue(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, p := range val {
			if s := formatContextValue(p); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}

// ---------------------------------------------------------------------------
// Brief
// ---------------------------------------------------------------------------

// Brief is the prompt actually submitted for generation. It is either an
// enhanced rewrite of the raw prompt or the raw prompt itself. Lengths are
// counted in runes.
type Brief struct {
	Text         string `json:"text"`
	Enhanced     bool   `json:"enhanced"`
	SourceLength int    `json:"source_length"`
	ResultLength int    `json:"result_length"`
}

// PassthroughBrief returns a brief that uses the raw prompt unchanged.
func PassthroughBrief(raw string) Brief {
	return Brief{
		Text:         raw,
		Enhanced:     false,
		SourceLength: utf8.RuneCountInString(raw),
		ResultLength: utf8.RuneCountInString(raw),
	}
}

// Improved reports whether the brief is longer than the prompt it was
// derived from.
func (b Brief) Improved() bool {
	return b.ResultLength > b.SourceLength
}

// ---------------------------------------------------------------------------
// Attempts and verdicts
// ---------------------------------------------------------------------------

// Output is a generated artifact: text or an image reference.
type Output struct {
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// IsImage reports whether the output is an image reference.
func (o Output) IsImage() bool {
	return o.ImageURL != ""
}

// String returns the image URL for image outputs and the text otherwise.
func (o Output) String() string {
	if o.IsImage() {
		return o.ImageURL
	}
	return o.Text
}

// GenerationAttempt records a single pass through the generation call.
type GenerationAttempt struct {
	Brief     Brief           `json:"brief"`
	Output    Output          `json:"output"`
	Index     int             `json:"index"`
	Succeeded bool            `json:"succeeded"`
	ErrorKind ErrorType       `json:"error_kind,omitempty"`
	Verdict   *QualityVerdict `json:"verdict,omitempty"`
}

// VerdictSource records how a verdict was derived.
type VerdictSource string

const (
	VerdictSourceStructured VerdictSource = "structured"
	VerdictSourceHeuristic  VerdictSource = "heuristic"
	VerdictSourceNeutral    VerdictSource = "neutral"
)

// Score thresholds for quality verdicts.
const (
	MinScore = 1
	MaxScore = 10

	// PassScore is the minimum score that meets requirements.
	PassScore = 6

	// RegenerateBelow is the score under which regeneration is warranted.
	RegenerateBelow = 5

	// NeutralScore is used when assessment is unavailable.
	NeutralScore = 7
)

// QualityVerdict is a structured judgment of one generated artifact.
// Use NewVerdict to construct one; the derived flags always agree with
// the score.
type QualityVerdict struct {
	Score             int           `json:"score"`
	MeetsRequirements bool          `json:"meets_requirements"`
	ShouldRegenerate  bool          `json:"should_regenerate"`
	Feedback          string        `json:"feedback"`
	Strengths         []string      `json:"strengths"`
	Improvements      []string      `json:"improvements"`
	Source            VerdictSource `json:"source"`
}

// NewVerdict builds a verdict, clamping the score to [MinScore, MaxScore]
// and deriving MeetsRequirements and ShouldRegenerate from it.
func NewVerdict(score int, feedback string, strengths, improvements []string, source VerdictSource) QualityVerdict {
	if score < MinScore {
		score = MinScore
	}
	if score > MaxScore {
		score = MaxScore
	}
	if strengths == nil {
		strengths = []string{}
	}
	if improvements == nil {
		improvements = []string{}
	}
	return QualityVerdict{
		Score:             score,
		MeetsRequirements: score >= PassScore,
		ShouldRegenerate:  score < RegenerateBelow,
		Feedback:          feedback,
		Strengths:         strengths,
		Improvements:      improvements,
		Source:            source,
	}
}

// NeutralVerdict is the pass-through verdict used when assessment cannot run.
func NeutralVerdict(reason string) QualityVerdict {
	feedback := "Quality assessment unavailable; result accepted as is."
	if reason != "" {
		feedback = fmt.Sprintf("Quality assessment unavailable (%s); result accepted as is.", reason)
	}
	return NewVerdict(NeutralScore, feedback, nil, nil, VerdictSourceNeutral)
}

// ---------------------------------------------------------------------------
// Result
// ---------------------------------------------------------------------------

// GenerationResult is the terminal output of the pipeline with full
// provenance metadata.
type GenerationResult struct {
	ID        string    `json:"id"`
	Object    string    `json:"object"`
	AssetType AssetType `json:"asset_type,omitempty"`

	// Text holds the generated text for text outputs.
	Text string `json:"result,omitempty"`

	// Items holds the individual entries parsed from list-style text
	// outputs (slogans, taglines, brand names).
	Items []string `json:"items,omitempty"`

	// ImageURL holds the image reference for image outputs.
	ImageURL string `json:"image_url,omitempty"`

	Provider       string `json:"provider"`
	Model          string `json:"model,omitempty"`
	PromptEnhanced bool   `json:"prompt_enhanced"`
	FinalBrief     string `json:"final_brief,omitempty"`

	QualityAssessment *QualityVerdict `json:"quality_assessment,omitempty"`

	// RegenerationCount is the number of completed attempts beyond the first.
	RegenerationCount int `json:"regeneration_count"`

	// Attempts is the total number of generation calls made, including
	// failed calls repeated under the retry failure policy.
	Attempts int `json:"attempts"`

	// SucceededAttempt is the 0-based index of the attempt that produced
	// this result.
	SucceededAttempt int `json:"succeeded_attempt"`

	CreatedAt int64 `json:"created_at"`
}
