package brief

import (
	"fmt"
	"strings"

	"github.com/rhuss/brandsmith/pkg/api"
)

// Template describes how a raw request for one asset type is expanded into
// a professional brief.
type Template struct {
	// Role is the specialist the brief is written for.
	Role string

	// Elements are the aspects the brief must cover, in order.
	Elements []string

	// Deliverable describes what the generation step should produce.
	Deliverable string
}

var templates = map[api.AssetType]Template{
	api.AssetTypeLogo: {
		Role: "logo designer",
		Elements: []string{
			"brand name and what the business does",
			"visual style and mood",
			"color palette with intended associations",
			"iconography or symbol concept",
			"typography direction",
			"usage constraints (scalable, works in monochrome, simple background)",
		},
		Deliverable: "a single clean, scalable logo on a plain background",
	},
	api.AssetTypeBanner: {
		Role: "digital banner designer",
		Elements: []string{
			"campaign goal and key message",
			"target audience",
			"layout and visual hierarchy for a wide format",
			"color palette and imagery",
			"headline and call to action placement",
		},
		Deliverable: "a wide promotional banner with clear hierarchy and space for text",
	},
	api.AssetTypePoster: {
		Role: "poster designer",
		Elements: []string{
			"event or product being promoted",
			"focal image and composition",
			"mood, style and color palette",
			"headline and supporting information",
			"audience and where the poster will be displayed",
		},
		Deliverable: "a portrait poster with a strong focal point readable from a distance",
	},
	api.AssetTypeSlogan: {
		Role: "brand copywriter",
		Elements: []string{
			"brand and offering",
			"target audience",
			"tone of voice",
			"core benefit or emotion to convey",
			"length and rhythm constraints",
		},
		Deliverable: "a numbered list of five short, memorable slogans",
	},
	api.AssetTypeTagline: {
		Role: "brand strategist",
		Elements: []string{
			"brand positioning",
			"differentiator versus competitors",
			"tone of voice",
			"audience",
		},
		Deliverable: "a numbered list of five concise taglines of at most eight words",
	},
	api.AssetTypeBrandName: {
		Role: "naming specialist",
		Elements: []string{
			"industry and offering",
			"personality and values the name should carry",
			"audience and markets",
			"linguistic constraints (length, pronunciation, avoid existing trademarks)",
		},
		Deliverable: "a numbered list of ten distinctive brand name candidates",
	},
}

// genericTemplate is used for asset types without a dedicated template.
var genericTemplate = Template{
	Role: "creative director",
	Elements: []string{
		"subject and purpose",
		"audience",
		"style, tone and mood",
		"key constraints",
	},
	Deliverable: "a polished creative asset matching the request",
}

// TemplateFor returns the template for t. Unknown asset types receive the
// generic template; the second return value reports whether a dedicated
// template exists.
func TemplateFor(t api.AssetType) (Template, bool) {
	tmpl, ok := templates[t]
	if !ok {
		return genericTemplate, false
	}
	return tmpl, true
}

// Instruction composes the rewrite instruction sent to the text capability.
func Instruction(req *api.GenerationRequest) string {
	tmpl, _ := TemplateFor(req.AssetType)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Rewrite the request below into a professional brief for a %s.\n", tmpl.Role)
	sb.WriteString("The brief must cover:\n")
	for _, e := range tmpl.Elements {
		fmt.Fprintf(&sb, "- %s\n", e)
	}
	fmt.Fprintf(&sb, "The brief will be used to produce %s.\n\n", tmpl.Deliverable)

	fmt.Fprintf(&sb, "Request: %s\n", strings.TrimSpace(req.Prompt))
	if ctx := api.FormatContext(req.Context); ctx != "" {
		sb.WriteString("\nContext:\n")
		sb.WriteString(ctx)
		sb.WriteString("\n")
	}

	sb.WriteString("\nRespond with the brief only, without preamble.")
	return sb.String()
}
