package quality

import (
	"fmt"
	"strings"

	"github.com/rhuss/brandsmith/pkg/api"
)

// Criterion is one weighted rubric entry.
type Criterion struct {
	Name        string
	Description string

	// Weight is the criterion's share of the score in percent.
	Weight int
}

// Rubric is the set of criteria an asset type is judged against.
type Rubric []Criterion

var rubrics = map[api.AssetType]Rubric{
	api.AssetTypeLogo: {
		{"Design quality", "composition, balance, simplicity and visual appeal", 25},
		{"Brand alignment", "fits the brand name, industry and personality", 25},
		{"Technical execution", "scalable, legible, works in monochrome", 25},
		{"Requirement fulfillment", "honors every explicit element of the request", 25},
	},
	api.AssetTypeBanner: {
		{"Visual hierarchy", "message, imagery and call to action read in order", 25},
		{"Brand alignment", "colors, tone and imagery fit the brand", 25},
		{"Format suitability", "works in a wide layout with room for text", 25},
		{"Requirement fulfillment", "honors every explicit element of the request", 25},
	},
	api.AssetTypePoster: {
		{"Impact", "strong focal point, readable from a distance", 25},
		{"Composition", "layout, typography space and balance", 25},
		{"Mood and style", "matches the requested atmosphere", 25},
		{"Requirement fulfillment", "honors every explicit element of the request", 25},
	},
	api.AssetTypeSlogan: {
		{"Memorability", "short, rhythmic and easy to recall", 25},
		{"Brand alignment", "fits the brand, offering and tone", 25},
		{"Clarity", "communicates a clear benefit or emotion", 25},
		{"Requirement fulfillment", "honors every explicit element of the request", 25},
	},
	api.AssetTypeTagline: {
		{"Positioning", "expresses what sets the brand apart", 25},
		{"Concision", "at most eight words, no filler", 25},
		{"Tone", "matches the requested voice", 25},
		{"Requirement fulfillment", "honors every explicit element of the request", 25},
	},
	api.AssetTypeBrandName: {
		{"Distinctiveness", "unique and unlikely to be confused with competitors", 25},
		{"Relevance", "evokes the industry, values or personality", 25},
		{"Usability", "easy to spell, pronounce and remember", 25},
		{"Requirement fulfillment", "honors every explicit element of the request", 25},
	},
}

var genericRubric = Rubric{
	{"Overall quality", "craft and polish of the result", 25},
	{"Relevance", "addresses the request directly", 25},
	{"Style", "matches the requested tone and style", 25},
	{"Requirement fulfillment", "honors every explicit element of the request", 25},
}

// RubricFor returns the rubric for t, or a generic rubric for unknown types.
func RubricFor(t api.AssetType) Rubric {
	if r, ok := rubrics[t]; ok {
		return r
	}
	return genericRubric
}

// TotalWeight returns the sum of all criterion weights.
func (r Rubric) TotalWeight() int {
	total := 0
	for _, c := range r {
		total += c.Weight
	}
	return total
}

// String renders the rubric as a bulleted list.
func (r Rubric) String() string {
	var sb strings.Builder
	for _, c := range r {
		fmt.Fprintf(&sb, "- %s (%d%%): %s\n", c.Name, c.Weight, c.Description)
	}
	return strings.TrimRight(sb.String(), "\n")
}
