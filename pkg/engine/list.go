package engine

import (
	"regexp"
	"strings"
)

// listMarker matches leading numbering ("1.", "2)", "(3)", "4:", "5 -")
// and bullets ("-", "*", "•").
var listMarker = regexp.MustCompile(`^\s*(?:\(?\d{1,3}[.):\]]\s*|\d{1,3}\s+-\s+|[-*•]\s+)`)

// ParseList splits list-style model output into its entries. Leading
// numbering, bullets, surrounding quotes and markdown emphasis are removed
// and blank lines dropped. When some lines carry list markers, unmarked
// lines (preambles such as "Here are five slogans:") are dropped too.
func ParseList(text string) []string {
	var marked, all []string
	for _, line := range strings.Split(text, "\n") {
		loc := listMarker.FindStringIndex(line)
		entry := line
		if loc != nil {
			entry = line[loc[1]:]
		}
		entry = cleanEntry(entry)
		if entry == "" {
			continue
		}
		all = append(all, entry)
		if loc != nil {
			marked = append(marked, entry)
		}
	}
	if len(marked) > 0 {
		return marked
	}
	return all
}

func cleanEntry(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_")
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'“”‘’")
	return strings.TrimSpace(s)
}
