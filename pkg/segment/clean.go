package segment

import (
	"regexp"
	"strings"
)

var (
	spanPattern       = regexp.MustCompile(`<span[^>]*>(.*?)</span>`)
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	multiSpacePattern = regexp.MustCompile(`  +`)
	multiBreakPattern = regexp.MustCompile(`\n\n+`)
)

// lineBreaks are the legacy spellings of a line break tag.
var lineBreaks = []string{"<br>", "<br/>", "<br />"}

// entities are decoded one after another, in this order.
var entities = [][2]string{
	{"&quot;", `"`},
	{"&#39;", "'"},
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&nbsp;", " "},
}

// choiceArrows are decorative tokens authors put in front of choice labels.
var choiceArrows = []string{"->", "→"}

// Clean strips markup from raw scene content and normalises whitespace.
// Malformed markup degrades to its visible text.
func Clean(raw string) string {
	cleaned := raw

	for _, br := range lineBreaks {
		cleaned = strings.ReplaceAll(cleaned, br, "\n")
	}

	cleaned = spanPattern.ReplaceAllString(cleaned, "$1")
	cleaned = tagPattern.ReplaceAllString(cleaned, "")

	for _, e := range entities {
		cleaned = strings.ReplaceAll(cleaned, e[0], e[1])
	}

	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	cleaned = multiBreakPattern.ReplaceAllString(cleaned, "\n")

	return strings.TrimSpace(cleaned)
}

// CleanChoiceText removes decorative arrows from a choice label.
func CleanChoiceText(text string) string {
	cleaned := text
	for _, arrow := range choiceArrows {
		cleaned = strings.ReplaceAll(cleaned, arrow, "")
	}
	return strings.TrimSpace(cleaned)
}
