package segment

import (
	"regexp"
	"strings"
)

// Kind tells presentation layers how to render a segment.
type Kind string

const (
	KindParagraph Kind = "paragraph"
	KindCharacter Kind = "character"
)

// Segment is one render-ready block of scene content.
type Segment struct {
	Kind Kind `json:"kind"`

	// Text is set for paragraphs.
	Text string `json:"text,omitempty"`

	// Name, Role and Description are set for character introductions.
	Name        string `json:"name,omitempty"`
	Role        string `json:"role,omitempty"`
	Description string `json:"description,omitempty"`
}

// IsCharacter reports whether the segment is a character introduction.
func (s Segment) IsCharacter() bool {
	return s.Kind == KindCharacter
}

// characterPattern matches `"Name (Role): "Description"`. A closing quote
// right after the description wraps the whole introduction and belongs to it.
var characterPattern = regexp.MustCompile(`"([^"]+)\s*\(([^)]+)\):\s*"([^"]+)""?`)

// Split cleans raw scene content and splits it into paragraphs and
// character introductions, in source order. Empty input yields no segments.
func Split(raw string) []Segment {
	return segmentClean(Clean(raw))
}

func segmentClean(text string) []Segment {
	var segments []Segment
	last := 0

	for _, m := range characterPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		if start > last {
			segments = appendParagraphs(segments, text[last:start])
		}
		segments = append(segments, Segment{
			Kind:        KindCharacter,
			Name:        strings.TrimSpace(text[m[2]:m[3]]),
			Role:        strings.TrimSpace(text[m[4]:m[5]]),
			Description: strings.TrimSpace(text[m[6]:m[7]]),
		})
		last = end
	}

	if last < len(text) {
		segments = appendParagraphs(segments, text[last:])
	}

	if len(segments) == 0 {
		segments = appendParagraphs(segments, text)
	}
	return segments
}

func appendParagraphs(segments []Segment, text string) []Segment {
	text = strings.TrimSpace(text)
	if text == "" {
		return segments
	}
	for _, p := range Paragraphs(text) {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, Segment{Kind: KindParagraph, Text: p})
		}
	}
	return segments
}

// Plain joins segments back into display text, one block per line.
// Character introductions are rendered as `Name (Role): Description`.
func Plain(segments []Segment) string {
	lines := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.IsCharacter() {
			lines = append(lines, s.Name+" ("+s.Role+"): "+s.Description)
			continue
		}
		lines = append(lines, s.Text)
	}
	return strings.Join(lines, "\n")
}
