package segment

import (
	"strings"
	"unicode/utf8"
)

const (
	// maxParagraphLen is the length (in characters) past which a paragraph is flushed.
	maxParagraphLen = 250

	// sentenceStride flushes a paragraph on every index divisible by it.
	sentenceStride = 3
)

// Paragraphs splits prose into sentences and groups them into paragraphs.
//
// A paragraph is flushed after appending a sentence when it grew past 250
// characters, when the sentence index is a non-zero multiple of three, or
// when the last sentence was appended. The check runs after each append, so
// a single very long sentence still forms its own paragraph.
func Paragraphs(text string) []string {
	sentences := splitSentences(text)

	var paragraphs []string
	var current strings.Builder

	for i, sentence := range sentences {
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)

		if utf8.RuneCountInString(current.String()) > maxParagraphLen ||
			(i > 0 && i%sentenceStride == 0) ||
			i == len(sentences)-1 {
			if p := strings.TrimSpace(current.String()); p != "" {
				paragraphs = append(paragraphs, p)
			}
			current.Reset()
		}
	}

	if len(paragraphs) == 0 {
		if p := strings.TrimSpace(text); p != "" {
			return []string{p}
		}
	}
	return paragraphs
}

// splitSentences cuts text after every '.', '!' or '?'.
// A trailing fragment without terminator is kept as the last sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0

	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if s := strings.TrimSpace(text[start : i+1]); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}

	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
