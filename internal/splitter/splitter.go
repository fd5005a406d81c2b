// Package splitter segments text into sentences with a boundary heuristic:
// a terminal mark (. ! ?) followed by whitespace and a capital letter ends a
// sentence. Abbreviations, decimals and quoted capitals are not special-cased,
// so such inputs can over- or under-split; that is accepted behavior.
package splitter

import (
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

// Split returns the trimmed, non-empty sentences of text in original order.
// Whitespace runs (including newlines) are collapsed to single spaces first.
// Text without any boundary comes back as one sentence; empty or
// whitespace-only text comes back as nil.
func Split(text string) []string {
	norm := strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
	if norm == "" {
		return nil
	}

	var sentences []string
	start := 0
	// After normalization every separator is a single ASCII space, so the
	// boundary test is a three-byte window.
	for i := 0; i+2 < len(norm); i++ {
		if isTerminal(norm[i]) && norm[i+1] == ' ' && isUpper(norm[i+2]) {
			if s := strings.TrimSpace(norm[start : i+1]); s != "" {
				sentences = append(sentences, s)
			}
			start = i + 2
			i++ // skip the separator space
		}
	}
	if s := strings.TrimSpace(norm[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isTerminal(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}
