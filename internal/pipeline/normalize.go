package pipeline

import (
	"regexp"
	"strings"
)

var (
	markupPattern     = regexp.MustCompile(`<[^>]+>`)
	charsetPattern    = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.,]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize reduces a raw vacancy description to plain text: markup tags
// removed, characters outside letters, digits, underscore, whitespace,
// hyphen, comma and period dropped, and runs of whitespace collapsed to
// single spaces. Idempotent; empty input yields empty output.
func Normalize(raw string) string {
	text := markupPattern.ReplaceAllString(raw, "")
	text = charsetPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
