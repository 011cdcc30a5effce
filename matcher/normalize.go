package matcher

import (
	"regexp"
	"strings"
)

var (
	reNonAlnum   = regexp.MustCompile(`[^a-z0-9\s]`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes text for matching: lowercase, every character
// outside [a-z0-9] and whitespace becomes a space, whitespace runs collapse
// to a single space, surrounding whitespace is trimmed.
//
// The result contains only lowercase ASCII letters, digits and single spaces.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = reNonAlnum.ReplaceAllString(text, " ")
	text = reWhitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
