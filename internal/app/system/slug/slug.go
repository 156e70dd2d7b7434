// Package slug derives URL-safe identifiers from titles.
package slug

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxLen is the longest slug Make returns.
const MaxLen = 120

// Fallback is used when a title contains no slug-able characters.
const Fallback = "item"

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make folds compatibility characters (ligatures, full-width forms), strips
// diacritics, lowercases, collapses every run of characters
// outside [a-z0-9] to a single hyphen and trims hyphens from both ends.
//
//	Make("Mission & Vision!!") == "mission-vision"
func Make(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(strings.ToLower(strings.TrimSpace(s))) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}

	// Compatibility forms such as Ⅻ decompose to upper case.
	out := strings.ToLower(b.String())
	out = strings.Trim(nonAlnum.ReplaceAllString(out, "-"), "-")
	if utf8.RuneCountInString(out) > MaxLen {
		out = strings.Trim(out[:MaxLen], "-")
	}
	if out == "" {
		return Fallback
	}
	return out
}
