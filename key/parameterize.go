package key

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	unsafeRuns = regexp.MustCompile(`[^a-z0-9\-_]+`)
	dashRuns   = regexp.MustCompile(`-{2,}`)
)

// Parameterize returns a URL-safe form of s: accents are stripped, letters
// lowered, every run of characters outside [a-z0-9_-] becomes one "-", and
// leading and trailing dashes are trimmed.
//
//	Parameterize("/Catálogo/Sale 2024?page=2") == "catalogo-sale-2024-page-2"
func Parameterize(s string) string {
	// transform.Chain is stateful, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, s)
	if err != nil {
		ascii = s
	}

	out := unsafeRuns.ReplaceAllString(strings.ToLower(ascii), "-")
	out = dashRuns.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}
