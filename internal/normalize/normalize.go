// Package normalize cleans free-text addresses and flags virtual providers
// before any geocoding is attempted.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// Floor and room references in either word order: "3rd floor",
	// "floor 2", "101 room", "room 101".
	floorRe      = regexp.MustCompile(`\b\d+(st|nd|rd|th)?\s*floor\b`)
	floorPreRe   = regexp.MustCompile(`\bfloor\s*\d+(st|nd|rd|th)?\b`)
	roomRe       = regexp.MustCompile(`\b\d+(st|nd|rd|th)?\s*room\b`)
	roomPreRe    = regexp.MustCompile(`\broom\s*\d+(st|nd|rd|th)?\b`)
	nextToRe     = regexp.MustCompile(`\bnext to\b`)
	offRe        = regexp.MustCompile(`\boff\b`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// suffixCompressions rewrites long-form address suffixes to the short
// forms the geocoder matches best. Whole-word only; order is fixed.
var suffixCompressions = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`\broad\b`), "rd"},
	{regexp.MustCompile(`\bstreet\b`), "st"},
	{regexp.MustCompile(`\bavenue\b`), "ave"},
	{regexp.MustCompile(`\bopposite\b`), "opp"},
	{regexp.MustCompile(`\bnear\b`), "nr"},
}

// Address lowercases the input, strips floor/room references and filler
// words, compresses common suffixes, and collapses whitespace. Empty or
// missing input normalizes to the empty string. The transform is
// idempotent: normalizing an already-normalized address is a no-op.
func Address(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	text = strings.ToLower(norm.NFC.String(text))

	text = floorRe.ReplaceAllString(text, "")
	text = floorPreRe.ReplaceAllString(text, "")
	text = roomRe.ReplaceAllString(text, "")
	text = roomPreRe.ReplaceAllString(text, "")

	text = nextToRe.ReplaceAllString(text, "")
	text = offRe.ReplaceAllString(text, "")

	for _, c := range suffixCompressions {
		text = c.re.ReplaceAllString(text, c.repl)
	}

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// virtualKeywords mark providers with no physical premises.
var virtualKeywords = []string{"virtual", "online", "telemedicine", "telehealth"}

// IsVirtual reports whether the address names a telehealth-style provider.
// Empty input is treated as a physical address.
func IsVirtual(address string) bool {
	if address == "" {
		return false
	}
	lower := strings.ToLower(address)
	for _, kw := range virtualKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// CanonicalQuery builds the deterministic cache key and geocoder input
// for a record: "{normalized address}, {town}, {county}, {country}".
// Identical inputs always produce the identical key.
func CanonicalQuery(address, town, county, country string) string {
	return strings.Join([]string{
		Address(address),
		strings.TrimSpace(town),
		strings.TrimSpace(county),
		strings.TrimSpace(country),
	}, ", ")
}

// TownQuery builds the coarser town-tier query: "{town}, {county}, {country}".
func TownQuery(town, county, country string) string {
	return strings.Join([]string{
		strings.TrimSpace(town),
		strings.TrimSpace(county),
		strings.TrimSpace(country),
	}, ", ")
}
