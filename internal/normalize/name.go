// internal/normalize/name.go
// Package normalize provides the pure text-normalization primitives the
// pipeline's identity and matching layers are built on: name canonicalization,
// slugs, deterministic record IDs, and date parsing.
package normalize

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// legalSuffixes are corporate designators stripped from names before
// comparison. Lowercase, matched as whole trailing tokens.
var legalSuffixes = map[string]bool{
	"ltd": true, "ltd.": true, "limited": true,
	"inc": true, "inc.": true, "incorporated": true,
	"corp": true, "corp.": true, "corporation": true,
	"co": true, "co.": true, "company": true,
	"llc": true, "llp": true,
}

var (
	punctPattern      = regexp.MustCompile(`[^\pL\pN\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	slugPattern       = regexp.MustCompile(`[^a-z0-9]+`)
	streetNumPattern  = regexp.MustCompile(`^\s*#?(\d+[A-Za-z]?)\b`)

	asciiFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// FoldASCII strips diacritics so "Café" and "Cafe" normalize identically.
func FoldASCII(s string) string {
	folded, _, err := transform.String(asciiFolder, s)
	if err != nil {
		return s
	}
	return folded
}

// Name canonicalizes a business or organization name for comparison:
// diacritics folded, lowercased, punctuation stripped, trailing legal
// suffixes removed, whitespace collapsed. Idempotent.
func Name(raw string) string {
	s := strings.ToLower(FoldASCII(raw))
	s = punctPattern.ReplaceAllString(s, " ")
	s = whitespacePattern.ReplaceAllString(strings.TrimSpace(s), " ")

	// Strip trailing legal suffixes until none remain so a second pass is a
	// no-op.
	words := strings.Fields(s)
	for len(words) > 1 && legalSuffixes[words[len(words)-1]] {
		words = words[:len(words)-1]
	}

	return strings.Join(words, " ")
}

// Slug derives a lowercase hyphenated identifier from free text.
func Slug(raw string) string {
	s := strings.ToLower(FoldASCII(raw))
	s = slugPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// StreetNumber extracts the leading street-number token from an address
// ("123", "5017A"), or "" when the address does not start with one.
func StreetNumber(address string) string {
	match := streetNumPattern.FindStringSubmatch(address)
	if match == nil {
		return ""
	}
	return strings.ToLower(match[1])
}

const maxNameSlugLen = 40

// BusinessID derives the stable upsert key for a business record from its
// normalized name and the leading street number of its address. Pure: the
// same inputs always produce the same id across runs.
func BusinessID(name, address string) string {
	base := Slug(Name(name))
	if len(base) > maxNameSlugLen {
		base = strings.Trim(base[:maxNameSlugLen], "-")
	}

	if num := StreetNumber(address); num != "" {
		return base + "-" + num
	}
	return base
}

const maxTitleSlugLen = 60

// ContentID derives the stable upsert key for an article or event from its
// title slug and date.
func ContentID(title string, date time.Time) string {
	base := Slug(title)
	if len(base) > maxTitleSlugLen {
		base = strings.Trim(base[:maxTitleSlugLen], "-")
	}
	return base + "-" + date.Format("2006-01-02")
}
