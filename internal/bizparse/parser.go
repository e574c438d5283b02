// internal/bizparse/parser.go
// Package bizparse recovers structured business records from the
// concatenated text blobs the directory sites publish. A blob runs name,
// contact person, address, phone, and website together with no reliable
// delimiter, so extraction is a strict most-specific-first cascade: each step
// claims its substring and removes it, and whatever survives is the
// name/contact residue. Correctness depends entirely on pattern priority and
// the suffix/noun denylists, which are configuration data, not code.
package bizparse

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/townhub/communityscraper/internal/config"
	"github.com/townhub/communityscraper/internal/utils"
)

// Result is one parsed directory listing.
type Result struct {
	Name    string
	Contact string
	Address string
	Phone   string
	Website string
}

// Parser splits directory blobs using configured keyword data.
type Parser struct {
	suffixes     map[string]bool // lowercase business-suffix keywords
	nouns        map[string]bool // lowercase common business nouns
	placeholders map[string]bool // lowercase rejected generic names

	addressPatterns []*regexp.Regexp // most specific first
	suffixGluePat   *regexp.Regexp   // "ServiceGary" -> "Service Gary"
	tailGluePat     *regexp.Regexp   // "...Weldingjohn Doe" tail repair
	suffixList      []string

	log utils.Logger
}

var (
	linkLabelPattern = regexp.MustCompile(`(?i)Link:\s*(\S+)`)
	bareURLPattern   = regexp.MustCompile(`https?://[^\s]+`)
	wwwPattern       = regexp.MustCompile(`\bwww\.[^\s]+`)
	trailingPunct    = regexp.MustCompile(`[.,;:!?)\]]+$`)

	phonePattern = regexp.MustCompile(`(?i)Phone:?\s*\(?(\d{3})\)?[\s.\-]*(\d{3})[\s.\-]*(\d{4})`)

	barePhoneName = regexp.MustCompile(`^[\d\s().\-]+$`)
	anyLetter     = regexp.MustCompile(`\pL`)
)

// streetTypes are the tokens that terminate a street name in the address
// grammar. Abbreviated and full forms both occur in source markup.
const streetTypes = `(?:Street|St|Avenue|Ave|Av|Road|Rd|Drive|Dr|Boulevard|Blvd|Crescent|Cres|Highway|Hwy|Lane|Ln|Court|Crt|Ct|Place|Pl|Trail|Trl|Terrace|Terr|Close|Way)`

const postalCode = `[A-Za-z]\d[A-Za-z]\s*\d[A-Za-z]\d`

// New builds a parser from the configured denylists and locality tokens.
func New(cfg config.ParserConfig) *Parser {
	p := &Parser{
		suffixes:     toLowerSet(cfg.BusinessSuffixes),
		nouns:        toLowerSet(cfg.CommonBusinessNouns),
		placeholders: toLowerSet(cfg.PlaceholderNames),
		suffixList:   cfg.BusinessSuffixes,
		log:          utils.NewComponentLogger("bizparse"),
	}

	cities := alternation(cfg.Cities)
	provinces := alternation(cfg.Provinces)

	// Ordered most specific to least. The first match claims the address.
	number := `#?\d+[A-Za-z]?`
	street := number + `\s*[\w.#'\- ]*?\b` + streetTypes + `\.?`
	p.addressPatterns = []*regexp.Regexp{
		// (a) number + street type + city + province + postal code
		regexp.MustCompile(`(?i)` + street + `\s*,?\s*` + cities + `\s*,?\s*` + provinces + `\.?\s*,?\s*` + postalCode),
		// (b) same without the postal code
		regexp.MustCompile(`(?i)` + street + `\s*,?\s*` + cities + `\s*,?\s*` + provinces + `\b\.?`),
		// (c) tolerant of missing whitespace between street, city, province
		regexp.MustCompile(`(?i)` + number + `\s*[\w.#'\-]*?` + streetTypes + `\.?,?` + cities + `,?\s*` + provinces + `\b\.?`),
		// (d) PO Box forms
		regexp.MustCompile(`(?i)(?:P\.?\s?O\.?\s?Box|Box)\s*#?\d+\s*,?\s*` + cities + `\s*,?\s*` + provinces + `\b\.?(?:\s*,?\s*` + postalCode + `)?`),
		// (e) rural route forms
		regexp.MustCompile(`(?i)(?:RR|R\.R\.)\s*#?\s*\d+\s*,?\s*` + cities + `\s*,?\s*` + provinces + `\b\.?(?:\s*,?\s*` + postalCode + `)?`),
		// (f) last resort: anything carrying city + province
		regexp.MustCompile(`(?i)` + cities + `\s*,?\s*` + provinces + `\b\.?(?:\s*,?\s*` + postalCode + `)?`),
	}

	// Markup removal merges words: a suffix keyword glued to a following
	// capitalized word gets a space reinserted.
	p.suffixGluePat = regexp.MustCompile(`\b((?i:` + alternation(cfg.BusinessSuffixes) + `))([A-Z][a-z])`)
	// Residue ending in 1-2 capitalized words glued to a lowercase-ending
	// business word.
	p.tailGluePat = regexp.MustCompile(`([a-z])([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s*$`)

	return p
}

// Parse splits one blob into its structured parts. It returns a
// ValidationError when no plausible business name survives extraction.
func (p *Parser) Parse(blob string) (*Result, error) {
	result := &Result{}
	rest := strings.TrimSpace(blob)

	rest, result.Website = p.extractWebsite(rest)
	rest, result.Phone = p.extractPhone(rest)
	rest, result.Address = p.extractAddress(rest)

	residue := p.repairWordBoundaries(collapseSpaces(rest))
	result.Name, result.Contact = p.splitNameContact(residue)

	if err := p.validateName(result.Name); err != nil {
		return nil, err
	}
	if result.Address == "" {
		return nil, &utils.ValidationError{Reason: fmt.Sprintf("no address recognized in %q", truncate(blob, 80))}
	}

	return result, nil
}

// extractWebsite tries an explicit "Link:" URL, then a bare scheme URL, then
// a bare www host. The matched substring is removed from the blob.
func (p *Parser) extractWebsite(blob string) (rest, website string) {
	if m := linkLabelPattern.FindStringSubmatchIndex(blob); m != nil {
		raw := blob[m[2]:m[3]]
		return strings.TrimSpace(blob[:m[0]] + " " + blob[m[1]:]), normalizeURL(raw)
	}
	if loc := bareURLPattern.FindStringIndex(blob); loc != nil {
		raw := blob[loc[0]:loc[1]]
		return strings.TrimSpace(blob[:loc[0]] + " " + blob[loc[1]:]), normalizeURL(raw)
	}
	if loc := wwwPattern.FindStringIndex(blob); loc != nil {
		raw := blob[loc[0]:loc[1]]
		return strings.TrimSpace(blob[:loc[0]] + " " + blob[loc[1]:]), normalizeURL(raw)
	}
	return blob, ""
}

// normalizeURL forces the https scheme and strips trailing punctuation while
// preserving path segments.
func normalizeURL(raw string) string {
	u := trailingPunct.ReplaceAllString(strings.TrimSpace(raw), "")
	switch {
	case strings.HasPrefix(u, "https://"):
	case strings.HasPrefix(u, "http://"):
		u = "https://" + strings.TrimPrefix(u, "http://")
	default:
		u = "https://" + u
	}
	return u
}

// extractPhone matches a labeled 3-3-4 digit phone with flexible separators
// and normalizes the separators to hyphens.
func (p *Parser) extractPhone(blob string) (rest, phone string) {
	m := phonePattern.FindStringSubmatchIndex(blob)
	if m == nil {
		return blob, ""
	}
	area := blob[m[2]:m[3]]
	mid := blob[m[4]:m[5]]
	last := blob[m[6]:m[7]]
	rest = strings.TrimSpace(blob[:m[0]] + " " + blob[m[1]:])
	return rest, area + "-" + mid + "-" + last
}

// extractAddress walks the pattern cascade; the first match wins and is
// removed, leaving the name/contact residue.
func (p *Parser) extractAddress(blob string) (rest, address string) {
	for _, pattern := range p.addressPatterns {
		if loc := pattern.FindStringIndex(blob); loc != nil {
			address = collapseSpaces(blob[loc[0]:loc[1]])
			address = strings.Trim(address, " ,")
			rest = strings.TrimSpace(blob[:loc[0]] + " " + blob[loc[1]:])
			return rest, address
		}
	}
	return blob, ""
}

// repairWordBoundaries reinserts the spaces markup removal swallowed.
func (p *Parser) repairWordBoundaries(residue string) string {
	repaired := p.suffixGluePat.ReplaceAllString(residue, "$1 $2")
	repaired = p.tailGluePat.ReplaceAllString(repaired, "$1 $2")
	return collapseSpaces(repaired)
}

// splitNameContact separates a trailing contact person from the business
// name. Trailing capitalized words become the contact only when none of them
// is itself a business suffix or common business noun, so "Auto Repair
// Services" never loses "Services" to a phantom contact.
func (p *Parser) splitNameContact(residue string) (name, contact string) {
	tokens := strings.Fields(residue)
	if len(tokens) == 0 {
		return "", ""
	}

	// Preferred split point: the last business-suffix token.
	suffixIdx := -1
	for i, tok := range tokens {
		if p.suffixes[cleanToken(tok)] {
			suffixIdx = i
		}
	}

	if suffixIdx >= 0 {
		trailing := tokens[suffixIdx+1:]
		if n := len(trailing); n >= 1 && n <= 2 && p.plausibleContact(trailing) {
			return strings.Join(tokens[:suffixIdx+1], " "), strings.Join(trailing, " ")
		}
		return strings.Join(tokens, " "), ""
	}

	// No suffix anywhere: test the last one or two capitalized words, but
	// never leave the name shorter than two tokens.
	for _, k := range []int{2, 1} {
		if len(tokens)-k < 2 {
			continue
		}
		trailing := tokens[len(tokens)-k:]
		if p.plausibleContact(trailing) {
			return strings.Join(tokens[:len(tokens)-k], " "), strings.Join(trailing, " ")
		}
	}

	return strings.Join(tokens, " "), ""
}

// plausibleContact reports whether every word looks like part of a person's
// name: capitalized, and not on the suffix or common-noun lists.
func (p *Parser) plausibleContact(words []string) bool {
	for _, w := range words {
		clean := cleanToken(w)
		if clean == "" || !isCapitalized(w) {
			return false
		}
		if p.suffixes[clean] || p.nouns[clean] {
			return false
		}
	}
	return true
}

// validateName rejects residue that cannot be a real business name.
func (p *Parser) validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	switch {
	case len(trimmed) < 2:
		return &utils.ValidationError{Reason: fmt.Sprintf("name too short: %q", trimmed)}
	case !anyLetter.MatchString(trimmed):
		return &utils.ValidationError{Reason: fmt.Sprintf("name has no letters: %q", trimmed)}
	case barePhoneName.MatchString(trimmed):
		return &utils.ValidationError{Reason: fmt.Sprintf("name is a bare phone number: %q", trimmed)}
	case p.placeholders[strings.ToLower(trimmed)]:
		return &utils.ValidationError{Reason: fmt.Sprintf("name is a generic placeholder: %q", trimmed)}
	}
	return nil
}

func cleanToken(tok string) string {
	return strings.ToLower(strings.Trim(tok, ".,;:()&"))
}

func isCapitalized(word string) bool {
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}

func toLowerSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}
	return set
}

func alternation(words []string) string {
	escaped := make([]string, 0, len(words))
	for _, w := range words {
		if w != "" {
			escaped = append(escaped, regexp.QuoteMeta(w))
		}
	}
	return `(?:` + strings.Join(escaped, "|") + `)`
}

var spacesPattern = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return strings.TrimSpace(spacesPattern.ReplaceAllString(s, " "))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
