// internal/dedup/dedup.go
// Package dedup decides whether a candidate business record describes the
// same real-world entity as one already seen, tolerating spelling,
// punctuation, and address-format drift. It is a pure function over its
// inputs: the caller passes both the in-flight batch and the persisted
// snapshot explicitly, so there is no hidden state to prime before a call.
package dedup

import (
	"regexp"
	"strings"

	"github.com/townhub/communityscraper/internal/config"
	"github.com/townhub/communityscraper/internal/normalize"
	"github.com/townhub/communityscraper/pkg/types"
)

// Resolver carries the tuned matching knobs.
type Resolver struct {
	threshold float64
	synonyms  map[string]string // street-type token -> canonical form
}

// New builds a resolver from matching configuration.
func New(cfg config.MatchingConfig) *Resolver {
	synonyms := make(map[string]string, len(cfg.StreetSynonyms))
	for k, v := range cfg.StreetSynonyms {
		synonyms[strings.ToLower(k)] = strings.ToLower(v)
	}
	return &Resolver{
		threshold: cfg.AddressSimilarity,
		synonyms:  synonyms,
	}
}

// IsDuplicate reports whether candidate matches any record in the current
// batch or the persisted snapshot. A match requires equal normalized names
// AND similar addresses; the batch is checked first. Symmetric in the pair
// being compared: swapping candidate and match sides cannot change the
// answer.
func (r *Resolver) IsDuplicate(candidate *types.ScrapedBusiness, batch []*types.ScrapedBusiness, existing []types.ExistingBusiness) bool {
	name := normalize.Name(candidate.Name)

	for _, other := range batch {
		if other == candidate {
			continue
		}
		if normalize.Name(other.Name) == name && r.AddressesSimilar(candidate.Address, other.Address) {
			return true
		}
	}

	for _, prev := range existing {
		if normalize.Name(prev.Name) == name && r.AddressesSimilar(candidate.Address, prev.Address) {
			return true
		}
	}

	return false
}

// MatchExisting returns the snapshot entry the candidate duplicates, if any.
// The runner uses it to upsert into the existing record instead of minting a
// new id.
func (r *Resolver) MatchExisting(candidate *types.ScrapedBusiness, existing []types.ExistingBusiness) (types.ExistingBusiness, bool) {
	name := normalize.Name(candidate.Name)
	for _, prev := range existing {
		if normalize.Name(prev.Name) == name && r.AddressesSimilar(candidate.Address, prev.Address) {
			return prev, true
		}
	}
	return types.ExistingBusiness{}, false
}

var addrPunct = regexp.MustCompile(`[^\pL\pN\s]`)

// AddressesSimilar decides whether two address strings plausibly point at
// the same location. Street-type synonyms are canonicalized and punctuation
// dropped; the leading street numbers must match exactly (or both be absent)
// before the fuzzy comparison runs at all, then the character-overlap ratio
// of the remainders must clear the configured threshold. Symmetric.
func (r *Resolver) AddressesSimilar(a, b string) bool {
	numA := normalize.StreetNumber(a)
	numB := normalize.StreetNumber(b)
	if numA != numB {
		return false
	}

	normA := r.normalizeAddress(a)
	normB := r.normalizeAddress(b)
	if normA == "" || normB == "" {
		return normA == normB
	}
	if normA == normB {
		return true
	}

	return overlapRatio(normA, normB) >= r.threshold
}

// normalizeAddress lowercases, strips punctuation, maps street-type synonyms
// onto canonical tokens, and collapses whitespace away entirely so spacing
// differences ("T9A 1A1" vs "T9A1A1") cost nothing.
func (r *Resolver) normalizeAddress(addr string) string {
	s := strings.ToLower(normalize.FoldASCII(addr))
	s = addrPunct.ReplaceAllString(s, " ")

	words := strings.Fields(s)
	for i, w := range words {
		if canonical, ok := r.synonyms[w]; ok {
			words[i] = canonical
		}
	}

	return strings.Join(words, "")
}

// overlapRatio is the multiset character overlap between two strings divided
// by the longer length. Order-insensitive, symmetric, 1.0 for anagrams and
// identical strings.
func overlapRatio(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	counts := make(map[rune]int)
	for _, r := range a {
		counts[r]++
	}

	shared := 0
	for _, r := range b {
		if counts[r] > 0 {
			counts[r]--
			shared++
		}
	}

	longer := len([]rune(a))
	if lb := len([]rune(b)); lb > longer {
		longer = lb
	}

	return float64(shared) / float64(longer)
}
