// internal/classify/classify.go
// Package classify maps scraped text onto the platform's fixed category set
// using priority-ordered keyword rules.
package classify

import (
	"strings"

	"github.com/townhub/communityscraper/internal/config"
)

// Classifier evaluates keyword rules in two passes: title-only first (section
// index pages carry the category in the heading, the most reliable signal),
// then title+body for finer-grained content. Rule order is significant and
// preserved exactly; reordering rules reclassifies records across runs.
type Classifier struct {
	titleRules   []config.KeywordRule
	contentRules []config.KeywordRule
	fallback     string
}

// New builds a classifier from configuration.
func New(cfg config.ClassifierConfig) *Classifier {
	return &Classifier{
		titleRules:   cfg.TitleRules,
		contentRules: cfg.ContentRules,
		fallback:     cfg.DefaultCategory,
	}
}

// Classify returns the category for a title/body pair.
func (c *Classifier) Classify(title, body string) string {
	lowerTitle := strings.ToLower(title)

	if category, ok := firstMatch(c.titleRules, lowerTitle); ok {
		return category
	}

	combined := lowerTitle + " " + strings.ToLower(body)
	if category, ok := firstMatch(c.contentRules, combined); ok {
		return category
	}
	// Title-family keywords also apply to full content when no content rule
	// fires; same priority order.
	if category, ok := firstMatch(c.titleRules, combined); ok {
		return category
	}

	return c.fallback
}

// firstMatch returns the category of the first rule with a keyword contained
// in text. Rules and keywords are checked in declaration order.
func firstMatch(rules []config.KeywordRule, text string) (string, bool) {
	for _, rule := range rules {
		for _, keyword := range rule.Keywords {
			if keyword != "" && strings.Contains(text, strings.ToLower(keyword)) {
				return rule.Category, true
			}
		}
	}
	return "", false
}
