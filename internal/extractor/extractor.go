// internal/extractor/extractor.go
// Package extractor recovers individual fields from parsed documents using
// per-source locator cascades, and assembles article body text with
// boilerplate stripped. The source markup is non-semantic and inconsistent,
// so every field is a ranked list of candidate selectors: the first one
// yielding non-empty text wins.
package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/townhub/communityscraper/internal/config"
	"github.com/townhub/communityscraper/internal/utils"
)

// Extractor applies selector cascades against one document at a time.
type Extractor struct {
	minContentLength int
	boilerplate      []string         // lowercase substrings
	boilerplateRe    []*regexp.Regexp // compiled regex denylist entries
	navTitles        []*regexp.Regexp

	log utils.Logger
}

// New builds an extractor from the shared extraction configuration.
// Denylist entries that compile as regular expressions are matched as such;
// the rest are plain lowercase substring checks.
func New(cfg config.ExtractionConfig) *Extractor {
	e := &Extractor{
		minContentLength: cfg.MinContentLength,
		log:              utils.NewComponentLogger("extractor"),
	}

	for _, pattern := range cfg.BoilerplatePatterns {
		if re, err := regexp.Compile(`(?i)` + pattern); err == nil && strings.ContainsAny(pattern, `\^$[](){}|*+?`) {
			e.boilerplateRe = append(e.boilerplateRe, re)
			continue
		}
		e.boilerplate = append(e.boilerplate, strings.ToLower(pattern))
	}

	for _, pattern := range cfg.NavTitlePatterns {
		if re, err := regexp.Compile(`(?i)` + pattern); err == nil {
			e.navTitles = append(e.navTitles, re)
		}
	}

	return e
}

// Text returns the first non-empty trimmed text among the selector cascade.
func (e *Extractor) Text(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if selector == "" {
			continue
		}
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if text != "" {
			return collapseWhitespace(text)
		}
	}
	return ""
}

// Attr returns the first non-empty attribute value among the cascade.
func (e *Extractor) Attr(doc *goquery.Document, selectors []string, attr string) string {
	for _, selector := range selectors {
		if selector == "" {
			continue
		}
		if value, ok := doc.Find(selector).First().Attr(attr); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// List collects trimmed text from every node the first matching selector
// yields. Used for tag lists.
func (e *Extractor) List(doc *goquery.Document, selectors []string) []string {
	for _, selector := range selectors {
		if selector == "" {
			continue
		}
		var items []string
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" {
				items = append(items, text)
			}
		})
		if len(items) > 0 {
			return items
		}
	}
	return nil
}

// Content concatenates paragraph-level text under the first matching body
// selector, dropping boilerplate lines. Paragraphs are joined with blank
// lines.
func (e *Extractor) Content(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if selector == "" {
			continue
		}
		container := doc.Find(selector).First()
		if container.Length() == 0 {
			continue
		}

		var paragraphs []string
		nodes := container.Find("p")
		if nodes.Length() == 0 {
			// Some sources publish bare text without paragraph markup.
			if text := strings.TrimSpace(container.Text()); text != "" && !e.isBoilerplate(text) {
				return collapseWhitespace(text)
			}
			continue
		}

		nodes.Each(func(_ int, p *goquery.Selection) {
			text := collapseWhitespace(strings.TrimSpace(p.Text()))
			if text == "" || e.isBoilerplate(text) {
				return
			}
			paragraphs = append(paragraphs, text)
		})

		if len(paragraphs) > 0 {
			return strings.Join(paragraphs, "\n\n")
		}
	}
	return ""
}

// isBoilerplate reports whether a line matches the denylist: ads,
// subscription prompts, navigation phrases, sponsorship disclosures.
func (e *Extractor) isBoilerplate(line string) bool {
	lower := strings.ToLower(line)
	for _, sub := range e.boilerplate {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	for _, re := range e.boilerplateRe {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// ValidArticle applies the minimal validity gate: title present, body long
// enough, title not a section or navigation heading. Invalid records are
// dropped silently by callers (logged, never erroring the run).
func (e *Extractor) ValidArticle(title, body string) bool {
	if strings.TrimSpace(title) == "" {
		return false
	}
	if len(body) <= e.minContentLength {
		return false
	}
	return !e.IsNavTitle(title)
}

// IsNavTitle reports whether a title looks like a section or navigation
// heading rather than an article headline.
func (e *Extractor) IsNavTitle(title string) bool {
	trimmed := strings.TrimSpace(title)
	for _, re := range e.navTitles {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}

var whitespaceRun = regexp.MustCompile(`[ \t]+`)

func collapseWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(s, " ")
}
