// internal/extractor/extractor_test.go
package extractor

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/townhub/communityscraper/internal/config"
)

func newTestExtractor() *Extractor {
	cfg := config.Default()
	return New(cfg.Extraction)
}

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse test document: %v", err)
	}
	return doc
}

func TestTextCascade(t *testing.T) {
	e := newTestExtractor()
	doc := parseDoc(t, `
		<html><body>
			<h2 class="headline">  Arena Reopens  </h2>
			<h1>Fallback Title</h1>
		</body></html>`)

	tests := []struct {
		name      string
		selectors []string
		expected  string
	}{
		{"first selector wins", []string{"h2.headline", "h1"}, "Arena Reopens"},
		{"empty first selector is skipped", []string{".missing", "h1"}, "Fallback Title"},
		{"blank entries are skipped", []string{"", "h1"}, "Fallback Title"},
		{"no match", []string{".nope", ".also-nope"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Text(doc, tt.selectors); got != tt.expected {
				t.Errorf("Text(%v) = %q, want %q", tt.selectors, got, tt.expected)
			}
		})
	}
}

func TestAttrCascade(t *testing.T) {
	e := newTestExtractor()
	doc := parseDoc(t, `
		<html><body>
			<img class="hero" src="/images/arena.jpg">
			<img class="thumb" src="/images/thumb.jpg">
		</body></html>`)

	if got := e.Attr(doc, []string{".missing", "img.hero"}, "src"); got != "/images/arena.jpg" {
		t.Errorf("Attr = %q", got)
	}
	if got := e.Attr(doc, []string{"p"}, "src"); got != "" {
		t.Errorf("Attr on missing node = %q, want empty", got)
	}
}

func TestList(t *testing.T) {
	e := newTestExtractor()
	doc := parseDoc(t, `
		<html><body>
			<a class="tag">sports</a>
			<a class="tag">local</a>
			<a class="tag"> </a>
		</body></html>`)

	got := e.List(doc, []string{".tag"})
	if len(got) != 2 || got[0] != "sports" || got[1] != "local" {
		t.Errorf("List = %v, want [sports local]", got)
	}
}

func TestContentDropsBoilerplate(t *testing.T) {
	e := newTestExtractor()
	doc := parseDoc(t, `
		<html><body><div class="article-body">
			<p>The arena reopened on Saturday after a year of renovations.</p>
			<p>Subscribe to our newsletter for more updates!</p>
			<p>Mayor Hansen cut the ribbon in front of a large crowd.</p>
			<p>Advertisement</p>
		</div></body></html>`)

	got := e.Content(doc, []string{".article-body"})
	if !strings.Contains(got, "arena reopened") {
		t.Errorf("content lost real paragraph: %q", got)
	}
	if !strings.Contains(got, "cut the ribbon") {
		t.Errorf("content lost second paragraph: %q", got)
	}
	if strings.Contains(strings.ToLower(got), "subscribe") || strings.Contains(strings.ToLower(got), "advertisement") {
		t.Errorf("boilerplate survived: %q", got)
	}
	if !strings.Contains(got, "\n\n") {
		t.Errorf("paragraphs not joined with blank lines: %q", got)
	}
}

func TestContentBareTextFallback(t *testing.T) {
	e := newTestExtractor()
	doc := parseDoc(t, `<html><body><div class="blurb">Just one run of text without paragraph markup.</div></body></html>`)

	got := e.Content(doc, []string{".blurb"})
	if !strings.Contains(got, "one run of text") {
		t.Errorf("bare text fallback failed: %q", got)
	}
}

func TestValidArticle(t *testing.T) {
	e := newTestExtractor()
	longBody := strings.Repeat("Words about the community and its goings-on. ", 5)

	tests := []struct {
		name  string
		title string
		body  string
		want  bool
	}{
		{"valid", "Arena Reopens After Renovation", longBody, true},
		{"empty title", "", longBody, false},
		{"short body", "Arena Reopens", "Too short.", false},
		{"nav title", "News", longBody, false},
		{"nav title case insensitive", "CONTACT US", longBody, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.ValidArticle(tt.title, tt.body); got != tt.want {
				t.Errorf("ValidArticle(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestIsNavTitle(t *testing.T) {
	e := newTestExtractor()

	navTitles := []string{"Home", "News", "Events", "About Us", "Page 3", "Category: Sports"}
	for _, title := range navTitles {
		if !e.IsNavTitle(title) {
			t.Errorf("IsNavTitle(%q) = false, want true", title)
		}
	}

	realTitles := []string{"News of the arena reopening", "Homecoming parade draws hundreds"}
	for _, title := range realTitles {
		if e.IsNavTitle(title) {
			t.Errorf("IsNavTitle(%q) = true, want false", title)
		}
	}
}
