// internal/sources/news.go
package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/townhub/communityscraper/internal/classify"
	"github.com/townhub/communityscraper/internal/config"
	"github.com/townhub/communityscraper/internal/extractor"
	"github.com/townhub/communityscraper/internal/fetcher"
	"github.com/townhub/communityscraper/internal/normalize"
	"github.com/townhub/communityscraper/internal/utils"
	"github.com/townhub/communityscraper/pkg/types"
)

const summaryMaxLen = 200

// NewsSource scrapes one news site: an index page of article links, then a
// detail page per article.
type NewsSource struct {
	cfg        config.SourceConfig
	fetch      *fetcher.Fetcher
	ext        *extractor.Extractor
	classifier *classify.Classifier
	now        func() time.Time
	log        utils.Logger
}

// NewNewsSource builds a news source from its configuration.
func NewNewsSource(cfg config.SourceConfig, f *fetcher.Fetcher, ext *extractor.Extractor, cl *classify.Classifier) *NewsSource {
	return &NewsSource{
		cfg:        cfg,
		fetch:      f,
		ext:        ext,
		classifier: cl,
		now:        time.Now,
		log:        utils.NewComponentLogger("source." + cfg.Name),
	}
}

func (s *NewsSource) Name() string             { return s.cfg.Name }
func (s *NewsSource) Category() types.Category { return types.CategoryNews }

func (s *NewsSource) Scrape(ctx context.Context) (*Batch, error) {
	doc, err := s.fetch.Fetch(ctx, s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch index %s: %w", s.cfg.URL, err)
	}

	links := collectLinks(doc, s.cfg, s.log)
	s.log.Infof("found %d article links", len(links))

	batch := &Batch{}
	for _, link := range links {
		article, err := s.scrapeArticle(ctx, link)
		if err != nil {
			s.log.Warnf("skipping %s: %v", link, err)
			batch.addError(s.cfg.Name, link, err)
			continue
		}
		if article != nil {
			batch.News = append(batch.News, article)
		}
	}
	return batch, nil
}

func (s *NewsSource) scrapeArticle(ctx context.Context, link string) (*types.ScrapedNewsArticle, error) {
	doc, err := s.fetch.Fetch(ctx, link)
	if err != nil {
		return nil, err
	}

	title := s.ext.Text(doc, s.cfg.Selectors.Title)
	if s.ext.IsNavTitle(title) {
		// Index pages sometimes link to section landing pages. Not an error.
		return nil, nil
	}

	body := s.ext.Content(doc, s.cfg.Selectors.Body)
	if !s.ext.ValidArticle(title, body) {
		return nil, &utils.ValidationError{Reason: "article failed content gate"}
	}

	now := s.now()
	published, ok := normalize.ParseArticleDate(s.ext.Text(doc, s.cfg.Selectors.Date), now)
	if !ok {
		s.log.Debugf("no parseable date on %s, using scrape time", link)
	}

	category := s.classifier.Classify(title, body)

	return &types.ScrapedNewsArticle{
		ID:          normalize.ContentID(title, published),
		Title:       title,
		Summary:     summarize(body),
		Content:     body,
		Category:    category,
		Author:      s.ext.Text(doc, s.cfg.Selectors.Author),
		PublishedAt: published,
		ImageURL:    resolveURL(link, s.ext.Attr(doc, s.cfg.Selectors.Image, "src")),
		SourceURL:   link,
		SourceName:  s.cfg.SourceName,
		Tags:        s.ext.List(doc, s.cfg.Selectors.Tags),
		ScrapedAt:   now,
	}, nil
}

// collectLinks walks the index page's listing entries and resolves each
// detail link, deduplicating and honoring the configured item cap.
func collectLinks(doc *goquery.Document, cfg config.SourceConfig, log utils.Logger) []string {
	var links []string
	seen := make(map[string]bool)

	doc.Find(cfg.Selectors.Listing).Each(func(_ int, item *goquery.Selection) {
		if cfg.MaxItems > 0 && len(links) >= cfg.MaxItems {
			return
		}
		link := item.Find(cfg.Selectors.Link).First()
		href, exists := link.Attr("href")
		if !exists {
			// The listing entry may itself be the anchor.
			href, exists = item.Attr("href")
		}
		if !exists || href == "" || strings.HasPrefix(href, "#") {
			return
		}
		abs := resolveURL(cfg.URL, href)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true
		links = append(links, abs)
	})

	if len(links) == 0 {
		log.Warnf("listing selector %q matched nothing on %s", cfg.Selectors.Listing, cfg.URL)
	}
	return links
}

// summarize truncates the body to a sentence-ish summary. The cut lands on
// a rune boundary so multibyte text is never split mid-sequence.
func summarize(body string) string {
	body = strings.TrimSpace(body)
	if idx := strings.Index(body, "\n"); idx > 0 {
		body = body[:idx]
	}
	runes := []rune(body)
	if len(runes) <= summaryMaxLen {
		return body
	}
	cut := string(runes[:summaryMaxLen])
	if idx := strings.LastIndex(cut, " "); idx > len(cut)/2 {
		cut = cut[:idx]
	}
	return cut + "..."
}
