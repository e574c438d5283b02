// internal/sources/events.go
package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/townhub/communityscraper/internal/classify"
	"github.com/townhub/communityscraper/internal/config"
	"github.com/townhub/communityscraper/internal/extractor"
	"github.com/townhub/communityscraper/internal/fetcher"
	"github.com/townhub/communityscraper/internal/normalize"
	"github.com/townhub/communityscraper/internal/utils"
	"github.com/townhub/communityscraper/pkg/types"
)

// EventSource scrapes one community event calendar: an index page of event
// links, then a detail page per event.
type EventSource struct {
	cfg        config.SourceConfig
	fetch      *fetcher.Fetcher
	ext        *extractor.Extractor
	classifier *classify.Classifier
	now        func() time.Time
	log        utils.Logger
}

// NewEventSource builds an event source from its configuration.
func NewEventSource(cfg config.SourceConfig, f *fetcher.Fetcher, ext *extractor.Extractor, cl *classify.Classifier) *EventSource {
	return &EventSource{
		cfg:        cfg,
		fetch:      f,
		ext:        ext,
		classifier: cl,
		now:        time.Now,
		log:        utils.NewComponentLogger("source." + cfg.Name),
	}
}

func (s *EventSource) Name() string             { return s.cfg.Name }
func (s *EventSource) Category() types.Category { return types.CategoryEvent }

func (s *EventSource) Scrape(ctx context.Context) (*Batch, error) {
	doc, err := s.fetch.Fetch(ctx, s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch index %s: %w", s.cfg.URL, err)
	}

	links := collectLinks(doc, s.cfg, s.log)
	s.log.Infof("found %d event links", len(links))

	batch := &Batch{}
	for _, link := range links {
		event, err := s.scrapeEvent(ctx, link)
		if err != nil {
			s.log.Warnf("skipping %s: %v", link, err)
			batch.addError(s.cfg.Name, link, err)
			continue
		}
		batch.Events = append(batch.Events, event)
	}
	return batch, nil
}

func (s *EventSource) scrapeEvent(ctx context.Context, link string) (*types.ScrapedEvent, error) {
	doc, err := s.fetch.Fetch(ctx, link)
	if err != nil {
		return nil, err
	}

	title := s.ext.Text(doc, s.cfg.Selectors.Title)
	description := s.ext.Content(doc, s.cfg.Selectors.Body)
	if title == "" {
		return nil, &utils.ValidationError{Reason: "event has no title"}
	}

	now := s.now()
	date, ok := normalize.ParseArticleDate(s.ext.Text(doc, s.cfg.Selectors.Date), now)
	if !ok {
		// An event without a parseable date cannot be retained or purged
		// meaningfully, so it is dropped rather than stored with a guess.
		return nil, &utils.ValidationError{Reason: "event has no parseable date"}
	}

	return &types.ScrapedEvent{
		ID:          normalize.ContentID(title, date),
		Title:       title,
		Description: description,
		Date:        date,
		Time:        s.ext.Text(doc, s.cfg.Selectors.Time),
		Location:    s.ext.Text(doc, s.cfg.Selectors.Location),
		Category:    s.classifier.Classify(title, description),
		Organizer:   s.ext.Text(doc, s.cfg.Selectors.Organizer),
		Price:       s.ext.Text(doc, s.cfg.Selectors.Price),
		SourceURL:   link,
		SourceName:  s.cfg.SourceName,
		ScrapedAt:   now,
	}, nil
}
