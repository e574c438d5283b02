// internal/sources/business.go
package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/townhub/communityscraper/internal/bizparse"
	"github.com/townhub/communityscraper/internal/classify"
	"github.com/townhub/communityscraper/internal/config"
	"github.com/townhub/communityscraper/internal/fetcher"
	"github.com/townhub/communityscraper/internal/normalize"
	"github.com/townhub/communityscraper/internal/utils"
	"github.com/townhub/communityscraper/pkg/types"
)

// BusinessSource scrapes one directory page whose entries are concatenated
// text blobs, recovering structured businesses through the blob parser.
type BusinessSource struct {
	cfg        config.SourceConfig
	fetch      *fetcher.Fetcher
	parser     *bizparse.Parser
	classifier *classify.Classifier
	now        func() time.Time
	log        utils.Logger
}

// NewBusinessSource builds a business directory source from its configuration.
func NewBusinessSource(cfg config.SourceConfig, f *fetcher.Fetcher, p *bizparse.Parser, cl *classify.Classifier) *BusinessSource {
	return &BusinessSource{
		cfg:        cfg,
		fetch:      f,
		parser:     p,
		classifier: cl,
		now:        time.Now,
		log:        utils.NewComponentLogger("source." + cfg.Name),
	}
}

func (s *BusinessSource) Name() string             { return s.cfg.Name }
func (s *BusinessSource) Category() types.Category { return types.CategoryBusiness }

func (s *BusinessSource) Scrape(ctx context.Context) (*Batch, error) {
	doc, err := s.fetch.Fetch(ctx, s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch directory %s: %w", s.cfg.URL, err)
	}

	batch := &Batch{}
	count := 0
	doc.Find(s.cfg.Selectors.Blob).Each(func(_ int, sel *goquery.Selection) {
		if s.cfg.MaxItems > 0 && count >= s.cfg.MaxItems {
			return
		}
		blob := strings.TrimSpace(sel.Text())
		if blob == "" {
			return
		}
		count++

		business, err := s.parseBlob(blob)
		if err != nil {
			s.log.Debugf("blob rejected: %v", err)
			batch.addError(s.cfg.Name, truncateBlob(blob), err)
			return
		}
		batch.Businesses = append(batch.Businesses, business)
	})

	if count == 0 {
		s.log.Warnf("blob selector %q matched nothing on %s", s.cfg.Selectors.Blob, s.cfg.URL)
	}
	return batch, nil
}

func (s *BusinessSource) parseBlob(blob string) (*types.ScrapedBusiness, error) {
	parsed, err := s.parser.Parse(blob)
	if err != nil {
		return nil, err
	}
	return &types.ScrapedBusiness{
		ID:        normalize.BusinessID(parsed.Name, parsed.Address),
		Name:      parsed.Name,
		Contact:   parsed.Contact,
		Address:   parsed.Address,
		Phone:     parsed.Phone,
		Website:   parsed.Website,
		Category:  s.classifier.Classify(parsed.Name, ""),
		SourceURL: s.cfg.URL,
		ScrapedAt: s.now(),
	}, nil
}

// truncateBlob shortens a rejected blob for error reporting.
func truncateBlob(blob string) string {
	const max = 80
	blob = strings.Join(strings.Fields(blob), " ")
	if len(blob) <= max {
		return blob
	}
	return blob[:max] + "..."
}
