// internal/sources/factory.go
package sources

import (
	"fmt"

	"github.com/townhub/communityscraper/internal/bizparse"
	"github.com/townhub/communityscraper/internal/classify"
	"github.com/townhub/communityscraper/internal/config"
	"github.com/townhub/communityscraper/internal/extractor"
	"github.com/townhub/communityscraper/internal/fetcher"
	"github.com/townhub/communityscraper/pkg/types"
)

// Build constructs the registry from configuration, sharing one fetcher,
// extractor, classifier and blob parser across all sources.
func Build(cfg *config.Config, f *fetcher.Fetcher) (*Registry, error) {
	ext := extractor.New(cfg.Extraction)
	cl := classify.New(cfg.Classifier)
	parser := bizparse.New(cfg.Parser)

	registry := NewRegistry()
	for _, sc := range cfg.Sources {
		var src Source
		switch types.Category(sc.Category) {
		case types.CategoryNews:
			src = NewNewsSource(sc, f, ext, cl)
		case types.CategoryEvent:
			src = NewEventSource(sc, f, ext, cl)
		case types.CategoryBusiness:
			src = NewBusinessSource(sc, f, parser, cl)
		default:
			return nil, fmt.Errorf("source %q: unknown category %q", sc.Name, sc.Category)
		}
		if err := registry.Register(src); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
