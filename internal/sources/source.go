// internal/sources/source.go
// Package sources defines the scraped-site abstraction and its registry.
// Each source declares its capabilities through the Source interface; the
// orchestrator only ever sees that surface.
package sources

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"sync"

	"github.com/townhub/communityscraper/pkg/types"
)

// Batch is the output of one source scrape. A batch may carry items for only
// one of the three pipelines; the others stay nil.
type Batch struct {
	Businesses []*types.ScrapedBusiness
	News       []*types.ScrapedNewsArticle
	Events     []*types.ScrapedEvent

	// Errors holds per-item failures recovered during the scrape. A
	// non-empty Errors slice does not invalidate the rest of the batch.
	Errors []types.RunError
}

// Len returns the number of successfully scraped items in the batch.
func (b *Batch) Len() int {
	return len(b.Businesses) + len(b.News) + len(b.Events)
}

func (b *Batch) addError(source, item string, err error) {
	b.Errors = append(b.Errors, types.RunError{
		Source:  source,
		Item:    item,
		Message: err.Error(),
	})
}

// Source is one scraped website. Implementations are safe for reuse across
// runs but a single Scrape call is not re-entrant.
type Source interface {
	// Name returns the unique configured name of the source.
	Name() string

	// Category reports which pipeline this source feeds.
	Category() types.Category

	// Scrape fetches and normalizes the source's current content. Item
	// failures are recorded in the batch; a non-nil error means the source
	// produced nothing usable.
	Scrape(ctx context.Context) (*Batch, error)
}

// Registry holds the configured sources keyed by name.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
	order   []string
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

// Register adds a source. Names must be unique.
func (r *Registry) Register(s Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sources[s.Name()]; exists {
		return fmt.Errorf("source %q already registered", s.Name())
	}
	r.sources[s.Name()] = s
	r.order = append(r.order, s.Name())
	return nil
}

// Get looks up a source by name.
func (r *Registry) Get(name string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[name]
	return s, ok
}

// All returns every registered source in registration order.
func (r *Registry) All() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Source, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.sources[name])
	}
	return out
}

// ByCategory returns the sources feeding the given pipeline, in registration
// order.
func (r *Registry) ByCategory(cat types.Category) []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Source
	for _, name := range r.order {
		if s := r.sources[name]; s.Category() == cat {
			out = append(out, s)
		}
	}
	return out
}

// Categories returns the distinct categories with at least one source,
// sorted for deterministic iteration.
func (r *Registry) Categories() []types.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[types.Category]bool)
	for _, s := range r.sources {
		seen[s.Category()] = true
	}
	out := make([]types.Category, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// resolveURL turns a possibly-relative href into an absolute URL against the
// source's base page.
func resolveURL(base, href string) string {
	if href == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}
