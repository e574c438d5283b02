// internal/runner/runner.go
// Package runner orchestrates a full scrape: retention cleanup, concurrent
// per-category scraping, duplicate resolution and store reconciliation.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/townhub/communityscraper/internal/cache"
	"github.com/townhub/communityscraper/internal/config"
	"github.com/townhub/communityscraper/internal/dedup"
	"github.com/townhub/communityscraper/internal/monitoring"
	"github.com/townhub/communityscraper/internal/sources"
	"github.com/townhub/communityscraper/internal/store"
	"github.com/townhub/communityscraper/internal/utils"
	"github.com/townhub/communityscraper/pkg/types"
)

// Runner drives one scrape cycle end to end. Categories run concurrently;
// sources within a category run sequentially to keep per-host load gentle.
type Runner struct {
	cfg      *config.Config
	store    store.Store
	registry *sources.Registry
	resolver *dedup.Resolver
	snapshot *cache.SnapshotCache
	metrics  *monitoring.Metrics
	now      func() time.Time
	log      utils.Logger
}

// New wires a runner from its collaborators. Metrics may be nil when
// monitoring is disabled.
func New(cfg *config.Config, st store.Store, registry *sources.Registry, metrics *monitoring.Metrics) *Runner {
	r := &Runner{
		cfg:      cfg,
		store:    st,
		registry: registry,
		resolver: dedup.New(cfg.Matching),
		metrics:  metrics,
		now:      time.Now,
		log:      utils.NewComponentLogger("runner"),
	}
	r.snapshot = cache.New(st.ExistingBusinesses, cfg.Storage.SnapshotTTL)
	return r
}

// Run executes one full cycle. A nil error with a populated Errors slice
// means the run completed with recovered item or source failures; a non-nil
// error means the run could not proceed at all.
func (r *Runner) Run(ctx context.Context) (*types.RunResult, error) {
	started := r.now()
	result := &types.RunResult{StartedAt: started}

	if err := r.store.Ping(ctx); err != nil {
		r.observeRun("fatal", result, started)
		return nil, &utils.RunFatalError{Err: fmt.Errorf("storage unreachable: %w", err)}
	}

	if r.cfg.Retention.CleanupBeforeScrape {
		r.cleanup(ctx, result)
	}

	categories := r.registry.Categories()
	partials := make(chan *types.RunResult, len(categories))
	var wg sync.WaitGroup
	for _, cat := range categories {
		wg.Add(1)
		go func(cat types.Category) {
			defer wg.Done()
			partials <- r.runCategory(ctx, cat)
		}(cat)
	}
	wg.Wait()
	close(partials)
	for partial := range partials {
		result.Merge(partial)
	}

	if !r.cfg.Retention.CleanupBeforeScrape {
		r.cleanup(ctx, result)
	}

	result.Duration = r.now().Sub(started)
	r.observeRun("ok", result, started)
	r.log.Infof("run complete: total=%d new=%d updated=%d deleted=%d errors=%d in %s",
		result.Total, result.New, result.Updated, result.Deleted, len(result.Errors), result.Duration)
	return result, nil
}

func (r *Runner) observeRun(outcome string, result *types.RunResult, started time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.ObserveRun(outcome, result.Total, r.now().Sub(started))
}

// runCategory scrapes every source feeding one pipeline and reconciles the
// batches with the store. Source failures are recorded, never propagated.
func (r *Runner) runCategory(ctx context.Context, cat types.Category) *types.RunResult {
	result := &types.RunResult{}

	var existing []types.ExistingBusiness
	if cat == types.CategoryBusiness {
		snap, err := r.snapshot.Get(ctx)
		if err != nil {
			result.Errors = append(result.Errors, types.RunError{
				Source:  string(cat),
				Message: fmt.Sprintf("load business snapshot: %v", err),
			})
			return result
		}
		existing = snap
	}

	// accepted carries the businesses already admitted this run so later
	// batches are deduplicated against earlier ones.
	var accepted []*types.ScrapedBusiness

	for _, src := range r.registry.ByCategory(cat) {
		batch, err := src.Scrape(ctx)
		if err != nil {
			r.log.Errorf("source %s failed: %v", src.Name(), err)
			result.Errors = append(result.Errors, types.RunError{
				Source:  src.Name(),
				Message: err.Error(),
			})
			continue
		}
		result.Errors = append(result.Errors, batch.Errors...)
		r.countItemErrors(src.Name(), len(batch.Errors))

		switch cat {
		case types.CategoryBusiness:
			accepted = r.persistBusinesses(ctx, batch.Businesses, accepted, existing, result)
		case types.CategoryNews:
			r.persistNews(ctx, batch.News, result)
		case types.CategoryEvent:
			r.persistEvents(ctx, batch.Events, result)
		}
	}

	if cat == types.CategoryBusiness && (result.New > 0 || result.Updated > 0) {
		r.snapshot.Invalidate()
	}
	return result
}

func (r *Runner) countItemErrors(source string, n int) {
	if r.metrics == nil || n == 0 {
		return
	}
	r.metrics.ItemErrors.WithLabelValues(source).Add(float64(n))
}

func (r *Runner) countScraped(cat types.Category) {
	if r.metrics == nil {
		return
	}
	r.metrics.ItemsScraped.WithLabelValues(string(cat)).Inc()
}

// cleanup applies the retention policy: old news articles and, when enabled,
// events whose date has passed.
func (r *Runner) cleanup(ctx context.Context, result *types.RunResult) {
	now := r.now()

	if days := r.cfg.Retention.NewsMaxAgeDays; days > 0 {
		cutoff := now.AddDate(0, 0, -days)
		deleted, err := r.store.News().DeleteMany(ctx, store.Filter{
			"published_at": store.Filter{"$lt": cutoff},
		})
		if err != nil {
			result.Errors = append(result.Errors, types.RunError{
				Source:  "retention",
				Message: fmt.Sprintf("purge old news: %v", err),
			})
		} else if deleted > 0 {
			r.log.Infof("purged %d news articles older than %d days", deleted, days)
			result.Deleted += int(deleted)
			r.countDeleted(types.CategoryNews, deleted)
		}
	}

	if r.cfg.Retention.PurgePastEvents {
		// Events dated earlier than today are gone; today's events stay
		// until tomorrow.
		y, m, d := now.Date()
		startOfToday := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
		deleted, err := r.store.Events().DeleteMany(ctx, store.Filter{
			"date": store.Filter{"$lt": startOfToday},
		})
		if err != nil {
			result.Errors = append(result.Errors, types.RunError{
				Source:  "retention",
				Message: fmt.Sprintf("purge past events: %v", err),
			})
		} else if deleted > 0 {
			r.log.Infof("purged %d past events", deleted)
			result.Deleted += int(deleted)
			r.countDeleted(types.CategoryEvent, deleted)
		}
	}
}

func (r *Runner) countDeleted(cat types.Category, n int64) {
	if r.metrics == nil {
		return
	}
	r.metrics.ItemsDeleted.WithLabelValues(string(cat)).Add(float64(n))
}

func (r *Runner) recordPersistError(result *types.RunResult, op, id string, err error) {
	perr := &utils.PersistenceError{Op: op, ID: id, Err: err}
	r.log.Errorf("%v", perr)
	result.Errors = append(result.Errors, types.RunError{
		Source:  "store",
		Item:    id,
		Message: perr.Error(),
	})
}
