// internal/runner/persist.go
package runner

import (
	"context"
	"time"

	"github.com/townhub/communityscraper/pkg/types"
)

// persistBusinesses admits each candidate through duplicate resolution and
// reconciles the survivors with the store. It returns the updated accepted
// slice so later batches deduplicate against earlier ones.
func (r *Runner) persistBusinesses(ctx context.Context, candidates, accepted []*types.ScrapedBusiness, existing []types.ExistingBusiness, result *types.RunResult) []*types.ScrapedBusiness {
	for _, cand := range candidates {
		result.Total++
		r.countScraped(types.CategoryBusiness)

		// A duplicate of something already admitted this run is dropped
		// outright; checking against the empty snapshot keeps the batch
		// comparison separate from the store comparison below.
		if r.resolver.IsDuplicate(cand, accepted, nil) {
			r.log.Debugf("dropping in-run duplicate %q", cand.Name)
			continue
		}

		// A duplicate of a stored business keeps the stored identity so
		// the write is an update, not a second copy.
		if match, ok := r.resolver.MatchExisting(cand, existing); ok {
			cand.ID = match.ID
		}

		var stored types.ScrapedBusiness
		found, err := r.store.Businesses().FindByID(ctx, cand.ID, &stored)
		if err != nil {
			r.recordPersistError(result, "load business", cand.ID, err)
			continue
		}

		switch {
		case !found:
			if err := r.store.Businesses().UpsertByID(ctx, cand.ID, cand); err != nil {
				r.recordPersistError(result, "upsert business", cand.ID, err)
				continue
			}
			result.New++
		case businessChanged(&stored, cand):
			if err := r.store.Businesses().UpsertByID(ctx, cand.ID, cand); err != nil {
				r.recordPersistError(result, "upsert business", cand.ID, err)
				continue
			}
			result.Updated++
		}
		accepted = append(accepted, cand)
	}
	return accepted
}

func (r *Runner) persistNews(ctx context.Context, articles []*types.ScrapedNewsArticle, result *types.RunResult) {
	maxAge := r.cfg.Retention.NewsMaxAgeDays
	for _, article := range articles {
		result.Total++
		r.countScraped(types.CategoryNews)

		// Articles already past the retention window never enter the store.
		if maxAge > 0 && article.PublishedAt.Before(r.now().AddDate(0, 0, -maxAge)) {
			r.log.Debugf("skipping stale article %q published %s", article.Title, article.PublishedAt.Format("2006-01-02"))
			continue
		}

		var stored types.ScrapedNewsArticle
		found, err := r.store.News().FindByID(ctx, article.ID, &stored)
		if err != nil {
			r.recordPersistError(result, "load article", article.ID, err)
			continue
		}
		switch {
		case !found:
			if err := r.store.News().UpsertByID(ctx, article.ID, article); err != nil {
				r.recordPersistError(result, "upsert article", article.ID, err)
				continue
			}
			result.New++
		case newsChanged(&stored, article):
			if err := r.store.News().UpsertByID(ctx, article.ID, article); err != nil {
				r.recordPersistError(result, "upsert article", article.ID, err)
				continue
			}
			result.Updated++
		}
	}
}

func (r *Runner) persistEvents(ctx context.Context, events []*types.ScrapedEvent, result *types.RunResult) {
	for _, event := range events {
		result.Total++
		r.countScraped(types.CategoryEvent)

		var stored types.ScrapedEvent
		found, err := r.store.Events().FindByID(ctx, event.ID, &stored)
		if err != nil {
			r.recordPersistError(result, "load event", event.ID, err)
			continue
		}
		switch {
		case !found:
			if err := r.store.Events().UpsertByID(ctx, event.ID, event); err != nil {
				r.recordPersistError(result, "upsert event", event.ID, err)
				continue
			}
			result.New++
		case eventChanged(&stored, event):
			if err := r.store.Events().UpsertByID(ctx, event.ID, event); err != nil {
				r.recordPersistError(result, "upsert event", event.ID, err)
				continue
			}
			result.Updated++
		}
	}
}

// The changed comparisons ignore ScrapedAt so a rescrape of identical
// content is a no-op write.

func businessChanged(stored, cand *types.ScrapedBusiness) bool {
	return stored.Name != cand.Name ||
		stored.Contact != cand.Contact ||
		stored.Address != cand.Address ||
		stored.Phone != cand.Phone ||
		stored.Website != cand.Website ||
		stored.Category != cand.Category ||
		stored.SourceURL != cand.SourceURL
}

func newsChanged(stored, cand *types.ScrapedNewsArticle) bool {
	return stored.Title != cand.Title ||
		stored.Summary != cand.Summary ||
		stored.Content != cand.Content ||
		stored.Category != cand.Category ||
		stored.Author != cand.Author ||
		!stored.PublishedAt.Equal(cand.PublishedAt) ||
		stored.ImageURL != cand.ImageURL ||
		stored.SourceURL != cand.SourceURL ||
		stored.SourceName != cand.SourceName ||
		!equalStrings(stored.Tags, cand.Tags)
}

func eventChanged(stored, cand *types.ScrapedEvent) bool {
	return stored.Title != cand.Title ||
		stored.Description != cand.Description ||
		!stored.Date.Equal(cand.Date) ||
		!equalEndDates(stored.EndDate, cand.EndDate) ||
		stored.Time != cand.Time ||
		stored.Location != cand.Location ||
		stored.Category != cand.Category ||
		stored.Organizer != cand.Organizer ||
		stored.ContactEmail != cand.ContactEmail ||
		stored.ContactPhone != cand.ContactPhone ||
		stored.Website != cand.Website ||
		stored.Price != cand.Price ||
		stored.SourceURL != cand.SourceURL ||
		stored.SourceName != cand.SourceName
}

func equalEndDates(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
