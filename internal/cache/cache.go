// internal/cache/cache.go - TTL cache for the duplicate-comparison snapshot
package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/townhub/communityscraper/internal/utils"
	"github.com/townhub/communityscraper/pkg/types"
)

const snapshotKey = "existing-businesses"

// Loader fetches a fresh business snapshot from the backing store.
type Loader func(ctx context.Context) ([]types.ExistingBusiness, error)

// SnapshotCache memoizes the existing-business snapshot between runs so the
// duplicate resolver does not hit the store on every batch. Expiry is driven
// by the injected clock, which tests replace with a fake.
type SnapshotCache struct {
	mu     sync.Mutex
	store  *gocache.Cache
	loader Loader
	ttl    time.Duration
	now    func() time.Time
	log    utils.Logger

	loadedAt time.Time
}

// New builds a snapshot cache with the given TTL. A zero TTL disables
// caching entirely and every Get delegates to the loader.
func New(loader Loader, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		store:  gocache.New(ttl, 2*ttl),
		loader: loader,
		ttl:    ttl,
		now:    time.Now,
		log:    utils.NewComponentLogger("snapshot-cache"),
	}
}

// WithClock replaces the time source. Expiry decisions use this clock, not
// the wall clock, so tests can advance time deterministically.
func (c *SnapshotCache) WithClock(now func() time.Time) *SnapshotCache {
	c.now = now
	return c
}

// Get returns the cached snapshot, loading a fresh one when the cache is
// empty or the entry has outlived the TTL.
func (c *SnapshotCache) Get(ctx context.Context) ([]types.ExistingBusiness, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl > 0 {
		if cached, ok := c.store.Get(snapshotKey); ok && !c.expired() {
			return cached.([]types.ExistingBusiness), nil
		}
	}

	snapshot, err := c.loader(ctx)
	if err != nil {
		return nil, err
	}

	if c.ttl > 0 {
		c.store.Set(snapshotKey, snapshot, gocache.NoExpiration)
		c.loadedAt = c.now()
	}
	c.log.Debugf("snapshot refreshed with %d entries", len(snapshot))
	return snapshot, nil
}

// Invalidate drops the cached snapshot. The runner calls this after writing
// businesses so the next run observes them.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Delete(snapshotKey)
	c.loadedAt = time.Time{}
}

func (c *SnapshotCache) expired() bool {
	if c.loadedAt.IsZero() {
		return true
	}
	return c.now().Sub(c.loadedAt) >= c.ttl
}
