// internal/store/store.go
// Package store defines the persistence collaborator the pipeline consumes.
// The scraper calls these operations but does not own storage schema or
// indexing; the platform's document store does.
package store

import (
	"context"

	"github.com/townhub/communityscraper/pkg/types"
)

// Filter is a store query expressed as field constraints. Values may be
// nested operator maps (e.g. {"published_at": {"$lt": cutoff}}).
type Filter map[string]interface{}

// Collection is the narrow per-collection surface the pipeline uses.
type Collection interface {
	// FindAll decodes every matching document into out (a pointer to slice).
	FindAll(ctx context.Context, filter Filter, out interface{}) error

	// FindByID decodes the document with the given id into out, reporting
	// whether it exists.
	FindByID(ctx context.Context, id string, out interface{}) (bool, error)

	// UpsertByID inserts or replaces the document keyed by id.
	UpsertByID(ctx context.Context, id string, doc interface{}) error

	// DeleteMany removes matching documents and returns the count removed.
	DeleteMany(ctx context.Context, filter Filter) (int64, error)

	// Count returns the number of matching documents.
	Count(ctx context.Context, filter Filter) (int64, error)
}

// Store aggregates the per-category collections.
type Store interface {
	// Ping verifies the collaborator is reachable. Failure at run start is
	// fatal to the run.
	Ping(ctx context.Context) error

	Businesses() Collection
	News() Collection
	Events() Collection

	// ExistingBusinesses returns the {id, name, address} snapshot used for
	// duplicate comparison. The pipeline never mutates the returned slice.
	ExistingBusinesses(ctx context.Context) ([]types.ExistingBusiness, error)

	Close(ctx context.Context) error
}
