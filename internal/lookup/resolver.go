// Package lookup resolves the foreign keys a variant record references.
package lookup

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kosarica/catalog-service/internal/store"
)

// ErrRetailerNotFound is returned when the source feed has no retailer
var ErrRetailerNotFound = errors.New("retailer not found for source feed")

// Stats summarizes the lookups of one run
type Stats struct {
	DistinctCategories int
	CategoryQueries    int
	CacheHits          int
}

// Resolver performs the lookups of a single run. Create one per run; the
// category cache must not outlive it.
type Resolver struct {
	retailers  store.RetailerFinder
	categories store.CategoryFinder
	cache      *CategoryCache
	queries    int
	logger     zerolog.Logger
}

// New creates a resolver with an empty category cache
func New(retailers store.RetailerFinder, categories store.CategoryFinder, logger zerolog.Logger) *Resolver {
	return &Resolver{
		retailers:  retailers,
		categories: categories,
		cache:      NewCategoryCache(),
		logger:     logger,
	}
}

// ResolveRetailerID returns the retailer bound to sourceFeedID
func (r *Resolver) ResolveRetailerID(ctx context.Context, sourceFeedID string) (string, error) {
	id, err := r.retailers.FindRetailerID(ctx, sourceFeedID)
	if errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrRetailerNotFound, sourceFeedID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve retailer for %s: %w", sourceFeedID, err)
	}
	return id, nil
}

// ResolveSubcategory maps a raw category to a subcategory id, or nil when no
// mapping exists. Each distinct category is queried at most once per run. A
// failed query is logged and cached as no mapping.
func (r *Resolver) ResolveSubcategory(ctx context.Context, rawCategory string) *string {
	if id, ok := r.cache.Get(rawCategory); ok {
		return id
	}

	r.queries++
	id, err := r.categories.FindSubcategoryID(ctx, rawCategory)
	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("raw_category", rawCategory).
			Msg("Category lookup failed, continuing without subcategory")
		id = nil
	}

	r.cache.Put(rawCategory, id)
	return id
}

// Stats returns lookup counters for the run so far
func (r *Resolver) Stats() Stats {
	return Stats{
		DistinctCategories: r.cache.Len(),
		CategoryQueries:    r.queries,
		CacheHits:          r.cache.Hits(),
	}
}
