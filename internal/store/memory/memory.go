// Package memory is an in-process Store used for dry runs and tests.
package memory

import (
	"context"
	"sync"

	"github.com/kosarica/catalog-service/internal/store"
	"github.com/kosarica/catalog-service/internal/types"
)

// Store keeps feeds, category mappings and variants in maps
type Store struct {
	mu         sync.Mutex
	retailers  map[string]string
	categories map[string]string
	variants   map[types.NaturalKey]types.ProductVariantRecord
	order      []types.NaturalKey

	categoryQueries int
	upserts         int
}

// New creates an empty store
func New() *Store {
	return &Store{
		retailers:  make(map[string]string),
		categories: make(map[string]string),
		variants:   make(map[types.NaturalKey]types.ProductVariantRecord),
	}
}

// AddFeed binds a source feed to a retailer
func (s *Store) AddFeed(sourceFeedID, retailerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retailers[sourceFeedID] = retailerID
}

// AddCategory maps a raw category to a subcategory
func (s *Store) AddCategory(rawCategory, subcategoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[rawCategory] = subcategoryID
}

// FindRetailerID implements store.RetailerFinder
func (s *Store) FindRetailerID(ctx context.Context, sourceFeedID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.retailers[sourceFeedID]
	if !ok {
		return "", store.ErrNotFound
	}
	return id, nil
}

// FindSubcategoryID implements store.CategoryFinder
func (s *Store) FindSubcategoryID(ctx context.Context, rawCategory string) (*string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categoryQueries++
	id, ok := s.categories[rawCategory]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

// UpsertVariant implements store.Upserter
func (s *Store) UpsertVariant(ctx context.Context, rec types.ProductVariantRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts++
	key := rec.Key()
	if _, exists := s.variants[key]; !exists {
		s.order = append(s.order, key)
	}
	s.variants[key] = rec
	return nil
}

// Variant returns the stored record for a natural key
func (s *Store) Variant(sku, sourceFeedID string) (types.ProductVariantRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.variants[types.NaturalKey{SKU: sku, SourceFeedID: sourceFeedID}]
	return rec, ok
}

// Variants returns stored records in first-insert order
func (s *Store) Variants() []types.ProductVariantRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ProductVariantRecord, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.variants[key])
	}
	return out
}

// CategoryQueries reports how many category lookups reached the store
func (s *Store) CategoryQueries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categoryQueries
}

// Upserts reports how many upserts were submitted
func (s *Store) Upserts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upserts
}

var _ store.Store = (*Store)(nil)
