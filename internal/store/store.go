// Package store defines the narrow contract the ingester has with the remote
// datastore: two read-only lookups and one idempotent upsert.
package store

import (
	"context"
	"errors"

	"github.com/kosarica/catalog-service/internal/types"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

// RetailerFinder resolves the retailer bound to a source feed
type RetailerFinder interface {
	FindRetailerID(ctx context.Context, sourceFeedID string) (string, error)
}

// CategoryFinder resolves a raw feed category to a subcategory.
// A nil id with a nil error means no mapping exists.
type CategoryFinder interface {
	FindSubcategoryID(ctx context.Context, rawCategory string) (*string, error)
}

// Upserter inserts a variant or merges it into the row with the same
// (sku, source_feed_id).
type Upserter interface {
	UpsertVariant(ctx context.Context, rec types.ProductVariantRecord) error
}

// Store is the full contract
type Store interface {
	RetailerFinder
	CategoryFinder
	Upserter
}
