package pipeline

import (
	"fmt"

	"github.com/kosarica/catalog-service/internal/catalog"
	"github.com/kosarica/catalog-service/internal/feed"
	"github.com/kosarica/catalog-service/internal/naming"
	"github.com/kosarica/catalog-service/internal/parsers/xml"
	"github.com/kosarica/catalog-service/internal/types"
)

// ParseFeed decodes the document and returns the product items in feed
// order. A document with no items at itemsPath yields ErrNoProducts.
func ParseFeed(data []byte, itemsPath string) ([]feed.Item, error) {
	if itemsPath == "" {
		itemsPath = DefaultItemsPath
	}

	items, err := xml.ItemsAt(data, itemsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoProducts, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w at %s", ErrNoProducts, itemsPath)
	}
	return items, nil
}

// Normalize builds records for items without consulting any store. The
// retailer and subcategory are left empty.
func Normalize(items []feed.Item, sourceFeedID string, cleaner *naming.Cleaner, builder *catalog.Builder) []types.ProductVariantRecord {
	if cleaner == nil {
		cleaner = naming.NewCleaner(nil)
	}
	if builder == nil {
		builder = catalog.NewBuilder("")
	}

	records := make([]types.ProductVariantRecord, 0, len(items))
	refs := catalog.Refs{SourceFeedID: sourceFeedID}
	for _, item := range items {
		records = append(records, builder.Build(catalog.FromItem(item, cleaner), refs))
	}
	return records
}
