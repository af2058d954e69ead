package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kosarica/catalog-service/internal/store"
	"github.com/kosarica/catalog-service/internal/types"
)

// variantColumns lists the upserted columns in argument order
var variantColumns = []string{
	"sku", "source_feed_id", "model_name", "brand", "price", "original_price",
	"currency", "availability", "product_url", "image_url", "tracking_url",
	"ean", "manufacturer_article_number", "color", "gender", "condition",
	"item_group_id", "shipping_weight", "size", "last_seen_at", "description",
	"raw_name", "raw_category", "source_retailer_id", "subcategory_id",
}

// FindRetailerID implements store.RetailerFinder
func (s *Store) FindRetailerID(ctx context.Context, sourceFeedID string) (string, error) {
	query := fmt.Sprintf(`SELECT retailer_id FROM %s WHERE id = $1 LIMIT 1`, s.tables.feeds)

	var retailerID *string
	err := s.pool.QueryRow(ctx, query, sourceFeedID).Scan(&retailerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query retailer: %w", err)
	}
	if retailerID == nil || *retailerID == "" {
		return "", store.ErrNotFound
	}
	return *retailerID, nil
}

// FindSubcategoryID implements store.CategoryFinder
func (s *Store) FindSubcategoryID(ctx context.Context, rawCategory string) (*string, error) {
	query := fmt.Sprintf(`SELECT subcategory_id FROM %s WHERE raw_category = $1 LIMIT 1`, s.tables.categories)

	var subcategoryID *string
	err := s.pool.QueryRow(ctx, query, rawCategory).Scan(&subcategoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query subcategory: %w", err)
	}
	if subcategoryID != nil && *subcategoryID == "" {
		return nil, nil
	}
	return subcategoryID, nil
}

// UpsertVariant implements store.Upserter
func (s *Store) UpsertVariant(ctx context.Context, rec types.ProductVariantRecord) error {
	_, err := s.pool.Exec(ctx, s.upsertQuery(),
		rec.SKU, rec.SourceFeedID, rec.ModelName, rec.Brand, rec.Price, rec.OriginalPrice,
		rec.Currency, rec.Availability, rec.ProductURL, rec.ImageURL, rec.TrackingURL,
		rec.EAN, rec.ManufacturerArticleNumber, rec.Color, rec.Gender, rec.Condition,
		rec.ItemGroupID, rec.ShippingWeight, rec.Size, rec.LastSeenAt.UTC(), rec.Description,
		rec.RawName, rec.RawCategory, rec.SourceRetailerID, rec.SubcategoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert variant %s: %w", rec.SKU, err)
	}
	return nil
}

func (s *Store) upsertQuery() string {
	placeholders := make([]string, len(variantColumns))
	updates := make([]string, 0, len(variantColumns))
	for i, col := range variantColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if col == "sku" || col == "source_feed_id" {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}

	return fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (%s)
		ON CONFLICT (sku, source_feed_id) DO UPDATE SET
			%s`,
		s.tables.variants,
		strings.Join(variantColumns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ",\n\t\t\t"),
	)
}

var _ store.Store = (*Store)(nil)
