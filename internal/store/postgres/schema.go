package postgres

import (
	"context"
	"fmt"
)

// EnsureSchema creates the feed, category map and variant tables when they
// do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id text PRIMARY KEY,
			retailer_id text
		)`, s.tables.feeds),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			raw_category text PRIMARY KEY,
			subcategory_id text
		)`, s.tables.categories),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			sku text NOT NULL,
			source_feed_id text NOT NULL,
			model_name text NOT NULL DEFAULT '',
			brand text NOT NULL DEFAULT '',
			price double precision NOT NULL DEFAULT 0,
			original_price double precision,
			currency text NOT NULL DEFAULT '',
			availability text NOT NULL DEFAULT '',
			product_url text NOT NULL DEFAULT '',
			image_url text NOT NULL DEFAULT '',
			tracking_url text NOT NULL DEFAULT '',
			ean text NOT NULL DEFAULT '',
			manufacturer_article_number text NOT NULL DEFAULT '',
			color text NOT NULL DEFAULT '',
			gender text NOT NULL DEFAULT '',
			condition text NOT NULL DEFAULT '',
			item_group_id text NOT NULL DEFAULT '',
			shipping_weight text NOT NULL DEFAULT '',
			size text NOT NULL DEFAULT '',
			last_seen_at timestamptz NOT NULL,
			description text NOT NULL DEFAULT '',
			raw_name text NOT NULL DEFAULT '',
			raw_category text NOT NULL DEFAULT '',
			source_retailer_id text NOT NULL DEFAULT '',
			subcategory_id text,
			PRIMARY KEY (sku, source_feed_id)
		)`, s.tables.variants),
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
