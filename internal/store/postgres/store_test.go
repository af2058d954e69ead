package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kosarica/catalog-service/internal/store"
	"github.com/kosarica/catalog-service/internal/types"
)

func TestNewQuotesTableNames(t *testing.T) {
	s := New(nil, Tables{Variants: `weird"name`})

	assert.Equal(t, `"retailer_product_feeds"`, s.tables.feeds)
	assert.Equal(t, `"weird""name"`, s.tables.variants)
}

func TestUpsertQuery(t *testing.T) {
	q := New(nil, Tables{}).upsertQuery()

	assert.Contains(t, q, `INSERT INTO "product_variants"`)
	assert.Contains(t, q, "$25")
	assert.NotContains(t, q, "$26")
	assert.Contains(t, q, "ON CONFLICT (sku, source_feed_id) DO UPDATE SET")
	assert.Contains(t, q, "price = EXCLUDED.price")
	assert.NotContains(t, q, "sku = EXCLUDED.sku")
}

func setupStore(ctx context.Context, t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("catalog"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := Connect(ctx, connString, Options{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	require.NoError(t, s.EnsureSchema(ctx))
	return s
}

func TestStoreIntegration(t *testing.T) {
	ctx := context.Background()
	s := setupStore(ctx, t)

	_, err := s.pool.Exec(ctx, `INSERT INTO retailer_product_feeds (id, retailer_id) VALUES ('feed-1', 'retailer-1')`)
	require.NoError(t, err)
	_, err = s.pool.Exec(ctx, `INSERT INTO raw_category_subcategory_map (raw_category, subcategory_id) VALUES ('Sko', 'sub-sko')`)
	require.NoError(t, err)

	t.Run("retailer lookup", func(t *testing.T) {
		id, err := s.FindRetailerID(ctx, "feed-1")
		require.NoError(t, err)
		assert.Equal(t, "retailer-1", id)

		_, err = s.FindRetailerID(ctx, "feed-404")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("category lookup", func(t *testing.T) {
		id, err := s.FindSubcategoryID(ctx, "Sko")
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, "sub-sko", *id)

		id, err = s.FindSubcategoryID(ctx, "Ukjent")
		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("upsert merges on natural key", func(t *testing.T) {
		rec := types.ProductVariantRecord{
			SKU:          "100-42",
			SourceFeedID: "feed-1",
			ModelName:    "Air Max 90",
			Price:        1299,
			Currency:     "NOK",
			Availability: "in stock",
			LastSeenAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		}
		require.NoError(t, s.UpsertVariant(ctx, rec))

		rec.Price = 999
		rec.OriginalPrice = types.Float64Ptr(1299)
		require.NoError(t, s.UpsertVariant(ctx, rec))

		var count int
		var price float64
		var original *float64
		err := s.pool.QueryRow(ctx,
			`SELECT count(*) OVER (), price, original_price FROM product_variants WHERE sku = $1 AND source_feed_id = $2`,
			"100-42", "feed-1").Scan(&count, &price, &original)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.Equal(t, 999.0, price)
		require.NotNil(t, original)
		assert.Equal(t, 1299.0, *original)
	})
}
