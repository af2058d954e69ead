// Package postgres implements the store contracts directly on PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// Tables names the tables used by the store
type Tables struct {
	Feeds      string
	Categories string
	Variants   string
}

// Options configures the connection pool
type Options struct {
	MaxConns    int
	MinConns    int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
	Tables      Tables
}

// Store is a store.Store backed by a pgx connection pool
type Store struct {
	pool   *pgxpool.Pool
	tables quotedTables
}

type quotedTables struct {
	feeds      string
	categories string
	variants   string
}

// Connect creates a connection pool and verifies it with a ping
func Connect(ctx context.Context, connString string, opts Options) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("error parsing database config: %w", err)
	}

	if opts.MaxConns > 0 {
		config.MaxConns = int32(opts.MaxConns)
	}
	if opts.MinConns > 0 {
		config.MinConns = int32(opts.MinConns)
	}
	if opts.MaxLifetime > 0 {
		config.MaxConnLifetime = opts.MaxLifetime
	}
	if opts.MaxIdleTime > 0 {
		config.MaxConnIdleTime = opts.MaxIdleTime
	}
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("error creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	return New(pool, opts.Tables), nil
}

// New wraps an existing pool
func New(pool *pgxpool.Pool, tables Tables) *Store {
	if tables.Feeds == "" {
		tables.Feeds = "retailer_product_feeds"
	}
	if tables.Categories == "" {
		tables.Categories = "raw_category_subcategory_map"
	}
	if tables.Variants == "" {
		tables.Variants = "product_variants"
	}
	return &Store{
		pool: pool,
		tables: quotedTables{
			feeds:      pq.QuoteIdentifier(tables.Feeds),
			categories: pq.QuoteIdentifier(tables.Categories),
			variants:   pq.QuoteIdentifier(tables.Variants),
		},
	}
}

// Close closes the connection pool
func (s *Store) Close() {
	s.pool.Close()
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Stats returns connection pool statistics
func (s *Store) Stats() *pgxpool.Stat {
	return s.pool.Stat()
}
