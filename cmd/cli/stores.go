package main

import (
	"context"
	"fmt"

	"github.com/kosarica/catalog-service/config"
	apphttp "github.com/kosarica/catalog-service/internal/http"
	"github.com/kosarica/catalog-service/internal/http/ratelimit"
	"github.com/kosarica/catalog-service/internal/store"
	"github.com/kosarica/catalog-service/internal/store/memory"
	"github.com/kosarica/catalog-service/internal/store/postgres"
	"github.com/kosarica/catalog-service/internal/store/rest"
)

// offlineRetailerID is bound to the source feed by the memory driver
const offlineRetailerID = "local"

func newHTTPClient(cfg config.HTTPConfig) *apphttp.Client {
	return apphttp.NewClient(ratelimit.Config{
		RequestsPerSecond: cfg.RequestsPerSecond,
		MaxRetries:        cfg.MaxRetries,
		InitialBackoffMs:  cfg.InitialBackoffMs,
		MaxBackoffMs:      cfg.MaxBackoffMs,
	}, cfg.Timeout)
}

// openStore builds the configured store. The returned close function is
// never nil.
func openStore(ctx context.Context, cfg *config.Config, client *apphttp.Client, sourceFeedID string) (store.Store, func(), error) {
	noop := func() {}

	switch cfg.Store.Driver {
	case "", "rest":
		s, err := rest.New(client, cfg.Store.URL, cfg.Store.APIKey, rest.Tables{
			Feeds:      cfg.Store.Tables.Feeds,
			Categories: cfg.Store.Tables.Categories,
			Variants:   cfg.Store.Tables.Variants,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("rest store: %w (set SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY)", err)
		}
		return s, noop, nil

	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return nil, noop, fmt.Errorf("postgres store: DATABASE_URL not set")
		}
		s, err := postgres.Connect(ctx, cfg.Store.DatabaseURL, postgres.Options{
			MaxConns: cfg.Store.MaxConns,
			Tables: postgres.Tables{
				Feeds:      cfg.Store.Tables.Feeds,
				Categories: cfg.Store.Tables.Categories,
				Variants:   cfg.Store.Tables.Variants,
			},
		})
		if err != nil {
			return nil, noop, fmt.Errorf("postgres store: %w", err)
		}
		return s, s.Close, nil

	case "memory":
		s := memory.New()
		s.AddFeed(sourceFeedID, offlineRetailerID)
		return s, noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown store driver %q (use rest, postgres or memory)", cfg.Store.Driver)
	}
}
