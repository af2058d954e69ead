// Package pipeline runs one feed ingestion: fetch, parse, resolve, build and
// upsert every product of the feed.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/kosarica/catalog-service/internal/catalog"
	"github.com/kosarica/catalog-service/internal/lookup"
	"github.com/kosarica/catalog-service/internal/naming"
	"github.com/kosarica/catalog-service/internal/sink"
	"github.com/kosarica/catalog-service/internal/store"
)

const instrumentationName = "github.com/kosarica/catalog-service/internal/pipeline"

// DefaultItemsPath locates the products in a feed document
const DefaultItemsPath = "productFeed.product"

var (
	// ErrMissingParams is returned when the feed url or source feed id is blank
	ErrMissingParams = errors.New("missing required feed url or source feed id")
	// ErrFeedFetch is returned when the feed could not be downloaded
	ErrFeedFetch = errors.New("feed fetch failed")
	// ErrNoProducts is returned when the feed contains no product elements
	ErrNoProducts = errors.New("no product items found")
)

// Params identify the feed of one run
type Params struct {
	FeedURL      string `json:"feedUrl"`
	SourceFeedID string `json:"sourceFeedId"`
}

// Validate checks that both parameters are present
func (p Params) Validate() error {
	var missing []string
	if strings.TrimSpace(p.FeedURL) == "" {
		missing = append(missing, "feed url")
	}
	if strings.TrimSpace(p.SourceFeedID) == "" {
		missing = append(missing, "source feed id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingParams, strings.Join(missing, ", "))
	}
	return nil
}

// Fetcher downloads the raw feed document
type Fetcher interface {
	GetBytes(ctx context.Context, url string) ([]byte, error)
}

// Archiver keeps a copy of the raw feed
type Archiver interface {
	ArchiveFeed(ctx context.Context, sourceFeedID, runID, sourceURL string, data []byte) (string, error)
}

// Deps are the collaborators of a Runner. Archive is optional.
type Deps struct {
	Fetcher    Fetcher
	Retailers  store.RetailerFinder
	Categories store.CategoryFinder
	Upserter   store.Upserter
	Cleaner    *naming.Cleaner
	Builder    *catalog.Builder
	Archive    Archiver
	Logger     zerolog.Logger

	ItemsPath         string
	UpsertConcurrency int
}

// Result summarizes a completed run
type Result struct {
	RunID              string         `json:"runId"`
	Products           int            `json:"products"`
	Upserted           int            `json:"upserted"`
	Failed             int            `json:"failed"`
	Failures           []sink.Outcome `json:"failures,omitempty"`
	DistinctCategories int            `json:"distinctCategories"`
	CategoryQueries    int            `json:"categoryQueries"`
	ArchiveKey         string         `json:"archiveKey,omitempty"`
	Duration           time.Duration  `json:"duration"`
}

// Runner executes ingestion runs. A Runner holds no per-run state and may be
// reused; each Run gets its own category cache.
type Runner struct {
	deps     Deps
	tracer   trace.Tracer
	upserted metric.Int64Counter
	failed   metric.Int64Counter
	newRunID func() string
}

// NewRunner creates a runner
func NewRunner(deps Deps) *Runner {
	if deps.Cleaner == nil {
		deps.Cleaner = naming.NewCleaner(nil)
	}
	if deps.Builder == nil {
		deps.Builder = catalog.NewBuilder("")
	}
	if deps.ItemsPath == "" {
		deps.ItemsPath = DefaultItemsPath
	}

	meter := otel.Meter(instrumentationName)
	upserted, err := meter.Int64Counter("catalog.items.upserted",
		metric.WithDescription("Variant records upserted"))
	if err != nil {
		upserted = metricnoop.Int64Counter{}
	}
	failed, err := meter.Int64Counter("catalog.items.failed",
		metric.WithDescription("Variant records that failed to upsert"))
	if err != nil {
		failed = metricnoop.Int64Counter{}
	}

	return &Runner{
		deps:     deps,
		tracer:   otel.Tracer(instrumentationName),
		upserted: upserted,
		failed:   failed,
		newRunID: uuid.NewString,
	}
}

// Run performs one ingestion. A non-nil error means the run failed as a
// whole; per-item upsert failures are reported in Result.Failures.
func (r *Runner) Run(ctx context.Context, params Params) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	runID := r.newRunID()
	started := time.Now()
	logger := r.deps.Logger.With().
		Str("run_id", runID).
		Str("source_feed_id", params.SourceFeedID).
		Logger()

	ctx, span := r.tracer.Start(ctx, "pipeline.Run", trace.WithAttributes(
		attribute.String("catalog.run_id", runID),
		attribute.String("catalog.source_feed_id", params.SourceFeedID),
	))
	defer span.End()

	result := &Result{RunID: runID}
	err := r.run(ctx, params, result, logger)
	result.Duration = time.Since(started)

	span.SetAttributes(
		attribute.Int("catalog.products", result.Products),
		attribute.Int("catalog.upserted", result.Upserted),
		attribute.Int("catalog.failed", result.Failed),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error().Err(err).Dur("duration", result.Duration).Msg("Ingestion run failed")
		return result, err
	}

	logger.Info().
		Int("products", result.Products).
		Int("upserted", result.Upserted).
		Int("failed", result.Failed).
		Int("distinct_categories", result.DistinctCategories).
		Int("category_queries", result.CategoryQueries).
		Dur("duration", result.Duration).
		Msg("Ingestion run completed")

	return result, nil
}

func (r *Runner) run(ctx context.Context, params Params, result *Result, logger zerolog.Logger) error {
	data, err := r.fetchPhase(ctx, params, logger)
	if err != nil {
		return err
	}
	if r.deps.Archive != nil {
		result.ArchiveKey = r.archivePhase(ctx, params, result.RunID, data, logger)
	}

	items, err := ParseFeed(data, r.deps.ItemsPath)
	if err != nil {
		return err
	}
	result.Products = len(items)
	logger.Info().Int("products", len(items)).Msg("Found products")

	resolver := lookup.New(r.deps.Retailers, r.deps.Categories, logger)
	retailerID, err := resolver.ResolveRetailerID(ctx, params.SourceFeedID)
	if err != nil {
		return err
	}

	outcomes := r.persistPhase(ctx, items, params.SourceFeedID, retailerID, resolver, logger)
	summarize(result, outcomes, resolver.Stats())

	r.upserted.Add(ctx, int64(result.Upserted))
	r.failed.Add(ctx, int64(result.Failed))

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run interrupted: %w", err)
	}
	return nil
}
