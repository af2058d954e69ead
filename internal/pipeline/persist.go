package pipeline

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/semaphore"

	"github.com/kosarica/catalog-service/internal/catalog"
	"github.com/kosarica/catalog-service/internal/feed"
	"github.com/kosarica/catalog-service/internal/lookup"
	"github.com/kosarica/catalog-service/internal/sink"
	"github.com/kosarica/catalog-service/internal/types"
)

// persistPhase builds and upserts every item. Extraction and category
// resolution run in feed order on the calling goroutine; with concurrency
// above one the upserts are dispatched to bounded workers. Outcomes are
// returned in feed order.
func (r *Runner) persistPhase(
	ctx context.Context,
	items []feed.Item,
	sourceFeedID, retailerID string,
	resolver *lookup.Resolver,
	logger zerolog.Logger,
) []sink.Outcome {
	ctx, span := r.tracer.Start(ctx, "pipeline.persist")
	defer span.End()

	s := sink.New(r.deps.Upserter, logger)
	outcomes := make([]sink.Outcome, len(items))

	workers := int64(r.deps.UpsertConcurrency)
	if workers <= 1 {
		for i, item := range items {
			rec := r.buildRecord(ctx, item, sourceFeedID, retailerID, resolver)
			outcomes[i] = s.Upsert(ctx, rec)
		}
		return outcomes
	}

	sem := semaphore.NewWeighted(workers)
	var wg sync.WaitGroup

	for i, item := range items {
		rec := r.buildRecord(ctx, item, sourceFeedID, retailerID, resolver)

		if err := sem.Acquire(ctx, 1); err != nil {
			outcomes[i] = sink.Outcome{SKU: rec.SKU, Detail: err.Error(), Err: err}
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			// each goroutine owns a distinct index
			outcomes[i] = s.Upsert(ctx, rec)
		}()
	}

	wg.Wait()
	return outcomes
}

func (r *Runner) buildRecord(ctx context.Context, item feed.Item, sourceFeedID, retailerID string, resolver *lookup.Resolver) types.ProductVariantRecord {
	in := catalog.FromItem(item, r.deps.Cleaner)
	return r.deps.Builder.Build(in, catalog.Refs{
		SourceFeedID:     sourceFeedID,
		SourceRetailerID: retailerID,
		SubcategoryID:    resolver.ResolveSubcategory(ctx, in.RawCategory),
	})
}

func summarize(result *Result, outcomes []sink.Outcome, stats lookup.Stats) {
	result.Upserted = lo.CountBy(outcomes, func(o sink.Outcome) bool { return o.OK })
	result.Failures = lo.Filter(outcomes, func(o sink.Outcome, _ int) bool { return !o.OK })
	result.Failed = len(result.Failures)
	result.DistinctCategories = stats.DistinctCategories
	result.CategoryQueries = stats.CategoryQueries
}
