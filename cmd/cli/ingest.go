package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kosarica/catalog-service/internal/catalog"
	"github.com/kosarica/catalog-service/internal/naming"
	"github.com/kosarica/catalog-service/internal/pipeline"
	"github.com/kosarica/catalog-service/internal/storage"
	"github.com/kosarica/catalog-service/internal/store"
	"github.com/kosarica/catalog-service/internal/store/memory"
)

var (
	ingestSourceFeedID string
	ingestArchive      bool
	ingestDryRun       bool
	ingestConcurrency  int
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <feed-url>",
	Short: "Ingest a product feed into the catalog",
	Long: `Download the feed at <feed-url>, normalize every product and upsert it into
product_variants. The source feed id comes from --source-feed-id or SOURCE_FEED_ID.

Per-product upsert failures are reported and do not fail the run. Missing
parameters, a failed download, a feed without products or an unknown source
feed exit with status 1.`,
	Example: `  SOURCE_FEED_ID=42 catalog-service ingest https://example.com/feed.xml
  catalog-service ingest https://example.com/feed.xml --source-feed-id 42 --concurrency 4
  catalog-service ingest ./feed.xml --source-feed-id 42 --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestSourceFeedID, "source-feed-id", "", "Source feed id (defaults to SOURCE_FEED_ID)")
	ingestCmd.Flags().BoolVar(&ingestArchive, "archive", false, "Archive the raw feed under storage.base_path")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "Resolve lookups but keep upserts in memory")
	ingestCmd.Flags().IntVar(&ingestConcurrency, "concurrency", 0, "Concurrent upserts (defaults to ingest.upsert_concurrency)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	params := pipeline.Params{SourceFeedID: cfg.Ingest.SourceFeedID}
	if len(args) > 0 {
		params.FeedURL = args[0]
	}
	if ingestSourceFeedID != "" {
		params.SourceFeedID = ingestSourceFeedID
	}
	if err := params.Validate(); err != nil {
		logger.Error().Err(err).Msg("Cannot start ingestion")
		return err
	}

	client := newHTTPClient(cfg.HTTP)
	st, closeStore, err := openStore(ctx, cfg, client, params.SourceFeedID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open store")
		return err
	}
	defer closeStore()

	var upserter store.Upserter = st
	var dryRun *memory.Store
	if ingestDryRun {
		dryRun = memory.New()
		upserter = dryRun
	}

	concurrency := cfg.Ingest.UpsertConcurrency
	if ingestConcurrency > 0 {
		concurrency = ingestConcurrency
	}

	deps := pipeline.Deps{
		Fetcher:           newFetcher(client),
		Retailers:         st,
		Categories:        st,
		Upserter:          upserter,
		Cleaner:           naming.NewCleaner(cfg.Ingest.GenderTokens),
		Builder:           catalog.NewBuilder(cfg.Ingest.DefaultCurrency),
		Logger:            logger,
		ItemsPath:         cfg.Ingest.ItemsPath,
		UpsertConcurrency: concurrency,
	}

	if ingestArchive {
		local, err := storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			return err
		}
		deps.Archive = storage.NewFeedArchive(local)
	}

	result, err := pipeline.NewRunner(deps).Run(ctx, params)
	if err != nil {
		return err
	}

	displayIngestResult(result, dryRun != nil)
	return nil
}

func displayIngestResult(result *pipeline.Result, dryRun bool) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tPRODUCTS\tUPSERTED\tFAILED\tCATEGORIES\tQUERIES\tDURATION")
	fmt.Fprintln(w, "------\t--------\t--------\t------\t----------\t-------\t--------")
	fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
		result.RunID, result.Products, result.Upserted, result.Failed,
		result.DistinctCategories, result.CategoryQueries, result.Duration.Round(1e6))
	w.Flush()

	for _, f := range result.Failures {
		fmt.Printf("FAILED %s: %s\n", f.SKU, f.Detail)
	}
	if dryRun {
		fmt.Println("Dry run: no records were written")
	}
}
