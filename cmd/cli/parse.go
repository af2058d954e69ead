package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/kosarica/catalog-service/internal/catalog"
	"github.com/kosarica/catalog-service/internal/export"
	"github.com/kosarica/catalog-service/internal/naming"
	"github.com/kosarica/catalog-service/internal/pipeline"
	"github.com/kosarica/catalog-service/internal/types"
)

var (
	parseOutput       string
	parseFormat       string
	parseSourceFeedID string
	parseLimit        int
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <feed-url|file>",
	Short: "Normalize a feed without writing to the catalog",
	Long: `Parse a feed from a URL or local file and normalize every product the way
ingest does, without any store lookups or writes. Retailer and subcategory are
left empty. Use --output to write the records to .xlsx or .jsonl.`,
	Example: `  catalog-service parse ./data/feed.xml
  catalog-service parse https://example.com/feed.xml --output variants.xlsx
  catalog-service parse ./data/feed.xml --format json --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseOutput, "output", "", "Write records to a .xlsx or .jsonl file")
	parseCmd.Flags().StringVar(&parseFormat, "format", "table", "Stdout format: table or json")
	parseCmd.Flags().StringVar(&parseSourceFeedID, "source-feed-id", "", "Source feed id stamped on the records")
	parseCmd.Flags().IntVar(&parseLimit, "limit", 20, "Maximum records printed to stdout (0 for all)")
}

func runParse(cmd *cobra.Command, args []string) error {
	data, err := newFetcher(newHTTPClient(cfg.HTTP)).GetBytes(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	items, err := pipeline.ParseFeed(data, cfg.Ingest.ItemsPath)
	if err != nil {
		return err
	}

	sourceFeedID := parseSourceFeedID
	if sourceFeedID == "" {
		sourceFeedID = cfg.Ingest.SourceFeedID
	}
	records := pipeline.Normalize(items, sourceFeedID,
		naming.NewCleaner(cfg.Ingest.GenderTokens),
		catalog.NewBuilder(cfg.Ingest.DefaultCurrency),
	)

	if parseOutput != "" {
		if err := export.WriteFile(parseOutput, records); err != nil {
			return err
		}
		logger.Info().Str("path", parseOutput).Int("records", len(records)).Msg("Wrote records")
	}

	shown := records
	if parseLimit > 0 && len(shown) > parseLimit {
		shown = shown[:parseLimit]
	}

	switch parseFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(shown)
	case "table":
		displayParseResult(records, shown)
		return nil
	default:
		return fmt.Errorf("unknown format %q (use table or json)", parseFormat)
	}
}

func displayParseResult(records, shown []types.ProductVariantRecord) {
	categories := lo.Uniq(lo.Map(records, func(r types.ProductVariantRecord, _ int) string { return r.RawCategory }))
	withOriginal := lo.CountBy(records, func(r types.ProductVariantRecord) bool { return r.OriginalPrice != nil })
	emptyModel := lo.CountBy(records, func(r types.ProductVariantRecord) bool { return r.ModelName == "" })

	fmt.Printf("Products: %d  Categories: %d  With original price: %d  Empty model name: %d\n\n",
		len(records), len(categories), withOriginal, emptyModel)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "SKU\tMODEL\tRAW NAME\tPRICE\tCURRENCY\tSIZE\tCATEGORY")
	for _, r := range shown {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\t%s\n",
			r.SKU, r.ModelName, r.RawName, r.Price, r.Currency, r.Size, r.RawCategory)
	}
	w.Flush()

	if len(shown) < len(records) {
		fmt.Printf("... %d more\n", len(records)-len(shown))
	}
}
