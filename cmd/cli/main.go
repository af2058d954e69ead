package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kosarica/catalog-service/config"
	"github.com/kosarica/catalog-service/internal/logging"
	"github.com/kosarica/catalog-service/internal/telemetry"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger

	initTelemetry     = telemetry.Init
	shutdownTelemetry = func(context.Context) error { return nil }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "catalog-service",
	Short: "Catalog Service CLI - product feed ingestion tool",
	Long: `A CLI tool for ingesting retailer product feeds. A feed is an XML document
of <product> elements; every product is normalized into a product variant record
and upserted into the catalog keyed by (sku, source_feed_id).`,
	SilenceUsage:      true,
	PersistentPreRunE: persistentPreRun,
}

// Execute runs the command line and flushes telemetry afterwards, also when the
// command failed.
func Execute() error {
	err := rootCmd.Execute()
	flushTelemetry()
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

// persistentPreRun loads config and initializes logging and telemetry
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = logging.New(cfg.Logging, "")

	shutdown, err := initTelemetry(cmd.Context(), telemetry.FromConfig(cfg.Telemetry))
	if err != nil {
		logger.Warn().Err(err).Msg("Telemetry disabled")
		return nil
	}
	shutdownTelemetry = shutdown
	return nil
}

func flushTelemetry() {
	if err := shutdownTelemetry(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("Failed to flush telemetry")
	}
	shutdownTelemetry = func(context.Context) error { return nil }
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
