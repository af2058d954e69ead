// Package logging builds the zerolog logger shared by the binaries.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/kosarica/catalog-service/config"
)

// New creates a logger writing to stdout. The console writer is used unless
// the format is json.
func New(cfg config.LoggingConfig, service string) zerolog.Logger {
	return NewWithWriter(cfg, service, os.Stdout)
}

// NewWithWriter creates a logger writing to out
func NewWithWriter(cfg config.LoggingConfig, service string, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	output := out
	if cfg.Format != "json" {
		output = zerolog.ConsoleWriter{Out: out, NoColor: cfg.NoColor}
	}

	ctx := zerolog.New(output).Level(level).With().Timestamp()
	if service != "" {
		ctx = ctx.Str("service", service)
	}
	return ctx.Logger()
}
