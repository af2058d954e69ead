// Package sink submits variant records and reports per-record outcomes.
package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/kosarica/catalog-service/internal/store"
	"github.com/kosarica/catalog-service/internal/store/rest"
	"github.com/kosarica/catalog-service/internal/types"
)

// Outcome is the result of one upsert
type Outcome struct {
	SKU    string `json:"sku"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
	Err    error  `json:"-"`
}

// Sink wraps a store.Upserter and never returns errors to the caller
type Sink struct {
	upserter store.Upserter
	logger   zerolog.Logger
}

// New creates a sink
func New(upserter store.Upserter, logger zerolog.Logger) *Sink {
	return &Sink{upserter: upserter, logger: logger}
}

// Upsert submits rec and reports the outcome. Safe for concurrent use when
// the underlying upserter is.
func (s *Sink) Upsert(ctx context.Context, rec types.ProductVariantRecord) Outcome {
	s.logger.Debug().
		Str("sku", rec.SKU).
		Str("model_name", rec.ModelName).
		Msg("Upserting")

	err := s.upserter.UpsertVariant(ctx, rec)
	if err != nil {
		detail := Describe(err)
		s.logger.Warn().
			Err(err).
			Str("sku", rec.SKU).
			Str("detail", detail).
			Msg("Upsert failed")
		return Outcome{SKU: rec.SKU, Detail: detail, Err: err}
	}

	s.logger.Info().Str("sku", rec.SKU).Msg("Upserted")
	return Outcome{SKU: rec.SKU, OK: true}
}

// Describe renders a store failure for reports
func Describe(err error) string {
	var statusErr *rest.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Body == "" {
			return fmt.Sprintf("HTTP %d", statusErr.Status)
		}
		return fmt.Sprintf("HTTP %d: %s", statusErr.Status, statusErr.Body)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Sprintf("SQLSTATE %s: %s", pgErr.Code, pgErr.Message)
	}

	return err.Error()
}
