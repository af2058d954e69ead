package sink

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/kosarica/catalog-service/internal/store/memory"
	"github.com/kosarica/catalog-service/internal/store/rest"
	"github.com/kosarica/catalog-service/internal/types"
)

type failingUpserter struct {
	err error
}

func (f failingUpserter) UpsertVariant(ctx context.Context, rec types.ProductVariantRecord) error {
	return f.err
}

func TestUpsertSuccess(t *testing.T) {
	mem := memory.New()
	s := New(mem, zerolog.Nop())

	out := s.Upsert(context.Background(), types.ProductVariantRecord{SKU: "a", SourceFeedID: "f"})

	assert.Equal(t, Outcome{SKU: "a", OK: true}, out)
	_, ok := mem.Variant("a", "f")
	assert.True(t, ok)
}

func TestUpsertFailureIsReported(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		detail string
	}{
		{
			name:   "rest status",
			err:    &rest.StatusError{Status: 409, Body: `{"message":"conflict"}`},
			detail: `HTTP 409: {"message":"conflict"}`,
		},
		{
			name:   "rest status without body",
			err:    fmt.Errorf("upsert: %w", &rest.StatusError{Status: 500}),
			detail: "HTTP 500",
		},
		{
			name:   "postgres",
			err:    &pgconn.PgError{Code: "23502", Message: "null value in column \"sku\""},
			detail: `SQLSTATE 23502: null value in column "sku"`,
		},
		{
			name:   "other",
			err:    errors.New("connection refused"),
			detail: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(failingUpserter{err: tt.err}, zerolog.Nop())

			out := s.Upsert(context.Background(), types.ProductVariantRecord{SKU: "a"})

			assert.False(t, out.OK)
			assert.Equal(t, "a", out.SKU)
			assert.Equal(t, tt.detail, out.Detail)
			assert.ErrorIs(t, out.Err, tt.err)
		})
	}
}
