package lookup

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosarica/catalog-service/internal/store"
	"github.com/kosarica/catalog-service/internal/store/memory"
)

type failingCategories struct {
	calls int
}

func (f *failingCategories) FindSubcategoryID(ctx context.Context, rawCategory string) (*string, error) {
	f.calls++
	return nil, errors.New("connection reset")
}

type brokenRetailers struct{}

func (brokenRetailers) FindRetailerID(ctx context.Context, sourceFeedID string) (string, error) {
	return "", errors.New("timeout")
}

func TestResolveRetailerID(t *testing.T) {
	mem := memory.New()
	mem.AddFeed("feed-1", "retailer-1")
	r := New(mem, mem, zerolog.Nop())

	id, err := r.ResolveRetailerID(context.Background(), "feed-1")
	require.NoError(t, err)
	assert.Equal(t, "retailer-1", id)

	_, err = r.ResolveRetailerID(context.Background(), "feed-2")
	assert.ErrorIs(t, err, ErrRetailerNotFound)
}

func TestResolveRetailerIDStoreError(t *testing.T) {
	r := New(brokenRetailers{}, memory.New(), zerolog.Nop())

	_, err := r.ResolveRetailerID(context.Background(), "feed-1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRetailerNotFound))
	assert.False(t, errors.Is(err, store.ErrNotFound))
}

func TestResolveSubcategoryQueriesOncePerCategory(t *testing.T) {
	mem := memory.New()
	mem.AddCategory("Sko", "sub-sko")
	mem.AddCategory("Jakker", "sub-jakker")
	r := New(mem, mem, zerolog.Nop())

	categories := []string{"Sko", "Jakker", "Ukjent"}
	for i := 0; i < 50; i++ {
		r.ResolveSubcategory(context.Background(), categories[i%len(categories)])
	}

	assert.LessOrEqual(t, mem.CategoryQueries(), 3)
	assert.Equal(t, Stats{DistinctCategories: 3, CategoryQueries: 3, CacheHits: 47}, r.Stats())
}

func TestResolveSubcategoryResults(t *testing.T) {
	mem := memory.New()
	mem.AddCategory("Sko", "sub-sko")
	mem.AddCategory("", "sub-empty")
	r := New(mem, mem, zerolog.Nop())

	got := r.ResolveSubcategory(context.Background(), "Sko")
	require.NotNil(t, got)
	assert.Equal(t, "sub-sko", *got)

	assert.Nil(t, r.ResolveSubcategory(context.Background(), "Ukjent"))
	assert.Nil(t, r.ResolveSubcategory(context.Background(), "Ukjent"))

	got = r.ResolveSubcategory(context.Background(), "")
	require.NotNil(t, got)
	assert.Equal(t, "sub-empty", *got)

	assert.Equal(t, 3, mem.CategoryQueries())
}

func TestResolveSubcategoryFailureIsCached(t *testing.T) {
	categories := &failingCategories{}
	r := New(memory.New(), categories, zerolog.Nop())

	for i := 0; i < 5; i++ {
		assert.Nil(t, r.ResolveSubcategory(context.Background(), "Sko"))
	}
	assert.Equal(t, 1, categories.calls)
}

func TestResolversDoNotShareCache(t *testing.T) {
	mem := memory.New()
	for i := 0; i < 2; i++ {
		r := New(mem, mem, zerolog.Nop())
		r.ResolveSubcategory(context.Background(), fmt.Sprintf("cat-%d", 0))
	}
	assert.Equal(t, 2, mem.CategoryQueries())
}

func TestCategoryCache(t *testing.T) {
	c := NewCategoryCache()

	_, ok := c.Get("Sko")
	assert.False(t, ok)

	c.Put("Sko", nil)
	id, ok := c.Get("Sko")
	assert.True(t, ok)
	assert.Nil(t, id)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.Hits())
}
