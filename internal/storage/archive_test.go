package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFeedKey(t *testing.T) {
	date := time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		feedID string
		runID  string
		want   string
	}{
		{"plain", "feed-1", "run-1", "feeds/feed-1/2026/03/09/run-1.xml"},
		{"traversal", "../../etc", "run-1", "feeds/.._.._etc/2026/03/09/run-1.xml"},
		{"dots only", "..", "run", "feeds/_/2026/03/09/run.xml"},
		{"empty", "", "", "feeds/_/2026/03/09/_.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildFeedKey(tt.feedID, date, tt.runID))
		})
	}
}

func TestFeedArchive(t *testing.T) {
	ctx := context.Background()
	local, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	archive := NewFeedArchive(local)
	archive.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	data := []byte("<productFeed/>")
	key, err := archive.ArchiveFeed(ctx, "feed-1", "run-1", "https://example.com/feed.xml", data)
	require.NoError(t, err)
	assert.Equal(t, "feeds/feed-1/2026/01/02/run-1.xml", key)

	got, err := local.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	info, err := local.GetInfo(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, info.Metadata)
	assert.Equal(t, "https://example.com/feed.xml", info.Metadata.SourceURL)
	assert.Equal(t, ComputeChecksum(data), info.Metadata.Checksum)
	assert.Equal(t, int64(len(data)), info.Size)
}

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	local, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, local.Put(ctx, "feeds/a/1.xml", []byte("a"), nil))
	require.NoError(t, local.Put(ctx, "feeds/b/2.xml", []byte("b"), &Metadata{RunID: "2"}))
	require.NoError(t, local.Put(ctx, "other/3.xml", []byte("c"), nil))

	keys, err := local.List(ctx, "feeds/")
	require.NoError(t, err)
	assert.Equal(t, []string{"feeds/a/1.xml", "feeds/b/2.xml"}, keys)

	ok, err := local.Exists(ctx, "feeds/a/1.xml")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, local.Delete(ctx, "feeds/b/2.xml"))
	ok, err = local.Exists(ctx, "feeds/b/2.xml")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = local.Get(ctx, "missing.xml")
	assert.ErrorIs(t, err, ErrNotFound)

	// keys cannot escape the base path
	require.NoError(t, local.Put(ctx, "../escape.xml", []byte("x"), nil))
	ok, err = local.Exists(ctx, "escape.xml")
	require.NoError(t, err)
	assert.True(t, ok)
}
