package trigger

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates an executable shell script standing in for the binary
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	path := filepath.Join(t.TempDir(), "catalog-service")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestExecRunSuccess(t *testing.T) {
	script := writeScript(t, `echo "args: $@"; echo "feed: $SOURCE_FEED_ID"; echo "warn" >&2`)
	e := &Exec{Command: script, Args: []string{"--dry-run"}, Logger: zerolog.Nop()}

	resp, err := e.Run(context.Background(), Request{FeedURL: "https://x/feed.xml", SourceFeedID: "feed-7"})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Code)
	assert.Contains(t, resp.Stdout, "args: --dry-run ingest -- https://x/feed.xml")
	assert.Contains(t, resp.Stdout, "feed: feed-7")
	assert.Equal(t, "warn\n", resp.Stderr)
}

func TestExecRunFlagLikeFeedURL(t *testing.T) {
	script := writeScript(t, `for a in "$@"; do echo "arg: $a"; done`)
	e := &Exec{Command: script, Logger: zerolog.Nop()}

	tests := []string{"--help", "--config=/etc/passwd", "-h"}
	for _, feedURL := range tests {
		t.Run(feedURL, func(t *testing.T) {
			resp, err := e.Run(context.Background(), Request{FeedURL: feedURL, SourceFeedID: "f"})
			require.NoError(t, err)

			assert.Equal(t, "arg: ingest\narg: --\narg: "+feedURL+"\n", resp.Stdout)
		})
	}
}

func TestExecRunNonZeroExit(t *testing.T) {
	script := writeScript(t, `echo "Missing required feed url" >&2; exit 1`)
	e := &Exec{Command: script, Logger: zerolog.Nop()}

	resp, err := e.Run(context.Background(), Request{FeedURL: "", SourceFeedID: ""})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Code)
	assert.Contains(t, resp.Stderr, "Missing required")
}

func TestExecRunTimeout(t *testing.T) {
	script := writeScript(t, `exec sleep 5`)
	e := &Exec{Command: script, Timeout: 100 * time.Millisecond, Logger: zerolog.Nop()}

	resp, err := e.Run(context.Background(), Request{FeedURL: "u", SourceFeedID: "f"})
	require.NoError(t, err)

	assert.NotEqual(t, 0, resp.Code)
	assert.Contains(t, resp.Stderr, "run aborted")
}

func TestExecRunMissingBinary(t *testing.T) {
	e := &Exec{Command: filepath.Join(t.TempDir(), "missing"), Logger: zerolog.Nop()}

	_, err := e.Run(context.Background(), Request{FeedURL: "u", SourceFeedID: "f"})
	assert.Error(t, err)
}
