package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FeedArchive stores raw feed documents per source feed and day
type FeedArchive struct {
	storage Storage
	now     func() time.Time
}

// NewFeedArchive creates an archive on top of storage
func NewFeedArchive(storage Storage) *FeedArchive {
	return &FeedArchive{storage: storage, now: time.Now}
}

// ArchiveFeed writes data under
// feeds/{source_feed_id}/{yyyy/mm/dd}/{run_id}.xml and returns the key.
func (a *FeedArchive) ArchiveFeed(ctx context.Context, sourceFeedID, runID, sourceURL string, data []byte) (string, error) {
	downloadedAt := a.now().UTC()
	key := BuildFeedKey(sourceFeedID, downloadedAt, runID)

	meta := &Metadata{
		ContentType:  "application/xml",
		SourceURL:    sourceURL,
		SourceFeedID: sourceFeedID,
		RunID:        runID,
		DownloadedAt: downloadedAt,
		Size:         int64(len(data)),
		Checksum:     ComputeChecksum(data),
	}

	if err := a.storage.Put(ctx, key, data, meta); err != nil {
		return "", fmt.Errorf("failed to archive feed: %w", err)
	}
	return key, nil
}

// BuildFeedKey builds the storage key for a fetched feed. Path separators and
// other unsafe characters in the ids are replaced.
func BuildFeedKey(sourceFeedID string, date time.Time, runID string) string {
	return fmt.Sprintf("feeds/%s/%s/%s.xml",
		sanitize(sourceFeedID),
		date.UTC().Format("2006/01/02"),
		sanitize(runID),
	)
}

// ComputeChecksum computes SHA256 checksum for content
func ComputeChecksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

func sanitize(s string) string {
	s = unsafeKeyChars.ReplaceAllString(s, "_")
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}
