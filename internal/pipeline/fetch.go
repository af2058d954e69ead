package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// fetchPhase downloads the feed document. Any failure is fatal to the run.
func (r *Runner) fetchPhase(ctx context.Context, params Params, logger zerolog.Logger) ([]byte, error) {
	logger.Info().Str("feed_url", params.FeedURL).Msg("Downloading feed")

	ctx, span := r.tracer.Start(ctx, "pipeline.fetch")
	defer span.End()

	data, err := r.deps.Fetcher.GetBytes(ctx, params.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFeedFetch, err)
	}

	logger.Debug().Int("bytes", len(data)).Msg("Feed downloaded")
	return data, nil
}

// archivePhase stores the raw document. Archive failures only warn.
func (r *Runner) archivePhase(ctx context.Context, params Params, runID string, data []byte, logger zerolog.Logger) string {
	key, err := r.deps.Archive.ArchiveFeed(ctx, params.SourceFeedID, runID, params.FeedURL, data)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to archive feed")
		return ""
	}
	logger.Info().Str("key", key).Int("bytes", len(data)).Msg("Archived feed")
	return key
}
