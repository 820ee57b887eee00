package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/oshokin/rss-grabber/internal/client/feed"
	"github.com/oshokin/rss-grabber/internal/config"
	"github.com/oshokin/rss-grabber/internal/logger"
	"github.com/oshokin/rss-grabber/internal/service/podcast"
	"github.com/oshokin/rss-grabber/internal/version"
)

// ErrRunAborted indicates that the download pass stopped because of a panic.
var ErrRunAborted = errors.New("download run aborted")

// ExecuteRootCommand is the entry point for the application.
// It builds the feed client and the podcast service and runs a single pass over the feed.
// The returned error is set only when the feed itself could not be processed.
func ExecuteRootCommand(ctx context.Context, cfg *config.Config) error {
	runID := uuid.NewString()

	// Debug output interleaves HTTP dumps, so every line gets the run ID.
	if logger.IsDebugLevel() {
		ctx = logger.WithKV(ctx, "run_id", runID)
	}

	logger.DebugKV(ctx, "Starting run",
		"run_id", runID,
		"version", version.Short(),
		"feed_url", cfg.FeedURL,
		"output_path", cfg.OutputPath)

	feedClient := feed.NewClient(cfg)
	entryFilter := podcast.NewEntryFilter(cfg.ContentType)
	tagProcessor := podcast.NewTagProcessor()

	s := podcast.NewService(cfg, feedClient, entryFilter, tagProcessor)

	return runService(ctx, s)
}

// runService downloads the feed and always prints the summary afterwards.
// A panic inside the service is turned into ErrRunAborted.
func runService(ctx context.Context, s podcast.Service) (err error) {
	// Ensure statistics are ALWAYS printed, even on panic.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)

			err = fmt.Errorf("%w: %v", ErrRunAborted, r)
		}

		s.PrintDownloadSummary(ctx)
	}()

	return s.DownloadFeed(ctx)
}
