package podcast

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/oshokin/rss-grabber/internal/client/feed"
	"github.com/oshokin/rss-grabber/internal/config"
	"github.com/oshokin/rss-grabber/internal/constants"
	"github.com/oshokin/rss-grabber/internal/logger"
)

// Service provides methods for downloading the episodes of a podcast feed.
type Service interface {
	// DownloadFeed fetches the configured feed and downloads its audio episodes one by one.
	// Only feed-level failures are returned; per-episode failures are logged and recorded.
	DownloadFeed(ctx context.Context) error
	// PrintDownloadSummary prints a formatted summary of download statistics.
	PrintDownloadSummary(ctx context.Context)
}

// ServiceImpl implements the episode download pipeline.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// feedClient fetches the feed and the enclosures.
	feedClient feed.Client
	// entryFilter selects downloadable entries.
	entryFilter EntryFilter
	// tagProcessor writes metadata tags to audio files.
	tagProcessor TagProcessor
	// downloadLimiter paces enclosure downloads.
	downloadLimiter *rate.Limiter
	// stats tracks download statistics for the current session.
	stats *DownloadStatistics
	// statsMutex protects access to statistics.
	statsMutex *sync.Mutex
}

// NewService creates a download service instance with dependency-injected components.
func NewService(
	cfg *config.Config,
	feedClient feed.Client,
	entryFilter EntryFilter,
	tagProcessor TagProcessor,
) Service {
	return &ServiceImpl{
		cfg:             cfg,
		feedClient:      feedClient,
		entryFilter:     entryFilter,
		tagProcessor:    tagProcessor,
		downloadLimiter: newDownloadLimiter(cfg.ParsedDownloadPause),
		stats:           new(DownloadStatistics),
		statsMutex:      new(sync.Mutex),
	}
}

// newDownloadLimiter allows one download immediately and then one per pause.
func newDownloadLimiter(pause time.Duration) *rate.Limiter {
	if pause <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}

	return rate.NewLimiter(rate.Every(pause), 1)
}

// DownloadFeed fetches the configured feed and downloads its audio episodes one by one.
func (s *ServiceImpl) DownloadFeed(ctx context.Context) error {
	s.statsMutex.Lock()
	s.stats.StartTime = time.Now()
	s.stats.IsDryRun = s.cfg.DryRun
	s.statsMutex.Unlock()

	defer func() {
		s.statsMutex.Lock()
		s.stats.EndTime = time.Now()
		s.statsMutex.Unlock()
	}()

	logger.Infof(ctx, "Fetching feed: %s", s.cfg.FeedURL)

	parsedFeed, err := s.feedClient.FetchFeed(ctx, s.cfg.FeedURL)
	if err != nil {
		return err
	}

	summary := s.entryFilter.SummarizeFeed(parsedFeed)
	episodes := s.entryFilter.ExtractEpisodes(ctx, parsedFeed)

	s.statsMutex.Lock()
	s.stats.FeedTitle = summary.Title
	s.stats.EntriesTotal = int64(len(parsedFeed.Items))
	s.stats.EpisodesAccepted = int64(len(episodes))
	s.statsMutex.Unlock()

	logger.InfoKV(ctx, "Feed loaded",
		"title", summary.Title,
		"entries", len(parsedFeed.Items),
		"accepted", len(episodes))
	logger.Infof(ctx, "Total audio files to download: %d", len(episodes))

	if len(episodes) == 0 {
		return nil
	}

	// The directory is only created once the feed is known to be valid.
	if !s.cfg.DryRun {
		err = os.MkdirAll(s.cfg.OutputPath, constants.DefaultFolderPermissions)
		if err != nil {
			return err
		}
	} else {
		logger.Infof(ctx, "[DRY-RUN] Would create output directory: %s", s.cfg.OutputPath)
	}

	for _, episode := range episodes {
		// Check if context was canceled (CTRL+C pressed) - stop immediately.
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		logger.Infof(ctx, "Processing episode %d of %d: %s", episode.Position, len(episodes), episode)
		s.processEpisode(ctx, summary, episode)
	}

	logger.Info(ctx, "Download process completed")

	return nil
}

// processEpisode downloads one episode and writes its notes. Failures never stop the run.
func (s *ServiceImpl) processEpisode(ctx context.Context, summary *FeedSummary, episode *Episode) {
	stem := BuildStem(episode.PublishedAt, episode.Title, int(s.cfg.MaxStemLength))
	audioPath := filepath.Join(s.cfg.OutputPath, stem+ExtensionFromURL(episode.EnclosureURL))

	result, err := s.downloadEpisode(ctx, summary, episode, audioPath)
	if err != nil {
		// Don't log context cancellation - it's expected when user presses CTRL+C.
		if !isCanceled(err) {
			logger.Errorf(ctx, "Failed to download episode '%s': %v", episode.Title, err)
		}

		phase := PhaseDownload
		if errors.Is(err, ErrTagging) {
			phase = PhaseTags
		}

		s.incrementEpisodeFailed()
		s.recordError(episode, phase, err)

		return
	}

	if result.IsExist {
		s.incrementEpisodeSkipped(SkipReasonExists)
	} else {
		s.incrementEpisodeDownloaded(result.BytesDownloaded)
	}

	if s.cfg.SaveText {
		s.saveEpisodeNotes(ctx, episode, filepath.Join(s.cfg.OutputPath, stem+constants.ExtensionTXT))
	}
}
