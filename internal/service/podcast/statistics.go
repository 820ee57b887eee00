package podcast

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/rss-grabber/internal/logger"
)

const summarySeparator = "═══════════════════════════════════════════════════════════════"

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}

func (s *ServiceImpl) incrementEpisodeDownloaded(bytes int64) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.EpisodesDownloaded++
	s.stats.TotalEpisodesProcessed++
	s.stats.TotalBytesDownloaded += bytes
}

func (s *ServiceImpl) incrementEpisodeSkipped(reason SkipReason) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	switch reason {
	case SkipReasonExists:
		s.stats.EpisodesSkipped++
		s.stats.TotalEpisodesProcessed++
	case SkipReasonNotesExist:
		s.stats.NotesSkipped++
	}
}

func (s *ServiceImpl) incrementEpisodeFailed() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.EpisodesFailed++
	s.stats.TotalEpisodesProcessed++
}

func (s *ServiceImpl) incrementNotesWritten() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.NotesWritten++
}

func (s *ServiceImpl) incrementNotesSkipped() {
	s.incrementEpisodeSkipped(SkipReasonNotesExist)
}

func (s *ServiceImpl) incrementNotesFailed() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.NotesFailed++
}

// Statistics returns a copy of the statistics collected so far.
func (s *ServiceImpl) Statistics() DownloadStatistics {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	stats := *s.stats
	stats.Errors = append([]EpisodeError(nil), s.stats.Errors...)

	return stats
}

// PrintDownloadSummary prints a formatted summary of download statistics.
func (s *ServiceImpl) PrintDownloadSummary(ctx context.Context) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	stats := s.stats

	// If nothing was processed, don't print summary.
	if stats.TotalEpisodesProcessed == 0 {
		return
	}

	// Check if the context was canceled (CTRL+C or timeout).
	wasInterrupted := ctx.Err() != nil

	s.printSummaryHeader(ctx, wasInterrupted, stats.IsDryRun)
	s.printEpisodeStatistics(ctx, stats)
	s.printDataTransferStatistics(ctx, stats)
	s.printNotesStatistics(ctx, stats)
	logger.Info(ctx, summarySeparator)
	s.printErrorDetails(ctx, stats)
	s.printFinalMessage(ctx, wasInterrupted, stats)
}

func (s *ServiceImpl) printSummaryHeader(ctx context.Context, wasInterrupted, isDryRun bool) {
	title := "                     DOWNLOAD SUMMARY"

	switch {
	case isDryRun:
		title = "                  DRY-RUN PREVIEW"
	case wasInterrupted:
		title = "           DOWNLOAD SUMMARY (Interrupted)"
	}

	logger.Info(ctx, "")
	logger.Info(ctx, summarySeparator)
	logger.Info(ctx, title)
	logger.Info(ctx, summarySeparator)
}

func (s *ServiceImpl) printEpisodeStatistics(ctx context.Context, stats *DownloadStatistics) {
	if stats.FeedTitle != "" {
		logger.Infof(ctx, "Feed:             %s", stats.FeedTitle)
	}

	logger.Infof(ctx, "Entries:          %d in feed, %d with audio", stats.EntriesTotal, stats.EpisodesAccepted)

	if stats.IsDryRun {
		logger.Infof(ctx, "  Would Download: %d", stats.EpisodesDownloaded)
		logger.Infof(ctx, "  Already Have:   %d", stats.EpisodesSkipped)

		return
	}

	if stats.EpisodesDownloaded > 0 {
		logger.Infof(ctx, "  Downloaded:      %d", stats.EpisodesDownloaded)
	}

	if stats.EpisodesSkipped > 0 {
		logger.Infof(ctx, "  Already Exist:   %d", stats.EpisodesSkipped)
	}

	if stats.EpisodesFailed > 0 {
		logger.Infof(ctx, "  Failed:          %d", stats.EpisodesFailed)
	}

	successCount := stats.EpisodesDownloaded + stats.EpisodesSkipped
	successRate := float64(successCount) / float64(stats.TotalEpisodesProcessed) * 100
	logger.Infof(ctx, "  Success Rate:    %.1f%%", successRate)
}

func (s *ServiceImpl) printDataTransferStatistics(ctx context.Context, stats *DownloadStatistics) {
	if stats.TotalBytesDownloaded > 0 {
		logger.Info(ctx, "")

		//nolint:gosec // TotalBytesDownloaded is always positive, no overflow risk.
		size := humanize.Bytes(uint64(stats.TotalBytesDownloaded))
		if stats.IsDryRun {
			logger.Infof(ctx, "Estimated Size:   %s", size)
		} else {
			logger.Infof(ctx, "Data Downloaded:  %s", size)
		}
	}

	if stats.IsDryRun || stats.StartTime.IsZero() || stats.EndTime.IsZero() {
		return
	}

	duration := stats.EndTime.Sub(stats.StartTime)

	// Only show if duration is meaningful (> 100ms).
	if duration <= 100*time.Millisecond {
		return
	}

	logger.Infof(ctx, "Duration:         %s", formatDuration(duration))

	if stats.TotalBytesDownloaded > 0 {
		bytesPerSecond := float64(stats.TotalBytesDownloaded) / duration.Seconds()
		logger.Infof(ctx, "Average Speed:    %s/s", humanize.Bytes(uint64(bytesPerSecond)))
	}
}

func (s *ServiceImpl) printNotesStatistics(ctx context.Context, stats *DownloadStatistics) {
	totalNotes := stats.NotesWritten + stats.NotesSkipped + stats.NotesFailed
	if totalNotes == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Infof(ctx, "Notes:            %d total", totalNotes)

	if stats.NotesWritten > 0 {
		logger.Infof(ctx, "  Written:        %d", stats.NotesWritten)
	}

	if stats.NotesSkipped > 0 {
		logger.Infof(ctx, "  Skipped:        %d", stats.NotesSkipped)
	}

	if stats.NotesFailed > 0 {
		logger.Infof(ctx, "  Failed:         %d", stats.NotesFailed)
	}
}

func (s *ServiceImpl) printErrorDetails(ctx context.Context, stats *DownloadStatistics) {
	if len(stats.Errors) == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Errorf(ctx, "ERRORS ENCOUNTERED: %d", len(stats.Errors))

	for i := range stats.Errors {
		logger.Info(ctx, "")
		logger.Errorf(ctx, "  [%d] #%d %s", i+1, stats.Errors[i].Position, stats.Errors[i].Title)
		logger.Errorf(ctx, "      URL: %s", stats.Errors[i].URL)
		logger.Errorf(ctx, "      Phase: %s", stats.Errors[i].Phase)
		logger.Errorf(ctx, "      Error: %s", stats.Errors[i].ErrorMessage)
	}

	logger.Info(ctx, "")
	logger.Info(ctx, summarySeparator)
}

func (s *ServiceImpl) printFinalMessage(ctx context.Context, wasInterrupted bool, stats *DownloadStatistics) {
	if stats.IsDryRun {
		logger.Info(ctx, "")

		if stats.EpisodesDownloaded == 0 {
			logger.Info(ctx, "All episodes already exist - nothing to download.")
		} else {
			logger.Info(ctx, "To proceed with actual download, remove the --dry-run flag.")
		}

		return
	}

	switch {
	case wasInterrupted:
		logger.Info(ctx, "")
		logger.Warn(ctx, "Download interrupted by user (CTRL+C).")

		if stats.EpisodesDownloaded > 0 {
			logger.Infof(ctx, "Successfully downloaded %d episode(s) before interruption.", stats.EpisodesDownloaded)
		}
	case len(stats.Errors) > 0:
		logger.Info(ctx, "")
		logger.Warnf(ctx, "%d error(s) occurred during download. See detailed error log above.", len(stats.Errors))
	case stats.EpisodesDownloaded > 0:
		logger.Info(ctx, "")
		logger.Info(ctx, "All downloads completed successfully!")
	default:
		logger.Info(ctx, "")
		logger.Info(ctx, "All episodes already exist in the output directory.")
	}
}
