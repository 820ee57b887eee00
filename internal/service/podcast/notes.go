package podcast

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oshokin/rss-grabber/internal/constants"
	"github.com/oshokin/rss-grabber/internal/logger"
	"github.com/oshokin/rss-grabber/internal/utils"
)

// notesPlaceholder stands in for fields the feed does not provide.
const notesPlaceholder = "N/A"

// FormatEpisodeNotes renders the notes file content of an episode.
func FormatEpisodeNotes(episode *Episode) string {
	publishedAt := notesPlaceholder
	if !episode.PublishedAt.IsZero() {
		publishedAt = episode.PublishedAt.Format(time.DateOnly)
	}

	var builder strings.Builder

	fmt.Fprintf(&builder, "Title: %s\n", valueOrPlaceholder(episode.Title))
	fmt.Fprintf(&builder, "Subtitle: %s\n", valueOrPlaceholder(episode.Subtitle))
	fmt.Fprintf(&builder, "Published Date: %s\n", publishedAt)
	fmt.Fprintf(&builder, "Content: %s\n", valueOrPlaceholder(episode.Description))

	return builder.String()
}

func valueOrPlaceholder(value string) string {
	if strings.TrimSpace(value) == "" {
		return notesPlaceholder
	}

	return value
}

// saveEpisodeNotes writes the notes file of an episode and updates statistics.
func (s *ServiceImpl) saveEpisodeNotes(ctx context.Context, episode *Episode, notesPath string) {
	// Dry-run mode: simulate notes writing.
	if s.cfg.DryRun {
		if isExist, _ := utils.IsFileExist(notesPath); isExist {
			logger.Infof(ctx, "[DRY-RUN] Notes '%s' already exist, would skip", notesPath)
			s.incrementNotesSkipped()
		} else {
			logger.Infof(ctx, "[DRY-RUN] Would save notes to: %s", notesPath)
			s.incrementNotesWritten()
		}

		return
	}

	isExist, err := writeEpisodeNotes(notesPath, episode)
	if err != nil {
		logger.Errorf(ctx, "Failed to write notes for '%s': %v", episode.Title, err)
		s.incrementNotesFailed()
		s.recordError(episode, PhaseNotes, err)

		return
	}

	if isExist {
		logger.Infof(ctx, "Notes '%s' already exist, skipping", notesPath)
		s.incrementNotesSkipped()

		return
	}

	logger.Infof(ctx, "Notes saved to file: %s", notesPath)
	s.incrementNotesWritten()
}

// writeEpisodeNotes creates notesPath with the episode notes.
// An existing file is left untouched and reported with true.
func writeEpisodeNotes(notesPath string, episode *Episode) (bool, error) {
	file, err := os.OpenFile(filepath.Clean(notesPath), createNewFileOptions, constants.DefaultFilePermissions)
	if err != nil {
		if os.IsExist(err) {
			if info, statErr := os.Stat(notesPath); statErr == nil && info.IsDir() {
				return false, fmt.Errorf("%w %s: %w", ErrWrite, notesPath, ErrNotesPathIsDirectory)
			}

			return true, nil
		}

		return false, fmt.Errorf("%w %s: %w", ErrWrite, notesPath, err)
	}

	_, err = file.WriteString(FormatEpisodeNotes(episode))
	closeErr := file.Close()

	if err == nil {
		err = closeErr
	}

	if err != nil {
		// A truncated notes file would block every later attempt.
		_ = os.Remove(notesPath)

		return false, fmt.Errorf("%w %s: %w", ErrWrite, notesPath, err)
	}

	return false, nil
}
