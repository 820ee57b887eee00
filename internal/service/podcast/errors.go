package podcast

import (
	"context"
	"errors"
)

// Common errors for the service layer.
var (
	// ErrDownload indicates that an episode could not be downloaded.
	ErrDownload = errors.New("failed to download episode")
	// ErrWrite indicates that an episode notes file could not be written.
	ErrWrite = errors.New("failed to write episode notes")
	// ErrNotesPathIsDirectory indicates that a directory occupies the notes file path.
	ErrNotesPathIsDirectory = errors.New("notes path is a directory")
	// ErrTagging indicates that ID3 tags could not be written to a downloaded file.
	ErrTagging = errors.New("failed to write tags")
	// ErrIncompleteDownload indicates that the downloaded file size doesn't match expected size.
	ErrIncompleteDownload = errors.New("incomplete download")
	// ErrEmptyAudioPath indicates that the audio file path is empty.
	ErrEmptyAudioPath = errors.New("audio file path cannot be empty")
)

// isCanceled reports whether err comes from the user interrupting the run.
func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// recordError records an episode failure in the statistics.
// Context cancellation is ignored as it is expected during graceful shutdown.
func (s *ServiceImpl) recordError(episode *Episode, phase Phase, err error) {
	if episode == nil || err == nil || isCanceled(err) {
		return
	}

	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.Errors = append(s.stats.Errors, EpisodeError{
		Position:     episode.Position,
		Title:        episode.Title,
		URL:          episode.EnclosureURL,
		Phase:        phase,
		ErrorMessage: err.Error(),
	})
}
