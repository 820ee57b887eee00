package podcast

import (
	"fmt"
	"time"
)

// Episode is an accepted feed entry ready to be downloaded.
type Episode struct {
	// PublishedAt is the publish date of the entry. Zero when the feed has no parseable date.
	PublishedAt time.Time
	// Title is the entry title as written in the feed.
	Title string
	// Subtitle is the iTunes subtitle of the entry.
	Subtitle string
	// Description holds the show notes.
	Description string
	// EnclosureURL is the address of the audio file.
	EnclosureURL string
	// EnclosureType is the media type declared by the enclosure.
	EnclosureType string
	// EnclosureLength is the size declared by the enclosure, 0 when absent.
	EnclosureLength int64
	// Position is the 1-based index among accepted episodes.
	Position int
}

// String returns a short human-readable representation of the episode.
func (e *Episode) String() string {
	if e.PublishedAt.IsZero() {
		return e.Title
	}

	return fmt.Sprintf("%s (%s)", e.Title, e.PublishedAt.Format(time.DateOnly))
}

// FeedSummary holds the feed-level fields used for tags and log lines.
type FeedSummary struct {
	// Title is the name of the show.
	Title string
	// Author is the show author or publisher.
	Author string
}

// SkipReason represents why an episode was not downloaded.
type SkipReason uint8

const (
	// SkipReasonExists - audio file already exists.
	SkipReasonExists SkipReason = iota
	// SkipReasonNotesExist - notes file already exists.
	SkipReasonNotesExist
)

// String returns a human-readable representation of the SkipReason.
func (sr SkipReason) String() string {
	switch sr {
	case SkipReasonExists:
		return "already exists"
	case SkipReasonNotesExist:
		return "notes already exist"
	default:
		return fmt.Sprintf("unknown: %d", sr)
	}
}

// Phase names the step of episode processing in which an error occurred.
type Phase string

const (
	// PhaseDownload covers fetching and storing the enclosure.
	PhaseDownload Phase = "downloading episode"
	// PhaseTags covers writing ID3 tags.
	PhaseTags Phase = "writing tags"
	// PhaseNotes covers writing the notes file.
	PhaseNotes Phase = "writing notes"
)

// DownloadResult describes the outcome of a single enclosure download.
type DownloadResult struct {
	// IsExist indicates that the destination already existed and nothing was downloaded.
	IsExist bool
	// BytesDownloaded is the number of bytes written, or the announced size in dry-run mode.
	BytesDownloaded int64
}

// EpisodeError is a recorded per-episode failure.
type EpisodeError struct {
	// Position is the index of the episode among accepted episodes.
	Position int
	// Title is the episode title.
	Title string
	// URL is the enclosure URL.
	URL string
	// Phase is the step that failed.
	Phase Phase
	// ErrorMessage is the error text.
	ErrorMessage string
}

// DownloadStatistics tracks the outcome of a run.
type DownloadStatistics struct {
	// FeedTitle is the title of the processed feed.
	FeedTitle string
	// EntriesTotal is the number of entries in the feed.
	EntriesTotal int64
	// EpisodesAccepted is the number of entries with a matching enclosure.
	EpisodesAccepted int64
	// EpisodesDownloaded is the number of downloaded episodes (would-download in dry-run mode).
	EpisodesDownloaded int64
	// EpisodesSkipped is the number of episodes whose audio file already existed.
	EpisodesSkipped int64
	// EpisodesFailed is the number of episodes whose download failed.
	EpisodesFailed int64
	// TotalEpisodesProcessed counts downloaded, skipped and failed episodes.
	TotalEpisodesProcessed int64
	// NotesWritten is the number of written notes files.
	NotesWritten int64
	// NotesSkipped is the number of notes files that already existed.
	NotesSkipped int64
	// NotesFailed is the number of notes files that could not be written.
	NotesFailed int64
	// TotalBytesDownloaded is the total size of downloaded audio.
	TotalBytesDownloaded int64
	// Errors lists per-episode failures.
	Errors []EpisodeError
	// StartTime is when the run started.
	StartTime time.Time
	// EndTime is when the run finished.
	EndTime time.Time
	// IsDryRun indicates a preview run.
	IsDryRun bool
}
