package podcast

import (
	"context"
	"strconv"
	"strings"

	"github.com/oshokin/id3v2/v2"

	"github.com/oshokin/rss-grabber/internal/logger"
)

// TagProcessor defines the interface for writing metadata tags to audio files.
type TagProcessor interface {
	WriteTags(ctx context.Context, req *WriteTagsRequest) error
}

// WriteTagsRequest contains parameters for writing metadata to an audio file.
type WriteTagsRequest struct {
	// AudioPath is the file path of the MP3 file.
	AudioPath string
	// Episode is the episode stored in the file.
	Episode *Episode
	// Feed describes the show the episode belongs to.
	Feed *FeedSummary
}

// TagProcessorImpl provides the default implementation of TagProcessor.
type TagProcessorImpl struct{}

const (
	// podcastGenre is written to the genre frame of every episode.
	podcastGenre = "Podcast"
	// episodeNumberFrame is the common name of the TRCK frame.
	episodeNumberFrame = "Track number/Position in set"
)

// NewTagProcessor creates a new TagProcessor instance.
func NewTagProcessor() TagProcessor {
	return new(TagProcessorImpl)
}

// WriteTags writes ID3v2 frames describing the episode into the file.
func (tp *TagProcessorImpl) WriteTags(ctx context.Context, req *WriteTagsRequest) error {
	if req == nil || req.AudioPath == "" {
		return ErrEmptyAudioPath
	}

	//nolint:exhaustruct // ParseFrames intentionally omitted when Parse=false (parsing disabled).
	tag, err := id3v2.Open(req.AudioPath, id3v2.Options{Parse: false})
	if err != nil {
		return err
	}

	defer tag.Close()

	tp.addEpisodeTags(tag, req)

	logger.Debugf(ctx, "Writing ID3v2 tags to '%s'", req.AudioPath)

	return tag.Save()
}

func (tp *TagProcessorImpl) addEpisodeTags(tag *id3v2.Tag, req *WriteTagsRequest) {
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetGenre(podcastGenre)

	if req.Feed != nil {
		tag.SetAlbum(req.Feed.Title)
		tag.SetArtist(req.Feed.Author)
	}

	episode := req.Episode
	if episode == nil {
		return
	}

	tag.SetTitle(episode.Title)

	if episode.Position > 0 {
		tag.AddTextFrame(tag.CommonID(episodeNumberFrame), tag.DefaultEncoding(), strconv.Itoa(episode.Position))
	}

	if !episode.PublishedAt.IsZero() {
		tag.SetYear(strconv.Itoa(episode.PublishedAt.Year()))
	}

	description := strings.TrimSpace(episode.Description)
	if description == "" {
		description = strings.TrimSpace(episode.Subtitle)
	}

	if description != "" {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding: id3v2.EncodingUTF8,
			// Field is required, so we just use lingua franca.
			Language:    id3v2.EnglishISO6392Code,
			Description: "",
			Text:        description,
		})
	}
}
