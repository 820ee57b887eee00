package podcast

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/oshokin/id3v2/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagProcessor_WriteTags(t *testing.T) {
	t.Parallel()

	audio := bytes.Repeat([]byte{0xFF, 0xFB, 0x90, 0x00}, 64)
	audioPath := filepath.Join(t.TempDir(), "episode.mp3.part")
	require.NoError(t, os.WriteFile(audioPath, audio, 0o600))

	err := NewTagProcessor().WriteTags(context.Background(), &WriteTagsRequest{
		AudioPath: audioPath,
		Episode: &Episode{
			PublishedAt: *testDate(),
			Title:       "Episode One!",
			Description: "Show notes for episode one.",
			Position:    3,
		},
		Feed: &FeedSummary{Title: "Test Show", Author: "Test Host"},
	})
	require.NoError(t, err)

	//nolint:exhaustruct // Default parse options.
	tag, err := id3v2.Open(audioPath, id3v2.Options{Parse: true})
	require.NoError(t, err)

	defer tag.Close()

	assert.Equal(t, "Episode One!", tag.Title())
	assert.Equal(t, "Test Show", tag.Album())
	assert.Equal(t, "Test Host", tag.Artist())
	assert.Equal(t, "2023", tag.Year())
	assert.Equal(t, "Podcast", tag.Genre())

	comments := tag.GetFrames(tag.CommonID("Comments"))
	require.Len(t, comments, 1)

	comment, ok := comments[0].(id3v2.CommentFrame)
	require.True(t, ok)
	assert.Equal(t, "Show notes for episode one.", comment.Text)

	content, err := os.ReadFile(audioPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(content, audio), "audio frames must be kept after the tag")
}

func TestTagProcessor_WriteTagsWithoutPath(t *testing.T) {
	t.Parallel()

	processor := NewTagProcessor()

	require.ErrorIs(t, processor.WriteTags(context.Background(), nil), ErrEmptyAudioPath)
	require.ErrorIs(t, processor.WriteTags(context.Background(), &WriteTagsRequest{}), ErrEmptyAudioPath)
}
