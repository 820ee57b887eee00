package podcast

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/rss-grabber/internal/client/feed"
	mock_feed "github.com/oshokin/rss-grabber/internal/client/feed/mocks"
	"github.com/oshokin/rss-grabber/internal/config"
)

const (
	testFeedURL    = "https://podcasts.example.com/feed.xml"
	testEpisodeURL = "https://cdn.example.com/audio/ep1.mp3"
)

// fakeTagProcessor records tag requests instead of touching files.
type fakeTagProcessor struct {
	mu       sync.Mutex
	requests []*WriteTagsRequest
	err      error
}

func (f *fakeTagProcessor) WriteTags(_ context.Context, req *WriteTagsRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)

	return f.err
}

// testServiceSetup encapsulates common test dependencies and configuration.
type testServiceSetup struct {
	mockClient   *mock_feed.MockClient
	tagProcessor *fakeTagProcessor
	service      *ServiceImpl
	config       *config.Config
	outputPath   string
}

// newTestServiceSetup creates a standard test setup with optional config overrides.
func newTestServiceSetup(t *testing.T, configOverrides ...func(*config.Config)) *testServiceSetup {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockClient := mock_feed.NewMockClient(ctrl)
	outputPath := filepath.Join(t.TempDir(), "episodes")

	cfg := &config.Config{
		FeedURL:       testFeedURL,
		OutputPath:    outputPath,
		ContentType:   config.DefaultContentType,
		MaxStemLength: config.DefaultMaxStemLength,
	}

	for _, override := range configOverrides {
		override(cfg)
	}

	return newTestServiceSetupFor(t, cfg, mockClient)
}

// newTestServiceSetupFor builds a service around an existing mock and config.
func newTestServiceSetupFor(t *testing.T, cfg *config.Config, mockClient *mock_feed.MockClient) *testServiceSetup {
	t.Helper()

	tagProcessor := new(fakeTagProcessor)
	service, ok := NewService(cfg, mockClient, NewEntryFilter(cfg.ContentType), tagProcessor).(*ServiceImpl)
	require.True(t, ok)

	return &testServiceSetup{
		mockClient:   mockClient,
		tagProcessor: tagProcessor,
		service:      service,
		config:       cfg,
		outputPath:   cfg.OutputPath,
	}
}

// testDate returns the publish date used by test episodes.
func testDate() *time.Time {
	date := time.Date(2023, time.January, 5, 10, 0, 0, 0, time.UTC)

	return &date
}

// newTwoEntryFeed returns a feed with one audio entry and one web page entry.
func newTwoEntryFeed() *gofeed.Feed {
	return &gofeed.Feed{
		Title: "Test Show",
		Items: []*gofeed.Item{
			{
				Title:           "Episode One!",
				Description:     "Show notes for episode one.",
				PublishedParsed: testDate(),
				Enclosures: []*gofeed.Enclosure{
					{URL: testEpisodeURL, Type: "audio/mpeg", Length: "4"},
				},
			},
			{
				Title:           "Blog post",
				PublishedParsed: testDate(),
				Enclosures: []*gofeed.Enclosure{
					{URL: "https://podcasts.example.com/post.html", Type: "text/html"},
				},
			},
		},
	}
}

// newAudioItem returns a feed entry with an audio/mpeg enclosure.
func newAudioItem(title, enclosureURL string) *gofeed.Item {
	return &gofeed.Item{
		Title:           title,
		Description:     "Notes for " + title,
		PublishedParsed: testDate(),
		Enclosures: []*gofeed.Enclosure{
			{URL: enclosureURL, Type: "audio/mpeg"},
		},
	}
}

// newDownloadResult wraps data into a client download result.
func newDownloadResult(data []byte) *feed.DownloadResult {
	return &feed.DownloadResult{
		Body:        io.NopCloser(bytes.NewReader(data)),
		TotalBytes:  int64(len(data)),
		ContentType: "audio/mpeg",
	}
}

// listFiles returns the sorted names of regular files in dir, or nil when dir does not exist.
func listFiles(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}

	require.NoError(t, err)

	var names []string

	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)

	return names
}
