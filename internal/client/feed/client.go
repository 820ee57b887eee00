package feed

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/oshokin/rss-grabber/internal/config"
	"github.com/oshokin/rss-grabber/internal/logger"
	http_transport "github.com/oshokin/rss-grabber/internal/transport/http"
	"github.com/oshokin/rss-grabber/internal/utils"
)

// Client defines the interface for talking to podcast hosts.
type Client interface {
	// FetchFeed downloads and parses the feed document at feedURL.
	FetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error)
	// DownloadFromURL opens the enclosure at the specified URL for reading.
	DownloadFromURL(ctx context.Context, url string) (*DownloadResult, error)
}

// ClientImpl implements the Client interface.
type ClientImpl struct {
	// httpClient is the HTTP client for making requests.
	httpClient *http.Client
	// parser turns feed documents into gofeed structures.
	parser *gofeed.Parser
	// maxFeedSize is the maximum accepted size of a feed document in bytes.
	maxFeedSize int64
	// feedTimeout bounds a single feed fetch.
	feedTimeout time.Duration
}

const (
	// acceptFeedHeader prefers feed media types but accepts anything, as many hosts serve feeds as text/html.
	acceptFeedHeader = "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.9, */*;q=0.8"
	// acceptAudioHeader is sent with enclosure downloads.
	acceptAudioHeader = "audio/*, */*;q=0.8"
)

// NewClient creates and returns a new instance of ClientImpl using the application transport chain.
func NewClient(cfg *config.Config) Client {
	httpClient := http_transport.NewClient(utils.NewUserAgentProvider(cfg.UserAgent))

	return NewClientWithHTTPClient(cfg, httpClient)
}

// NewClientWithHTTPClient creates a client on top of an existing HTTP client.
func NewClientWithHTTPClient(cfg *config.Config, httpClient *http.Client) Client {
	return &ClientImpl{
		httpClient:  httpClient,
		parser:      gofeed.NewParser(),
		maxFeedSize: cfg.ParsedMaxFeedSize,
		feedTimeout: cfg.ParsedFeedTimeout,
	}
}

// FetchFeed downloads and parses the feed document at feedURL.
// Transport failures, non-2xx statuses and oversized documents wrap ErrFeedFetch;
// documents that are not RSS/Atom wrap ErrFeedParse.
func (c *ClientImpl) FetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	if c.feedTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.feedTimeout)
		defer cancel()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFeedFetch, feedURL, err)
	}

	request.Header.Set("Accept", acceptFeedHeader)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFeedFetch, feedURL, err)
	}

	defer response.Body.Close() //nolint:errcheck // Error on close is not critical here.

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w %s: %w: %d", ErrFeedFetch, feedURL, ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	document, err := c.readFeedDocument(response.Body)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFeedFetch, feedURL, err)
	}

	logger.Debugf(ctx, "Fetched feed document of %d bytes", len(document))

	parsedFeed, err := c.parser.Parse(bytes.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFeedParse, feedURL, err)
	}

	if parsedFeed == nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFeedParse, feedURL, ErrEmptyFeed)
	}

	return parsedFeed, nil
}

// DownloadFromURL opens the enclosure at the specified URL for reading.
func (c *ClientImpl) DownloadFromURL(ctx context.Context, url string) (*DownloadResult, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}

	request.Header.Set("Accept", acceptAudioHeader)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		response.Body.Close() //nolint:errcheck,gosec // Error on close is not critical here.

		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	return &DownloadResult{
		Body:        response.Body,
		TotalBytes:  response.ContentLength,
		ContentType: response.Header.Get("Content-Type"),
	}, nil
}

// readFeedDocument reads the whole body, failing when it exceeds maxFeedSize.
func (c *ClientImpl) readFeedDocument(body io.Reader) ([]byte, error) {
	if c.maxFeedSize <= 0 {
		return io.ReadAll(body)
	}

	// Read one byte past the limit to tell "exactly at the limit" from "too large".
	document, err := io.ReadAll(io.LimitReader(body, c.maxFeedSize+1))
	if err != nil {
		return nil, err
	}

	if int64(len(document)) > c.maxFeedSize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFeedTooLarge, c.maxFeedSize)
	}

	return document, nil
}
