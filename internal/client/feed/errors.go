package feed

import "errors"

var (
	// ErrFeedFetch indicates that the feed document could not be retrieved.
	ErrFeedFetch = errors.New("failed to fetch feed")
	// ErrFeedParse indicates that the feed document is not a valid RSS/Atom document.
	ErrFeedParse = errors.New("failed to parse feed")
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrFeedTooLarge indicates that the feed document exceeds the configured size limit.
	ErrFeedTooLarge = errors.New("feed document is too large")
	// ErrEmptyFeed indicates that the parser returned no document.
	ErrEmptyFeed = errors.New("empty feed document")
)
