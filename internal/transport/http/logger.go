package http

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/oshokin/rss-grabber/internal/config"
	"github.com/oshokin/rss-grabber/internal/logger"
	"github.com/oshokin/rss-grabber/internal/utils"
)

// LogTransport is a custom http.RoundTripper that logs HTTP requests and responses at debug level.
// Text bodies (feed documents) are dumped; binary bodies (audio) are never read.
type LogTransport struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// maxLogLength is the maximum length of a logged response dump.
	maxLogLength uint64
}

// Static error definitions for better error handling.
var (
	// ErrNilRequest indicates that the HTTP request is nil.
	ErrNilRequest = errors.New("request is nil")
)

// NewLogTransport creates and returns a new instance of LogTransport.
// A zero maxLogLength defaults to config.DefaultMaxLogLength.
func NewLogTransport(next http.RoundTripper, maxLogLength uint64) http.RoundTripper {
	if maxLogLength == 0 {
		maxLogLength = config.DefaultMaxLogLength
	}

	return &LogTransport{
		next:         next,
		maxLogLength: maxLogLength,
	}
}

// RoundTrip executes a single HTTP transaction and logs its outcome.
// It implements the http.RoundTripper interface.
func (t *LogTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	if !logger.IsDebugLevel() {
		return t.next.RoundTrip(req)
	}

	ctx := req.Context()
	startTime := time.Now()

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(startTime)

	if err != nil {
		logger.DebugKV(ctx, "HTTP request failed",
			"method", req.Method,
			"url", req.URL.Redacted(),
			"duration", duration,
			"error", err)

		return nil, err
	}

	logger.DebugKV(ctx, "HTTP request completed",
		"method", req.Method,
		"url", req.URL.Redacted(),
		"status", resp.StatusCode,
		"content_type", resp.Header.Get("Content-Type"),
		"content_length", resp.ContentLength,
		"duration", duration)

	if utils.IsTextContentType(resp.Header.Get("Content-Type")) {
		logger.Debugf(ctx, "Response: %s", t.dumpResponse(resp))
	}

	return resp, nil
}

// dumpResponse dumps a text response including its body.
// httputil.DumpResponse restores the body, so the caller can still read it.
func (t *LogTransport) dumpResponse(resp *http.Response) string {
	dump, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err.Error()
	}

	if uint64(len(dump)) > t.maxLogLength {
		return string(dump[:t.maxLogLength]) + "... [truncated]"
	}

	return string(dump)
}
