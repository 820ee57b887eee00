package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/oshokin/rss-grabber/internal/utils"
)

// ErrTooManyRedirects indicates that a request was redirected more than DefaultMaxRedirects times.
var ErrTooManyRedirects = errors.New("too many redirects")

// NewClient creates the HTTP client shared by feed and episode requests.
// The chain is: User-Agent injection -> debug logging -> base transport.
// The client has no overall timeout; callers bound requests with their context.
func NewClient(userAgentProvider utils.UserAgentProvider) *http.Client {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		base = new(http.Transport)
	}

	base = base.Clone()
	base.ResponseHeaderTimeout = DefaultResponseHeaderTimeout
	base.TLSHandshakeTimeout = DefaultTLSHandshakeTimeout
	// Audio is already compressed.
	base.DisableCompression = true

	return &http.Client{
		Transport:     NewUserAgentInjector(NewLogTransport(base, 0), userAgentProvider),
		CheckRedirect: limitRedirects,
	}
}

func limitRedirects(_ *http.Request, via []*http.Request) error {
	if len(via) >= DefaultMaxRedirects {
		return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, DefaultMaxRedirects)
	}

	return nil
}
