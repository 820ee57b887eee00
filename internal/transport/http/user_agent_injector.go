package http

import (
	"net/http"

	"github.com/oshokin/rss-grabber/internal/utils"
)

// UserAgentInjector is a custom http.RoundTripper that injects a User-Agent header into HTTP requests.
// Some podcast hosts reject requests without one.
type UserAgentInjector struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// userAgentProvider provides the User-Agent string to inject.
	userAgentProvider utils.UserAgentProvider
}

// userAgentHeader is the HTTP header name for User-Agent.
const userAgentHeader = "User-Agent"

// NewUserAgentInjector creates and returns a new instance of UserAgentInjector.
func NewUserAgentInjector(next http.RoundTripper, userAgentProvider utils.UserAgentProvider) http.RoundTripper {
	return &UserAgentInjector{
		next:              next,
		userAgentProvider: userAgentProvider,
	}
}

// RoundTrip injects a User-Agent header if it is missing and forwards the request.
// The incoming request is cloned, as a RoundTripper must not modify it.
func (t *UserAgentInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(userAgentHeader) != "" {
		return t.next.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	clone.Header.Set(userAgentHeader, t.userAgentProvider.GetUserAgent())

	return t.next.RoundTrip(clone)
}
