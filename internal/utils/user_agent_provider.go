package utils

//go:generate $MOCKGEN -source=user_agent_provider.go -destination=mocks/user_agent_provider_mock.go

import "github.com/oshokin/rss-grabber/internal/version"

// UserAgentProvider is an interface that defines a method for retrieving a User-Agent string.
type UserAgentProvider interface {
	// GetUserAgent returns a User-Agent string.
	GetUserAgent() string
}

// StaticUserAgentProvider returns the same User-Agent for every request.
type StaticUserAgentProvider struct {
	// userAgent is the User-Agent string to return.
	userAgent string
}

// NewUserAgentProvider creates a provider for the given User-Agent.
// An empty value falls back to DefaultUserAgent.
func NewUserAgentProvider(userAgent string) UserAgentProvider {
	if userAgent == "" {
		userAgent = DefaultUserAgent()
	}

	return &StaticUserAgentProvider{userAgent: userAgent}
}

// DefaultUserAgent identifies the application and its version.
func DefaultUserAgent() string {
	return "rss-grabber/" + version.Short()
}

// GetUserAgent returns a User-Agent string.
func (p *StaticUserAgentProvider) GetUserAgent() string {
	return p.userAgent
}
