package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oshokin/rss-grabber/internal/version"
)

// TestNewUserAgentProvider tests the NewUserAgentProvider function.
func TestNewUserAgentProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		userAgent string
		expected  string
	}{
		{
			name:      "empty user agent falls back to default",
			userAgent: "",
			expected:  "rss-grabber/" + version.Version,
		},
		{
			name:      "simple user agent",
			userAgent: "Mozilla/5.0",
			expected:  "Mozilla/5.0",
		},
		{
			name:      "podcast client user agent",
			userAgent: "AppleCoreMedia/1.0.0.21A329 (iPhone; U; CPU OS 17_0 like Mac OS X; en_us)",
			expected:  "AppleCoreMedia/1.0.0.21A329 (iPhone; U; CPU OS 17_0 like Mac OS X; en_us)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := NewUserAgentProvider(tt.userAgent)
			assert.Implements(t, (*UserAgentProvider)(nil), provider)
			assert.Equal(t, tt.expected, provider.GetUserAgent())
		})
	}
}

// TestDefaultUserAgent tests that the default User-Agent names the application.
func TestDefaultUserAgent(t *testing.T) {
	t.Parallel()

	assert.Contains(t, DefaultUserAgent(), "rss-grabber/")
	assert.NotContains(t, DefaultUserAgent(), " ")
}
