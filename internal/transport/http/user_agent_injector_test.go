package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_utils "github.com/oshokin/rss-grabber/internal/utils/mocks"
)

// TestUserAgentInjector_RoundTrip tests which User-Agent reaches the server.
func TestUserAgentInjector_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		requestAgent     string
		providerCalls    int
		expectedAtServer string
	}{
		{
			name:             "existing user agent is kept",
			requestAgent:     "ExistingAgent/1.0",
			providerCalls:    0,
			expectedAtServer: "ExistingAgent/1.0",
		},
		{
			name:             "missing user agent is injected",
			requestAgent:     "",
			providerCalls:    1,
			expectedAtServer: "TestAgent/1.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)

			mockProvider := mock_utils.NewMockUserAgentProvider(ctrl)
			mockProvider.EXPECT().GetUserAgent().Return("TestAgent/1.0").Times(tt.providerCalls)

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.expectedAtServer, r.Header.Get("User-Agent"))
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			injector := NewUserAgentInjector(http.DefaultTransport, mockProvider)

			req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, http.NoBody)
			require.NoError(t, err)

			if tt.requestAgent != "" {
				req.Header.Set("User-Agent", tt.requestAgent)
			}

			resp, err := injector.RoundTrip(req)
			require.NoError(t, err)

			defer resp.Body.Close() //nolint:errcheck // Test cleanup, error is not critical.

			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}
}

// TestUserAgentInjector_RoundTrip_ErrorHandling tests that transport errors are returned unchanged.
func TestUserAgentInjector_RoundTrip_ErrorHandling(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)

	mockProvider := mock_utils.NewMockUserAgentProvider(ctrl)
	mockProvider.EXPECT().GetUserAgent().Return("TestAgent/1.0").AnyTimes()

	injector := NewUserAgentInjector(http.DefaultTransport, mockProvider)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://[::1]:0", http.NoBody)
	require.NoError(t, err)

	resp, err := injector.RoundTrip(req) //nolint:bodyclose // Body is empty on error.
	require.Error(t, err)
	assert.Nil(t, resp)
}
