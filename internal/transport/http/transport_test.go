package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/rss-grabber/internal/logger"
	"github.com/oshokin/rss-grabber/internal/utils"
)

// TestUserAgentInjector_DoesNotMutateRequest tests that the caller's request is left untouched.
func TestUserAgentInjector_DoesNotMutateRequest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Injected/1.0", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	injector := NewUserAgentInjector(http.DefaultTransport, utils.NewUserAgentProvider("Injected/1.0"))

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)

	resp, err := injector.RoundTrip(req)
	require.NoError(t, err)

	defer resp.Body.Close() //nolint:errcheck // Test cleanup, error is not critical.

	assert.Empty(t, req.Header.Get("User-Agent"))
}

// TestLogTransport_NilRequest tests that a nil request is rejected.
func TestLogTransport_NilRequest(t *testing.T) {
	t.Parallel()

	transport := NewLogTransport(http.DefaultTransport, 0)

	resp, err := transport.RoundTrip(nil) //nolint:bodyclose // Response is nil on error.
	require.ErrorIs(t, err, ErrNilRequest)
	assert.Nil(t, resp)
}

// TestLogTransport_BodyStillReadable tests that dumping a text body at debug level keeps it readable.
//
//nolint:paralleltest // Changes the global log level.
func TestLogTransport_BodyStillReadable(t *testing.T) {
	originalLevel := logger.Level()
	defer logger.SetLevel(originalLevel)

	logger.SetLevel(zapcore.DebugLevel)

	const feedBody = `<rss version="2.0"><channel><title>Show</title></channel></rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = io.WriteString(w, feedBody)
	}))
	defer server.Close()

	transport := NewLogTransport(http.DefaultTransport, 16)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)

	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)

	defer resp.Body.Close() //nolint:errcheck // Test cleanup, error is not critical.

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, feedBody, string(body))
}

// TestNewClient tests the assembled client: User-Agent injection and redirect limit.
func TestNewClient(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ClientTest/1.0", r.Header.Get("User-Agent"))
		_, _ = io.WriteString(w, "ok")
	})
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(utils.NewUserAgentProvider("ClientTest/1.0"))

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL+"/feed.xml", http.NoBody)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "ok", string(body))

	req, err = http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL+"/loop", http.NoBody)
	require.NoError(t, err)

	// The last response is returned with its body already closed.
	_, err = client.Do(req) //nolint:bodyclose // Closed by the client on redirect errors.
	require.ErrorIs(t, err, ErrTooManyRedirects)
	assert.True(t, strings.Contains(err.Error(), "stopped after"))
}
