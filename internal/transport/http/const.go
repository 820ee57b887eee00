package http

import "time"

const (
	// DefaultResponseHeaderTimeout bounds the wait for response headers.
	// Bodies are not bounded: episodes can take a long time to download.
	DefaultResponseHeaderTimeout = 30 * time.Second

	// DefaultTLSHandshakeTimeout bounds the TLS handshake.
	DefaultTLSHandshakeTimeout = 10 * time.Second

	// DefaultMaxRedirects is the number of redirects followed before giving up.
	// Podcast hosts commonly chain several tracking redirects in front of the media file.
	DefaultMaxRedirects = 10
)
