package feed

import "io"

// DownloadResult is an open enclosure download.
type DownloadResult struct {
	// Body is the response body. The caller must close it.
	Body io.ReadCloser
	// TotalBytes is the Content-Length of the response, or -1 when unknown.
	TotalBytes int64
	// ContentType is the Content-Type reported by the server.
	ContentType string
}
