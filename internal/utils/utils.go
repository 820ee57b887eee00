package utils

import (
	"context"
	"errors"
	"io"
	"math"
	"mime"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// throttleInterval is the period in which at most bytesPerSecond bytes are copied.
const throttleInterval = time.Second

var (
	// textContentTypePatterns is a slice of regular expressions that match content types
	// considered to be text-based: "text/*", JSON, and the XML flavours feeds are served with.
	//nolint:gochecknoglobals // These are immutable, pre-compiled regex patterns and used as constants.
	textContentTypePatterns = []*regexp.Regexp{
		regexp.MustCompile("^text/.+"),
		regexp.MustCompile("^application/json$"),
		regexp.MustCompile(`^application/(rss|atom|rdf)\+xml$`),
		regexp.MustCompile(`^application/xml$`),
	}
)

// SafeUint64ToInt64 converts a uint64 value to an int64 safely,
// ensuring that the value does not exceed the maximum limit of int64.
func SafeUint64ToInt64(val uint64) int64 {
	if val > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(val)
}

// IsFileExist checks if a file exists at the specified path.
// It returns true if the file exists and is not a directory, false if the file does not exist,
// and an error if there was an issue accessing the file.
func IsFileExist(path string) (bool, error) {
	stat, err := os.Stat(path)
	if err == nil {
		return !stat.IsDir(), nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

// IsTextContentType checks if the given content type represents a text-based format.
// It also checks that the charset, if present, is either "utf-8" or "us-ascii".
func IsTextContentType(contentType string) bool {
	parsedType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	for _, pattern := range textContentTypePatterns {
		if !pattern.MatchString(parsedType) {
			continue
		}

		charset := strings.ToLower(params["charset"])

		return charset == "" || charset == "utf-8" || charset == "us-ascii"
	}

	return false
}

// NormalizeMediaType lower-cases a content type and strips its parameters.
// Values that cannot be parsed are only trimmed and lower-cased.
func NormalizeMediaType(contentType string) string {
	contentType = strings.TrimSpace(contentType)

	parsedType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(contentType)
	}

	return parsedType
}

// IsSameMediaType reports whether two content types name the same media type.
func IsSameMediaType(left, right string) bool {
	normalizedLeft := NormalizeMediaType(left)

	return normalizedLeft != "" && normalizedLeft == NormalizeMediaType(right)
}

// TruncateRunes shortens s to at most maxRunes runes. Non-positive limits disable truncation.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}

	return string(runes[:maxRunes])
}

// TruncateBytes shortens s to at most maxBytes bytes without splitting a UTF-8 sequence.
// Non-positive limits disable truncation.
func TruncateBytes(s string, maxBytes int) string {
	if maxBytes <= 0 || len(s) <= maxBytes {
		return s
	}

	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut]
}

// CopyWithSpeedLimit copies src to dst writing at most bytesPerSecond bytes per second.
// A non-positive limit copies without throttling. The copy stops when ctx is done.
func CopyWithSpeedLimit(ctx context.Context, dst io.Writer, src io.Reader, bytesPerSecond int64) (int64, error) {
	if bytesPerSecond <= 0 {
		return io.Copy(dst, src)
	}

	var written int64

	for {
		n, err := io.CopyN(dst, src, bytesPerSecond)
		written += n

		if errors.Is(err, io.EOF) {
			return written, nil
		}

		if err != nil {
			return written, err
		}

		select {
		case <-ctx.Done():
			return written, ctx.Err()
		case <-time.After(throttleInterval):
		}
	}
}
