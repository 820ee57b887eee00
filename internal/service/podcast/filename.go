package podcast

import (
	"net/url"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/oshokin/rss-grabber/internal/constants"
	"github.com/oshokin/rss-grabber/internal/utils"
)

const (
	// untitledStem replaces titles that sanitize to nothing.
	untitledStem = "untitled"
	// stemSeparator joins words of the stem and the date prefix.
	stemSeparator = '_'
	// maxExtensionLength is the longest URL suffix accepted as an extension, dot excluded.
	maxExtensionLength = 5
	// maxFileNameBytes is the file name limit of common file systems (ext4, APFS, NTFS in UTF-8).
	maxFileNameBytes = 255
	// maxStemBytes leaves room for the longest extension and the temporary download suffix.
	maxStemBytes = maxFileNameBytes - len(constants.ExtensionPart) - 1 - maxExtensionLength
)

//nolint:gochecknoglobals // Read-only replacer.
var apostropheRemover = strings.NewReplacer("'", "", "’", "", "‘", "", "`", "")

// BuildStem derives the filename stem from the publish date and title.
// The result is YYYY-MM-DD_snake_case_title, or the title part alone for a zero date.
// A positive maxLength limits the stem to that many characters.
// The stem never exceeds maxStemBytes bytes, whatever maxLength is.
func BuildStem(publishedAt time.Time, title string, maxLength int) string {
	titlePart := sanitizeTitle(title)
	if titlePart == "" {
		titlePart = untitledStem
	}

	stem := titlePart
	if !publishedAt.IsZero() {
		stem = publishedAt.Format(time.DateOnly) + string(stemSeparator) + titlePart
	}

	stem = utils.TruncateBytes(utils.TruncateRunes(stem, maxLength), maxStemBytes)

	return strings.TrimRight(stem, string(stemSeparator))
}

// sanitizeTitle lower-cases the title and joins its words with underscores.
// Only letters, digits and hyphens survive; apostrophes are dropped so "Don't" becomes "dont".
func sanitizeTitle(title string) string {
	title = apostropheRemover.Replace(strings.ToLower(title))

	var (
		builder       strings.Builder
		pendingSpacer bool
	)

	builder.Grow(len(title))

	for _, r := range title {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
			pendingSpacer = true

			continue
		}

		if pendingSpacer && builder.Len() > 0 {
			builder.WriteRune(stemSeparator)
		}

		pendingSpacer = false

		builder.WriteRune(r)
	}

	return builder.String()
}

// ExtensionFromURL returns the lower-cased extension of the last path segment of rawURL.
// Query strings and fragments are ignored. URLs without a usable extension get ".mp3".
func ExtensionFromURL(rawURL string) string {
	parsedURL, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return constants.ExtensionMP3
	}

	extension := strings.ToLower(path.Ext(parsedURL.Path))
	if !isUsableExtension(extension) {
		return constants.ExtensionMP3
	}

	return extension
}

// isUsableExtension rejects suffixes that are not short alphanumeric extensions
// and the ones reserved for notes and unfinished downloads.
func isUsableExtension(extension string) bool {
	if extension == constants.ExtensionTXT || extension == constants.ExtensionPart {
		return false
	}

	suffix := strings.TrimPrefix(extension, ".")
	if suffix == "" || suffix == extension || len(suffix) > maxExtensionLength {
		return false
	}

	for _, r := range suffix {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}

	return true
}
