package podcast

import (
	"context"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/oshokin/rss-grabber/internal/logger"
	"github.com/oshokin/rss-grabber/internal/utils"
)

// EntryFilter selects the feed entries that carry downloadable audio.
type EntryFilter interface {
	// ExtractEpisodes returns the accepted entries of parsedFeed in feed order.
	ExtractEpisodes(ctx context.Context, parsedFeed *gofeed.Feed) []*Episode
	// SummarizeFeed returns the feed-level fields.
	SummarizeFeed(parsedFeed *gofeed.Feed) *FeedSummary
}

// EntryFilterImpl accepts entries with an enclosure of a single media type.
type EntryFilterImpl struct {
	// contentType is the accepted enclosure media type.
	contentType string
}

// NewEntryFilter creates a filter accepting enclosures of contentType.
// Media types are compared case-insensitively and without parameters.
func NewEntryFilter(contentType string) EntryFilter {
	return &EntryFilterImpl{
		contentType: contentType,
	}
}

// ExtractEpisodes returns the accepted entries of parsedFeed in feed order.
// The first matching enclosure of an entry is used; other entries are dropped.
func (f *EntryFilterImpl) ExtractEpisodes(ctx context.Context, parsedFeed *gofeed.Feed) []*Episode {
	if parsedFeed == nil {
		return nil
	}

	episodes := make([]*Episode, 0, len(parsedFeed.Items))

	for index, item := range parsedFeed.Items {
		if item == nil {
			continue
		}

		enclosure := f.findEnclosure(item)
		if enclosure == nil {
			logger.DebugKV(ctx, "Skipping entry without matching enclosure",
				"index", index+1,
				"title", item.Title,
				"accepted_type", f.contentType)

			continue
		}

		episodes = append(episodes, newEpisode(item, enclosure, len(episodes)+1))
	}

	return episodes
}

// SummarizeFeed returns the feed-level fields.
func (f *EntryFilterImpl) SummarizeFeed(parsedFeed *gofeed.Feed) *FeedSummary {
	summary := new(FeedSummary)
	if parsedFeed == nil {
		return summary
	}

	summary.Title = strings.TrimSpace(parsedFeed.Title)

	switch {
	case parsedFeed.ITunesExt != nil && strings.TrimSpace(parsedFeed.ITunesExt.Author) != "":
		summary.Author = strings.TrimSpace(parsedFeed.ITunesExt.Author)
	case len(parsedFeed.Authors) > 0 && parsedFeed.Authors[0] != nil:
		summary.Author = strings.TrimSpace(parsedFeed.Authors[0].Name)
	}

	return summary
}

func (f *EntryFilterImpl) findEnclosure(item *gofeed.Item) *gofeed.Enclosure {
	for _, enclosure := range item.Enclosures {
		if enclosure == nil || strings.TrimSpace(enclosure.URL) == "" {
			continue
		}

		if utils.IsSameMediaType(enclosure.Type, f.contentType) {
			return enclosure
		}
	}

	return nil
}

func newEpisode(item *gofeed.Item, enclosure *gofeed.Enclosure, position int) *Episode {
	episode := &Episode{
		Title:         strings.TrimSpace(item.Title),
		Description:   strings.TrimSpace(item.Description),
		EnclosureURL:  strings.TrimSpace(enclosure.URL),
		EnclosureType: enclosure.Type,
		Position:      position,
	}

	// Atom entries only carry an update date.
	switch {
	case item.PublishedParsed != nil:
		episode.PublishedAt = *item.PublishedParsed
	case item.UpdatedParsed != nil:
		episode.PublishedAt = *item.UpdatedParsed
	}

	if episode.Description == "" {
		episode.Description = strings.TrimSpace(item.Content)
	}

	if item.ITunesExt != nil {
		episode.Subtitle = strings.TrimSpace(item.ITunesExt.Subtitle)
	}

	if length, err := strconv.ParseInt(strings.TrimSpace(enclosure.Length), 10, 64); err == nil && length > 0 {
		episode.EnclosureLength = length
	}

	return episode
}
