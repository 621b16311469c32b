package rss

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

const (
	// MaxEntries is how many entries of a feed are processed.
	MaxEntries = 20

	DefaultTimeout = 20 * time.Second
)

type MediaKind string

const (
	MediaContent   MediaKind = "content"
	MediaThumbnail MediaKind = "thumbnail"
	MediaEnclosure MediaKind = "enclosure"
	MediaLink      MediaKind = "link"
)

// Media is a URL attached to an entry, with its declared MIME type if any.
type Media struct {
	Kind MediaKind
	Type string
	URL  string
}

// Entry is one feed item reduced to what article listing needs.
type Entry struct {
	Title string
	Link  string
	Media []Media
	// Contents holds the HTML bodies of the entry, Summary its HTML description.
	Contents []string
	Summary  string
}

// MediaOf returns the entry's media of the given kind in document order.
func (e *Entry) MediaOf(kind MediaKind) []Media {
	var out []Media
	for _, m := range e.Media {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

type Reader struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

// NewReader builds a feed reader. A nil client uses http.DefaultClient and a
// zero timeout uses DefaultTimeout.
func NewReader(client *http.Client, userAgent string, timeout time.Duration) *Reader {
	parser := gofeed.NewParser()
	parser.AtomTranslator = &atomTranslator{DefaultAtomTranslator: &gofeed.DefaultAtomTranslator{}}
	if client != nil {
		parser.Client = client
	}
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Reader{parser: parser, timeout: timeout}
}

// Fetch downloads and parses the feed at url and returns up to MaxEntries
// entries in source order.
func (r *Reader) Fetch(ctx context.Context, url string) ([]*Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	feed, err := r.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("error parsing feed %s: %w", url, err)
	}

	items := feed.Items
	if len(items) > MaxEntries {
		items = items[:MaxEntries]
	}

	entries := make([]*Entry, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		entries = append(entries, entryFromItem(item))
	}

	slog.Debug("Loaded feed", "url", url, "items", len(feed.Items), "entries", len(entries))
	return entries, nil
}

func entryFromItem(item *gofeed.Item) *Entry {
	entry := &Entry{
		Title:   item.Title,
		Link:    item.Link,
		Summary: item.Description,
	}
	if entry.Title == "" {
		entry.Title = "No title"
	}
	if item.Content != "" {
		entry.Contents = append(entry.Contents, item.Content)
	}

	if media, ok := item.Extensions["media"]; ok {
		for _, c := range mediaElements(media, "content") {
			entry.Media = append(entry.Media, Media{Kind: MediaContent, Type: c.Attrs["type"], URL: c.Attrs["url"]})
		}
		for _, thumb := range mediaElements(media, "thumbnail") {
			entry.Media = append(entry.Media, Media{Kind: MediaThumbnail, URL: thumb.Attrs["url"]})
		}
	}

	for _, enc := range item.Enclosures {
		if enc == nil {
			continue
		}
		entry.Media = append(entry.Media, Media{Kind: MediaEnclosure, Type: enc.Type, URL: enc.URL})
	}

	if atomExt, ok := item.Extensions["atom"]; ok {
		for _, link := range atomExt["link"] {
			entry.Media = append(entry.Media, Media{Kind: MediaLink, Type: link.Attrs["type"], URL: link.Attrs["href"]})
		}
	}

	return entry
}

// mediaElements returns the named media elements, followed by those nested in
// media:group, in document order.
func mediaElements(media map[string][]ext.Extension, name string) []ext.Extension {
	out := append([]ext.Extension(nil), media[name]...)
	for _, group := range media["group"] {
		out = append(out, group.Children[name]...)
	}
	return out
}
