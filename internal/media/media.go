// Package media picks a representative image for a feed entry.
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/deusflow/newsbrief/internal/metrics"
	"github.com/deusflow/newsbrief/internal/rss"
)

const OGTimeout = 5 * time.Second

// maxPageBytes caps how much of a linked page is read looking for og:image.
var maxPageBytes int64 = 1 << 20

type Resolver struct {
	client    *http.Client
	userAgent string
}

// NewResolver uses client for the Open Graph fallback; a nil client gets
// OGTimeout.
func NewResolver(client *http.Client, userAgent string) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: OGTimeout}
	}
	return &Resolver{client: client, userAgent: userAgent}
}

// Resolve returns an absolute image URL for entry, or "" when none is found.
// Priority: media:content (image/*) > media:thumbnail > enclosure (image/*) >
// <img> in content > <img> in summary > typed link (image/*) > og:image of
// the linked page.
func (r *Resolver) Resolve(ctx context.Context, entry *rss.Entry) string {
	raw := embeddedImage(entry)
	if raw == "" && entry.Link != "" {
		raw = r.ogImage(ctx, entry.Link)
		if raw != "" {
			metrics.Global.IncrementOGImageFallback()
		}
	}
	if raw == "" {
		return ""
	}

	metrics.Global.IncrementImagesResolved()
	return normalize(raw, entry.Link)
}

// embeddedImage walks the candidates carried by the feed itself.
func embeddedImage(entry *rss.Entry) string {
	// Priority 1: first media:content with an image type
	for _, m := range entry.MediaOf(rss.MediaContent) {
		if isImageType(m.Type) {
			if m.URL != "" {
				return m.URL
			}
			break
		}
	}

	// Priority 2: media:thumbnail
	for _, m := range entry.MediaOf(rss.MediaThumbnail) {
		if m.URL != "" {
			return m.URL
		}
	}

	// Priority 3: enclosure with an image type
	for _, m := range entry.MediaOf(rss.MediaEnclosure) {
		if isImageType(m.Type) {
			if m.URL != "" {
				return m.URL
			}
			break
		}
	}

	// Priority 4: first <img> of each content body
	for _, body := range entry.Contents {
		if src := firstImg(body); src != "" {
			return src
		}
	}

	// Priority 5: first <img> of the summary
	if src := firstImg(entry.Summary); src != "" {
		return src
	}

	// Priority 6: typed links
	for _, m := range entry.MediaOf(rss.MediaLink) {
		if isImageType(m.Type) {
			if m.URL != "" {
				return m.URL
			}
			break
		}
	}

	return ""
}

func isImageType(t string) bool {
	return strings.HasPrefix(t, "image/")
}

func firstImg(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img").First().Attr("src")
	return src
}

// ogImage reads og:image from the page at link. Failures are logged and
// yield "".
func (r *Resolver) ogImage(ctx context.Context, link string) string {
	ctx, cancel := context.WithTimeout(ctx, OGTimeout)
	defer cancel()

	content, err := r.fetchOGImage(ctx, link)
	if err != nil {
		slog.Debug("Open Graph image lookup failed", "url", link, "error", err)
		return ""
	}
	return content
}

func (r *Resolver) fetchOGImage(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", err
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxPageBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", err
	}

	content, _ := doc.Find(`meta[property="og:image"]`).First().Attr("content")
	return content, nil
}

// normalize drops the query and fragment and makes raw absolute: "//host/p"
// gets https, other relative URLs resolve against https://<link host> or,
// when link has no host, against link itself.
func normalize(raw, link string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}

	switch {
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return raw
	case link == "":
		return raw
	}

	base, err := url.Parse(link)
	if err != nil {
		return raw
	}
	if base.Host != "" {
		base = &url.URL{Scheme: "https", Host: base.Host}
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return base.ResolveReference(ref).String()
}
