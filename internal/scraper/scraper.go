// Package scraper downloads article pages and pulls out their main body text.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/deusflow/newsbrief/internal/textproc"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultTimeout   = 15 * time.Second

	// minFallbackWords is how much text a fallback strategy must find.
	minFallbackWords = 50
)

// Content selectors, most specific first.
var contentSelectors = []string{
	"article",
	`[itemprop="articleBody"]`,
	".article-content",
	".post-content",
	"#article-body",
	".story-content",
	".article-text",
	"main",
}

const boilerplate = "script, style, nav, footer, iframe, noscript"

// maxPageBytes caps how much of a page body is read.
var maxPageBytes int64 = 5 << 20

type Extractor struct {
	client    *http.Client
	userAgent string
}

// NewExtractor uses client for downloads; a nil client gets DefaultTimeout.
func NewExtractor(client *http.Client, userAgent string) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Extractor{client: client, userAgent: userAgent}
}

// Extract returns the normalized main text of the page at url. The boolean is
// false when the page cannot be fetched or holds no usable text.
func (e *Extractor) Extract(ctx context.Context, url string) (string, bool) {
	doc, err := e.fetch(ctx, url)
	if err != nil {
		slog.Warn("Error fetching article content", "url", url, "error", err)
		return "", false
	}

	text, ok := mainText(doc)
	if !ok {
		slog.Debug("No article content found", "url", url)
		return "", false
	}
	return textproc.Clean(textproc.Truncate(text)), true
}

func (e *Extractor) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		return nil, fmt.Errorf("unexpected content type %q", contentType)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxPageBytes), contentType)
	if err != nil {
		return nil, fmt.Errorf("error decoding page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}
	return doc, nil
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// mainText applies the selector chain and then the paragraph and body
// fallbacks. Selector matches are taken as-is; fallbacks need more than
// minFallbackWords tokens.
func mainText(doc *goquery.Document) (string, bool) {
	doc.Find(boilerplate).Remove()

	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			return joinText(sel), true
		}
	}

	fallbacks := []func() string{
		func() string { return joinText(doc.Find("p")) },
		func() string { return doc.Find("body").Text() },
	}
	for _, fallback := range fallbacks {
		if text := fallback(); textproc.WordCount(text) > minFallbackWords {
			return text, true
		}
	}
	return "", false
}

func joinText(sel *goquery.Selection) string {
	parts := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		parts = append(parts, s.Text())
	})
	return strings.Join(parts, " ")
}
