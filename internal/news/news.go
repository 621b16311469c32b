package news

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/deusflow/newsbrief/internal/metrics"
	"github.com/deusflow/newsbrief/internal/rss"
)

const (
	// MaxArticles caps one listing across all feeds of a category and region.
	MaxArticles = 20
	// DefaultWorkers is how many entries are processed at once.
	DefaultWorkers = 5
)

// ArticleStub is what a listing shows for one article.
type ArticleStub struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	ImageURL string `json:"image_url"`
}

// MarshalJSON encodes a missing image as null.
func (a ArticleStub) MarshalJSON() ([]byte, error) {
	var image *string
	if a.ImageURL != "" {
		image = &a.ImageURL
	}
	return json.Marshal(struct {
		Title    string  `json:"title"`
		URL      string  `json:"url"`
		ImageURL *string `json:"image_url"`
	}{a.Title, a.URL, image})
}

type ImageResolver interface {
	Resolve(ctx context.Context, entry *rss.Entry) string
}

// Processor turns feed entries into article stubs on a bounded worker pool.
type Processor struct {
	images  ImageResolver
	workers int
}

func NewProcessor(images ImageResolver, workers int) *Processor {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Processor{images: images, workers: workers}
}

// Process returns one stub per entry in completion order. An entry whose
// processing fails or panics is logged and dropped without affecting the rest.
func (p *Processor) Process(ctx context.Context, entries []*rss.Entry) []ArticleStub {
	var (
		mu    sync.Mutex
		stubs = make([]ArticleStub, 0, len(entries))
	)

	var g errgroup.Group
	g.SetLimit(p.workers)
	for _, entry := range entries {
		entry := entry // per-iteration copy; go.mod targets go1.21 loop semantics
		g.Go(func() error {
			stub, err := p.processEntry(ctx, entry)
			if err != nil {
				slog.Warn("Error processing entry", "error", err)
				metrics.Global.IncrementEntriesDropped()
				return nil
			}
			mu.Lock()
			stubs = append(stubs, stub)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return stubs
}

func (p *Processor) processEntry(ctx context.Context, entry *rss.Entry) (stub ArticleStub, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic processing entry: %v", r)
		}
	}()

	if entry == nil {
		return ArticleStub{}, fmt.Errorf("nil entry")
	}

	title := entry.Title
	if title == "" {
		title = "No title"
	}
	return ArticleStub{
		Title:    title,
		URL:      entry.Link,
		ImageURL: p.images.Resolve(ctx, entry),
	}, nil
}

type FeedReader interface {
	Fetch(ctx context.Context, url string) ([]*rss.Entry, error)
}

// Aggregator lists articles across several feeds.
type Aggregator struct {
	reader    FeedReader
	processor *Processor
	limit     int
}

func NewAggregator(reader FeedReader, processor *Processor) *Aggregator {
	return &Aggregator{reader: reader, processor: processor, limit: MaxArticles}
}

// Collect fetches feeds in order and accumulates their stubs until MaxArticles
// is reached. A feed that fails is logged and skipped.
func (a *Aggregator) Collect(ctx context.Context, feeds []string) []ArticleStub {
	articles := []ArticleStub{}
	successCount := 0

	for _, url := range feeds {
		entries, err := a.reader.Fetch(ctx, url)
		if err != nil {
			slog.Warn("Error fetching articles from feed", "url", url, "error", err)
			metrics.Global.IncrementFeedFailures()
			continue
		}
		successCount++
		metrics.Global.IncrementFeedsFetched()

		articles = append(articles, a.processor.Process(ctx, entries)...)
		if len(articles) >= a.limit {
			articles = articles[:a.limit]
			break
		}
	}

	slog.Info("Processed feeds", "ok", successCount, "total", len(feeds), "articles", len(articles))
	metrics.Global.AddArticlesListed(len(articles))
	return articles
}
