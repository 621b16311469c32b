package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/deusflow/newsbrief/internal/config"
	"github.com/deusflow/newsbrief/internal/gemini"
	"github.com/deusflow/newsbrief/internal/media"
	"github.com/deusflow/newsbrief/internal/metrics"
	"github.com/deusflow/newsbrief/internal/news"
	"github.com/deusflow/newsbrief/internal/ratelimit"
	"github.com/deusflow/newsbrief/internal/retry"
	"github.com/deusflow/newsbrief/internal/rss"
	"github.com/deusflow/newsbrief/internal/scraper"
	"github.com/deusflow/newsbrief/internal/summarize"
)

// Summarizer produces a summary or a sentinel string for an article URL.
type Summarizer interface {
	Summarize(ctx context.Context, url string) string
}

// Service lists articles per category and region and summarizes single
// articles.
type Service struct {
	catalog    *rss.Catalog
	aggregator *news.Aggregator
	summarizer Summarizer
	budget     *ratelimit.Budget
}

func NewService(catalog *rss.Catalog, aggregator *news.Aggregator, summarizer Summarizer, budget *ratelimit.Budget) *Service {
	return &Service{
		catalog:    catalog,
		aggregator: aggregator,
		summarizer: summarizer,
		budget:     budget,
	}
}

// New wires the production service from cfg. The returned cleanup releases
// the model client, if one was created.
func New(cfg *config.Config) (*Service, func(), error) {
	catalog, err := rss.LoadCatalog(cfg.FeedsConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load feeds: %w", err)
	}

	reader := rss.NewReader(nil, "", cfg.FeedTimeout)
	processor := news.NewProcessor(media.NewResolver(nil, cfg.UserAgent), news.DefaultWorkers)
	aggregator := news.NewAggregator(reader, processor)

	budget := ratelimit.NewBudget("neural", cfg.MaxNeuralRequests, 24*time.Hour)
	policy := retry.Policy{
		MaxAttempts: cfg.NeuralRetryAttempts,
		Delay:       cfg.NeuralRetryDelay,
		Backoff:     true,
	}

	var (
		mu     sync.Mutex
		client *gemini.Client
	)
	neural := summarize.NewNeural(func(ctx context.Context) (summarize.Model, error) {
		c, err := gemini.NewClient(context.WithoutCancel(ctx), cfg.GeminiAPIKey, cfg.GeminiModel, policy)
		if err != nil {
			return nil, err
		}
		mu.Lock()
		client = c
		mu.Unlock()
		return c, nil
	}, budget)
	cleanup := func() {
		mu.Lock()
		defer mu.Unlock()
		if client != nil {
			client.Close()
		}
	}

	extractor := scraper.NewExtractor(nil, cfg.UserAgent)
	cascade := summarize.NewCascade(extractor, summarize.DefaultMethods(neural)...)

	slog.Info("Service ready", "categories", len(catalog.Categories), "neural_limit", cfg.MaxNeuralRequests)
	return NewService(catalog, aggregator, cascade, budget), cleanup, nil
}

func (s *Service) Categories() map[string][]string {
	out := make(map[string][]string, len(s.catalog.Categories))
	for _, name := range s.catalog.CategoryNames() {
		out[name] = s.catalog.Regions(name)
	}
	return out
}

// ListArticles returns at most news.MaxArticles stubs from the feeds of
// category and region. Unknown pairs and failing feeds yield an empty list.
func (s *Service) ListArticles(ctx context.Context, category, region string) []news.ArticleStub {
	feeds := s.catalog.Feeds(category, region)
	if len(feeds) == 0 {
		slog.Info("No feeds configured", "category", category, "region", region)
		return []news.ArticleStub{}
	}

	articles := s.aggregator.Collect(ctx, feeds)
	if len(articles) == 0 {
		metrics.Global.RecordEmptyListing(fmt.Sprintf("no articles for %s/%s", category, region))
	} else {
		metrics.Global.SetLastRun()
	}
	return articles
}

func (s *Service) SummarizeByURL(ctx context.Context, url string) string {
	return s.summarizer.Summarize(ctx, url)
}

func (s *Service) Stats() map[string]interface{} {
	stats := metrics.Global.GetStats()
	if s.budget != nil {
		stats["neural_budget"] = s.budget.GetStats()
	}
	return stats
}
