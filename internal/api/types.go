package api

import (
	"context"

	"github.com/deusflow/newsbrief/internal/news"
)

type Service interface {
	// Categories maps each category to its regions.
	Categories() map[string][]string
	ListArticles(ctx context.Context, category, region string) []news.ArticleStub
	SummarizeByURL(ctx context.Context, url string) string
	Stats() map[string]interface{}
}

type SummaryResponse struct {
	Title    string  `json:"title"`
	ImageURL *string `json:"image_url"`
	URL      string  `json:"url"`
	Summary  string  `json:"summary"`
}

type Handler struct {
	service Service
}
