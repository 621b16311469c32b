package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Categories())
}

func (h *Handler) GetArticles(c *gin.Context) {
	category := c.Query("category")
	region := c.Query("region")
	if category == "" || region == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category and region are required"})
		return
	}

	articles := h.service.ListArticles(c.Request.Context(), category, region)
	slog.Info("Listed articles", "category", category, "region", region, "count", len(articles))

	c.JSON(http.StatusOK, articles)
}

func (h *Handler) GetSummary(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	var imageURL *string
	if v := c.Query("image_url"); v != "" {
		imageURL = &v
	}

	c.JSON(http.StatusOK, SummaryResponse{
		Title:    c.Query("title"),
		ImageURL: imageURL,
		URL:      url,
		Summary:  h.service.SummarizeByURL(c.Request.Context(), url),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	stats := h.service.Stats()

	status := "ok"
	code := http.StatusOK
	if healthy, ok := stats["is_healthy"].(bool); ok && !healthy {
		status = "error"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"timestamp":  time.Now().Format(time.RFC3339),
		"last_error": stats["last_error"],
	})
}

func (h *Handler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Stats())
}
