package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deusflow/newsbrief/internal/metrics"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}

	r := gin.New()
	r.Use(requestLogger())
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler) {
	r.GET("/categories", handler.GetCategories)
	r.GET("/articles", handler.GetArticles)
	r.GET("/summary", handler.GetSummary)

	r.GET("/health", handler.GetHealth)
	r.GET("/metrics", handler.GetMetrics)
	r.GET("/metrics/prometheus", gin.WrapH(metrics.Handler()))

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "newsbrief",
			"endpoints": map[string]string{
				"categories": "/categories",
				"articles":   "/articles?category=<category>&region=<region>",
				"summary":    "/summary?url=<article url>&title=<title>&image_url=<image url>",
				"health":     "/health",
				"metrics":    "/metrics",
				"prometheus": "/metrics/prometheus",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}
