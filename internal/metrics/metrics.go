package metrics

import (
	"sync"
	"time"
)

// UnhealthyAfter is how many listings in a row must come back empty before the
// service reports itself unhealthy.
const UnhealthyAfter = 5

type Metrics struct {
	mu sync.RWMutex

	// Feeds
	FeedsFetched    int64
	FeedFailures    int64
	ArticlesListed  int64
	EntriesDropped  int64
	ImagesResolved  int64
	OGImageFallback int64

	// Summaries
	SummariesRequested  int64
	InsufficientContent int64
	Unsummarizable      int64
	MethodAccepted      map[string]int64
	MethodFailed        map[string]int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool

	consecutiveEmpty int
}

var Global = New()

func New() *Metrics {
	return &Metrics{
		IsHealthy:      true,
		MethodAccepted: map[string]int64{},
		MethodFailed:   map[string]int64{},
	}
}

func (m *Metrics) IncrementFeedsFetched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedsFetched++
	feedFetchesTotal.WithLabelValues("ok").Inc()
}

func (m *Metrics) IncrementFeedFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedFailures++
	feedFetchesTotal.WithLabelValues("error").Inc()
}

func (m *Metrics) AddArticlesListed(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesListed += int64(n)
	articlesListedTotal.Add(float64(n))
}

func (m *Metrics) IncrementEntriesDropped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EntriesDropped++
	entriesDroppedTotal.Inc()
}

func (m *Metrics) IncrementImagesResolved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImagesResolved++
	imagesResolvedTotal.Inc()
}

func (m *Metrics) IncrementOGImageFallback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OGImageFallback++
	ogImageFallbacksTotal.Inc()
}

func (m *Metrics) IncrementSummariesRequested() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummariesRequested++
}

func (m *Metrics) IncrementInsufficientContent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsufficientContent++
	summariesTotal.WithLabelValues("insufficient_content").Inc()
}

func (m *Metrics) IncrementUnsummarizable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Unsummarizable++
	summariesTotal.WithLabelValues("unsummarizable").Inc()
}

func (m *Metrics) IncrementMethodAccepted(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MethodAccepted[method]++
	summariesTotal.WithLabelValues(method).Inc()
}

func (m *Metrics) IncrementMethodFailed(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MethodFailed[method]++
	methodFailuresTotal.WithLabelValues(method).Inc()
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++
	summaryDuration.Observe(duration.Seconds())

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.consecutiveEmpty = 0
	m.IsHealthy = true
}

// RecordEmptyListing records err for the stats. Health only drops once
// UnhealthyAfter listings in a row have come back empty.
func (m *Metrics) RecordEmptyListing(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.consecutiveEmpty++
	if m.consecutiveEmpty >= UnhealthyAfter {
		m.IsHealthy = false
	}
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"feeds_fetched":              m.FeedsFetched,
		"feed_failures":              m.FeedFailures,
		"articles_listed":            m.ArticlesListed,
		"entries_dropped":            m.EntriesDropped,
		"images_resolved":            m.ImagesResolved,
		"og_image_fallbacks":         m.OGImageFallback,
		"summaries_requested":        m.SummariesRequested,
		"insufficient_content":       m.InsufficientContent,
		"unsummarizable":             m.Unsummarizable,
		"method_accepted":            copyCounts(m.MethodAccepted),
		"method_failed":              copyCounts(m.MethodFailed),
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}

func copyCounts(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
