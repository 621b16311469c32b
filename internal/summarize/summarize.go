// Package summarize turns an article URL into a short summary by running a
// fixed cascade of summarization methods and keeping the first result whose
// length falls inside the accepted band.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/deusflow/newsbrief/internal/metrics"
	"github.com/deusflow/newsbrief/internal/textproc"
)

const (
	// TargetWords is the length every method aims for.
	TargetWords = 100
	// MinSummaryWords and MaxSummaryWords bound an accepted summary.
	MinSummaryWords = 30
	MaxSummaryWords = 150
	// MinSourceWords is the least amount of article text worth summarizing.
	MinSourceWords = 50
)

// Sentinel results returned instead of a summary.
const (
	InsufficientContent = "Insufficient content for summarization."
	Unsummarizable      = "Could not generate a sufficiently concise summary."
)

// Method is one summarization strategy. Summarize returns a candidate summary
// of roughly target words; an error moves the cascade on to the next method.
type Method interface {
	Name() string
	Summarize(ctx context.Context, text string, target int) (string, error)
}

// MethodFunc adapts a plain function to Method.
type MethodFunc struct {
	Label string
	Fn    func(ctx context.Context, text string, target int) (string, error)
}

func (m MethodFunc) Name() string { return m.Label }

func (m MethodFunc) Summarize(ctx context.Context, text string, target int) (string, error) {
	return m.Fn(ctx, text, target)
}

// ContentExtractor fetches an article and returns its cleaned body text.
type ContentExtractor interface {
	Extract(ctx context.Context, url string) (string, bool)
}

type Cascade struct {
	extractor ContentExtractor
	methods   []Method
	target    int
}

// NewCascade runs methods in the given order.
func NewCascade(extractor ContentExtractor, methods ...Method) *Cascade {
	return &Cascade{
		extractor: extractor,
		methods:   methods,
		target:    TargetWords,
	}
}

// DefaultMethods returns the production order: the neural model first, then
// TextRank, then TF-IDF.
func DefaultMethods(neural *Neural) []Method {
	return []Method{
		neural,
		MethodFunc{Label: "textrank", Fn: func(_ context.Context, text string, target int) (string, error) {
			return TextRank(text, target)
		}},
		MethodFunc{Label: "tfidf", Fn: func(_ context.Context, text string, target int) (string, error) {
			return TFIDF(text, target)
		}},
	}
}

// Summarize never fails: when no summary can be produced it returns one of the
// sentinel strings.
func (c *Cascade) Summarize(ctx context.Context, url string) string {
	startTime := time.Now()
	metrics.Global.IncrementSummariesRequested()
	defer func() {
		metrics.Global.RecordProcessingTime(time.Since(startTime))
	}()

	text, ok := c.extractor.Extract(ctx, url)
	if !ok || textproc.WordCount(text) < MinSourceWords {
		slog.Info("Not enough article text to summarize", "url", url)
		metrics.Global.IncrementInsufficientContent()
		return InsufficientContent
	}

	for _, method := range c.methods {
		candidate, err := c.attempt(ctx, method, text)
		if err != nil {
			slog.Warn("Summarization method failed", "method", method.Name(), "url", url, "error", err)
			metrics.Global.IncrementMethodFailed(method.Name())
			continue
		}

		words := textproc.WordCount(candidate)
		if candidate == "" || words < MinSummaryWords || words > MaxSummaryWords {
			slog.Debug("Summary rejected", "method", method.Name(), "words", words)
			continue
		}

		if summary, ok := finalize(candidate); ok {
			slog.Info("Summary generated", "method", method.Name(), "url", url, "words", words)
			metrics.Global.IncrementMethodAccepted(method.Name())
			return summary
		}
	}

	metrics.Global.IncrementUnsummarizable()
	return Unsummarizable
}

func (c *Cascade) attempt(ctx context.Context, method Method, text string) (summary string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", method.Name(), r)
		}
	}()
	return method.Summarize(ctx, text, c.target)
}

// finalize applies the outer length policy: long summaries are cut to
// MaxSummaryWords tokens, short ones are discarded.
func finalize(summary string) (string, bool) {
	words := textproc.WordCount(summary)
	switch {
	case words > MaxSummaryWords:
		return textproc.FirstWords(summary, MaxSummaryWords), true
	case words < MinSummaryWords:
		return "", false
	}
	return summary, true
}
