package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/deusflow/newsbrief/internal/ratelimit"
	"github.com/deusflow/newsbrief/internal/textproc"
)

// MaxModelInputWords is how much of the article the model is shown.
const MaxModelInputWords = 1024

var ErrBudgetExhausted = errors.New("neural summarization budget exhausted")

// Model writes an abstractive summary between minWords and maxWords long.
type Model interface {
	Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error)
}

// ModelLoader constructs the model. It may be slow and may fail; Neural calls
// it again on the next request after a failure.
type ModelLoader func(ctx context.Context) (Model, error)

// Neural is the abstractive summarization method. The model is built on first
// use and then shared by every request that goes through this instance.
type Neural struct {
	load   ModelLoader
	budget *ratelimit.Budget

	mu    sync.Mutex
	model Model
}

// NewNeural creates the method. budget may be nil.
func NewNeural(load ModelLoader, budget *ratelimit.Budget) *Neural {
	return &Neural{load: load, budget: budget}
}

func (n *Neural) Name() string { return "neural" }

// Model returns the shared model, constructing it if no earlier call has
// succeeded. Concurrent callers wait for a single construction.
func (n *Neural) Model(ctx context.Context) (Model, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.model != nil {
		return n.model, nil
	}

	slog.Info("Loading summarization model")
	model, err := n.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load summarization model: %w", err)
	}
	if model == nil {
		return nil, errors.New("summarization model loader returned nil")
	}
	n.model = model
	return model, nil
}

func (n *Neural) Summarize(ctx context.Context, text string, target int) (string, error) {
	if n.budget != nil && !n.budget.Allow() {
		return "", ErrBudgetExhausted
	}

	model, err := n.Model(ctx)
	if err != nil {
		return "", err
	}

	if words := textproc.Words(text); len(words) > MaxModelInputWords {
		text = strings.Join(words[:MaxModelInputWords], " ")
	}

	minWords, maxWords := lengthBand(target)
	summary, err := model.Summarize(ctx, text, minWords, maxWords)
	if err != nil {
		return "", fmt.Errorf("model summarization failed: %w", err)
	}

	summary = strings.TrimSpace(summary)
	if textproc.WordCount(summary) > target {
		summary = textproc.FirstWords(summary, target)
	}
	return summary, nil
}

// lengthBand is the generation range asked of the model for a target length.
func lengthBand(target int) (int, int) {
	minWords := max(MinSummaryWords, int(float64(target)*0.7))
	maxWords := min(MaxSummaryWords, int(float64(target)*1.3))
	return minWords, maxWords
}
