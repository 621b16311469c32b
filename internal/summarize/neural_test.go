package summarize

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/newsbrief/internal/ratelimit"
	"github.com/deusflow/newsbrief/internal/textproc"
)

type recordingModel struct {
	mu       sync.Mutex
	output   string
	input    string
	minWords int
	maxWords int
}

func (m *recordingModel) Summarize(_ context.Context, text string, minWords, maxWords int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.input, m.minWords, m.maxWords = text, minWords, maxWords
	return m.output, nil
}

func TestNeural_LoadsModelOnce(t *testing.T) {
	var loads int32
	model := &recordingModel{output: "ok"}
	n := NewNeural(func(context.Context) (Model, error) {
		atomic.AddInt32(&loads, 1)
		time.Sleep(10 * time.Millisecond)
		return model, nil
	}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := n.Model(context.Background())
			assert.NoError(t, err)
			assert.Same(t, model, got)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestNeural_RetriesLoadAfterFailure(t *testing.T) {
	calls := 0
	n := NewNeural(func(context.Context) (Model, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("download interrupted")
		}
		return &recordingModel{output: "ok"}, nil
	}, nil)

	_, err := n.Model(context.Background())
	require.Error(t, err)

	_, err = n.Model(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestNeural_PassesBandAndCapsInput(t *testing.T) {
	model := &recordingModel{output: "A short abstract."}
	n := NewNeural(func(context.Context) (Model, error) { return model, nil }, nil)

	text := strings.Repeat("word ", 2000)
	_, err := n.Summarize(context.Background(), text, 100)
	require.NoError(t, err)

	assert.Equal(t, 70, model.minWords)
	assert.Equal(t, 130, model.maxWords)
	assert.Equal(t, MaxModelInputWords, textproc.WordCount(model.input))
}

func TestNeural_TruncatesLongOutput(t *testing.T) {
	model := &recordingModel{output: strings.Repeat("token ", 140)}
	n := NewNeural(func(context.Context) (Model, error) { return model, nil }, nil)

	got, err := n.Summarize(context.Background(), "Some article text.", 100)
	require.NoError(t, err)
	assert.Equal(t, 100, textproc.WordCount(got))
}

func TestNeural_BudgetExhausted(t *testing.T) {
	budget := ratelimit.NewBudget("neural", 1, time.Hour)
	n := NewNeural(func(context.Context) (Model, error) {
		return &recordingModel{output: "ok"}, nil
	}, budget)

	_, err := n.Summarize(context.Background(), "text", 100)
	require.NoError(t, err)

	_, err = n.Summarize(context.Background(), "text", 100)
	assert.ErrorIs(t, err, ErrBudgetExhausted)
}

func TestLengthBand(t *testing.T) {
	lo, hi := lengthBand(100)
	assert.Equal(t, 70, lo)
	assert.Equal(t, 130, hi)

	lo, hi = lengthBand(200)
	assert.Equal(t, 140, lo)
	assert.Equal(t, 150, hi)
}
