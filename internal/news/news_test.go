package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deusflow/newsbrief/internal/rss"
)

type imageFunc func(ctx context.Context, entry *rss.Entry) string

func (f imageFunc) Resolve(ctx context.Context, entry *rss.Entry) string { return f(ctx, entry) }

func noImage(context.Context, *rss.Entry) string { return "" }

func entries(n int) []*rss.Entry {
	out := make([]*rss.Entry, n)
	for i := range out {
		out[i] = &rss.Entry{Title: fmt.Sprintf("Entry %d", i), Link: fmt.Sprintf("https://example.com/%d", i)}
	}
	return out
}

func TestProcess_BoundedConcurrency(t *testing.T) {
	var inFlight, peak int32
	resolver := imageFunc(func(context.Context, *rss.Entry) string {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return "https://cdn.example.com/x.jpg"
	})

	stubs := NewProcessor(resolver, 5).Process(context.Background(), entries(20))

	if len(stubs) != 20 {
		t.Fatalf("Expected 20 stubs, got: %d", len(stubs))
	}
	if p := atomic.LoadInt32(&peak); p > 5 {
		t.Errorf("Expected at most 5 entries in flight, got: %d", p)
	}
}

func TestProcess_PanicDropsOnlyThatEntry(t *testing.T) {
	resolver := imageFunc(func(_ context.Context, e *rss.Entry) string {
		if e.Title == "Entry 3" {
			panic("bad markup")
		}
		return ""
	})

	stubs := NewProcessor(resolver, 2).Process(context.Background(), entries(6))

	if len(stubs) != 5 {
		t.Fatalf("Expected 5 stubs, got: %d", len(stubs))
	}
	for _, s := range stubs {
		if s.Title == "Entry 3" {
			t.Error("Expected panicking entry to be dropped")
		}
	}
}

func TestProcess_DefaultTitle(t *testing.T) {
	stubs := NewProcessor(imageFunc(noImage), 1).Process(context.Background(), []*rss.Entry{{Link: "https://example.com/x"}})
	if len(stubs) != 1 || stubs[0].Title != "No title" {
		t.Errorf("Expected default title, got: %+v", stubs)
	}
}

func TestArticleStub_JSON(t *testing.T) {
	data, err := json.Marshal([]ArticleStub{
		{Title: "A", URL: "https://example.com/a"},
		{Title: "B", URL: "https://example.com/b", ImageURL: "https://cdn.example.com/b.jpg"},
	})
	if err != nil {
		t.Fatal(err)
	}

	want := `[{"title":"A","url":"https://example.com/a","image_url":null},` +
		`{"title":"B","url":"https://example.com/b","image_url":"https://cdn.example.com/b.jpg"}]`
	if string(data) != want {
		t.Errorf("Expected %s, got: %s", want, data)
	}
}

type stubReader struct {
	mu    sync.Mutex
	feeds map[string][]*rss.Entry
	calls []string
}

func (r *stubReader) Fetch(_ context.Context, url string) ([]*rss.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, url)
	entries, ok := r.feeds[url]
	if !ok {
		return nil, errors.New("feed unavailable")
	}
	return entries, nil
}

func TestCollect_AllFeedsFail(t *testing.T) {
	agg := NewAggregator(&stubReader{}, NewProcessor(imageFunc(noImage), 5))

	got := agg.Collect(context.Background(), []string{"a", "b"})
	if got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil list, got: %#v", got)
	}
}

func TestCollect_StopsAtMaxArticles(t *testing.T) {
	reader := &stubReader{feeds: map[string][]*rss.Entry{
		"first":  entries(15),
		"second": entries(15),
		"third":  entries(15),
	}}
	agg := NewAggregator(reader, NewProcessor(imageFunc(noImage), 5))

	got := agg.Collect(context.Background(), []string{"broken", "first", "second", "third"})

	if len(got) != MaxArticles {
		t.Errorf("Expected %d articles, got: %d", MaxArticles, len(got))
	}
	want := []string{"broken", "first", "second"}
	if fmt.Sprint(reader.calls) != fmt.Sprint(want) {
		t.Errorf("Expected feeds %v to be fetched, got: %v", want, reader.calls)
	}
}
