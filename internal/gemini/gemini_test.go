package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"

	"github.com/deusflow/newsbrief/internal/retry"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient(context.Background(), "", "", retry.Policy{}); err == nil {
		t.Fatal("Expected error for missing API key")
	}
}

func TestBuildPrompt(t *testing.T) {
	p := buildPrompt("Article body.", 70, 130)
	if !strings.Contains(p, "Between 70 and 130 words") {
		t.Errorf("Expected word band in prompt, got: %s", p)
	}
	if !strings.HasSuffix(strings.TrimSpace(p), "Article body.") {
		t.Errorf("Expected article at the end of the prompt")
	}
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("First part. "), genai.Text("Second part.")}},
		}},
	}

	got, err := responseText(resp)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != "First part. Second part." {
		t.Errorf("Expected joined parts, got: %q", got)
	}
}

func TestResponseText_Empty(t *testing.T) {
	cases := []*genai.GenerateContentResponse{
		nil,
		{},
		{Candidates: []*genai.Candidate{{}}},
		{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Text("  ")}}}}},
	}

	for i, resp := range cases {
		if _, err := responseText(resp); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestCleanResponse(t *testing.T) {
	got := cleanResponse("Summary: **Markets** rallied\n\nafter the _announcement_.")
	want := "Markets rallied after the announcement."
	if got != want {
		t.Errorf("Expected %q, got: %q", want, got)
	}
}

func TestClassify_ClientErrorsSkipRetries(t *testing.T) {
	policy := retry.Policy{MaxAttempts: 3, Delay: time.Millisecond}

	cases := []struct {
		code  int
		calls int
	}{
		{http.StatusBadRequest, 1},
		{http.StatusForbidden, 1},
		{http.StatusTooManyRequests, 3},
		{http.StatusServiceUnavailable, 3},
	}

	for _, tc := range cases {
		apiErr := &googleapi.Error{Code: tc.code, Message: "boom"}
		calls := 0
		err := retry.Do(context.Background(), policy, func() error {
			calls++
			return classify(fmt.Errorf("generate: %w", apiErr))
		})

		if calls != tc.calls {
			t.Errorf("Code %d: expected %d calls, got: %d", tc.code, tc.calls, calls)
		}
		var got *googleapi.Error
		if !errors.As(err, &got) || got.Code != tc.code {
			t.Errorf("Code %d: expected API error to be preserved, got: %v", tc.code, err)
		}
	}
}

func TestClassify_PassesThroughOtherErrors(t *testing.T) {
	if classify(nil) != nil {
		t.Error("Expected nil for nil error")
	}
	plain := errors.New("connection reset")
	if classify(plain) != plain {
		t.Error("Expected non-API errors to stay retryable")
	}
}
