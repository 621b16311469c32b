package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/deusflow/newsbrief/internal/retry"
)

const DefaultModel = "gemini-1.5-flash"

var errNoResponse = errors.New("no response from Gemini")

// Client generates abstractive article summaries with a Gemini model.
type Client struct {
	client *genai.Client
	model  string
	retry  retry.Policy
}

func NewClient(ctx context.Context, apiKey, model string, policy retry.Policy) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	slog.Info("Gemini client ready", "model", model)
	return &Client{client: client, model: model, retry: policy}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Summarize asks the model for a summary of between minWords and maxWords
// words. Generation is deterministic.
func (c *Client) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0)
	// Output is measured in model tokens, not words.
	model.SetMaxOutputTokens(int32(maxWords * 2))

	prompt := buildPrompt(text, minWords, maxWords)

	var resp *genai.GenerateContentResponse
	err := retry.Do(ctx, c.retry, func() error {
		var err error
		resp, err = model.GenerateContent(ctx, genai.Text(prompt))
		return classify(err)
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	summary, err := responseText(resp)
	if err != nil {
		return "", err
	}
	return cleanResponse(summary), nil
}

// classify marks client errors (bad key, bad request) as permanent. Timeouts,
// throttling and server errors stay retryable.
func classify(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == http.StatusRequestTimeout, apiErr.Code == http.StatusTooManyRequests:
		return err
	case apiErr.Code >= 400 && apiErr.Code < 500:
		return retry.Permanent(err)
	}
	return err
}

func buildPrompt(text string, minWords, maxWords int) string {
	return fmt.Sprintf(`Summarize the following news article in plain prose.

REQUIREMENTS:
- Between %d and %d words.
- Keep names, numbers and places exactly as written.
- No headings, lists, quotes or introductory phrases such as "This article".
- Answer with the summary only.

ARTICLE:
%s
`, minWords, maxWords, text)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errNoResponse
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errNoResponse
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", errNoResponse
	}
	return b.String(), nil
}

var (
	labelRe    = regexp.MustCompile(`(?i)^\s*summary\s*:\s*`)
	markdownRe = regexp.MustCompile("[*_`#]+")
)

// cleanResponse strips a leading label and markdown emphasis and collapses
// whitespace.
func cleanResponse(s string) string {
	s = labelRe.ReplaceAllString(s, "")
	s = markdownRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}
