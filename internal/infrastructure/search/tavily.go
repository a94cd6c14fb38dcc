package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Tavily queries the Tavily search API, which returns a synthesized answer
// for research-style queries. Without an API key it degrades to the
// no-results answer rather than erroring.
type Tavily struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type TavilyOption func(*Tavily)

func WithTavilyBaseURL(baseURL string) TavilyOption {
	return func(t *Tavily) { t.baseURL = strings.TrimRight(baseURL, "/") }
}

func NewTavily(apiKey string, callTimeout time.Duration, opts ...TavilyOption) *Tavily {
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	t := &Tavily{
		baseURL:    "https://api.tavily.com",
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: callTimeout},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type tavilyResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"results"`
}

func (t *Tavily) Search(ctx context.Context, query string) (string, error) {
	if t.apiKey == "" {
		return noResultsAnswer, nil
	}

	payload, err := json.Marshal(map[string]any{
		"query":          query,
		"search_depth":   "basic",
		"include_answer": true,
		"max_results":    3,
	})
	if err != nil {
		return "", fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	var result tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode search response: %w", err)
	}

	if answer := strings.TrimSpace(result.Answer); answer != "" {
		return answer, nil
	}
	var snippets []string
	for _, r := range result.Results {
		if c := strings.TrimSpace(r.Content); c != "" {
			snippets = append(snippets, c)
		}
	}
	if len(snippets) > 0 {
		return strings.Join(snippets, "\n"), nil
	}
	return noResultsAnswer, nil
}
