// Package search provides web lookup for legal context queries. Clients
// degrade to a "no results" answer instead of failing.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const noResultsAnswer = "No relevant results found for this legal query."

// DuckDuckGo queries the Instant Answer API. It needs no credentials and
// serves as the default searcher.
type DuckDuckGo struct {
	baseURL    string
	httpClient *http.Client
}

type DuckDuckGoOption func(*DuckDuckGo)

func WithDuckDuckGoBaseURL(baseURL string) DuckDuckGoOption {
	return func(d *DuckDuckGo) { d.baseURL = strings.TrimRight(baseURL, "/") }
}

func NewDuckDuckGo(callTimeout time.Duration, opts ...DuckDuckGoOption) *DuckDuckGo {
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	d := &DuckDuckGo{
		baseURL:    "https://api.duckduckgo.com",
		httpClient: &http.Client{Timeout: callTimeout},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type instantAnswer struct {
	AbstractText  string `json:"AbstractText"`
	RelatedTopics []struct {
		Text string `json:"Text"`
	} `json:"RelatedTopics"`
}

func (d *DuckDuckGo) Search(ctx context.Context, query string) (string, error) {
	searchURL := fmt.Sprintf("%s/?q=%s&format=json&no_html=1", d.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", fmt.Errorf("build search request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	var answer instantAnswer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return "", fmt.Errorf("decode search response: %w", err)
	}

	if text := strings.TrimSpace(answer.AbstractText); text != "" {
		return text, nil
	}

	var snippets []string
	for _, topic := range answer.RelatedTopics {
		if t := strings.TrimSpace(topic.Text); t != "" {
			snippets = append(snippets, t)
		}
		if len(snippets) == 3 {
			break
		}
	}
	if len(snippets) > 0 {
		return strings.Join(snippets, "\n"), nil
	}
	return noResultsAnswer, nil
}
