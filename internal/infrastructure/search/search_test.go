package search

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDuckDuckGoAbstractText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "force majeure" {
			t.Errorf("query not forwarded: %s", r.URL.RawQuery)
		}
		io.WriteString(w, `{"AbstractText": "Force majeure frees parties from liability.", "RelatedTopics": []}`)
	}))
	defer srv.Close()

	d := NewDuckDuckGo(5*time.Second, WithDuckDuckGoBaseURL(srv.URL))
	got, err := d.Search(context.Background(), "force majeure")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got != "Force majeure frees parties from liability." {
		t.Fatalf("Search() = %q", got)
	}
}

func TestDuckDuckGoRelatedTopicsFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"AbstractText": "", "RelatedTopics": [
			{"Text": "first"}, {"Text": "second"}, {"Text": "third"}, {"Text": "fourth"}]}`)
	}))
	defer srv.Close()

	d := NewDuckDuckGo(5*time.Second, WithDuckDuckGoBaseURL(srv.URL))
	got, err := d.Search(context.Background(), "indemnity")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got != "first\nsecond\nthird" {
		t.Fatalf("expected first three topics, got %q", got)
	}
}

func TestDuckDuckGoNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"AbstractText": "", "RelatedTopics": []}`)
	}))
	defer srv.Close()

	d := NewDuckDuckGo(5*time.Second, WithDuckDuckGoBaseURL(srv.URL))
	got, err := d.Search(context.Background(), "zxqv")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got != noResultsAnswer {
		t.Fatalf("Search() = %q", got)
	}
}

func TestTavilyWithoutKeyDegrades(t *testing.T) {
	tv := NewTavily("", 5*time.Second)
	got, err := tv.Search(context.Background(), "non-compete enforceability")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got != noResultsAnswer {
		t.Fatalf("unconfigured client must degrade, got %q", got)
	}
}

func TestTavilyAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer key" {
			t.Errorf("Authorization = %q", auth)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"query":"liability caps"`) {
			t.Errorf("query missing from body: %s", body)
		}
		io.WriteString(w, `{"answer": "Liability caps limit recoverable damages.", "results": []}`)
	}))
	defer srv.Close()

	tv := NewTavily("key", 5*time.Second, WithTavilyBaseURL(srv.URL))
	got, err := tv.Search(context.Background(), "liability caps")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got != "Liability caps limit recoverable damages." {
		t.Fatalf("Search() = %q", got)
	}
}

func TestTavilySnippetsWhenNoAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"answer": "", "results": [{"title": "t", "content": "snippet one"}, {"title": "t2", "content": "snippet two"}]}`)
	}))
	defer srv.Close()

	tv := NewTavily("key", 5*time.Second, WithTavilyBaseURL(srv.URL))
	got, err := tv.Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got != "snippet one\nsnippet two" {
		t.Fatalf("Search() = %q", got)
	}
}
