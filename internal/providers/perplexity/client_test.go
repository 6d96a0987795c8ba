package perplexity_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/providers"
	"inkwell/internal/providers/perplexity"
)

func TestResearchParsesJSONContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer pplx-key" {
			t.Errorf("unexpected auth header: %q", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"content": "{\"summary\": \"market is growing\", \"key_points\": [\"a\", \"b\"]}"}}],
			"citations": ["https://example.com/report"]
		}`))
	}))
	t.Cleanup(server.Close)

	client, err := perplexity.NewClient(config.Perplexity{APIKey: "pplx-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	result, err := client.Research(context.Background(), providers.ResearchRequest{Topic: "edge computing"})
	if err != nil {
		t.Fatalf("Research failed: %v", err)
	}
	if result.Summary != "market is growing" {
		t.Fatalf("unexpected summary: %q", result.Summary)
	}
	if len(result.KeyPoints) != 2 {
		t.Fatalf("unexpected key points: %+v", result.KeyPoints)
	}
	if len(result.Citations) != 1 {
		t.Fatalf("expected citations preserved: %+v", result.Citations)
	}
}

func TestResearchToleratesProseContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "The market is consolidating rapidly."}}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := perplexity.NewClient(config.Perplexity{APIKey: "k", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	result, err := client.Research(context.Background(), providers.ResearchRequest{Topic: "x"})
	if err != nil {
		t.Fatalf("Research failed: %v", err)
	}
	if result.Summary != "The market is consolidating rapidly." {
		t.Fatalf("unexpected summary: %q", result.Summary)
	}
}

func TestResearchRateLimitIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	client, err := perplexity.NewClient(config.Perplexity{APIKey: "k", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = client.Research(context.Background(), providers.ResearchRequest{Topic: "x"})
	if !providers.IsRetryable(err) {
		t.Fatalf("expected retryable error, got %v", err)
	}
}
