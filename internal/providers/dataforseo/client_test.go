package dataforseo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/providers"
	"inkwell/internal/providers/dataforseo"
)

func TestResearchKeywordsFiltersThresholds(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, pass, ok := r.BasicAuth(); !ok || user != "user" || pass != "pass" {
			t.Errorf("missing basic auth: %s %s", user, pass)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status_code": 20000,
			"tasks": [{"result": [
				{"keyword": "observability", "search_volume": 5000, "competition_index": 40, "cpc": 3.2},
				{"keyword": "o11y niche", "search_volume": 20, "competition_index": 10, "cpc": 0.5},
				{"keyword": "observability tools", "search_volume": 2200, "competition_index": 95, "cpc": 4.1}
			]}]
		}`))
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := dataforseo.NewClient(config.DataForSEO{Login: "user", Password: "pass", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	result, err := client.ResearchKeywords(context.Background(), providers.KeywordRequest{
		Topics:          []string{"observability"},
		MinSearchVolume: 100,
		MaxDifficulty:   80,
	})
	if err != nil {
		t.Fatalf("ResearchKeywords failed: %v", err)
	}
	if result.Primary.Term != "observability" {
		t.Fatalf("unexpected primary keyword: %+v", result.Primary)
	}
	if len(result.Related) != 0 {
		t.Fatalf("expected low-volume and high-difficulty terms filtered, got %+v", result.Related)
	}
}

func TestResearchKeywordsAPIFailureIsNotRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status_code": 40200, "status_message": "payment required", "tasks": []}`))
	}))
	t.Cleanup(server.Close)
	client, err := dataforseo.NewClient(config.DataForSEO{Login: "user", Password: "pass", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = client.ResearchKeywords(context.Background(), providers.KeywordRequest{Topics: []string{"x"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if providers.IsRetryable(err) {
		t.Fatalf("api-level failure should not be retryable: %v", err)
	}
}

func TestPostRetriesServerErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status_code": 20000,
			"tasks": [{"result": [{"keyword": "observability", "search_volume": 100, "competition_index": 10, "cpc": 1}]}]
		}`))
	}))
	t.Cleanup(server.Close)
	client, err := dataforseo.NewClient(
		config.DataForSEO{Login: "user", Password: "pass", BaseURL: server.URL},
		dataforseo.WithSleeper(func(context.Context, time.Duration) error { return nil }),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	result, err := client.ResearchKeywords(context.Background(), providers.KeywordRequest{Topics: []string{"observability"}})
	if err != nil {
		t.Fatalf("expected retries to recover, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if result.Primary.Term != "observability" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestAnalyzeKeywordsSeparatesQuestions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status_code": 20000,
			"tasks": [{"result": [{"items": [
				{"keyword": "observability platform pricing", "keyword_info": {"search_volume": 300, "competition_index": 30, "cpc": 2}},
				{"keyword": "what is observability", "keyword_info": {"search_volume": 900, "competition_index": 20, "cpc": 1}}
			]}]}]
		}`))
	}))
	t.Cleanup(server.Close)
	client, err := dataforseo.NewClient(config.DataForSEO{Login: "user", Password: "pass", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	result, err := client.AnalyzeKeywords(context.Background(), providers.KeywordAnalysisRequest{
		Keywords: []providers.Keyword{{Term: "observability"}},
	})
	if err != nil {
		t.Fatalf("AnalyzeKeywords failed: %v", err)
	}
	if len(result.LongTail) != 1 || result.LongTail[0].Term != "observability platform pricing" {
		t.Fatalf("unexpected long tail: %+v", result.LongTail)
	}
	if len(result.Questions) != 1 || result.Questions[0] != "what is observability" {
		t.Fatalf("unexpected questions: %+v", result.Questions)
	}
}
