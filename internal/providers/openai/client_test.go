package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/option"

	"inkwell/internal/config"
	"inkwell/internal/providers"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(
		config.OpenAI{APIKey: "test-key", TextModel: "gpt-4o", ImageModel: "dall-e-3"},
		WithSDKOptions(
			option.WithAPIKey("test-key"),
			option.WithBaseURL(server.URL),
			option.WithMaxRetries(0),
		),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func chatResponse(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	response := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(config.OpenAI{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestPlanStrategyParsesOutline(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		chatResponse(t, w, "```json\n{\"working_title\": \"Kubernetes Cost Control\", \"angle\": \"practical\", \"outline\": [{\"heading\": \"Intro\", \"points\": [\"why it matters\"]}], \"target_word_count\": 1800}\n```")
	})

	result, err := client.PlanStrategy(context.Background(), providers.StrategyRequest{Topic: "kubernetes costs"})
	if err != nil {
		t.Fatalf("PlanStrategy: %v", err)
	}
	if result.WorkingTitle != "Kubernetes Cost Control" {
		t.Errorf("working title = %q", result.WorkingTitle)
	}
	if result.TargetWordCount != 1800 {
		t.Errorf("target word count = %d", result.TargetWordCount)
	}
	if len(result.Outline) != 1 || result.Outline[0].Heading != "Intro" {
		t.Errorf("outline = %+v", result.Outline)
	}
}

func TestPlanStrategyRejectsMissingOutline(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		chatResponse(t, w, `{"working_title": "Title", "outline": []}`)
	})

	_, err := client.PlanStrategy(context.Background(), providers.StrategyRequest{Topic: "anything"})
	if err == nil {
		t.Fatal("expected error for empty outline")
	}
	if providers.IsRetryable(err) {
		t.Error("malformed response should not be retryable")
	}
}

func TestGenerateArticle(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		chatResponse(t, w, `{"title": "Final Title", "body": "Full article text.", "meta_description": "desc", "tags": ["k8s"]}`)
	})

	result, err := client.GenerateArticle(context.Background(), providers.ArticleRequest{
		Strategy: providers.StrategyResult{WorkingTitle: "Draft Title", Outline: []providers.OutlineSection{{Heading: "Intro"}}},
	})
	if err != nil {
		t.Fatalf("GenerateArticle: %v", err)
	}
	if result.Title != "Final Title" || result.Body != "Full article text." {
		t.Errorf("result = %+v", result)
	}
}

func TestScoreContentComputesLocalMetrics(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		chatResponse(t, w, `{"seo_score": 82.5, "suggestions": ["add internal links"]}`)
	})

	result, err := client.ScoreContent(context.Background(), providers.ScoreRequest{
		Title:          "Kubernetes Costs",
		Body:           "kubernetes clusters cost real money and kubernetes bills grow",
		TargetKeywords: []string{"kubernetes"},
	})
	if err != nil {
		t.Fatalf("ScoreContent: %v", err)
	}
	if result.WordCount != 9 {
		t.Errorf("word count = %d, want 9", result.WordCount)
	}
	if result.SEOScore != 82.5 {
		t.Errorf("seo score = %v", result.SEOScore)
	}
	// "kubernetes" appears twice in nine words.
	want := 2.0 / 9.0 * 100
	if diff := result.KeywordDensity - want; diff > 0.01 || diff < -0.01 {
		t.Errorf("keyword density = %v, want %v", result.KeywordDensity, want)
	}
}

func TestGenerateImagesAssignsPositions(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/images/generations") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"url": "https://img.example/1.png"},
				{"url": "https://img.example/2.png"},
			},
		})
	})

	result, err := client.GenerateImages(context.Background(), providers.ImageRequest{
		Title:    "Kubernetes Costs",
		Sections: []string{"Intro", "Rightsizing"},
		Count:    2,
	})
	if err != nil {
		t.Fatalf("GenerateImages: %v", err)
	}
	if len(result.Images) != 2 {
		t.Fatalf("images = %d, want 2", len(result.Images))
	}
	if result.Images[0].Position != "header" {
		t.Errorf("first position = %q", result.Images[0].Position)
	}
	if result.Images[1].Position != "section-1" {
		t.Errorf("second position = %q", result.Images[1].Position)
	}
	if result.Images[1].AltText != "Rightsizing" {
		t.Errorf("second alt = %q", result.Images[1].AltText)
	}
}

func TestReviewQuality(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		chatResponse(t, w, `{"passed": false, "findings": ["conclusion is thin"], "revised": "Better text."}`)
	})

	result, err := client.ReviewQuality(context.Background(), providers.QARequest{Title: "T", Body: "draft"})
	if err != nil {
		t.Fatalf("ReviewQuality: %v", err)
	}
	if result.Passed {
		t.Error("expected passed=false")
	}
	if result.Revised != "Better text." {
		t.Errorf("revised = %q", result.Revised)
	}
}

func TestRateLimitIsRetryable(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	})

	_, err := client.ReviewQuality(context.Background(), providers.QARequest{Title: "T", Body: "draft"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !providers.IsRetryable(err) {
		t.Errorf("429 should be retryable, got %v", err)
	}
}
