package providers

import (
	"context"
	"testing"
)

func TestCompositeRejectsUnconfiguredCapability(t *testing.T) {
	gateway := &Composite{}

	_, err := gateway.ResearchKeywords(context.Background(), KeywordRequest{Topics: []string{"x"}})
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if IsRetryable(err) {
		t.Error("configuration errors must not be retryable")
	}

	if gateway.Configured(CapabilityKeywords) {
		t.Error("keywords should report unconfigured")
	}
	if gateway.Configured(CapabilityGeneration) {
		t.Error("generation should report unconfigured")
	}
}

func TestCompositeConfiguredMapsTextCapabilities(t *testing.T) {
	gateway := &Composite{Text: fakeText{}}

	for _, capability := range []string{CapabilityGeneration, CapabilityScoring, CapabilityImages} {
		if !gateway.Configured(capability) {
			t.Errorf("%s should report configured", capability)
		}
	}
	if gateway.Configured(CapabilityResearch) {
		t.Error("research should report unconfigured")
	}
}

type fakeText struct{}

func (fakeText) PlanStrategy(context.Context, StrategyRequest) (*StrategyResult, error) {
	return &StrategyResult{WorkingTitle: "t", Outline: []OutlineSection{{Heading: "h"}}}, nil
}

func (fakeText) GenerateArticle(context.Context, ArticleRequest) (*ArticleResult, error) {
	return &ArticleResult{Title: "t", Body: "b"}, nil
}

func (fakeText) ScoreContent(context.Context, ScoreRequest) (*ScoreResult, error) {
	return &ScoreResult{}, nil
}

func (fakeText) GenerateImages(context.Context, ImageRequest) (*ImageResult, error) {
	return &ImageResult{}, nil
}

func (fakeText) ReviewQuality(context.Context, QARequest) (*QAResult, error) {
	return &QAResult{Passed: true}, nil
}
