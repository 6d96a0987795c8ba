package cost

import (
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/session"
	"inkwell/internal/stage"
)

func testPricing() config.Pricing {
	return config.Pricing{
		DataForSEO: 0.075,
		Serp:       0.05,
		Perplexity: 0.10,
		Generation: 0.25,
		Images:     0.20,
		Scoring:    0.05,
	}
}

func TestForRequestAllStagesEnabled(t *testing.T) {
	req := session.GenerationRequest{Topics: []string{"kubernetes costs"}}
	estimate := ForRequest(req, testPricing())

	if len(estimate.Lines) != stage.Count() {
		t.Fatalf("lines = %d, want %d", len(estimate.Lines), stage.Count())
	}
	// setup free, two dataforseo stages, serp, perplexity, three
	// generation-priced stages, scoring, images.
	if estimate.Total != 1.30 {
		t.Errorf("total = %v, want 1.30", estimate.Total)
	}
}

func TestForRequestDisabledOptionalStagesCostNothing(t *testing.T) {
	req := session.GenerationRequest{
		Topics: []string{"topic"},
		EnabledStages: map[string]bool{
			stage.KeywordResearch:    false,
			stage.AdvancedKeywords:   false,
			stage.SerpAnalysis:       false,
			stage.PerplexityResearch: false,
			stage.SEOOptimization:    false,
			stage.ImageGeneration:    false,
			stage.QualityAssurance:   false,
		},
	}
	estimate := ForRequest(req, testPricing())

	// Only content-strategy and article-generation bill.
	if estimate.Total != 0.50 {
		t.Errorf("total = %v, want 0.50", estimate.Total)
	}
	for _, line := range estimate.Lines {
		if !line.Enabled && line.Cost != 0 {
			t.Errorf("disabled stage %s billed %v", line.StageID, line.Cost)
		}
	}
}

func TestForRequestMandatoryStagesAlwaysBill(t *testing.T) {
	req := session.GenerationRequest{
		Topics: []string{"topic"},
		EnabledStages: map[string]bool{
			stage.ContentStrategy:   false,
			stage.ArticleGeneration: false,
		},
	}
	estimate := ForRequest(req, testPricing())

	for _, line := range estimate.Lines {
		if line.StageID == stage.ContentStrategy || line.StageID == stage.ArticleGeneration {
			if !line.Enabled || line.Cost != 0.25 {
				t.Errorf("mandatory stage %s: enabled=%v cost=%v", line.StageID, line.Enabled, line.Cost)
			}
		}
	}
}

func TestForRequestKeywordResearchFansOutPerTopic(t *testing.T) {
	req := session.GenerationRequest{Topics: []string{"a", "b", "c"}}
	estimate := ForRequest(req, testPricing())

	for _, line := range estimate.Lines {
		if line.StageID == stage.KeywordResearch && line.Cost != 3*0.075 {
			t.Errorf("keyword research cost = %v, want %v", line.Cost, 3*0.075)
		}
	}
}

func TestForRequestZeroPricing(t *testing.T) {
	estimate := ForRequest(session.GenerationRequest{Topics: []string{"t"}}, config.Pricing{})
	if estimate.Total != 0 {
		t.Errorf("total = %v, want 0", estimate.Total)
	}
}
