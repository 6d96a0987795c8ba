package providers

import "context"

// KeywordProvider covers the keyword research and analysis capabilities.
type KeywordProvider interface {
	ResearchKeywords(ctx context.Context, req KeywordRequest) (*KeywordResult, error)
	AnalyzeKeywords(ctx context.Context, req KeywordAnalysisRequest) (*KeywordAnalysisResult, error)
}

// SerpProvider covers the competitive SERP analysis capability.
type SerpProvider interface {
	AnalyzeSERP(ctx context.Context, req SerpRequest) (*SerpResult, error)
}

// ResearchProvider covers the market research capability.
type ResearchProvider interface {
	Research(ctx context.Context, req ResearchRequest) (*ResearchResult, error)
}

// TextProvider covers strategy planning, article generation, scoring,
// quality review, and image generation.
type TextProvider interface {
	PlanStrategy(ctx context.Context, req StrategyRequest) (*StrategyResult, error)
	GenerateArticle(ctx context.Context, req ArticleRequest) (*ArticleResult, error)
	ScoreContent(ctx context.Context, req ScoreRequest) (*ScoreResult, error)
	GenerateImages(ctx context.Context, req ImageRequest) (*ImageResult, error)
	ReviewQuality(ctx context.Context, req QARequest) (*QAResult, error)
}

// Composite assembles the full Gateway from per-capability providers.
// Any provider may be nil when its credentials are absent; calls against
// a nil provider return a non-retryable configuration error so that the
// pipeline fails the affected stage instead of panicking.
type Composite struct {
	Keywords   KeywordProvider
	Serp       SerpProvider
	Researcher ResearchProvider
	Text       TextProvider
}

var _ Gateway = (*Composite)(nil)

// Configured reports whether the named capability has a backing provider.
func (c *Composite) Configured(capability string) bool {
	switch capability {
	case CapabilityKeywords:
		return c.Keywords != nil
	case CapabilitySerp:
		return c.Serp != nil
	case CapabilityResearch:
		return c.Researcher != nil
	case CapabilityGeneration, CapabilityScoring, CapabilityImages:
		return c.Text != nil
	default:
		return false
	}
}

func notConfigured(capability string) *Error {
	return NewError(capability, "provider not configured", false, nil)
}

func (c *Composite) ResearchKeywords(ctx context.Context, req KeywordRequest) (*KeywordResult, error) {
	if c.Keywords == nil {
		return nil, notConfigured(CapabilityKeywords)
	}
	return c.Keywords.ResearchKeywords(ctx, req)
}

func (c *Composite) AnalyzeKeywords(ctx context.Context, req KeywordAnalysisRequest) (*KeywordAnalysisResult, error) {
	if c.Keywords == nil {
		return nil, notConfigured(CapabilityKeywords)
	}
	return c.Keywords.AnalyzeKeywords(ctx, req)
}

func (c *Composite) AnalyzeSERP(ctx context.Context, req SerpRequest) (*SerpResult, error) {
	if c.Serp == nil {
		return nil, notConfigured(CapabilitySerp)
	}
	return c.Serp.AnalyzeSERP(ctx, req)
}

func (c *Composite) Research(ctx context.Context, req ResearchRequest) (*ResearchResult, error) {
	if c.Researcher == nil {
		return nil, notConfigured(CapabilityResearch)
	}
	return c.Researcher.Research(ctx, req)
}

func (c *Composite) PlanStrategy(ctx context.Context, req StrategyRequest) (*StrategyResult, error) {
	if c.Text == nil {
		return nil, notConfigured(CapabilityGeneration)
	}
	return c.Text.PlanStrategy(ctx, req)
}

func (c *Composite) GenerateArticle(ctx context.Context, req ArticleRequest) (*ArticleResult, error) {
	if c.Text == nil {
		return nil, notConfigured(CapabilityGeneration)
	}
	return c.Text.GenerateArticle(ctx, req)
}

func (c *Composite) ScoreContent(ctx context.Context, req ScoreRequest) (*ScoreResult, error) {
	if c.Text == nil {
		return nil, notConfigured(CapabilityScoring)
	}
	return c.Text.ScoreContent(ctx, req)
}

func (c *Composite) GenerateImages(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	if c.Text == nil {
		return nil, notConfigured(CapabilityImages)
	}
	return c.Text.GenerateImages(ctx, req)
}

func (c *Composite) ReviewQuality(ctx context.Context, req QARequest) (*QAResult, error) {
	if c.Text == nil {
		return nil, notConfigured(CapabilityGeneration)
	}
	return c.Text.ReviewQuality(ctx, req)
}
