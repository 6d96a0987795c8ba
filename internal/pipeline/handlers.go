package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inkwell/internal/providers"
	"inkwell/internal/session"
	"inkwell/internal/stage"
	"inkwell/internal/textutil"
)

// capabilityChecker is implemented by gateways that can report which
// capabilities have configured providers.
type capabilityChecker interface {
	Configured(capability string) bool
}

// capabilityHealth produces the Health record for a stage backed by a
// remote capability.
func capabilityHealth(gateway providers.Gateway, d stage.Descriptor) stage.Health {
	if d.Capability == "" {
		return stage.Healthy(d.ID)
	}
	checker, ok := gateway.(capabilityChecker)
	if !ok {
		return stage.Healthy(d.ID)
	}
	if !checker.Configured(d.Capability) {
		return stage.Unhealthy(d.ID, fmt.Sprintf("%s provider not configured", d.Capability))
	}
	return stage.Healthy(d.ID)
}

// handlers builds the full ordered handler set for one gateway.
func handlers(gateway providers.Gateway) []stage.Handler {
	return []stage.Handler{
		&setupStage{},
		&keywordResearchStage{gateway: gateway},
		&keywordAnalysisStage{gateway: gateway},
		&serpAnalysisStage{gateway: gateway},
		&marketResearchStage{gateway: gateway},
		&contentStrategyStage{gateway: gateway},
		&articleGenerationStage{gateway: gateway},
		&seoOptimizationStage{gateway: gateway},
		&imageGenerationStage{gateway: gateway},
		&qualityAssuranceStage{gateway: gateway},
	}
}

func mustLookup(id string) stage.Descriptor {
	d, err := stage.Lookup(id)
	if err != nil {
		panic(err)
	}
	return d
}

type setupStage struct{}

func (s *setupStage) Descriptor() stage.Descriptor { return mustLookup(stage.Setup) }

func (s *setupStage) HealthCheck(context.Context) stage.Health {
	return stage.Healthy(stage.Setup)
}

// Execute re-validates the request at run time. The request was checked
// on submission, but a session resumed from storage may carry data that
// no longer parses.
func (s *setupStage) Execute(_ context.Context, exec *stage.Execution) (any, error) {
	if err := exec.Request.Validate(); err != nil {
		return nil, err
	}
	enabled := make([]string, 0, stage.Count())
	for _, d := range stage.All() {
		if d.Mandatory() || exec.Request.StageEnabled(d.ID) {
			enabled = append(enabled, d.ID)
		}
	}
	payload := map[string]any{
		"primary_topic":  exec.Request.PrimaryTopic(),
		"content_type":   exec.Request.ContentType,
		"enabled_stages": enabled,
	}
	return payload, nil
}

type keywordResearchStage struct {
	gateway providers.Gateway
}

func (s *keywordResearchStage) Descriptor() stage.Descriptor {
	return mustLookup(stage.KeywordResearch)
}

func (s *keywordResearchStage) HealthCheck(context.Context) stage.Health {
	return capabilityHealth(s.gateway, s.Descriptor())
}

func (s *keywordResearchStage) Execute(ctx context.Context, exec *stage.Execution) (any, error) {
	result, err := s.gateway.ResearchKeywords(ctx, providers.KeywordRequest{
		Topics:          exec.Request.Topics,
		Industry:        exec.Request.Industry,
		MinSearchVolume: exec.Request.MinSearchVolume,
		MaxDifficulty:   exec.Request.MaxDifficulty,
	})
	if err != nil {
		return nil, err
	}
	exec.Keywords = result
	return result, nil
}

type keywordAnalysisStage struct {
	gateway providers.Gateway
}

func (s *keywordAnalysisStage) Descriptor() stage.Descriptor {
	return mustLookup(stage.AdvancedKeywords)
}

func (s *keywordAnalysisStage) HealthCheck(context.Context) stage.Health {
	return capabilityHealth(s.gateway, s.Descriptor())
}

func (s *keywordAnalysisStage) Execute(ctx context.Context, exec *stage.Execution) (any, error) {
	if exec.Keywords == nil {
		return nil, errors.New("keyword research payload unavailable")
	}
	seeds := append([]providers.Keyword{exec.Keywords.Primary}, exec.Keywords.Related...)
	result, err := s.gateway.AnalyzeKeywords(ctx, providers.KeywordAnalysisRequest{
		Keywords:      seeds,
		MaxDifficulty: exec.Request.MaxDifficulty,
	})
	if err != nil {
		return nil, err
	}
	exec.KeywordAnalysis = result
	return result, nil
}

type serpAnalysisStage struct {
	gateway providers.Gateway
}

func (s *serpAnalysisStage) Descriptor() stage.Descriptor {
	return mustLookup(stage.SerpAnalysis)
}

func (s *serpAnalysisStage) HealthCheck(context.Context) stage.Health {
	return capabilityHealth(s.gateway, s.Descriptor())
}

func (s *serpAnalysisStage) Execute(ctx context.Context, exec *stage.Execution) (any, error) {
	if exec.Keywords == nil {
		return nil, errors.New("keyword research payload unavailable")
	}
	result, err := s.gateway.AnalyzeSERP(ctx, providers.SerpRequest{
		Keyword:           exec.Keywords.Primary.Term,
		CompetitorDomains: exec.Request.CompetitorDomains,
	})
	if err != nil {
		return nil, err
	}
	exec.Serp = result
	return result, nil
}

type marketResearchStage struct {
	gateway providers.Gateway
}

func (s *marketResearchStage) Descriptor() stage.Descriptor {
	return mustLookup(stage.PerplexityResearch)
}

func (s *marketResearchStage) HealthCheck(context.Context) stage.Health {
	return capabilityHealth(s.gateway, s.Descriptor())
}

func (s *marketResearchStage) Execute(ctx context.Context, exec *stage.Execution) (any, error) {
	result, err := s.gateway.Research(ctx, providers.ResearchRequest{
		Topic:    exec.Request.PrimaryTopic(),
		Industry: exec.Request.Industry,
		Audience: exec.Request.Audience,
	})
	if err != nil {
		return nil, err
	}
	exec.Research = result
	return result, nil
}

type contentStrategyStage struct {
	gateway providers.Gateway
}

func (s *contentStrategyStage) Descriptor() stage.Descriptor {
	return mustLookup(stage.ContentStrategy)
}

func (s *contentStrategyStage) HealthCheck(context.Context) stage.Health {
	return capabilityHealth(s.gateway, s.Descriptor())
}

func (s *contentStrategyStage) Execute(ctx context.Context, exec *stage.Execution) (any, error) {
	result, err := s.gateway.PlanStrategy(ctx, providers.StrategyRequest{
		Topic:              exec.Request.PrimaryTopic(),
		Industry:           exec.Request.Industry,
		Audience:           exec.Request.Audience,
		ContentType:        string(exec.Request.ContentType),
		LengthClass:        exec.Request.LengthClass,
		WritingStyle:       exec.Request.WritingStyle,
		CustomInstructions: exec.Request.CustomInstructions,
		Keywords:           exec.Keywords,
		KeywordAnalysis:    exec.KeywordAnalysis,
		Serp:               exec.Serp,
		Research:           exec.Research,
	})
	if err != nil {
		return nil, err
	}
	exec.Strategy = result
	return result, nil
}

type articleGenerationStage struct {
	gateway providers.Gateway
}

func (s *articleGenerationStage) Descriptor() stage.Descriptor {
	return mustLookup(stage.ArticleGeneration)
}

func (s *articleGenerationStage) HealthCheck(context.Context) stage.Health {
	return capabilityHealth(s.gateway, s.Descriptor())
}

func (s *articleGenerationStage) Execute(ctx context.Context, exec *stage.Execution) (any, error) {
	if exec.Strategy == nil {
		return nil, errors.New("content strategy payload unavailable")
	}
	result, err := s.gateway.GenerateArticle(ctx, providers.ArticleRequest{
		Strategy:           *exec.Strategy,
		Keywords:           exec.Keywords,
		Research:           exec.Research,
		WritingStyle:       exec.Request.WritingStyle,
		CustomInstructions: exec.Request.CustomInstructions,
	})
	if err != nil {
		return nil, err
	}
	exec.Article = result
	return result, nil
}

type seoOptimizationStage struct {
	gateway providers.Gateway
}

func (s *seoOptimizationStage) Descriptor() stage.Descriptor {
	return mustLookup(stage.SEOOptimization)
}

func (s *seoOptimizationStage) HealthCheck(context.Context) stage.Health {
	return capabilityHealth(s.gateway, s.Descriptor())
}

func (s *seoOptimizationStage) Execute(ctx context.Context, exec *stage.Execution) (any, error) {
	if exec.Article == nil {
		return nil, errors.New("article payload unavailable")
	}
	result, err := s.gateway.ScoreContent(ctx, providers.ScoreRequest{
		Title:          exec.Article.Title,
		Body:           exec.Article.Body,
		TargetKeywords: targetKeywords(exec),
	})
	if err != nil {
		return nil, err
	}
	exec.Score = result
	return result, nil
}

type imageGenerationStage struct {
	gateway providers.Gateway
}

func (s *imageGenerationStage) Descriptor() stage.Descriptor {
	return mustLookup(stage.ImageGeneration)
}

func (s *imageGenerationStage) HealthCheck(context.Context) stage.Health {
	return capabilityHealth(s.gateway, s.Descriptor())
}

func (s *imageGenerationStage) Execute(ctx context.Context, exec *stage.Execution) (any, error) {
	if exec.Article == nil {
		return nil, errors.New("article payload unavailable")
	}
	result, err := s.gateway.GenerateImages(ctx, providers.ImageRequest{
		Title:    exec.Article.Title,
		Sections: outlineHeadings(exec),
		Style:    exec.Request.WritingStyle,
		Count:    imageCount(exec.Request.ContentType),
	})
	if err != nil {
		return nil, err
	}
	exec.Images = result
	return result, nil
}

type qualityAssuranceStage struct {
	gateway providers.Gateway
}

func (s *qualityAssuranceStage) Descriptor() stage.Descriptor {
	return mustLookup(stage.QualityAssurance)
}

func (s *qualityAssuranceStage) HealthCheck(context.Context) stage.Health {
	return capabilityHealth(s.gateway, s.Descriptor())
}

// Execute runs the editorial pass. When the reviewer returns a revised
// body the article payload is replaced before artifact assembly.
func (s *qualityAssuranceStage) Execute(ctx context.Context, exec *stage.Execution) (any, error) {
	if exec.Article == nil {
		return nil, errors.New("article payload unavailable")
	}
	result, err := s.gateway.ReviewQuality(ctx, providers.QARequest{
		Title: exec.Article.Title,
		Body:  exec.Article.Body,
	})
	if err != nil {
		return nil, err
	}
	exec.QA = result
	if !result.Passed && strings.TrimSpace(result.Revised) != "" {
		exec.Article.Body = result.Revised
	}
	return result, nil
}

func targetKeywords(exec *stage.Execution) []string {
	if exec.Keywords == nil {
		return exec.Request.Topics
	}
	keywords := []string{exec.Keywords.Primary.Term}
	for _, related := range exec.Keywords.Related {
		keywords = append(keywords, related.Term)
	}
	return dedupeKeywords(keywords)
}

// nearDuplicateThreshold is the cosine similarity above which two
// keyword phrases count as the same target.
const nearDuplicateThreshold = 0.9

// dedupeKeywords drops phrases that are near-duplicates of an earlier
// phrase so downstream prompts do not repeat themselves. Order is
// preserved, earlier entries win.
func dedupeKeywords(terms []string) []string {
	kept := make([]string, 0, len(terms))
	prints := make([]*textutil.Fingerprint, 0, len(terms))
	for _, term := range terms {
		fp := textutil.NewFingerprint(term)
		duplicate := false
		for _, prev := range prints {
			if textutil.CosineSimilarity(fp, prev) > nearDuplicateThreshold {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		kept = append(kept, term)
		prints = append(prints, fp)
	}
	return kept
}

func outlineHeadings(exec *stage.Execution) []string {
	if exec.Strategy == nil {
		return nil
	}
	headings := make([]string, 0, len(exec.Strategy.Outline))
	for _, section := range exec.Strategy.Outline {
		headings = append(headings, section.Heading)
	}
	return headings
}

// imageCount scales illustration volume with the deliverable format.
func imageCount(contentType session.ContentType) int {
	switch contentType {
	case session.ContentTypePillar, session.ContentTypeWhitepaper, session.ContentTypeGuide:
		return 3
	default:
		return 2
	}
}
