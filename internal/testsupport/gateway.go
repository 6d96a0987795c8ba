package testsupport

import (
	"context"
	"sync"

	"inkwell/internal/providers"
)

// FakeGateway is a scriptable providers.Gateway for tests. Each
// capability returns a canned result unless an error is injected for
// it; call counts are tracked per method.
type FakeGateway struct {
	mu    sync.Mutex
	calls map[string]int

	// Errs injects a failure for a method name (e.g. "GenerateArticle").
	Errs map[string]error

	KeywordsResult *providers.KeywordResult
	AnalysisResult *providers.KeywordAnalysisResult
	SerpResult     *providers.SerpResult
	ResearchResult *providers.ResearchResult
	StrategyResult *providers.StrategyResult
	ArticleResult  *providers.ArticleResult
	ScoreResult    *providers.ScoreResult
	ImagesResult   *providers.ImageResult
	QAResult       *providers.QAResult
}

// NewFakeGateway returns a gateway whose every capability succeeds with
// plausible canned payloads.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		calls: make(map[string]int),
		Errs:  make(map[string]error),
		KeywordsResult: &providers.KeywordResult{
			Primary: providers.Keyword{Term: "kubernetes cost optimization", SearchVolume: 4400, Difficulty: 42},
			Related: []providers.Keyword{{Term: "reduce kubernetes spend", SearchVolume: 880, Difficulty: 30}},
		},
		AnalysisResult: &providers.KeywordAnalysisResult{
			LongTail:  []providers.Keyword{{Term: "kubernetes cost optimization tools", SearchVolume: 320, Difficulty: 25}},
			Questions: []string{"how to reduce kubernetes costs"},
		},
		SerpResult: &providers.SerpResult{
			Entries: []providers.SerpEntry{{Position: 1, Title: "Top result", URL: "https://a.example/post", Domain: "a.example"}},
		},
		ResearchResult: &providers.ResearchResult{
			Summary:   "Cluster spend keeps growing.",
			KeyPoints: []string{"rightsizing saves 30%"},
			Citations: []string{"https://report.example"},
		},
		StrategyResult: &providers.StrategyResult{
			WorkingTitle:    "Cutting Kubernetes Costs",
			Angle:           "practical playbook",
			Outline:         []providers.OutlineSection{{Heading: "Why costs grow"}, {Heading: "Rightsizing"}},
			TargetWordCount: 1500,
		},
		ArticleResult: &providers.ArticleResult{
			Title:           "Cutting Kubernetes Costs",
			Body:            "Kubernetes spend grows quietly until someone looks at the bill.",
			MetaDescription: "A practical playbook for cutting cluster spend.",
			Tags:            []string{"kubernetes", "finops"},
		},
		ScoreResult: &providers.ScoreResult{WordCount: 1480, KeywordDensity: 1.2, SEOScore: 86},
		ImagesResult: &providers.ImageResult{
			Images: []providers.Image{{URL: "https://img.example/hero.png", AltText: "hero", Position: "header"}},
		},
		QAResult: &providers.QAResult{Passed: true},
	}
}

// Calls reports how many times the named method ran.
func (f *FakeGateway) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// Configured reports true for every capability so health checks pass.
func (f *FakeGateway) Configured(string) bool { return true }

func (f *FakeGateway) record(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return f.Errs[method]
}

func (f *FakeGateway) ResearchKeywords(_ context.Context, _ providers.KeywordRequest) (*providers.KeywordResult, error) {
	if err := f.record("ResearchKeywords"); err != nil {
		return nil, err
	}
	return f.KeywordsResult, nil
}

func (f *FakeGateway) AnalyzeKeywords(_ context.Context, _ providers.KeywordAnalysisRequest) (*providers.KeywordAnalysisResult, error) {
	if err := f.record("AnalyzeKeywords"); err != nil {
		return nil, err
	}
	return f.AnalysisResult, nil
}

func (f *FakeGateway) AnalyzeSERP(_ context.Context, _ providers.SerpRequest) (*providers.SerpResult, error) {
	if err := f.record("AnalyzeSERP"); err != nil {
		return nil, err
	}
	return f.SerpResult, nil
}

func (f *FakeGateway) Research(_ context.Context, _ providers.ResearchRequest) (*providers.ResearchResult, error) {
	if err := f.record("Research"); err != nil {
		return nil, err
	}
	return f.ResearchResult, nil
}

func (f *FakeGateway) PlanStrategy(_ context.Context, _ providers.StrategyRequest) (*providers.StrategyResult, error) {
	if err := f.record("PlanStrategy"); err != nil {
		return nil, err
	}
	return f.StrategyResult, nil
}

func (f *FakeGateway) GenerateArticle(_ context.Context, _ providers.ArticleRequest) (*providers.ArticleResult, error) {
	if err := f.record("GenerateArticle"); err != nil {
		return nil, err
	}
	return f.ArticleResult, nil
}

func (f *FakeGateway) ScoreContent(_ context.Context, _ providers.ScoreRequest) (*providers.ScoreResult, error) {
	if err := f.record("ScoreContent"); err != nil {
		return nil, err
	}
	return f.ScoreResult, nil
}

func (f *FakeGateway) GenerateImages(_ context.Context, _ providers.ImageRequest) (*providers.ImageResult, error) {
	if err := f.record("GenerateImages"); err != nil {
		return nil, err
	}
	return f.ImagesResult, nil
}

func (f *FakeGateway) ReviewQuality(_ context.Context, _ providers.QARequest) (*providers.QAResult, error) {
	if err := f.record("ReviewQuality"); err != nil {
		return nil, err
	}
	return f.QAResult, nil
}
