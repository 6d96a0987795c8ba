package providers

import "context"

// Capability names used in error reporting and configuration checks.
const (
	CapabilityKeywords   = "keywords"
	CapabilitySerp       = "serp"
	CapabilityResearch   = "research"
	CapabilityGeneration = "generation"
	CapabilityScoring    = "scoring"
	CapabilityImages     = "images"
)

// KeywordRequest seeds keyword research.
type KeywordRequest struct {
	Topics          []string `json:"topics"`
	Industry        string   `json:"industry"`
	MinSearchVolume int      `json:"min_search_volume"`
	MaxDifficulty   int      `json:"max_difficulty"`
}

// Keyword is one researched keyword with volume and difficulty data.
type Keyword struct {
	Term         string  `json:"term"`
	SearchVolume int     `json:"search_volume"`
	Difficulty   int     `json:"difficulty"`
	CPC          float64 `json:"cpc"`
}

// KeywordResult is the keyword-research stage payload.
type KeywordResult struct {
	Primary  Keyword   `json:"primary"`
	Related  []Keyword `json:"related"`
	Location string    `json:"location,omitempty"`
}

// KeywordAnalysisRequest refines researched keywords.
type KeywordAnalysisRequest struct {
	Keywords      []Keyword `json:"keywords"`
	MaxDifficulty int       `json:"max_difficulty"`
}

// KeywordAnalysisResult is the advanced-keyword-analysis stage payload.
type KeywordAnalysisResult struct {
	LongTail      []Keyword `json:"long_tail"`
	Questions     []string  `json:"questions"`
	IntentSummary string    `json:"intent_summary,omitempty"`
}

// SerpRequest drives competitive SERP analysis.
type SerpRequest struct {
	Keyword           string   `json:"keyword"`
	CompetitorDomains []string `json:"competitor_domains,omitempty"`
}

// SerpEntry is one organic result from the target SERP.
type SerpEntry struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Domain   string `json:"domain"`
	Snippet  string `json:"snippet,omitempty"`
}

// SerpResult is the serp-analysis stage payload.
type SerpResult struct {
	Entries         []SerpEntry `json:"entries"`
	PeopleAlsoAsk   []string    `json:"people_also_ask,omitempty"`
	CompetitorGaps  []string    `json:"competitor_gaps,omitempty"`
	AverageWordBand string      `json:"average_word_band,omitempty"`
}

// ResearchRequest drives market research.
type ResearchRequest struct {
	Topic    string `json:"topic"`
	Industry string `json:"industry"`
	Audience string `json:"audience"`
}

// ResearchResult is the perplexity-research stage payload.
type ResearchResult struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	Citations []string `json:"citations,omitempty"`
}

// StrategyRequest carries the accumulated upstream context into outline planning.
type StrategyRequest struct {
	Topic              string                 `json:"topic"`
	Industry           string                 `json:"industry"`
	Audience           string                 `json:"audience"`
	ContentType        string                 `json:"content_type"`
	LengthClass        string                 `json:"length_class"`
	WritingStyle       string                 `json:"writing_style"`
	CustomInstructions string                 `json:"custom_instructions,omitempty"`
	Keywords           *KeywordResult         `json:"keywords,omitempty"`
	KeywordAnalysis    *KeywordAnalysisResult `json:"keyword_analysis,omitempty"`
	Serp               *SerpResult            `json:"serp,omitempty"`
	Research           *ResearchResult        `json:"research,omitempty"`
}

// OutlineSection is one planned section of the article.
type OutlineSection struct {
	Heading  string   `json:"heading"`
	Points   []string `json:"points,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// StrategyResult is the content-strategy stage payload.
type StrategyResult struct {
	WorkingTitle    string           `json:"working_title"`
	Angle           string           `json:"angle,omitempty"`
	Outline         []OutlineSection `json:"outline"`
	TargetWordCount int              `json:"target_word_count"`
}

// ArticleRequest carries the strategy plus upstream data into generation.
type ArticleRequest struct {
	Strategy           StrategyResult  `json:"strategy"`
	Keywords           *KeywordResult  `json:"keywords,omitempty"`
	Research           *ResearchResult `json:"research,omitempty"`
	WritingStyle       string          `json:"writing_style"`
	CustomInstructions string          `json:"custom_instructions,omitempty"`
}

// ArticleResult is the article-generation stage payload.
type ArticleResult struct {
	Title           string   `json:"title"`
	Body            string   `json:"body"`
	MetaDescription string   `json:"meta_description,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// ScoreRequest asks for SEO scoring of a finished draft.
type ScoreRequest struct {
	Title          string   `json:"title"`
	Body           string   `json:"body"`
	TargetKeywords []string `json:"target_keywords,omitempty"`
}

// ScoreResult is the seo-optimization stage payload.
type ScoreResult struct {
	WordCount      int      `json:"word_count"`
	KeywordDensity float64  `json:"keyword_density"`
	SEOScore       float64  `json:"seo_score"`
	Suggestions    []string `json:"suggestions,omitempty"`
}

// ImageRequest asks for illustrative images for the article.
type ImageRequest struct {
	Title    string   `json:"title"`
	Sections []string `json:"sections,omitempty"`
	Style    string   `json:"style,omitempty"`
	Count    int      `json:"count"`
}

// Image is one generated image descriptor.
type Image struct {
	URL      string `json:"url"`
	AltText  string `json:"alt_text"`
	Position string `json:"position"`
}

// ImageResult is the image-generation stage payload.
type ImageResult struct {
	Images []Image `json:"images"`
}

// QARequest asks for a final quality pass over the draft.
type QARequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// QAResult is the quality-assurance stage payload.
type QAResult struct {
	Passed   bool     `json:"passed"`
	Findings []string `json:"findings,omitempty"`
	Revised  string   `json:"revised,omitempty"`
}

// Gateway is the abstraction boundary to all external AI/data services.
// One method per capability; each call blocks until the remote call
// returns, fails, or the context is done. Implementations must be safe
// for concurrent use across sessions.
type Gateway interface {
	ResearchKeywords(ctx context.Context, req KeywordRequest) (*KeywordResult, error)
	AnalyzeKeywords(ctx context.Context, req KeywordAnalysisRequest) (*KeywordAnalysisResult, error)
	AnalyzeSERP(ctx context.Context, req SerpRequest) (*SerpResult, error)
	Research(ctx context.Context, req ResearchRequest) (*ResearchResult, error)
	PlanStrategy(ctx context.Context, req StrategyRequest) (*StrategyResult, error)
	GenerateArticle(ctx context.Context, req ArticleRequest) (*ArticleResult, error)
	ScoreContent(ctx context.Context, req ScoreRequest) (*ScoreResult, error)
	GenerateImages(ctx context.Context, req ImageRequest) (*ImageResult, error)
	ReviewQuality(ctx context.Context, req QARequest) (*QAResult, error)
}
