// Package stage defines the fixed pipeline stage registry and the
// contract each stage implementation satisfies.
package stage

import "fmt"

// Stage identifiers, in pipeline execution order.
const (
	Setup              = "setup"
	KeywordResearch    = "keyword-research"
	AdvancedKeywords   = "advanced-keyword-analysis"
	SerpAnalysis       = "serp-analysis"
	PerplexityResearch = "perplexity-research"
	ContentStrategy    = "content-strategy"
	ArticleGeneration  = "article-generation"
	SEOOptimization    = "seo-optimization"
	ImageGeneration    = "image-generation"
	QualityAssurance   = "quality-assurance"
)

// Price keys map stages to pricing configuration entries.
const (
	PriceFree       = ""
	PriceDataForSEO = "dataforseo"
	PriceSerp       = "serp"
	PricePerplexity = "perplexity"
	PriceGeneration = "generation"
	PriceScoring    = "scoring"
	PriceImages     = "images"
)

// Descriptor describes one pipeline stage: its position, weight in the
// aggregate progress calculation, upstream dependencies, and pricing.
type Descriptor struct {
	ID          string
	Name        string
	Description string
	Optional    bool
	DependsOn   []string
	Weight      int
	PriceKey    string
	Capability  string
}

// Mandatory reports whether a failure in this stage aborts the pipeline.
func (d Descriptor) Mandatory() bool {
	return !d.Optional
}

// registry holds the fixed stage set in execution order. Weights sum
// to 100 so aggregate progress lands exactly at 100 when every stage
// reaches a terminal state.
var registry = []Descriptor{
	{
		ID:          Setup,
		Name:        "Setup",
		Description: "Validates the request and prepares the session workspace",
		Weight:      2,
		PriceKey:    PriceFree,
	},
	{
		ID:          KeywordResearch,
		Name:        "Keyword Research",
		Description: "Researches search volume and difficulty for the seed topics",
		Optional:    true,
		DependsOn:   []string{Setup},
		Weight:      8,
		PriceKey:    PriceDataForSEO,
		Capability:  "keywords",
	},
	{
		ID:          AdvancedKeywords,
		Name:        "Advanced Keyword Analysis",
		Description: "Derives long-tail variants, questions, and search intent",
		Optional:    true,
		DependsOn:   []string{KeywordResearch},
		Weight:      6,
		PriceKey:    PriceDataForSEO,
		Capability:  "keywords",
	},
	{
		ID:          SerpAnalysis,
		Name:        "SERP Analysis",
		Description: "Analyzes the competitive search results for the primary keyword",
		Optional:    true,
		DependsOn:   []string{KeywordResearch},
		Weight:      6,
		PriceKey:    PriceSerp,
		Capability:  "serp",
	},
	{
		ID:          PerplexityResearch,
		Name:        "Market Research",
		Description: "Gathers cited market research for the topic",
		Optional:    true,
		DependsOn:   []string{Setup},
		Weight:      8,
		PriceKey:    PricePerplexity,
		Capability:  "research",
	},
	{
		ID:          ContentStrategy,
		Name:        "Content Strategy",
		Description: "Plans the article angle, outline, and target length",
		DependsOn:   []string{Setup, KeywordResearch},
		Weight:      12,
		PriceKey:    PriceGeneration,
		Capability:  "generation",
	},
	{
		ID:          ArticleGeneration,
		Name:        "Article Generation",
		Description: "Writes the full article from the strategy",
		DependsOn:   []string{ContentStrategy},
		Weight:      30,
		PriceKey:    PriceGeneration,
		Capability:  "generation",
	},
	{
		ID:          SEOOptimization,
		Name:        "SEO Optimization",
		Description: "Scores the draft and collects optimization suggestions",
		Optional:    true,
		DependsOn:   []string{ArticleGeneration},
		Weight:      8,
		PriceKey:    PriceScoring,
		Capability:  "scoring",
	},
	{
		ID:          ImageGeneration,
		Name:        "Image Generation",
		Description: "Renders illustrative images for the article",
		Optional:    true,
		DependsOn:   []string{ArticleGeneration},
		Weight:      12,
		PriceKey:    PriceImages,
		Capability:  "images",
	},
	{
		ID:          QualityAssurance,
		Name:        "Quality Assurance",
		Description: "Runs the final editorial quality pass",
		Optional:    true,
		DependsOn:   []string{ArticleGeneration},
		Weight:      8,
		PriceKey:    PriceGeneration,
		Capability:  "generation",
	},
}

// All returns the stage descriptors in execution order. The slice is a
// copy so callers cannot mutate the registry.
func All() []Descriptor {
	out := make([]Descriptor, len(registry))
	copy(out, registry)
	return out
}

// IDs returns the stage identifiers in execution order.
func IDs() []string {
	out := make([]string, len(registry))
	for i, d := range registry {
		out[i] = d.ID
	}
	return out
}

// Lookup finds a descriptor by stage ID.
func Lookup(id string) (Descriptor, error) {
	for _, d := range registry {
		if d.ID == id {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("unknown stage %q", id)
}

// Count reports the number of registered stages.
func Count() int {
	return len(registry)
}
