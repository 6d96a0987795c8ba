package config

const (
	defaultDataDir            = "~/.local/share/inkwell"
	defaultLogDir             = "~/.local/share/inkwell/logs"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultDataForSEOBaseURL  = "https://api.dataforseo.com/v3"
	defaultDataForSEOTimeout  = 30
	defaultSerpBaseURL        = "https://serpapi.com/search"
	defaultSerpTimeout        = 30
	defaultPerplexityBaseURL  = "https://api.perplexity.ai/chat/completions"
	defaultPerplexityModel    = "sonar-pro"
	defaultPerplexityTimeout  = 120
	defaultOpenAITextModel    = "gpt-4o"
	defaultOpenAIImageModel   = "dall-e-3"
	defaultOpenAITextTimeout  = 300
	defaultOpenAIImageTimeout = 300
	defaultPriceDataForSEO    = 0.075
	defaultPriceSerp          = 0.05
	defaultPricePerplexity    = 0.10
	defaultPriceGeneration    = 0.25
	defaultPriceImages        = 0.20
	defaultPriceScoring       = 0.05
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		DataForSEO: DataForSEO{
			BaseURL:        defaultDataForSEOBaseURL,
			TimeoutSeconds: defaultDataForSEOTimeout,
		},
		Serp: Serp{
			BaseURL:        defaultSerpBaseURL,
			TimeoutSeconds: defaultSerpTimeout,
		},
		Perplexity: Perplexity{
			BaseURL:        defaultPerplexityBaseURL,
			Model:          defaultPerplexityModel,
			TimeoutSeconds: defaultPerplexityTimeout,
		},
		OpenAI: OpenAI{
			TextModel:           defaultOpenAITextModel,
			ImageModel:          defaultOpenAIImageModel,
			TextTimeoutSeconds:  defaultOpenAITextTimeout,
			ImageTimeoutSeconds: defaultOpenAIImageTimeout,
		},
		Pricing: Pricing{
			DataForSEO: defaultPriceDataForSEO,
			Serp:       defaultPriceSerp,
			Perplexity: defaultPricePerplexity,
			Generation: defaultPriceGeneration,
			Images:     defaultPriceImages,
			Scoring:    defaultPriceScoring,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
