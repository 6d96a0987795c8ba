package api

import (
	"fmt"
	"log/slog"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/logging"
	"inkwell/internal/providers"
	"inkwell/internal/providers/dataforseo"
	"inkwell/internal/providers/openai"
	"inkwell/internal/providers/perplexity"
	"inkwell/internal/providers/serpapi"
)

// NewGateway assembles the provider gateway from configuration. Each
// capability is wired only when its credentials are present; calls
// against an unwired capability fail with a configuration error instead
// of blocking setup, so a partially configured install can still run
// the stages it has credentials for.
func NewGateway(cfg *config.Config, logger *slog.Logger) (*providers.Composite, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	gateway := &providers.Composite{}

	if strings.TrimSpace(cfg.DataForSEO.Login) != "" && strings.TrimSpace(cfg.DataForSEO.Password) != "" {
		client, err := dataforseo.NewClient(cfg.DataForSEO)
		if err != nil {
			return nil, fmt.Errorf("configure keyword provider: %w", err)
		}
		gateway.Keywords = client
	}

	if strings.TrimSpace(cfg.Serp.APIKey) != "" {
		client, err := serpapi.NewClient(cfg.Serp)
		if err != nil {
			return nil, fmt.Errorf("configure serp provider: %w", err)
		}
		gateway.Serp = client
	}

	if strings.TrimSpace(cfg.Perplexity.APIKey) != "" {
		client, err := perplexity.NewClient(cfg.Perplexity)
		if err != nil {
			return nil, fmt.Errorf("configure research provider: %w", err)
		}
		gateway.Researcher = client
	}

	if strings.TrimSpace(cfg.OpenAI.APIKey) != "" {
		client, err := openai.NewClient(cfg.OpenAI)
		if err != nil {
			return nil, fmt.Errorf("configure text provider: %w", err)
		}
		gateway.Text = client
	}

	for _, capability := range []string{
		providers.CapabilityKeywords,
		providers.CapabilitySerp,
		providers.CapabilityResearch,
		providers.CapabilityGeneration,
	} {
		if !gateway.Configured(capability) {
			logger.Warn("capability unconfigured, dependent stages will fail if enabled",
				logging.String("capability", capability))
		}
	}
	return gateway, nil
}
