// Package testsupport provides shared helpers for package tests:
// temp-dir configs, session stores, and a scriptable provider gateway.
package testsupport

import (
	"path/filepath"
	"testing"

	"inkwell/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per
// test, with every provider credential set to a test value.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.DataForSEO.Login = "test-login"
	cfg.DataForSEO.Password = "test-password"
	cfg.Serp.APIKey = "test-serp-key"
	cfg.Perplexity.APIKey = "test-perplexity-key"
	cfg.OpenAI.APIKey = "test-openai-key"

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	return &cfg
}

// WithoutProviderCredentials clears every provider credential so tests
// can exercise unconfigured-capability behavior.
func WithoutProviderCredentials() ConfigOption {
	return func(cfg *config.Config) {
		cfg.DataForSEO.Login = ""
		cfg.DataForSEO.Password = ""
		cfg.Serp.APIKey = ""
		cfg.Perplexity.APIKey = ""
		cfg.OpenAI.APIKey = ""
	}
}

// WithPricing overrides the unit prices on the test config.
func WithPricing(pricing config.Pricing) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Pricing = pricing
	}
}
