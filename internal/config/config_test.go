package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inkwell/internal/config"
)

func TestLoadDefaultsExpandsPathsAndAppliesEnvKeys(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PERPLEXITY_API_KEY", "pplx-test")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "inkwell")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.OpenAI.APIKey != "sk-test" {
		t.Fatalf("expected OpenAI key from env, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.Perplexity.APIKey != "pplx-test" {
		t.Fatalf("expected Perplexity key from env, got %q", cfg.Perplexity.APIKey)
	}
	if cfg.Pricing.Generation != 0.25 {
		t.Fatalf("unexpected default generation price: %v", cfg.Pricing.Generation)
	}
	if cfg.OpenAI.TextTimeoutSeconds <= cfg.DataForSEO.TimeoutSeconds {
		t.Fatal("expected long-form generation timeout to exceed keyword lookup timeout")
	}
}

func TestLoadParsesExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inkwell.toml")
	content := strings.Join([]string{
		"[paths]",
		`data_dir = "` + filepath.Join(dir, "data") + `"`,
		"",
		"[pricing]",
		"images = 0.5",
		"",
		"[logging]",
		`format = "json"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected explicit config file to exist")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Pricing.Images != 0.5 {
		t.Fatalf("expected images price override, got %v", cfg.Pricing.Images)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %q", cfg.Logging.Format)
	}
	// Sections not present keep defaults.
	if cfg.Pricing.Serp != 0.05 {
		t.Fatalf("expected default serp price, got %v", cfg.Pricing.Serp)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"negative price", func(c *config.Config) { c.Pricing.Perplexity = -1 }},
		{"zero timeout", func(c *config.Config) { c.Serp.TimeoutSeconds = 0 }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "verbose" }},
		{"empty data dir", func(c *config.Config) { c.Paths.DataDir = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestSampleConfigIsNotEmpty(t *testing.T) {
	if !strings.Contains(config.SampleConfig(), "[pricing]") {
		t.Fatal("sample config should document the pricing section")
	}
}
