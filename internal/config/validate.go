package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Provider credentials are
// intentionally not checked here: a capability left unconfigured only
// matters when a generation request enables it, and that is enforced
// when the provider gateway is assembled.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTimeouts(); err != nil {
		return err
	}
	if err := c.validatePricing(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	timeouts := []struct {
		name  string
		value int
	}{
		{"dataforseo.timeout_seconds", c.DataForSEO.TimeoutSeconds},
		{"serp.timeout_seconds", c.Serp.TimeoutSeconds},
		{"perplexity.timeout_seconds", c.Perplexity.TimeoutSeconds},
		{"openai.text_timeout_seconds", c.OpenAI.TextTimeoutSeconds},
		{"openai.image_timeout_seconds", c.OpenAI.ImageTimeoutSeconds},
	}
	for _, t := range timeouts {
		if t.value <= 0 {
			return fmt.Errorf("%s must be positive", t.name)
		}
	}
	return nil
}

func (c *Config) validatePricing() error {
	prices := []struct {
		name  string
		value float64
	}{
		{"pricing.dataforseo", c.Pricing.DataForSEO},
		{"pricing.serp", c.Pricing.Serp},
		{"pricing.perplexity", c.Pricing.Perplexity},
		{"pricing.generation", c.Pricing.Generation},
		{"pricing.images", c.Pricing.Images},
		{"pricing.scoring", c.Pricing.Scoring},
	}
	for _, p := range prices {
		if p.value < 0 {
			return fmt.Errorf("%s must not be negative", p.name)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
