package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// DataForSEO contains credentials and limits for the keyword data provider.
type DataForSEO struct {
	Login          string `toml:"login"`
	Password       string `toml:"password"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Serp contains configuration for the SERP analysis provider.
type Serp struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Perplexity contains configuration for the market research provider.
type Perplexity struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// OpenAI contains configuration for text generation, scoring, and images.
// Long-form generation and image rendering run materially longer than
// keyword lookups, so their timeouts are configured separately.
type OpenAI struct {
	APIKey              string `toml:"api_key"`
	BaseURL             string `toml:"base_url"`
	TextModel           string `toml:"text_model"`
	ImageModel          string `toml:"image_model"`
	TextTimeoutSeconds  int    `toml:"text_timeout_seconds"`
	ImageTimeoutSeconds int    `toml:"image_timeout_seconds"`
}

// Pricing holds per-capability unit prices used by cost estimation.
type Pricing struct {
	DataForSEO float64 `toml:"dataforseo"`
	Serp       float64 `toml:"serp"`
	Perplexity float64 `toml:"perplexity"`
	Generation float64 `toml:"generation"`
	Images     float64 `toml:"images"`
	Scoring    float64 `toml:"scoring"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for inkwell.
//
// Configuration sections by subsystem:
//   - Paths: data and log directories
//   - DataForSEO: keyword research and advanced keyword analysis
//   - Serp: competitive SERP analysis
//   - Perplexity: market research
//   - OpenAI: strategy, article generation, QA, scoring, images
//   - Pricing: per-capability unit prices for cost estimation
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	DataForSEO DataForSEO `toml:"dataforseo"`
	Serp       Serp       `toml:"serp"`
	Perplexity Perplexity `toml:"perplexity"`
	OpenAI     OpenAI     `toml:"openai"`
	Pricing    Pricing    `toml:"pricing"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/inkwell/config.toml")
}

// SampleConfig returns the embedded sample configuration document.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// ExpandPath resolves ~ prefixes and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("inkwell.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	c.applyEnvOverrides()

	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}

	c.DataForSEO.Login = strings.TrimSpace(c.DataForSEO.Login)
	c.DataForSEO.Password = strings.TrimSpace(c.DataForSEO.Password)
	c.DataForSEO.BaseURL = strings.TrimSpace(c.DataForSEO.BaseURL)
	c.Serp.APIKey = strings.TrimSpace(c.Serp.APIKey)
	c.Serp.BaseURL = strings.TrimSpace(c.Serp.BaseURL)
	c.Perplexity.APIKey = strings.TrimSpace(c.Perplexity.APIKey)
	c.Perplexity.BaseURL = strings.TrimSpace(c.Perplexity.BaseURL)
	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	c.OpenAI.BaseURL = strings.TrimSpace(c.OpenAI.BaseURL)

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	return nil
}

func (c *Config) applyEnvOverrides() {
	overrides := []struct {
		env    string
		target *string
	}{
		{"DATAFORSEO_LOGIN", &c.DataForSEO.Login},
		{"DATAFORSEO_PASSWORD", &c.DataForSEO.Password},
		{"SERPAPI_API_KEY", &c.Serp.APIKey},
		{"PERPLEXITY_API_KEY", &c.Perplexity.APIKey},
		{"OPENAI_API_KEY", &c.OpenAI.APIKey},
	}
	for _, o := range overrides {
		if value := strings.TrimSpace(os.Getenv(o.env)); value != "" {
			*o.target = value
		}
	}
}

// EnsureDirectories creates required directories for pipeline operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
