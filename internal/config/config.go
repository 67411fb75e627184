package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// EnvAPIKey is the environment variable consulted when no --api-key flag
// is given. Get a key at https://gnews.io/.
const EnvAPIKey = "NEWS_KEY"

// Bounds shared by flag validation and config-file validation.
const (
	MinArticleCount = 1
	MaxArticleCount = 100 // GNews caps max at 100; the free plan serves 10
	MaxTimeoutSec   = 300
)

type Config struct {
	Lang         string  `yaml:"lang"`
	Country      string  `yaml:"country"`
	ArticleCount int     `yaml:"article_count"`
	Timeout      float64 `yaml:"timeout"` // seconds
	CacheTTL     string  `yaml:"cache_ttl"`
	APIKey       string  `yaml:"api_key,omitempty"`
}

// ResolveAPIKey returns the API key with flag > environment > config file
// precedence, or an error naming every place it looked.
func (c *Config) ResolveAPIKey(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if key := os.Getenv(EnvAPIKey); key != "" {
		return key, nil
	}
	if c.APIKey != "" {
		return c.APIKey, nil
	}
	return "", fmt.Errorf("no API key: --api-key not given, %s not set, api_key empty in config", EnvAPIKey)
}

func (c *Config) TimeoutDuration() time.Duration {
	if c.Timeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Timeout * float64(time.Second))
}

// CacheTTLDuration returns the response-cache freshness window,
// defaulting to 15 minutes.
func (c *Config) CacheTTLDuration() time.Duration {
	if c.CacheTTL == "" {
		return 15 * time.Minute
	}
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "news-cli", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "news-cli", "responses.db")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Keys absent from the file keep their default values
	cfg := *defaults
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if !isTwoLetterCode(cfg.Lang) {
		return fmt.Errorf("lang: must be a two-letter lowercase code, got %q", cfg.Lang)
	}
	if !isTwoLetterCode(cfg.Country) {
		return fmt.Errorf("country: must be a two-letter lowercase code, got %q", cfg.Country)
	}
	if cfg.ArticleCount < MinArticleCount || cfg.ArticleCount > MaxArticleCount {
		return fmt.Errorf("article_count: must be between %d and %d, got %d", MinArticleCount, MaxArticleCount, cfg.ArticleCount)
	}
	if cfg.Timeout <= 0 || cfg.Timeout > MaxTimeoutSec {
		return fmt.Errorf("timeout: must be a number of seconds in (0, %d], got %v", MaxTimeoutSec, cfg.Timeout)
	}
	if cfg.CacheTTL != "" {
		d, err := time.ParseDuration(cfg.CacheTTL)
		if err != nil {
			return fmt.Errorf("cache_ttl: invalid duration %q: %w", cfg.CacheTTL, err)
		}
		if d <= 0 {
			return fmt.Errorf("cache_ttl: must be positive, got %q", cfg.CacheTTL)
		}
	}
	return nil
}

func isTwoLetterCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
