// Package config holds the file-backed runtime configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration. Zero fields fall back to
// Defaults values on load.
type Config struct {
	// Listen is the HTTP listen address for serve.
	Listen string `yaml:"listen"`
	// UniversalisBaseURL points at a Universalis-compatible market API.
	UniversalisBaseURL string `yaml:"universalis_base_url"`
	// RecipesPath is the recipe catalog file.
	RecipesPath string `yaml:"recipes_path"`
	// HTTPTimeoutSeconds bounds each outbound snapshot fetch.
	HTTPTimeoutSeconds int `yaml:"http_timeout_seconds"`

	Cache Cache `yaml:"cache"`
}

// Cache configures the optional provider-level snapshot cache. TTL 0
// disables caching entirely, which keeps every session fetching its own
// snapshot. With a TTL and no redis_addr the cache is in-process; with
// redis_addr it is shared across instances.
type Cache struct {
	TTLSeconds int    `yaml:"ttl_seconds"`
	RedisAddr  string `yaml:"redis_addr"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	return Config{
		Listen:             ":8080",
		UniversalisBaseURL: "https://universalis.app",
		RecipesPath:        "data/recipes.json",
		HTTPTimeoutSeconds: 15,
	}
}

// Load reads the YAML config at path over Defaults. A missing file is not
// an error; it yields Defaults so the binary runs without any setup.
func Load(path string) (Config, error) {
	cfg := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	d := Defaults()
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.UniversalisBaseURL == "" {
		c.UniversalisBaseURL = d.UniversalisBaseURL
	}
	if c.RecipesPath == "" {
		c.RecipesPath = d.RecipesPath
	}
	if c.HTTPTimeoutSeconds <= 0 {
		c.HTTPTimeoutSeconds = d.HTTPTimeoutSeconds
	}
	return c
}

// HTTPTimeout returns the outbound fetch timeout as a duration.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// CacheTTL returns the snapshot cache TTL; zero means caching is off.
func (c Config) CacheTTL() time.Duration {
	if c.Cache.TTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
