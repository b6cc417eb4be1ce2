// Package config loads the service configuration from a YAML file with
// environment-variable overrides for deploy-time tuning.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the full service configuration.
type Config struct {
	Server struct {
		Port             string `yaml:"port"`
		CrawlTimeoutSecs int    `yaml:"crawl_timeout_seconds"`
		RateLimit        int    `yaml:"rate_limit_per_minute"`
	} `yaml:"server"`
	Browser struct {
		Headless   bool   `yaml:"headless"`
		ChromePath string `yaml:"chrome_path"`
	} `yaml:"browser"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// CrawlTimeout returns the per-request crawl deadline.
func (c *Config) CrawlTimeout() time.Duration {
	return time.Duration(c.Server.CrawlTimeoutSecs) * time.Second
}

// Load reads the configuration file and applies environment overrides.
// A missing file is not an error; defaults and the environment cover it.
// A .env file in the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	// .env is optional; real env vars still win inside godotenv
	_ = godotenv.Load()

	cfg := defaults()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = "3000"
	cfg.Server.CrawlTimeoutSecs = 60
	cfg.Server.RateLimit = 10
	cfg.Browser.Headless = true
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	return cfg
}

func applyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if secs := os.Getenv("CRAWL_TIMEOUT_SECONDS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil && n > 0 {
			cfg.Server.CrawlTimeoutSecs = n
		}
	}
}
