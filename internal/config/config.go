package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Default configuration values
const (
	DefaultURL       = "https://russianwarship.rip/api/v1/statistics/latest"
	DefaultRefresh   = "30minutes"
	DefaultTimeout   = "10s"
	DefaultVerbosity = 0
)

// Holds the configuration options for shoporusni
type Config struct {
	// Statistics endpoint
	URL string `yaml:"url"`

	// Maximum cache age before a refresh is attempted
	Refresh time.Duration `yaml:"refresh"`

	// Timeout for the single HTTP request
	Timeout time.Duration `yaml:"timeout"`

	// Number of -v flags
	Verbosity int `yaml:"verbose"`

	// Disable ANSI colours in the output
	NoColor bool `yaml:"no_color"`

	// Print every counter instead of personnel only
	All bool `yaml:"all"`

	// Skip recording the run in the history journal
	NoJournal bool `yaml:"no_journal"`

	// Directory holding cache.json, history.db and the global config file
	Dir string `yaml:"dir"`
}

// Load builds a Config from the current viper settings and validates it
func Load() (*Config, error) {
	refresh, err := ParseDuration(viper.GetString("refresh"))
	if err != nil {
		return nil, fmt.Errorf("invalid refresh duration: %w", err)
	}

	timeout, err := ParseDuration(viper.GetString("timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid timeout: %w", err)
	}

	cfg := &Config{
		URL:       viper.GetString("url"),
		Refresh:   refresh,
		Timeout:   timeout,
		Verbosity: viper.GetInt("verbose"),
		NoColor:   viper.GetBool("no_color"),
		All:       viper.GetBool("all"),
		NoJournal: viper.GetBool("no_journal"),
		Dir:       viper.GetString("dir"),
	}

	// Apply defaults if not set
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}

	// https://no-color.org
	if os.Getenv("NO_COLOR") != "" {
		cfg.NoColor = true
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the URL, durations and config directory
func (c *Config) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %v", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url: unsupported scheme %q", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("invalid url: missing host")
	}

	if c.Refresh < 0 {
		return fmt.Errorf("invalid refresh duration: %s is negative", c.Refresh)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: must be positive")
	}

	if c.Dir == "" {
		return fmt.Errorf("config directory not resolved")
	}

	return nil
}

// YAML renders the effective configuration
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	return string(out), nil
}
