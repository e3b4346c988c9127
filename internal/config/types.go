// internal/config/types.go

// Package config loads and validates the application's YAML settings.
package config

import (
	"fmt"
	"time"

	"github.com/reviewlens/reviewlens/internal/platform"
)

// Settings is the root configuration document.
type Settings struct {
	LogLevel string           `yaml:"log_level" json:"log_level"`
	Scraper  ScraperSettings  `yaml:"scraper" json:"scraper"`
	Browser  BrowserSettings  `yaml:"browser" json:"browser"`
	Server   ServerSettings   `yaml:"server" json:"server"`
	Poller   PollerSettings   `yaml:"poller" json:"poller"`
	Outputs  []OutputSettings `yaml:"outputs" json:"outputs"`

	// Profiles are extra site profiles registered on top of the built-in
	// set. A profile with a built-in name overrides it.
	Profiles []*platform.SiteProfile `yaml:"profiles" json:"profiles"`
}

// ScraperSettings controls the fetch layer and the worker pool.
type ScraperSettings struct {
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`
	RetryAttempts int           `yaml:"retry_attempts" json:"retry_attempts"`
	RetryBase     time.Duration `yaml:"retry_base" json:"retry_base"`
	RateLimit     time.Duration `yaml:"rate_limit" json:"rate_limit"`
	Concurrency   int           `yaml:"concurrency" json:"concurrency"`
	MaxReviews    int           `yaml:"max_reviews" json:"max_reviews"`
	EnableBrowser bool          `yaml:"enable_browser" json:"enable_browser"`
}

// BrowserSettings controls the headless browser backend. Headless is a
// pointer so an absent key defaults to true instead of false.
type BrowserSettings struct {
	Headless     *bool         `yaml:"headless" json:"headless"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	ScrollPasses int           `yaml:"scroll_passes" json:"scroll_passes"`
	ScrollPause  time.Duration `yaml:"scroll_pause" json:"scroll_pause"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
}

// ServerSettings controls the HTTP API server.
type ServerSettings struct {
	Address         string        `yaml:"address" json:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// PollerSettings controls periodic re-scraping of a fixed URL set.
type PollerSettings struct {
	Enabled  bool          `yaml:"enabled" json:"enabled"`
	Interval time.Duration `yaml:"interval" json:"interval"`
	URLs     []string      `yaml:"urls" json:"urls"`
}

// OutputSettings selects one export destination. Type picks the writer;
// the remaining fields apply where they make sense for it.
type OutputSettings struct {
	Type       string `yaml:"type" json:"type"`
	Path       string `yaml:"path,omitempty" json:"path,omitempty"`
	DSN        string `yaml:"dsn,omitempty" json:"dsn,omitempty"`
	Database   string `yaml:"database,omitempty" json:"database,omitempty"`
	Table      string `yaml:"table,omitempty" json:"table,omitempty"`
	Collection string `yaml:"collection,omitempty" json:"collection,omitempty"`
}

// Validate checks the whole settings tree. It runs after defaults are
// applied, so zero values that have defaults never reach it.
func (s *Settings) Validate() error {
	if s.Scraper.Timeout <= 0 {
		return fmt.Errorf("scraper.timeout must be positive")
	}
	if s.Scraper.RetryAttempts < 1 {
		return fmt.Errorf("scraper.retry_attempts must be at least 1")
	}
	if s.Scraper.Concurrency < 1 {
		return fmt.Errorf("scraper.concurrency must be at least 1")
	}
	if s.Scraper.MaxReviews < 1 {
		return fmt.Errorf("scraper.max_reviews must be at least 1")
	}
	if s.Poller.Enabled {
		if s.Poller.Interval <= 0 {
			return fmt.Errorf("poller.interval must be positive when the poller is enabled")
		}
		if len(s.Poller.URLs) == 0 {
			return fmt.Errorf("poller.urls must not be empty when the poller is enabled")
		}
	}
	for i, out := range s.Outputs {
		if err := out.Validate(); err != nil {
			return fmt.Errorf("outputs[%d]: %w", i, err)
		}
	}
	return nil
}

// Validate checks a single output destination.
func (o *OutputSettings) Validate() error {
	switch o.Type {
	case "json", "csv", "excel", "sqlite":
		if o.Path == "" {
			return fmt.Errorf("%s output requires path", o.Type)
		}
	case "postgresql", "mysql":
		if o.DSN == "" {
			return fmt.Errorf("%s output requires dsn", o.Type)
		}
	case "mongodb":
		if o.DSN == "" || o.Database == "" {
			return fmt.Errorf("mongodb output requires dsn and database")
		}
	case "":
		return fmt.Errorf("output type is required")
	default:
		return fmt.Errorf("unknown output type %q", o.Type)
	}
	return nil
}
