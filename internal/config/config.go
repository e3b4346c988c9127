// internal/config/config.go
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default creates settings with production defaults and no outputs.
func Default() *Settings {
	s := &Settings{}
	applyDefaults(s)
	return s
}

// LoadFromFile loads settings from a YAML file.
func LoadFromFile(filename string) (*Settings, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration filename cannot be empty")
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read configuration file: %w", err)
	}

	return LoadFromBytes(data)
}

// LoadFromReader loads settings from an io.Reader.
func LoadFromReader(reader io.Reader) (*Settings, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read configuration: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses YAML settings. Environment variables in the document
// are expanded before parsing, defaults are applied, and the result is
// validated.
func LoadFromBytes(data []byte) (*Settings, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration data cannot be empty")
	}

	expanded := os.ExpandEnv(string(data))

	var settings Settings
	if err := yaml.Unmarshal([]byte(expanded), &settings); err != nil {
		return nil, fmt.Errorf("parse YAML configuration: %w", err)
	}

	applyDefaults(&settings)

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &settings, nil
}

func applyDefaults(s *Settings) {
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}

	if s.Scraper.Timeout == 0 {
		s.Scraper.Timeout = 30 * time.Second
	}
	if s.Scraper.RetryAttempts == 0 {
		s.Scraper.RetryAttempts = 3
	}
	if s.Scraper.RetryBase == 0 {
		s.Scraper.RetryBase = 2 * time.Second
	}
	if s.Scraper.RateLimit == 0 {
		s.Scraper.RateLimit = time.Second
	}
	if s.Scraper.Concurrency == 0 {
		s.Scraper.Concurrency = 4
	}
	if s.Scraper.MaxReviews == 0 {
		s.Scraper.MaxReviews = 50
	}

	if s.Browser.Headless == nil {
		headless := true
		s.Browser.Headless = &headless
	}
	if s.Browser.Timeout == 0 {
		s.Browser.Timeout = 60 * time.Second
	}
	if s.Browser.ScrollPasses == 0 {
		s.Browser.ScrollPasses = 3
	}
	if s.Browser.ScrollPause == 0 {
		s.Browser.ScrollPause = 2 * time.Second
	}

	if s.Server.Address == "" {
		s.Server.Address = ":8080"
	}
	if s.Server.ReadTimeout == 0 {
		s.Server.ReadTimeout = 15 * time.Second
	}
	if s.Server.WriteTimeout == 0 {
		// Scrape requests run the full backend chain inside the handler.
		s.Server.WriteTimeout = 5 * time.Minute
	}
	if s.Server.ShutdownTimeout == 0 {
		s.Server.ShutdownTimeout = 10 * time.Second
	}

	if s.Poller.Interval == 0 {
		s.Poller.Interval = time.Hour
	}
}
