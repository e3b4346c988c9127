// internal/config/config_test.go
package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoadFromBytesAppliesDefaults(t *testing.T) {
	settings, err := LoadFromBytes([]byte("log_level: debug\n"))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}

	if settings.LogLevel != "debug" {
		t.Errorf("log_level = %q", settings.LogLevel)
	}
	if settings.Scraper.Timeout != 30*time.Second {
		t.Errorf("scraper timeout = %v", settings.Scraper.Timeout)
	}
	if settings.Scraper.Concurrency != 4 {
		t.Errorf("concurrency = %d", settings.Scraper.Concurrency)
	}
	if settings.Browser.Headless == nil || !*settings.Browser.Headless {
		t.Error("headless should default to true")
	}
	if settings.Server.Address != ":8080" {
		t.Errorf("address = %q", settings.Server.Address)
	}
}

func TestLoadFromBytesExpandsEnvironment(t *testing.T) {
	os.Setenv("TEST_REVIEW_ADDR", ":9999")
	defer os.Unsetenv("TEST_REVIEW_ADDR")

	settings, err := LoadFromBytes([]byte("server:\n  address: ${TEST_REVIEW_ADDR}\n"))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	if settings.Server.Address != ":9999" {
		t.Errorf("address = %q, want :9999", settings.Server.Address)
	}
}

func TestLoadFromBytesHeadlessOverride(t *testing.T) {
	settings, err := LoadFromBytes([]byte("browser:\n  headless: false\n"))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	if *settings.Browser.Headless {
		t.Error("explicit headless: false must be kept")
	}
}

func TestLoadFromBytesRejectsEmpty(t *testing.T) {
	if _, err := LoadFromBytes(nil); err == nil {
		t.Error("expected error for empty configuration")
	}
}

func TestValidateOutputs(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown type", "outputs:\n  - type: parquet\n", "unknown output type"},
		{"json without path", "outputs:\n  - type: json\n", "requires path"},
		{"postgres without dsn", "outputs:\n  - type: postgresql\n", "requires dsn"},
		{"mongodb without database", "outputs:\n  - type: mongodb\n    dsn: mongodb://localhost\n", "requires dsn and database"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestValidatePoller(t *testing.T) {
	yaml := "poller:\n  enabled: true\n"
	if _, err := LoadFromBytes([]byte(yaml)); err == nil {
		t.Error("enabled poller without URLs must be rejected")
	}

	yaml = "poller:\n  enabled: true\n  urls:\n    - https://shop.com/p/1\n"
	settings, err := LoadFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	if settings.Poller.Interval != time.Hour {
		t.Errorf("poller interval = %v, want default 1h", settings.Poller.Interval)
	}
}

func TestLoadProfiles(t *testing.T) {
	yaml := `
profiles:
  - name: corner-shop
    domain: corner-shop.example
    container: [".review-card"]
    text: [".review-card-text"]
    anti_bot_level: 2
`
	settings, err := LoadFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	if len(settings.Profiles) != 1 {
		t.Fatalf("got %d profiles, want 1", len(settings.Profiles))
	}
	p := settings.Profiles[0]
	if p.Name != "corner-shop" || p.AntiBotLevel != 2 {
		t.Errorf("profile = %+v", p)
	}
	if len(p.Container) != 1 || p.Container[0] != ".review-card" {
		t.Errorf("container = %v", p.Container)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/reviewlens.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
