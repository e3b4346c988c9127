// internal/service/bootstrap.go
package service

import (
	"fmt"

	"github.com/reviewlens/reviewlens/internal/browser"
	"github.com/reviewlens/reviewlens/internal/config"
	"github.com/reviewlens/reviewlens/internal/extract"
	"github.com/reviewlens/reviewlens/internal/monitoring"
	"github.com/reviewlens/reviewlens/internal/output"
	"github.com/reviewlens/reviewlens/internal/platform"
	"github.com/reviewlens/reviewlens/internal/scraper"
	"github.com/reviewlens/reviewlens/internal/utils"
)

// Build assembles the full pipeline from settings. The returned cleanup
// closes the browser and the output writers; call it on shutdown.
func Build(settings *config.Settings, metrics *monitoring.Metrics, logger utils.Logger) (*Service, func(), error) {
	if logger == nil {
		logger = utils.NewLoggerWithLevel(utils.ParseLevel(settings.LogLevel))
	}

	registry, err := platform.DefaultRegistry()
	if err != nil {
		return nil, nil, fmt.Errorf("build platform registry: %w", err)
	}
	for _, p := range settings.Profiles {
		if err := registry.Register(p); err != nil {
			return nil, nil, fmt.Errorf("register profile: %w", err)
		}
	}

	identities := scraper.NewIdentityPool(nil)
	cooldown := scraper.NewHostLimiter(settings.Scraper.RateLimit)

	opts := []scraper.FetcherOption{
		scraper.WithRetryBase(settings.Scraper.RetryBase),
	}
	if metrics != nil {
		opts = append(opts, scraper.WithObserver(metrics))
	}

	cleanups := []func(){}
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	if settings.Scraper.EnableBrowser {
		b, err := browser.New(&browser.Config{
			Headless:       *settings.Browser.Headless,
			UserAgent:      settings.Browser.UserAgent,
			Timeout:        settings.Browser.Timeout,
			ViewportWidth:  1920,
			ViewportHeight: 1080,
			ScrollPasses:   settings.Browser.ScrollPasses,
			ScrollPause:    settings.Browser.ScrollPause,
			DisableImages:  true,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("start browser: %w", err)
		}
		cleanups = append(cleanups, b.Close)
		opts = append(opts, scraper.WithBrowser(b))
	}

	fetcher := scraper.NewFetcher(
		scraper.NewHTTPBackend(settings.Scraper.Timeout, identities),
		scraper.NewStealthBackend(settings.Scraper.Timeout, identities),
		cooldown,
		opts...,
	)
	extractor := extract.NewExtractor(extract.NewPatternLearner())

	var outputs *output.Manager
	if len(settings.Outputs) > 0 {
		var obs output.Observer
		if metrics != nil {
			obs = metrics
		}
		outputs, err = output.NewManager(settings.Outputs, obs, logger)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		cleanups = append(cleanups, func() { outputs.Close() })
	}

	svc := New(registry, fetcher, extractor, Options{
		Outputs:     outputs,
		Metrics:     metrics,
		Logger:      logger,
		Concurrency: settings.Scraper.Concurrency,
	})
	return svc, cleanup, nil
}
