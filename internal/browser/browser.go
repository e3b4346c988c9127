// internal/browser/browser.go

// Package browser is the heavyweight fetch backend: a headless Chrome
// driven through chromedp, for sites that render reviews with JavaScript
// or hide them behind interaction.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/reviewlens/reviewlens/internal/platform"
	"github.com/reviewlens/reviewlens/internal/scraper"
)

// Config controls the headless browser.
type Config struct {
	Headless       bool          `yaml:"headless" json:"headless"`
	UserAgent      string        `yaml:"user_agent" json:"user_agent"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout"`
	ViewportWidth  int           `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight int           `yaml:"viewport_height" json:"viewport_height"`
	ScrollPasses   int           `yaml:"scroll_passes" json:"scroll_passes"`
	ScrollPause    time.Duration `yaml:"scroll_pause" json:"scroll_pause"`
	DisableImages  bool          `yaml:"disable_images" json:"disable_images"`
}

// DefaultConfig returns production defaults: headless, images off, three
// scroll passes to trigger lazy-loaded review lists.
func DefaultConfig() *Config {
	return &Config{
		Headless:       true,
		Timeout:        60 * time.Second,
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		ScrollPasses:   3,
		ScrollPause:    2 * time.Second,
		DisableImages:  true,
	}
}

// Backend implements scraper.Backend with a headless Chrome. Each fetch
// runs in a fresh browser context off a shared allocator, so pages never
// share cookies or state.
type Backend struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	config      *Config
}

// New launches the browser allocator. Call Close when done.
func New(config *Config) (*Backend, error) {
	if config == nil {
		config = DefaultConfig()
	}

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.WindowSize(config.ViewportWidth, config.ViewportHeight),
	}
	if config.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if config.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(config.UserAgent))
	}
	if config.DisableImages {
		opts = append(opts, chromedp.Flag("blink-settings", "imagesEnabled=false"))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Backend{
		allocCtx:    allocCtx,
		allocCancel: cancel,
		config:      config,
	}, nil
}

// Name implements scraper.Backend.
func (b *Backend) Name() string { return scraper.BackendBrowser }

// Fetch implements scraper.Backend. It navigates, waits for the profile's
// review container (or simply for the body on generic sites), scrolls to
// trigger lazy loading, and returns the rendered DOM.
func (b *Backend) Fetch(ctx context.Context, targetURL string, profile *platform.SiteProfile) (*scraper.FetchResult, error) {
	start := time.Now()

	timeout := b.config.Timeout
	if profile.Timeout > timeout {
		timeout = profile.Timeout
	}

	tabCtx, cancelTab := chromedp.NewContext(b.allocCtx)
	defer cancelTab()
	runCtx, cancelRun := context.WithTimeout(tabCtx, timeout)
	defer cancelRun()

	// Honor caller cancellation on top of the tab's own timeout.
	go func() {
		select {
		case <-ctx.Done():
			cancelRun()
		case <-runCtx.Done():
		}
	}()

	tasks := []chromedp.Action{
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body"),
	}
	if selector := containerWait(profile); selector != "" {
		tasks = append(tasks, waitVisibleOrSettle(selector, 10*time.Second))
	}
	for i := 0; i < b.config.ScrollPasses; i++ {
		tasks = append(tasks,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(b.config.ScrollPause),
		)
	}

	var html string
	tasks = append(tasks, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(runCtx, tasks...); err != nil {
		kind := scraper.KindNetwork
		if runCtx.Err() == context.DeadlineExceeded || ctx.Err() != nil {
			kind = scraper.KindTimeout
		}
		return nil, &scraper.FetchError{
			URL:     targetURL,
			Backend: b.Name(),
			Kind:    kind,
			Err:     fmt.Errorf("render page: %w", err),
		}
	}

	if strings.TrimSpace(html) == "" {
		return nil, &scraper.FetchError{URL: targetURL, Backend: b.Name(), Kind: scraper.KindEmptyPage}
	}

	return &scraper.FetchResult{
		HTML:     html,
		FinalURL: targetURL,
		Backend:  b.Name(),
		Duration: time.Since(start),
	}, nil
}

// Close shuts down the browser allocator.
func (b *Backend) Close() {
	b.allocCancel()
}

// containerWait picks the selector worth waiting for. Generic profiles have
// broad candidates that may never match, so they get no wait.
func containerWait(profile *platform.SiteProfile) string {
	if profile.Generic() || len(profile.Container) == 0 {
		return ""
	}
	return profile.Container[0]
}

// waitVisibleOrSettle waits for the selector but tolerates its absence:
// review sections are often missing on sold-out or zero-review pages, and
// that is the extractor's call, not a fetch failure.
func waitVisibleOrSettle(selector string, timeout time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		waitCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := chromedp.Run(waitCtx, chromedp.WaitVisible(selector)); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		return nil
	})
}
