// internal/scraper/fetcher.go
package scraper

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/reviewlens/reviewlens/internal/platform"
)

// Retry defaults used when the profile does not set its own.
const (
	DefaultRetryAttempts = 3
	DefaultRetryBase     = 2 * time.Second
	maxRetryDelay        = 30 * time.Second
)

// Fetcher walks the backend escalation chain for a URL and returns the
// first usable page. The chain order depends on the site profile: sites
// known to need JavaScript go straight to the browser, heavily protected
// sites skip the plain backend, everything else starts cheap.
type Fetcher struct {
	http      Backend
	stealth   Backend
	browser   Backend
	cooldown  *HostLimiter
	observer  Observer
	retryBase time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithBrowser attaches the browser backend. Without it, profiles requiring
// a browser fail over to the stealth chain instead.
func WithBrowser(b Backend) FetcherOption {
	return func(f *Fetcher) { f.browser = b }
}

// WithObserver attaches fetch telemetry.
func WithObserver(o Observer) FetcherOption {
	return func(f *Fetcher) { f.observer = o }
}

// WithRetryBase overrides the backoff base delay. Tests use this to avoid
// real sleeps.
func WithRetryBase(d time.Duration) FetcherOption {
	return func(f *Fetcher) { f.retryBase = d }
}

// NewFetcher wires the escalation chain. The plain and stealth backends are
// required; the browser backend is optional.
func NewFetcher(httpBackend, stealthBackend Backend, cooldown *HostLimiter, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		http:      httpBackend,
		stealth:   stealthBackend,
		cooldown:  cooldown,
		retryBase: DefaultRetryBase,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the page for a URL, escalating through backends per the
// profile. It returns the first result with non-empty HTML, or an error
// wrapping ErrAllBackendsFailed with every backend's last failure.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string, profile *platform.SiteProfile) (*FetchResult, error) {
	backends := f.orderBackends(profile)
	if len(backends) == 0 {
		return nil, &FetchError{URL: targetURL, Kind: KindInvalidInput, Err: fmt.Errorf("no backends configured")}
	}

	attempts := profile.RetryAttempts
	if attempts <= 0 {
		attempts = DefaultRetryAttempts
	}

	var failures []string
	for _, backend := range backends {
		result, err := f.fetchWithRetry(ctx, backend, targetURL, profile, attempts)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		failures = append(failures, err.Error())
	}

	return nil, fmt.Errorf("%w for %s: %s", ErrAllBackendsFailed, targetURL, strings.Join(failures, "; "))
}

func (f *Fetcher) fetchWithRetry(ctx context.Context, backend Backend, targetURL string, profile *platform.SiteProfile, attempts int) (*FetchResult, error) {
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if err := f.cooldown.Wait(ctx, targetURL, profile.RateLimit); err != nil {
			return nil, &FetchError{URL: targetURL, Backend: backend.Name(), Kind: KindTimeout, Err: err}
		}

		if f.observer != nil {
			f.observer.FetchAttempt(backend.Name())
		}

		result, err := backend.Fetch(ctx, targetURL, profile)
		if err == nil {
			if f.observer != nil {
				f.observer.FetchSuccess(backend.Name(), result.Duration)
			}
			return result, nil
		}

		kind := KindOf(err)
		if f.observer != nil {
			f.observer.FetchFailure(backend.Name(), kind)
		}
		lastErr = err

		// Blocks and bad input never clear up on retry of the same
		// backend; hand the URL to the next one in the chain.
		if !retryable(kind) || ctx.Err() != nil {
			break
		}
		if attempt < attempts-1 {
			if err := f.backoff(ctx, attempt); err != nil {
				return nil, lastErr
			}
		}
	}

	return nil, lastErr
}

// backoff sleeps exponentially with jitter, respecting cancellation.
func (f *Fetcher) backoff(ctx context.Context, attempt int) error {
	delay := f.retryBase * time.Duration(1<<uint(attempt))
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	delay += time.Duration(rand.Int63n(int64(delay)/2 + 1))

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// orderBackends picks the escalation order for a profile.
func (f *Fetcher) orderBackends(profile *platform.SiteProfile) []Backend {
	var chain []Backend

	if profile.RequiresBrowser && f.browser != nil {
		chain = append(chain, f.browser)
	}

	if profile.AntiBotLevel >= 3 {
		chain = append(chain, f.stealth, f.http)
	} else {
		chain = append(chain, f.http, f.stealth)
	}

	if !profile.RequiresBrowser && f.browser != nil {
		chain = append(chain, f.browser)
	}

	return compactBackends(chain)
}

func compactBackends(chain []Backend) []Backend {
	seen := make(map[string]bool, len(chain))
	out := chain[:0]
	for _, b := range chain {
		if b == nil || seen[b.Name()] {
			continue
		}
		seen[b.Name()] = true
		out = append(out, b)
	}
	return out
}
