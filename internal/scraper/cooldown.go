// internal/scraper/cooldown.go
package scraper

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HostLimiter enforces a per-host request interval across every backend, so
// escalating from plain to stealth to browser never hammers one site.
type HostLimiter struct {
	mu              sync.Mutex
	limiters        map[string]*rate.Limiter
	defaultInterval time.Duration
}

// NewHostLimiter creates a limiter with the given default interval between
// requests to the same host.
func NewHostLimiter(defaultInterval time.Duration) *HostLimiter {
	if defaultInterval <= 0 {
		defaultInterval = time.Second
	}
	return &HostLimiter{
		limiters:        make(map[string]*rate.Limiter),
		defaultInterval: defaultInterval,
	}
}

// Wait blocks until a request to the URL's host is allowed. A positive
// interval overrides the default for that host; the first caller for a host
// pins its interval.
func (hl *HostLimiter) Wait(ctx context.Context, targetURL string, interval time.Duration) error {
	host := hostOf(targetURL)
	if host == "" {
		return nil
	}
	if interval <= 0 {
		interval = hl.defaultInterval
	}

	hl.mu.Lock()
	limiter, ok := hl.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(interval), 1)
		hl.limiters[host] = limiter
	}
	hl.mu.Unlock()

	return limiter.Wait(ctx)
}

func hostOf(targetURL string) string {
	u, err := url.Parse(targetURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
