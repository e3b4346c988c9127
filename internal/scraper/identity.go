// internal/scraper/identity.go
package scraper

import (
	"net/http"
	"sync"
)

// Identity is a browser fingerprint applied to outgoing requests: the
// user agent plus the header set a real browser of that family sends.
type Identity struct {
	UserAgent string
	Headers   map[string]string
}

// IdentityPool rotates through identities round-robin so consecutive
// requests to the same host do not share a fingerprint.
type IdentityPool struct {
	mu         sync.Mutex
	identities []Identity
	next       int
}

// NewIdentityPool creates a pool from the given identities, falling back to
// the built-in set when none are provided.
func NewIdentityPool(identities []Identity) *IdentityPool {
	if len(identities) == 0 {
		identities = defaultIdentities()
	}
	return &IdentityPool{identities: identities}
}

// Next returns the next identity in rotation.
func (p *IdentityPool) Next() Identity {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.identities[p.next]
	p.next = (p.next + 1) % len(p.identities)
	return id
}

// Apply sets the identity's user agent and headers on a request. Headers
// already present on the request are not overwritten.
func (id Identity) Apply(req *http.Request) {
	req.Header.Set("User-Agent", id.UserAgent)
	for key, value := range id.Headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}
}

func defaultIdentities() []Identity {
	chromeHeaders := map[string]string{
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.9",
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            "none",
		"Upgrade-Insecure-Requests": "1",
	}
	firefoxHeaders := map[string]string{
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.5",
		"DNT":                       "1",
		"Upgrade-Insecure-Requests": "1",
	}

	return []Identity{
		{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			Headers:   chromeHeaders,
		},
		{
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			Headers:   chromeHeaders,
		},
		{
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
			Headers:   chromeHeaders,
		},
		{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
			Headers:   firefoxHeaders,
		},
		{
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:125.0) Gecko/20100101 Firefox/125.0",
			Headers:   firefoxHeaders,
		},
		{
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
			Headers: map[string]string{
				"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
				"Accept-Language": "en-US,en;q=0.9",
			},
		},
	}
}
