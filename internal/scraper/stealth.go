// internal/scraper/stealth.go
package scraper

import (
	"context"
	"net/http"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"

	"github.com/reviewlens/reviewlens/internal/platform"
)

// StealthBackend is the plain request path behind a transport that mimics
// a real browser's TLS and header fingerprint. It gets past basic
// Cloudflare-style bot protection without spinning up a browser.
type StealthBackend struct {
	client     *http.Client
	identities *IdentityPool
}

// NewStealthBackend creates the stealth backend with the given timeout.
func NewStealthBackend(timeout time.Duration, identities *IdentityPool) *StealthBackend {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if identities == nil {
		identities = NewIdentityPool(nil)
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &StealthBackend{
		client: &http.Client{
			Timeout:   timeout,
			Transport: cloudflarebp.AddCloudFlareByPass(transport),
		},
		identities: identities,
	}
}

// Name implements Backend.
func (b *StealthBackend) Name() string { return BackendStealth }

// Fetch implements Backend.
func (b *StealthBackend) Fetch(ctx context.Context, targetURL string, profile *platform.SiteProfile) (*FetchResult, error) {
	return doGet(ctx, b.client, b.Name(), targetURL, b.identities.Next())
}
