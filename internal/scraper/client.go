// internal/scraper/client.go
package scraper

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/reviewlens/reviewlens/internal/platform"
)

// maxBodyBytes caps how much of a response body is read. Review pages are
// large but nowhere near this; anything bigger is not a page we want.
const maxBodyBytes = 10 << 20

// blockMarkers are body fragments that indicate an anti-bot interstitial
// rather than real content, even under a 200 status.
var blockMarkers = []string{
	"captcha",
	"robot check",
	"access denied",
	"verify you are a human",
	"are you a robot",
	"unusual traffic",
}

// HTTPBackend is the plain HTTP fetcher: rotating identities and
// browser-like headers, but no TLS fingerprint work and no JavaScript.
type HTTPBackend struct {
	client     *http.Client
	identities *IdentityPool
}

// NewHTTPBackend creates the plain backend with the given timeout.
func NewHTTPBackend(timeout time.Duration, identities *IdentityPool) *HTTPBackend {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if identities == nil {
		identities = NewIdentityPool(nil)
	}
	return &HTTPBackend{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		identities: identities,
	}
}

// Name implements Backend.
func (b *HTTPBackend) Name() string { return BackendHTTP }

// Fetch implements Backend.
func (b *HTTPBackend) Fetch(ctx context.Context, targetURL string, profile *platform.SiteProfile) (*FetchResult, error) {
	return doGet(ctx, b.client, b.Name(), targetURL, b.identities.Next())
}

// doGet is the request/response path shared by the plain and stealth
// backends; only their transports differ.
func doGet(ctx context.Context, client *http.Client, backend, targetURL string, identity Identity) (*FetchResult, error) {
	if _, err := url.ParseRequestURI(targetURL); err != nil {
		return nil, &FetchError{URL: targetURL, Backend: backend, Kind: KindInvalidInput, Err: err}
	}

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, &FetchError{URL: targetURL, Backend: backend, Kind: KindInvalidInput, Err: err}
	}
	identity.Apply(req)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: targetURL, Backend: backend, Kind: classifyTransportErr(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		return nil, &FetchError{URL: targetURL, Backend: backend, Kind: KindBlocked, StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: targetURL, Backend: backend, Kind: KindHTTP, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{URL: targetURL, Backend: backend, Kind: classifyTransportErr(err), Err: err}
	}

	html := string(body)
	if strings.TrimSpace(html) == "" {
		return nil, &FetchError{URL: targetURL, Backend: backend, Kind: KindEmptyPage, StatusCode: resp.StatusCode}
	}
	if looksBlocked(html) {
		return nil, &FetchError{URL: targetURL, Backend: backend, Kind: KindBlocked, StatusCode: resp.StatusCode}
	}

	finalURL := targetURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &FetchResult{
		HTML:       html,
		FinalURL:   finalURL,
		StatusCode: resp.StatusCode,
		Backend:    backend,
		Duration:   time.Since(start),
	}, nil
}

func classifyTransportErr(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return KindTimeout
	}
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	return KindNetwork
}

// looksBlocked checks a short prefix of the page for anti-bot markers. Only
// the prefix is scanned; real review text further down may legitimately
// mention these words.
func looksBlocked(html string) bool {
	prefix := html
	if len(prefix) > 4096 {
		prefix = prefix[:4096]
	}
	prefix = strings.ToLower(prefix)
	for _, marker := range blockMarkers {
		if strings.Contains(prefix, marker) {
			return true
		}
	}
	return false
}
