// internal/scraper/fetcher_test.go
package scraper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/reviewlens/reviewlens/internal/platform"
)

// fakeBackend returns scripted responses and records its calls.
type fakeBackend struct {
	name      string
	mu        sync.Mutex
	calls     int
	responses []fakeResponse
}

type fakeResponse struct {
	html string
	err  error
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Fetch(ctx context.Context, targetURL string, profile *platform.SiteProfile) (*FetchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := f.calls
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	f.calls++

	resp := f.responses[idx]
	if resp.err != nil {
		return nil, resp.err
	}
	return &FetchResult{HTML: resp.html, FinalURL: targetURL, Backend: f.name}, nil
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func ok(name string) *fakeBackend {
	return &fakeBackend{name: name, responses: []fakeResponse{{html: "<html>reviews</html>"}}}
}

func failing(name string, kind ErrorKind) *fakeBackend {
	return &fakeBackend{name: name, responses: []fakeResponse{
		{err: &FetchError{Backend: name, Kind: kind}},
	}}
}

func testFetcher(httpB, stealthB, browserB Backend) *Fetcher {
	opts := []FetcherOption{WithRetryBase(time.Millisecond)}
	if browserB != nil {
		opts = append(opts, WithBrowser(browserB))
	}
	return NewFetcher(httpB, stealthB, NewHostLimiter(time.Nanosecond), opts...)
}

func lowProfile() *platform.SiteProfile {
	return &platform.SiteProfile{Name: "shop", AntiBotLevel: 1, RetryAttempts: 3}
}

func TestFetchPlainFirstForLowProtection(t *testing.T) {
	httpB, stealthB := ok(BackendHTTP), ok(BackendStealth)
	f := testFetcher(httpB, stealthB, nil)

	result, err := f.Fetch(context.Background(), "https://shop.com/p/1", lowProfile())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.Backend != BackendHTTP {
		t.Errorf("backend = %q, want http", result.Backend)
	}
	if stealthB.callCount() != 0 {
		t.Error("stealth should not run when plain succeeds")
	}
}

func TestFetchStealthFirstForHighProtection(t *testing.T) {
	httpB, stealthB := ok(BackendHTTP), ok(BackendStealth)
	f := testFetcher(httpB, stealthB, nil)

	profile := lowProfile()
	profile.AntiBotLevel = 4

	result, err := f.Fetch(context.Background(), "https://shop.com/p/1", profile)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.Backend != BackendStealth {
		t.Errorf("backend = %q, want stealth", result.Backend)
	}
	if httpB.callCount() != 0 {
		t.Error("plain should not run before stealth on protected sites")
	}
}

func TestFetchBrowserFirstWhenRequired(t *testing.T) {
	httpB, stealthB, browserB := ok(BackendHTTP), ok(BackendStealth), ok(BackendBrowser)
	f := testFetcher(httpB, stealthB, browserB)

	profile := lowProfile()
	profile.RequiresBrowser = true

	result, err := f.Fetch(context.Background(), "https://shop.com/p/1", profile)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.Backend != BackendBrowser {
		t.Errorf("backend = %q, want browser", result.Backend)
	}
}

func TestFetchEscalatesOnBlock(t *testing.T) {
	httpB := failing(BackendHTTP, KindBlocked)
	stealthB := ok(BackendStealth)
	f := testFetcher(httpB, stealthB, nil)

	result, err := f.Fetch(context.Background(), "https://shop.com/p/1", lowProfile())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.Backend != BackendStealth {
		t.Errorf("backend = %q, want stealth after block", result.Backend)
	}
	// A block is never retried on the same backend.
	if httpB.callCount() != 1 {
		t.Errorf("plain backend called %d times, want 1", httpB.callCount())
	}
}

func TestFetchRetriesTransientErrors(t *testing.T) {
	httpB := &fakeBackend{name: BackendHTTP, responses: []fakeResponse{
		{err: &FetchError{Backend: BackendHTTP, Kind: KindTimeout}},
		{err: &FetchError{Backend: BackendHTTP, Kind: KindNetwork}},
		{html: "<html>third time lucky</html>"},
	}}
	f := testFetcher(httpB, ok(BackendStealth), nil)

	result, err := f.Fetch(context.Background(), "https://shop.com/p/1", lowProfile())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.Backend != BackendHTTP {
		t.Errorf("backend = %q, want http after retries", result.Backend)
	}
	if httpB.callCount() != 3 {
		t.Errorf("plain backend called %d times, want 3", httpB.callCount())
	}
}

func TestFetchAllBackendsFailed(t *testing.T) {
	f := testFetcher(failing(BackendHTTP, KindBlocked), failing(BackendStealth, KindBlocked), nil)

	_, err := f.Fetch(context.Background(), "https://shop.com/p/1", lowProfile())
	if !errors.Is(err, ErrAllBackendsFailed) {
		t.Fatalf("err = %v, want ErrAllBackendsFailed", err)
	}
}

func TestFetchHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := testFetcher(failing(BackendHTTP, KindTimeout), ok(BackendStealth), nil)

	_, err := f.Fetch(ctx, "https://shop.com/p/1", lowProfile())
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
}

func TestKindOf(t *testing.T) {
	wrapped := &FetchError{Backend: BackendHTTP, Kind: KindBlocked}
	if got := KindOf(wrapped); got != KindBlocked {
		t.Errorf("KindOf = %q, want blocked", got)
	}
	if got := KindOf(errors.New("plain")); got != KindNetwork {
		t.Errorf("KindOf(plain) = %q, want network", got)
	}
}
