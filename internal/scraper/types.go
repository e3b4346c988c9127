// internal/scraper/types.go

// Package scraper fetches review pages over HTTP. Several backends with
// different stealth levels implement a common interface; the Fetcher walks
// them in escalation order until one returns usable HTML.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reviewlens/reviewlens/internal/platform"
)

// Backend names, in escalation order.
const (
	BackendHTTP    = "http"
	BackendStealth = "stealth"
	BackendBrowser = "browser"
)

// FetchResult is the outcome of a successful page fetch.
type FetchResult struct {
	HTML       string        `json:"-"`
	FinalURL   string        `json:"final_url"`
	StatusCode int           `json:"status_code"`
	Backend    string        `json:"backend"`
	Duration   time.Duration `json:"duration"`
}

// Backend retrieves a page for the given site profile. Implementations must
// honor context cancellation and return a FetchError on failure.
type Backend interface {
	Name() string
	Fetch(ctx context.Context, targetURL string, profile *platform.SiteProfile) (*FetchResult, error)
}

// ErrorKind classifies fetch failures so callers can decide whether to
// retry, escalate to the next backend, or give up.
type ErrorKind string

const (
	KindInvalidInput ErrorKind = "invalid_input"
	KindTimeout      ErrorKind = "timeout"
	KindNetwork      ErrorKind = "network"
	KindBlocked      ErrorKind = "blocked"
	KindHTTP         ErrorKind = "http_error"
	KindEmptyPage    ErrorKind = "empty_page"
)

// FetchError carries the failure classification alongside the usual chain.
type FetchError struct {
	URL        string
	Backend    string
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s backend: %s (HTTP %d) fetching %s", e.Backend, e.Kind, e.StatusCode, e.URL)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s backend: %s fetching %s: %v", e.Backend, e.Kind, e.URL, e.Err)
	}
	return fmt.Sprintf("%s backend: %s fetching %s", e.Backend, e.Kind, e.URL)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ErrAllBackendsFailed is wrapped by the Fetcher when every backend in the
// escalation chain failed for a URL.
var ErrAllBackendsFailed = errors.New("all backends failed")

// KindOf extracts the classification from an error chain, defaulting to
// KindNetwork for unclassified failures.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindNetwork
}

// retryable reports whether a failure of this kind may succeed on a plain
// retry of the same backend. Blocks never do; escalation handles those.
func retryable(kind ErrorKind) bool {
	switch kind {
	case KindTimeout, KindNetwork, KindHTTP:
		return true
	default:
		return false
	}
}

// Observer receives fetch telemetry. The monitoring package provides the
// production implementation; a nil observer disables reporting.
type Observer interface {
	FetchAttempt(backend string)
	FetchSuccess(backend string, duration time.Duration)
	FetchFailure(backend string, kind ErrorKind)
}
