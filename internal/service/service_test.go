// internal/service/service_test.go
package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/reviewlens/reviewlens/internal/analyzer"
	"github.com/reviewlens/reviewlens/internal/extract"
	"github.com/reviewlens/reviewlens/internal/platform"
	"github.com/reviewlens/reviewlens/internal/scraper"
)

// pageBackend serves canned HTML by URL substring and fails everything
// else.
type pageBackend struct {
	name  string
	pages map[string]string
}

func (b *pageBackend) Name() string { return b.name }

func (b *pageBackend) Fetch(ctx context.Context, targetURL string, profile *platform.SiteProfile) (*scraper.FetchResult, error) {
	for key, html := range b.pages {
		if strings.Contains(targetURL, key) {
			return &scraper.FetchResult{HTML: html, FinalURL: targetURL, Backend: b.name}, nil
		}
	}
	return nil, &scraper.FetchError{URL: targetURL, Backend: b.name, Kind: scraper.KindBlocked}
}

func reviewPage(entries ...[2]string) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for _, e := range entries {
		fmt.Fprintf(&sb,
			`<div class="review"><span class="author">%s</span><span class="rating">5 out of 5</span><p class="body">%s</p></div>`,
			e[0], e[1])
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

func testRegistry(t *testing.T) *platform.Registry {
	t.Helper()
	r := platform.NewRegistry()
	for _, name := range []string{"alpha", "beta"} {
		err := r.Register(&platform.SiteProfile{
			Name:         name,
			Domain:       name + ".example",
			Container:    platform.FieldSelectors{".review"},
			ReviewerName: platform.FieldSelectors{".author"},
			Rating:       platform.FieldSelectors{".rating"},
			Text:         platform.FieldSelectors{".body"},
			SearchURL:    "https://" + name + ".example/s?q=%s",
		})
		if err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	return r
}

func testService(t *testing.T, pages map[string]string) *Service {
	t.Helper()

	backend := &pageBackend{name: scraper.BackendHTTP, pages: pages}
	fetcher := scraper.NewFetcher(
		backend,
		&pageBackend{name: scraper.BackendStealth, pages: pages},
		scraper.NewHostLimiter(time.Nanosecond),
		scraper.WithRetryBase(time.Millisecond),
	)

	return New(testRegistry(t), fetcher, extract.NewExtractor(extract.NewPatternLearner()), Options{})
}

func TestScrapeURL(t *testing.T) {
	svc := testService(t, map[string]string{
		"alpha.example": reviewPage(
			[2]string{"Ann", "Excellent quality and easy assembly, would recommend."},
			[2]string{"Ben", "Sturdy frame and the finish looks great in person."},
		),
	})

	result, err := svc.ScrapeURL(context.Background(), URLRequest{URL: "https://alpha.example/p/1"})
	if err != nil {
		t.Fatalf("ScrapeURL: %v", err)
	}

	if !result.Success {
		t.Error("expected success")
	}
	if result.JobID == "" {
		t.Error("expected a job ID")
	}
	if len(result.Reviews) != 2 {
		t.Fatalf("got %d reviews, want 2", len(result.Reviews))
	}
	if result.Strategy != "selector" {
		t.Errorf("strategy = %q", result.Strategy)
	}
	if result.Insights.TotalReviews != 2 {
		t.Errorf("insights total = %d", result.Insights.TotalReviews)
	}
}

func TestScrapeURLValidation(t *testing.T) {
	svc := testService(t, nil)

	if _, err := svc.ScrapeURL(context.Background(), URLRequest{}); err == nil {
		t.Error("empty URL must be rejected")
	}

	_, err := svc.ScrapeURL(context.Background(), URLRequest{
		URL:    "https://alpha.example/p/1",
		Filter: analyzer.Filter{MinRating: 5, MaxRating: 1},
	})
	if err == nil || !strings.Contains(err.Error(), "invalid filter") {
		t.Errorf("err = %v, want invalid filter", err)
	}
}

func TestScrapeProductMergesPlatforms(t *testing.T) {
	svc := testService(t, map[string]string{
		"alpha.example": reviewPage([2]string{"Ann", "Comfortable chair with great lumbar support for long days."}),
		"beta.example":  reviewPage([2]string{"Bea", "Decent build but the delivery took nearly three weeks."}),
	})

	result, err := svc.ScrapeProduct(context.Background(), ProductRequest{Product: "office chair"})
	if err != nil {
		t.Fatalf("ScrapeProduct: %v", err)
	}
	if !result.Success {
		t.Error("expected success")
	}
	if len(result.Reviews) != 2 {
		t.Fatalf("got %d reviews, want 2", len(result.Reviews))
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected platform errors: %v", result.Errors)
	}
}

func TestScrapeProductPartialFailure(t *testing.T) {
	// Only alpha serves pages; beta's fetch is blocked on every backend.
	svc := testService(t, map[string]string{
		"alpha.example": reviewPage([2]string{"Ann", "Holding up well after two months of daily use."}),
	})

	result, err := svc.ScrapeProduct(context.Background(), ProductRequest{Product: "office chair"})
	if err != nil {
		t.Fatalf("ScrapeProduct: %v", err)
	}

	if !result.Success {
		t.Error("one working platform should make the job a success")
	}
	if len(result.Reviews) != 1 {
		t.Errorf("got %d reviews, want 1", len(result.Reviews))
	}
	if _, ok := result.Errors["beta"]; !ok {
		t.Errorf("expected beta failure to be reported, got %v", result.Errors)
	}
}

func TestScrapeProductAllPlatformsFail(t *testing.T) {
	svc := testService(t, nil)

	result, err := svc.ScrapeProduct(context.Background(), ProductRequest{Product: "office chair"})
	if err != nil {
		t.Fatalf("ScrapeProduct: %v", err)
	}
	if result.Success {
		t.Error("no reviews from any platform must not be a success")
	}
	if len(result.Errors) != 2 {
		t.Errorf("errors = %v, want both platforms", result.Errors)
	}
}

func TestScrapeProductUnknownPlatform(t *testing.T) {
	svc := testService(t, nil)

	_, err := svc.ScrapeProduct(context.Background(), ProductRequest{
		Product:   "office chair",
		Platforms: []string{"nonesuch"},
	})
	if err == nil || !strings.Contains(err.Error(), "unknown platform") {
		t.Errorf("err = %v, want unknown platform", err)
	}
}

func TestPlatforms(t *testing.T) {
	svc := testService(t, nil)

	platforms := svc.Platforms()
	if len(platforms) != 2 {
		t.Fatalf("got %d platforms, want 2", len(platforms))
	}
}
