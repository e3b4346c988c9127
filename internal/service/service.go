// internal/service/service.go

// Package service orchestrates the pipeline: resolve the site profile,
// fetch the page, extract and normalize reviews, annotate and filter them,
// and hand the result to the configured outputs.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reviewlens/reviewlens/internal/analyzer"
	"github.com/reviewlens/reviewlens/internal/extract"
	"github.com/reviewlens/reviewlens/internal/monitoring"
	"github.com/reviewlens/reviewlens/internal/output"
	"github.com/reviewlens/reviewlens/internal/platform"
	"github.com/reviewlens/reviewlens/internal/review"
	"github.com/reviewlens/reviewlens/internal/scraper"
	"github.com/reviewlens/reviewlens/internal/utils"
)

// DefaultConcurrency bounds how many platforms a product scrape works on
// at once.
const DefaultConcurrency = 4

// URLRequest asks for the reviews on one page.
type URLRequest struct {
	URL    string          `json:"url"`
	Filter analyzer.Filter `json:"filter"`
}

// ProductRequest asks for a product's reviews across several platforms.
// An empty Platforms list means every searchable platform.
type ProductRequest struct {
	Product   string          `json:"product"`
	Platforms []string        `json:"platforms"`
	Filter    analyzer.Filter `json:"filter"`
}

// Result is the outcome of one scrape job.
type Result struct {
	JobID     string            `json:"job_id"`
	Product   string            `json:"product,omitempty"`
	URL       string            `json:"url,omitempty"`
	Success   bool              `json:"success"`
	Strategy  string            `json:"strategy,omitempty"`
	Reviews   []review.Review   `json:"reviews"`
	Insights  analyzer.Insights `json:"insights"`
	Errors    map[string]string `json:"errors,omitempty"`
	Duration  time.Duration     `json:"duration"`
	ScrapedAt time.Time         `json:"scraped_at"`
}

// Service wires the pipeline stages together.
type Service struct {
	registry    *platform.Registry
	fetcher     *scraper.Fetcher
	extractor   *extract.Extractor
	normalizer  *review.Normalizer
	outputs     *output.Manager
	metrics     *monitoring.Metrics
	logger      utils.Logger
	concurrency int
}

// Options configures optional service collaborators.
type Options struct {
	Outputs     *output.Manager
	Metrics     *monitoring.Metrics
	Logger      utils.Logger
	Concurrency int
}

// New creates the service. Registry, fetcher and extractor are required.
func New(registry *platform.Registry, fetcher *scraper.Fetcher, extractor *extract.Extractor, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewLogger()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	return &Service{
		registry:    registry,
		fetcher:     fetcher,
		extractor:   extractor,
		normalizer:  review.NewNormalizer(),
		outputs:     opts.Outputs,
		metrics:     opts.Metrics,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Platforms lists the registered site profiles.
func (s *Service) Platforms() []*platform.SiteProfile {
	return s.registry.Platforms()
}

// ScrapeURL runs the pipeline for a single page.
func (s *Service) ScrapeURL(ctx context.Context, req URLRequest) (*Result, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	if err := req.Filter.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	jobID := uuid.New().String()
	start := time.Now()
	s.jobStarted()

	log := s.logger.WithFields(map[string]interface{}{"job_id": jobID, "url": req.URL})
	log.Info("scraping URL")

	reviews, strategy, err := s.scrapePage(ctx, req.URL)
	if err != nil {
		s.jobFinished("failed", start)
		log.Errorf("scrape failed: %v", err)
		return nil, err
	}

	filtered := req.Filter.Apply(reviews)
	result := &Result{
		JobID:     jobID,
		URL:       req.URL,
		Success:   true,
		Strategy:  string(strategy),
		Reviews:   filtered,
		Insights:  analyzer.Summarize(filtered),
		Duration:  time.Since(start),
		ScrapedAt: start.UTC(),
	}

	s.persist(ctx, result)
	s.jobFinished("succeeded", start)
	log.Infof("scraped %d reviews (%d after filters)", len(reviews), len(filtered))
	return result, nil
}

// ScrapeProduct searches for a product on several platforms in parallel and
// merges the reviews in completion order. The job succeeds when at least
// one platform yields reviews; per-platform failures are reported alongside.
func (s *Service) ScrapeProduct(ctx context.Context, req ProductRequest) (*Result, error) {
	if req.Product == "" {
		return nil, fmt.Errorf("product is required")
	}
	if err := req.Filter.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	profiles, err := s.resolvePlatforms(req.Platforms)
	if err != nil {
		return nil, err
	}

	jobID := uuid.New().String()
	start := time.Now()
	s.jobStarted()

	log := s.logger.WithFields(map[string]interface{}{"job_id": jobID, "product": req.Product})
	log.Infof("scraping %d platforms", len(profiles))

	type platformResult struct {
		name    string
		reviews []review.Review
		err     error
	}

	sem := make(chan struct{}, s.concurrency)
	results := make(chan platformResult, len(profiles))
	var wg sync.WaitGroup

	for _, p := range profiles {
		wg.Add(1)
		go func(p *platform.SiteProfile) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			searchURL := platform.SearchURLFor(p, req.Product)
			reviews, _, err := s.scrapePage(ctx, searchURL)
			results <- platformResult{name: p.Name, reviews: reviews, err: err}
		}(p)
	}

	wg.Wait()
	close(results)

	var merged []review.Review
	errs := make(map[string]string)
	for res := range results {
		if res.err != nil {
			errs[res.name] = res.err.Error()
			log.WithField("platform", res.name).Warnf("platform failed: %v", res.err)
			continue
		}
		merged = append(merged, res.reviews...)
	}

	filtered := req.Filter.Apply(merged)
	result := &Result{
		JobID:     jobID,
		Product:   req.Product,
		Success:   len(merged) > 0,
		Reviews:   filtered,
		Insights:  analyzer.Summarize(filtered),
		Errors:    errs,
		Duration:  time.Since(start),
		ScrapedAt: start.UTC(),
	}
	if len(errs) == 0 {
		result.Errors = nil
	}

	status := "succeeded"
	if !result.Success {
		status = "failed"
	}
	s.persist(ctx, result)
	s.jobFinished(status, start)
	log.Infof("merged %d reviews from %d platforms (%d after filters)", len(merged), len(profiles)-len(errs), len(filtered))
	return result, nil
}

// resolvePlatforms maps requested platform names to searchable profiles,
// defaulting to every searchable platform when none are named.
func (s *Service) resolvePlatforms(names []string) ([]*platform.SiteProfile, error) {
	if len(names) == 0 {
		profiles := s.registry.Searchable()
		if len(profiles) == 0 {
			return nil, fmt.Errorf("no searchable platforms configured")
		}
		return profiles, nil
	}

	profiles := make([]*platform.SiteProfile, 0, len(names))
	for _, name := range names {
		p := s.registry.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("unknown platform %q", name)
		}
		if p.SearchURL == "" {
			return nil, fmt.Errorf("platform %q has no product search endpoint", name)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// scrapePage runs fetch, extract and normalize for one URL.
func (s *Service) scrapePage(ctx context.Context, targetURL string) ([]review.Review, review.Strategy, error) {
	profile, err := s.registry.Lookup(targetURL)
	if err != nil {
		return nil, "", err
	}

	page, err := s.fetcher.Fetch(ctx, targetURL, profile)
	if err != nil {
		return nil, "", err
	}

	records, strategy, err := s.extractor.Extract(page.HTML, profile, page.FinalURL)
	if err != nil {
		return nil, strategy, err
	}

	reviews := s.normalizer.Normalize(records)
	if s.metrics != nil {
		s.metrics.ReviewsExtracted(string(strategy), len(reviews))
		if dropped := len(records) - len(reviews); dropped > 0 {
			s.metrics.ReviewsDropped(dropped)
		}
	}
	return reviews, strategy, nil
}

// persist writes the result to the configured outputs. Output failures are
// logged but never fail the job; the caller already has the reviews.
func (s *Service) persist(ctx context.Context, result *Result) {
	if s.outputs == nil || s.outputs.Writers() == 0 {
		return
	}

	doc := &output.Document{
		JobID:     result.JobID,
		Product:   result.Product,
		SourceURL: result.URL,
		ScrapedAt: result.ScrapedAt,
		Reviews:   result.Reviews,
		Insights:  result.Insights,
	}
	if err := s.outputs.Write(ctx, doc); err != nil {
		s.logger.WithField("job_id", result.JobID).Errorf("persist result: %v", err)
	}
}

func (s *Service) jobStarted() {
	if s.metrics != nil {
		s.metrics.JobStarted()
	}
}

func (s *Service) jobFinished(status string, start time.Time) {
	if s.metrics != nil {
		s.metrics.JobFinished(status, time.Since(start))
	}
}
