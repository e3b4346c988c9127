// internal/extract/extractor.go
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/reviewlens/reviewlens/internal/platform"
	"github.com/reviewlens/reviewlens/internal/review"
)

// DefaultMaxContainers caps how many review containers are processed per
// page when the profile does not set its own limit.
const DefaultMaxContainers = 50

// Extractor turns fetched HTML into raw review records. Strategies are
// tried in order of quality: profile selectors, learned selectors, and a
// regex scan as the degraded last resort. A later strategy runs only when
// the previous one produced zero records.
type Extractor struct {
	learner *PatternLearner
}

// NewExtractor creates an extractor sharing the given pattern learner.
func NewExtractor(learner *PatternLearner) *Extractor {
	return &Extractor{learner: learner}
}

// Extract produces raw review records from the page HTML. The returned
// strategy reports which stage produced the records; with no records at
// all it returns an empty slice and StrategySelector.
func (e *Extractor) Extract(html string, profile *platform.SiteProfile, pageURL string) ([]review.RawRecord, review.Strategy, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, review.StrategySelector, fmt.Errorf("parse HTML: %w", err)
	}

	records := e.extractWithSelectors(doc, profile, pageURL, review.StrategySelector)
	if len(records) > 0 {
		return records, review.StrategySelector, nil
	}

	// Learned patterns apply only where no curated profile matched.
	if profile.Generic() && e.learner != nil {
		if learned := e.learner.ProfileFor(html, pageURL); learned != nil {
			records = e.extractWithSelectors(doc, learned, pageURL, review.StrategyLearned)
			if len(records) > 0 {
				return records, review.StrategyLearned, nil
			}
		}
	}

	records = extractWithRegex(html, profile, pageURL)
	return records, review.StrategyRegex, nil
}

func (e *Extractor) extractWithSelectors(doc *goquery.Document, profile *platform.SiteProfile, pageURL string, strategy review.Strategy) []review.RawRecord {
	containers := findContainers(doc, profile.Container)
	if containers == nil {
		return nil
	}

	max := profile.MaxReviews
	if max <= 0 {
		max = DefaultMaxContainers
	}

	var records []review.RawRecord
	containers.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(records) >= max {
			return false
		}

		rec := review.RawRecord{
			ReviewerName: firstNonEmpty(s, profile.ReviewerName),
			RatingText:   ratingText(s, profile.Rating),
			Text:         firstNonEmpty(s, profile.Text),
			DateText:     dateText(s, profile.Date),
			VerifiedText: firstNonEmpty(s, profile.Verified),
			HelpfulText:  firstNonEmpty(s, profile.HelpfulVotes),
			Platform:     profile.Name,
			SourceURL:    pageURL,
			Strategy:     strategy,
		}

		// No meaningful content: drop before it ever becomes a record.
		if rec.Text == "" && review.ParseRating(rec.RatingText) == 0 {
			return true
		}

		records = append(records, rec)
		return true
	})

	return records
}

// findContainers tries each container selector candidate and returns the
// first selection with any matches.
func findContainers(doc *goquery.Document, candidates platform.FieldSelectors) *goquery.Selection {
	for _, selector := range candidates {
		sel := doc.Find(selector)
		if sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// firstNonEmpty tries each field selector candidate within a container and
// returns the first non-empty trimmed text.
func firstNonEmpty(container *goquery.Selection, candidates platform.FieldSelectors) string {
	for _, selector := range candidates {
		text := strings.TrimSpace(container.Find(selector).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// ratingText prefers aria-label over inner text because star widgets often
// render the numeric rating only in the accessibility label.
func ratingText(container *goquery.Selection, candidates platform.FieldSelectors) string {
	for _, selector := range candidates {
		node := container.Find(selector).First()
		if node.Length() == 0 {
			continue
		}
		if label, ok := node.Attr("aria-label"); ok && strings.TrimSpace(label) != "" {
			return strings.TrimSpace(label)
		}
		if text := strings.TrimSpace(node.Text()); text != "" {
			return text
		}
	}
	return ""
}

// dateText falls back to a datetime attribute when the element is a bare
// <time> tag with no text.
func dateText(container *goquery.Selection, candidates platform.FieldSelectors) string {
	for _, selector := range candidates {
		node := container.Find(selector).First()
		if node.Length() == 0 {
			continue
		}
		if text := strings.TrimSpace(node.Text()); text != "" {
			return text
		}
		if dt, ok := node.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
			return strings.TrimSpace(dt)
		}
	}
	return ""
}
