// internal/analyzer/filter.go
package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reviewlens/reviewlens/internal/review"
)

// Sort orders selectable through Filter.SortBy.
const (
	SortByRelevance = "relevance"
	SortByRating    = "rating"
	SortByDate      = "date"
	SortByLength    = "length"
)

// Filter narrows and orders a review set. The zero value passes everything
// through unchanged apart from annotation: the default relevance order with
// no keywords keeps the input order.
type Filter struct {
	MinRating  float64  `json:"min_rating" yaml:"min_rating"`
	MaxRating  float64  `json:"max_rating" yaml:"max_rating"`
	Sentiment  string   `json:"sentiment" yaml:"sentiment"`
	Categories []string `json:"categories" yaml:"categories"`
	Keywords   []string `json:"keywords" yaml:"keywords"`
	SortBy     string   `json:"sort_by" yaml:"sort_by"`
	Limit      int      `json:"limit" yaml:"limit"`
}

// Validate rejects contradictory or out-of-range filter settings before any
// scraping work is spent on them.
func (f *Filter) Validate() error {
	if f.MinRating < 0 || f.MinRating > 5 {
		return fmt.Errorf("min_rating %.1f outside [0,5]", f.MinRating)
	}
	if f.MaxRating < 0 || f.MaxRating > 5 {
		return fmt.Errorf("max_rating %.1f outside [0,5]", f.MaxRating)
	}
	if f.MaxRating > 0 && f.MinRating > f.MaxRating {
		return fmt.Errorf("min_rating %.1f exceeds max_rating %.1f", f.MinRating, f.MaxRating)
	}
	if f.Sentiment != "" {
		switch f.Sentiment {
		case SentimentPositive, SentimentNegative, SentimentNeutral:
		default:
			return fmt.Errorf("unknown sentiment %q", f.Sentiment)
		}
	}
	if f.SortBy != "" {
		switch f.SortBy {
		case SortByRelevance, SortByRating, SortByDate, SortByLength:
		default:
			return fmt.Errorf("unknown sort order %q", f.SortBy)
		}
	}
	if f.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	return nil
}

// minRelevance is the floor under which a review is considered unrelated to
// the requested keywords and excluded.
const minRelevance = 0.1

// Apply annotates every review with sentiment, categories and keyword
// relevance, drops the ones the filter excludes, and orders the remainder
// best-first. The input slice is not modified.
func (f *Filter) Apply(reviews []review.Review) []review.Review {
	out := make([]review.Review, 0, len(reviews))

	for _, r := range reviews {
		r.Sentiment = AnalyzeSentiment(r.Text)
		r.Categories = Categorize(r.Text)
		r.KeywordRelevance = KeywordRelevance(r.Text, f.Keywords)

		if !f.matches(r) {
			continue
		}
		out = append(out, r)
	}

	f.sortReviews(out)

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func (f *Filter) matches(r review.Review) bool {
	if f.MinRating > 0 && r.Rating < f.MinRating {
		return false
	}
	if f.MaxRating > 0 && r.Rating > f.MaxRating {
		return false
	}
	if f.Sentiment != "" && r.Sentiment != f.Sentiment {
		return false
	}
	if len(f.Categories) > 0 && !hasAnyCategory(r.Categories, f.Categories) {
		return false
	}
	if len(f.Keywords) > 0 && r.KeywordRelevance <= minRelevance {
		return false
	}
	return true
}

func hasAnyCategory(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

// sortReviews orders reviews best-first by the selected key. The sort is
// stable, so ties keep their extraction order; the default relevance order
// without keywords leaves the input untouched.
func (f *Filter) sortReviews(reviews []review.Review) {
	var less func(a, b review.Review) bool

	switch f.SortBy {
	case SortByRating:
		less = func(a, b review.Review) bool { return a.Rating > b.Rating }
	case SortByDate:
		less = func(a, b review.Review) bool {
			// ISO dates compare lexicographically; non-ISO sorts last.
			ad, bd := isoDate(a.Date), isoDate(b.Date)
			if ad == "" {
				return false
			}
			if bd == "" {
				return true
			}
			return ad > bd
		}
	case SortByLength:
		less = func(a, b review.Review) bool { return len(a.Text) > len(b.Text) }
	default:
		less = func(a, b review.Review) bool { return a.KeywordRelevance > b.KeywordRelevance }
	}

	sort.SliceStable(reviews, func(i, j int) bool {
		return less(reviews[i], reviews[j])
	})
}

// isoDate returns the date when it is in ISO YYYY-MM-DD form, else "".
func isoDate(date string) string {
	if len(date) == 10 && date[4] == '-' && date[7] == '-' {
		return date
	}
	return ""
}

// Insights summarizes a filtered review set.
type Insights struct {
	TotalReviews       int            `json:"total_reviews"`
	AverageRating      float64        `json:"average_rating"`
	RatingDistribution map[string]int `json:"rating_distribution"`
	SentimentCounts    map[string]int `json:"sentiment_counts"`
	CategoryCounts     map[string]int `json:"category_counts"`
	TopCategories      []string       `json:"top_categories,omitempty"`
	VerifiedCount      int            `json:"verified_count"`
	Platforms          map[string]int `json:"platforms"`
}

// Summarize computes aggregate insights over reviews that already carry
// sentiment and category annotations. Reviews without a rating are counted
// but excluded from the average and the distribution.
func Summarize(reviews []review.Review) Insights {
	ins := Insights{
		TotalReviews:       len(reviews),
		RatingDistribution: map[string]int{"5_star": 0, "4_star": 0, "3_star": 0, "2_star": 0, "1_star": 0},
		SentimentCounts:    map[string]int{SentimentPositive: 0, SentimentNegative: 0, SentimentNeutral: 0},
		CategoryCounts:     make(map[string]int),
		Platforms:          make(map[string]int),
	}

	rated := 0
	sum := 0.0
	for _, r := range reviews {
		if r.Rating > 0 {
			sum += r.Rating
			rated++
			ins.RatingDistribution[ratingBucket(r.Rating)]++
		}
		if r.Sentiment != "" {
			ins.SentimentCounts[r.Sentiment]++
		}
		for _, c := range r.Categories {
			ins.CategoryCounts[c]++
		}
		if r.VerifiedPurchase {
			ins.VerifiedCount++
		}
		if r.Platform != "" {
			ins.Platforms[r.Platform]++
		}
	}

	if rated > 0 {
		ins.AverageRating = sum / float64(rated)
	}
	ins.TopCategories = topCategories(ins.CategoryCounts, 5)
	return ins
}

// topCategories returns the n most frequent categories, most frequent
// first, with ties broken alphabetically so output is stable.
func topCategories(counts map[string]int, n int) []string {
	if len(counts) == 0 {
		return nil
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	if len(names) > n {
		names = names[:n]
	}
	return names
}

// ratingBucket maps a rating to its star bucket; boundaries round half up
// so 4.5 counts as five stars.
func ratingBucket(rating float64) string {
	switch {
	case rating >= 4.5:
		return "5_star"
	case rating >= 3.5:
		return "4_star"
	case rating >= 2.5:
		return "3_star"
	case rating >= 1.5:
		return "2_star"
	default:
		return "1_star"
	}
}
