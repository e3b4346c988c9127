// internal/analyzer/filter_test.go
package analyzer

import (
	"testing"

	"github.com/reviewlens/reviewlens/internal/review"
)

func TestFilterValidate(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		wantErr bool
	}{
		{"zero value", Filter{}, false},
		{"valid range", Filter{MinRating: 2, MaxRating: 5}, false},
		{"min above max", Filter{MinRating: 4, MaxRating: 2}, true},
		{"min out of range", Filter{MinRating: 6}, true},
		{"max out of range", Filter{MaxRating: -1}, true},
		{"bad sentiment", Filter{Sentiment: "ecstatic"}, true},
		{"good sentiment", Filter{Sentiment: SentimentNegative}, false},
		{"negative limit", Filter{Limit: -1}, true},
		{"good sort", Filter{SortBy: SortByDate}, false},
		{"unknown sort", Filter{SortBy: "helpfulness"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func sampleReviews() []review.Review {
	return []review.Review{
		{ID: "a", Rating: 5, Text: "Excellent quality, easy assembly.", Date: "2024-05-01"},
		{ID: "b", Rating: 2, Text: "Terrible value, broken within a week.", Date: "2024-06-01"},
		{ID: "c", Rating: 4, Text: "Comfortable and sturdy.", Date: "2024-04-01"},
		{ID: "d", Rating: 4, Text: "Decent but the delivery was slow.", Date: "2024-07-01"},
	}
}

func TestFilterApplyAnnotates(t *testing.T) {
	f := Filter{}
	out := f.Apply(sampleReviews())

	if len(out) != 4 {
		t.Fatalf("got %d reviews, want 4", len(out))
	}
	for _, r := range out {
		if r.Sentiment == "" {
			t.Errorf("review %s not annotated with sentiment", r.ID)
		}
	}
}

func TestFilterApplyRatingBand(t *testing.T) {
	f := Filter{MinRating: 4, MaxRating: 5}
	out := f.Apply(sampleReviews())

	if len(out) != 3 {
		t.Fatalf("got %d reviews, want 3", len(out))
	}
	for _, r := range out {
		if r.Rating < 4 {
			t.Errorf("review %s rating %v below band", r.ID, r.Rating)
		}
	}
}

func TestFilterApplySentimentAndCategory(t *testing.T) {
	neg := Filter{Sentiment: SentimentNegative}
	out := neg.Apply(sampleReviews())
	if len(out) != 1 || out[0].ID != "b" {
		t.Fatalf("negative filter = %v", ids(out))
	}

	cat := Filter{Categories: []string{"assembly"}}
	out = cat.Apply(sampleReviews())
	if len(out) != 1 || out[0].ID != "a" {
		t.Fatalf("assembly filter = %v", ids(out))
	}
}

func TestFilterApplyKeywordsExcludeIrrelevant(t *testing.T) {
	f := Filter{Keywords: []string{"delivery"}}
	out := f.Apply(sampleReviews())

	if len(out) != 1 || out[0].ID != "d" {
		t.Fatalf("keyword filter = %v", ids(out))
	}
	if out[0].KeywordRelevance <= minRelevance {
		t.Errorf("surviving review relevance = %v", out[0].KeywordRelevance)
	}
}

func TestFilterApplyNoOpPreservesOrder(t *testing.T) {
	// A zero-value filter annotates but must not reorder or drop anything.
	f := Filter{}
	out := f.Apply(sampleReviews())

	want := []string{"a", "b", "c", "d"}
	got := ids(out)
	if len(got) != len(want) {
		t.Fatalf("got %d reviews, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want input order %v", got, want)
		}
	}
}

func TestFilterApplySortOrders(t *testing.T) {
	tests := []struct {
		sortBy string
		want   []string
	}{
		// Equal ratings (c, d) keep extraction order.
		{SortByRating, []string{"a", "c", "d", "b"}},
		{SortByDate, []string{"d", "b", "a", "c"}},
		{SortByLength, []string{"b", "a", "d", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			f := Filter{SortBy: tt.sortBy}
			out := f.Apply(sampleReviews())
			got := ids(out)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("order = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestFilterApplySortByDatePutsUnparseableLast(t *testing.T) {
	reviews := append(sampleReviews(), review.Review{ID: "e", Rating: 5, Text: "Still great.", Date: "two weeks ago"})

	f := Filter{SortBy: SortByDate}
	out := f.Apply(reviews)
	if out[len(out)-1].ID != "e" {
		t.Errorf("non-ISO date should sort last, got %v", ids(out))
	}
}

func TestFilterApplySortByRelevance(t *testing.T) {
	f := Filter{SortBy: SortByRelevance, Keywords: []string{"delivery", "value"}}
	out := f.Apply(sampleReviews())

	// b matches "value", d matches "delivery"; equal scores keep input order.
	want := []string{"b", "d"}
	got := ids(out)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestFilterApplyLimit(t *testing.T) {
	f := Filter{SortBy: SortByRating, Limit: 2}
	out := f.Apply(sampleReviews())
	if len(out) != 2 {
		t.Fatalf("got %d reviews, want 2", len(out))
	}
	if out[0].ID != "a" {
		t.Errorf("best review should survive the limit, got %v", ids(out))
	}
}

func TestSummarize(t *testing.T) {
	reviews := []review.Review{
		{Rating: 4.5, Sentiment: SentimentPositive, Categories: []string{"quality"}, VerifiedPurchase: true, Platform: "amazon"},
		{Rating: 4.0, Sentiment: SentimentPositive, Categories: []string{"quality", "value"}, Platform: "amazon"},
		{Rating: 2.4, Sentiment: SentimentNegative, Platform: "walmart"},
		{Rating: 0, Sentiment: SentimentNeutral, Platform: "walmart"},
	}

	ins := Summarize(reviews)

	if ins.TotalReviews != 4 {
		t.Errorf("total = %d, want 4", ins.TotalReviews)
	}
	// The unrated review is excluded from the average.
	wantAvg := (4.5 + 4.0 + 2.4) / 3
	if diff := ins.AverageRating - wantAvg; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("average = %v, want %v", ins.AverageRating, wantAvg)
	}
	if ins.RatingDistribution["5_star"] != 1 {
		t.Errorf("4.5 should bucket as 5_star: %v", ins.RatingDistribution)
	}
	if ins.RatingDistribution["4_star"] != 1 || ins.RatingDistribution["2_star"] != 1 {
		t.Errorf("distribution = %v", ins.RatingDistribution)
	}
	if ins.SentimentCounts[SentimentPositive] != 2 || ins.SentimentCounts[SentimentNegative] != 1 {
		t.Errorf("sentiment counts = %v", ins.SentimentCounts)
	}
	if ins.CategoryCounts["quality"] != 2 || ins.CategoryCounts["value"] != 1 {
		t.Errorf("category counts = %v", ins.CategoryCounts)
	}
	if len(ins.TopCategories) != 2 || ins.TopCategories[0] != "quality" {
		t.Errorf("top categories = %v", ins.TopCategories)
	}
	if ins.VerifiedCount != 1 {
		t.Errorf("verified = %d, want 1", ins.VerifiedCount)
	}
	if ins.Platforms["amazon"] != 2 || ins.Platforms["walmart"] != 2 {
		t.Errorf("platforms = %v", ins.Platforms)
	}
}

func ids(reviews []review.Review) []string {
	out := make([]string, len(reviews))
	for i, r := range reviews {
		out[i] = r.ID
	}
	return out
}
