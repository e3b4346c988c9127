// internal/review/normalize_test.go
package review

import (
	"strings"
	"testing"
)

func TestNormalizeDropsEmptyRecords(t *testing.T) {
	n := NewNormalizer()

	records := []RawRecord{
		{Text: "", RatingText: ""},
		{Text: "", RatingText: "no stars here"},
		{Text: "Solid product", Platform: "amazon"},
		{Text: "", RatingText: "4 out of 5"},
	}

	reviews := n.Normalize(records)
	if len(reviews) != 2 {
		t.Fatalf("got %d reviews, want 2", len(reviews))
	}
	if reviews[0].Text != "Solid product" {
		t.Errorf("first review text = %q", reviews[0].Text)
	}
	// A rating alone is meaningful content.
	if reviews[1].Rating != 4 {
		t.Errorf("second review rating = %v, want 4", reviews[1].Rating)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	n := NewNormalizer()

	reviews := n.Normalize([]RawRecord{{Text: "Fine."}})
	if len(reviews) != 1 {
		t.Fatalf("got %d reviews, want 1", len(reviews))
	}

	r := reviews[0]
	if r.ReviewerName != "Anonymous" {
		t.Errorf("name = %q, want Anonymous", r.ReviewerName)
	}
	if r.Platform != "generic" {
		t.Errorf("platform = %q, want generic", r.Platform)
	}
	if r.VerifiedPurchase {
		t.Error("verified should default to false")
	}
	if r.ID == "" {
		t.Error("ID should be derived")
	}
}

func TestNormalizeDeduplicatesByTextPrefix(t *testing.T) {
	n := NewNormalizer()

	long := strings.Repeat("x", 150)
	records := []RawRecord{
		{ReviewerName: "A", Text: long + " first tail"},
		{ReviewerName: "B", Text: long + " second tail"},
		{ReviewerName: "C", Text: "a different review entirely"},
	}

	reviews := n.Normalize(records)
	if len(reviews) != 2 {
		t.Fatalf("got %d reviews, want 2 after dedup", len(reviews))
	}
	if reviews[0].ReviewerName != "A" {
		t.Errorf("first occurrence should win, got %q", reviews[0].ReviewerName)
	}
}

func TestNormalizeIdempotentIDs(t *testing.T) {
	n := NewNormalizer()

	rec := RawRecord{ReviewerName: "Sam", Text: "Works well", Platform: "target"}
	first := n.Normalize([]RawRecord{rec})
	second := n.Normalize([]RawRecord{rec})

	if first[0].ID != second[0].ID {
		t.Errorf("IDs differ across runs: %q vs %q", first[0].ID, second[0].ID)
	}
}

func TestNormalizeVerifiedAndVotes(t *testing.T) {
	n := NewNormalizer()

	reviews := n.Normalize([]RawRecord{
		{
			Text:         "Arrived quickly",
			VerifiedText: "Verified Purchase",
			HelpfulText:  "23 people found this helpful",
		},
		{
			Text:        "Good value overall",
			HelpfulText: "12 of 20 people found this helpful",
		},
	})

	r := reviews[0]
	if !r.VerifiedPurchase {
		t.Error("badge text should mark the review verified")
	}
	// A single count gives no total; it is never invented.
	if r.HelpfulVotes != 23 || r.TotalVotes != 0 {
		t.Errorf("votes = %d/%d, want 23/0", r.HelpfulVotes, r.TotalVotes)
	}

	r = reviews[1]
	if r.HelpfulVotes != 12 || r.TotalVotes != 20 {
		t.Errorf("votes = %d/%d, want 12/20", r.HelpfulVotes, r.TotalVotes)
	}
}

func TestNormalizeCapsTextLength(t *testing.T) {
	n := NewNormalizer()

	reviews := n.Normalize([]RawRecord{{Text: strings.Repeat("a", maxTextLen+500)}})
	if got := len(reviews[0].Text); got != maxTextLen {
		t.Errorf("text length = %d, want %d", got, maxTextLen)
	}
}
