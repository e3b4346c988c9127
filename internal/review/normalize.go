// internal/review/normalize.go
package review

import (
	"fmt"
	"hash/fnv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// dedupPrefixLen is the number of leading text characters used as the
// near-duplicate key. A cheap similarity proxy: it collapses templated
// boilerplate and the same review block returned by two strategies.
const dedupPrefixLen = 100

// maxTextLen caps stored review text.
const maxTextLen = 5000

// Normalizer converts raw extraction records into canonical Reviews and
// drops near-duplicates within a batch.
type Normalizer struct{}

// NewNormalizer creates a normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize maps raw records to Reviews, applying field coercion and the
// meaningful-content rule, then deduplicates. Input order is preserved for
// the surviving records; the first occurrence of a duplicate key wins.
func (n *Normalizer) Normalize(records []RawRecord) []Review {
	reviews := make([]Review, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for _, rec := range records {
		r, ok := n.normalizeOne(rec)
		if !ok {
			continue
		}

		key := dedupKey(r.Text)
		if _, dup := seen[key]; dup && key != "" {
			continue
		}
		seen[key] = struct{}{}
		reviews = append(reviews, r)
	}

	return reviews
}

func (n *Normalizer) normalizeOne(rec RawRecord) (Review, bool) {
	text := cleanText(rec.Text)
	rating := ParseRating(rec.RatingText)

	// A record with neither text nor a rating carries no information.
	if text == "" && rating == 0 {
		return Review{}, false
	}

	name := CollapseWhitespace(rec.ReviewerName)
	if name == "" {
		name = "Anonymous"
	}

	platform := rec.Platform
	if platform == "" {
		platform = "generic"
	}

	helpful, total := ParseVotes(rec.HelpfulText)

	return Review{
		ID:               reviewID(name, text, platform),
		ReviewerName:     name,
		Rating:           rating,
		Text:             text,
		Date:             ParseDate(rec.DateText),
		Platform:         platform,
		VerifiedPurchase: parseVerified(rec.VerifiedText),
		HelpfulVotes:     helpful,
		TotalVotes:       total,
		SourceURL:        rec.SourceURL,
		Strategy:         rec.Strategy,
	}, true
}

// reviewID derives a stable identifier from the fields that make a review
// the same review across repeated extractions of the same page.
func reviewID(name, text, platform string) string {
	prefix := text
	if len(prefix) > dedupPrefixLen {
		prefix = prefix[:dedupPrefixLen]
	}

	h := fnv.New64a()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(prefix))
	h.Write([]byte{0})
	h.Write([]byte(platform))
	return fmt.Sprintf("%016x", h.Sum64())
}

func dedupKey(text string) string {
	key := strings.ToLower(strings.TrimSpace(text))
	if len(key) > dedupPrefixLen {
		key = key[:dedupPrefixLen]
	}
	return key
}

func cleanText(s string) string {
	s = norm.NFC.String(s)
	s = CollapseWhitespace(s)
	if len(s) > maxTextLen {
		s = s[:maxTextLen]
	}
	return s
}

func parseVerified(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "false" || s == "no" || s == "0" {
		return false
	}
	// Any verified-badge text counts: "Verified Purchase", "Verified Buyer".
	return true
}
