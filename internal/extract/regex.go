// internal/extract/regex.go
package extract

import (
	"fmt"
	"regexp"

	"github.com/reviewlens/reviewlens/internal/platform"
	"github.com/reviewlens/reviewlens/internal/review"
)

// minBlockLen is the minimum cleaned length for a regex-captured block to
// count as review text. Shorter blocks are navigation chrome and labels.
const minBlockLen = 50

// blockPatterns capture whole elements plausibly containing a review when
// structural parsing found nothing. Ordered from most to least specific.
var blockPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<div[^>]*class="[^"]*review[^"]*"[^>]*>(.*?)</div>`),
	regexp.MustCompile(`(?is)<li[^>]*class="[^"]*review[^"]*"[^>]*>(.*?)</li>`),
	regexp.MustCompile(`(?is)<article[^>]*>(.*?)</article>`),
}

var tagRe = regexp.MustCompile(`<[^>]+>`)

// extractWithRegex is the last-resort strategy: scan raw HTML for review
// shaped blocks and keep their cleaned text. Ratings, votes and verified
// flags cannot be located reliably this way, so they are left at their
// unknown defaults rather than synthesized.
func extractWithRegex(html string, profile *platform.SiteProfile, pageURL string) []review.RawRecord {
	max := profile.MaxReviews
	if max <= 0 {
		max = DefaultMaxContainers
	}

	var records []review.RawRecord
	seen := make(map[string]struct{})

	for _, pattern := range blockPatterns {
		for _, m := range pattern.FindAllStringSubmatch(html, max) {
			text := review.CollapseWhitespace(tagRe.ReplaceAllString(m[1], " "))
			if len(text) < minBlockLen {
				continue
			}
			if _, dup := seen[text]; dup {
				continue
			}
			seen[text] = struct{}{}

			records = append(records, review.RawRecord{
				ReviewerName: fmt.Sprintf("User_%d", len(records)+1),
				Text:         text,
				Platform:     profile.Name,
				SourceURL:    pageURL,
				Strategy:     review.StrategyRegex,
			})
			if len(records) >= max {
				return records
			}
		}
		if len(records) > 0 {
			break
		}
	}

	return records
}
