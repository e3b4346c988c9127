// internal/review/parse.go
package review

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ratingOutOfRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:out of|/)\s*5`)
	numberRe      = regexp.MustCompile(`(\d+(?:\.\d+)?)`)
	integerRe     = regexp.MustCompile(`(\d+)`)
)

// dateFormats are tried in order when coercing a raw date string to ISO.
var dateFormats = []string{
	"2006-01-02",
	"1/2/2006",
	"2/1/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02 15:04:05",
	"1/2/2006 15:04:05",
}

// ParseRating coerces free-form rating text ("4.5 out of 5 stars", "4/5",
// "7", a run of star glyphs) into a value in [0,5]. Unparseable text maps
// to 0, meaning unknown.
func ParseRating(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	if m := ratingOutOfRe.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return clampRating(v)
		}
	}

	if m := numberRe.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return clampRating(v)
		}
	}

	// Last resort: count star glyphs. The word "star" is not a rating.
	stars := strings.Count(text, "★") + strings.Count(text, "⭐")
	if stars > 0 {
		return clampRating(float64(stars))
	}

	return 0
}

// ParseVotes extracts helpful and total vote counts from text such as
// "12 of 20 people found this helpful". With a single integer ("12 people
// found this helpful") the total is unknown and reported as 0.
func ParseVotes(text string) (helpful, total int) {
	nums := integerRe.FindAllString(text, 2)
	if len(nums) == 0 {
		return 0, 0
	}
	if n, err := strconv.Atoi(nums[0]); err == nil && n > 0 {
		helpful = n
	}
	if len(nums) > 1 {
		// A total below the helpful count is noise, not a vote pair.
		if n, err := strconv.Atoi(nums[1]); err == nil && n >= helpful {
			total = n
		}
	}
	return helpful, total
}

// ParseDate tries a list of common date formats and returns an ISO 8601
// date string. When no format matches, the sanitized original is returned
// so the information is preserved; the current date is never substituted.
func ParseDate(text string) string {
	text = CollapseWhitespace(text)
	if text == "" {
		return ""
	}

	// Platform prefixes like "Reviewed in the United States on June 1, 2024".
	if idx := strings.LastIndex(text, " on "); idx != -1 {
		if t, ok := parseWithFormats(text[idx+4:]); ok {
			return t.Format("2006-01-02")
		}
	}

	if t, ok := parseWithFormats(text); ok {
		return t.Format("2006-01-02")
	}

	return text
}

func parseWithFormats(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CollapseWhitespace trims the string and folds internal whitespace runs
// into single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func clampRating(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}
