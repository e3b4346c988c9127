// internal/analyzer/analyzer.go

// Package analyzer classifies and filters normalized reviews. All
// classification is deterministic lexicon matching; there is no model and
// no external service involved.
package analyzer

import (
	"regexp"
	"strings"
)

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

var wordRe = regexp.MustCompile(`\b\w+\b`)

// positiveWords and negativeWords are the fixed sentiment lexicons. A word
// appears in at most one set; "cheap" and "flimsy" read as complaints in
// review text, so they sit on the negative side.
var positiveWords = map[string]struct{}{
	"excellent": {}, "amazing": {}, "great": {}, "love": {}, "perfect": {},
	"awesome": {}, "fantastic": {}, "wonderful": {}, "brilliant": {},
	"outstanding": {}, "superb": {}, "recommend": {}, "happy": {},
	"satisfied": {}, "pleased": {}, "impressed": {},
}

var negativeWords = map[string]struct{}{
	"terrible": {}, "awful": {}, "hate": {}, "horrible": {}, "worst": {},
	"bad": {}, "disappointed": {}, "poor": {}, "useless": {}, "waste": {},
	"regret": {}, "broken": {}, "defective": {}, "faulty": {}, "cheap": {},
	"flimsy": {},
}

// categoryKeywords maps each fixed category to the phrases that signal it.
// A review matches a category when any phrase occurs in its text.
var categoryKeywords = map[string][]string{
	"assembly": {
		"assembly", "assemble", "put together", "setup", "installation",
		"install", "build", "construction", "instructions", "manual",
	},
	"quality": {
		"quality", "build quality", "material", "sturdy", "durable",
		"solid", "cheap", "flimsy", "well made", "craftsmanship",
	},
	"value": {
		"value", "price", "worth", "expensive", "cheap", "affordable",
		"money", "cost", "budget", "overpriced", "good deal",
	},
	"size": {
		"size", "big", "small", "large", "compact", "spacious",
		"dimensions", "fit", "space", "tiny", "huge",
	},
	"comfort": {
		"comfort", "comfortable", "ergonomic", "soft", "firm",
		"cushion", "support", "padding", "cozy", "uncomfortable",
	},
	"delivery": {
		"delivery", "shipping", "arrived", "package", "packaging",
		"damaged", "delivered", "received", "shipping time",
	},
	"customer_service": {
		"customer service", "support", "help", "response", "staff",
		"representative", "helpful", "rude", "friendly", "contact",
	},
	"durability": {
		"durability", "durable", "lasting", "wear", "tear",
		"broke", "broken", "reliable", "falls apart", "stopped working",
	},
	"performance": {
		"performance", "works", "working", "function", "functionality",
		"efficient", "effective", "fast", "slow", "responsive",
	},
	"design": {
		"design", "style", "appearance", "look", "looks", "attractive",
		"beautiful", "ugly", "sleek", "modern", "stylish",
	},
	"features": {
		"features", "feature", "options", "capabilities",
		"feature rich", "basic features", "advanced features",
	},
}

// Categories returns the fixed category names in a stable order.
func Categories() []string {
	return []string{
		"assembly", "quality", "value", "size", "comfort", "delivery",
		"customer_service", "durability", "performance", "design", "features",
	}
}

// AnalyzeSentiment classifies text by intersecting its word set with the
// positive and negative lexicons; the larger intersection wins, a tie is
// neutral.
func AnalyzeSentiment(text string) string {
	if text == "" {
		return SentimentNeutral
	}

	words := wordRe.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}

	positives, negatives := 0, 0
	for w := range set {
		if _, ok := positiveWords[w]; ok {
			positives++
		}
		if _, ok := negativeWords[w]; ok {
			negatives++
		}
	}

	switch {
	case positives > negatives:
		return SentimentPositive
	case negatives > positives:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Categorize returns every category whose keyword list matches the text.
// A review may match zero or many categories.
func Categorize(text string) []string {
	if text == "" {
		return nil
	}

	lower := strings.ToLower(text)
	var matched []string
	for _, category := range Categories() {
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(lower, keyword) {
				matched = append(matched, category)
				break
			}
		}
	}
	return matched
}

// KeywordRelevance scores how relevant text is to the given keywords.
// Whole-word matches weigh 2, substring-only matches weigh 1; the sum is
// normalized by twice the keyword count and clamped to [0,1]. Adding a
// keyword that occurs in the text can only raise or keep the raw match
// total, never lower it.
func KeywordRelevance(text string, keywords []string) float64 {
	if text == "" || len(keywords) == 0 {
		return 0
	}

	lower := strings.ToLower(text)
	total := 0
	for _, keyword := range keywords {
		kw := strings.ToLower(strings.TrimSpace(keyword))
		if kw == "" {
			continue
		}

		exact := len(regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`).FindAllString(lower, -1))
		partial := strings.Count(lower, kw) - exact
		if partial < 0 {
			partial = 0
		}
		total += exact*2 + partial
	}

	maxScore := len(keywords) * 2
	if maxScore == 0 {
		return 0
	}

	relevance := float64(total) / float64(maxScore)
	if relevance > 1 {
		relevance = 1
	}
	return relevance
}
