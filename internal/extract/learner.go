// internal/extract/learner.go
package extract

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/reviewlens/reviewlens/internal/platform"
)

// Confidence weights for container scoring. A candidate needs at least a
// text or rating child plus one supporting signal to clear the threshold.
const (
	ratingWeight    = 0.3
	authorWeight    = 0.2
	textWeight      = 0.3
	dateWeight      = 0.2
	minConfidence   = 0.3
	maxCandidates   = 10
	minTextChildLen = 50
)

// reviewIndicators is the vocabulary matched against class/id/data
// attributes when hunting for review containers on unknown sites.
var reviewIndicators = []string{
	"review", "comment", "feedback", "rating", "testimonial",
	"customer", "user", "opinion",
}

var (
	ratingChildRe = regexp.MustCompile(`(?i)rating|star|score`)
	authorChildRe = regexp.MustCompile(`(?i)author|reviewer|user|name`)
	dateChildRe   = regexp.MustCompile(`(?i)date|time|posted|published`)
)

// LearnedProfile is a selector set proposed for a previously unknown
// domain, with the confidence that produced it.
type LearnedProfile struct {
	Domain     string
	Confidence float64
	Profile    *platform.SiteProfile
}

// PatternLearner inspects page structure heuristically and caches proposed
// selectors per domain for the lifetime of the process. The cache is
// append-mostly shared state; relearning a domain overwrites it.
type PatternLearner struct {
	mu    sync.RWMutex
	cache map[string]*LearnedProfile
}

// NewPatternLearner creates an empty learner.
func NewPatternLearner() *PatternLearner {
	return &PatternLearner{cache: make(map[string]*LearnedProfile)}
}

// ProfileFor returns cached learned selectors for the URL's domain,
// learning them from the HTML on a cache miss. Returns nil when nothing
// confident enough can be derived.
func (pl *PatternLearner) ProfileFor(html, pageURL string) *platform.SiteProfile {
	domain := domainOf(pageURL)
	if domain == "" {
		return nil
	}

	pl.mu.RLock()
	cached, ok := pl.cache[domain]
	pl.mu.RUnlock()
	if ok {
		return cached.Profile
	}

	learned := pl.Learn(html, pageURL)
	if learned == nil {
		return nil
	}
	return learned.Profile
}

// Learn analyzes the DOM and proposes container/field selectors for the
// URL's domain. Candidates come from the review-indicator vocabulary; each
// is scored by the presence of rating/author/text/date children. The best
// candidate is kept and cached per domain when its confidence reaches the
// threshold. A miss is not cached: thin pages (error pages, sold-out
// listings) must not suppress learning from a later, richer page.
func (pl *PatternLearner) Learn(html, pageURL string) *LearnedProfile {
	domain := domainOf(pageURL)
	if domain == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var (
		best       *platform.SiteProfile
		bestConf   float64
		candidates = collectCandidates(doc)
	)

	for _, cand := range candidates {
		profile, conf := analyzeContainer(cand)
		if conf > bestConf {
			best = profile
			bestConf = conf
		}
	}

	if best == nil || bestConf < minConfidence {
		return nil
	}

	best.Name = platform.GenericName
	best.Domain = domain
	learned := &LearnedProfile{Domain: domain, Confidence: bestConf, Profile: best}

	pl.mu.Lock()
	pl.cache[domain] = learned
	pl.mu.Unlock()

	return learned
}

// Learned returns the cached profile for a domain, if any.
func (pl *PatternLearner) Learned(domain string) *LearnedProfile {
	pl.mu.RLock()
	defer pl.mu.RUnlock()
	return pl.cache[domain]
}

func collectCandidates(doc *goquery.Document) []*goquery.Selection {
	var out []*goquery.Selection
	seen := make(map[*goquery.Selection]bool)

	doc.Find("div, article, section, li").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(out) >= maxCandidates {
			return false
		}
		if matchesIndicator(s) && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
		return true
	})
	return out
}

func matchesIndicator(s *goquery.Selection) bool {
	attrs := []string{}
	if class, ok := s.Attr("class"); ok {
		attrs = append(attrs, class)
	}
	if id, ok := s.Attr("id"); ok {
		attrs = append(attrs, id)
	}
	for _, node := range s.Nodes {
		for _, a := range node.Attr {
			if strings.HasPrefix(a.Key, "data-") {
				attrs = append(attrs, a.Key, a.Val)
			}
		}
	}

	joined := strings.ToLower(strings.Join(attrs, " "))
	for _, indicator := range reviewIndicators {
		if strings.Contains(joined, indicator) {
			return true
		}
	}
	return false
}

// analyzeContainer scores one candidate container and derives a field
// selector for every signal found.
func analyzeContainer(container *goquery.Selection) (*platform.SiteProfile, float64) {
	profile := &platform.SiteProfile{
		Container: platform.FieldSelectors{deriveSelector(container)},
	}
	confidence := 0.0

	if child := findByClass(container, "span, div", ratingChildRe); child != nil {
		profile.Rating = platform.FieldSelectors{deriveSelector(child)}
		confidence += ratingWeight
	}

	if child := findByClass(container, "span, div, a, p", authorChildRe); child != nil {
		profile.ReviewerName = platform.FieldSelectors{deriveSelector(child)}
		confidence += authorWeight
	}

	if child := findLongText(container); child != nil {
		profile.Text = platform.FieldSelectors{deriveSelector(child)}
		confidence += textWeight
	}

	if child := findByClass(container, "span, div, time", dateChildRe); child != nil {
		profile.Date = platform.FieldSelectors{deriveSelector(child)}
		confidence += dateWeight
	}

	if confidence > 1.0 {
		confidence = 1.0
	}

	// A profile without a text selector cannot satisfy registration; fall
	// back to the whole container as the text source.
	if len(profile.Text) == 0 {
		profile.Text = profile.Container
	}

	return profile, confidence
}

func findByClass(container *goquery.Selection, tags string, re *regexp.Regexp) *goquery.Selection {
	var found *goquery.Selection
	container.Find(tags).EachWithBreak(func(i int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if re.MatchString(class) {
			found = s
			return false
		}
		return true
	})
	return found
}

func findLongText(container *goquery.Selection) *goquery.Selection {
	var found *goquery.Selection
	container.Find("p, div, span").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(strings.TrimSpace(s.Text())) > minTextChildLen && s.Children().Length() == 0 {
			found = s
			return false
		}
		return true
	})
	return found
}

// deriveSelector builds a CSS selector for an element, preferring id, then
// class list, then a data attribute, then the bare tag name.
func deriveSelector(s *goquery.Selection) string {
	if s == nil || len(s.Nodes) == 0 {
		return ""
	}
	node := s.Nodes[0]

	if id, ok := s.Attr("id"); ok && id != "" {
		return "#" + id
	}

	if class, ok := s.Attr("class"); ok && strings.TrimSpace(class) != "" {
		parts := strings.Fields(class)
		return "." + strings.Join(parts, ".")
	}

	for _, a := range node.Attr {
		if strings.HasPrefix(a.Key, "data-") && a.Val != "" {
			return fmt.Sprintf("[%s='%s']", a.Key, a.Val)
		}
	}

	return node.Data
}

func domainOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
