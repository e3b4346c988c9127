// internal/platform/registry.go
package platform

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
)

// FieldSelectors holds an ordered list of CSS selector candidates for one
// review field. Candidates are tried in order; the first that yields a
// non-empty value wins.
type FieldSelectors []string

// SiteProfile describes how to locate and extract reviews on one platform.
// Profiles are immutable once registered.
type SiteProfile struct {
	Name         string         `yaml:"name" json:"name"`
	Domain       string         `yaml:"domain" json:"domain"`
	Container    FieldSelectors `yaml:"container" json:"container"`
	ReviewerName FieldSelectors `yaml:"reviewer_name" json:"reviewer_name"`
	Rating       FieldSelectors `yaml:"rating" json:"rating"`
	Text         FieldSelectors `yaml:"text" json:"text"`
	Date         FieldSelectors `yaml:"date" json:"date"`
	Verified     FieldSelectors `yaml:"verified,omitempty" json:"verified,omitempty"`
	HelpfulVotes FieldSelectors `yaml:"helpful_votes,omitempty" json:"helpful_votes,omitempty"`

	RequiresBrowser bool          `yaml:"requires_browser" json:"requires_browser"`
	AntiBotLevel    int           `yaml:"anti_bot_level" json:"anti_bot_level"`
	RateLimit       time.Duration `yaml:"rate_limit" json:"rate_limit"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout"`
	RetryAttempts   int           `yaml:"retry_attempts" json:"retry_attempts"`
	MaxReviews      int           `yaml:"max_reviews" json:"max_reviews"`

	// SearchURL is a Sprintf template with one %s verb for the URL-encoded
	// product name; empty for platforms without a product search endpoint.
	SearchURL string `yaml:"search_url,omitempty" json:"search_url,omitempty"`
}

// Generic reports whether this is the catch-all profile.
func (p *SiteProfile) Generic() bool {
	return p.Name == GenericName
}

// GenericName is the name of the built-in fallback profile.
const GenericName = "generic"

// Registry maps URL hosts to site profiles. Lookup order is registration
// order, so more specific entries must be registered before broad ones.
type Registry struct {
	mu       sync.RWMutex
	profiles []*SiteProfile
	generic  *SiteProfile
}

// NewRegistry creates a registry containing only the generic profile.
func NewRegistry() *Registry {
	return &Registry{generic: genericProfile()}
}

// Register validates a profile and appends it to the lookup order. A
// malformed profile is a configuration error and is rejected immediately.
func (r *Registry) Register(p *SiteProfile) error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}
	if err := validateProfile(p); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	applyProfileDefaults(p)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles = append(r.profiles, p)
	return nil
}

// Lookup resolves a URL to the profile whose domain is a substring of the
// URL host (with any leading "www." stripped). The first registered match
// wins; no match returns the generic profile.
func (r *Registry) Lookup(rawURL string) (*SiteProfile, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid URL %q", rawURL)
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles {
		if strings.Contains(host, p.Domain) {
			return p, nil
		}
	}
	return r.generic, nil
}

// ByName returns a registered profile by its name, or nil.
func (r *Registry) ByName(name string) *SiteProfile {
	name = strings.ToLower(name)
	if name == GenericName {
		return r.generic
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles {
		if strings.ToLower(p.Name) == name {
			return p
		}
	}
	return nil
}

// Platforms returns all registered profiles in registration order.
func (r *Registry) Platforms() []*SiteProfile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*SiteProfile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// Searchable returns the profiles that have a product search endpoint,
// used by the multi-platform product path.
func (r *Registry) Searchable() []*SiteProfile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*SiteProfile
	for _, p := range r.profiles {
		if p.SearchURL != "" {
			out = append(out, p)
		}
	}
	return out
}

// SearchURLFor builds the search URL for a product name on a profile.
func SearchURLFor(p *SiteProfile, productName string) string {
	if p.SearchURL == "" {
		return ""
	}
	return fmt.Sprintf(p.SearchURL, url.QueryEscape(productName))
}

func validateProfile(p *SiteProfile) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Domain == "" {
		return fmt.Errorf("domain is required")
	}
	if len(p.Container) == 0 {
		return fmt.Errorf("container selector is required")
	}
	if len(p.Text) == 0 {
		return fmt.Errorf("text selector is required")
	}
	if p.AntiBotLevel < 0 || p.AntiBotLevel > 5 {
		return fmt.Errorf("anti_bot_level must be in 0..5, got %d", p.AntiBotLevel)
	}
	if p.SearchURL != "" && !strings.Contains(p.SearchURL, "%s") {
		return fmt.Errorf("search_url must contain a %%s placeholder")
	}
	return nil
}

func applyProfileDefaults(p *SiteProfile) {
	if p.RateLimit == 0 {
		p.RateLimit = time.Second
	}
	if p.Timeout == 0 {
		p.Timeout = 30 * time.Second
	}
	if p.RetryAttempts == 0 {
		p.RetryAttempts = 3
	}
	if p.MaxReviews == 0 {
		p.MaxReviews = 50
	}
}

func genericProfile() *SiteProfile {
	p := &SiteProfile{
		Name:   GenericName,
		Domain: "",
		Container: FieldSelectors{
			".review", ".review-item", "[class*='review']", "article",
		},
		ReviewerName: FieldSelectors{
			".review-author", ".reviewer-name", "[class*='author']", "[class*='user']",
		},
		Rating: FieldSelectors{
			".review-rating", ".star-rating", "[class*='rating']", "[class*='star']",
		},
		Text: FieldSelectors{
			".review-text", ".review-content", ".review-body", "p",
		},
		Date: FieldSelectors{
			".review-date", "time", "[class*='date']",
		},
		AntiBotLevel: 1,
	}
	applyProfileDefaults(p)
	return p
}
