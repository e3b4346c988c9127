// internal/platform/registry_test.go
package platform

import (
	"strings"
	"testing"
)

func TestLookupResolvesKnownPlatforms(t *testing.T) {
	r, err := DefaultRegistry()
	if err != nil {
		t.Fatalf("DefaultRegistry: %v", err)
	}

	tests := []struct {
		url  string
		want string
	}{
		{"https://www.amazon.com/dp/B000123/reviews", "amazon"},
		{"https://amazon.co.uk/product-reviews/B000123", "amazon"},
		{"https://www.walmart.com/reviews/product/123", "walmart"},
		{"https://www.yelp.com/biz/some-restaurant", "yelp"},
		{"https://shop.example.com/product/42", GenericName},
	}

	for _, tt := range tests {
		p, err := r.Lookup(tt.url)
		if err != nil {
			t.Errorf("Lookup(%q): %v", tt.url, err)
			continue
		}
		if p.Name != tt.want {
			t.Errorf("Lookup(%q) = %q, want %q", tt.url, p.Name, tt.want)
		}
	}
}

func TestLookupRejectsInvalidURL(t *testing.T) {
	r, _ := DefaultRegistry()
	if _, err := r.Lookup("not a url"); err == nil {
		t.Error("expected error for invalid URL")
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		profile *SiteProfile
	}{
		{"nil", nil},
		{"missing name", &SiteProfile{Domain: "x.com", Container: FieldSelectors{".r"}, Text: FieldSelectors{".t"}}},
		{"missing container", &SiteProfile{Name: "x", Domain: "x.com", Text: FieldSelectors{".t"}}},
		{"missing text", &SiteProfile{Name: "x", Domain: "x.com", Container: FieldSelectors{".r"}}},
		{"anti-bot out of range", &SiteProfile{Name: "x", Domain: "x.com", Container: FieldSelectors{".r"}, Text: FieldSelectors{".t"}, AntiBotLevel: 9}},
		{"search url without placeholder", &SiteProfile{Name: "x", Domain: "x.com", Container: FieldSelectors{".r"}, Text: FieldSelectors{".t"}, SearchURL: "https://x.com/search"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			if err := r.Register(tt.profile); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRegisterAppliesDefaults(t *testing.T) {
	r := NewRegistry()
	p := &SiteProfile{
		Name:      "shop",
		Domain:    "shop.com",
		Container: FieldSelectors{".review"},
		Text:      FieldSelectors{".text"},
	}
	if err := r.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if p.RetryAttempts != 3 || p.MaxReviews != 50 {
		t.Errorf("defaults not applied: retries=%d max=%d", p.RetryAttempts, p.MaxReviews)
	}
	if p.RateLimit <= 0 || p.Timeout <= 0 {
		t.Errorf("timing defaults not applied: rate=%v timeout=%v", p.RateLimit, p.Timeout)
	}
}

func TestSearchURLForEscapesProduct(t *testing.T) {
	r, _ := DefaultRegistry()
	p := r.ByName("amazon")
	if p == nil {
		t.Fatal("amazon profile missing")
	}

	got := SearchURLFor(p, "office chair & mat")
	if !strings.Contains(got, "office+chair+%26+mat") {
		t.Errorf("product not escaped: %q", got)
	}
	if !strings.HasPrefix(got, "https://www.amazon.com/s?k=") {
		t.Errorf("unexpected search URL: %q", got)
	}
}

func TestSearchableExcludesProfilesWithoutEndpoint(t *testing.T) {
	r, _ := DefaultRegistry()
	for _, p := range r.Searchable() {
		if p.SearchURL == "" {
			t.Errorf("profile %q has no search URL", p.Name)
		}
	}
	if len(r.Searchable()) == 0 {
		t.Error("expected at least one searchable platform")
	}
}
