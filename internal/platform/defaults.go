// internal/platform/defaults.go
package platform

import "time"

// DefaultRegistry builds a registry seeded with the built-in site profiles.
// Selector tables are static configuration; only the lookup order matters:
// specific marketplaces are registered before broad review platforms.
func DefaultRegistry() (*Registry, error) {
	r := NewRegistry()
	for _, p := range defaultProfiles() {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func defaultProfiles() []*SiteProfile {
	return []*SiteProfile{
		{
			Name:   "amazon",
			Domain: "amazon.",
			Container: FieldSelectors{
				"[data-hook='review']",
			},
			ReviewerName: FieldSelectors{
				"[data-hook='review-author']", ".a-profile-name",
			},
			Rating: FieldSelectors{
				"[data-hook='review-star-rating']", "[data-hook='cmps-review-star-rating']",
			},
			Text: FieldSelectors{
				"[data-hook='review-body'] span", "[data-hook='review-body']",
			},
			Date: FieldSelectors{
				"[data-hook='review-date']",
			},
			Verified: FieldSelectors{
				"[data-hook='avp-badge']",
			},
			HelpfulVotes: FieldSelectors{
				"[data-hook='helpful-vote-statement']",
			},
			RequiresBrowser: true,
			AntiBotLevel:    5,
			RateLimit:       2 * time.Second,
			SearchURL:       "https://www.amazon.com/s?k=%s",
		},
		{
			Name:   "walmart",
			Domain: "walmart.com",
			Container: FieldSelectors{
				"[data-automation-id='reviews-section-review']", ".review",
			},
			ReviewerName: FieldSelectors{
				"[data-automation-id='review-author-name']",
			},
			Rating: FieldSelectors{
				"[data-automation-id='review-star-rating']",
			},
			Text: FieldSelectors{
				"[data-automation-id='review-text']",
			},
			Date: FieldSelectors{
				"[data-automation-id='review-date']",
			},
			RequiresBrowser: true,
			AntiBotLevel:    4,
			RateLimit:       1500 * time.Millisecond,
			SearchURL:       "https://www.walmart.com/search/?query=%s",
		},
		{
			Name:   "target",
			Domain: "target.com",
			Container: FieldSelectors{
				"[data-test='review-content']",
			},
			ReviewerName: FieldSelectors{
				"[data-test='review-author']",
			},
			Rating: FieldSelectors{
				"[data-test='review-stars']",
			},
			Text: FieldSelectors{
				"[data-test='review-text']",
			},
			Date: FieldSelectors{
				"[data-test='review-date']",
			},
			AntiBotLevel: 3,
			RateLimit:    1500 * time.Millisecond,
			SearchURL:    "https://www.target.com/s?searchTerm=%s",
		},
		{
			Name:   "bestbuy",
			Domain: "bestbuy.com",
			Container: FieldSelectors{
				".review-item-content",
			},
			ReviewerName: FieldSelectors{
				".ugc-author", ".sr-only",
			},
			Rating: FieldSelectors{
				".c-ratings-reviews", ".sr-only",
			},
			Text: FieldSelectors{
				".review-text", ".ugc-review-body",
			},
			Date: FieldSelectors{
				".review-date", ".submission-date",
			},
			Verified: FieldSelectors{
				".verified-purchaser",
			},
			AntiBotLevel: 3,
			SearchURL:    "https://www.bestbuy.com/site/searchpage.jsp?st=%s",
		},
		{
			Name:   "homedepot",
			Domain: "homedepot.com",
			Container: FieldSelectors{
				"[data-testid='review']", ".review_item",
			},
			ReviewerName: FieldSelectors{
				"[data-testid='review-author']",
			},
			Rating: FieldSelectors{
				"[data-testid='review-rating']",
			},
			Text: FieldSelectors{
				"[data-testid='review-text']", ".review_text",
			},
			Date: FieldSelectors{
				"[data-testid='review-date']",
			},
			AntiBotLevel: 2,
		},
		{
			Name:   "wayfair",
			Domain: "wayfair.com",
			Container: FieldSelectors{
				"[data-enzyme-id='ReviewListItem']",
			},
			ReviewerName: FieldSelectors{
				"[data-enzyme-id='ReviewAuthor']",
			},
			Rating: FieldSelectors{
				"[data-enzyme-id='ReviewRating']",
			},
			Text: FieldSelectors{
				"[data-enzyme-id='ReviewText']",
			},
			Date: FieldSelectors{
				"[data-enzyme-id='ReviewDate']",
			},
			Verified: FieldSelectors{
				"[data-enzyme-id='VerifiedBuyer']",
			},
			AntiBotLevel: 3,
		},
		{
			Name:   "ebay",
			Domain: "ebay.com",
			Container: FieldSelectors{
				".reviews .review-item-content", ".ebay-review-section",
			},
			ReviewerName: FieldSelectors{
				".review-item-author",
			},
			Rating: FieldSelectors{
				".star-rating",
			},
			Text: FieldSelectors{
				".review-item-text", ".review-item-content",
			},
			Date: FieldSelectors{
				".review-item-date",
			},
			AntiBotLevel: 4,
			SearchURL:    "https://www.ebay.com/sch/i.html?_nkw=%s",
		},
		{
			Name:   "etsy",
			Domain: "etsy.com",
			Container: FieldSelectors{
				"[data-region='review']",
			},
			ReviewerName: FieldSelectors{
				"[data-region='review-author']",
			},
			Rating: FieldSelectors{
				"[data-region='review-rating']", ".rating-icon",
			},
			Text: FieldSelectors{
				"[data-region='review-text']",
			},
			Date: FieldSelectors{
				"[data-region='review-date']",
			},
			AntiBotLevel: 3,
		},
		{
			Name:   "yelp",
			Domain: "yelp.com",
			Container: FieldSelectors{
				"[data-testid='review']", ".review",
			},
			ReviewerName: FieldSelectors{
				"[data-testid='reviewer-name']", ".user-passport-info .css-1m051bw",
			},
			Rating: FieldSelectors{
				"[data-testid='review-rating']", "[aria-label*='star rating']",
			},
			Text: FieldSelectors{
				"[data-testid='review-text']", ".comment__09f24__D0cxf",
			},
			Date: FieldSelectors{
				"[data-testid='review-date']",
			},
			RequiresBrowser: true,
			AntiBotLevel:    5,
		},
		{
			Name:   "tripadvisor",
			Domain: "tripadvisor.com",
			Container: FieldSelectors{
				"[data-test-target='review-card']",
			},
			ReviewerName: FieldSelectors{
				"[data-test-target='reviewer-name']",
			},
			Rating: FieldSelectors{
				"[data-test-target='review-rating']",
			},
			Text: FieldSelectors{
				"[data-test-target='review-text']",
			},
			Date: FieldSelectors{
				"[data-test-target='review-date']",
			},
			AntiBotLevel: 4,
		},
		{
			Name:   "trustpilot",
			Domain: "trustpilot.com",
			Container: FieldSelectors{
				"[data-service-review-card-paper]", "article",
			},
			ReviewerName: FieldSelectors{
				"[data-consumer-name-typography]",
			},
			Rating: FieldSelectors{
				"[data-service-review-rating]",
			},
			Text: FieldSelectors{
				"[data-service-review-text-typography]",
			},
			Date: FieldSelectors{
				"[data-service-review-date-time-ago]", "time",
			},
			AntiBotLevel: 3,
		},
	}
}
