// internal/review/types.go
package review

// Strategy identifies which extraction strategy produced a record.
type Strategy string

const (
	StrategySelector Strategy = "selector"
	StrategyLearned  Strategy = "learned"
	StrategyRegex    Strategy = "regex"
)

// RawRecord is the pre-normalization output of an extraction strategy. All
// fields are kept exactly as extracted; coercion happens in the normalizer.
type RawRecord struct {
	ReviewerName string   `json:"reviewer_name"`
	RatingText   string   `json:"rating_text"`
	Text         string   `json:"text"`
	DateText     string   `json:"date_text"`
	VerifiedText string   `json:"verified_text"`
	HelpfulText  string   `json:"helpful_text"`
	Platform     string   `json:"platform"`
	SourceURL    string   `json:"source_url"`
	Strategy     Strategy `json:"strategy"`
}

// Review is the canonical normalized review record. Once created it is not
// mutated, except that the analyzer fills in the derived fields (Sentiment,
// Categories, KeywordRelevance) without touching the extracted ones.
type Review struct {
	ID               string   `json:"id"`
	ReviewerName     string   `json:"reviewer_name"`
	Rating           float64  `json:"rating"`
	Text             string   `json:"text"`
	Date             string   `json:"date"`
	Platform         string   `json:"platform"`
	VerifiedPurchase bool     `json:"verified_purchase"`
	HelpfulVotes     int      `json:"helpful_votes"`
	TotalVotes       int      `json:"total_votes"`
	SourceURL        string   `json:"source_url"`
	Strategy         Strategy `json:"extraction_strategy"`

	// Derived fields, set by the analyzer.
	Sentiment        string   `json:"sentiment,omitempty"`
	Categories       []string `json:"categories,omitempty"`
	KeywordRelevance float64  `json:"keyword_relevance"`
}
