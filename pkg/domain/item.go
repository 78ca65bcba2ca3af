package domain

import (
	"strings"
	"time"
)

// NoContent is stored as FullContent when no extraction strategy produced text
const NoContent = "could not extract"

// NewsRecord is the persisted and cached unit of news, keyed by Link
type NewsRecord struct {
	Link            string    `json:"link"`
	Headline        string    `json:"headline"`
	Category        string    `json:"category"`
	ImageURL        string    `json:"image_url,omitempty"`
	Timestamp       string    `json:"timestamp"`
	Sentiment       Sentiment `json:"sentiment"`
	SentimentScore  float64   `json:"sentiment_score"`
	FullContent     string    `json:"full_content,omitempty"`
	NeedsEnrichment bool      `json:"needs_enrichment,omitempty"`
}

// ArticleStub is a candidate record extracted from a category listing, prior to enrichment
type ArticleStub struct {
	Headline    string
	Link        string
	Category    string
	ListingHint *time.Time // publish time hint from the listing page, if any
}

// EnrichmentResult holds fields resolved from the article's own document
type EnrichmentResult struct {
	ImageURL       string    `json:"image_url,omitempty"`
	Timestamp      string    `json:"timestamp"`
	Sentiment      Sentiment `json:"sentiment"`
	SentimentScore float64   `json:"sentiment_score"`
	FullContent    string    `json:"full_content,omitempty"`
	Enriched       bool      `json:"-"` // article document was fetched and parsed
}

// HasContent reports whether the result carries extracted body text
func (e EnrichmentResult) HasContent() bool {
	return strings.TrimSpace(e.FullContent) != ""
}

// Enrichment returns record fields as an EnrichmentResult, used to warm the fetch cache
func (r NewsRecord) Enrichment() EnrichmentResult {
	return EnrichmentResult{
		ImageURL:       r.ImageURL,
		Timestamp:      r.Timestamp,
		Sentiment:      r.Sentiment,
		SentimentScore: r.SentimentScore,
		FullContent:    r.FullContent,
		Enriched:       !r.NeedsEnrichment,
	}
}

// Apply copies enrichment fields onto the record and clears NeedsEnrichment.
// Empty fields of the result never blank populated fields of the record.
func (r *NewsRecord) Apply(e EnrichmentResult) {
	if e.ImageURL != "" {
		r.ImageURL = e.ImageURL
	}
	if e.Timestamp != "" {
		r.Timestamp = e.Timestamp
	}
	if e.Sentiment != "" {
		r.Sentiment = e.Sentiment
		r.SentimentScore = e.SentimentScore
	}
	if r.FullContent == "" && e.HasContent() {
		r.FullContent = e.FullContent
	}
	r.NeedsEnrichment = false
}

// Sentiment is a polarity label of a headline
type Sentiment string

// enum of sentiment labels
const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ParseSentiment converts a free-form label to Sentiment, unknown values map to neutral
func ParseSentiment(s string) Sentiment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive", "pos", "bullish":
		return SentimentPositive
	case "negative", "neg", "bearish":
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
