// Package content resolves article details from the article's own document.
// Each field is resolved by an ordered list of strategies, the first one producing a value wins.
package content

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newspulse/pkg/domain"
	"github.com/umputun/newspulse/pkg/fetcher"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/scorer.go -pkg mocks -skip-ensure -fmt goimports . Scorer

// Fetcher retrieves remote documents
type Fetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) (*fetcher.Document, error)
}

// Scorer rates text polarity
type Scorer interface {
	Score(ctx context.Context, text string) (domain.Sentiment, float64, error)
}

// Config for Enricher
type Config struct {
	Timeout     time.Duration // article fetch timeout
	Location    *time.Location
	Now         func() time.Time
	Trafilatura bool // use trafilatura as the last content and date strategy
}

// Enricher turns article stubs into enrichment results
type Enricher struct {
	fetcher Fetcher
	scorer  Scorer
	cfg     Config

	dateStrategies    []Strategy
	imageStrategies   []Strategy
	contentStrategies []Strategy
}

// NewEnricher makes an enricher with default strategy chains
func NewEnricher(f Fetcher, s Scorer, cfg Config) *Enricher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	res := &Enricher{fetcher: f, scorer: s, cfg: cfg}
	res.dateStrategies = []Strategy{
		jsonLDField("ld:datePublished", "datePublished"),
		metaProperty("meta:article:published_time", "article:published_time"),
		metaProperty("meta:og:published_time", "og:published_time"),
		elementText("span.article_schedule", "span.article_schedule"),
		timeElement(),
	}
	res.imageStrategies = []Strategy{
		metaProperty("meta:og:image", "og:image"),
		jsonLDImage(),
	}
	res.contentStrategies = []Strategy{
		jsonLDArticleBody(),
		bodyContainer("div.content_wrapper", "div.arti-flow", "#article-main"),
	}
	if cfg.Trafilatura {
		res.dateStrategies = append(res.dateStrategies, trafilaturaDate())
		res.contentStrategies = append(res.contentStrategies, trafilaturaText())
	}
	return res
}

// Enrich fetches the stub's article and resolves its fields. It never fails, every field
// degrades to its default independently. Enriched is false if the article could not be fetched.
func (e *Enricher) Enrich(ctx context.Context, stub domain.ArticleStub) domain.EnrichmentResult {
	res := domain.EnrichmentResult{}
	res.Sentiment, res.SentimentScore = e.sentiment(ctx, stub.Headline)

	doc, err := e.fetcher.Fetch(ctx, stub.Link, e.cfg.Timeout)
	if err != nil {
		lgr.Printf("[DEBUG] can't fetch article %s: %v", stub.Link, err)
		res.Timestamp = domain.FormatTimestamp(e.cfg.Now(), e.cfg.Location)
		return res
	}

	pg, err := newPage(doc)
	if err != nil {
		lgr.Printf("[WARN] can't parse article %s: %v", stub.Link, err)
		res.Timestamp = domain.FormatTimestamp(e.cfg.Now(), e.cfg.Location)
		return res
	}
	res.Enriched = true

	if img, _, ok := firstOf(pg, e.imageStrategies); ok {
		res.ImageURL = resolveURL(pg.url, img)
	}

	res.Timestamp = e.timestamp(pg, stub.Link)

	res.FullContent = domain.NoContent
	if text, name, ok := firstOf(pg, e.contentStrategies); ok {
		lgr.Printf("[DEBUG] content for %s extracted by %s, %d chars", stub.Link, name, len(text))
		res.FullContent = text
	}
	return res
}

func (e *Enricher) timestamp(pg *page, link string) string {
	raw, name, ok := firstOf(pg, e.dateStrategies)
	if !ok {
		lgr.Printf("[WARN] could not extract timestamp for %s, using current time", link)
		return domain.FormatTimestamp(e.cfg.Now(), e.cfg.Location)
	}
	ts, err := NormalizeTimestamp(raw, e.cfg.Location)
	if err != nil {
		lgr.Printf("[WARN] timestamp %q from %s for %s not recognized, using current time", raw, name, link)
		return domain.FormatTimestamp(e.cfg.Now(), e.cfg.Location)
	}
	return domain.FormatTimestamp(ts, e.cfg.Location)
}

func (e *Enricher) sentiment(ctx context.Context, text string) (domain.Sentiment, float64) {
	if e.scorer == nil || text == "" {
		return domain.SentimentNeutral, 0
	}
	label, score, err := e.scorer.Score(ctx, text)
	if err != nil {
		lgr.Printf("[WARN] sentiment scoring failed for %q: %v", text, err)
		return domain.SentimentNeutral, 0
	}
	return label, score
}

func resolveURL(base *url.URL, ref string) string {
	if base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// String implements fmt.Stringer for debug logging of configured chains
func (e *Enricher) String() string {
	names := func(ss []Strategy) []string {
		res := make([]string, 0, len(ss))
		for _, s := range ss {
			res = append(res, s.Name)
		}
		return res
	}
	return fmt.Sprintf("date:%v image:%v content:%v", names(e.dateStrategies), names(e.imageStrategies),
		names(e.contentStrategies))
}
