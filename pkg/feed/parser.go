package feed

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-pkgz/lgr"
	"github.com/mmcdole/gofeed"

	"github.com/umputun/newspulse/pkg/domain"
	"github.com/umputun/newspulse/pkg/fetcher"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher

// Fetcher retrieves remote documents
type Fetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) (*fetcher.Document, error)
}

// ParserConfig defines listing scan rules
type ParserConfig struct {
	SiteDomain string        // links outside this domain are dropped, empty allows any host
	MaxStubs   int           // cap of stubs per category per scan
	MaxAge     time.Duration // early recency filter on listing hints
	Timeout    time.Duration // listing fetch timeout
	Location   *time.Location
	Now        func() time.Time
}

// Parser extracts article stubs from category listings
type Parser struct {
	fetcher Fetcher
	cfg     ParserConfig
}

// NewParser creates a listing parser, zero config values get defaults
func NewParser(f Fetcher, cfg ParserConfig) *Parser {
	if cfg.MaxStubs <= 0 {
		cfg.MaxStubs = 24
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 7 * 24 * time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Parser{fetcher: f, cfg: cfg}
}

// Scan fetches the category listing and parses it into stubs
func (p *Parser) Scan(ctx context.Context, cat domain.Category) ([]domain.ArticleStub, error) {
	lgr.Printf("[DEBUG] scanning [%s] %s", cat.Name, cat.URL)

	doc, err := p.fetcher.Fetch(ctx, cat.URL, p.cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("scan category %s: %w", cat.Name, err)
	}

	if cat.Kind == domain.SourceRSS {
		stubs, err := p.ParseRSS(doc, cat.Name)
		if err != nil {
			return nil, fmt.Errorf("scan category %s: %w", cat.Name, err)
		}
		return stubs, nil
	}
	return p.Parse(doc, cat.Name), nil
}

// Parse extracts stubs from an HTML listing document in document order.
// Items without a headline or link, or with a link outside the site domain, are dropped,
// as are items whose listing hint is older than MaxAge.
func (p *Parser) Parse(doc *fetcher.Document, category string) []domain.ArticleStub {
	page, err := goquery.NewDocumentFromReader(doc.Reader())
	if err != nil {
		lgr.Printf("[WARN] can't parse listing for %s: %v", category, err)
		return []domain.ArticleStub{}
	}

	cutoff := p.cfg.Now().Add(-p.cfg.MaxAge)
	stubs := make([]domain.ArticleStub, 0, p.cfg.MaxStubs)
	page.Find("li.clearfix").EachWithBreak(func(i int, li *goquery.Selection) bool {
		if i >= p.cfg.MaxStubs {
			return false
		}
		headline := strings.TrimSpace(li.Find("h2").First().Text())
		href, ok := li.Find("a[href]").First().Attr("href")
		if headline == "" || !ok {
			return true
		}
		link, ok := p.resolveLink(doc.URL, href)
		if !ok {
			return true
		}

		stub := domain.ArticleStub{Headline: headline, Link: link, Category: category}
		if hint, ok := parseListingHint(li.Find("span").First().Text(), p.cfg.Now(), p.cfg.Location); ok {
			if hint.Before(cutoff) {
				lgr.Printf("[DEBUG] skipping old article %q (%s)", truncate(headline, 50), hint.Format("02 Jan 2006"))
				return true
			}
			stub.ListingHint = &hint
		}
		stubs = append(stubs, stub)
		return true
	})
	return stubs
}

// ParseRSS extracts stubs from an RSS/Atom document with the same cap, domain and recency rules
func (p *Parser) ParseRSS(doc *fetcher.Document, category string) ([]domain.ArticleStub, error) {
	parsed, err := gofeed.NewParser().Parse(doc.Reader())
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	cutoff := p.cfg.Now().Add(-p.cfg.MaxAge)
	stubs := make([]domain.ArticleStub, 0, p.cfg.MaxStubs)
	for i, item := range parsed.Items {
		if i >= p.cfg.MaxStubs {
			break
		}
		headline := strings.TrimSpace(item.Title)
		link, ok := p.resolveLink(doc.URL, item.Link)
		if headline == "" || !ok {
			continue
		}

		stub := domain.ArticleStub{Headline: headline, Link: link, Category: category}
		published := item.PublishedParsed
		if published == nil {
			published = item.UpdatedParsed
		}
		if published != nil {
			if published.Before(cutoff) {
				continue
			}
			hint := published.In(p.cfg.Location)
			stub.ListingHint = &hint
		}
		stubs = append(stubs, stub)
	}
	return stubs, nil
}

// resolveLink makes href absolute against the listing URL and checks the site domain
func (p *Parser) resolveLink(base, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if baseURL, err := url.Parse(base); err == nil && base != "" {
		ref = baseURL.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return "", false
	}
	if !inDomain(ref.Hostname(), p.cfg.SiteDomain) {
		return "", false
	}
	ref.Fragment = ""
	return ref.String(), true
}

func inDomain(host, domainName string) bool {
	if domainName == "" {
		return true
	}
	host = strings.ToLower(host)
	domainName = strings.ToLower(strings.TrimPrefix(domainName, "."))
	return host == domainName || strings.HasSuffix(host, "."+domainName)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
