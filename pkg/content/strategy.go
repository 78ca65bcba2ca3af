package content

import (
	"bytes"
	"encoding/json"
	"html"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/markusmobius/go-trafilatura"
	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/newspulse/pkg/fetcher"
)

const minParagraphLen = 20

var boilerplatePhrases = []string{"Read Also", "Click here"}

// Strategy extracts one raw value from an article page
type Strategy struct {
	Name    string
	Extract func(p *page) (string, bool)
}

// firstOf runs strategies in order and returns the first non-empty value with the strategy name
func firstOf(p *page, strategies []Strategy) (value, name string, ok bool) {
	for _, s := range strategies {
		v, found := s.Extract(p)
		if v = strings.TrimSpace(v); found && v != "" {
			return v, s.Name, true
		}
	}
	return "", "", false
}

// page is a parsed article document shared by all strategies of one enrichment
type page struct {
	raw []byte
	url *url.URL
	doc *goquery.Document

	ld []map[string]any // JSON-LD objects in document order

	traf     *trafilatura.ExtractResult
	trafDone bool
}

func newPage(d *fetcher.Document) (*page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(d.Body))
	if err != nil {
		return nil, err
	}
	res := &page{raw: d.Body, doc: doc}
	if u, err := url.Parse(d.URL); err == nil && u.Host != "" {
		res.url = u
	}
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		res.ld = append(res.ld, decodeJSONLD(s.Text())...)
	})
	return res, nil
}

// decodeJSONLD accepts a single object, a list of objects or an object with @graph
func decodeJSONLD(text string) []map[string]any {
	var data any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &data); err != nil {
		return nil
	}
	var res []map[string]any
	var walk func(v any)
	walk = func(v any) {
		switch val := v.(type) {
		case []any:
			for _, item := range val {
				walk(item)
			}
		case map[string]any:
			res = append(res, val)
			if graph, ok := val["@graph"]; ok {
				walk(graph)
			}
		}
	}
	walk(data)
	return res
}

// trafilatura runs extraction once per page, nil if it fails
func (p *page) trafilatura() *trafilatura.ExtractResult {
	if p.trafDone {
		return p.traf
	}
	p.trafDone = true
	result, err := trafilatura.Extract(bytes.NewReader(p.raw), trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		Deduplicate:     true,
		OriginalURL:     p.url,
	})
	if err == nil {
		p.traf = result
	}
	return p.traf
}

func jsonLDField(name, field string) Strategy {
	return Strategy{Name: name, Extract: func(p *page) (string, bool) {
		for _, obj := range p.ld {
			if s, ok := obj[field].(string); ok && strings.TrimSpace(s) != "" {
				return s, true
			}
		}
		return "", false
	}}
}

func metaProperty(name, property string) Strategy {
	return Strategy{Name: name, Extract: func(p *page) (string, bool) {
		sel := p.doc.Find(`meta[property="` + property + `"]`).First()
		if sel.Length() == 0 {
			sel = p.doc.Find(`meta[name="` + property + `"]`).First()
		}
		return sel.Attr("content")
	}}
}

func elementText(name, selector string) Strategy {
	return Strategy{Name: name, Extract: func(p *page) (string, bool) {
		sel := p.doc.Find(selector).First()
		if sel.Length() == 0 {
			return "", false
		}
		return sel.Text(), true
	}}
}

func timeElement() Strategy {
	return Strategy{Name: "time", Extract: func(p *page) (string, bool) {
		sel := p.doc.Find("time").First()
		if sel.Length() == 0 {
			return "", false
		}
		if dt, ok := sel.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
			return dt, true
		}
		return sel.Text(), true
	}}
}

// jsonLDImage handles "image" as a string, an object with url or a list of either
func jsonLDImage() Strategy {
	var imageURL func(v any) string
	imageURL = func(v any) string {
		switch val := v.(type) {
		case string:
			return val
		case map[string]any:
			if s, ok := val["url"].(string); ok {
				return s
			}
		case []any:
			for _, item := range val {
				if s := imageURL(item); s != "" {
					return s
				}
			}
		}
		return ""
	}
	return Strategy{Name: "ld:image", Extract: func(p *page) (string, bool) {
		for _, obj := range p.ld {
			if s := imageURL(obj["image"]); s != "" {
				return s, true
			}
		}
		return "", false
	}}
}

func jsonLDArticleBody() Strategy {
	policy := bluemonday.StrictPolicy()
	return Strategy{Name: "ld:articleBody", Extract: func(p *page) (string, bool) {
		for _, obj := range p.ld {
			if body, ok := obj["articleBody"].(string); ok && strings.TrimSpace(body) != "" {
				return html.UnescapeString(policy.Sanitize(body)), true
			}
		}
		return "", false
	}}
}

// bodyContainer takes the first matching container and keeps its meaningful paragraphs
func bodyContainer(selectors ...string) Strategy {
	return Strategy{Name: "container", Extract: func(p *page) (string, bool) {
		var container *goquery.Selection
		for _, sel := range selectors {
			if found := p.doc.Find(sel).First(); found.Length() > 0 {
				container = found.Clone()
				break
			}
		}
		if container == nil {
			return "", false
		}
		container.Find("script, style, aside, div.ads, div.related_news").Remove()

		var paragraphs []string
		container.Find("p").Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if utf8.RuneCountInString(text) < minParagraphLen || isBoilerplate(text) {
				return
			}
			paragraphs = append(paragraphs, text)
		})
		return strings.Join(paragraphs, "\n"), len(paragraphs) > 0
	}}
}

func isBoilerplate(text string) bool {
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

func trafilaturaText() Strategy {
	return Strategy{Name: "trafilatura", Extract: func(p *page) (string, bool) {
		result := p.trafilatura()
		if result == nil {
			return "", false
		}
		return result.ContentText, result.ContentText != ""
	}}
}

func trafilaturaDate() Strategy {
	return Strategy{Name: "trafilatura:date", Extract: func(p *page) (string, bool) {
		result := p.trafilatura()
		if result == nil || result.Metadata.Date.IsZero() {
			return "", false
		}
		return result.Metadata.Date.Format(time.RFC3339), true
	}}
}
