package feed

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/umputun/newspulse/pkg/domain"
)

const descriptionLimit = 500

// Generator renders news records as RSS 2.0
type Generator struct {
	baseURL  string
	location *time.Location
}

// NewGenerator creates a generator, loc is used to interpret record timestamps
func NewGenerator(baseURL string, loc *time.Location) *Generator {
	if loc == nil {
		loc = time.Local
	}
	return &Generator{baseURL: strings.TrimRight(baseURL, "/"), location: loc}
}

// GenerateRSS creates an RSS 2.0 document for the category, empty category means all records
func (g *Generator) GenerateRSS(records []domain.NewsRecord, category string) (string, error) {
	title := "NewsPulse - All News"
	selfLink := g.baseURL + "/rss/all"
	if category != "" {
		title = "NewsPulse - " + category
		selfLink = fmt.Sprintf("%s/rss/%s", g.baseURL, category)
	}

	items := make([]*RSSItem, 0, len(records))
	for _, rec := range records {
		if category != "" && !strings.EqualFold(rec.Category, category) {
			continue
		}
		items = append(items, g.convertToRSSItem(rec))
	}

	rss := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         title,
			Link:          g.baseURL + "/",
			Description:   "Latest market news with sentiment",
			AtomLink:      &AtomLink{Href: selfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: time.Now().In(g.location).Format(time.RFC1123Z),
			Items:         items,
		},
	}

	output, err := xml.MarshalIndent(rss, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

func (g *Generator) convertToRSSItem(rec domain.NewsRecord) *RSSItem {
	desc := fmt.Sprintf("Sentiment: %s (%.2f)", rec.Sentiment, rec.SentimentScore)
	if content := strings.TrimSpace(rec.FullContent); content != "" && content != domain.NoContent {
		desc += "\n\n" + truncate(content, descriptionLimit)
	}

	item := &RSSItem{
		Title:       rec.Headline,
		Link:        rec.Link,
		GUID:        rec.Link,
		Description: desc,
		Categories:  []string{rec.Category},
	}
	// unparseable timestamps are left out rather than guessed
	if ts, err := domain.ParseTimestamp(rec.Timestamp, g.location); err == nil {
		item.PubDate = ts.Format(time.RFC1123Z)
	}
	if rec.ImageURL != "" {
		item.Enclosure = &Enclosure{URL: rec.ImageURL, Type: imageType(rec.ImageURL)}
	}
	return item
}

func imageType(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	switch strings.ToLower(path.Ext(u)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
