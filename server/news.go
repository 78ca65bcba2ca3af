package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"

	"github.com/umputun/newspulse/pkg/domain"
	"github.com/umputun/newspulse/pkg/feed"
)

const (
	defaultPageLimit = 24
	maxPageLimit     = 100
	trendingViews    = 15 // more views than this makes a record trending
	weekWindow       = 7 * 24 * time.Hour
)

// NewsItem is a record with its view count
type NewsItem struct {
	domain.NewsRecord
	Views int64 `json:"views"`
}

// NewsPage is a page of filtered news
type NewsPage struct {
	Items []NewsItem `json:"items"`
	Total int        `json:"total"`
	Page  int        `json:"page"`
	Pages int        `json:"pages"`
}

// newsFilter defines list query parameters
type newsFilter struct {
	page       int
	limit      int
	query      string
	categories []string
	sentiments []domain.Sentiment
	stocks     *regexp.Regexp
	filterType string
}

// newsHandler returns paginated news, filtered by query parameters:
// q, categories, sentiment, stocks (comma separated symbols matched in headlines),
// filter_type (trending|week), page and limit
func (s *Server) newsHandler(w http.ResponseWriter, r *http.Request) {
	f, err := parseNewsFilter(r)
	if err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, err, "invalid query")
		return
	}

	records := s.News.GetLatest(r.Context())
	items := s.withViews(r, records)
	items = s.applyFilter(items, f)
	s.sortItems(items)

	total := len(items)
	pages := max(1, (total+f.limit-1)/f.limit)
	start := min((f.page-1)*f.limit, total)
	end := min(start+f.limit, total)

	RenderJSON(w, r, http.StatusOK, NewsPage{Items: items[start:end], Total: total, Page: f.page, Pages: pages})
}

// viewHandler increments views of a link, body is {"link": "..."}
func (s *Server) viewHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Link string `json:"link"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, err, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Link) == "" {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, errors.New("empty link"), "link is required")
		return
	}

	views, err := s.Views.Increment(r.Context(), req.Link)
	if err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusInternalServerError, err, "can't increment views")
		return
	}
	RenderJSON(w, r, http.StatusOK, rest.JSON{"link": req.Link, "views": views})
}

// statusHandler returns server status with snapshot details
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := rest.JSON{
		"status":        "ok",
		"version":       s.Version,
		"time":          time.Now().UTC(),
		"cycle_running": s.Cycle.Running(),
		"records":       0,
	}
	if snap := s.Snapshot.Get(); snap != nil {
		status["records"] = len(snap.Records)
		status["captured_at"] = snap.CapturedAt.UTC()
		status["age"] = snap.Age(time.Now()).Round(time.Second).String()
	}
	RenderJSON(w, r, http.StatusOK, status)
}

// rssHandler serves RSS 2.0 of a category, "all" for every category
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	if strings.EqualFold(category, "all") {
		category = ""
	}

	generator := feed.NewGenerator(s.Config.GetBaseURL(), s.Location)
	rss, err := generator.GenerateRSS(s.News.GetLatest(r.Context()), category)
	if err != nil {
		lgr.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		lgr.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}

// withViews merges view counts into records, a view store failure leaves zero views
func (s *Server) withViews(r *http.Request, records []domain.NewsRecord) []NewsItem {
	links := make([]string, len(records))
	for i, rec := range records {
		links[i] = rec.Link
	}
	counts, err := s.Views.Counts(r.Context(), links)
	if err != nil {
		lgr.Printf("[WARN] failed to get view counts: %v", err)
		counts = map[string]int64{}
	}

	items := make([]NewsItem, len(records))
	for i, rec := range records {
		items[i] = NewsItem{NewsRecord: rec, Views: counts[rec.Link]}
	}
	return items
}

func (s *Server) applyFilter(items []NewsItem, f newsFilter) []NewsItem {
	now := time.Now()
	return slices.DeleteFunc(items, func(it NewsItem) bool {
		if len(f.categories) > 0 && !slices.Contains(f.categories, strings.ToLower(it.Category)) {
			return true
		}
		if len(f.sentiments) > 0 && !slices.Contains(f.sentiments, it.Sentiment) {
			return true
		}
		if f.stocks != nil && !f.stocks.MatchString(it.Headline) {
			return true
		}
		if f.query != "" && !strings.Contains(strings.ToLower(it.Headline), f.query) &&
			!strings.Contains(strings.ToLower(it.Category), f.query) {
			return true
		}
		switch f.filterType {
		case "trending":
			return it.Views <= trendingViews
		case "week":
			ts, err := domain.ParseTimestamp(it.Timestamp, s.Location)
			return err != nil || now.Sub(ts) > weekWindow
		}
		return false
	})
}

// sortItems orders by timestamp, most recent first, unparseable timestamps last
func (s *Server) sortItems(items []NewsItem) {
	keys := make(map[string]time.Time, len(items))
	for _, it := range items {
		if ts, err := domain.ParseTimestamp(it.Timestamp, s.Location); err == nil {
			keys[it.Link] = ts
		}
	}
	slices.SortStableFunc(items, func(a, b NewsItem) int {
		return keys[b.Link].Compare(keys[a.Link])
	})
}

func parseNewsFilter(r *http.Request) (newsFilter, error) {
	q := r.URL.Query()
	res := newsFilter{page: 1, limit: defaultPageLimit, query: strings.ToLower(strings.TrimSpace(q.Get("q")))}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return newsFilter{}, fmt.Errorf("bad page %q", v)
		}
		res.page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return newsFilter{}, fmt.Errorf("bad limit %q", v)
		}
		res.limit = min(limit, maxPageLimit)
	}

	for _, c := range splitList(q.Get("categories")) {
		res.categories = append(res.categories, strings.ToLower(c))
	}
	for _, v := range splitList(q.Get("sentiment")) {
		res.sentiments = append(res.sentiments, domain.ParseSentiment(v))
	}
	if symbols := splitList(q.Get("stocks")); len(symbols) > 0 {
		quoted := make([]string, len(symbols))
		for i, sym := range symbols {
			quoted[i] = regexp.QuoteMeta(sym)
		}
		res.stocks = regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
	}

	switch ft := strings.ToLower(q.Get("filter_type")); ft {
	case "", "all":
	case "trending", "week":
		res.filterType = ft
	default:
		return newsFilter{}, fmt.Errorf("bad filter_type %q", ft)
	}
	return res, nil
}

func splitList(s string) []string {
	var res []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			res = append(res, v)
		}
	}
	return res
}
