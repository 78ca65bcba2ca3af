package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newspulse/pkg/content/mocks"
	"github.com/umputun/newspulse/pkg/domain"
	"github.com/umputun/newspulse/pkg/fetcher"
)

var testNow = time.Date(2026, 1, 27, 15, 30, 0, 0, time.UTC)

func newTestEnricher(body string, scorer Scorer) (*Enricher, *mocks.FetcherMock) {
	f := &mocks.FetcherMock{
		FetchFunc: func(ctx context.Context, url string, timeout time.Duration) (*fetcher.Document, error) {
			return &fetcher.Document{URL: url, Status: 200, Body: []byte(body)}, nil
		},
	}
	return NewEnricher(f, scorer, Config{Location: time.UTC, Now: func() time.Time { return testNow }}), f
}

func positiveScorer() *mocks.ScorerMock {
	return &mocks.ScorerMock{
		ScoreFunc: func(ctx context.Context, text string) (domain.Sentiment, float64, error) {
			return domain.SentimentPositive, 0.91, nil
		},
	}
}

var testStub = domain.ArticleStub{
	Headline: "Sensex jumps 600 points",
	Link:     "https://www.moneycontrol.com/news/business/markets/sensex-1.html",
	Category: "Markets",
}

func TestEnricher_Enrich(t *testing.T) {
	t.Run("json-ld article", func(t *testing.T) {
		body := `<html><head>
<meta property="og:image" content="https://images.moneycontrol.com/og.jpg">
<script type="application/ld+json">[{"@type":"BreadcrumbList"},
 {"@type":"NewsArticle","datePublished":"2026-01-27T13:06:00Z",
  "image":{"url":"https://images.moneycontrol.com/ld.jpg"},
  "articleBody":"<p>Benchmark indices rallied &amp; closed higher.</p>"}]</script>
</head><body><div class="content_wrapper"><p>This paragraph should not be used at all.</p></div></body></html>`
		scorer := positiveScorer()
		e, f := newTestEnricher(body, scorer)

		res := e.Enrich(context.Background(), testStub)
		assert.True(t, res.Enriched)
		assert.Equal(t, "https://images.moneycontrol.com/og.jpg", res.ImageURL)
		assert.Equal(t, "27 Jan 2026, 01:06 PM", res.Timestamp)
		assert.Equal(t, "Benchmark indices rallied & closed higher.", res.FullContent)
		assert.Equal(t, domain.SentimentPositive, res.Sentiment)
		assert.InDelta(t, 0.91, res.SentimentScore, 0.0001)

		require.Len(t, scorer.ScoreCalls(), 1)
		assert.Equal(t, testStub.Headline, scorer.ScoreCalls()[0].Text)
		require.Len(t, f.FetchCalls(), 1)
		assert.Equal(t, 10*time.Second, f.FetchCalls()[0].Timeout)
	})

	t.Run("container fallback", func(t *testing.T) {
		body := `<html><head>
<script type="application/ld+json">{"@type":"NewsArticle","image":"/static/ld.png"}</script>
<meta property="article:published_time" content="2026-01-26T09:15:00+05:30">
</head><body>
<div class="arti-flow">
  <p>short</p>
  <p>The central bank kept the repo rate unchanged at 6.5 percent.</p>
  <script>var x = "<p>script paragraph that is long enough</p>";</script>
  <aside><p>Aside paragraph that is long enough to count.</p></aside>
  <div class="related_news"><p>Related story paragraph that is long enough.</p></div>
  <p>Read Also: another story that is long enough to count</p>
  <p>Inflation is expected to ease in the coming quarters.</p>
</div></body></html>`
		e, _ := newTestEnricher(body, nil)

		res := e.Enrich(context.Background(), testStub)
		assert.True(t, res.Enriched)
		assert.Equal(t, "https://www.moneycontrol.com/static/ld.png", res.ImageURL)
		assert.Equal(t, "26 Jan 2026, 03:45 AM", res.Timestamp)
		assert.Equal(t, "The central bank kept the repo rate unchanged at 6.5 percent.\n"+
			"Inflation is expected to ease in the coming quarters.", res.FullContent)
		assert.Equal(t, domain.SentimentNeutral, res.Sentiment)
		assert.Zero(t, res.SentimentScore)
	})

	t.Run("nothing extractable", func(t *testing.T) {
		e, _ := newTestEnricher(`<html><body><div>tiny</div></body></html>`, positiveScorer())
		res := e.Enrich(context.Background(), testStub)
		assert.True(t, res.Enriched)
		assert.Empty(t, res.ImageURL)
		assert.Equal(t, "27 Jan 2026, 03:30 PM", res.Timestamp, "falls back to now")
		assert.Equal(t, domain.NoContent, res.FullContent)
		assert.Equal(t, domain.SentimentPositive, res.Sentiment)
	})

	t.Run("fetch failure degrades to defaults", func(t *testing.T) {
		f := &mocks.FetcherMock{
			FetchFunc: func(ctx context.Context, url string, timeout time.Duration) (*fetcher.Document, error) {
				return nil, &fetcher.FetchError{URL: url, Err: context.DeadlineExceeded}
			},
		}
		e := NewEnricher(f, positiveScorer(), Config{Location: time.UTC, Now: func() time.Time { return testNow }})
		res := e.Enrich(context.Background(), testStub)
		assert.False(t, res.Enriched)
		assert.Empty(t, res.FullContent)
		assert.Empty(t, res.ImageURL)
		assert.Equal(t, "27 Jan 2026, 03:30 PM", res.Timestamp)
		assert.Equal(t, domain.SentimentPositive, res.Sentiment, "headline sentiment still computed")
	})

	t.Run("scorer failure degrades to neutral", func(t *testing.T) {
		scorer := &mocks.ScorerMock{
			ScoreFunc: func(ctx context.Context, text string) (domain.Sentiment, float64, error) {
				return "", 0, errors.New("model unavailable")
			},
		}
		e, _ := newTestEnricher(`<html><body><time datetime="2026-01-25 10:00:00">Jan 25</time></body></html>`, scorer)
		res := e.Enrich(context.Background(), testStub)
		assert.Equal(t, domain.SentimentNeutral, res.Sentiment)
		assert.Zero(t, res.SentimentScore)
		assert.Equal(t, "25 Jan 2026, 10:00 AM", res.Timestamp)
	})

	t.Run("unrecognized timestamp falls back to now", func(t *testing.T) {
		e, _ := newTestEnricher(`<html><body><span class="article_schedule">sometime soon</span></body></html>`, nil)
		res := e.Enrich(context.Background(), testStub)
		assert.Equal(t, "27 Jan 2026, 03:30 PM", res.Timestamp)
	})
}

func TestEnricher_EnrichOverHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.html" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><meta property="og:image" content="/img/a.jpg"></head><body>
<span class="article_schedule">January 27, 2026 13:06 IST</span>
<div id="article-main"><p>Gold prices climbed for a third straight session on Tuesday.</p></div></body></html>`))
	}))
	defer ts.Close()

	e := NewEnricher(fetcher.NewHTTPFetcher(fetcher.Options{}), nil,
		Config{Location: time.UTC, Now: func() time.Time { return testNow }})

	res := e.Enrich(context.Background(), domain.ArticleStub{Headline: "Gold climbs", Link: ts.URL + "/gold.html"})
	assert.True(t, res.Enriched)
	assert.Equal(t, ts.URL+"/img/a.jpg", res.ImageURL)
	assert.Equal(t, "27 Jan 2026, 01:06 PM", res.Timestamp)
	assert.Equal(t, "Gold prices climbed for a third straight session on Tuesday.", res.FullContent)

	res = e.Enrich(context.Background(), domain.ArticleStub{Headline: "Gone", Link: ts.URL + "/missing.html"})
	assert.False(t, res.Enriched)
	assert.Empty(t, res.FullContent)
}

func TestEnricher_Trafilatura(t *testing.T) {
	body := `<!DOCTYPE html><html><head><title>Metals outlook</title></head><body>
<article>
<h1>Metals outlook for the week</h1>
<p>Copper prices are expected to stay firm this week as inventories at major exchanges continue to decline steadily.</p>
<p>Analysts said aluminium could see some profit booking after the strong rally of the last two sessions.</p>
<p>Zinc and nickel are likely to trade in a narrow range, tracking cues from the overseas markets.</p>
</article></body></html>`
	f := &mocks.FetcherMock{
		FetchFunc: func(ctx context.Context, url string, timeout time.Duration) (*fetcher.Document, error) {
			return &fetcher.Document{URL: url, Status: 200, Body: []byte(body)}, nil
		},
	}

	e := NewEnricher(f, nil, Config{Location: time.UTC, Now: func() time.Time { return testNow }, Trafilatura: true})
	assert.Contains(t, e.String(), "trafilatura")

	res := e.Enrich(context.Background(), testStub)
	assert.Contains(t, res.FullContent, "Copper prices are expected to stay firm")
	assert.NotEqual(t, domain.NoContent, res.FullContent)

	plain := NewEnricher(f, nil, Config{Location: time.UTC, Now: func() time.Time { return testNow }})
	assert.NotContains(t, plain.String(), "trafilatura")
	assert.Equal(t, domain.NoContent, plain.Enrich(context.Background(), testStub).FullContent)
}

func TestFirstOf(t *testing.T) {
	pg := &page{}
	calls := []string{}
	mk := func(name, val string) Strategy {
		return Strategy{Name: name, Extract: func(*page) (string, bool) {
			calls = append(calls, name)
			return val, val != ""
		}}
	}

	v, name, ok := firstOf(pg, []Strategy{mk("a", ""), mk("b", "  "), mk("c", " found "), mk("d", "late")})
	require.True(t, ok)
	assert.Equal(t, "found", v)
	assert.Equal(t, "c", name)
	assert.Equal(t, []string{"a", "b", "c"}, calls, "stops at first success")

	_, _, ok = firstOf(pg, nil)
	assert.False(t, ok)
}

func TestDecodeJSONLD(t *testing.T) {
	tbl := []struct {
		name string
		in   string
		want int
	}{
		{"object", `{"@type":"NewsArticle"}`, 1},
		{"list", `[{"a":1},{"b":2}]`, 2},
		{"graph", `{"@context":"https://schema.org","@graph":[{"a":1},{"b":2}]}`, 3},
		{"broken", `{"a":`, 0},
		{"scalar", `"text"`, 0},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, decodeJSONLD(tt.in), tt.want)
		})
	}
}

func TestJSONLDImage(t *testing.T) {
	s := jsonLDImage()
	for _, in := range []string{
		`{"image":"https://x.io/a.jpg"}`,
		`{"image":{"@type":"ImageObject","url":"https://x.io/a.jpg"}}`,
		`{"image":[{"url":"https://x.io/a.jpg"},"https://x.io/b.jpg"]}`,
	} {
		v, ok := s.Extract(&page{ld: decodeJSONLD(in)})
		require.True(t, ok, in)
		assert.Equal(t, "https://x.io/a.jpg", v)
	}
	_, ok := s.Extract(&page{ld: decodeJSONLD(`{"image":42}`)})
	assert.False(t, ok)
}

func TestIsBoilerplate(t *testing.T) {
	assert.True(t, isBoilerplate("Read Also: Markets today"))
	assert.True(t, isBoilerplate("Click here to subscribe"))
	assert.False(t, isBoilerplate(strings.Repeat("plain ", 5)))
}
