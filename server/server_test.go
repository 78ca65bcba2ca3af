package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newspulse/pkg/domain"
	"github.com/umputun/newspulse/pkg/snapshot"
	"github.com/umputun/newspulse/server/mocks"
)

func ts(d time.Duration) string {
	return domain.FormatTimestamp(time.Now().Add(-d), time.UTC)
}

func testRecords() []domain.NewsRecord {
	return []domain.NewsRecord{
		{Link: "l1", Headline: "Sensex gains 500 points", Category: "Markets", Timestamp: ts(time.Hour), Sentiment: domain.SentimentPositive},
		{Link: "l2", Headline: "TCS Q3 results beat estimates", Category: "Companies", Timestamp: ts(2 * time.Hour), Sentiment: domain.SentimentPositive},
		{Link: "l3", Headline: "Rupee falls to record low", Category: "Economy", Timestamp: ts(30 * time.Minute), Sentiment: domain.SentimentNegative},
		{Link: "l4", Headline: "Old news on markets", Category: "Markets", Timestamp: ts(8 * 24 * time.Hour), Sentiment: domain.SentimentNeutral},
		{Link: "l5", Headline: "Undated story", Category: "Markets", Timestamp: "sometime", Sentiment: domain.SentimentNeutral},
	}
}

type testEnv struct {
	srv   *Server
	news  *mocks.NewsProviderMock
	views *mocks.ViewStoreMock
	cycle *mocks.CycleMonitorMock
	store *snapshot.Store
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		news: &mocks.NewsProviderMock{GetLatestFunc: func(ctx context.Context) []domain.NewsRecord { return testRecords() }},
		views: &mocks.ViewStoreMock{
			CountsFunc: func(ctx context.Context, links []string) (map[string]int64, error) {
				return map[string]int64{"l2": 20, "l3": 5}, nil
			},
			IncrementFunc: func(ctx context.Context, link string) (int64, error) { return 7, nil },
		},
		cycle: &mocks.CycleMonitorMock{RunningFunc: func() bool { return true }},
		store: &snapshot.Store{},
	}
	cfg := &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) { return ":8080", 30 * time.Second },
		GetBaseURLFunc:      func() string { return "http://localhost:8080" },
	}
	env.srv = New(Params{Config: cfg, News: env.news, Views: env.views, Cycle: env.cycle, Snapshot: env.store,
		Location: time.UTC, Version: "1.2.3"})
	return env
}

func getNews(t *testing.T, h http.Handler, query string) NewsPage {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/news"+query, http.NoBody)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var page NewsPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	return page
}

func links(page NewsPage) []string {
	res := make([]string, 0, len(page.Items))
	for _, it := range page.Items {
		res = append(res, it.Link)
	}
	return res
}

func TestServer_newsHandler(t *testing.T) {
	env := newTestServer(t)
	h := env.srv.Handler()

	tests := []struct {
		name  string
		query string
		want  []string
		total int
	}{
		{"all sorted", "", []string{"l3", "l1", "l2", "l4", "l5"}, 5},
		{"category", "?categories=markets", []string{"l1", "l4", "l5"}, 3},
		{"categories list", "?categories=Economy,%20Companies", []string{"l3", "l2"}, 2},
		{"sentiment", "?sentiment=positive", []string{"l1", "l2"}, 2},
		{"query", "?q=RUPEE", []string{"l3"}, 1},
		{"query on category", "?q=econ", []string{"l3"}, 1},
		{"stocks", "?stocks=tcs,infy", []string{"l2"}, 1},
		{"stocks word boundary", "?stocks=sen", []string{}, 0},
		{"trending", "?filter_type=trending", []string{"l2"}, 1},
		{"week", "?filter_type=week", []string{"l3", "l1", "l2"}, 3},
		{"page", "?limit=2&page=2", []string{"l2", "l4"}, 5},
		{"page beyond", "?limit=2&page=9", []string{}, 5},
		{"combined", "?categories=markets&sentiment=neutral&q=old", []string{"l4"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := getNews(t, h, tt.query)
			assert.Equal(t, tt.want, links(page))
			assert.Equal(t, tt.total, page.Total)
		})
	}

	page := getNews(t, h, "?limit=2")
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, int64(5), page.Items[0].Views)
	assert.Equal(t, int64(0), page.Items[1].Views)
}

func TestServer_newsHandlerBadQuery(t *testing.T) {
	env := newTestServer(t)
	for _, q := range []string{"?page=0", "?page=x", "?limit=-1", "?filter_type=hot"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/news"+q, http.NoBody)
		w := httptest.NewRecorder()
		env.srv.Handler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		assert.Contains(t, w.Body.String(), "error", q)
	}
	assert.Empty(t, env.news.GetLatestCalls())
}

func TestServer_newsHandlerViewsFailure(t *testing.T) {
	env := newTestServer(t)
	env.views.CountsFunc = func(ctx context.Context, links []string) (map[string]int64, error) {
		return nil, errors.New("db closed")
	}
	page := getNews(t, env.srv.Handler(), "")
	require.Len(t, page.Items, 5)
	for _, it := range page.Items {
		assert.Zero(t, it.Views)
	}
}

func TestServer_newsHandlerEmpty(t *testing.T) {
	env := newTestServer(t)
	env.news.GetLatestFunc = func(ctx context.Context) []domain.NewsRecord { return []domain.NewsRecord{} }
	page := getNews(t, env.srv.Handler(), "")
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Pages)
	assert.Equal(t, 0, page.Total)
}

func TestServer_viewHandler(t *testing.T) {
	env := newTestServer(t)
	h := env.srv.Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/news/view", strings.NewReader(`{"link":"l1"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Link  string `json:"link"`
		Views int64  `json:"views"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "l1", resp.Link)
	assert.Equal(t, int64(7), resp.Views)
	require.Len(t, env.views.IncrementCalls(), 1)
	assert.Equal(t, "l1", env.views.IncrementCalls()[0].Link)

	for _, body := range []string{`{"link":""}`, `not json`} {
		w = httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/news/view", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	env.views.IncrementFunc = func(ctx context.Context, link string) (int64, error) { return 0, errors.New("locked") }
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/news/view", bytes.NewBufferString(`{"link":"l1"}`)))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/news/view", http.NoBody))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServer_statusHandler(t *testing.T) {
	env := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody)
	w := httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "newspulse", w.Header().Get("App-Name"))

	var status map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, "1.2.3", status["version"])
	assert.Equal(t, true, status["cycle_running"])
	assert.InDelta(t, 0, status["records"], 0.001)
	assert.NotContains(t, status, "captured_at")

	env.store.Publish(testRecords(), time.Now().Add(-time.Minute))
	w = httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.InDelta(t, 5, status["records"], 0.001)
	assert.Contains(t, status, "captured_at")
	assert.Equal(t, "1m0s", status["age"])
}

func TestServer_rssHandler(t *testing.T) {
	env := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/rss/markets", http.NoBody)
	w := httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/rss+xml; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "<title>NewsPulse - markets</title>")
	assert.Contains(t, body, "Sensex gains 500 points")
	assert.NotContains(t, body, "Rupee falls")

	w = httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rss/all", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<title>NewsPulse - All News</title>")
	assert.Contains(t, w.Body.String(), "Rupee falls")
}

func TestServer_Ping(t *testing.T) {
	env := newTestServer(t)
	w := httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestServer_Run(t *testing.T) {
	env := newTestServer(t)
	port := freePort(t)
	env.srv.Config = &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) { return fmt.Sprintf("127.0.0.1:%d", port), 5 * time.Second },
		GetBaseURLFunc:      func() string { return "http://localhost" },
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- env.srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
