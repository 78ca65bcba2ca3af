package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "broken yaml", content: "invalid: yaml: content: ["},
		{name: "no site domain", content: "scrape:\n  location: UTC\n"},
		{name: "bad location", content: "scrape:\n  site_domain: example.com\n  location: Mars/Olympus\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			err := run(ctx, Opts{Config: path})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to load config")
		})
	}
}

func TestRun_ServerStartStop(t *testing.T) {
	site := newTestSite(t)
	tmpDir := t.TempDir()
	port := freePort(t)
	snapPath := filepath.Join(tmpDir, "news_data.json")

	cfg := fmt.Sprintf(`
server:
  listen: "127.0.0.1:%d"
  base_url: "http://127.0.0.1:%d"
database:
  dsn: "file:%s?mode=rwc&_txlock=immediate&_pragma=busy_timeout(5000)"
scrape:
  site_domain: 127.0.0.1
  location: UTC
  snapshot_path: %q
  categories:
    - name: Markets
      url: "%s/markets/"
`, port, port, filepath.Join(tmpDir, "test.db"), snapPath, site.URL)
	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- run(ctx, Opts{Config: cfgPath})
	}()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond, "server not started")

	// first request runs the listing scan, the background cycle enriches and persists
	type page struct {
		Items []struct {
			Link      string `json:"link"`
			Headline  string `json:"headline"`
			ImageURL  string `json:"image_url"`
			Timestamp string `json:"timestamp"`
		} `json:"items"`
		Total int `json:"total"`
	}
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/api/v1/news?filter_type=all")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var p page
		if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
			return false
		}
		return p.Total == 2
	}, 10*time.Second, 100*time.Millisecond, "news not scraped")

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(snapPath)
		return err == nil && len(data) > 0
	}, 10*time.Second, 100*time.Millisecond, "snapshot not persisted")

	resp, err := http.Get(base + "/rss/all")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-serverErr:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server shutdown timeout")
	}
}

func TestSetupLog(t *testing.T) {
	assert.NotPanics(t, func() { setupLog(true, false) })
	assert.NotPanics(t, func() { setupLog(false, true) })
	assert.NotPanics(t, func() { setupLog(true, true, "secret1", "secret2") })
}

func TestNonEmpty(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, nonEmpty("", "a", "", "b"))
	assert.Empty(t, nonEmpty("", ""))
}

// newTestSite serves a category listing with two articles
func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()
	published := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	mux := http.NewServeMux()
	mux.HandleFunc("/markets/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `<html><body><ul>
<li class="clearfix"><a href="/news/sensex-rally.html"><h2>Sensex rallies to record high</h2></a></li>
<li class="clearfix"><a href="/news/rupee-falls.html"><h2>Rupee falls against dollar</h2></a></li>
</ul></body></html>`)
	})
	mux.HandleFunc("/news/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, `<html><head>
<meta property="og:image" content="/img%s.jpg">
<meta property="article:published_time" content="%s">
</head><body><div class="content_wrapper">
<p>Benchmark indices moved sharply today as investors reacted to the latest data from the exchanges.</p>
<p>Analysts expect volatility to continue through the week as global cues remain mixed.</p>
</div></body></html>`, r.URL.Path, published)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
