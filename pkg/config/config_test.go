package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newspulse/pkg/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		t.Setenv("TEST_REDIS_PASSWORD", "secret")
		path := writeConfig(t, `
server:
  listen: ":9090"
  timeout: 45s
  base_url: https://news.example.com
scrape:
  site_domain: moneycontrol.com
  user_agent: "Mozilla/5.0 test"
  listing_timeout: 5s
  enrich_workers: 4
  freshness_ttl: 2m
  location: UTC
  categories:
    - name: Markets
      url: https://www.moneycontrol.com/news/business/markets/
    - name: Feed
      url: https://www.moneycontrol.com/rss/latestnews.xml
      kind: rss
cache:
  type: redis
  redis:
    addr: redis:6379
    password: ${TEST_REDIS_PASSWORD}
sentiment:
  type: llm
  endpoint: https://api.openai.com/v1
  json_mode: true
notify:
  enabled: true
  watchlist:
    - user: alice@example.com
      symbols: [TCS, INFY]
      names: [Infosys]
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "https://news.example.com", cfg.GetBaseURL())
		assert.Equal(t, "moneycontrol.com", cfg.Scrape.SiteDomain)
		assert.Equal(t, 5*time.Second, cfg.Scrape.ListingTimeout)
		assert.Equal(t, 10*time.Second, cfg.Scrape.ArticleTimeout)
		assert.Equal(t, 4, cfg.Scrape.EnrichWorkers)
		assert.Equal(t, 10, cfg.Scrape.ScanWorkers)
		assert.Equal(t, 2*time.Minute, cfg.Scrape.FreshnessTTL)
		assert.Equal(t, "redis", cfg.Cache.Type)
		assert.Equal(t, "secret", cfg.Cache.Redis.Password)
		assert.Equal(t, "gpt-4o-mini", cfg.Sentiment.Model)
		assert.True(t, cfg.Sentiment.JSONMode)

		assert.Equal(t, []domain.Category{
			{Name: "Markets", URL: "https://www.moneycontrol.com/news/business/markets/", Kind: domain.SourceHTML},
			{Name: "Feed", URL: "https://www.moneycontrol.com/rss/latestnews.xml", Kind: domain.SourceRSS},
		}, cfg.CategoryList())
		assert.Equal(t, []domain.Watch{{User: "alice@example.com", Symbols: []string{"TCS", "INFY"}, Names: []string{"Infosys"}}},
			cfg.WatchList())

		loc, err := cfg.TimeLocation()
		require.NoError(t, err)
		assert.Equal(t, time.UTC, loc)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "scrape:\n  site_domain: moneycontrol.com\n"))
		require.NoError(t, err)

		listen, timeout := cfg.GetServerConfig()
		assert.Equal(t, ":8080", listen)
		assert.Equal(t, 30*time.Second, timeout)
		assert.Equal(t, 24, cfg.Scrape.MaxStubs)
		assert.Equal(t, 1000, cfg.Scrape.MaxRecords)
		assert.Equal(t, 7*24*time.Hour, cfg.Scrape.Retention)
		assert.Equal(t, 5*time.Minute, cfg.Scrape.FreshnessTTL)
		assert.Equal(t, time.Duration(0), cfg.Scrape.CycleTimeout)
		assert.Equal(t, "news_data.json", cfg.Scrape.SnapshotPath)
		assert.Equal(t, "Asia/Kolkata", cfg.Scrape.Location)
		assert.Equal(t, "memory", cfg.Cache.Type)
		assert.Equal(t, 8*24*time.Hour, cfg.Cache.Redis.TTL)
		assert.Equal(t, "lexicon", cfg.Sentiment.Type)
		assert.Equal(t, "@every 1m", cfg.Notify.Schedule)
		assert.False(t, cfg.Notify.Enabled)
		assert.Len(t, cfg.CategoryList(), len(DefaultCategories))
		assert.Equal(t, domain.SourceHTML, cfg.CategoryList()[0].Kind)
		assert.Empty(t, cfg.WatchList())

		// defaults are copied, not shared
		cfg.Scrape.Categories[0].Name = "changed"
		assert.Equal(t, "Markets", DefaultCategories[0].Name)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load("/nonexistent/config.yml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "scrape: [unclosed"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"no site domain", "server:\n  listen: :8080\n", "scrape.site_domain is required"},
		{"short timeout", "server:\n  timeout: 10ms\nscrape:\n  site_domain: a.com\n", "server timeout"},
		{"bad location", "scrape:\n  site_domain: a.com\n  location: Mars/Olympus\n", "scrape.location"},
		{"category without url", "scrape:\n  site_domain: a.com\n  categories:\n    - name: X\n", "name and url are required"},
		{"duplicate category", "scrape:\n  site_domain: a.com\n  categories:\n    - {name: X, url: "http://a.com/x"}\n    - {name: x, url: "http://a.com/y"}\n",
			"duplicate category"},
		{"bad kind", "scrape:\n  site_domain: a.com\n  categories:\n    - {name: X, url: "http://a.com/x", kind: atom}\n", "unknown kind"},
		{"bad cache", "scrape:\n  site_domain: a.com\ncache:\n  type: memcached\n", "unknown cache.type"},
		{"llm without endpoint", "scrape:\n  site_domain: a.com\nsentiment:\n  type: llm\n", "sentiment.endpoint is required"},
		{"bad sentiment", "scrape:\n  site_domain: a.com\nsentiment:\n  type: magic\n", "unknown sentiment.type"},
		{"watch without user", "scrape:\n  site_domain: a.com\nnotify:\n  enabled: true\n  watchlist:\n    - symbols: [TCS]\n",
			"user is required"},
		{"short retention", "scrape:\n  site_domain: a.com\n  retention: 1m\n", "scrape.retention"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
