package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema()
	require.NotNil(t, schema)
	assert.Contains(t, schema.Required, "scrape")
	assert.NotContains(t, schema.Required, "server")

	scrape, ok := schema.Properties.Get("scrape")
	require.True(t, ok)
	assert.Equal(t, []string{"site_domain"}, scrape.Required)

	cats, ok := scrape.Properties.Get("categories")
	require.True(t, ok)
	require.NotNil(t, cats.Items)
	assert.ElementsMatch(t, []string{"name", "url"}, cats.Items.Required)
}

func TestVerifySchema(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Scrape.SiteDomain = "moneycontrol.com"
		cfg.SetDefaults()
		return cfg
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, VerifySchema(valid()))
	})

	t.Run("missing site domain", func(t *testing.T) {
		cfg := valid()
		cfg.Scrape.SiteDomain = ""
		err := VerifySchema(cfg)
		require.Error(t, err)
		assert.Equal(t, "scrape.site_domain is required", err.Error())
	})

	t.Run("missing category url", func(t *testing.T) {
		cfg := valid()
		cfg.Scrape.Categories[1].URL = ""
		err := VerifySchema(cfg)
		require.Error(t, err)
		assert.Equal(t, "scrape.categories[1].url is required", err.Error())
	})

	t.Run("missing watch user", func(t *testing.T) {
		cfg := valid()
		cfg.Notify.Watchlist = []WatchConfig{{Symbols: []string{"TCS"}}}
		err := VerifySchema(cfg)
		require.Error(t, err)
		assert.Equal(t, "notify.watchlist[0].user is required", err.Error())
	})
}
