// Package config loads the YAML configuration of the service
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/umputun/newspulse/pkg/domain"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" json:"server" jsonschema:"description=Server configuration"`
	Database  DatabaseConfig  `yaml:"database" json:"database" jsonschema:"description=Database configuration"`
	Scrape    ScrapeConfig    `yaml:"scrape" json:"scrape" jsonschema:"required,description=Scraping configuration"`
	Cache     CacheConfig     `yaml:"cache" json:"cache" jsonschema:"description=Fetch cache configuration"`
	Sentiment SentimentConfig `yaml:"sentiment" json:"sentiment" jsonschema:"description=Headline sentiment configuration"`
	Notify    NotifyConfig    `yaml:"notify" json:"notify" jsonschema:"description=Watchlist notifications"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Base URL for RSS feeds"`
}

// DatabaseConfig holds SQLite settings
type DatabaseConfig struct {
	DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:newspulse.db?mode=rwc&_txlock=immediate&_pragma=busy_timeout(5000),description=Database connection string"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
}

// ScrapeConfig holds scraping pipeline settings
type ScrapeConfig struct {
	SiteDomain     string           `yaml:"site_domain" json:"site_domain" jsonschema:"required,description=Links outside this domain are dropped"`
	UserAgent      string           `yaml:"user_agent" json:"user_agent" jsonschema:"description=User agent for HTTP requests"`
	AcceptLanguage string           `yaml:"accept_language" json:"accept_language" jsonschema:"description=Accept-Language header"`
	MaxBodySize    int64            `yaml:"max_body_size" json:"max_body_size" jsonschema:"default=5242880,description=Maximum document size in bytes"`
	ListingTimeout time.Duration    `yaml:"listing_timeout" json:"listing_timeout" jsonschema:"default=10s,description=Category listing fetch timeout"`
	ArticleTimeout time.Duration    `yaml:"article_timeout" json:"article_timeout" jsonschema:"default=10s,description=Article fetch timeout"`
	ScanWorkers    int              `yaml:"scan_workers" json:"scan_workers" jsonschema:"default=10,minimum=1,description=Parallel category scans"`
	EnrichWorkers  int              `yaml:"enrich_workers" json:"enrich_workers" jsonschema:"default=10,minimum=1,description=Parallel article enrichments"`
	MaxStubs       int              `yaml:"max_stubs" json:"max_stubs" jsonschema:"default=24,minimum=1,description=Articles taken per category listing"`
	MaxRecords     int              `yaml:"max_records" json:"max_records" jsonschema:"default=1000,minimum=1,description=Cap of the persisted record set"`
	Retention      time.Duration    `yaml:"retention" json:"retention" jsonschema:"default=168h,description=Records older than this are dropped"`
	FreshnessTTL   time.Duration    `yaml:"freshness_ttl" json:"freshness_ttl" jsonschema:"default=5m,description=Snapshot younger than this is served without refresh"`
	CycleTimeout   time.Duration    `yaml:"cycle_timeout" json:"cycle_timeout" jsonschema:"default=0s,description=Overall limit of a background scrape cycle (0 for none)"`
	SnapshotPath   string           `yaml:"snapshot_path" json:"snapshot_path" jsonschema:"default=news_data.json,description=Snapshot file location"`
	Location       string           `yaml:"location" json:"location" jsonschema:"default=Asia/Kolkata,description=Time zone of article timestamps"`
	Trafilatura    bool             `yaml:"trafilatura" json:"trafilatura" jsonschema:"default=true,description=Use trafilatura as the last extraction strategy"`
	Categories     []CategoryConfig `yaml:"categories" json:"categories" jsonschema:"description=Category listings to scrape"`
}

// CategoryConfig is a single category listing
type CategoryConfig struct {
	Name string `yaml:"name" json:"name" jsonschema:"required,description=Category name"`
	URL  string `yaml:"url" json:"url" jsonschema:"required,description=Listing URL"`
	Kind string `yaml:"kind" json:"kind,omitempty" jsonschema:"enum=html,enum=rss,default=html,description=Listing kind"`
}

// CacheConfig holds fetch cache settings
type CacheConfig struct {
	Type  string      `yaml:"type" json:"type" jsonschema:"enum=memory,enum=redis,default=memory,description=Cache backend"`
	Redis RedisConfig `yaml:"redis" json:"redis" jsonschema:"description=Redis backend settings"`
}

// RedisConfig holds redis connection settings
type RedisConfig struct {
	Addr     string        `yaml:"addr" json:"addr" jsonschema:"default=localhost:6379,description=Redis address"`
	Password string        `yaml:"password" json:"password" jsonschema:"description=Redis password (can use environment variable)"`
	DB       int           `yaml:"db" json:"db" jsonschema:"default=0,description=Redis database"`
	TTL      time.Duration `yaml:"ttl" json:"ttl" jsonschema:"default=192h,description=Cache entry lifetime"`
}

// SentimentConfig holds headline sentiment settings
type SentimentConfig struct {
	Type         string        `yaml:"type" json:"type" jsonschema:"enum=lexicon,enum=llm,default=lexicon,description=Sentiment scorer"`
	Endpoint     string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint"`
	APIKey       string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model        string        `yaml:"model" json:"model" jsonschema:"default=gpt-4o-mini,description=Model name"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=Request timeout"`
	SystemPrompt string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt for the LLM (optional)"`
	JSONMode     bool          `yaml:"json_mode" json:"json_mode" jsonschema:"default=false,description=Use JSON response format (not all models support this)"`
}

// NotifyConfig holds watchlist notification settings
type NotifyConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable watchlist notifications"`
	Schedule      string        `yaml:"schedule" json:"schedule" jsonschema:"default=@every 1m,description=Cron spec of the watchlist check"`
	Workers       int           `yaml:"workers" json:"workers" jsonschema:"default=4,description=Users checked in parallel"`
	SentRetention time.Duration `yaml:"sent_retention" json:"sent_retention" jsonschema:"default=720h,description=Sent log retention"`
	Watchlist     []WatchConfig `yaml:"watchlist" json:"watchlist" jsonschema:"description=Watchlist entries"`
}

// WatchConfig is a watchlist of a single user
type WatchConfig struct {
	User    string   `yaml:"user" json:"user" jsonschema:"required,description=User identifier such as email"`
	Symbols []string `yaml:"symbols" json:"symbols" jsonschema:"description=Stock symbols matched on word boundaries"`
	Names   []string `yaml:"names" json:"names" jsonschema:"description=Company names matched as substrings"`
}

// DefaultCategories are used when no categories configured
var DefaultCategories = []CategoryConfig{
	{Name: "Markets", URL: "https://www.moneycontrol.com/news/business/markets/"},
	{Name: "Economy", URL: "https://www.moneycontrol.com/news/business/economy/"},
	{Name: "Companies", URL: "https://www.moneycontrol.com/news/business/companies/"},
	{Name: "Mutual Funds", URL: "https://www.moneycontrol.com/news/business/mutual-funds/"},
	{Name: "Personal Finance", URL: "https://www.moneycontrol.com/news/business/personal-finance/"},
	{Name: "IPO", URL: "https://www.moneycontrol.com/news/business/ipo/"},
	{Name: "Startup", URL: "https://www.moneycontrol.com/news/business/startup/"},
	{Name: "Real Estate", URL: "https://www.moneycontrol.com/news/business/real-estate/"},
	{Name: "Banking", URL: "https://www.moneycontrol.com/news/business/banking/"},
	{Name: "Stocks", URL: "https://www.moneycontrol.com/news/business/stocks/"},
	{Name: "Commodities", URL: "https://www.moneycontrol.com/news/business/commodities/"},
	{Name: "Currency", URL: "https://www.moneycontrol.com/news/business/currency/"},
	{Name: "Earnings", URL: "https://www.moneycontrol.com/news/business/earnings/"},
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.SetDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if err := VerifySchema(&cfg); err != nil {
		return nil, fmt.Errorf("verify config: %w", err)
	}
	return &cfg, nil
}

// SetDefaults fills zero values with defaults
func (c *Config) SetDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}

	if c.Database.DSN == "" {
		c.Database.DSN = "file:newspulse.db?mode=rwc&_txlock=immediate&_pragma=busy_timeout(5000)"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	s := &c.Scrape
	if s.AcceptLanguage == "" {
		s.AcceptLanguage = "en-US,en;q=0.9"
	}
	if s.MaxBodySize == 0 {
		s.MaxBodySize = 5 << 20
	}
	if s.ListingTimeout == 0 {
		s.ListingTimeout = 10 * time.Second
	}
	if s.ArticleTimeout == 0 {
		s.ArticleTimeout = 10 * time.Second
	}
	if s.ScanWorkers == 0 {
		s.ScanWorkers = 10
	}
	if s.EnrichWorkers == 0 {
		s.EnrichWorkers = 10
	}
	if s.MaxStubs == 0 {
		s.MaxStubs = 24
	}
	if s.MaxRecords == 0 {
		s.MaxRecords = 1000
	}
	if s.Retention == 0 {
		s.Retention = 7 * 24 * time.Hour
	}
	if s.FreshnessTTL == 0 {
		s.FreshnessTTL = 5 * time.Minute
	}
	if s.SnapshotPath == "" {
		s.SnapshotPath = "news_data.json"
	}
	if s.Location == "" {
		s.Location = "Asia/Kolkata"
	}
	if len(s.Categories) == 0 {
		s.Categories = append([]CategoryConfig(nil), DefaultCategories...)
	}
	for i := range s.Categories {
		if s.Categories[i].Kind == "" {
			s.Categories[i].Kind = string(domain.SourceHTML)
		}
	}

	if c.Cache.Type == "" {
		c.Cache.Type = "memory"
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = "localhost:6379"
	}
	if c.Cache.Redis.TTL == 0 {
		c.Cache.Redis.TTL = 8 * 24 * time.Hour
	}

	if c.Sentiment.Type == "" {
		c.Sentiment.Type = "lexicon"
	}
	if c.Sentiment.Model == "" {
		c.Sentiment.Model = "gpt-4o-mini"
	}
	if c.Sentiment.Timeout == 0 {
		c.Sentiment.Timeout = 10 * time.Second
	}

	if c.Notify.Schedule == "" {
		c.Notify.Schedule = "@every 1m"
	}
	if c.Notify.Workers == 0 {
		c.Notify.Workers = 4
	}
	if c.Notify.SentRetention == 0 {
		c.Notify.SentRetention = 30 * 24 * time.Hour
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return errors.New("server timeout must be at least 1 second")
	}
	if cfg.Scrape.SiteDomain == "" {
		return errors.New("scrape.site_domain is required")
	}
	if cfg.Scrape.ScanWorkers < 1 || cfg.Scrape.EnrichWorkers < 1 {
		return errors.New("scrape workers must be at least 1")
	}
	if cfg.Scrape.Retention < time.Hour {
		return errors.New("scrape.retention must be at least 1 hour")
	}
	if _, err := time.LoadLocation(cfg.Scrape.Location); err != nil {
		return fmt.Errorf("scrape.location: %w", err)
	}

	names := make(map[string]bool, len(cfg.Scrape.Categories))
	for i, cat := range cfg.Scrape.Categories {
		if cat.Name == "" || cat.URL == "" {
			return fmt.Errorf("scrape.categories[%d]: name and url are required", i)
		}
		if names[strings.ToLower(cat.Name)] {
			return fmt.Errorf("scrape.categories[%d]: duplicate category %q", i, cat.Name)
		}
		names[strings.ToLower(cat.Name)] = true
		if cat.Kind != string(domain.SourceHTML) && cat.Kind != string(domain.SourceRSS) {
			return fmt.Errorf("scrape.categories[%d]: unknown kind %q", i, cat.Kind)
		}
	}

	switch cfg.Cache.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache.type %q", cfg.Cache.Type)
	}

	switch cfg.Sentiment.Type {
	case "lexicon":
	case "llm":
		if cfg.Sentiment.Endpoint == "" {
			return errors.New("sentiment.endpoint is required for llm sentiment")
		}
	default:
		return fmt.Errorf("unknown sentiment.type %q", cfg.Sentiment.Type)
	}

	if cfg.Notify.Enabled {
		for i, w := range cfg.Notify.Watchlist {
			if w.User == "" {
				return fmt.Errorf("notify.watchlist[%d]: user is required", i)
			}
		}
	}
	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetBaseURL returns base URL for RSS links
func (c *Config) GetBaseURL() string {
	return c.Server.BaseURL
}

// TimeLocation returns the time zone of article timestamps
func (c *Config) TimeLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Scrape.Location)
	if err != nil {
		return nil, fmt.Errorf("load location %q: %w", c.Scrape.Location, err)
	}
	return loc, nil
}

// CategoryList returns configured categories
func (c *Config) CategoryList() []domain.Category {
	res := make([]domain.Category, 0, len(c.Scrape.Categories))
	for _, cat := range c.Scrape.Categories {
		res = append(res, domain.Category{Name: cat.Name, URL: cat.URL, Kind: domain.SourceKind(cat.Kind)})
	}
	return res
}

// WatchList returns configured watchlist entries
func (c *Config) WatchList() []domain.Watch {
	res := make([]domain.Watch, 0, len(c.Notify.Watchlist))
	for _, w := range c.Notify.Watchlist {
		res = append(res, domain.Watch{User: w.User, Symbols: w.Symbols, Names: w.Names})
	}
	return res
}
