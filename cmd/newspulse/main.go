package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/newspulse/pkg/cache"
	"github.com/umputun/newspulse/pkg/config"
	"github.com/umputun/newspulse/pkg/content"
	"github.com/umputun/newspulse/pkg/feed"
	"github.com/umputun/newspulse/pkg/fetcher"
	"github.com/umputun/newspulse/pkg/notify"
	"github.com/umputun/newspulse/pkg/repository"
	"github.com/umputun/newspulse/pkg/scheduler"
	"github.com/umputun/newspulse/pkg/sentiment"
	"github.com/umputun/newspulse/pkg/service"
	"github.com/umputun/newspulse/pkg/snapshot"
	"github.com/umputun/newspulse/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"newspulse.yml" description:"configuration file"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

// shutdownWait limits how long a running background cycle may delay the exit
const shutdownWait = 30 * time.Second

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor)
	lgr.Printf("[INFO] starting newspulse version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Printf("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, opts); err != nil {
		lgr.Printf("[ERROR] %v", err)
		cancel()
		os.Exit(1)
	}
	cancel()
	lgr.Printf("[INFO] shutdown complete")
}

// run wires the pipeline and serves the API until ctx is canceled
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	if secrets := nonEmpty(cfg.Sentiment.APIKey, cfg.Cache.Redis.Password); len(secrets) > 0 {
		setupLog(opts.Debug, opts.NoColor, secrets...)
	}

	loc, err := cfg.TimeLocation()
	if err != nil {
		return err
	}

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			lgr.Printf("[WARN] close database: %v", err)
		}
	}()

	fetchCache, closeCache, err := makeCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	httpFetcher := fetcher.NewHTTPFetcher(fetcher.Options{
		UserAgent:      cfg.Scrape.UserAgent,
		AcceptLanguage: cfg.Scrape.AcceptLanguage,
		MaxSize:        cfg.Scrape.MaxBodySize,
	})

	listingParser := feed.NewParser(httpFetcher, feed.ParserConfig{
		SiteDomain: cfg.Scrape.SiteDomain,
		MaxStubs:   cfg.Scrape.MaxStubs,
		MaxAge:     cfg.Scrape.Retention,
		Timeout:    cfg.Scrape.ListingTimeout,
		Location:   loc,
	})

	enricher := content.NewEnricher(httpFetcher, makeScorer(cfg), content.Config{
		Timeout:     cfg.Scrape.ArticleTimeout,
		Location:    loc,
		Trafilatura: cfg.Scrape.Trafilatura,
	})

	store := &snapshot.Store{}
	snapFile := snapshot.File{Path: cfg.Scrape.SnapshotPath}

	sched := scheduler.NewScheduler(scheduler.Params{
		Scanner:       listingParser,
		Enricher:      enricher,
		Cache:         fetchCache,
		Persister:     snapFile,
		Publisher:     store,
		Categories:    cfg.CategoryList(),
		ScanWorkers:   cfg.Scrape.ScanWorkers,
		EnrichWorkers: cfg.Scrape.EnrichWorkers,
		Retention:     cfg.Scrape.Retention,
		MaxRecords:    cfg.Scrape.MaxRecords,
		CycleTimeout:  cfg.Scrape.CycleTimeout,
		Location:      loc,
	})
	defer waitCycle(sched)

	gate := service.NewGate(service.GateParams{
		Store:  store,
		File:   snapFile,
		Cycler: sched,
		Cache:  fetchCache,
		TTL:    cfg.Scrape.FreshnessTTL,
	})

	if cfg.Notify.Enabled {
		notifier := notify.NewService(notify.Params{
			Source:        gate,
			Store:         repos.Notification,
			Notifier:      notify.LogNotifier{},
			Watchlist:     cfg.WatchList(),
			Schedule:      cfg.Notify.Schedule,
			Workers:       cfg.Notify.Workers,
			SentRetention: cfg.Notify.SentRetention,
		})
		if err := notifier.Start(ctx); err != nil {
			return fmt.Errorf("failed to start notifications: %w", err)
		}
		defer notifier.Stop()
	}

	// prime the snapshot so the first request finds the file loaded or a cycle under way
	go func() {
		recs := gate.GetLatest(ctx)
		lgr.Printf("[INFO] startup snapshot has %d records", len(recs))
	}()

	srv := server.New(server.Params{
		Config:   cfg,
		News:     gate,
		Views:    repos.View,
		Cycle:    sched,
		Snapshot: store,
		Location: loc,
		Version:  revision,
		Debug:    opts.Debug,
	})
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// makeCache returns the configured fetch cache and its closer
func makeCache(ctx context.Context, cfg *config.Config) (scheduler.FetchCache, func(), error) {
	if cfg.Cache.Type != "redis" {
		return cache.NewMemory(), func() {}, nil
	}
	rc, err := cache.NewRedis(ctx, cache.RedisOptions{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		TTL:      cfg.Cache.Redis.TTL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return rc, func() {
		if err := rc.Close(); err != nil {
			lgr.Printf("[WARN] close redis: %v", err)
		}
	}, nil
}

// makeScorer returns the configured headline sentiment scorer
func makeScorer(cfg *config.Config) content.Scorer {
	if cfg.Sentiment.Type != "llm" {
		return sentiment.Lexicon{}
	}
	lgr.Printf("[INFO] llm sentiment with model %s at %s", cfg.Sentiment.Model, cfg.Sentiment.Endpoint)
	return sentiment.NewLLM(sentiment.LLMConfig{
		Endpoint:     cfg.Sentiment.Endpoint,
		APIKey:       cfg.Sentiment.APIKey,
		Model:        cfg.Sentiment.Model,
		SystemPrompt: cfg.Sentiment.SystemPrompt,
		Timeout:      cfg.Sentiment.Timeout,
		JSONMode:     cfg.Sentiment.JSONMode,
	})
}

// waitCycle waits for a background cycle, giving up after shutdownWait
func waitCycle(sched *scheduler.Scheduler) {
	done := make(chan struct{})
	go func() {
		sched.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownWait):
		lgr.Printf("[WARN] scrape cycle still running after %v, exiting anyway", shutdownWait)
	}
}

func nonEmpty(vals ...string) []string {
	res := make([]string, 0, len(vals))
	for _, v := range vals {
		if v != "" {
			res = append(res, v)
		}
	}
	return res
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
