// Package scheduler runs scrape cycles: scan category listings, enrich new articles,
// merge them into the existing record set, apply retention and cap, persist and publish.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/newspulse/pkg/domain"
)

//go:generate moq -out mocks/scanner.go -pkg mocks -skip-ensure -fmt goimports . Scanner
//go:generate moq -out mocks/enricher.go -pkg mocks -skip-ensure -fmt goimports . Enricher
//go:generate moq -out mocks/cache.go -pkg mocks -skip-ensure -fmt goimports . FetchCache
//go:generate moq -out mocks/persister.go -pkg mocks -skip-ensure -fmt goimports . Persister

// ErrCycleRunning returned when a cycle is requested while another one is in progress
var ErrCycleRunning = errors.New("scrape cycle already running")

// Scanner extracts article stubs from a category listing
type Scanner interface {
	Scan(ctx context.Context, cat domain.Category) ([]domain.ArticleStub, error)
}

// Enricher resolves article details, never fails
type Enricher interface {
	Enrich(ctx context.Context, stub domain.ArticleStub) domain.EnrichmentResult
}

// FetchCache keeps last-known enrichment per link
type FetchCache interface {
	Lookup(ctx context.Context, link string) (domain.EnrichmentResult, bool)
	Record(ctx context.Context, link string, res domain.EnrichmentResult)
	Warm(ctx context.Context, records []domain.NewsRecord)
}

// Persister writes the snapshot file
type Persister interface {
	Save(records []domain.NewsRecord) error
}

// Publisher swaps the in-memory snapshot
type Publisher interface {
	Publish(records []domain.NewsRecord, capturedAt time.Time)
}

// Params defines dependencies and limits of the Scheduler
type Params struct {
	Scanner   Scanner
	Enricher  Enricher
	Cache     FetchCache
	Persister Persister
	Publisher Publisher

	Categories    []domain.Category
	ScanWorkers   int           // listing fetch pool width
	EnrichWorkers int           // article fetch pool width
	Retention     time.Duration // records older than this are dropped
	MaxRecords    int           // cap of the persisted set
	CycleTimeout  time.Duration // overall limit of a background cycle, zero for none
	Location      *time.Location
	Now           func() time.Time
}

// Scheduler runs scrape cycles, at most one at a time
type Scheduler struct {
	Params
	running atomic.Bool
	wg      sync.WaitGroup
}

// NewScheduler makes a scheduler, zero limits get defaults
func NewScheduler(params Params) *Scheduler {
	if params.ScanWorkers <= 0 {
		params.ScanWorkers = 10
	}
	if params.EnrichWorkers <= 0 {
		params.EnrichWorkers = 10
	}
	if params.Retention <= 0 {
		params.Retention = 7 * 24 * time.Hour
	}
	if params.MaxRecords <= 0 {
		params.MaxRecords = 1000
	}
	if params.Location == nil {
		params.Location = time.Local
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &Scheduler{Params: params}
}

// TryRunCycle runs a cycle unless one is already running, in which case ErrCycleRunning returned.
// A panic inside the cycle is recovered and returned as an error.
func (s *Scheduler) TryRunCycle(ctx context.Context, existing []domain.NewsRecord) (res []domain.NewsRecord, err error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrCycleRunning
	}
	defer func() {
		if r := recover(); r != nil {
			lgr.Printf("[ERROR] scrape cycle panic: %v", r)
			res, err = nil, fmt.Errorf("scrape cycle panic: %v", r)
		}
		s.running.Store(false)
	}()
	return s.RunCycle(ctx, existing)
}

// Running reports whether a cycle is in progress
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// Trigger starts a cycle in background on its own context, it is not tied to the caller.
// A trigger while a cycle is running does nothing.
func (s *Scheduler) Trigger(existing []domain.NewsRecord) {
	if s.running.Load() {
		lgr.Printf("[DEBUG] scrape cycle already running, trigger skipped")
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx := context.Background()
		if s.CycleTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.CycleTimeout)
			defer cancel()
		}
		_, err := s.TryRunCycle(ctx, existing)
		switch {
		case errors.Is(err, ErrCycleRunning):
			lgr.Printf("[DEBUG] scrape cycle already running, trigger skipped")
		case err != nil:
			lgr.Printf("[WARN] background scrape cycle: %v", err)
		}
	}()
}

// Wait blocks until all triggered background cycles are done
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// RunCycle scans all categories, enriches what the cache can't satisfy, merges with existing records,
// applies retention and cap, persists and publishes the result. The snapshot is published even if
// persisting fails, the persist error is returned along with the records.
func (s *Scheduler) RunCycle(ctx context.Context, existing []domain.NewsRecord) ([]domain.NewsRecord, error) {
	st := s.Now()
	lgr.Printf("[INFO] scrape cycle started, %d categories, %d existing records", len(s.Categories), len(existing))

	stubs := s.scanAll(ctx)
	if len(stubs) == 0 {
		lgr.Printf("[WARN] scrape cycle found no articles")
	}

	ready, pending := s.partition(ctx, stubs)
	enriched := s.enrichAll(ctx, pending)

	merged := merge(existing, append(ready, enriched...))
	records := s.retain(merged)
	s.sortRecords(records)
	if len(records) > s.MaxRecords {
		records = records[:s.MaxRecords]
	}

	var persistErr error
	if err := s.Persister.Save(records); err != nil {
		lgr.Printf("[WARN] %v", err)
		persistErr = err
	}
	s.Publisher.Publish(records, s.Now())

	lgr.Printf("[INFO] scrape cycle finished in %v, %d records (%d merged, %d scanned, %d enriched)",
		s.Now().Sub(st).Round(time.Millisecond), len(records), len(merged), len(stubs), len(pending))
	return records, persistErr
}

// Scan runs the listing phase only and returns placeholder records for all found articles.
// Cached fields are applied, nothing is persisted or published.
func (s *Scheduler) Scan(ctx context.Context) []domain.NewsRecord {
	stubs := s.scanAll(ctx)
	res := make([]domain.NewsRecord, 0, len(stubs))
	for _, stub := range stubs {
		rec := s.placeholder(stub)
		if cached, ok := s.Cache.Lookup(ctx, stub.Link); ok {
			applyCached(&rec, cached)
		}
		res = append(res, rec)
	}
	lgr.Printf("[INFO] listing scan found %d articles", len(res))
	return res
}

// scanAll fetches all categories in parallel, a failed category contributes nothing.
// Stubs are returned in category order, first occurrence of a link wins.
func (s *Scheduler) scanAll(ctx context.Context) []domain.ArticleStub {
	results := make([][]domain.ArticleStub, len(s.Categories))
	var g errgroup.Group
	g.SetLimit(s.ScanWorkers)
	for i, cat := range s.Categories {
		g.Go(func() error {
			stubs, err := s.Scanner.Scan(ctx, cat)
			if err != nil {
				lgr.Printf("[WARN] failed to scan category %s: %v", cat.Name, err)
				return nil
			}
			lgr.Printf("[DEBUG] category %s: %d articles", cat.Name, len(stubs))
			results[i] = stubs
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]bool)
	var res []domain.ArticleStub
	for _, stubs := range results {
		for _, stub := range stubs {
			if stub.Link == "" || seen[stub.Link] {
				continue
			}
			seen[stub.Link] = true
			res = append(res, stub)
		}
	}
	return res
}

// pendingItem is a placeholder waiting for enrichment together with its stub
type pendingItem struct {
	stub   domain.ArticleStub
	record domain.NewsRecord
}

// partition splits stubs into records fully satisfied by the cache and placeholders to enrich.
// Cache-satisfied articles with a cached timestamp older than retention are dropped.
func (s *Scheduler) partition(ctx context.Context, stubs []domain.ArticleStub) (ready []domain.NewsRecord, pending []pendingItem) {
	cutoff := s.Now().Add(-s.Retention)
	for _, stub := range stubs {
		cached, ok := s.Cache.Lookup(ctx, stub.Link)
		if ok && cached.HasContent() {
			if ts, err := domain.ParseTimestamp(cached.Timestamp, s.Location); err == nil && ts.Before(cutoff) {
				lgr.Printf("[DEBUG] skipping cached old article %s (%s)", stub.Link, cached.Timestamp)
				continue
			}
			rec := domain.NewsRecord{Link: stub.Link, Headline: stub.Headline, Category: stub.Category}
			rec.Apply(cached)
			ready = append(ready, rec)
			continue
		}

		rec := s.placeholder(stub)
		if ok {
			applyCached(&rec, cached)
		}
		pending = append(pending, pendingItem{stub: stub, record: rec})
	}
	return ready, pending
}

// enrichAll enriches placeholders in parallel, results are in input order
func (s *Scheduler) enrichAll(ctx context.Context, items []pendingItem) []domain.NewsRecord {
	res := make([]domain.NewsRecord, len(items))
	var g errgroup.Group
	g.SetLimit(s.EnrichWorkers)
	for i, item := range items {
		g.Go(func() error {
			rec := item.record
			er := s.Enricher.Enrich(ctx, item.stub)
			if !er.Enriched {
				// article not fetched, keep placeholder values and retry on the next cycle
				if er.Sentiment != "" {
					rec.Sentiment, rec.SentimentScore = er.Sentiment, er.SentimentScore
				}
				res[i] = rec
				return nil
			}
			rec.Apply(er)
			s.Cache.Record(ctx, rec.Link, rec.Enrichment())
			res[i] = rec
			return nil
		})
	}
	_ = g.Wait()
	return res
}

// placeholder makes a minimal record from a stub, timestamp from the listing hint or now
func (s *Scheduler) placeholder(stub domain.ArticleStub) domain.NewsRecord {
	ts := s.Now()
	if stub.ListingHint != nil {
		ts = *stub.ListingHint
	}
	return domain.NewsRecord{
		Link:            stub.Link,
		Headline:        stub.Headline,
		Category:        stub.Category,
		Timestamp:       domain.FormatTimestamp(ts, s.Location),
		Sentiment:       domain.SentimentNeutral,
		NeedsEnrichment: true,
	}
}

// applyCached copies cached scalar fields onto a placeholder, content is left for enrichment
func applyCached(rec *domain.NewsRecord, cached domain.EnrichmentResult) {
	if cached.ImageURL != "" {
		rec.ImageURL = cached.ImageURL
	}
	if cached.Timestamp != "" {
		rec.Timestamp = cached.Timestamp
	}
	if cached.Sentiment != "" {
		rec.Sentiment, rec.SentimentScore = cached.Sentiment, cached.SentimentScore
	}
	if cached.HasContent() {
		rec.FullContent = cached.FullContent
		rec.NeedsEnrichment = false
	}
}
