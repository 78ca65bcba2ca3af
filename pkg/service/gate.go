// Package service implements the read side of the pipeline. Gate decides on each read whether the
// published snapshot is served as is, reloaded from the snapshot file or rebuilt by a listing scan,
// and kicks background scrape cycles when data gets stale.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newspulse/pkg/domain"
	"github.com/umputun/newspulse/pkg/snapshot"
)

//go:generate moq -out mocks/snapshot_file.go -pkg mocks -skip-ensure -fmt goimports . SnapshotFile
//go:generate moq -out mocks/cycler.go -pkg mocks -skip-ensure -fmt goimports . Cycler
//go:generate moq -out mocks/cache_warmer.go -pkg mocks -skip-ensure -fmt goimports . CacheWarmer

// SnapshotFile is the persisted copy of the record set
type SnapshotFile interface {
	Load() ([]domain.NewsRecord, time.Time, error)
	Save(records []domain.NewsRecord) error
}

// Cycler runs listing scans and background scrape cycles
type Cycler interface {
	Scan(ctx context.Context) []domain.NewsRecord
	Trigger(existing []domain.NewsRecord)
}

// CacheWarmer loads persisted records into the fetch cache
type CacheWarmer interface {
	Warm(ctx context.Context, records []domain.NewsRecord)
}

// Gate serves the latest records with bounded staleness
type Gate struct {
	store  *snapshot.Store
	file   SnapshotFile
	cycler Cycler
	cache  CacheWarmer
	ttl    time.Duration
	now    func() time.Time

	loadMu sync.Mutex // serializes file reload and initial scan
}

// GateParams defines dependencies of the Gate
type GateParams struct {
	Store  *snapshot.Store
	File   SnapshotFile
	Cycler Cycler
	Cache  CacheWarmer
	TTL    time.Duration // snapshot younger than this is served without refresh, default 5m
	Now    func() time.Time
}

// NewGate makes a Gate
func NewGate(params GateParams) *Gate {
	res := &Gate{store: params.Store, file: params.File, cycler: params.Cycler, cache: params.Cache,
		ttl: params.TTL, now: params.Now}
	if res.store == nil {
		res.store = &snapshot.Store{}
	}
	if res.ttl <= 0 {
		res.ttl = 300 * time.Second
	}
	if res.now == nil {
		res.now = time.Now
	}
	return res
}

// GetLatest returns the current record set, used by the API layer which merges view counts on top
func (g *Gate) GetLatest(ctx context.Context) []domain.NewsRecord {
	return g.latest(ctx)
}

// GetLatestRaw returns the same record set for consumers needing unfiltered records with full content
func (g *Gate) GetLatestRaw(ctx context.Context) []domain.NewsRecord {
	return g.latest(ctx)
}

// latest implements the read policy: fresh snapshot, then snapshot file, then a synchronous listing scan.
// It never fails, the worst case is a stale or an empty list. Each call returns its own copy.
func (g *Gate) latest(ctx context.Context) []domain.NewsRecord {
	if g.fresh(g.store.Get()) {
		return g.store.Records()
	}

	g.loadMu.Lock()
	defer g.loadMu.Unlock()

	// another caller may have refreshed while we waited for the lock
	snap := g.store.Get()
	if g.fresh(snap) {
		return g.store.Records()
	}

	if recs, ok := g.loadFile(ctx, snap); ok {
		return recs
	}

	if snap != nil && len(snap.Records) > 0 {
		lgr.Printf("[INFO] snapshot is stale (%v), serving it and triggering refresh", snap.Age(g.now()).Round(time.Second))
		recs := g.store.Records()
		g.cycler.Trigger(recs)
		return recs
	}

	lgr.Printf("[INFO] no existing data, running initial listing scan")
	recs := g.cycler.Scan(ctx)
	if len(recs) == 0 {
		lgr.Printf("[WARN] initial listing scan found nothing")
		return []domain.NewsRecord{}
	}
	if err := g.file.Save(recs); err != nil {
		lgr.Printf("[WARN] %v", err)
	}
	g.store.Publish(recs, g.now())
	g.cycler.Trigger(recs)
	return g.store.Records()
}

// loadFile publishes the snapshot file if it is newer than the current snapshot and returns
// the served records. Stale data triggers a background cycle. Returns false if the file has nothing.
func (g *Gate) loadFile(ctx context.Context, current *snapshot.Snapshot) ([]domain.NewsRecord, bool) {
	recs, mtime, err := g.file.Load()
	if err != nil {
		if !errors.Is(err, snapshot.ErrNotFound) {
			lgr.Printf("[WARN] failed to load snapshot file: %v", err)
		}
		return nil, false
	}
	if len(recs) == 0 {
		return nil, false
	}

	if current == nil || len(current.Records) == 0 || mtime.After(current.CapturedAt) {
		g.cache.Warm(ctx, recs)
		g.store.Publish(recs, mtime)
		lgr.Printf("[INFO] loaded %d records from snapshot file, modified %s", len(recs), mtime.Format(time.RFC3339))
	}

	res := g.store.Records()
	if g.fresh(g.store.Get()) {
		return res, true
	}
	lgr.Printf("[INFO] snapshot expired, serving stale data and triggering refresh")
	g.cycler.Trigger(res)
	return res, true
}

func (g *Gate) fresh(snap *snapshot.Snapshot) bool {
	return snap != nil && len(snap.Records) > 0 && snap.Age(g.now()) < g.ttl
}
