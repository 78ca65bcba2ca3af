// Package snapshot owns the published record set. Store is the lock-free in-memory snapshot,
// File is its flat JSON copy on disk.
package snapshot

import (
	"sync/atomic"
	"time"

	"github.com/umputun/newspulse/pkg/domain"
)

// Snapshot is an immutable published record set with its capture time
type Snapshot struct {
	Records    []domain.NewsRecord
	CapturedAt time.Time
}

// Age returns time passed since capture
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.CapturedAt)
}

// Store publishes snapshots atomically, readers see either the old or the new one
type Store struct {
	current atomic.Pointer[Snapshot]
}

// Get returns the current snapshot, nil if nothing published yet
func (s *Store) Get() *Snapshot {
	return s.current.Load()
}

// Publish replaces the current snapshot. Records are copied so later changes
// to the caller's slice are not visible to readers.
func (s *Store) Publish(records []domain.NewsRecord, capturedAt time.Time) {
	recs := make([]domain.NewsRecord, len(records))
	copy(recs, records)
	s.current.Store(&Snapshot{Records: recs, CapturedAt: capturedAt})
}

// Records returns a copy of the current records, empty if nothing published
func (s *Store) Records() []domain.NewsRecord {
	snap := s.current.Load()
	if snap == nil {
		return []domain.NewsRecord{}
	}
	res := make([]domain.NewsRecord, len(snap.Records))
	copy(res, snap.Records)
	return res
}
