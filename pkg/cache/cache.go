// Package cache keeps last-known enrichment fields per article link, so a restart or a repeated
// listing scan does not force re-enrichment of articles that already have content.
package cache

import (
	"context"
	"sync"

	"github.com/umputun/newspulse/pkg/domain"
)

// Memory is an in-process cache, entries live for the life of the process
type Memory struct {
	mu      sync.RWMutex
	entries map[string]domain.EnrichmentResult
}

// NewMemory makes an empty memory cache
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]domain.EnrichmentResult)}
}

// Lookup returns cached fields for link
func (m *Memory) Lookup(_ context.Context, link string) (domain.EnrichmentResult, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res, ok := m.entries[link]
	return res, ok
}

// Record stores fields for link. Populated content of an existing entry is kept if the new one has none.
func (m *Memory) Record(_ context.Context, link string, res domain.EnrichmentResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[link] = mergeEntry(m.entries[link], res)
}

// Warm loads fields of persisted records
func (m *Memory) Warm(_ context.Context, records []domain.NewsRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		if r.Link == "" {
			continue
		}
		m.entries[r.Link] = mergeEntry(m.entries[r.Link], r.Enrichment())
	}
}

// Len returns number of cached links
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// mergeEntry overlays upd on prev without blanking populated fields
func mergeEntry(prev, upd domain.EnrichmentResult) domain.EnrichmentResult {
	res := upd
	if res.ImageURL == "" {
		res.ImageURL = prev.ImageURL
	}
	if res.Timestamp == "" {
		res.Timestamp = prev.Timestamp
	}
	if res.Sentiment == "" {
		res.Sentiment, res.SentimentScore = prev.Sentiment, prev.SentimentScore
	}
	if prev.HasContent() {
		res.FullContent = prev.FullContent
	}
	res.Enriched = res.Enriched || prev.Enriched
	return res
}
