package scheduler

import (
	"slices"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newspulse/pkg/domain"
)

// merge overlays fresh records on existing ones by link. Existing populated fields are only
// replaced by fields of an enriched fresh record, populated content is never replaced or blanked.
// Result order is existing records first, then new links in fresh order.
func merge(existing, fresh []domain.NewsRecord) []domain.NewsRecord {
	index := make(map[string]int, len(existing)+len(fresh))
	res := make([]domain.NewsRecord, 0, len(existing)+len(fresh))
	add := func(r domain.NewsRecord) {
		if i, ok := index[r.Link]; ok {
			res[i] = overlay(res[i], r)
			return
		}
		index[r.Link] = len(res)
		res = append(res, r)
	}
	for _, r := range existing {
		add(r)
	}
	for _, r := range fresh {
		add(r)
	}
	return res
}

// overlay applies upd to prev. A placeholder (NeedsEnrichment) only fills absent fields.
func overlay(prev, upd domain.NewsRecord) domain.NewsRecord {
	res := prev
	fill := func(dst *string, v string, replace bool) {
		if v != "" && (replace || *dst == "") {
			*dst = v
		}
	}
	enriched := !upd.NeedsEnrichment

	fill(&res.Headline, upd.Headline, true)
	fill(&res.Category, upd.Category, true)
	fill(&res.ImageURL, upd.ImageURL, enriched)
	fill(&res.Timestamp, upd.Timestamp, enriched)
	if upd.Sentiment != "" && (enriched || res.Sentiment == "") {
		res.Sentiment, res.SentimentScore = upd.Sentiment, upd.SentimentScore
	}
	fill(&res.FullContent, upd.FullContent, false)
	res.NeedsEnrichment = prev.NeedsEnrichment && upd.NeedsEnrichment
	return res
}

// retain drops records older than retention, records with unparseable timestamps are kept
func (s *Scheduler) retain(records []domain.NewsRecord) []domain.NewsRecord {
	cutoff := s.Now().Add(-s.Retention)
	res := make([]domain.NewsRecord, 0, len(records))
	for _, r := range records {
		ts, err := domain.ParseTimestamp(r.Timestamp, s.Location)
		if err != nil {
			lgr.Printf("[DEBUG] keeping %s with unparseable timestamp %q", r.Link, r.Timestamp)
			res = append(res, r)
			continue
		}
		if ts.Before(cutoff) {
			lgr.Printf("[DEBUG] dropping old article %s (%s)", r.Link, r.Timestamp)
			continue
		}
		res = append(res, r)
	}
	return res
}

// sortRecords orders by parsed timestamp, most recent first. Unparseable timestamps go last,
// ties keep their relative order.
func (s *Scheduler) sortRecords(records []domain.NewsRecord) {
	keys := make(map[string]time.Time, len(records))
	for _, r := range records {
		if ts, err := domain.ParseTimestamp(r.Timestamp, s.Location); err == nil {
			keys[r.Link] = ts
		}
	}
	slices.SortStableFunc(records, func(a, b domain.NewsRecord) int {
		return keys[b.Link].Compare(keys[a.Link])
	})
}
