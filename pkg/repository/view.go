package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ViewRepository handles per-link view counters
type ViewRepository struct {
	db *sqlx.DB
}

// NewViewRepository creates a new view repository
func NewViewRepository(db *sqlx.DB) *ViewRepository {
	return &ViewRepository{db: db}
}

// Increment adds one view to the link and returns the new count
func (r *ViewRepository) Increment(ctx context.Context, link string) (int64, error) {
	if link == "" {
		return 0, errors.New("empty link")
	}
	var count int64
	err := withRetry(ctx, func() error {
		query := `
			INSERT INTO views (link, count, updated_at) VALUES (?, 1, CURRENT_TIMESTAMP)
			ON CONFLICT(link) DO UPDATE SET count = count + 1, updated_at = CURRENT_TIMESTAMP
			RETURNING count
		`
		return r.db.GetContext(ctx, &count, query, link)
	})
	if err != nil {
		return 0, fmt.Errorf("increment views for %s: %w", link, err)
	}
	return count, nil
}

// Get returns views of a single link, zero if never viewed
func (r *ViewRepository) Get(ctx context.Context, link string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT count FROM views WHERE link = ?", link)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get views: %w", err)
	}
	return count, nil
}

// Counts returns views for the given links, links never viewed are absent from the result
func (r *ViewRepository) Counts(ctx context.Context, links []string) (map[string]int64, error) {
	res := make(map[string]int64, len(links))
	if len(links) == 0 {
		return res, nil
	}

	// sqlite limits bound parameters per statement
	const batch = 500
	for start := 0; start < len(links); start += batch {
		end := min(start+batch, len(links))
		query, args, err := sqlx.In("SELECT link, count FROM views WHERE link IN (?)", links[start:end])
		if err != nil {
			return nil, fmt.Errorf("build views query: %w", err)
		}
		var rows []struct {
			Link  string `db:"link"`
			Count int64  `db:"count"`
		}
		if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("get view counts: %w", err)
		}
		for _, row := range rows {
			res[row.Link] = row.Count
		}
	}
	return res, nil
}
