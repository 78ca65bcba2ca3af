package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// NotificationRepository keeps the log of links delivered to watchlist users
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// SentLinks returns the subset of links already sent to the user
func (r *NotificationRepository) SentLinks(ctx context.Context, user string, links []string) (map[string]bool, error) {
	res := make(map[string]bool)
	if len(links) == 0 {
		return res, nil
	}
	const batch = 500
	for start := 0; start < len(links); start += batch {
		end := min(start+batch, len(links))
		query, args, err := sqlx.In("SELECT link FROM sent_notifications WHERE user_id = ? AND link IN (?)", user, links[start:end])
		if err != nil {
			return nil, fmt.Errorf("build sent links query: %w", err)
		}
		var sent []string
		if err := r.db.SelectContext(ctx, &sent, r.db.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("get sent links: %w", err)
		}
		for _, l := range sent {
			res[l] = true
		}
	}
	return res, nil
}

// MarkSent records links as delivered to the user, already recorded links are ignored
func (r *NotificationRepository) MarkSent(ctx context.Context, user string, links []string) error {
	if len(links) == 0 {
		return nil
	}
	err := withRetry(ctx, func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		stmt, err := tx.PreparexContext(ctx, "INSERT OR IGNORE INTO sent_notifications (user_id, link) VALUES (?, ?)")
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, link := range links {
			if _, err := stmt.ExecContext(ctx, user, link); err != nil {
				return fmt.Errorf("insert %s: %w", link, err)
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return fmt.Errorf("mark sent for %s: %w", user, err)
	}
	return nil
}

// Cleanup removes sent records older than the given age and returns how many were removed
func (r *NotificationRepository) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format("2006-01-02 15:04:05")
	var removed int64
	err := withRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, "DELETE FROM sent_notifications WHERE sent_at < ?", cutoff)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("cleanup sent notifications: %w", err)
	}
	return removed, nil
}
