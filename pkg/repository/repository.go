// Package repository keeps the small relational state of the service in SQLite:
// per-link view counts and the log of links already sent to watchlist users.
package repository

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stored in PRAGMA user_version after the schema is applied
const schemaVersion = 1

const defaultDSN = "file:newspulse.db?mode=rwc&_txlock=immediate&_pragma=busy_timeout(5000)"

// Config represents database configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Repositories groups repositories sharing one database handle
type Repositories struct {
	View         *ViewRepository
	Notification *NotificationRepository
	DB           *sqlx.DB
}

// NewRepositories opens the database, applies settings and schema and makes repositories
func NewRepositories(ctx context.Context, cfg Config) (*Repositories, error) {
	if cfg.DSN == "" {
		cfg.DSN = defaultDSN
	}

	db, err := sqlx.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	cfg.applyPool(db)

	if err := prepare(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{View: NewViewRepository(db), Notification: NewNotificationRepository(db), DB: db}, nil
}

func (c Config) applyPool(db *sqlx.DB) {
	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(c.ConnMaxLifetime)
	}
}

// prepare sets WAL mode and brings the schema to schemaVersion
func prepare(ctx context.Context, db *sqlx.DB) error {
	for _, pragma := range []string{"journal_mode = WAL", "synchronous = NORMAL", "temp_store = MEMORY"} {
		if _, err := db.ExecContext(ctx, "PRAGMA "+pragma); err != nil {
			return fmt.Errorf("set pragma %s: %w", pragma, err)
		}
	}

	var version int
	if err := db.GetContext(ctx, &version, "PRAGMA user_version"); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported %d", version, schemaVersion)
	}
	if version == schemaVersion {
		return nil
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	lgr.Printf("[INFO] database schema upgraded from version %d to %d", version, schemaVersion)
	return nil
}

// Close closes the database connection
func (r *Repositories) Close() error {
	return r.DB.Close()
}

// Ping verifies the database connection
func (r *Repositories) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
