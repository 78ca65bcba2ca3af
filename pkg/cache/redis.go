package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/redis/go-redis/v9"

	"github.com/umputun/newspulse/pkg/domain"
)

const defaultKeyPrefix = "newspulse:article:"

// RedisOptions defines connection and retention of the redis cache
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration // entry lifetime, slightly above the retention window
	Prefix   string
}

// Redis is a cache shared between processes, entries stored as JSON with TTL
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis connects to redis and checks the connection
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis %s: %w", opts.Addr, err)
	}
	lgr.Printf("[INFO] connected to redis at %s", opts.Addr)
	return NewRedisWithClient(client, opts), nil
}

// NewRedisWithClient wraps an existing client
func NewRedisWithClient(client *redis.Client, opts RedisOptions) *Redis {
	if opts.TTL <= 0 {
		opts.TTL = 8 * 24 * time.Hour
	}
	if opts.Prefix == "" {
		opts.Prefix = defaultKeyPrefix
	}
	return &Redis{client: client, ttl: opts.TTL, prefix: opts.Prefix}
}

// Lookup returns cached fields for link, redis errors are logged and reported as a miss
func (r *Redis) Lookup(ctx context.Context, link string) (domain.EnrichmentResult, bool) {
	res, ok, err := r.get(ctx, link)
	if err != nil {
		lgr.Printf("[WARN] cache lookup for %s failed: %v", link, err)
		return domain.EnrichmentResult{}, false
	}
	return res, ok
}

// Record stores fields for link, keeping populated content of an existing entry
func (r *Redis) Record(ctx context.Context, link string, res domain.EnrichmentResult) {
	prev, _, err := r.get(ctx, link)
	if err != nil {
		lgr.Printf("[WARN] cache read before record for %s failed: %v", link, err)
	}
	if err := r.set(ctx, r.client, link, mergeEntry(prev, res)); err != nil {
		lgr.Printf("[WARN] cache record for %s failed: %v", link, err)
	}
}

// Warm stores fields of persisted records in one pipeline, existing keys are overwritten
func (r *Redis) Warm(ctx context.Context, records []domain.NewsRecord) {
	if len(records) == 0 {
		return
	}
	pipe := r.client.Pipeline()
	for _, rec := range records {
		if rec.Link == "" {
			continue
		}
		if err := r.set(ctx, pipe, rec.Link, rec.Enrichment()); err != nil {
			lgr.Printf("[WARN] cache warm for %s failed: %v", rec.Link, err)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		lgr.Printf("[WARN] cache warm failed: %v", err)
		return
	}
	lgr.Printf("[DEBUG] cache warmed with %d records", len(records))
}

// Close closes the redis connection
func (r *Redis) Close() error {
	return r.client.Close()
}

// Key returns the redis key for link
func (r *Redis) Key(link string) string {
	hash := sha256.Sum256([]byte(link))
	return fmt.Sprintf("%s%x", r.prefix, hash[:12])
}

type storedEntry struct {
	domain.EnrichmentResult
	Enriched bool `json:"enriched"`
}

func (r *Redis) get(ctx context.Context, link string) (domain.EnrichmentResult, bool, error) {
	data, err := r.client.Get(ctx, r.Key(link)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.EnrichmentResult{}, false, nil
	}
	if err != nil {
		return domain.EnrichmentResult{}, false, fmt.Errorf("get %s: %w", link, err)
	}
	var entry storedEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// corrupted entry is a miss
		r.client.Del(ctx, r.Key(link))
		return domain.EnrichmentResult{}, false, nil
	}
	res := entry.EnrichmentResult
	res.Enriched = entry.Enriched
	return res, true, nil
}

func (r *Redis) set(ctx context.Context, cmd redis.Cmdable, link string, res domain.EnrichmentResult) error {
	data, err := json.Marshal(storedEntry{EnrichmentResult: res, Enriched: res.Enriched})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", link, err)
	}
	return cmd.Set(ctx, r.Key(link), data, r.ttl).Err()
}
