package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Repositories {
	t.Helper()
	repos, err := NewRepositories(context.Background(), Config{DSN: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, repos.Close()) })
	return repos
}

func TestRepositories_FileDB(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?mode=rwc&_txlock=immediate"
	repos, err := NewRepositories(context.Background(), Config{DSN: dsn, MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, repos.Ping(context.Background()))

	_, err = repos.View.Increment(context.Background(), "https://example.com/a")
	require.NoError(t, err)
	require.NoError(t, repos.Close())

	// reopen keeps data and schema init is idempotent
	repos, err = NewRepositories(context.Background(), Config{DSN: dsn, MaxOpenConns: 1})
	require.NoError(t, err)
	defer repos.Close()
	count, err := repos.View.Get(context.Background(), "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepositories_SchemaVersion(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "version.db") + "?mode=rwc&_txlock=immediate"
	repos, err := NewRepositories(context.Background(), Config{DSN: dsn, MaxOpenConns: 1})
	require.NoError(t, err)

	var version int
	require.NoError(t, repos.DB.Get(&version, "PRAGMA user_version"))
	assert.Equal(t, schemaVersion, version)

	_, err = repos.DB.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion+1))
	require.NoError(t, err)
	require.NoError(t, repos.Close())

	_, err = NewRepositories(context.Background(), Config{DSN: dsn, MaxOpenConns: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestViewRepository(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	count, err := repos.View.Get(ctx, "https://example.com/none")
	require.NoError(t, err)
	assert.Zero(t, count)

	for i := 1; i <= 3; i++ {
		count, err = repos.View.Increment(ctx, "https://example.com/a")
		require.NoError(t, err)
		assert.Equal(t, int64(i), count)
	}
	_, err = repos.View.Increment(ctx, "https://example.com/b")
	require.NoError(t, err)

	_, err = repos.View.Increment(ctx, "")
	require.Error(t, err)

	counts, err := repos.View.Counts(ctx, []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"https://example.com/a": 3, "https://example.com/b": 1}, counts)

	counts, err = repos.View.Counts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestViewRepository_CountsLargeBatch(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	links := make([]string, 0, 1200)
	for i := range 1200 {
		links = append(links, fmt.Sprintf("https://example.com/%d", i))
	}
	for _, l := range []string{links[0], links[600], links[1199]} {
		_, err := repos.View.Increment(ctx, l)
		require.NoError(t, err)
	}

	counts, err := repos.View.Counts(ctx, links)
	require.NoError(t, err)
	assert.Len(t, counts, 3)
	assert.Equal(t, int64(1), counts[links[1199]])
}

func TestViewRepository_ConcurrentIncrement(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "concurrent.db") + "?mode=rwc&_txlock=immediate&_pragma=busy_timeout(5000)"
	repos, err := NewRepositories(context.Background(), Config{DSN: dsn, MaxOpenConns: 4})
	require.NoError(t, err)
	defer repos.Close()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repos.View.Increment(context.Background(), "https://example.com/hot")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := repos.View.Get(context.Background(), "https://example.com/hot")
	require.NoError(t, err)
	assert.Equal(t, int64(20), count)
}

func TestNotificationRepository(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	sent, err := repos.Notification.SentLinks(ctx, "user1", []string{"l1", "l2"})
	require.NoError(t, err)
	assert.Empty(t, sent)

	require.NoError(t, repos.Notification.MarkSent(ctx, "user1", []string{"l1", "l2"}))
	require.NoError(t, repos.Notification.MarkSent(ctx, "user1", []string{"l2", "l3"}), "duplicates ignored")
	require.NoError(t, repos.Notification.MarkSent(ctx, "user2", []string{"l1"}))
	require.NoError(t, repos.Notification.MarkSent(ctx, "user2", nil))

	sent, err = repos.Notification.SentLinks(ctx, "user1", []string{"l1", "l2", "l3", "l4"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"l1": true, "l2": true, "l3": true}, sent)

	sent, err = repos.Notification.SentLinks(ctx, "user2", []string{"l1", "l2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"l1": true}, sent)

	sent, err = repos.Notification.SentLinks(ctx, "user3", nil)
	require.NoError(t, err)
	assert.Empty(t, sent)
}

func TestNotificationRepository_Cleanup(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repos.Notification.MarkSent(ctx, "user1", []string{"fresh"}))
	old := time.Now().UTC().Add(-10 * 24 * time.Hour).Format("2006-01-02 15:04:05")
	_, err := repos.DB.ExecContext(ctx, "INSERT INTO sent_notifications (user_id, link, sent_at) VALUES (?, ?, ?)", "user1", "old", old)
	require.NoError(t, err)

	removed, err := repos.Notification.Cleanup(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	sent, err := repos.Notification.SentLinks(ctx, "user1", []string{"fresh", "old"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"fresh": true}, sent)
}

func TestWithRetry(t *testing.T) {
	t.Run("lock error retried", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("database is locked (5) (SQLITE_BUSY)")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("other error stops", func(t *testing.T) {
		calls := 0
		sentinel := errors.New("constraint failed")
		err := withRetry(context.Background(), func() error {
			calls++
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)
		assert.Equal(t, 1, calls)
	})

	t.Run("lock error exhausts attempts", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), func() error {
			calls++
			return errors.New("database is locked")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database is locked")
		assert.Greater(t, calls, 1)
		assert.LessOrEqual(t, calls, 5)
	})
}

func TestIsLockError(t *testing.T) {
	assert.False(t, isLockError(nil))
	assert.True(t, isLockError(errors.New("SQLITE_BUSY")))
	assert.True(t, isLockError(errors.New("database table is locked")))
	assert.False(t, isLockError(errors.New("no such table")))
}
