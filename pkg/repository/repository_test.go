package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/intellect/pkg/domain"
)

// setupTestDB creates in-memory repositories, single connection keeps the in-memory database alive
func setupTestDB(t *testing.T) *Repositories {
	t.Helper()
	repos, err := NewRepositories(context.Background(), Config{DSN: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

func newArticle(i int) *domain.Article {
	return &domain.Article{
		Source:    "Example",
		Platform:  domain.PlatformRSS,
		URL:       fmt.Sprintf("https://example.com/post-%d", i),
		Title:     fmt.Sprintf("Post %d", i),
		Content:   fmt.Sprintf("content %d", i),
		Timestamp: time.Date(2025, 1, i, 12, 0, 0, 0, time.UTC),
		Thumbnail: "https://placehold.co/64x64?text=No+Image",
	}
}

func TestRepositories_Ping(t *testing.T) {
	repos := setupTestDB(t)
	require.NoError(t, repos.Ping(context.Background()))
}

func TestRepositories_FileDB(t *testing.T) {
	dsn := "file:" + t.TempDir() + "/test.db?mode=rwc"
	repos, err := NewRepositories(context.Background(), Config{DSN: dsn})
	require.NoError(t, err)

	a := newArticle(1)
	_, err = repos.Article.CreateArticle(context.Background(), a)
	require.NoError(t, err)
	require.NoError(t, repos.Close())

	// schema init is idempotent and data survives reopen
	repos, err = NewRepositories(context.Background(), Config{DSN: dsn})
	require.NoError(t, err)
	defer repos.Close()
	keys, err := repos.Article.URLKeys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/post-1"}, keys)
}

func TestRetryOnLock(t *testing.T) {
	t.Run("lock error retried", func(t *testing.T) {
		calls := 0
		err := retryOnLock(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("database is locked (5) (SQLITE_BUSY)")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("other error not retried", func(t *testing.T) {
		calls := 0
		sentinel := errors.New("constraint failed")
		err := retryOnLock(context.Background(), func() error {
			calls++
			return sentinel
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, sentinel)
		assert.Equal(t, 1, calls)
	})

	t.Run("not found passes through", func(t *testing.T) {
		err := retryOnLock(context.Background(), func() error { return ErrNotFound })
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestIsLockError(t *testing.T) {
	assert.False(t, isLockError(nil))
	assert.True(t, isLockError(errors.New("SQLITE_BUSY")))
	assert.True(t, isLockError(errors.New("database table is locked")))
	assert.False(t, isLockError(errors.New("no such table")))
}
