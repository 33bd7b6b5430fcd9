package tagger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/intellect/pkg/domain"
	"github.com/umputun/intellect/pkg/repository"
	"github.com/umputun/intellect/pkg/tagger/mocks"
)

func setupRepo(t *testing.T) *repository.Repositories {
	t.Helper()
	repos, err := repository.NewRepositories(context.Background(), repository.Config{DSN: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

// addArticles stores n pending articles, created in order so the last one is the most recent
func addArticles(t *testing.T, repos *repository.Repositories, n int) []int64 {
	t.Helper()
	ids := make([]int64, 0, n)
	for i := 1; i <= n; i++ {
		a := &domain.Article{
			Source:    "Example",
			Platform:  domain.PlatformRSS,
			URL:       fmt.Sprintf("https://example.com/post-%d", i),
			Title:     fmt.Sprintf("Post %d", i),
			Content:   fmt.Sprintf("content %d", i),
			Timestamp: time.Date(2025, 3, i, 0, 0, 0, 0, time.UTC),
		}
		inserted, err := repos.Article.CreateArticle(context.Background(), a)
		require.NoError(t, err)
		require.True(t, inserted)
		ids = append(ids, a.ID)
	}
	return ids
}

func okClassifier() *mocks.ClassifierMock {
	return &mocks.ClassifierMock{ClassifyFunc: func(ctx context.Context, text string) (domain.Classification, error) {
		return domain.Classification{Tags: []string{"ai", text}, Category: "AI Research"}, nil
	}}
}

func TestTagger_ClassifyBatch_LimitsBatch(t *testing.T) {
	repos := setupRepo(t)
	ids := addArticles(t, repos, 3)
	classifier := okClassifier()
	tg := New(Config{Store: repos.Article, Classifier: classifier, Timeout: time.Second})

	stats, err := tg.ClassifyBatch(context.Background(), domain.TagStatusPending, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalProcessed)
	assert.Equal(t, 2, stats.Successful)
	assert.Zero(t, stats.Failed)
	assert.Zero(t, stats.Skipped)
	assert.Empty(t, stats.Errors)
	require.Len(t, classifier.ClassifyCalls(), 2)
	assert.Equal(t, "content 3", classifier.ClassifyCalls()[0].Text, "most recently created first")

	// oldest article untouched
	untouched, err := repos.Article.GetArticle(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, domain.TagStatusPending, untouched.TagStatus)
	assert.Nil(t, untouched.Tags)

	tagged, err := repos.Article.GetArticle(context.Background(), ids[2])
	require.NoError(t, err)
	assert.Equal(t, domain.TagStatusTagged, tagged.TagStatus)
	assert.Equal(t, []string{"ai", "content 3"}, tagged.Tags)
	assert.Equal(t, "AI Research", tagged.Category)
}

func TestTagger_ClassifyBatch_FailureIsolated(t *testing.T) {
	repos := setupRepo(t)
	ids := addArticles(t, repos, 3)
	classifier := &mocks.ClassifierMock{ClassifyFunc: func(ctx context.Context, text string) (domain.Classification, error) {
		if text == "content 2" {
			return domain.Classification{}, errors.New("llm request failed: connection reset")
		}
		return domain.Classification{Tags: []string{"x"}, Category: "Robotics"}, nil
	}}
	tg := New(Config{Store: repos.Article, Classifier: classifier})

	stats, err := tg.ClassifyBatch(context.Background(), domain.TagStatusPending, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalProcessed)
	assert.Equal(t, 2, stats.Successful)
	assert.Equal(t, 1, stats.Failed)
	require.Len(t, stats.Errors, 1)
	assert.Contains(t, stats.Errors[0], "connection reset")
	require.Len(t, stats.Results, 3)

	failed, err := repos.Article.GetArticle(context.Background(), ids[1])
	require.NoError(t, err)
	assert.Equal(t, domain.TagStatusError, failed.TagStatus)
	assert.Nil(t, failed.Tags, "tags not set on failure")
	assert.Empty(t, failed.Category)
	assert.Contains(t, failed.TagError, "connection reset")

	for _, id := range []int64{ids[0], ids[2]} {
		a, err := repos.Article.GetArticle(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.TagStatusTagged, a.TagStatus)
	}
}

func TestTagger_RetryBatch_SelectsOnlyErrors(t *testing.T) {
	repos := setupRepo(t)
	ctx := context.Background()
	ids := addArticles(t, repos, 4)
	require.NoError(t, repos.Article.MarkTagged(ctx, ids[0], []string{"done"}, "Other"))
	require.NoError(t, repos.Article.MarkTagError(ctx, ids[1], "timeout"))
	require.NoError(t, repos.Article.MarkTagError(ctx, ids[2], "bad json"))
	// ids[3] stays pending

	classifier := okClassifier()
	tg := New(Config{Store: repos.Article, Classifier: classifier})

	stats, err := tg.RetryBatch(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalProcessed)
	assert.Equal(t, 2, stats.Successful)

	seen := map[string]bool{}
	for _, c := range classifier.ClassifyCalls() {
		seen[c.Text] = true
	}
	assert.Equal(t, map[string]bool{"content 2": true, "content 3": true}, seen)

	pending, err := repos.Article.GetArticle(ctx, ids[3])
	require.NoError(t, err)
	assert.Equal(t, domain.TagStatusPending, pending.TagStatus, "pending never selected by retry")
	tagged, err := repos.Article.GetArticle(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"done"}, tagged.Tags, "tagged never re-entered")
}

func TestTagger_ClassifyBatch_InvalidInput(t *testing.T) {
	store := &mocks.StoreMock{}
	tg := New(Config{Store: store, Classifier: okClassifier()})

	_, err := tg.ClassifyBatch(context.Background(), domain.TagStatusTagged, 10)
	require.ErrorIs(t, err, ErrInvalidStatusFilter)
	_, err = tg.ClassifyBatch(context.Background(), domain.TagStatus("weird"), 10)
	require.ErrorIs(t, err, ErrInvalidStatusFilter)
	_, err = tg.ClassifyBatch(context.Background(), domain.TagStatusPending, 0)
	require.Error(t, err)
	assert.Empty(t, store.ArticlesByTagStatusCalls())
}

func TestTagger_ClassifyBatch_StoreErrors(t *testing.T) {
	t.Run("select fails", func(t *testing.T) {
		store := &mocks.StoreMock{ArticlesByTagStatusFunc: func(ctx context.Context, status domain.TagStatus, limit int) ([]domain.Article, error) {
			return nil, errors.New("db closed")
		}}
		_, err := New(Config{Store: store, Classifier: okClassifier()}).ClassifyBatch(context.Background(), domain.TagStatusPending, 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db closed")
	})

	t.Run("mark tagged fails moves article to error", func(t *testing.T) {
		store := &mocks.StoreMock{
			ArticlesByTagStatusFunc: func(ctx context.Context, status domain.TagStatus, limit int) ([]domain.Article, error) {
				return []domain.Article{{ID: 1, URL: "https://example.com/1", Content: "c1"}}, nil
			},
			MarkTaggedFunc:   func(ctx context.Context, id int64, tags []string, category string) error { return errors.New("disk full") },
			MarkTagErrorFunc: func(ctx context.Context, id int64, errMsg string) error { return nil },
		}
		stats, err := New(Config{Store: store, Classifier: okClassifier()}).ClassifyBatch(context.Background(), domain.TagStatusPending, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Failed)
		require.Len(t, store.MarkTagErrorCalls(), 1)
		assert.Contains(t, store.MarkTagErrorCalls()[0].ErrMsg, "disk full")
	})

	t.Run("already tagged elsewhere not marked as error", func(t *testing.T) {
		store := &mocks.StoreMock{
			ArticlesByTagStatusFunc: func(ctx context.Context, status domain.TagStatus, limit int) ([]domain.Article, error) {
				return []domain.Article{{ID: 1, Content: "c1"}}, nil
			},
			MarkTaggedFunc: func(ctx context.Context, id int64, tags []string, category string) error {
				return fmt.Errorf("article 1: %w", domain.ErrInvalidTransition)
			},
		}
		stats, err := New(Config{Store: store, Classifier: okClassifier()}).ClassifyBatch(context.Background(), domain.TagStatusPending, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Failed)
		assert.Empty(t, store.MarkTagErrorCalls())
	})
}

func TestTagger_ClassifyBatch_Timeout(t *testing.T) {
	repos := setupRepo(t)
	ids := addArticles(t, repos, 2)
	classifier := &mocks.ClassifierMock{ClassifyFunc: func(ctx context.Context, text string) (domain.Classification, error) {
		if text == "content 2" {
			<-ctx.Done()
			return domain.Classification{}, ctx.Err()
		}
		return domain.Classification{Tags: []string{"fast"}, Category: "Other"}, nil
	}}
	tg := New(Config{Store: repos.Article, Classifier: classifier, Timeout: 50 * time.Millisecond})

	stats, err := tg.ClassifyBatch(context.Background(), domain.TagStatusPending, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Successful)
	assert.Equal(t, 1, stats.Failed)

	slow, err := repos.Article.GetArticle(context.Background(), ids[1])
	require.NoError(t, err)
	assert.Equal(t, domain.TagStatusError, slow.TagStatus)
	assert.Contains(t, slow.TagError, "deadline exceeded")
}

func TestTagger_ClassifyBatch_Canceled(t *testing.T) {
	repos := setupRepo(t)
	addArticles(t, repos, 3)
	ctx, cancel := context.WithCancel(context.Background())
	classifier := &mocks.ClassifierMock{ClassifyFunc: func(context.Context, string) (domain.Classification, error) {
		cancel()
		return domain.Classification{Tags: []string{"a"}, Category: "Other"}, nil
	}}

	stats, err := New(Config{Store: repos.Article, Classifier: classifier}).ClassifyBatch(ctx, domain.TagStatusPending, 10)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, stats.TotalProcessed)
	assert.Len(t, classifier.ClassifyCalls(), 1, "remaining articles left for the next run")
}

func TestTagger_Drain(t *testing.T) {
	t.Run("pending drained in batches", func(t *testing.T) {
		repos := setupRepo(t)
		addArticles(t, repos, 5)
		classifier := okClassifier()
		tg := New(Config{Store: repos.Article, Classifier: classifier})

		stats, err := tg.Drain(context.Background(), domain.TagStatusPending, 2)
		require.NoError(t, err)
		assert.Equal(t, 5, stats.TotalProcessed)
		assert.Equal(t, 5, stats.Successful)
		assert.Len(t, classifier.ClassifyCalls(), 5)

		counts, err := repos.Article.CountByTagStatus(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 5, counts[domain.TagStatusTagged])
	})

	t.Run("errors retried until nothing recovers", func(t *testing.T) {
		repos := setupRepo(t)
		ctx := context.Background()
		ids := addArticles(t, repos, 3)
		for _, id := range ids {
			require.NoError(t, repos.Article.MarkTagError(ctx, id, "first failure"))
		}
		classifier := &mocks.ClassifierMock{ClassifyFunc: func(ctx context.Context, text string) (domain.Classification, error) {
			if text == "content 1" {
				return domain.Classification{}, errors.New("still broken")
			}
			return domain.Classification{Tags: []string{"ok"}, Category: "Other"}, nil
		}}
		tg := New(Config{Store: repos.Article, Classifier: classifier})

		stats, err := tg.Drain(ctx, domain.TagStatusError, 10)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Successful)
		assert.Equal(t, 2, stats.Failed, "broken article tried in both batches")
		assert.Len(t, classifier.ClassifyCalls(), 4)
	})

	t.Run("stuck articles stop the drain", func(t *testing.T) {
		store := &mocks.StoreMock{
			ArticlesByTagStatusFunc: func(ctx context.Context, status domain.TagStatus, limit int) ([]domain.Article, error) {
				return []domain.Article{{ID: 7, Content: "c"}}, nil
			},
			MarkTaggedFunc:   func(context.Context, int64, []string, string) error { return errors.New("readonly") },
			MarkTagErrorFunc: func(context.Context, int64, string) error { return errors.New("readonly") },
		}
		stats, err := New(Config{Store: store, Classifier: okClassifier()}).Drain(context.Background(), domain.TagStatusPending, 10)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.TotalProcessed)
		assert.Len(t, store.ArticlesByTagStatusCalls(), 2)
	})
}
