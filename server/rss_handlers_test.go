package server

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/intellect/pkg/domain"
	"github.com/umputun/intellect/server/mocks"
)

func TestServer_rssHandler(t *testing.T) {
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	articles := &mocks.ArticleStoreMock{ListArticlesFunc: func(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, error) {
		return []domain.Article{
			{ID: 1, Source: "Robot Report", URL: "https://robots.example.com/fold", Title: "Robot folds <laundry> & socks",
				Content: "<p>folding</p>", Timestamp: now, Tags: []string{"manipulation"}, Category: "Robotics",
				Thumbnail: "https://robots.example.com/fold.png", TagStatus: domain.TagStatusTagged},
		}, nil
	}}
	srv := New(testConfig, articles, &mocks.RunStoreMock{}, idleRunner(), "test", false)

	t.Run("category from path", func(t *testing.T) {
		w := serve(srv, "GET", "/rss/robotics")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/rss+xml; charset=utf-8", w.Header().Get("Content-Type"))
		body := w.Body.String()
		assert.Contains(t, body, "<title>Intellect - Robotics</title>")
		assert.Contains(t, body, "<title>Robot folds &lt;laundry&gt; &amp; socks</title>")
		assert.Contains(t, body, "https://intellect.example.com/rss/Robotics")
		assert.Contains(t, body, `type="image/png"`)

		calls := articles.ListArticlesCalls()
		assert.Equal(t, domain.ArticleFilter{TagStatus: domain.TagStatusTagged, Category: "Robotics", Limit: defaultRSSLimit},
			calls[len(calls)-1].Filter)
	})

	t.Run("escaped category with spaces", func(t *testing.T) {
		w := serve(srv, "GET", "/rss/Open-Source%20AI?limit=5")
		require.Equal(t, http.StatusOK, w.Code)
		calls := articles.ListArticlesCalls()
		assert.Equal(t, "Open-Source AI", calls[len(calls)-1].Filter.Category)
		assert.Equal(t, 5, calls[len(calls)-1].Filter.Limit)
	})

	t.Run("all categories", func(t *testing.T) {
		w := serve(srv, "GET", "/rss")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "<title>Intellect - All Categories</title>")
		calls := articles.ListArticlesCalls()
		assert.Empty(t, calls[len(calls)-1].Filter.Category)
	})

	t.Run("category from query", func(t *testing.T) {
		w := serve(srv, "GET", "/rss?category=other")
		require.Equal(t, http.StatusOK, w.Code)
		calls := articles.ListArticlesCalls()
		assert.Equal(t, domain.CategoryOther, calls[len(calls)-1].Filter.Category)
	})
}

func TestServer_rssHandler_Errors(t *testing.T) {
	articles := &mocks.ArticleStoreMock{ListArticlesFunc: func(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, error) {
		return nil, errors.New("database is closed")
	}}
	srv := New(testConfig, articles, &mocks.RunStoreMock{}, idleRunner(), "test", false)

	w := serve(srv, "GET", "/rss/cooking")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, articles.ListArticlesCalls(), "unknown category not queried")

	w = serve(srv, "GET", "/rss?limit=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(srv, "GET", "/rss/Robotics")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to generate RSS feed")
}
