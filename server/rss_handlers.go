package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/intellect/pkg/domain"
	"github.com/umputun/intellect/pkg/feed"
)

const (
	defaultRSSLimit = 100
	maxRSSLimit     = 500
)

// rssHandler serves RSS feed of tagged articles, all of them or one category.
// Supports both /rss/{category} and /rss?category=... patterns, category match ignores case.
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	if category == "" {
		category = r.URL.Query().Get("category")
	}
	if category != "" {
		normalized := domain.NormalizeCategory(category)
		if normalized == domain.CategoryOther && !strings.EqualFold(strings.TrimSpace(category), domain.CategoryOther) {
			http.Error(w, fmt.Sprintf("Unknown category %q", category), http.StatusNotFound)
			return
		}
		category = normalized
	}

	limit, err := intParam(r, "limit", defaultRSSLimit)
	if err != nil || limit < 1 {
		http.Error(w, "Invalid limit", http.StatusBadRequest)
		return
	}

	articles, err := s.articles.ListArticles(r.Context(), domain.ArticleFilter{
		TagStatus: domain.TagStatusTagged,
		Category:  category,
		Limit:     min(limit, maxRSSLimit),
	})
	if err != nil {
		lgr.Printf("[ERROR] failed to get articles for RSS: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	rss, err := feed.NewGenerator(s.cfg.BaseURL).GenerateRSS(articles, category)
	if err != nil {
		lgr.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		lgr.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}
