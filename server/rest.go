package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"

	"github.com/umputun/intellect/pkg/domain"
	"github.com/umputun/intellect/pkg/pipeline"
	"github.com/umputun/intellect/pkg/repository"
)

// listing limits
const (
	defaultArticlesLimit = 50
	maxArticlesLimit     = 500
	defaultRunsLimit     = 20
	maxRunsLimit         = 200
)

// statusHandler returns server status with article counts per tag status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	counts, err := s.articles.CountByTagStatus(r.Context())
	if err != nil {
		lgr.Printf("[ERROR] failed to count articles: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	status := rest.JSON{
		"status":   "ok",
		"version":  s.version,
		"time":     time.Now().UTC(),
		"busy":     s.runner.Busy(),
		"articles": counts,
	}
	renderJSON(w, r, http.StatusOK, status)
}

// articlesHandler lists stored articles.
// Query: status, source, platform, category, from, to (RFC3339 or 2006-01-02), limit, offset.
func (s *Server) articlesHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := articleFilter(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	articles, err := s.articles.ListArticles(r.Context(), filter)
	if err != nil {
		lgr.Printf("[ERROR] failed to list articles: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if articles == nil {
		articles = []domain.Article{}
	}
	renderJSON(w, r, http.StatusOK, rest.JSON{"articles": articles, "count": len(articles)})
}

// categoriesHandler lists categories of tagged articles
func (s *Server) categoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := s.articles.Categories(r.Context())
	if err != nil {
		lgr.Printf("[ERROR] failed to get categories: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	renderJSON(w, r, http.StatusOK, rest.JSON{"categories": categories})
}

// runsHandler lists recent runs, newest first
func (s *Server) runsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", defaultRunsLimit)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	limit = min(max(limit, 1), maxRunsLimit)

	runs, err := s.runs.ListRuns(r.Context(), limit)
	if err != nil {
		lgr.Printf("[ERROR] failed to list runs: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, rest.JSON{"runs": runs})
}

// runHandler returns a run with its failure records
func (s *Server) runHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	run, err := s.runs.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			renderError(w, r, err, http.StatusNotFound)
			return
		}
		lgr.Printf("[ERROR] failed to get run %s: %v", id, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	failures, err := s.runs.GetFailures(r.Context(), id)
	if err != nil {
		lgr.Printf("[ERROR] failed to get failures of run %s: %v", id, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, rest.JSON{"run": run, "failures": failures})
}

// triggerRunHandler starts a run in background. Query type is full (default), scrape or tag;
// tag run takes pending articles and drains them if drain=true.
func (s *Server) triggerRunHandler(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")
	if kind == "" {
		kind = "full"
	}
	drain := r.URL.Query().Get("drain") == "true"

	var fn func(ctx context.Context) (domain.PipelineSummary, error)
	switch kind {
	case "full":
		fn = func(ctx context.Context) (domain.PipelineSummary, error) { return s.runner.RunFullPipeline(ctx, runLabel) }
	case "scrape":
		fn = func(ctx context.Context) (domain.PipelineSummary, error) { return s.runner.RunScrape(ctx, runLabel) }
	case "tag":
		opts := pipeline.TagOptions{Status: domain.TagStatusPending, BatchSize: s.cfg.TagBatchSize, Drain: drain}
		fn = func(ctx context.Context) (domain.PipelineSummary, error) { return s.runner.RunTagging(ctx, runLabel, opts) }
	default:
		renderError(w, r, fmt.Errorf("unknown run type %q", kind), http.StatusBadRequest)
		return
	}
	s.trigger(w, r, kind, fn)
}

// retryTagsHandler starts a tagging run over articles in error status
func (s *Server) retryTagsHandler(w http.ResponseWriter, r *http.Request) {
	opts := pipeline.TagOptions{Status: domain.TagStatusError, BatchSize: s.cfg.RetryBatchSize,
		Drain: r.URL.Query().Get("drain") == "true"}
	s.trigger(w, r, "retry", func(ctx context.Context) (domain.PipelineSummary, error) {
		return s.runner.RunTagging(ctx, runLabel, opts)
	})
}

func (s *Server) trigger(w http.ResponseWriter, r *http.Request, kind string, fn func(ctx context.Context) (domain.PipelineSummary, error)) {
	if err := s.startRun(kind, fn); err != nil {
		renderError(w, r, err, http.StatusConflict)
		return
	}
	renderJSON(w, r, http.StatusAccepted, rest.JSON{"status": "started", "type": kind})
}

// articleFilter builds a filter from query parameters
func articleFilter(r *http.Request) (domain.ArticleFilter, error) {
	q := r.URL.Query()
	filter := domain.ArticleFilter{
		TagStatus: domain.TagStatus(q.Get("status")),
		Source:    q.Get("source"),
		Platform:  q.Get("platform"),
		Category:  q.Get("category"),
	}

	var err error
	if filter.From, err = timeParam(r, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = timeParam(r, "to"); err != nil {
		return filter, err
	}
	if filter.Limit, err = intParam(r, "limit", defaultArticlesLimit); err != nil {
		return filter, err
	}
	if filter.Limit == 0 {
		filter.Limit = defaultArticlesLimit
	}
	filter.Limit = min(filter.Limit, maxArticlesLimit)
	if filter.Offset, err = intParam(r, "offset", 0); err != nil {
		return filter, err
	}

	if err := filter.Validate(); err != nil {
		return filter, fmt.Errorf("invalid filter: %w", err)
	}
	return filter, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	res, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return res, nil
}

// timeParam parses RFC3339 time or a plain date, zero time if not set
func timeParam(r *http.Request, name string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s %q", name, v)
}
