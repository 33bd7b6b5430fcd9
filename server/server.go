// Package server is a thin HTTP layer over the pipeline: reports of stored articles and runs,
// on-demand run triggers and RSS feeds of tagged articles by category.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/intellect/pkg/domain"
	"github.com/umputun/intellect/pkg/pipeline"
)

//go:generate moq -out mocks/articles.go -pkg mocks -skip-ensure -fmt goimports . ArticleStore
//go:generate moq -out mocks/runs.go -pkg mocks -skip-ensure -fmt goimports . RunStore
//go:generate moq -out mocks/runner.go -pkg mocks -skip-ensure -fmt goimports . Runner

// Server represents HTTP server instance
type Server struct {
	cfg      Config
	articles ArticleStore
	runs     RunStore
	runner   Runner
	version  string
	debug    bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
	runCtx     context.Context // parent of triggered runs, canceled on shutdown
	triggered  sync.WaitGroup
	inflight   atomic.Bool // set while a run triggered over http is in progress
}

// ArticleStore provides stored articles for reports and feeds
type ArticleStore interface {
	ListArticles(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, error)
	CountByTagStatus(ctx context.Context) (map[domain.TagStatus]int, error)
	Categories(ctx context.Context) ([]string, error)
}

// RunStore provides run history
type RunStore interface {
	ListRuns(ctx context.Context, limit int) ([]domain.PipelineRun, error)
	GetRun(ctx context.Context, id string) (*domain.PipelineRun, error)
	GetFailures(ctx context.Context, runID string) ([]domain.PipelineFailure, error)
}

// Runner starts pipeline runs on demand
type Runner interface {
	RunFullPipeline(ctx context.Context, label string) (domain.PipelineSummary, error)
	RunScrape(ctx context.Context, label string) (domain.PipelineSummary, error)
	RunTagging(ctx context.Context, label string, opts pipeline.TagOptions) (domain.PipelineSummary, error)
	Busy() bool
}

// Config holds server parameters
type Config struct {
	Listen         string
	Timeout        time.Duration
	BaseURL        string
	TagBatchSize   int
	RetryBatchSize int
}

// label of runs triggered over http
const runLabel = "api"

// New initializes a new server instance
func New(cfg Config, articles ArticleStore, runs RunStore, runner Runner, version string, debug bool) *Server {
	s := &Server{
		cfg:      cfg,
		articles: articles,
		runs:     runs,
		runner:   runner,
		version:  version,
		debug:    debug,
		router:   routegroup.New(http.NewServeMux()),
		runCtx:   context.Background(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown.
// Runs triggered over http are canceled with ctx and waited for before return.
func (s *Server) Run(ctx context.Context) error {
	lgr.Printf("[INFO] starting server on %s", s.cfg.Listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.Timeout,
		ReadTimeout:       s.cfg.Timeout,
		WriteTimeout:      s.cfg.Timeout,
	}
	s.runCtx = ctx
	s.lock.Unlock()

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	<-shutdownDone // handlers are finished, no more runs can be triggered
	s.triggered.Wait()
	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("intellect", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /articles", s.articlesHandler)
		r.HandleFunc("GET /categories", s.categoriesHandler)
		r.HandleFunc("GET /runs", s.runsHandler)
		r.HandleFunc("GET /runs/{id}", s.runHandler)
		r.HandleFunc("POST /pipeline", s.triggerRunHandler)
		r.HandleFunc("POST /tags/retry", s.retryTagsHandler)

		// the root catch-all of the router answers 404 for a known path with a wrong method
		r.HandleFunc("/pipeline", methodNotAllowed(http.MethodPost))
		r.HandleFunc("/tags/retry", methodNotAllowed(http.MethodPost))
	})

	s.router.HandleFunc("GET /rss", s.rssHandler)
	s.router.HandleFunc("GET /rss/{category}", s.rssHandler)
}

// startRun runs fn in background with the server's run context.
// Returns pipeline.ErrBusy without starting if a run triggered over http or any other pipeline run
// is in progress. Concurrent requests are decided here, only a scheduler or cli run starting right
// after the check can still win, such a skipped run is logged.
func (s *Server) startRun(kind string, fn func(ctx context.Context) (domain.PipelineSummary, error)) error {
	if !s.inflight.CompareAndSwap(false, true) {
		return pipeline.ErrBusy
	}
	if s.runner.Busy() {
		s.inflight.Store(false)
		return pipeline.ErrBusy
	}

	s.lock.Lock()
	ctx := s.runCtx
	s.lock.Unlock()

	s.triggered.Add(1)
	go func() {
		defer s.triggered.Done()
		defer s.inflight.Store(false)
		summary, err := fn(ctx)
		switch {
		case errors.Is(err, pipeline.ErrBusy):
			lgr.Printf("[INFO] %s run not started, another run in progress", kind)
		case err != nil:
			lgr.Printf("[WARN] %s run %s failed: %v", kind, summary.RunID, err)
		default:
			lgr.Printf("[INFO] %s run %s %s", kind, summary.RunID, summary.Status)
		}
	}()
	return nil
}

// methodNotAllowed rejects requests to a route registered for other methods only
func methodNotAllowed(allow ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", strings.Join(allow, ", "))
		renderError(w, r, fmt.Errorf("method %s not allowed", r.Method), http.StatusMethodNotAllowed)
	}
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, rest.JSON{"error": errMsg})
}
