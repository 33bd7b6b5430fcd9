package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/intellect/pkg/domain"
	"github.com/umputun/intellect/pkg/pipeline"
)

//go:generate moq -out mocks/runner.go -pkg mocks -skip-ensure -fmt goimports . Runner

// DefaultLabel is the run source label of scheduled runs
const DefaultLabel = "scheduler"

// Runner executes a full pipeline run
type Runner interface {
	RunFullPipeline(ctx context.Context, label string) (domain.PipelineSummary, error)
}

// Scheduler runs the full pipeline periodically
type Scheduler struct {
	runner   Runner
	interval time.Duration
	label    string
	wg       sync.WaitGroup
	cancel   context.CancelFunc
}

// Config holds scheduler configuration. Zero Interval disables periodic runs.
type Config struct {
	Runner   Runner
	Interval time.Duration
	Label    string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg Config) *Scheduler {
	if cfg.Label == "" {
		cfg.Label = DefaultLabel
	}
	return &Scheduler{runner: cfg.Runner, interval: cfg.Interval, label: cfg.Label}
}

// Start begins the scheduler, the first run starts immediately
func (s *Scheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		lgr.Printf("[INFO] scheduler disabled, no pipeline interval")
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.pipelineWorker(ctx)
	lgr.Printf("[INFO] scheduler started with pipeline interval %v", s.interval)
}

// Stop gracefully stops the scheduler, waits for the active run to finish
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

func (s *Scheduler) pipelineWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runPipeline(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runPipeline(ctx)
		}
	}
}

// runPipeline makes one run, a run already in progress (e.g. triggered by api) is not waited for
func (s *Scheduler) runPipeline(ctx context.Context) {
	summary, err := s.runner.RunFullPipeline(ctx, s.label)
	switch {
	case errors.Is(err, pipeline.ErrBusy):
		lgr.Printf("[INFO] scheduled run skipped, another run in progress")
	case err != nil:
		lgr.Printf("[ERROR] scheduled run %s failed: %v", summary.RunID, err)
	default:
		lgr.Printf("[INFO] scheduled run %s %s, %d new articles, %d tagged, %d tag failures",
			summary.RunID, summary.Status, summary.Scraping.Articles, summary.Tagging.Successful, summary.Tagging.Failed)
	}
}
