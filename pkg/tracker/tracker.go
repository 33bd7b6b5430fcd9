// Package tracker records the lifecycle of a pipeline run: start, per-item outcomes and the final aggregate.
//
// A Tracker holds a single active run at a time. Counters are kept per stage and guarded by a mutex,
// so concurrent source workers produce the same aggregate as a sequential run.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/intellect/pkg/domain"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

// errors returned for calls made in a wrong run state
var (
	ErrNoActiveRun = errors.New("no active run")
	ErrRunEnded    = errors.New("run already ended")
)

// Store persists runs and their failure records
type Store interface {
	CreateRun(ctx context.Context, run *domain.PipelineRun) error
	UpdateRunProgress(ctx context.Context, run *domain.PipelineRun) error
	FinishRun(ctx context.Context, run *domain.PipelineRun) error
	CreateFailure(ctx context.Context, failure *domain.PipelineFailure) error
}

// Counters are per-stage item outcomes
type Counters struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

// Tracker tracks one run at a time
type Tracker struct {
	store Store
	now   func() time.Time

	mu       sync.Mutex
	run      *domain.PipelineRun
	ended    bool
	counters map[domain.Stage]*Counters
	articles int
}

// New makes a tracker persisting runs to store
func New(store Store) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

// StartRun creates and persists a new run in running state and returns its id.
// Fails if the previous run of this tracker was not ended.
func (t *Tracker) StartRun(ctx context.Context, source string, runType domain.RunType) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.run != nil && !t.ended {
		return "", fmt.Errorf("run %s is still active", t.run.ID)
	}

	run := &domain.PipelineRun{
		StartedAt:      t.now().UTC(),
		Source:         source,
		RunType:        runType,
		Status:         domain.RunStatusRunning,
		SkippedSources: []domain.SourceDetail{},
	}
	if err := t.store.CreateRun(ctx, run); err != nil {
		return "", fmt.Errorf("start %s run: %w", runType, err)
	}

	t.run, t.ended, t.articles = run, false, 0
	t.counters = map[domain.Stage]*Counters{domain.StageScrape: {}, domain.StageTag: {}}
	lgr.Printf("[INFO] started %s run %s by %s", runType, run.ID, source)
	return run.ID, nil
}

// RecordItem counts one item outcome for the stage. Skipped and failed scrape items are kept as
// source details of the run. A failure record is written if outcome is error and errMsg is set.
// Counters are updated even if persisting the failure record fails.
func (t *Tracker) RecordItem(ctx context.Context, ref domain.ItemRef, outcome domain.Outcome, stage domain.Stage, errMsg string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkActive("record item " + ref.URL); err != nil {
		return err
	}
	c, ok := t.counters[stage]
	if !ok {
		return fmt.Errorf("unknown stage %q", stage)
	}

	switch outcome {
	case domain.OutcomeSuccess:
		c.Successful++
	case domain.OutcomeError:
		c.Failed++
	case domain.OutcomeSkipped:
		c.Skipped++
	default:
		return fmt.Errorf("unknown outcome %q", outcome)
	}
	c.Total++

	var errs []error
	if outcome == domain.OutcomeError && errMsg != "" {
		if err := t.writeFailure(ctx, ref.URL, stage, errMsg); err != nil {
			errs = append(errs, err)
		}
	}

	if stage == domain.StageScrape {
		if outcome != domain.OutcomeSuccess {
			t.run.SkippedSources = append(t.run.SkippedSources,
				domain.SourceDetail{Source: ref.Name, URL: ref.URL, Reason: errMsg, Outcome: outcome})
		}
		t.syncRun()
		if err := t.store.UpdateRunProgress(ctx, t.run); err != nil {
			errs = append(errs, fmt.Errorf("update run progress: %w", err))
		}
	}
	return errors.Join(errs...)
}

// RecordFailure writes a failure record without changing counters,
// used for article level failures inside a source counted elsewhere
func (t *Tracker) RecordFailure(ctx context.Context, ref domain.ItemRef, stage domain.Stage, errMsg string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkActive("record failure " + ref.URL); err != nil {
		return err
	}
	return t.writeFailure(ctx, ref.URL, stage, errMsg)
}

// AddArticles adds to the number of captured articles
func (t *Tracker) AddArticles(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.run == nil || t.ended {
		lgr.Printf("[ERROR] add %d articles to inactive run", n)
		return
	}
	t.articles += n
}

// EndRun finalizes the run with a terminal status, computes duration and persists the aggregate.
// A run ends exactly once, the returned run is a copy. Storing the final state is tried twice,
// after that the run is ended in memory and the error returned.
func (t *Tracker) EndRun(ctx context.Context, status domain.RunStatus, errMsg string) (*domain.PipelineRun, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkActive("end run"); err != nil {
		return nil, err
	}
	if !status.Terminal() {
		return nil, fmt.Errorf("end run %s: status %q is not terminal", t.run.ID, status)
	}

	ended := t.now().UTC()
	if ended.Before(t.run.StartedAt) {
		ended = t.run.StartedAt
	}
	t.run.EndedAt = &ended
	t.run.DurationSeconds = ended.Sub(t.run.StartedAt).Seconds()
	t.run.Status = status
	t.run.ErrorMessage = errMsg
	t.syncRun()
	t.ended = true

	t.logSummary()
	res := t.snapshot()
	err := t.store.FinishRun(ctx, t.run)
	if err != nil {
		lgr.Printf("[WARN] failed to store end of run %s, retrying: %v", t.run.ID, err)
		err = t.store.FinishRun(ctx, t.run)
	}
	if err != nil {
		lgr.Printf("[ERROR] run %s left in running state, status %s not stored: %v", t.run.ID, status, err)
		return &res, fmt.Errorf("end run %s: %w", t.run.ID, err)
	}
	return &res, nil
}

// Stats returns counters of a stage for the current run
func (t *Tracker) Stats(stage domain.Stage) Counters {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.counters[stage]; ok {
		return *c
	}
	return Counters{}
}

// Run returns a copy of the current run, nil if no run started
func (t *Tracker) Run() *domain.PipelineRun {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.run == nil {
		return nil
	}
	res := t.snapshot()
	return &res
}

// checkActive verifies there is a run to record into, misuse after end is logged loudly
func (t *Tracker) checkActive(op string) error {
	if t.run == nil {
		lgr.Printf("[ERROR] %s: %v", op, ErrNoActiveRun)
		return ErrNoActiveRun
	}
	if t.ended {
		lgr.Printf("[ERROR] %s: run %s: %v", op, t.run.ID, ErrRunEnded)
		return fmt.Errorf("run %s: %w", t.run.ID, ErrRunEnded)
	}
	return nil
}

func (t *Tracker) writeFailure(ctx context.Context, url string, stage domain.Stage, errMsg string) error {
	failure := &domain.PipelineFailure{
		RunID:        t.run.ID,
		ArticleURL:   url,
		Stage:        stage,
		ErrorMessage: errMsg,
		OccurredAt:   t.now().UTC(),
	}
	if err := t.store.CreateFailure(ctx, failure); err != nil {
		return fmt.Errorf("write %s failure for %s: %w", stage, url, err)
	}
	return nil
}

// syncRun copies scrape counters and captured articles into the run record
func (t *Tracker) syncRun() {
	scrape := t.counters[domain.StageScrape]
	t.run.SourcesTotal = scrape.Total
	t.run.SourcesSkipped = scrape.Skipped
	t.run.SourcesFailed = scrape.Failed
	t.run.SourcesCaptured = scrape.Successful
	t.run.ArticlesCaptured = t.articles
}

func (t *Tracker) snapshot() domain.PipelineRun {
	res := *t.run
	res.SkippedSources = append([]domain.SourceDetail{}, t.run.SkippedSources...)
	if t.run.EndedAt != nil {
		ended := *t.run.EndedAt
		res.EndedAt = &ended
	}
	return res
}

func (t *Tracker) logSummary() {
	scrape, tag := t.counters[domain.StageScrape], t.counters[domain.StageTag]
	lgr.Printf("[INFO] %s run %s %s in %.1fs", t.run.RunType, t.run.ID, t.run.Status, t.run.DurationSeconds)
	if scrape.Total > 0 {
		lgr.Printf("[INFO]   sources: %d total, %d captured, %d skipped, %d failed; articles captured: %d",
			scrape.Total, scrape.Successful, scrape.Skipped, scrape.Failed, t.articles)
	}
	for _, d := range t.run.SkippedSources {
		lgr.Printf("[INFO]   %s source %q (%s): %s", d.Outcome, d.Source, d.URL, d.Reason)
	}
	if tag.Total > 0 {
		lgr.Printf("[INFO]   tagging: %d processed, %d tagged, %d failed", tag.Total, tag.Successful, tag.Failed)
	}
	if t.run.ErrorMessage != "" {
		lgr.Printf("[INFO]   error: %s", t.run.ErrorMessage)
	}
}
