// Package pipeline orchestrates tracked runs: scrape of all configured feed sources, tagging of
// stored articles, or both. Every run is recorded by a tracker.Tracker; per-source and per-article
// failures are reported as data in the returned summary, only a failure to enumerate sources ends
// the run early.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/intellect/pkg/dedup"
	"github.com/umputun/intellect/pkg/domain"
	"github.com/umputun/intellect/pkg/tracker"
)

//go:generate moq -out mocks/sources.go -pkg mocks -skip-ensure -fmt goimports . SourceProvider
//go:generate moq -out mocks/normalizer.go -pkg mocks -skip-ensure -fmt goimports . Normalizer
//go:generate moq -out mocks/article_store.go -pkg mocks -skip-ensure -fmt goimports . ArticleStore
//go:generate moq -out mocks/tagger.go -pkg mocks -skip-ensure -fmt goimports . Tagger

// ErrBusy is returned when a run is requested while another one is in progress
var ErrBusy = errors.New("pipeline run in progress")

// SourceProvider returns the configured feed sources
type SourceProvider interface {
	Sources(ctx context.Context) ([]domain.FeedSource, error)
}

// Normalizer turns a feed source into a sequence of candidate articles
type Normalizer interface {
	Normalize(ctx context.Context, src domain.FeedSource) (iter.Seq[domain.Article], error)
}

// ArticleStore persists articles with insert-if-absent semantics
type ArticleStore interface {
	CreateArticle(ctx context.Context, article *domain.Article) (bool, error)
	URLKeys(ctx context.Context) ([]string, error)
}

// Tagger classifies stored articles by tag status
type Tagger interface {
	ClassifyBatch(ctx context.Context, status domain.TagStatus, batchSize int) (domain.TagStats, error)
	Drain(ctx context.Context, status domain.TagStatus, batchSize int) (domain.TagStats, error)
}

// Pipeline runs scrape and tag workflows, one at a time
type Pipeline struct {
	sources        SourceProvider
	normalizer     Normalizer
	articles       ArticleStore
	tagger         Tagger
	runs           tracker.Store
	maxWorkers     int
	tagBatchSize   int
	trackingParams []string

	busy atomic.Bool
}

// Config holds pipeline dependencies and parameters.
// TagBatchSize is the minimal batch tagged after a scrape, the batch grows to cover all new articles.
type Config struct {
	Sources        SourceProvider
	Normalizer     Normalizer
	Articles       ArticleStore
	Tagger         Tagger
	Runs           tracker.Store
	MaxWorkers     int
	TagBatchSize   int
	TrackingParams []string
}

// TagOptions selects articles for a tagging run
type TagOptions struct {
	Status    domain.TagStatus
	BatchSize int
	Drain     bool // repeat batches until nothing is left
}

// New makes a Pipeline
func New(cfg Config) *Pipeline {
	res := &Pipeline{
		sources:        cfg.Sources,
		normalizer:     cfg.Normalizer,
		articles:       cfg.Articles,
		tagger:         cfg.Tagger,
		runs:           cfg.Runs,
		maxWorkers:     cfg.MaxWorkers,
		tagBatchSize:   cfg.TagBatchSize,
		trackingParams: cfg.TrackingParams,
	}
	if res.maxWorkers < 1 {
		res.maxWorkers = 1
	}
	if res.tagBatchSize < 1 {
		res.tagBatchSize = 100
	}
	return res
}

// Busy reports whether a run is in progress
func (p *Pipeline) Busy() bool {
	return p.busy.Load()
}

// RunFullPipeline scrapes all sources and tags every pending article.
// The returned error is set only if the run could not start, the sources could not be enumerated,
// or the final run state could not be stored. The summary is returned in all cases.
func (p *Pipeline) RunFullPipeline(ctx context.Context, label string) (domain.PipelineSummary, error) {
	return p.run(ctx, label, domain.RunTypeFullPipeline, func(ctx context.Context, tr *tracker.Tracker, summary *domain.PipelineSummary) stageErrors {
		if err := p.scrape(ctx, tr, summary); err != nil {
			return stageErrors{fatal: err}
		}
		batch := max(p.tagBatchSize, summary.Scraping.Articles)
		return stageErrors{tagging: p.tag(ctx, tr, summary, TagOptions{Status: domain.TagStatusPending, BatchSize: batch})}
	})
}

// RunScrape scrapes all sources without tagging
func (p *Pipeline) RunScrape(ctx context.Context, label string) (domain.PipelineSummary, error) {
	return p.run(ctx, label, domain.RunTypeRSSScrape, func(ctx context.Context, tr *tracker.Tracker, summary *domain.PipelineSummary) stageErrors {
		return stageErrors{fatal: p.scrape(ctx, tr, summary)}
	})
}

// RunTagging tags stored articles selected by opts
func (p *Pipeline) RunTagging(ctx context.Context, label string, opts TagOptions) (domain.PipelineSummary, error) {
	return p.run(ctx, label, domain.RunTypeTagging, func(ctx context.Context, tr *tracker.Tracker, summary *domain.PipelineSummary) stageErrors {
		return stageErrors{tagging: p.tag(ctx, tr, summary, opts)}
	})
}

// stageErrors separates the run-aborting error from a failed tagging stage
type stageErrors struct {
	fatal   error
	tagging error
}

// stageFunc runs the stages of a workflow, filling the summary
type stageFunc func(ctx context.Context, tr *tracker.Tracker, summary *domain.PipelineSummary) stageErrors

// run wraps a workflow with the run lifecycle: start, terminal state and summary
func (p *Pipeline) run(ctx context.Context, label string, runType domain.RunType, stages stageFunc) (domain.PipelineSummary, error) {
	summary := domain.PipelineSummary{
		Status:   domain.RunStatusFailed,
		Scraping: domain.ScrapeSummary{FailedFeeds: []domain.SourceDetail{}},
		Tagging:  domain.TagStats{Errors: []string{}},
		Errors:   []string{},
	}
	if !p.busy.CompareAndSwap(false, true) {
		return summary, ErrBusy
	}
	defer p.busy.Store(false)

	tr := tracker.New(p.runs)
	runID, err := tr.StartRun(ctx, label, runType)
	if err != nil {
		summary.Errors = append(summary.Errors, err.Error())
		return summary, err
	}
	summary.RunID = runID

	errs := stages(ctx, tr, &summary)
	fatal := errs.fatal

	status, errMsg := domain.RunStatusCompleted, ""
	switch {
	case fatal != nil:
		status, errMsg = domain.RunStatusFailed, fatal.Error()
		summary.Errors = append(summary.Errors, "scraping: "+errMsg)
		lgr.Printf("[ERROR] %s run %s aborted: %v", runType, runID, fatal)
	case errs.tagging != nil:
		status, errMsg = domain.RunStatusFailed, errs.tagging.Error()
		summary.Errors = append(summary.Errors, "tagging: "+errMsg)
	}

	summary.Status = status
	if _, err := tr.EndRun(ctx, status, errMsg); err != nil {
		summary.Errors = append(summary.Errors, err.Error())
		return summary, errors.Join(fatal, err)
	}
	return summary, fatal
}

// sourceResult is the outcome of scraping one source
type sourceResult struct {
	src           domain.FeedSource
	outcome       domain.Outcome
	reason        string
	imported      int
	duplicates    int
	articleErrors int
}

// scrape runs all sources through normalizer, dedup gate and store. Sources are processed by up to
// maxWorkers goroutines sharing the gate, the summary is aggregated in source order.
// Returns error only if sources or known urls can't be loaded.
func (p *Pipeline) scrape(ctx context.Context, tr *tracker.Tracker, summary *domain.PipelineSummary) error {
	sources, err := p.sources.Sources(ctx)
	if err != nil {
		return fmt.Errorf("load sources: %w", err)
	}
	known, err := p.articles.URLKeys(ctx)
	if err != nil {
		return fmt.Errorf("load known urls: %w", err)
	}
	gate := dedup.NewGate(known, p.trackingParams...)
	lgr.Printf("[INFO] scraping %d sources, %d known urls", len(sources), gate.Len())

	results := make([]sourceResult, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxWorkers)
	for i, src := range sources {
		g.Go(func() error {
			results[i] = p.scrapeSource(gctx, tr, gate, src)
			return nil
		})
	}
	_ = g.Wait() // workers report failures in results

	sc := &summary.Scraping
	sc.Total = len(sources)
	for _, r := range results {
		sc.Articles += r.imported
		sc.ArticleErrors += r.articleErrors
		switch r.outcome {
		case domain.OutcomeSuccess:
			sc.Imported++
		case domain.OutcomeSkipped:
			sc.Skipped++
		case domain.OutcomeError:
			sc.Failed++
			sc.FailedFeeds = append(sc.FailedFeeds, domain.SourceDetail{Source: r.src.Source, URL: r.src.URL,
				Reason: r.reason, Outcome: r.outcome})
		}
	}
	lgr.Printf("[INFO] scraping complete. imported: %d, skipped: %d, failed: %d, total: %d, new articles: %d",
		sc.Imported, sc.Skipped, sc.Failed, sc.Total, sc.Articles)
	return nil
}

// scrapeSource processes one source and records its outcome
func (p *Pipeline) scrapeSource(ctx context.Context, tr *tracker.Tracker, gate *dedup.Gate, src domain.FeedSource) sourceResult {
	res := sourceResult{src: src, outcome: domain.OutcomeSuccess}
	ref := domain.ItemRef{Name: src.Source, URL: src.URL}
	defer func() {
		tr.AddArticles(res.imported)
		if err := tr.RecordItem(ctx, ref, res.outcome, domain.StageScrape, res.reason); err != nil {
			lgr.Printf("[WARN] failed to record source %q: %v", src.Source, err)
		}
	}()

	if err := src.Validate(); err != nil {
		res.outcome, res.reason = domain.OutcomeSkipped, err.Error()
		lgr.Printf("[WARN] skipping source %q (%s): %v", src.Source, src.URL, err)
		return res
	}

	articles, err := p.normalizer.Normalize(ctx, src)
	if err != nil {
		res.outcome, res.reason = domain.OutcomeError, err.Error()
		lgr.Printf("[WARN] failed to process source %q: %v", src.Source, err)
		return res
	}

	articleFailed := func(article domain.Article, msg string) {
		res.articleErrors++
		lgr.Printf("[WARN] article %q from %q: %s", article.URL, src.Source, msg)
		if rErr := tr.RecordFailure(ctx, domain.ItemRef{Name: article.Title, URL: article.URL}, domain.StageScrape, msg); rErr != nil {
			lgr.Printf("[WARN] failed to record article failure: %v", rErr)
		}
	}

	for article := range articles {
		if !gate.Accept(&article) {
			if article.URLKey == "" {
				articleFailed(article, "missing article url")
				continue
			}
			res.duplicates++
			continue
		}
		inserted, err := p.articles.CreateArticle(ctx, &article)
		if err != nil {
			gate.Forget(article.URLKey)
			articleFailed(article, fmt.Sprintf("store article: %v", err))
			continue
		}
		if !inserted {
			// unique url key in the store is authoritative
			res.duplicates++
			continue
		}
		res.imported++
	}

	if res.articleErrors > 0 && res.imported == 0 {
		res.outcome = domain.OutcomeError
		res.reason = fmt.Sprintf("failed to store %d articles", res.articleErrors)
	}
	lgr.Printf("[DEBUG] source %q: %d new, %d duplicates, %d store errors", src.Source, res.imported, res.duplicates, res.articleErrors)
	return res
}

// tag runs the tagging stage and records every article outcome
func (p *Pipeline) tag(ctx context.Context, tr *tracker.Tracker, summary *domain.PipelineSummary, opts TagOptions) error {
	var stats domain.TagStats
	var err error
	if opts.Drain {
		stats, err = p.tagger.Drain(ctx, opts.Status, opts.BatchSize)
	} else {
		stats, err = p.tagger.ClassifyBatch(ctx, opts.Status, opts.BatchSize)
	}
	if stats.Errors == nil {
		stats.Errors = []string{}
	}
	summary.Tagging = stats

	for _, r := range stats.Results {
		outcome := domain.OutcomeSuccess
		if r.Error != "" {
			outcome = domain.OutcomeError
		}
		if rErr := tr.RecordItem(ctx, domain.ItemRef{Name: r.Title, URL: r.URL}, outcome, domain.StageTag, r.Error); rErr != nil {
			lgr.Printf("[WARN] failed to record tagging of %s: %v", r.URL, rErr)
		}
	}
	if err != nil {
		return fmt.Errorf("tag %s articles: %w", opts.Status, err)
	}
	return nil
}
