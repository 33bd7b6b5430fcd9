// Package tagger drives the tagging state machine of articles: pending -> tagged|error, error -> tagged|error.
// Every article of a batch is classified independently, a failure is recorded on the article
// and never aborts the batch.
package tagger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/intellect/pkg/domain"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/classifier.go -pkg mocks -skip-ensure -fmt goimports . Classifier

// ErrInvalidStatusFilter is returned when a batch is requested for a status other than pending or error
var ErrInvalidStatusFilter = errors.New("invalid status filter")

// Store selects articles by tag status and applies tag transitions
type Store interface {
	ArticlesByTagStatus(ctx context.Context, status domain.TagStatus, limit int) ([]domain.Article, error)
	MarkTagged(ctx context.Context, id int64, tags []string, category string) error
	MarkTagError(ctx context.Context, id int64, errMsg string) error
}

// Classifier maps article text to tags and category
type Classifier interface {
	Classify(ctx context.Context, text string) (domain.Classification, error)
}

// Tagger classifies batches of articles
type Tagger struct {
	store      Store
	classifier Classifier
	timeout    time.Duration
}

// Config holds tagger dependencies. Timeout bounds a single classification, 0 means no limit.
type Config struct {
	Store      Store
	Classifier Classifier
	Timeout    time.Duration
}

// New makes a Tagger
func New(cfg Config) *Tagger {
	return &Tagger{store: cfg.Store, classifier: cfg.Classifier, timeout: cfg.Timeout}
}

// ClassifyBatch classifies up to batchSize articles with the given tag status, most recently created first.
// Returns an error only if the batch can't be selected, per-article failures are reported in stats
// and move the article to error status. Skipped is always 0.
func (t *Tagger) ClassifyBatch(ctx context.Context, status domain.TagStatus, batchSize int) (domain.TagStats, error) {
	stats := domain.TagStats{Errors: []string{}}
	if status != domain.TagStatusPending && status != domain.TagStatusError {
		return stats, fmt.Errorf("%w: %q", ErrInvalidStatusFilter, status)
	}
	if batchSize < 1 {
		return stats, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	articles, err := t.store.ArticlesByTagStatus(ctx, status, batchSize)
	if err != nil {
		return stats, fmt.Errorf("select %s articles: %w", status, err)
	}
	if len(articles) == 0 {
		lgr.Printf("[DEBUG] no %s articles to tag", status)
		return stats, nil
	}
	lgr.Printf("[INFO] tagging %d %s articles", len(articles), status)

	for i := range articles {
		if ctx.Err() != nil {
			lgr.Printf("[WARN] tagging interrupted after %d of %d articles: %v", stats.TotalProcessed, len(articles), ctx.Err())
			return stats, fmt.Errorf("tagging interrupted: %w", ctx.Err())
		}
		res := t.classifyArticle(ctx, &articles[i])
		stats.TotalProcessed++
		stats.Results = append(stats.Results, res)
		if res.Error != "" {
			stats.Failed++
			stats.Errors = append(stats.Errors, fmt.Sprintf("article %d (%s): %s", res.ArticleID, res.URL, res.Error))
			continue
		}
		stats.Successful++
	}

	lgr.Printf("[INFO] tagged %d %s articles: %d successful, %d failed", stats.TotalProcessed, status, stats.Successful, stats.Failed)
	return stats, nil
}

// RetryBatch classifies up to batchSize articles in error status
func (t *Tagger) RetryBatch(ctx context.Context, batchSize int) (domain.TagStats, error) {
	return t.ClassifyBatch(ctx, domain.TagStatusError, batchSize)
}

// Drain repeats ClassifyBatch until nothing is left with the given status.
// For error status it also stops on a batch without a single success, failed articles stay in error
// status and would be selected again.
func (t *Tagger) Drain(ctx context.Context, status domain.TagStatus, batchSize int) (domain.TagStats, error) {
	total := domain.TagStats{Errors: []string{}}
	var prev map[int64]bool
	for batch := 1; ; batch++ {
		stats, err := t.ClassifyBatch(ctx, status, batchSize)
		total.Add(stats)
		if err != nil {
			return total, err
		}
		if stats.TotalProcessed == 0 {
			return total, nil
		}
		if status == domain.TagStatusError && stats.Successful == 0 {
			lgr.Printf("[INFO] drain stopped at batch %d, no article recovered", batch)
			return total, nil
		}

		// articles whose transition could not be stored are selected again, stop instead of spinning
		curr := make(map[int64]bool, len(stats.Results))
		repeated := true
		for _, r := range stats.Results {
			curr[r.ArticleID] = true
			if !prev[r.ArticleID] {
				repeated = false
			}
		}
		if repeated {
			lgr.Printf("[WARN] drain stopped at batch %d, same articles selected again", batch)
			return total, nil
		}
		prev = curr
	}
}

// classifyArticle runs one classification and stores the transition
func (t *Tagger) classifyArticle(ctx context.Context, a *domain.Article) domain.TagResult {
	res := domain.TagResult{ArticleID: a.ID, URL: a.URL, Title: a.Title}

	cctx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	classification, err := t.classifier.Classify(cctx, a.Content)

	if err != nil {
		res.Error = err.Error()
		lgr.Printf("[WARN] failed to classify article %s: %v", a.Identifier(), err)
		if mErr := t.store.MarkTagError(ctx, a.ID, res.Error); mErr != nil {
			lgr.Printf("[ERROR] failed to mark tag error for article %d: %v", a.ID, mErr)
		}
		return res
	}

	if err := t.store.MarkTagged(ctx, a.ID, classification.Tags, classification.Category); err != nil {
		res.Error = fmt.Sprintf("store tags: %v", err)
		lgr.Printf("[WARN] failed to store tags for article %s: %v", a.Identifier(), err)
		if !errors.Is(err, domain.ErrInvalidTransition) {
			if mErr := t.store.MarkTagError(ctx, a.ID, res.Error); mErr != nil {
				lgr.Printf("[ERROR] failed to mark tag error for article %d: %v", a.ID, mErr)
			}
		}
		return res
	}

	lgr.Printf("[DEBUG] tagged article %s as %q with %d tags", a.Identifier(), classification.Category, len(classification.Tags))
	return res
}
