package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/intellect/pkg/domain"
)

// RunRepository handles pipeline runs and their failure records
type RunRepository struct {
	db *sqlx.DB
}

// runSQL represents a pipeline run row
type runSQL struct {
	ID               string            `db:"id"`
	StartedAt        time.Time         `db:"started_at"`
	EndedAt          *time.Time        `db:"ended_at"`
	DurationSeconds  float64           `db:"duration_seconds"`
	Source           string            `db:"source"`
	RunType          string            `db:"run_type"`
	Status           string            `db:"status"`
	ErrorMessage     string            `db:"error_message"`
	SourcesTotal     int               `db:"sources_total"`
	SourcesSkipped   int               `db:"sources_skipped"`
	SourcesFailed    int               `db:"sources_failed"`
	SourcesCaptured  int               `db:"sources_captured"`
	ArticlesCaptured int               `db:"articles_captured"`
	SkippedSources   skippedSourcesSQL `db:"skipped_sources"`
}

// failureSQL represents a pipeline failure row
type failureSQL struct {
	ID           int64     `db:"id"`
	RunID        string    `db:"run_id"`
	ArticleURL   string    `db:"article_url"`
	Stage        string    `db:"stage"`
	ErrorMessage string    `db:"error_message"`
	OccurredAt   time.Time `db:"occurred_at"`
}

// skippedSourcesSQL is a JSON array of skipped and failed source details
type skippedSourcesSQL []domain.SourceDetail

// Value implements driver.Valuer for database storage
func (s skippedSourcesSQL) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]domain.SourceDetail(s))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database retrieval
func (s *skippedSourcesSQL) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*s = skippedSourcesSQL{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported skipped sources type %T", value)
	}
	res := skippedSourcesSQL{}
	if err := json.Unmarshal(data, &res); err != nil {
		return fmt.Errorf("decode skipped sources: %w", err)
	}
	*s = res
	return nil
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// CreateRun persists a new run in running state and sets its id
func (r *RunRepository) CreateRun(ctx context.Context, run *domain.PipelineRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = now()
	}
	run.Status, run.EndedAt = domain.RunStatusRunning, nil

	rec := fromDomainRun(run)
	query := `
		INSERT INTO pipeline_runs (
			id, started_at, source, run_type, status, error_message,
			sources_total, sources_skipped, sources_failed, sources_captured, articles_captured, skipped_sources
		) VALUES (
			:id, :started_at, :source, :run_type, :status, :error_message,
			:sources_total, :sources_skipped, :sources_failed, :sources_captured, :articles_captured, :skipped_sources
		)
	`
	err := retryOnLock(ctx, func() error {
		_, err := r.db.NamedExecContext(ctx, query, rec)
		return err
	})
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// UpdateRunProgress stores counters of a running run
func (r *RunRepository) UpdateRunProgress(ctx context.Context, run *domain.PipelineRun) error {
	query := `
		UPDATE pipeline_runs
		SET sources_total = :sources_total, sources_skipped = :sources_skipped, sources_failed = :sources_failed,
		    sources_captured = :sources_captured, articles_captured = :articles_captured,
		    skipped_sources = :skipped_sources
		WHERE id = :id AND status = 'running'
	`
	if err := r.execRunUpdate(ctx, query, run); err != nil {
		return fmt.Errorf("update run %s progress: %w", run.ID, err)
	}
	return nil
}

// FinishRun stores the terminal state of a run. A run can be finished only once.
func (r *RunRepository) FinishRun(ctx context.Context, run *domain.PipelineRun) error {
	if !run.Status.Terminal() || run.EndedAt == nil {
		return fmt.Errorf("finish run %s: status %q is not terminal", run.ID, run.Status)
	}
	query := `
		UPDATE pipeline_runs
		SET ended_at = :ended_at, duration_seconds = :duration_seconds, status = :status, error_message = :error_message,
		    sources_total = :sources_total, sources_skipped = :sources_skipped, sources_failed = :sources_failed,
		    sources_captured = :sources_captured, articles_captured = :articles_captured,
		    skipped_sources = :skipped_sources
		WHERE id = :id AND status = 'running'
	`
	if err := r.execRunUpdate(ctx, query, run); err != nil {
		return fmt.Errorf("finish run %s: %w", run.ID, err)
	}
	return nil
}

func (r *RunRepository) execRunUpdate(ctx context.Context, query string, run *domain.PipelineRun) error {
	rec := fromDomainRun(run)
	var affected int64
	err := retryOnLock(ctx, func() error {
		res, err := r.db.NamedExecContext(ctx, query, rec)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.New("run is not running or does not exist")
	}
	return nil
}

// CreateFailure persists a failure record of a run
func (r *RunRepository) CreateFailure(ctx context.Context, failure *domain.PipelineFailure) error {
	if failure.OccurredAt.IsZero() {
		failure.OccurredAt = now()
	}
	rec := failureSQL{
		RunID:        failure.RunID,
		ArticleURL:   failure.ArticleURL,
		Stage:        string(failure.Stage),
		ErrorMessage: failure.ErrorMessage,
		OccurredAt:   failure.OccurredAt.UTC(),
	}
	query := `
		INSERT INTO pipeline_failures (run_id, article_url, stage, error_message, occurred_at)
		VALUES (:run_id, :article_url, :stage, :error_message, :occurred_at)
	`
	err := retryOnLock(ctx, func() error {
		res, err := r.db.NamedExecContext(ctx, query, rec)
		if err != nil {
			return err
		}
		failure.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return fmt.Errorf("create failure for run %s: %w", failure.RunID, err)
	}
	return nil
}

// GetRun retrieves a run by id
func (r *RunRepository) GetRun(ctx context.Context, id string) (*domain.PipelineRun, error) {
	var rec runSQL
	if err := r.db.GetContext(ctx, &rec, "SELECT * FROM pipeline_runs WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	res := rec.toDomain()
	return &res, nil
}

// ListRuns returns up to limit most recent runs
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]domain.PipelineRun, error) {
	var recs []runSQL
	query := "SELECT * FROM pipeline_runs ORDER BY started_at DESC, rowid DESC LIMIT ?"
	if err := r.db.SelectContext(ctx, &recs, query, limit); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	res := make([]domain.PipelineRun, 0, len(recs))
	for _, rec := range recs {
		res = append(res, rec.toDomain())
	}
	return res, nil
}

// GetFailures returns failure records of a run in occurrence order
func (r *RunRepository) GetFailures(ctx context.Context, runID string) ([]domain.PipelineFailure, error) {
	var recs []failureSQL
	query := "SELECT * FROM pipeline_failures WHERE run_id = ? ORDER BY occurred_at, id"
	if err := r.db.SelectContext(ctx, &recs, query, runID); err != nil {
		return nil, fmt.Errorf("get failures of run %s: %w", runID, err)
	}
	res := make([]domain.PipelineFailure, 0, len(recs))
	for _, rec := range recs {
		res = append(res, domain.PipelineFailure{
			ID:           rec.ID,
			RunID:        rec.RunID,
			ArticleURL:   rec.ArticleURL,
			Stage:        domain.Stage(rec.Stage),
			ErrorMessage: rec.ErrorMessage,
			OccurredAt:   rec.OccurredAt.UTC(),
		})
	}
	return res, nil
}

// DeleteRun removes a run together with its failure records
func (r *RunRepository) DeleteRun(ctx context.Context, id string) error {
	err := retryOnLock(ctx, func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback() //nolint:errcheck // no-op after commit

		if _, err := tx.ExecContext(ctx, "DELETE FROM pipeline_failures WHERE run_id = ?", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM pipeline_runs WHERE id = ?", id)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return tx.Commit()
	})
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	return nil
}

func fromDomainRun(run *domain.PipelineRun) runSQL {
	rec := runSQL{
		ID:               run.ID,
		StartedAt:        run.StartedAt.UTC(),
		DurationSeconds:  run.DurationSeconds,
		Source:           run.Source,
		RunType:          string(run.RunType),
		Status:           string(run.Status),
		ErrorMessage:     run.ErrorMessage,
		SourcesTotal:     run.SourcesTotal,
		SourcesSkipped:   run.SourcesSkipped,
		SourcesFailed:    run.SourcesFailed,
		SourcesCaptured:  run.SourcesCaptured,
		ArticlesCaptured: run.ArticlesCaptured,
		SkippedSources:   skippedSourcesSQL(run.SkippedSources),
	}
	if run.EndedAt != nil {
		t := run.EndedAt.UTC()
		rec.EndedAt = &t
	}
	return rec
}

func (r runSQL) toDomain() domain.PipelineRun {
	res := domain.PipelineRun{
		ID:               r.ID,
		StartedAt:        r.StartedAt.UTC(),
		DurationSeconds:  r.DurationSeconds,
		Source:           r.Source,
		RunType:          domain.RunType(r.RunType),
		Status:           domain.RunStatus(r.Status),
		ErrorMessage:     r.ErrorMessage,
		SourcesTotal:     r.SourcesTotal,
		SourcesSkipped:   r.SourcesSkipped,
		SourcesFailed:    r.SourcesFailed,
		SourcesCaptured:  r.SourcesCaptured,
		ArticlesCaptured: r.ArticlesCaptured,
		SkippedSources:   []domain.SourceDetail(r.SkippedSources),
	}
	if r.EndedAt != nil {
		t := r.EndedAt.UTC()
		res.EndedAt = &t
	}
	return res
}
