package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/intellect/pkg/domain"
)

func TestRunRepository_Lifecycle(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	run := &domain.PipelineRun{Source: "cli", RunType: domain.RunTypeFullPipeline}
	require.NoError(t, repos.Run.CreateRun(ctx, run))
	require.NotEmpty(t, run.ID)
	assert.Len(t, run.ID, 36, "uuid")

	got, err := repos.Run.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusRunning, got.Status)
	assert.Nil(t, got.EndedAt)
	assert.Equal(t, "cli", got.Source)
	assert.Equal(t, domain.RunTypeFullPipeline, got.RunType)
	assert.NotNil(t, got.SkippedSources)
	assert.Empty(t, got.SkippedSources)

	// progress
	run.SourcesTotal, run.SourcesSkipped, run.SourcesFailed, run.SourcesCaptured = 3, 1, 1, 1
	run.SkippedSources = []domain.SourceDetail{
		{Source: "Broken", URL: "", Reason: "missing url", Outcome: domain.OutcomeSkipped},
		{Source: "Down", URL: "https://down.example.com/rss", Reason: "feed fetch failed", Outcome: domain.OutcomeError},
	}
	require.NoError(t, repos.Run.UpdateRunProgress(ctx, run))
	got, err = repos.Run.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.SourcesTotal)
	assert.Equal(t, run.SkippedSources, got.SkippedSources)

	// failure records
	f := &domain.PipelineFailure{RunID: run.ID, ArticleURL: "https://down.example.com/rss", Stage: domain.StageScrape, ErrorMessage: "boom"}
	require.NoError(t, repos.Run.CreateFailure(ctx, f))
	assert.NotZero(t, f.ID)
	require.NoError(t, repos.Run.CreateFailure(ctx, &domain.PipelineFailure{RunID: run.ID, Stage: domain.StageTag, ErrorMessage: "timeout"}))

	failures, err := repos.Run.GetFailures(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, failures, 2)
	assert.Equal(t, domain.StageScrape, failures[0].Stage)
	assert.Equal(t, "boom", failures[0].ErrorMessage)
	assert.Equal(t, domain.StageTag, failures[1].Stage)

	// finish
	ended := run.StartedAt.Add(1500 * time.Millisecond)
	run.EndedAt, run.DurationSeconds, run.Status, run.ArticlesCaptured = &ended, 1.5, domain.RunStatusCompleted, 7
	require.NoError(t, repos.Run.FinishRun(ctx, run))

	got, err = repos.Run.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, got.Status)
	require.NotNil(t, got.EndedAt)
	assert.True(t, ended.Equal(*got.EndedAt))
	assert.InDelta(t, 1.5, got.DurationSeconds, 0.001)
	assert.Equal(t, 7, got.ArticlesCaptured)

	// terminal state reached once
	run.Status = domain.RunStatusFailed
	require.Error(t, repos.Run.FinishRun(ctx, run))
	require.Error(t, repos.Run.UpdateRunProgress(ctx, run))
	got, err = repos.Run.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, got.Status)
}

func TestRunRepository_FinishRequiresTerminal(t *testing.T) {
	repos := setupTestDB(t)
	run := &domain.PipelineRun{Source: "cli", RunType: domain.RunTypeTagging}
	require.NoError(t, repos.Run.CreateRun(context.Background(), run))

	err := repos.Run.FinishRun(context.Background(), run)
	require.Error(t, err)

	ended := time.Now()
	run.Status, run.EndedAt = domain.RunStatusRunning, &ended
	require.Error(t, repos.Run.FinishRun(context.Background(), run))
}

func TestRunRepository_ListAndDelete(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		run := &domain.PipelineRun{Source: "scheduler", RunType: domain.RunTypeRSSScrape, StartedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, repos.Run.CreateRun(ctx, run))
		ids = append(ids, run.ID)
	}
	require.NoError(t, repos.Run.CreateFailure(ctx, &domain.PipelineFailure{RunID: ids[0], Stage: domain.StageScrape, ErrorMessage: "x"}))

	runs, err := repos.Run.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)

	require.NoError(t, repos.Run.DeleteRun(ctx, ids[0]))
	_, err = repos.Run.GetRun(ctx, ids[0])
	require.ErrorIs(t, err, ErrNotFound)
	failures, err := repos.Run.GetFailures(ctx, ids[0])
	require.NoError(t, err)
	assert.Empty(t, failures, "failures removed with their run")

	require.ErrorIs(t, repos.Run.DeleteRun(ctx, ids[0]), ErrNotFound)
}

func TestRunRepository_FailureRequiresRun(t *testing.T) {
	repos := setupTestDB(t)
	err := repos.Run.CreateFailure(context.Background(), &domain.PipelineFailure{RunID: "missing", Stage: domain.StageTag, ErrorMessage: "x"})
	require.Error(t, err, "foreign key enforced")
}
