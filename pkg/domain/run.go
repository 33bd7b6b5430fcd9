package domain

import "time"

// RunStatus represents the lifecycle state of a pipeline run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Terminal reports whether the status ends a run
func (s RunStatus) Terminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// RunType identifies what kind of work a run performs
type RunType string

const (
	RunTypeRSSScrape    RunType = "rss_scrape"
	RunTypeTagging      RunType = "tagging"
	RunTypeFullPipeline RunType = "full_pipeline"
)

// Stage is the pipeline stage an item outcome belongs to
type Stage string

const (
	StageScrape Stage = "scrape"
	StageTag    Stage = "tag"
)

// Outcome is the result of processing a single item
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
	OutcomeSkipped Outcome = "skipped"
)

// ItemRef identifies an item (a source or an article) in run records
type ItemRef struct {
	Name string
	URL  string
}

// SourceDetail describes a source that was skipped or failed during a run
type SourceDetail struct {
	Source  string  `json:"source"`
	URL     string  `json:"url"`
	Reason  string  `json:"reason"`
	Outcome Outcome `json:"outcome"`
}

// PipelineRun is one execution of scrape and/or tag work
type PipelineRun struct {
	ID               string         `json:"id"`
	StartedAt        time.Time      `json:"started_at"`
	EndedAt          *time.Time     `json:"ended_at,omitempty"`
	DurationSeconds  float64        `json:"duration_seconds"`
	Source           string         `json:"source"`
	RunType          RunType        `json:"run_type"`
	Status           RunStatus      `json:"status"`
	ErrorMessage     string         `json:"error_message,omitempty"`
	SourcesTotal     int            `json:"sources_total"`
	SourcesSkipped   int            `json:"sources_skipped"`
	SourcesFailed    int            `json:"sources_failed"`
	SourcesCaptured  int            `json:"sources_captured"`
	ArticlesCaptured int            `json:"articles_captured"`
	SkippedSources   []SourceDetail `json:"skipped_sources_details"`
}

// PipelineFailure is a per-item failure record owned by a run
type PipelineFailure struct {
	ID           int64     `json:"id"`
	RunID        string    `json:"run_id"`
	ArticleURL   string    `json:"article_url"`
	Stage        Stage     `json:"stage"`
	ErrorMessage string    `json:"error_message"`
	OccurredAt   time.Time `json:"occurred_at"`
}
