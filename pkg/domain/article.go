package domain

import (
	"errors"
	"time"
)

// ErrInvalidTransition is returned when a tag status change is not allowed by the tagging lifecycle
var ErrInvalidTransition = errors.New("invalid tag status transition")

// platform labels
const (
	PlatformRSS     = "RSS"
	PlatformWebsite = "Website"
)

// TagStatus represents the classification lifecycle of an article
type TagStatus string

const (
	TagStatusPending TagStatus = "pending"
	TagStatusTagged  TagStatus = "tagged"
	TagStatusError   TagStatus = "error"
)

// Valid reports whether the status is one of the known values
func (s TagStatus) Valid() bool {
	switch s {
	case TagStatusPending, TagStatusTagged, TagStatusError:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is allowed.
// pending and error may move to tagged or error; tagged is final.
func (s TagStatus) CanTransition(next TagStatus) bool {
	switch s {
	case TagStatusPending, TagStatusError:
		return next == TagStatusTagged || next == TagStatusError
	}
	return false
}

// Article represents a single ingested piece of content
type Article struct {
	ID        int64     `json:"id"`
	Source    string    `json:"source"`
	Platform  string    `json:"platform"`
	URL       string    `json:"url"`
	URLKey    string    `json:"-"` // normalized url, unique across the store
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	Summary   string    `json:"summary,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Thumbnail string    `json:"thumbnail"`
	Author    string    `json:"author,omitempty"`

	// classification, nil tags means never tagged
	Tags      []string   `json:"tags"`
	Category  string     `json:"category"`
	TagStatus TagStatus  `json:"tag_status"`
	TagError  string     `json:"tag_error,omitempty"`
	TaggedAt  *time.Time `json:"tagged_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identifier returns a human-readable identifier for logs
func (a *Article) Identifier() string {
	if a.Title != "" {
		return a.Title
	}
	return a.URL
}

// ArticleFilter represents filtering criteria for article listing
type ArticleFilter struct {
	TagStatus TagStatus
	Source    string
	Platform  string
	Category  string
	From      time.Time
	To        time.Time
	Limit     int
	Offset    int
}

// Validate checks the filter for contradictory values
func (f ArticleFilter) Validate() error {
	if f.TagStatus != "" && !f.TagStatus.Valid() {
		return errors.New("unknown tag status " + string(f.TagStatus))
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return errors.New("range end is before range start")
	}
	if f.Limit < 0 || f.Offset < 0 {
		return errors.New("limit and offset must be non-negative")
	}
	return nil
}
