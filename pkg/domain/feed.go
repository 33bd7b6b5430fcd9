package domain

import (
	"errors"
	"strings"
)

// FeedSource describes one configured feed to scrape
type FeedSource struct {
	URL         string `json:"url" yaml:"url"`
	Source      string `json:"source" yaml:"source"`
	Platform    string `json:"platform,omitempty" yaml:"platform,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	SourceType  string `json:"source_type,omitempty" yaml:"source_type,omitempty"`
}

// Validate reports missing required fields, blank values count as missing
func (s FeedSource) Validate() error {
	noURL, noSource := strings.TrimSpace(s.URL) == "", strings.TrimSpace(s.Source) == ""
	switch {
	case noURL && noSource:
		return errors.New("missing url and source")
	case noURL:
		return errors.New("missing url")
	case noSource:
		return errors.New("missing source")
	}
	return nil
}

// PlatformOrDefault returns the platform label, RSS if not set
func (s FeedSource) PlatformOrDefault() string {
	if s.Platform == "" {
		return PlatformRSS
	}
	return s.Platform
}
