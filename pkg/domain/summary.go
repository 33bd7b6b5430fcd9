package domain

// TagResult is the outcome of classifying a single article
type TagResult struct {
	ArticleID int64
	URL       string
	Title     string
	Error     string // empty on success
}

// TagStats aggregates the outcome of a tagging batch
type TagStats struct {
	TotalProcessed int         `json:"total_processed"`
	Successful     int         `json:"successful"`
	Failed         int         `json:"failed"`
	Skipped        int         `json:"skipped"`
	Errors         []string    `json:"errors,omitempty"`
	Results        []TagResult `json:"-"`
}

// Add merges other into s
func (s *TagStats) Add(other TagStats) {
	s.TotalProcessed += other.TotalProcessed
	s.Successful += other.Successful
	s.Failed += other.Failed
	s.Skipped += other.Skipped
	s.Errors = append(s.Errors, other.Errors...)
	s.Results = append(s.Results, other.Results...)
}

// ScrapeSummary aggregates the scrape phase of a run
type ScrapeSummary struct {
	Imported      int            `json:"imported"`
	Skipped       int            `json:"skipped"`
	Failed        int            `json:"failed"`
	Total         int            `json:"total"`
	Articles      int            `json:"articles"`
	ArticleErrors int            `json:"article_errors"`
	FailedFeeds   []SourceDetail `json:"failed_feeds"`
}

// PipelineSummary is returned by every orchestrated run
type PipelineSummary struct {
	RunID    string        `json:"run_id"`
	Status   RunStatus     `json:"status"`
	Scraping ScrapeSummary `json:"scraping"`
	Tagging  TagStats      `json:"tagging"`
	Errors   []string      `json:"errors"`
}
