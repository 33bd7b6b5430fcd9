package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/intellect/pkg/domain"
	"github.com/umputun/intellect/pkg/feed"
	"github.com/umputun/intellect/pkg/pipeline/mocks"
	"github.com/umputun/intellect/pkg/repository"
	"github.com/umputun/intellect/pkg/tagger"
	tgmocks "github.com/umputun/intellect/pkg/tagger/mocks"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>AI Weekly</title>
	<link>https://ai.example.com</link>
	<item>
		<title>Open weights model released</title>
		<link>https://ai.example.com/open-weights?utm_source=rss</link>
		<description>&lt;p&gt;A new open weights model beats benchmarks.&lt;/p&gt;</description>
		<pubDate>Mon, 03 Mar 2025 10:00:00 GMT</pubDate>
	</item>
	<item>
		<title>Robot learns to fold laundry</title>
		<link>https://ai.example.com/robot-laundry</link>
		<description>Robotics lab shows a folding robot.</description>
		<pubDate>Tue, 04 Mar 2025 10:00:00 GMT</pubDate>
	</item>
	<item>
		<title>Broken classifier input</title>
		<link>https://ai.example.com/broken</link>
		<description>unclassifiable</description>
		<pubDate>Wed, 05 Mar 2025 10:00:00 GMT</pubDate>
	</item>
</channel>
</rss>`

func TestPipeline_EndToEnd(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rss":
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(testRSS))
		case "/garbage":
			_, _ = w.Write([]byte("this is not a feed"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	repos, err := repository.NewRepositories(context.Background(), repository.Config{DSN: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	require.NoError(t, err)
	defer repos.Close()

	sources := &mocks.SourceProviderMock{SourcesFunc: func(ctx context.Context) ([]domain.FeedSource, error) {
		return []domain.FeedSource{
			{URL: ts.URL + "/rss", Source: "AI Weekly", Platform: domain.PlatformRSS},
			{URL: ts.URL + "/garbage", Source: "Garbage", Platform: domain.PlatformRSS},
			{URL: "", Source: "Empty"},
		}, nil
	}}
	classifier := &tgmocks.ClassifierMock{ClassifyFunc: func(ctx context.Context, text string) (domain.Classification, error) {
		switch {
		case strings.Contains(text, "unclassifiable"):
			return domain.Classification{}, errors.New("llm request failed: 503")
		case strings.Contains(text, "robot"):
			return domain.Classification{Tags: []string{"robots"}, Category: "Robotics"}, nil
		}
		return domain.Classification{Tags: []string{"open weights"}, Category: "Open-Source AI"}, nil
	}}

	p := New(Config{
		Sources:      sources,
		Normalizer:   feed.NewNormalizer(feed.NormalizerParams{Timeout: 5 * time.Second}),
		Articles:     repos.Article,
		Tagger:       tagger.New(tagger.Config{Store: repos.Article, Classifier: classifier, Timeout: time.Second}),
		Runs:         repos.Run,
		MaxWorkers:   2,
		TagBatchSize: 10,
	})
	ctx := context.Background()

	summary, err := p.RunFullPipeline(ctx, "cli")
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, summary.Status)
	assert.Equal(t, 3, summary.Scraping.Total)
	assert.Equal(t, 1, summary.Scraping.Imported)
	assert.Equal(t, 1, summary.Scraping.Skipped)
	assert.Equal(t, 1, summary.Scraping.Failed)
	assert.Equal(t, 3, summary.Scraping.Articles)
	assert.Equal(t, 3, summary.Tagging.TotalProcessed)
	assert.Equal(t, 2, summary.Tagging.Successful)
	assert.Equal(t, 1, summary.Tagging.Failed)

	counts, err := repos.Article.CountByTagStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[domain.TagStatusTagged])
	assert.Equal(t, 1, counts[domain.TagStatusError])
	assert.Zero(t, counts[domain.TagStatusPending])

	tagged, err := repos.Article.ListArticles(ctx, domain.ArticleFilter{Category: "Robotics"})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, "Robot learns to fold laundry", tagged[0].Title)
	assert.Equal(t, []string{"robots"}, tagged[0].Tags)

	run, err := repos.Run.GetRun(ctx, summary.RunID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, run.Status)
	assert.Equal(t, domain.RunTypeFullPipeline, run.RunType)
	assert.Equal(t, "cli", run.Source)
	assert.Equal(t, 3, run.SourcesTotal)
	assert.Equal(t, 1, run.SourcesCaptured)
	assert.Equal(t, 1, run.SourcesSkipped)
	assert.Equal(t, 1, run.SourcesFailed)
	assert.Equal(t, 3, run.ArticlesCaptured)
	assert.Len(t, run.SkippedSources, 2)
	require.NotNil(t, run.EndedAt)

	failures, err := repos.Run.GetFailures(ctx, summary.RunID)
	require.NoError(t, err)
	stages := map[domain.Stage]int{}
	for _, f := range failures {
		stages[f.Stage]++
	}
	assert.Equal(t, 1, stages[domain.StageScrape], "garbage feed")
	assert.Equal(t, 1, stages[domain.StageTag], "unclassifiable article")

	// second run finds nothing new, failed article is retried separately
	again, err := p.RunFullPipeline(ctx, "cli")
	require.NoError(t, err)
	assert.Zero(t, again.Scraping.Articles)
	assert.Equal(t, 1, again.Scraping.Imported)
	assert.Zero(t, again.Tagging.TotalProcessed)
	assert.NotEqual(t, summary.RunID, again.RunID)

	retry, err := p.RunTagging(ctx, "api", TagOptions{Status: domain.TagStatusError, BatchSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, retry.Tagging.TotalProcessed)
	assert.Equal(t, 1, retry.Tagging.Failed)

	runs, err := repos.Run.ListRuns(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}
