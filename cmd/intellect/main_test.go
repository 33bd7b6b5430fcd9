package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/intellect/pkg/domain"
	"github.com/umputun/intellect/pkg/pipeline"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>AI Weekly</title><link>https://ai.example.com</link>
<item><title>Open model</title><link>https://ai.example.com/open</link><description>Open weights model released.</description>
<pubDate>Mon, 03 Mar 2025 10:00:00 GMT</pubDate></item>
<item><title>Robot arm</title><link>https://ai.example.com/robot</link><description>Robot arm learns to cook.</description>
<pubDate>Tue, 04 Mar 2025 10:00:00 GMT</pubDate></item>
</channel></rss>`

// testEnv makes feed and llm servers, sources file and config file in a temp dir
func testEnv(t *testing.T, listen string) (configPath, dir string) {
	t.Helper()
	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feedXML))
	}))
	t.Cleanup(feedSrv.Close)

	llmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"id": "chatcmpl-1", "object": "chat.completion", "model": "gpt-4o-mini",
			"choices": []map[string]any{{"index": 0, "finish_reason": "stop",
				"message": map[string]any{"role": "assistant", "content": `{"tags": ["llm"], "category": "AI Research"}`}}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(llmSrv.Close)

	dir = t.TempDir()
	sources := fmt.Sprintf(`[{"url": %q, "source": "AI Weekly"}, {"url": "", "source": "Broken"}]`, feedSrv.URL+"/rss")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rss_sources.json"), []byte(sources), 0o600))

	cfg := fmt.Sprintf(`
server:
  listen: %q
  timeout: 5s
database:
  dsn: %q
  max_open_conns: 1
  max_idle_conns: 1
llm:
  endpoint: %q
  api_key: test-key
  model: gpt-4o-mini
  timeout: 5s
pipeline:
  sources_file: %q
  max_workers: 2
`, listen, filepath.Join(dir, "intellect.db"), llmSrv.URL+"/v1", filepath.Join(dir, "rss_sources.json"))
	configPath = filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0o600))
	return configPath, dir
}

func TestRun_MissingConfig(t *testing.T) {
	err := run(context.Background(), Opts{Config: "non-existent-config.yml"}, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("invalid: yaml: content: ["), 0o600))

	err := run(context.Background(), Opts{Config: path}, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_Commands(t *testing.T) {
	configPath, dir := testEnv(t, "127.0.0.1:0")
	ctx := context.Background()
	opts := Opts{Config: configPath}

	require.NoError(t, run(ctx, opts, "scrape"))
	require.NoError(t, run(ctx, opts, "tag"), "tags both scraped articles")
	require.NoError(t, run(ctx, opts, "retry"), "nothing to retry is not an error")
	require.NoError(t, run(ctx, opts, "run"), "second run finds nothing new")

	opts.Export = ExportCmd{Out: filepath.Join(dir, "export.json"), Status: "tagged"}
	require.NoError(t, run(ctx, opts, "export"))

	data, err := os.ReadFile(filepath.Join(dir, "export.json"))
	require.NoError(t, err)
	var articles []domain.Article
	require.NoError(t, json.Unmarshal(data, &articles))
	require.Len(t, articles, 2)
	assert.Equal(t, "Robot arm", articles[0].Title, "newest first")
	for _, a := range articles {
		assert.Equal(t, domain.TagStatusTagged, a.TagStatus)
		assert.Equal(t, "AI Research", a.Category)
		assert.Equal(t, []string{"llm"}, a.Tags)
		assert.Equal(t, "AI Weekly", a.Source)
	}

	err = run(ctx, opts, "unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestRun_ExportInvalidFilter(t *testing.T) {
	configPath, _ := testEnv(t, "127.0.0.1:0")
	opts := Opts{Config: configPath, Export: ExportCmd{Out: "-", Status: "archived"}}
	err := run(context.Background(), opts, "export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tag status")
}

func TestRun_ServerStartStop(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	configPath, _ := testEnv(t, fmt.Sprintf("127.0.0.1:%d", port))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx, Opts{Config: configPath}, "serve") }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(fmt.Sprintf("http://127.0.0.1:%d/api/v1/status", port))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestTagOptions(t *testing.T) {
	assert.Equal(t, pipeline.TagOptions{Status: domain.TagStatusPending, BatchSize: 100},
		tagOptions(TagCmd{}, domain.TagStatusPending, 100))
	assert.Equal(t, pipeline.TagOptions{Status: domain.TagStatusError, BatchSize: 5, Drain: true},
		tagOptions(TagCmd{Batch: 5, Drain: true}, domain.TagStatusError, 50))
}

func TestReport(t *testing.T) {
	require.NoError(t, report(domain.PipelineSummary{RunID: "r1", Status: domain.RunStatusCompleted}, nil))

	err := report(domain.PipelineSummary{RunID: "r2", Status: domain.RunStatusFailed, Errors: []string{"tagging: boom"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tagging: boom")

	err = report(domain.PipelineSummary{}, pipeline.ErrBusy)
	require.ErrorIs(t, err, pipeline.ErrBusy)
	assert.False(t, errors.Is(err, context.Canceled))
}
