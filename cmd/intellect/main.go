package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/intellect/pkg/config"
	"github.com/umputun/intellect/pkg/content"
	"github.com/umputun/intellect/pkg/domain"
	"github.com/umputun/intellect/pkg/feed"
	"github.com/umputun/intellect/pkg/llm"
	"github.com/umputun/intellect/pkg/pipeline"
	"github.com/umputun/intellect/pkg/repository"
	"github.com/umputun/intellect/pkg/scheduler"
	"github.com/umputun/intellect/pkg/tagger"
	"github.com/umputun/intellect/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"configuration file"`

	Run    struct{}  `command:"run" description:"scrape all sources and tag new articles"`
	Scrape struct{}  `command:"scrape" description:"scrape all sources without tagging"`
	Tag    TagCmd    `command:"tag" description:"tag pending articles"`
	Retry  TagCmd    `command:"retry" description:"retry tagging of failed articles"`
	Serve  struct{}  `command:"serve" description:"run http server and scheduled pipeline (default)"`
	Export ExportCmd `command:"export" description:"export stored articles to json"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

// TagCmd options of tag and retry commands
type TagCmd struct {
	Batch int  `short:"b" long:"batch" description:"batch size, configured batch size if not set"`
	Drain bool `long:"drain" description:"repeat batches until nothing is left"`
}

// ExportCmd options of export command
type ExportCmd struct {
	Out      string `short:"o" long:"out" default:"-" description:"output file, stdout if -"`
	Status   string `long:"status" description:"export only articles with this tag status"`
	Source   string `long:"source" description:"export only articles of this source"`
	Category string `long:"category" description:"export only articles of this category"`
	Limit    int    `long:"limit" description:"max number of articles, all if not set"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	parser.SubcommandsOptional = true
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor)

	command := "serve"
	if parser.Active != nil {
		command = parser.Active.Name
	}
	lgr.Printf("[INFO] starting intellect version %s, command %s", revision, command)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts, command)
	cancel()

	if err != nil {
		lgr.Printf("[ERROR] %s failed: %v", command, err)
		os.Exit(1)
	}

	lgr.Print("[INFO] shutdown complete")
}

// app holds wired components for all commands
type app struct {
	cfg      *config.Config
	repos    *repository.Repositories
	pipeline *pipeline.Pipeline
}

// run loads configuration, wires components and executes the command
func run(ctx context.Context, opts Opts, command string) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.LLM.APIKey != "" {
		setupLog(opts.Debug, opts.NoColor, cfg.LLM.APIKey)
	}

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			lgr.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	a := &app{cfg: cfg, repos: repos, pipeline: makePipeline(cfg, repos)}
	label := cfg.Pipeline.SourceLabel

	switch command {
	case "run":
		return report(a.pipeline.RunFullPipeline(ctx, label))
	case "scrape":
		return report(a.pipeline.RunScrape(ctx, label))
	case "tag":
		return report(a.pipeline.RunTagging(ctx, label, tagOptions(opts.Tag, domain.TagStatusPending, cfg.Pipeline.TagBatchSize)))
	case "retry":
		return report(a.pipeline.RunTagging(ctx, label, tagOptions(opts.Retry, domain.TagStatusError, cfg.Pipeline.RetryBatchSize)))
	case "export":
		return a.export(ctx, opts.Export)
	case "serve":
		return a.serve(ctx, opts.Debug)
	}
	return fmt.Errorf("unknown command %q", command)
}

// makePipeline wires normalizer, store, classifier and tagger into the pipeline
func makePipeline(cfg *config.Config, repos *repository.Repositories) *pipeline.Pipeline {
	normParams := feed.NormalizerParams{
		Timeout:     cfg.Feed.Timeout,
		UserAgent:   cfg.Feed.UserAgent,
		Placeholder: cfg.Feed.Placeholder,
	}
	if cfg.Extraction.Enabled {
		normParams.Extractor = content.NewHTTPExtractor(cfg.Extraction.Timeout, cfg.Extraction.UserAgent)
		normParams.MinTextLength = cfg.Extraction.MinTextLength
	}

	tg := tagger.New(tagger.Config{Store: repos.Article, Classifier: makeClassifier(cfg.LLM), Timeout: cfg.LLM.Timeout})

	return pipeline.New(pipeline.Config{
		Sources:        config.SourceFile{Path: cfg.Pipeline.SourcesFile},
		Normalizer:     feed.NewNormalizer(normParams),
		Articles:       repos.Article,
		Tagger:         tg,
		Runs:           repos.Run,
		MaxWorkers:     cfg.Pipeline.MaxWorkers,
		TagBatchSize:   cfg.Pipeline.TagBatchSize,
		TrackingParams: cfg.Feed.TrackingParams,
	})
}

// makeClassifier selects classifier implementation by provider, validated by config
func makeClassifier(cfg config.LLMConfig) tagger.Classifier {
	if cfg.Provider == config.ProviderAnthropic {
		lgr.Printf("[INFO] using anthropic classifier, model %s", cfg.Model)
		return llm.NewAnthropicClassifier(cfg)
	}
	lgr.Printf("[INFO] using openai classifier, model %s", cfg.Model)
	return llm.NewOpenAIClassifier(cfg)
}

func tagOptions(cmd TagCmd, status domain.TagStatus, defBatch int) pipeline.TagOptions {
	batch := cmd.Batch
	if batch <= 0 {
		batch = defBatch
	}
	return pipeline.TagOptions{Status: status, BatchSize: batch, Drain: cmd.Drain}
}

// report prints run summary, a run ended in failed status is reported as error
func report(summary domain.PipelineSummary, err error) error {
	data, mErr := json.MarshalIndent(summary, "", "  ")
	if mErr == nil {
		fmt.Println(string(data))
	}
	if err != nil {
		return err
	}
	if summary.Status == domain.RunStatusFailed {
		return fmt.Errorf("run %s failed: %v", summary.RunID, summary.Errors)
	}
	return nil
}

// serve runs http server and the scheduler until ctx is canceled
func (a *app) serve(ctx context.Context, debug bool) error {
	sched := scheduler.NewScheduler(scheduler.Config{Runner: a.pipeline, Interval: a.cfg.Pipeline.Interval})
	sched.Start(ctx)
	defer sched.Stop()

	srv := server.New(server.Config{
		Listen:         a.cfg.Server.Listen,
		Timeout:        a.cfg.Server.Timeout,
		BaseURL:        a.cfg.Server.BaseURL,
		TagBatchSize:   a.cfg.Pipeline.TagBatchSize,
		RetryBatchSize: a.cfg.Pipeline.RetryBatchSize,
	}, a.repos.Article, a.repos.Run, a.pipeline, revision, debug)

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// export writes stored articles as json array to file or stdout
func (a *app) export(ctx context.Context, cmd ExportCmd) (err error) {
	filter := domain.ArticleFilter{TagStatus: domain.TagStatus(cmd.Status), Source: cmd.Source,
		Category: cmd.Category, Limit: cmd.Limit}
	articles, err := a.repos.Article.ListArticles(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list articles: %w", err)
	}
	if articles == nil {
		articles = []domain.Article{}
	}

	var out io.Writer = os.Stdout
	if cmd.Out != "-" && cmd.Out != "" {
		fh, cErr := os.Create(cmd.Out)
		if cErr != nil {
			return fmt.Errorf("failed to create %s: %w", cmd.Out, cErr)
		}
		defer func() { err = errors.Join(err, fh.Close()) }()
		out = fh
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(articles); err != nil {
		return fmt.Errorf("failed to write articles: %w", err)
	}
	lgr.Printf("[INFO] exported %d articles to %s", len(articles), cmd.Out)
	return nil
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(io.Discard), lgr.Err(io.Discard)}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
