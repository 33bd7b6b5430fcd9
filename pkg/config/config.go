package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// LLM providers
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
		BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Public base URL used in generated RSS links"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:intellect.db?cache=shared&mode=rwc&_txlock=immediate,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Feed FeedConfig `yaml:"feed" json:"feed" jsonschema:"description=Feed fetching configuration"`

	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Content extraction configuration"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for article tagging"`

	Pipeline PipelineConfig `yaml:"pipeline" json:"pipeline" jsonschema:"description=Pipeline configuration"`
}

// FeedConfig holds feed fetching settings
type FeedConfig struct {
	Timeout        time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Feed fetch timeout"`
	UserAgent      string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Mozilla/5.0 (compatible; Intellect/1.0),description=User agent for feed requests"`
	Placeholder    string        `yaml:"placeholder_thumbnail" json:"placeholder_thumbnail" jsonschema:"default=https://placehold.co/64x64?text=No+Image,description=Thumbnail used when an entry has no image"`
	TrackingParams []string      `yaml:"tracking_params" json:"tracking_params" jsonschema:"description=Extra query parameters dropped from article URLs before dedup"`
}

// ExtractionConfig holds content extraction settings
type ExtractionConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable full text extraction for short entries"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Extraction timeout per article"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=100,description=Entries with shorter text are extracted from the article page"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Mozilla/5.0 (compatible; Intellect/1.0),description=User agent for HTTP requests"`
}

// LLMConfig holds LLM configuration for article tagging
type LLMConfig struct {
	Provider         string        `yaml:"provider" json:"provider" jsonschema:"default=openai,enum=openai,enum=anthropic,description=LLM provider"`
	Endpoint         string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=API endpoint (provider default if empty)"`
	APIKey           string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model            string        `yaml:"model" json:"model" jsonschema:"required,description=Model name (e.g. gpt-4o-mini or claude-3-5-haiku-latest)"`
	Temperature      float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.7,minimum=0,maximum=2,description=Temperature for response generation"`
	MaxTokens        int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=500,description=Maximum tokens in response"`
	Timeout          time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=Timeout of a single article classification"`
	SystemPrompt     string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt for the LLM (optional)"`
	MaxContentLength int           `yaml:"max_content_length" json:"max_content_length" jsonschema:"default=4000,description=Article text is truncated to this many characters"`
	UseJSONMode      bool          `yaml:"use_json_mode" json:"use_json_mode" jsonschema:"default=false,description=Use JSON response format (openai only; not all models support this)"`
	ParseAttempts    int           `yaml:"parse_attempts" json:"parse_attempts" jsonschema:"default=3,minimum=1,description=Attempts made when the response can't be parsed"`
}

// PipelineConfig holds pipeline run settings
type PipelineConfig struct {
	SourcesFile    string        `yaml:"sources_file" json:"sources_file" jsonschema:"default=rss_sources.json,description=JSON or YAML file with feed sources"`
	MaxWorkers     int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=4,minimum=1,description=Sources fetched in parallel"`
	TagBatchSize   int           `yaml:"tag_batch_size" json:"tag_batch_size" jsonschema:"default=100,minimum=1,description=Minimum number of pending articles tagged after a scrape"`
	RetryBatchSize int           `yaml:"retry_batch_size" json:"retry_batch_size" jsonschema:"default=50,minimum=1,description=Number of failed articles retried in one batch"`
	Interval       time.Duration `yaml:"interval" json:"interval" jsonschema:"default=0s,description=Interval of scheduled full pipeline runs in serve mode (0 disables)"`
	SourceLabel    string        `yaml:"source_label" json:"source_label" jsonschema:"default=cli,description=Label recorded as the run source"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// schema validation is supplementary, log only
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		lgr.Printf("[WARN] schema validation failed: %v", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	// server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "http://localhost:8080"
	}

	// database
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:intellect.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// feed
	if cfg.Feed.Timeout == 0 {
		cfg.Feed.Timeout = 30 * time.Second
	}
	if cfg.Feed.UserAgent == "" {
		cfg.Feed.UserAgent = "Mozilla/5.0 (compatible; Intellect/1.0)"
	}
	if cfg.Feed.Placeholder == "" {
		cfg.Feed.Placeholder = "https://placehold.co/64x64?text=No+Image"
	}

	// extraction
	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = 30 * time.Second
	}
	if cfg.Extraction.MinTextLength == 0 {
		cfg.Extraction.MinTextLength = 100
	}
	if cfg.Extraction.UserAgent == "" {
		cfg.Extraction.UserAgent = cfg.Feed.UserAgent
	}

	// llm
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = ProviderOpenAI
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.7
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 500
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 60 * time.Second
	}
	if cfg.LLM.MaxContentLength == 0 {
		cfg.LLM.MaxContentLength = 4000
	}
	if cfg.LLM.ParseAttempts == 0 {
		cfg.LLM.ParseAttempts = 3
	}

	// pipeline
	if cfg.Pipeline.SourcesFile == "" {
		cfg.Pipeline.SourcesFile = "rss_sources.json"
	}
	if cfg.Pipeline.MaxWorkers == 0 {
		cfg.Pipeline.MaxWorkers = 4
	}
	if cfg.Pipeline.TagBatchSize == 0 {
		cfg.Pipeline.TagBatchSize = 100
	}
	if cfg.Pipeline.RetryBatchSize == 0 {
		cfg.Pipeline.RetryBatchSize = 50
	}
	if cfg.Pipeline.SourceLabel == "" {
		cfg.Pipeline.SourceLabel = "cli"
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	// llm
	if cfg.LLM.Provider != ProviderOpenAI && cfg.LLM.Provider != ProviderAnthropic {
		return fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderOpenAI, ProviderAnthropic, cfg.LLM.Provider)
	}
	if cfg.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.ParseAttempts < 1 {
		return fmt.Errorf("llm.parse_attempts must be at least 1")
	}
	if cfg.LLM.MaxContentLength < 0 {
		return fmt.Errorf("llm.max_content_length must be non-negative")
	}

	// pipeline
	if cfg.Pipeline.MaxWorkers < 1 {
		return fmt.Errorf("pipeline.max_workers must be at least 1")
	}
	if cfg.Pipeline.TagBatchSize < 1 || cfg.Pipeline.RetryBatchSize < 1 {
		return fmt.Errorf("pipeline batch sizes must be at least 1")
	}
	if cfg.Pipeline.Interval < 0 {
		return fmt.Errorf("pipeline.interval must be non-negative")
	}

	// extraction
	if cfg.Extraction.Enabled {
		if cfg.Extraction.Timeout < time.Second {
			return fmt.Errorf("extraction timeout must be at least 1 second")
		}
		if cfg.Extraction.MinTextLength < 0 {
			return fmt.Errorf("extraction min_text_length must be non-negative")
		}
	}

	// server
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}
