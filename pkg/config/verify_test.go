package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAgainstEmbeddedSchema(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *Config)
		errMsg string
	}{
		{name: "valid config", modify: func(cfg *Config) {}},
		{name: "missing listen", modify: func(cfg *Config) { cfg.Server.Listen = "" }, errMsg: "server.listen is required"},
		{name: "missing timeout", modify: func(cfg *Config) { cfg.Server.Timeout = 0 }, errMsg: "server.timeout is required"},
		{name: "missing sources file", modify: func(cfg *Config) { cfg.Pipeline.SourcesFile = "" }, errMsg: "pipeline.sources_file"},
		{name: "missing model", modify: func(cfg *Config) { cfg.LLM.Model = "" }, errMsg: "llm.model"},
		{name: "extraction enabled without timeout", modify: func(cfg *Config) {
			cfg.Extraction.Enabled = true
			cfg.Extraction.Timeout = 0
		}, errMsg: "extraction.timeout is required"},
		{name: "extraction disabled ignores its settings", modify: func(cfg *Config) {
			cfg.Extraction.Timeout = 0
			cfg.Extraction.MinTextLength = -1
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{LLM: LLMConfig{Model: "test-model", APIKey: "test-key"}}
			setDefaults(cfg)
			cfg.Server.Timeout = 30 * time.Second
			tt.modify(cfg)

			err := VerifyAgainstEmbeddedSchema(cfg)
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestEmbeddedSchemaMatchesConfig(t *testing.T) {
	var embedded struct {
		Definitions map[string]struct {
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"$defs"`
	}
	require.NoError(t, json.Unmarshal([]byte(embeddedSchema), &embedded))

	schema, err := GenerateSchema()
	require.NoError(t, err)
	data, err := schema.MarshalJSON()
	require.NoError(t, err)
	var generated struct {
		Definitions map[string]struct {
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"$defs"`
	}
	require.NoError(t, json.Unmarshal(data, &generated))

	// regenerate schema.json with go generate if this fails
	for _, name := range []string{"Config", "FeedConfig", "ExtractionConfig", "LLMConfig", "PipelineConfig"} {
		require.Contains(t, generated.Definitions, name)
		require.Contains(t, embedded.Definitions, name)
		for prop := range generated.Definitions[name].Properties {
			assert.Contains(t, embedded.Definitions[name].Properties, prop, "%s.%s", name, prop)
		}
	}
}

func TestGenerateSchema(t *testing.T) {
	schema, err := GenerateSchema()
	require.NoError(t, err)
	require.NotNil(t, schema)

	data, err := schema.MarshalJSON()
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	schemaStr := string(data)
	assert.Contains(t, schemaStr, "Config")
	assert.Contains(t, schemaStr, "server")
	assert.Contains(t, schemaStr, "pipeline")
	assert.Contains(t, schemaStr, "max_content_length")
}
