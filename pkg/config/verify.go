package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema.
// Checks that every configured section is known to the schema and required fields are set.
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	var schema struct {
		Ref         string `json:"$ref"`
		Definitions map[string]struct {
			Properties map[string]json.RawMessage `json:"properties"`
			Required   []string                   `json:"required"`
		} `json:"$defs"`
	}
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// convert config to a generic map for comparison with schema properties
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	root, ok := schema.Definitions["Config"]
	if !ok {
		return fmt.Errorf("schema has no Config definition")
	}
	for key := range configMap {
		if _, ok := root.Properties[key]; !ok {
			return fmt.Errorf("config section %q is not in schema", key)
		}
	}

	if llmDef, ok := schema.Definitions["LLMConfig"]; ok && slices.Contains(llmDef.Required, "model") && cfg.LLM.Model == "" {
		return fmt.Errorf("llm.model is required by schema")
	}

	if err := validateRequiredFields(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(cfg *Config) error {
	// check server config
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if cfg.Server.Timeout == 0 {
		return fmt.Errorf("server.timeout is required")
	}

	if cfg.Pipeline.SourcesFile == "" {
		return fmt.Errorf("pipeline.sources_file is required")
	}

	// check extraction config if enabled
	if cfg.Extraction.Enabled {
		if cfg.Extraction.Timeout == 0 {
			return fmt.Errorf("extraction.timeout is required when extraction is enabled")
		}
		if cfg.Extraction.MinTextLength < 0 {
			return fmt.Errorf("extraction.min_text_length must be non-negative")
		}
	}

	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
