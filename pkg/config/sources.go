package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/umputun/intellect/pkg/domain"
)

// SourceFile provides the feed source list from a JSON or YAML file.
// The file is re-read on every call, so edits apply to the next run without restart.
type SourceFile struct {
	Path string
}

// Sources loads the source list. Entries are returned as is, including those with missing
// required fields, the pipeline reports them as skipped.
func (f SourceFile) Sources(_ context.Context) ([]domain.FeedSource, error) {
	data, err := os.ReadFile(f.Path) //nolint:gosec // path comes from config
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}
	return ParseSources(data, filepath.Ext(f.Path))
}

// ParseSources decodes a source list, format selected by file extension (.yml, .yaml or json otherwise)
func ParseSources(data []byte, ext string) ([]domain.FeedSource, error) {
	var res []domain.FeedSource
	switch strings.ToLower(ext) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &res); err != nil {
			return nil, fmt.Errorf("parse yaml sources: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &res); err != nil {
			return nil, fmt.Errorf("parse json sources: %w", err)
		}
	}

	for i := range res {
		res[i].URL = strings.TrimSpace(res[i].URL)
		res[i].Source = strings.TrimSpace(res[i].Source)
		res[i].Platform = res[i].PlatformOrDefault()
	}
	return res, nil
}
