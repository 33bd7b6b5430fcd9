package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/umputun/intellect/pkg/domain"
)

var codeFenceRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)\\s*```")

// parseClassification decodes a model response. The response may be wrapped in a fenced code block
// or surrounded by prose, the first JSON object found is used.
// Missing fields are allowed: tags default to empty, category to Other.
func parseClassification(raw string) (domain.Classification, error) {
	payload := strings.TrimSpace(raw)
	if m := codeFenceRe.FindStringSubmatch(payload); m != nil {
		payload = m[1]
	}

	if !strings.HasPrefix(payload, "{") {
		start, end := strings.Index(payload, "{"), strings.LastIndex(payload, "}")
		if start < 0 || end <= start {
			return domain.Classification{}, fmt.Errorf("%w: no json object found", ErrMalformedResponse)
		}
		payload = payload[start : end+1]
	}

	var resp struct {
		Tags     []string `json:"tags"`
		Category string   `json:"category"`
	}
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return domain.Classification{}, fmt.Errorf("%w: failed to parse json: %v", ErrMalformedResponse, err)
	}

	return domain.Classification{
		Tags:     domain.CleanTags(resp.Tags),
		Category: domain.NormalizeCategory(resp.Category),
	}, nil
}
