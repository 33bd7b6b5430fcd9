// Package llm implements article classifiers backed by OpenAI-compatible and Anthropic chat models.
// A classifier maps article text to a list of tags and one category from domain.Categories.
package llm

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/intellect/pkg/domain"
)

// ErrMalformedResponse is returned when the model response can't be decoded into a classification
var ErrMalformedResponse = errors.New("malformed llm response")

var errEmptyText = errors.New("empty article text")

// DefaultSystemPrompt builds the classification instructions listing the category taxonomy
func DefaultSystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are an expert content classifier and keyword extractor focused on AI-related content.\n")
	sb.WriteString("Given a text snippet, return:\n")
	sb.WriteString("1. A list of 5-10 descriptive tags (keywords or phrases relevant to the text).\n")
	sb.WriteString("2. One category that best fits the content, chosen only from this list:\n")
	for _, c := range domain.Categories {
		sb.WriteString("   - ")
		sb.WriteString(c)
		sb.WriteString("\n")
	}
	sb.WriteString("If none of the categories fits, use \"Other\".\n\n")
	sb.WriteString("Return the result in JSON format only, without any other text:\n")
	sb.WriteString(`{"tags": ["tag1", "tag2"], "category": "Category name"}`)
	return sb.String()
}

// textPreparer strips markup from article content and caps its length
type textPreparer struct {
	policy *bluemonday.Policy
	maxLen int
}

func newTextPreparer(maxLen int) *textPreparer {
	return &textPreparer{policy: bluemonday.StrictPolicy(), maxLen: maxLen}
}

// prepare returns plain text with collapsed whitespace, truncated to maxLen runes if maxLen > 0
func (p *textPreparer) prepare(text string) (string, error) {
	plain := html.UnescapeString(p.policy.Sanitize(text))
	plain = strings.Join(strings.Fields(plain), " ")
	if plain == "" {
		return "", errEmptyText
	}
	if p.maxLen > 0 {
		if runes := []rune(plain); len(runes) > p.maxLen {
			plain = string(runes[:p.maxLen])
		}
	}
	return plain, nil
}

func systemPrompt(custom string) string {
	if strings.TrimSpace(custom) != "" {
		return custom
	}
	return DefaultSystemPrompt()
}

func attemptsOrDefault(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func failedAfter(attempts int, err error) error {
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}
