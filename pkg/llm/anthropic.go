package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-pkgz/lgr"
	"github.com/liushuangls/go-anthropic/v2"

	"github.com/umputun/intellect/pkg/config"
	"github.com/umputun/intellect/pkg/domain"
)

// AnthropicClassifier classifies articles with Anthropic messages API
type AnthropicClassifier struct {
	client    *anthropic.Client
	config    config.LLMConfig
	systemMsg string
	text      *textPreparer
}

// NewAnthropicClassifier creates a classifier for Anthropic API, endpoint overrides the default base url
func NewAnthropicClassifier(cfg config.LLMConfig) *AnthropicClassifier {
	var opts []anthropic.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.Endpoint))
	}

	return &AnthropicClassifier{
		client:    anthropic.NewClient(cfg.APIKey, opts...),
		config:    cfg,
		systemMsg: systemPrompt(cfg.SystemPrompt),
		text:      newTextPreparer(cfg.MaxContentLength),
	}
}

// Classify returns tags and category for the article text.
// The request is repeated if the response can't be parsed, up to parse_attempts times.
func (c *AnthropicClassifier) Classify(ctx context.Context, text string) (domain.Classification, error) {
	input, err := c.text.prepare(text)
	if err != nil {
		return domain.Classification{}, err
	}

	temperature := float32(c.config.Temperature)
	req := anthropic.MessagesRequest{
		Model:       anthropic.Model(c.config.Model),
		MaxTokens:   c.config.MaxTokens,
		System:      c.systemMsg,
		Temperature: &temperature,
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{{Type: "text", Text: &input}},
			},
		},
	}

	attempts := attemptsOrDefault(c.config.ParseAttempts)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := c.client.CreateMessages(ctx, req)
		if err != nil {
			return domain.Classification{}, fmt.Errorf("llm request failed: %w", err)
		}
		if len(resp.Content) == 0 {
			return domain.Classification{}, fmt.Errorf("%w: empty response from anthropic", ErrMalformedResponse)
		}

		res, err := parseClassification(resp.Content[0].GetText())
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, ErrMalformedResponse) {
			return domain.Classification{}, err
		}
		lastErr = err
		lgr.Printf("[DEBUG] anthropic response attempt %d/%d not parsed: %v", attempt, attempts, err)
	}
	return domain.Classification{}, failedAfter(attempts, lastErr)
}
