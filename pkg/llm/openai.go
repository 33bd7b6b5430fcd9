package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-pkgz/lgr"
	"github.com/sashabaranov/go-openai"

	"github.com/umputun/intellect/pkg/config"
	"github.com/umputun/intellect/pkg/domain"
)

// OpenAIClassifier classifies articles with any OpenAI-compatible chat completion endpoint
type OpenAIClassifier struct {
	client    *openai.Client
	config    config.LLMConfig
	systemMsg string
	text      *textPreparer
}

// NewOpenAIClassifier creates a classifier for an OpenAI-compatible endpoint
func NewOpenAIClassifier(cfg config.LLMConfig) *OpenAIClassifier {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	return &OpenAIClassifier{
		client:    openai.NewClientWithConfig(clientConfig),
		config:    cfg,
		systemMsg: systemPrompt(cfg.SystemPrompt),
		text:      newTextPreparer(cfg.MaxContentLength),
	}
}

// Classify returns tags and category for the article text.
// The request is repeated if the response can't be parsed, up to parse_attempts times.
func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (domain.Classification, error) {
	input, err := c.text.prepare(text)
	if err != nil {
		return domain.Classification{}, err
	}

	req := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Temperature: float32(c.config.Temperature),
		MaxTokens:   c.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.systemMsg},
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
	}
	if c.config.UseJSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	attempts := attemptsOrDefault(c.config.ParseAttempts)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return domain.Classification{}, fmt.Errorf("llm request failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return domain.Classification{}, fmt.Errorf("%w: no response from llm", ErrMalformedResponse)
		}

		res, err := parseClassification(resp.Choices[0].Message.Content)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, ErrMalformedResponse) {
			return domain.Classification{}, err
		}
		lastErr = err
		lgr.Printf("[DEBUG] openai response attempt %d/%d not parsed: %v", attempt, attempts, err)
	}
	return domain.Classification{}, failedAfter(attempts, lastErr)
}
