// Package ai calls an external text-completion provider to generate snippet
// descriptions, explanations, and tag suggestions.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultTimeout bounds a single completion round trip.
const DefaultTimeout = 30 * time.Second

// Completer is a single prompt-to-text completion call. OpenAIClient is the
// production implementation; tests substitute fakes.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIClient implements Completer on the OpenAI chat-completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a client for the given API key and model.
// timeout <= 0 falls back to DefaultTimeout.
func NewOpenAIClient(apiKey, model string, timeout time.Duration) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("ai: OpenAI API key is not set")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Complete sends one prompt and returns the raw completion text.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ai: completion request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("ai: completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
