package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// MaxSuggestedTags caps how many tags a suggestion returns.
const MaxSuggestedTags = 5

// Assistant wraps a Completer with prompts for the three assist operations
// and the bounded-retry policy.
type Assistant struct {
	client      Completer
	logger      *slog.Logger
	maxAttempts int
	baseDelay   time.Duration
}

// NewAssistant creates an Assistant. maxAttempts < 1 and baseDelay <= 0 fall
// back to the defaults.
func NewAssistant(client Completer, logger *slog.Logger, maxAttempts int, baseDelay time.Duration) *Assistant {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	return &Assistant{
		client:      client,
		logger:      logger,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
	}
}

// GenerateDescription asks for a one-to-two sentence summary of the code.
func (a *Assistant) GenerateDescription(ctx context.Context, code, language string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a concise 1-2 sentence description of what this %s code does. "+
			"Respond with the description only, no preamble.\n\n%s",
		language, code)

	out, err := a.complete(ctx, "generate-description", prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ExplainCode asks for a step-by-step explanation of the code.
func (a *Assistant) ExplainCode(ctx context.Context, code, language string) (string, error) {
	prompt := fmt.Sprintf(
		"Explain step by step what this %s code does, in plain language a "+
			"junior developer could follow.\n\n%s",
		language, code)

	out, err := a.complete(ctx, "explain-code", prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// SuggestTags asks for 3-5 comma-separated tags and parses the reply: split
// on commas, trim, drop blanks, cap at MaxSuggestedTags.
func (a *Assistant) SuggestTags(ctx context.Context, code, language string) ([]string, error) {
	prompt := fmt.Sprintf(
		"Suggest 3-5 short lowercase tags for this %s code snippet. "+
			"Respond with the tags only, comma-separated.\n\n%s",
		language, code)

	out, err := a.complete(ctx, "suggest-tags", prompt)
	if err != nil {
		return nil, err
	}

	tags := make([]string, 0, MaxSuggestedTags)
	for _, tag := range strings.Split(out, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
		if len(tags) == MaxSuggestedTags {
			break
		}
	}

	return tags, nil
}

func (a *Assistant) complete(ctx context.Context, op, prompt string) (string, error) {
	start := time.Now()

	out, err := retry(ctx, a.maxAttempts, a.baseDelay, func() (string, error) {
		return a.client.Complete(ctx, prompt)
	})
	if err != nil {
		a.logger.Error("ai completion failed",
			slog.String("operation", op),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return "", err
	}

	a.logger.Info("ai completion succeeded",
		slog.String("operation", op),
		slog.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}
