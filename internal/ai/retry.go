package ai

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Retry defaults.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

// StatusError is an error carrying an HTTP-style status code. Provider
// errors from go-openai already expose one; fakes in tests use this type.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string { return e.Message }

// retry invokes fn up to maxAttempts times. An error carrying a client
// status in [400,500) is returned immediately without another attempt; any
// other failure waits baseDelay, doubling per attempt, before retrying.
// After the final attempt the last error is returned as-is.
func retry(ctx context.Context, maxAttempts int, baseDelay time.Duration, fn func() (string, error)) (string, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	delay := baseDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			delay *= 2
		}

		out, err := fn()
		if err == nil {
			return out, nil
		}
		if status, ok := errorStatus(err); ok && status >= 400 && status < 500 {
			return "", err
		}
		lastErr = err
	}

	return "", lastErr
}

// errorStatus extracts the HTTP status from an error chain, if present.
func errorStatus(err error) (int, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, true
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, true
	}

	return 0, false
}
