// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package llm provides the model backends used by the feature
// classifier: an OpenAI-compatible chat-completions client and an AWS
// Bedrock Converse client, both behind the Client interface.
package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	defaultTimeout   = 300 * time.Second
	defaultMaxTokens = 4096
	maxRetryAttempts = 3
	baseRetryDelay   = 1 * time.Second
)

// ErrLLMFailure indicates the model call failed (network, auth, bad
// response, exhausted retries).
var ErrLLMFailure = errors.New("LLM failure")

// ErrEmptyResponse indicates the model returned no usable text.
var ErrEmptyResponse = errors.New("empty model response")

// ErrThrottled marks a rate-limit rejection; calls wrapped in it are
// retried with backoff.
var ErrThrottled = errors.New("rate limited")

// Request is one completion request.
type Request struct {
	Prompt      string
	Temperature float32

	// JSONObject asks the backend for a JSON-object response where the
	// API has a native switch; backends without one rely on the prompt
	// alone.
	JSONObject bool
}

// Client is the completion surface the classifier consumes.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Usage is cumulative token usage across calls on one client.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

// withRetry runs call with exponential backoff while it fails with
// ErrThrottled, up to maxRetryAttempts retries.
func withRetry(ctx context.Context, delay time.Duration, call func() (string, error)) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetryAttempts; attempt++ {
		if attempt > 0 {
			backoff := delay * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: context cancelled during retry: %v", ErrLLMFailure, ctx.Err())
			}
		}

		out, err := call()
		if err != nil {
			if errors.Is(err, ErrThrottled) {
				lastErr = err
				continue
			}
			return "", err
		}
		return out, nil
	}

	return "", fmt.Errorf("%w: rate limited after %d retries: %v", ErrLLMFailure, maxRetryAttempts, lastErr)
}
