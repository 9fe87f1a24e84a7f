// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAIConfig configures the OpenAI-compatible chat-completions client.
// Any server speaking the protocol works, including local ones.
type OpenAIConfig struct {
	BaseURL   string        // API root, e.g. "https://api.openai.com/v1" or "http://localhost:11434/v1" (required)
	Model     string        // Model name (required)
	APIKey    string        // Bearer token; empty for servers without auth
	Timeout   time.Duration // Request timeout (default 300s)
	MaxTokens int           // Response token cap; 0 leaves it to the server
}

// OpenAIClient calls a chat-completions endpoint over HTTP.
type OpenAIClient struct {
	http       *http.Client
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	retryDelay time.Duration
	usage      Usage
}

// NewOpenAIClient creates a client for an OpenAI-compatible server.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrLLMFailure)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model is required", ErrLLMFailure)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &OpenAIClient{
		http:       &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		retryDelay: baseRetryDelay,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float32         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete sends the prompt as a single user message and returns the
// trimmed response text. Rate-limit rejections are retried with backoff.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	return withRetry(ctx, c.retryDelay, func() (string, error) {
		return c.send(ctx, req)
	})
}

// CumulativeUsage returns the total token usage across all calls.
func (c *OpenAIClient) CumulativeUsage() Usage {
	return c.usage
}

func (c *OpenAIClient) send(ctx context.Context, req Request) (string, error) {
	body := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
		MaxTokens:   c.maxTokens,
	}
	if req.JSONObject {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", ErrLLMFailure, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: building request: %v", ErrLLMFailure, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: request timed out: %v", ErrLLMFailure, err)
		}
		return "", fmt.Errorf("%w: %v", ErrLLMFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: status %s", ErrThrottled, resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: unexpected status %s: %s",
			ErrLLMFailure, resp.Status, bytes.TrimSpace(snippet))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrLLMFailure, err)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}

	c.usage.InputTokens += out.Usage.PromptTokens
	c.usage.OutputTokens += out.Usage.CompletionTokens
	return content, nil
}
