// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIClientValidation(t *testing.T) {
	_, err := NewOpenAIClient(OpenAIConfig{Model: "gpt-4o-mini"})
	assert.ErrorIs(t, err, ErrLLMFailure)

	_, err = NewOpenAIClient(OpenAIConfig{BaseURL: "http://localhost:11434/v1"})
	assert.ErrorIs(t, err, ErrLLMFailure)
}

// chatServer runs an httptest server that records request bodies and
// returns canned responses via handler.
func chatServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *OpenAIClient) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewOpenAIClient(OpenAIConfig{
		BaseURL: srv.URL + "/v1/",
		Model:   "gpt-4o-mini",
		APIKey:  "sk-test",
	})
	require.NoError(t, err)
	client.retryDelay = time.Millisecond
	return srv, client
}

func chatReply(w http.ResponseWriter, content string, prompt, completion int) {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
		"usage": map[string]int{
			"prompt_tokens":     prompt,
			"completion_tokens": completion,
		},
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func TestOpenAICompleteSendsChatRequest(t *testing.T) {
	var got chatRequest
	var gotAuth, gotPath string
	_, client := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		chatReply(w, "  {\"feature_groups\": []}\n", 120, 40)
	})

	out, err := client.Complete(context.Background(), Request{
		Prompt:      "classify this",
		Temperature: 0.2,
		JSONObject:  true,
	})
	require.NoError(t, err)
	// Response text comes back trimmed.
	assert.Equal(t, `{"feature_groups": []}`, out)

	assert.Equal(t, "/v1/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "classify this", got.Messages[0].Content)
	assert.InDelta(t, 0.2, got.Temperature, 1e-6)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)

	assert.Equal(t, Usage{InputTokens: 120, OutputTokens: 40}, client.CumulativeUsage())
	assert.Equal(t, 160, client.CumulativeUsage().Total())
}

func TestOpenAICompleteWithoutJSONMode(t *testing.T) {
	var raw map[string]json.RawMessage
	_, client := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		chatReply(w, "ok", 1, 1)
	})

	_, err := client.Complete(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.NotContains(t, raw, "response_format")
	assert.NotContains(t, raw, "max_tokens")
}

func TestOpenAICompleteRetriesThrottle(t *testing.T) {
	calls := 0
	_, client := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		chatReply(w, "after retry", 1, 1)
	})

	out, err := client.Complete(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "after retry", out)
	assert.Equal(t, 2, calls)
}

func TestOpenAICompleteRateLimitExhausted(t *testing.T) {
	calls := 0
	_, client := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Complete(context.Background(), Request{Prompt: "p"})
	require.ErrorIs(t, err, ErrLLMFailure)
	assert.Contains(t, err.Error(), "rate limited after 3 retries")
	assert.Equal(t, 1+maxRetryAttempts, calls)
}

func TestOpenAICompleteServerErrorNotRetried(t *testing.T) {
	calls := 0
	_, client := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("model overloaded"))
	})

	_, err := client.Complete(context.Background(), Request{Prompt: "p"})
	require.ErrorIs(t, err, ErrLLMFailure)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "model overloaded")
	assert.Equal(t, 1, calls)
}

func TestOpenAICompleteEmptyResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no choices", body: `{"choices": []}`},
		{name: "blank content", body: `{"choices": [{"message": {"content": "  \n"}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			})
			_, err := client.Complete(context.Background(), Request{Prompt: "p"})
			assert.ErrorIs(t, err, ErrEmptyResponse)
		})
	}
}

func TestOpenAICompleteNoAuthHeaderWithoutKey(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		chatReply(w, "ok", 1, 1)
	}))
	t.Cleanup(srv.Close)

	client, err := NewOpenAIClient(OpenAIConfig{BaseURL: srv.URL, Model: "local"})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestOpenAICompleteMaxTokensForwarded(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		chatReply(w, "ok", 1, 1)
	}))
	t.Cleanup(srv.Close)

	client, err := NewOpenAIClient(OpenAIConfig{BaseURL: srv.URL, Model: "local", MaxTokens: 512})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.JSONEq(t, "512", string(raw["max_tokens"]))
}
