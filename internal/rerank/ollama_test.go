// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rerank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxivlens/pkg/types"
)

func newOllamaTestAdapter(t *testing.T, handler http.HandlerFunc, retries int) *OllamaAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	adapter, err := NewOllamaAdapter(types.OllamaConfig{
		BaseURL: server.URL,
		Model:   "qwen2.5:14b",
		Timeout: 5 * time.Second,
		Retries: retries,
	})
	require.NoError(t, err)
	return adapter
}

func TestOllamaJudge(t *testing.T) {
	var captured ollamaChatRequest
	adapter := newOllamaTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{
				Role:    "assistant",
				Content: `{"relevant": true, "fit_score": 8, "reasons": ["close match"], "action": "shortlist"}`,
			},
		})
	}, 1)

	obj, err := adapter.Judge(context.Background(), "building a recommender", "Paper A", "An abstract.")
	require.NoError(t, err)

	assert.Equal(t, true, obj["relevant"])
	assert.Equal(t, 8.0, obj["fit_score"])

	assert.Equal(t, "qwen2.5:14b", captured.Model)
	assert.False(t, captured.Stream)
	assert.Equal(t, "json", captured.Format)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[1].Content, "building a recommender")
	assert.Contains(t, captured.Messages[1].Content, "Paper A")
	assert.Contains(t, captured.Messages[1].Content, "An abstract.")
}

func TestOllamaJudgeRetriesWithCorrectiveMessage(t *testing.T) {
	var requests []ollamaChatRequest
	adapter := newOllamaTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)

		content := "this is not json at all"
		if len(requests) > 1 {
			content = `{"relevant": true, "fit_score": 5}`
		}
		json.NewEncoder(w).Encode(ollamaChatResponse{Message: ollamaMessage{Role: "assistant", Content: content}})
	}, 1)

	obj, err := adapter.Judge(context.Background(), "o", "t", "a")
	require.NoError(t, err)
	assert.Equal(t, true, obj["relevant"])

	require.Len(t, requests, 2)
	assert.Len(t, requests[0].Messages, 2)
	require.Len(t, requests[1].Messages, 3, "retry must carry the corrective message")
	assert.Equal(t, "user", requests[1].Messages[2].Role)
	assert.Contains(t, requests[1].Messages[2].Content, "Return ONLY valid JSON")
}

func TestOllamaJudgeExhaustsRetries(t *testing.T) {
	calls := 0
	adapter := newOllamaTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(ollamaChatResponse{Message: ollamaMessage{Role: "assistant", Content: "still not json"}})
	}, 2)

	_, err := adapter.Judge(context.Background(), "o", "t", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, calls)
}

func TestOllamaJudgeServerError(t *testing.T) {
	adapter := newOllamaTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}, 0)

	_, err := adapter.Judge(context.Background(), "o", "t", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestNewOllamaAdapterRequiresModel(t *testing.T) {
	_, err := NewOllamaAdapter(types.OllamaConfig{})
	require.Error(t, err)
}
