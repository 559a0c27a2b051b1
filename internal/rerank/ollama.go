// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mudler/xlog"

	"github.com/pdiddy/arxivlens/internal/httputil"
	"github.com/pdiddy/arxivlens/pkg/types"
)

// retryNudge is appended to the conversation before a retry so the model
// corrects a malformed previous answer instead of repeating it.
const retryNudge = "Your previous response was invalid or not JSON. " +
	"Return ONLY valid JSON with the required keys, no markdown."

// OllamaAdapter judges papers through the Ollama /api/chat endpoint with
// format "json". A malformed response is retried with a corrective message
// appended to the conversation.
type OllamaAdapter struct {
	baseURL string
	model   string
	retries int
	client  *http.Client
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
}

// NewOllamaAdapter validates the configuration and builds the adapter.
// Requests to a loopback base URL bypass any configured HTTP proxy.
func NewOllamaAdapter(cfg types.OllamaConfig) (*OllamaAdapter, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	retries := cfg.Retries
	if retries <= 0 {
		retries = 1
	}
	return &OllamaAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   cfg.Model,
		retries: retries,
		client:  httputil.NoProxyLocalClient(timeout),
	}, nil
}

// Judge sends the judgment prompt and parses the JSON object out of the
// model's reply, retrying with a corrective message on failure.
func (a *OllamaAdapter) Judge(ctx context.Context, overview, title, abstract string) (map[string]any, error) {
	messages := []ollamaMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt(overview, title, abstract)},
	}

	var lastErr error
	for attempt := 0; attempt <= a.retries; attempt++ {
		obj, err := a.chatOnce(ctx, messages)
		if err == nil {
			return obj, nil
		}
		lastErr = err
		xlog.Warn("ollama chat failed", "attempt", attempt+1, "max", a.retries+1, "error", err.Error())
		if attempt < a.retries {
			messages = append(messages, ollamaMessage{Role: "user", Content: retryNudge})
		}
	}
	return nil, fmt.Errorf("ollama chat failed after %d attempts: %w", a.retries+1, lastErr)
}

func (a *OllamaAdapter) chatOnce(ctx context.Context, messages []ollamaMessage) (map[string]any, error) {
	body, err := json.Marshal(ollamaChatRequest{
		Model:    a.model,
		Messages: messages,
		Stream:   false,
		Format:   "json",
	})
	if err != nil {
		return nil, fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var chat ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("decoding chat response: %w", err)
	}
	return ExtractJSON(chat.Message.Content)
}
