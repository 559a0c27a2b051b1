// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed converts texts into fixed-length vectors through an
// OpenAI-compatible embeddings endpoint. Local Ollama and LocalAI servers
// expose the same surface, so one client covers hosted and local models.
package embed

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pdiddy/arxivlens/pkg/types"
)

// Embedder produces one vector per input text. Implementations must return
// vectors in input order and fail the whole batch on any error: similarity
// scoring has no per-item degradation path.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Client is an Embedder backed by an OpenAI-compatible endpoint.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds an embeddings client from configuration. BaseURL and
// Model are required.
func NewClient(cfg types.EmbeddingConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("embedding base URL is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("embedding model is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	apiCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		api:   openai.NewClientWithConfig(apiCfg),
		model: cfg.Model,
	}, nil
}

// Embed requests vectors for all texts in one batched call.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response has %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	// The API reports an index per vector; order by it rather than trusting
	// response order.
	data := make([]openai.Embedding, len(resp.Data))
	copy(data, resp.Data)
	sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	vectors := make([][]float32, len(data))
	for i, d := range data {
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("embedding response has an empty vector at index %d", i)
		}
		vectors[i] = d.Embedding
	}
	return vectors, nil
}
