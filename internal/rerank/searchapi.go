// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rerank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/arxivlens/pkg/types"
)

// searchAPIBase is a variable so tests can point it at a local server.
var searchAPIBase = "https://www.searchapi.io/api/v1/search"

// SearchTool provides the agent's single bound tool: a short web search
// returning a compact JSON string the model can cite from.
type SearchTool interface {
	Search(ctx context.Context, query string) (string, error)
}

// SearchAPIClient queries searchapi.io and returns a bounded digest of the
// organic results.
type SearchAPIClient struct {
	cfg    types.SearchToolConfig
	client *http.Client
}

type searchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type searchAPIResponse struct {
	OrganicResults []searchResult `json:"organic_results"`
}

// NewSearchAPIClient validates the configuration and builds the client.
func NewSearchAPIClient(cfg types.SearchToolConfig) (*SearchAPIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("search API key is required")
	}
	if cfg.Engine == "" {
		cfg.Engine = "google"
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 3
	}
	if cfg.MaxSnippetLength <= 0 {
		cfg.MaxSnippetLength = 160
	}
	return &SearchAPIClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Search runs one query and returns the top results as a JSON array string.
func (c *SearchAPIClient) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("empty search query")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("engine", c.cfg.Engine)
	params.Set("api_key", c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("building search request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("querying search API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("search API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed searchAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding search response: %w", err)
	}

	results := parsed.OrganicResults
	if len(results) > c.cfg.MaxResults {
		results = results[:c.cfg.MaxResults]
	}
	for i := range results {
		if len(results[i].Snippet) > c.cfg.MaxSnippetLength {
			results[i].Snippet = results[i].Snippet[:c.cfg.MaxSnippetLength]
		}
	}

	out, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("encoding search results: %w", err)
	}
	return string(out), nil
}
