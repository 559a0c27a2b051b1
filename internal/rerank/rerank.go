// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rerank

import (
	"context"
	"fmt"

	"github.com/mudler/xlog"

	"github.com/pdiddy/arxivlens/pkg/types"
)

// NewAdapter builds the adapter selected by cfg.Backend. runner is only
// consulted by the Langflow backend in local mode and may be nil otherwise.
func NewAdapter(cfg types.RerankConfig, runner FlowRunner) (Adapter, error) {
	backend, err := ParseBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	switch backend {
	case BackendOllama:
		return NewOllamaAdapter(cfg.Ollama)
	case BackendLangflow:
		return NewLangflowAdapter(cfg.Langflow, runner)
	case BackendAgent:
		var tool SearchTool
		if cfg.Agent.SearchTool.APIKey != "" {
			tool, err = NewSearchAPIClient(cfg.Agent.SearchTool)
			if err != nil {
				return nil, fmt.Errorf("building search tool: %w", err)
			}
		}
		return NewAgentAdapter(cfg.Agent, tool)
	}
	return nil, fmt.Errorf("unsupported rerank backend %q", cfg.Backend)
}

// Run judges each paper in place. A failed judgment marks that one paper and
// moves on; one sick candidate never aborts the batch. The input slice is
// returned for chaining.
func Run(ctx context.Context, adapter Adapter, overview string, papers []*types.Paper) []*types.Paper {
	for _, p := range papers {
		raw, err := adapter.Judge(ctx, overview, p.Title, p.Summary)
		if err != nil {
			xlog.Warn("LLM rerank failed", "paper", p.ID, "error", err.Error())
			MarkFailed(p)
			continue
		}
		Apply(p, Normalize(raw))
	}
	return papers
}
