// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxivlens/internal/corpus"
	"github.com/pdiddy/arxivlens/internal/embed"
	"github.com/pdiddy/arxivlens/internal/feed"
	"github.com/pdiddy/arxivlens/internal/render"
	"github.com/pdiddy/arxivlens/internal/rerank"
	"github.com/pdiddy/arxivlens/internal/score"
	"github.com/pdiddy/arxivlens/internal/server"
	"github.com/pdiddy/arxivlens/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "arxivlens/0.1"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Run the full recommendation pipeline",
	Long: `Recommend fetches today's arXiv announcements for a query, scores them
against the interest corpus with an embedding model, optionally judges the top
candidates with an LLM backend, fuses the scores, and prints the ranked list.

The results can also be saved (--save) for later browsing with the serve
command, or served immediately (--serve).`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().String("query", "", "arXiv query, e.g. \"cs.AI+cs.LG\" (or ARXIVLENS_QUERY)")
	recommendCmd.Flags().Int("max-results", 200, "maximum results for the API search fallback")
	recommendCmd.Flags().Int("fallback-days", 2, "publication-date window for feed fallbacks")

	recommendCmd.Flags().String("corpus-dir", "corpus", "directory holding the interest corpus database")
	recommendCmd.Flags().String("overview", "overview.md", "project overview file (fallback corpus)")

	recommendCmd.Flags().String("embedding-base-url", "http://localhost:11434/v1", "OpenAI-compatible embeddings API base")
	recommendCmd.Flags().String("embedding-model", "nomic-embed-text", "embedding model name")
	recommendCmd.Flags().Int("top-retrieve", 50, "papers kept after embedding scoring")

	recommendCmd.Flags().Bool("llm-rerank", false, "judge the top papers with an LLM backend")
	recommendCmd.Flags().String("llm-backend", "ollama", "rerank backend: ollama, langflow, or agent")
	recommendCmd.Flags().Duration("llm-timeout", 90*time.Second, "per-judgment timeout")
	recommendCmd.Flags().Int("llm-retries", 1, "retry attempts per judgment")

	recommendCmd.Flags().String("ollama-base-url", "http://localhost:11434", "Ollama server base URL")
	recommendCmd.Flags().String("ollama-model", "qwen2.5:14b", "Ollama chat model")

	recommendCmd.Flags().String("langflow-base-url", "http://localhost:7863", "Langflow server base URL")
	recommendCmd.Flags().String("langflow-flow-id", "", "Langflow flow id (or ARXIVLENS_LANGFLOW_FLOW_ID)")
	recommendCmd.Flags().String("langflow-api-key", "", "Langflow API key (or .secrets/langflow-api-key)")

	recommendCmd.Flags().String("agent-base-url", "https://api.deepseek.com/v1", "agent chat API base")
	recommendCmd.Flags().String("agent-model", "deepseek-chat", "agent chat model")
	recommendCmd.Flags().String("agent-api-key", "", "agent API key (or .secrets/llm-api-key)")
	recommendCmd.Flags().String("search-api-key", "", "search tool API key (or .secrets/search-api-key)")
	recommendCmd.Flags().String("search-engine", "google", "search tool engine")

	recommendCmd.Flags().Float64("embed-weight", 0, "fusion weight for the embedding score (default 0.6)")
	recommendCmd.Flags().Float64("llm-weight", 0, "fusion weight for the LLM fit score (default 0.4)")

	recommendCmd.Flags().String("output", "text", "output format: text, json, or yaml")
	recommendCmd.Flags().String("save", "", "write results as YAML to this file")
	recommendCmd.Flags().String("serve", "", "serve results on this address (e.g. 127.0.0.1:8080) after the run")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	docs, err := corpus.Load(ctx, cfg.Corpus)
	if err != nil {
		return fmt.Errorf("loading interest corpus: %w", err)
	}
	overview, err := corpus.OverviewText(cfg.Corpus, docs)
	if err != nil {
		return fmt.Errorf("loading project overview: %w", err)
	}

	client := &http.Client{Timeout: cfg.Feed.Timeout}
	candidates, err := feed.Fetch(ctx, client, cfg.Feed)
	if err != nil {
		return fmt.Errorf("fetching arXiv feed: %w", err)
	}
	if len(candidates) == 0 {
		fmt.Fprintln(os.Stderr, "No candidates retrieved.")
		return nil
	}
	fmt.Fprintf(os.Stderr, "Scoring %d candidates against %d corpus documents\n", len(candidates), len(docs))

	embedder, err := embed.NewClient(cfg.Embedding)
	if err != nil {
		return fmt.Errorf("building embedding client: %w", err)
	}
	ranked, err := score.Rank(ctx, embedder, candidates, docs)
	if err != nil {
		return fmt.Errorf("embedding rerank: %w", err)
	}
	if cfg.TopRetrieve > 0 && len(ranked) > cfg.TopRetrieve {
		ranked = ranked[:cfg.TopRetrieve]
	}

	if cfg.Rerank.Enabled {
		adapter, err := rerank.NewAdapter(cfg.Rerank, nil)
		if err != nil {
			return fmt.Errorf("building rerank backend: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Judging %d papers via %s\n", len(ranked), cfg.Rerank.Backend)
		rerank.Run(ctx, adapter, overview, ranked)
	}

	final, fellBack := rerank.Fuse(ranked, cfg.Fusion, cfg.Rerank.Enabled)
	results := server.Results{
		Query:    cfg.Feed.Query,
		FellBack: fellBack,
		Papers:   final,
	}

	if err := emitResults(cmd, results); err != nil {
		return err
	}

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := saveResults(savePath, results); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Saved results to", savePath)
	}
	if addr, _ := cmd.Flags().GetString("serve"); addr != "" {
		fmt.Fprintf(os.Stderr, "Serving results on http://%s/\n", addr)
		return server.Serve(results, addr)
	}
	return nil
}

func pipelineConfig(cmd *cobra.Command) (types.PipelineConfig, error) {
	flags := cmd.Flags()

	query, _ := flags.GetString("query")
	if query == "" {
		query = viper.GetString("query")
	}
	if query == "" {
		return types.PipelineConfig{}, fmt.Errorf("missing arXiv query: set --query or ARXIVLENS_QUERY")
	}

	maxResults, _ := flags.GetInt("max-results")
	fbDays, _ := flags.GetInt("fallback-days")
	corpusDir, _ := flags.GetString("corpus-dir")
	overviewPath, _ := flags.GetString("overview")

	embedBase, _ := flags.GetString("embedding-base-url")
	embedModel, _ := flags.GetString("embedding-model")
	topRetrieve, _ := flags.GetInt("top-retrieve")

	llmEnabled, _ := flags.GetBool("llm-rerank")
	backend, _ := flags.GetString("llm-backend")
	llmTimeout, _ := flags.GetDuration("llm-timeout")
	llmRetries, _ := flags.GetInt("llm-retries")

	ollamaBase, _ := flags.GetString("ollama-base-url")
	ollamaModel, _ := flags.GetString("ollama-model")

	langflowBase, _ := flags.GetString("langflow-base-url")
	langflowFlowID, _ := flags.GetString("langflow-flow-id")
	if langflowFlowID == "" {
		langflowFlowID = viper.GetString("langflow_flow_id")
	}
	langflowKey, _ := flags.GetString("langflow-api-key")

	agentBase, _ := flags.GetString("agent-base-url")
	agentModel, _ := flags.GetString("agent-model")
	agentKey, _ := flags.GetString("agent-api-key")
	searchKey, _ := flags.GetString("search-api-key")
	searchEngine, _ := flags.GetString("search-engine")

	embedWeight, _ := flags.GetFloat64("embed-weight")
	llmWeight, _ := flags.GetFloat64("llm-weight")

	return types.PipelineConfig{
		Feed: types.FeedConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   defaultTimeout,
				UserAgent: defaultUserAgent,
			},
			Query:        query,
			MaxResults:   maxResults,
			FallbackDays: fbDays,
		},
		Corpus: types.CorpusConfig{
			Dir:          corpusDir,
			OverviewPath: overviewPath,
		},
		Embedding: types.EmbeddingConfig{
			BaseURL: embedBase,
			Model:   embedModel,
			APIKey:  secretDefault("embedding-api-key", ""),
		},
		Rerank: types.RerankConfig{
			Enabled: llmEnabled,
			Backend: backend,
			Ollama: types.OllamaConfig{
				BaseURL: ollamaBase,
				Model:   ollamaModel,
				Timeout: llmTimeout,
				Retries: llmRetries,
			},
			Langflow: types.LangflowConfig{
				BaseURL: langflowBase,
				FlowID:  langflowFlowID,
				APIKey:  secretDefault("langflow-api-key", langflowKey),
				Mode:    types.LangflowHTTP,
				Timeout: llmTimeout,
				Retries: llmRetries,
			},
			Agent: types.AgentConfig{
				BaseURL: agentBase,
				Model:   agentModel,
				APIKey:  secretDefault("llm-api-key", agentKey),
				Timeout: llmTimeout,
				SearchTool: types.SearchToolConfig{
					APIKey: secretDefault("search-api-key", searchKey),
					Engine: searchEngine,
				},
			},
		},
		Fusion: types.FusionConfig{
			EmbedWeight: embedWeight,
			LLMWeight:   llmWeight,
		},
		TopRetrieve: topRetrieve,
	}, nil
}

func emitResults(cmd *cobra.Command, results server.Results) error {
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case "", "text":
		return render.WriteList(cmd.OutOrStdout(), results.Papers, results.FellBack)
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "yaml":
		out, err := yaml.Marshal(results)
		if err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	default:
		return fmt.Errorf("unknown output format %q (use text, json, or yaml)", format)
	}
}

func saveResults(path string, results server.Results) error {
	out, err := yaml.Marshal(results)
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing results file: %w", err)
	}
	return nil
}
