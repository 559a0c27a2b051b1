// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rerank

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mudler/xlog"

	"github.com/pdiddy/arxivlens/pkg/types"
)

const searchToolName = "search_api"

// searchToolParams is the JSON schema for the search tool's arguments.
var searchToolParams = json.RawMessage(`{
	"type": "object",
	"properties": {
		"query": {
			"type": "string",
			"description": "Search query, 2-12 words."
		}
	},
	"required": ["query"]
}`)

// AgentAdapter judges papers through an OpenAI-compatible chat model that
// may call the bound search tool once for extra context before answering.
// The final answer is requested in JSON mode.
type AgentAdapter struct {
	client *openai.Client
	model  string
	tool   SearchTool
}

// NewAgentAdapter validates the configuration and builds the adapter. tool
// may be nil, in which case the model judges without external context.
func NewAgentAdapter(cfg types.AgentConfig, tool SearchTool) (*AgentAdapter, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("agent model is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("agent API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &AgentAdapter{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		tool:   tool,
	}, nil
}

// Judge asks the model for a judgment, allowing at most one search tool
// round-trip. The second request pins ToolChoice to "none" so the model
// must answer.
func (a *AgentAdapter) Judge(ctx context.Context, overview, title, abstract string) (map[string]any, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: userPrompt(overview, title, abstract)},
	}

	req := openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	if a.tool != nil {
		req.Tools = []openai.Tool{{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        searchToolName,
				Description: "Search for brief context on a term or retrieve a paper abstract. 2-12 words.",
				Parameters:  searchToolParams,
			},
		}}
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("agent chat request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("agent returned no choices")
	}

	choice := resp.Choices[0].Message
	if len(choice.ToolCalls) > 0 && a.tool != nil {
		toolMsg, err := a.runToolCall(ctx, choice.ToolCalls[0])
		if err != nil {
			return nil, err
		}
		req.Messages = append(req.Messages, choice, toolMsg)
		req.ToolChoice = "none"

		resp, err = a.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("agent chat request after tool call: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("agent returned no choices after tool call")
		}
		choice = resp.Choices[0].Message
	}

	return ExtractJSON(choice.Content)
}

func (a *AgentAdapter) runToolCall(ctx context.Context, call openai.ToolCall) (openai.ChatCompletionMessage, error) {
	var empty openai.ChatCompletionMessage
	if call.Function.Name != searchToolName {
		return empty, fmt.Errorf("agent requested unknown tool %q", call.Function.Name)
	}

	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return empty, fmt.Errorf("decoding tool arguments: %w", err)
	}

	xlog.Debug("agent search tool call", "query", args.Query)
	result, err := a.tool.Search(ctx, args.Query)
	if err != nil {
		// The model still gets a reply so the conversation stays valid.
		result = fmt.Sprintf(`{"error": %q}`, err.Error())
		xlog.Warn("agent search tool failed", "error", err.Error())
	}

	return openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		Content:    result,
		ToolCallID: call.ID,
	}, nil
}
