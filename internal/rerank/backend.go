// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rerank

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Backend identifies a judging strategy.
type Backend string

const (
	// BackendOllama judges via a direct Ollama chat call with JSON-mode output.
	BackendOllama Backend = "ollama"

	// BackendLangflow judges by running a Langflow workflow, locally or over HTTP.
	BackendLangflow Backend = "langflow"

	// BackendAgent judges via an OpenAI-compatible chat model that may make
	// one external search tool call before answering.
	BackendAgent Backend = "agent"
)

// Adapter obtains one raw judgment payload per paper. Implementations own
// their transport, retries, and response parsing; callers normalize the
// returned map with Normalize.
type Adapter interface {
	Judge(ctx context.Context, overview, title, abstract string) (map[string]any, error)
}

// ParseBackend validates a backend name from configuration.
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case BackendOllama, BackendLangflow, BackendAgent:
		return b, nil
	default:
		return "", fmt.Errorf("unsupported rerank backend %q (supported: %s)",
			name, strings.Join(BackendNames(), ", "))
	}
}

// BackendNames lists the supported backend names in sorted order.
func BackendNames() []string {
	names := []string{string(BackendOllama), string(BackendLangflow), string(BackendAgent)}
	sort.Strings(names)
	return names
}
