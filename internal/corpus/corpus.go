// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pdiddy/arxivlens/pkg/types"
)

// LoadOverview reads the project overview file and wraps it as a
// one-document corpus stamped with the current time. An empty file is an
// error: the similarity scorer requires a non-empty corpus.
func LoadOverview(path string) ([]types.ReferenceDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading overview %s: %w", path, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, fmt.Errorf("overview file is empty: %s", path)
	}

	return []types.ReferenceDocument{{
		Text:    text,
		AddedAt: time.Now().UTC(),
	}}, nil
}

// Load assembles the reference corpus for a run. Documents from the store
// take priority; when the store is empty (or cfg.Dir is unset) the overview
// file is used instead.
func Load(ctx context.Context, cfg types.CorpusConfig) ([]types.ReferenceDocument, error) {
	if cfg.Dir != "" {
		store, err := NewStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		defer store.Close()

		docs, err := store.List(ctx)
		if err != nil {
			return nil, err
		}
		if len(docs) > 0 {
			return docs, nil
		}
	}

	if cfg.OverviewPath == "" {
		return nil, fmt.Errorf("no corpus documents and no overview file configured")
	}
	return LoadOverview(cfg.OverviewPath)
}

// OverviewText returns the text the LLM rerank stage presents as the
// project overview: the overview file when configured, otherwise the most
// recent corpus document.
func OverviewText(cfg types.CorpusConfig, docs []types.ReferenceDocument) (string, error) {
	if cfg.OverviewPath != "" {
		data, err := os.ReadFile(cfg.OverviewPath)
		if err == nil {
			if text := strings.TrimSpace(string(data)); text != "" {
				return text, nil
			}
		}
	}
	if len(docs) > 0 {
		return docs[0].Text, nil
	}
	return "", fmt.Errorf("no overview text available")
}
