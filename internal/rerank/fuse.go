// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rerank

import (
	"sort"

	"github.com/pdiddy/arxivlens/internal/score"
	"github.com/pdiddy/arxivlens/pkg/types"
)

// Default fusion split between the embedding signal and the LLM fit score.
const (
	DefaultEmbedWeight = 0.6
	DefaultLLMWeight   = 0.4
)

// Fuse combines embedding scores with LLM judgments into final rankings.
//
// Embedding scores are min-max normalized over the batch. Without LLM
// judgments the normalized score is the final score and every paper
// survives. With judgments, the final score is a weighted sum of the
// normalized embedding score and the fit score scaled to [0,1], and only
// papers judged relevant survive. When that filter eliminates everyone,
// Fuse falls back to the full batch in embedding order and reports the
// fallback so callers can present it honestly.
func Fuse(papers []*types.Paper, cfg types.FusionConfig, llmEnabled bool) (ranked []*types.Paper, fellBack bool) {
	if len(papers) == 0 {
		return nil, false
	}

	embedWeight := cfg.EmbedWeight
	llmWeight := cfg.LLMWeight
	if embedWeight == 0 && llmWeight == 0 {
		embedWeight = DefaultEmbedWeight
		llmWeight = DefaultLLMWeight
	}

	scores := make([]float64, len(papers))
	for i, p := range papers {
		scores[i] = p.Score
	}
	normalized := score.MinMaxNormalize(scores)

	if !llmEnabled {
		for i, p := range papers {
			p.FinalScore = normalized[i]
		}
		ranked = byFinalScore(papers)
		return ranked, false
	}

	for i, p := range papers {
		p.FinalScore = embedWeight*normalized[i] + llmWeight*(p.FitScore/10.0)
	}

	survivors := make([]*types.Paper, 0, len(papers))
	for _, p := range papers {
		if p.Relevant {
			survivors = append(survivors, p)
		}
	}
	if len(survivors) == 0 {
		return byEmbeddingScore(papers), true
	}
	return byFinalScore(survivors), false
}

func byFinalScore(papers []*types.Paper) []*types.Paper {
	out := make([]*types.Paper, len(papers))
	copy(out, papers)
	sort.SliceStable(out, func(i, j int) bool { return out[i].FinalScore > out[j].FinalScore })
	return out
}

func byEmbeddingScore(papers []*types.Paper) []*types.Paper {
	out := make([]*types.Paper, len(papers))
	copy(out, papers)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
