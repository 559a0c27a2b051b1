// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score ranks candidate papers by embedding similarity to the
// interest corpus, weighting recent reference documents more heavily.
package score

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/pdiddy/arxivlens/internal/embed"
	"github.com/pdiddy/arxivlens/pkg/types"
)

// TimeDecayWeights returns n weights for corpus documents ordered most
// recent first. Weight i is proportional to 1/(1+log10(i+1)), normalized to
// sum to 1: recent documents dominate, but the log decay keeps old ones
// from vanishing entirely.
func TimeDecayWeights(n int) []float64 {
	if n <= 0 {
		return nil
	}

	weights := make([]float64, n)
	var sum float64
	for i := range weights {
		weights[i] = 1.0 / (1.0 + math.Log10(float64(i+1)))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// Rank annotates each candidate with a time-decay weighted similarity score
// against the corpus and returns the candidates sorted descending by score.
// Empty candidates or an empty corpus pass through unchanged. An embedding
// failure aborts the whole batch: scoring is one vectorized operation with
// no per-item degradation path.
func Rank(ctx context.Context, embedder embed.Embedder, candidates []*types.Paper, corpus []types.ReferenceDocument) ([]*types.Paper, error) {
	if len(candidates) == 0 || len(corpus) == 0 {
		return candidates, nil
	}

	// Most recent reference documents first; weights follow this order.
	sorted := make([]types.ReferenceDocument, len(corpus))
	copy(sorted, corpus)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AddedAt.After(sorted[j].AddedAt)
	})
	weights := TimeDecayWeights(len(sorted))

	corpusTexts := make([]string, len(sorted))
	for i, doc := range sorted {
		corpusTexts[i] = doc.Text
	}
	corpusVecs, err := embedder.Embed(ctx, corpusTexts)
	if err != nil {
		return nil, fmt.Errorf("embedding corpus: %w", err)
	}

	candidateTexts := make([]string, len(candidates))
	for i, p := range candidates {
		candidateTexts[i] = p.Summary
	}
	candidateVecs, err := embedder.Embed(ctx, candidateTexts)
	if err != nil {
		return nil, fmt.Errorf("embedding candidates: %w", err)
	}

	for i, p := range candidates {
		var s float64
		for j, cv := range corpusVecs {
			s += Cosine(candidateVecs[i], cv) * weights[j]
		}
		p.Score = s * 10
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates, nil
}

// Cosine returns the cosine similarity of two vectors, or 0 when either has
// zero magnitude or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// MinMaxNormalize rescales scores to [0,1] across the batch. A batch of
// identical scores maps to 1.0 for every item so a uniform batch is not
// zeroed out by fusion.
func MinMaxNormalize(scores []float64) []float64 {
	if len(scores) == 0 {
		return nil
	}

	min, max := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	out := make([]float64, len(scores))
	if max-min < 1e-9 {
		for i := range out {
			out[i] = 1.0
		}
		return out
	}
	for i, s := range scores {
		out[i] = (s - min) / (max - min)
	}
	return out
}
