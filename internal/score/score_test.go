// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxivlens/pkg/types"
)

// fakeEmbedder maps each text to a fixed vector.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, ok := f.vectors[text]
		if !ok {
			return nil, fmt.Errorf("no vector for %q", text)
		}
		out[i] = v
	}
	return out, nil
}

func TestTimeDecayWeights(t *testing.T) {
	for _, n := range []int{1, 2, 5, 30} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			weights := TimeDecayWeights(n)
			require.Len(t, weights, n)

			var sum float64
			for i, w := range weights {
				assert.Positive(t, w)
				if i > 0 {
					assert.LessOrEqual(t, w, weights[i-1], "weights must decrease with rank")
				}
				sum += w
			}
			assert.InDelta(t, 1.0, sum, 1e-12, "weights must sum to 1")
		})
	}

	assert.Nil(t, TimeDecayWeights(0))
}

func TestTimeDecayWeightsStrictlyDecreasing(t *testing.T) {
	weights := TimeDecayWeights(4)
	for i := 1; i < len(weights); i++ {
		assert.Less(t, weights[i], weights[i-1])
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"scale invariant", []float32{2, 0}, []float32{5, 0}, 1.0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0.0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestRankOrdersByWeightedSimilarity(t *testing.T) {
	now := time.Now().UTC()
	corpus := []types.ReferenceDocument{
		// Listed oldest first on purpose; Rank must sort by recency itself.
		{Text: "old interest", AddedAt: now.Add(-48 * time.Hour)},
		{Text: "new interest", AddedAt: now},
	}

	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"new interest":   {1, 0},
		"old interest":   {0, 1},
		"matches new":    {1, 0},
		"matches old":    {0, 1},
		"matches nobody": {0, 0},
	}}

	candidates := []*types.Paper{
		{ID: "3", Summary: "matches nobody"},
		{ID: "1", Summary: "matches new"},
		{ID: "2", Summary: "matches old"},
	}

	ranked, err := Rank(context.Background(), embedder, candidates, corpus)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	// The paper matching the most recent document wins: its similarity is
	// weighted higher than a perfect match on the older document.
	assert.Equal(t, "1", ranked[0].ID)
	assert.Equal(t, "2", ranked[1].ID)
	assert.Equal(t, "3", ranked[2].ID)

	weights := TimeDecayWeights(2)
	assert.InDelta(t, weights[0]*10, ranked[0].Score, 1e-9)
	assert.InDelta(t, weights[1]*10, ranked[1].Score, 1e-9)
	assert.InDelta(t, 0.0, ranked[2].Score, 1e-9)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestRankEmptyInputs(t *testing.T) {
	embedder := &fakeEmbedder{err: fmt.Errorf("must not be called")}

	ranked, err := Rank(context.Background(), embedder, nil, []types.ReferenceDocument{{Text: "x"}})
	require.NoError(t, err)
	assert.Empty(t, ranked)

	papers := []*types.Paper{{ID: "1", Summary: "a"}}
	ranked, err = Rank(context.Background(), embedder, papers, nil)
	require.NoError(t, err)
	assert.Equal(t, papers, ranked, "empty corpus passes candidates through")
}

func TestRankEmbedderFailureIsFatal(t *testing.T) {
	embedder := &fakeEmbedder{err: fmt.Errorf("backend down")}
	papers := []*types.Paper{{ID: "1", Summary: "a"}}
	corpus := []types.ReferenceDocument{{Text: "x", AddedAt: time.Now()}}

	_, err := Rank(context.Background(), embedder, papers, corpus)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")
}

func TestMinMaxNormalize(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   []float64
	}{
		{"empty", nil, nil},
		{"spread", []float64{2, 4, 6}, []float64{0, 0.5, 1}},
		{"constant batch maps to one", []float64{3, 3, 3}, []float64{1, 1, 1}},
		{"single", []float64{7}, []float64{1}},
		{"negative values", []float64{-1, 1}, []float64{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MinMaxNormalize(tt.scores)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-9)
			}
		})
	}
}

func TestMinMaxNormalizeBounds(t *testing.T) {
	got := MinMaxNormalize([]float64{0.1, 5.5, 9.9, 2.2})
	for _, v := range got {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	assert.True(t, math.Abs(got[2]-1.0) < 1e-9)
}
