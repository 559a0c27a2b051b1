// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxivlens/pkg/types"
)

func samplePaper() *types.Paper {
	return &types.Paper{
		ID:         "2301.07041",
		Title:      "Attention Is Not Enough",
		Summary:    "We revisit attention mechanisms.",
		Categories: []string{"cs.LG", "cs.AI"},
		Published:  time.Date(2023, 1, 17, 12, 0, 0, 0, time.UTC),
		Score:      7.123,
		FitScore:   8,
		FinalScore: 0.842,
		Relevant:   true,
		Reasons:    []string{"directly on topic", "strong empirical results", "third reason omitted"},
		Action:     "shortlist",
	}
}

func TestFormatPaper(t *testing.T) {
	got := FormatPaper(samplePaper(), 1, false)

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "1. final=0.842 embed=7.123 llm=8.0", lines[0])
	assert.Equal(t, "   published: 2023-01-17 | categories: cs.LG, cs.AI", lines[1])
	assert.Equal(t, "   title: Attention Is Not Enough", lines[2])
	assert.Equal(t, "   url: https://arxiv.org/abs/2301.07041", lines[3])
	assert.Equal(t, "   pdf: https://arxiv.org/pdf/2301.07041.pdf", lines[4])
	assert.Equal(t, "   reason: directly on topic", lines[5])
	assert.Equal(t, "   reason: strong empirical results", lines[6])
	assert.Equal(t, "   action: shortlist", lines[7])
	assert.NotContains(t, got, "third reason omitted", "at most two reasons are printed")
}

func TestFormatPaperMinimal(t *testing.T) {
	p := &types.Paper{ID: "2301.00001", Title: "Bare"}
	got := FormatPaper(p, 3, false)

	assert.Contains(t, got, "3. final=0.000 embed=0.000 llm=0.0")
	assert.Contains(t, got, "published: n/a | categories: n/a")
	assert.NotContains(t, got, "reason:")
	assert.NotContains(t, got, "action:")
}

func TestFormatPaperFailureMarker(t *testing.T) {
	p := &types.Paper{ID: "2301.00001", Title: "Unjudged", JudgmentFailed: true}

	assert.Contains(t, FormatPaper(p, 1, true), "(judgment failed)")
	assert.NotContains(t, FormatPaper(p, 1, false), "judgment failed",
		"the marker only appears on the fallback path")
}

func TestWriteList(t *testing.T) {
	var buf bytes.Buffer
	papers := []*types.Paper{samplePaper(), {ID: "2301.00002", Title: "Second"}}

	require.NoError(t, WriteList(&buf, papers, false))
	out := buf.String()

	assert.Contains(t, out, "1. final=")
	assert.Contains(t, out, "2. final=")
	assert.NotContains(t, out, "embedding ranking instead")
}

func TestWriteListFallbackNotice(t *testing.T) {
	var buf bytes.Buffer
	papers := []*types.Paper{{ID: "2301.00001", Title: "T", JudgmentFailed: true}}

	require.NoError(t, WriteList(&buf, papers, true))
	out := buf.String()

	assert.Contains(t, out, "No papers survived the relevance filter")
	assert.Contains(t, out, "(judgment failed)")
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	p := samplePaper()
	p.Title = `Bold <b>claims</b> & "quotes"`

	require.NoError(t, WriteHTML(&buf, []*types.Paper{p}, false))
	out := buf.String()

	assert.Contains(t, out, "Bold &lt;b&gt;claims&lt;/b&gt;")
	assert.NotContains(t, out, "<b>claims</b>", "titles are escaped")
	assert.Contains(t, out, "https://arxiv.org/abs/2301.07041")
	assert.Contains(t, out, "https://arxiv.org/pdf/2301.07041.pdf")
	assert.Contains(t, out, "directly on topic")
	assert.Contains(t, out, "#01")
}

func TestWriteHTMLEmptyAndFallback(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, nil, false))
	assert.Contains(t, buf.String(), "No papers to display.")

	buf.Reset()
	papers := []*types.Paper{{ID: "1", Title: "T", JudgmentFailed: true}}
	require.NoError(t, WriteHTML(&buf, papers, true))
	out := buf.String()
	assert.Contains(t, out, "showing the embedding ranking instead")
	assert.Contains(t, out, "judgment failed")
	assert.Contains(t, out, "No recommendation reasons provided.")
}
