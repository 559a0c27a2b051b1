// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns a ranked batch of papers into terminal text or an
// HTML results page.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/arxivlens/pkg/types"
)

// maxReasonLines bounds the justification lines printed per paper.
const maxReasonLines = 2

// FormatPaper renders one ranked paper as a multi-line terminal block.
// markFailures adds a marker to papers whose LLM judgment failed; it is set
// on the fallback path so the reader knows those entries were never judged.
func FormatPaper(p *types.Paper, rank int, markFailures bool) string {
	categories := "n/a"
	if len(p.Categories) > 0 {
		categories = strings.Join(p.Categories, ", ")
	}
	published := p.PublishedDate()
	if published == "" {
		published = "n/a"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d. final=%.3f embed=%.3f llm=%.1f", rank, p.FinalScore, p.Score, p.FitScore)
	if markFailures && p.JudgmentFailed {
		b.WriteString(" (judgment failed)")
	}
	fmt.Fprintf(&b, "\n   published: %s | categories: %s", published, categories)
	fmt.Fprintf(&b, "\n   title: %s", p.Title)
	fmt.Fprintf(&b, "\n   url: %s", p.URL())
	fmt.Fprintf(&b, "\n   pdf: %s", p.PDFURL())

	reasons := p.Reasons
	if len(reasons) > maxReasonLines {
		reasons = reasons[:maxReasonLines]
	}
	for _, reason := range reasons {
		fmt.Fprintf(&b, "\n   reason: %s", reason)
	}
	if p.Action != "" {
		fmt.Fprintf(&b, "\n   action: %s", p.Action)
	}
	return b.String()
}

// WriteList prints the full ranked list with a blank line between papers.
// fellBack notes that the LLM relevance filter eliminated every candidate
// and the list shows the embedding ranking instead.
func WriteList(w io.Writer, papers []*types.Paper, fellBack bool) error {
	if fellBack {
		if _, err := fmt.Fprintln(w, "No papers survived the relevance filter; showing the embedding ranking instead."); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	for i, p := range papers {
		if _, err := fmt.Fprintln(w, FormatPaper(p, i+1, fellBack)); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
