// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"regexp"
	"time"
)

// RerankAction is the recommended next step the LLM attaches to a judged
// paper. The canonical wire contract uses these four values, but the
// normalizer deliberately accepts any string so a drifting backend cannot
// fail a batch.
type RerankAction string

const (
	ActionReject    RerankAction = "reject"
	ActionMaybeRead RerankAction = "maybe_read"
	ActionShortlist RerankAction = "shortlist"
	ActionClarify   RerankAction = "clarify"
)

// versionSuffix matches a trailing arXiv version marker such as "v2".
var versionSuffix = regexp.MustCompile(`v\d+$`)

// NormalizeArxivID strips the version suffix from an arXiv identifier
// (e.g. "2301.07041v2" becomes "2301.07041").
func NormalizeArxivID(id string) string {
	return versionSuffix.ReplaceAllString(id, "")
}

// Paper holds the immutable arXiv metadata for one candidate plus the
// annotation fields the recommendation pipeline fills in as the paper moves
// through embedding scoring, LLM judgment, and score fusion. Metadata is set
// once by the feed stage; each pipeline stage writes its own annotations
// exactly once.
type Paper struct {
	// ID is the arXiv identifier with any version suffix removed (e.g. "2301.07041").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title with collapsed whitespace.
	Title string `json:"title" yaml:"title"`

	// Summary is the paper abstract.
	Summary string `json:"summary" yaml:"summary"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Categories lists the arXiv category tags (e.g. "cs.AI").
	Categories []string `json:"categories" yaml:"categories"`

	// Published is the announcement timestamp in UTC. Zero when the feed
	// entry carried no date.
	Published time.Time `json:"published" yaml:"published"`

	// Score is the time-decay weighted embedding similarity on a rough 0-10
	// scale, written by the similarity scorer.
	Score float64 `json:"score" yaml:"score"`

	// Relevant is the LLM relevance verdict. False until judged; false when
	// the judgment failed.
	Relevant bool `json:"relevant" yaml:"relevant"`

	// FitScore is the LLM-assigned relevance strength, clamped to [0, 10].
	FitScore float64 `json:"fit_score" yaml:"fit_score"`

	// Reasons holds up to five short justification strings from the LLM.
	Reasons []string `json:"reasons,omitempty" yaml:"reasons,omitempty"`

	// Action is the LLM-recommended next step, or "" when the backend
	// omitted it or the judgment failed.
	Action string `json:"action,omitempty" yaml:"action,omitempty"`

	// JudgmentFailed marks a paper whose LLM judgment could not be obtained
	// after adapter-level retries. The other judgment fields are zeroed.
	JudgmentFailed bool `json:"judgment_failed" yaml:"judgment_failed"`

	// FinalScore is the fused ranking score written by score fusion.
	FinalScore float64 `json:"final_score" yaml:"final_score"`
}

// URL returns the arXiv abstract page for the paper.
func (p *Paper) URL() string {
	return "https://arxiv.org/abs/" + p.ID
}

// PDFURL returns the arXiv PDF location for the paper.
func (p *Paper) PDFURL() string {
	return "https://arxiv.org/pdf/" + p.ID + ".pdf"
}

// PublishedDate returns the publication date as YYYY-MM-DD in UTC, or ""
// when the paper has no publication timestamp.
func (p *Paper) PublishedDate() string {
	if p.Published.IsZero() {
		return ""
	}
	return p.Published.UTC().Format("2006-01-02")
}
