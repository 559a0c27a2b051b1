// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rerank implements the LLM judgment stage of the recommendation
// pipeline: pluggable backends that judge one paper at a time, a tolerant
// normalizer for their output, and the score fusion that combines LLM
// judgments with embedding scores.
package rerank

import (
	"strconv"
	"strings"

	"github.com/pdiddy/arxivlens/pkg/types"
)

// maxReasons bounds the justification list kept per paper.
const maxReasons = 5

// Judgment is a normalized LLM verdict for one paper.
type Judgment struct {
	Relevant bool     `json:"relevant" yaml:"relevant"`
	FitScore float64  `json:"fit_score" yaml:"fit_score"`
	Reasons  []string `json:"reasons" yaml:"reasons"`
	Action   string   `json:"action" yaml:"action"`
}

// Normalize coerces a decoded backend payload into a Judgment. It never
// fails: missing or malformed fields collapse to safe zero values so a
// drifting backend degrades one paper's judgment instead of the batch.
func Normalize(raw map[string]any) Judgment {
	var j Judgment
	if raw == nil {
		return j
	}
	j.Relevant = normalizeRelevant(raw["relevant"])
	j.FitScore = normalizeFitScore(raw["fit_score"])
	j.Reasons = normalizeReasons(raw["reasons"])
	j.Action = normalizeAction(raw["action"])
	return j
}

// Apply writes the judgment onto the paper's annotation fields.
func Apply(p *types.Paper, j Judgment) {
	p.Relevant = j.Relevant
	p.FitScore = j.FitScore
	p.Reasons = j.Reasons
	p.Action = j.Action
	p.JudgmentFailed = false
}

// MarkFailed records that no judgment could be obtained for the paper and
// zeroes the judgment fields.
func MarkFailed(p *types.Paper) {
	p.Relevant = false
	p.FitScore = 0
	p.Reasons = nil
	p.Action = ""
	p.JudgmentFailed = true
}

func normalizeRelevant(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1", "yes":
			return true
		}
	}
	return false
}

func normalizeFitScore(v any) float64 {
	var score float64
	switch val := v.(type) {
	case float64:
		score = val
	case float32:
		score = float64(val)
	case int:
		score = float64(val)
	case int64:
		score = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		score = parsed
	default:
		return 0
	}
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

func normalizeReasons(v any) []string {
	var items []any
	switch val := v.(type) {
	case []any:
		items = val
	case []string:
		items = make([]any, len(val))
		for i, s := range val {
			items[i] = s
		}
	case string:
		items = []any{val}
	default:
		return nil
	}

	reasons := make([]string, 0, len(items))
	for _, item := range items {
		text := strings.TrimSpace(stringify(item))
		if text == "" {
			continue
		}
		reasons = append(reasons, text)
		if len(reasons) == maxReasons {
			break
		}
	}
	if len(reasons) == 0 {
		return nil
	}
	return reasons
}

func normalizeAction(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(stringify(v))
}

// stringify renders scalar payload values the way encoding/json decoded
// them, keeping integral floats free of a trailing ".5"-style fraction.
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case nil:
		return ""
	default:
		return ""
	}
}
