// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rerank

import "fmt"

// systemPrompt instructs the model to return the judgment wire contract.
const systemPrompt = "You are a research assistant. Decide whether a candidate paper is relevant to the project " +
	"overview. Return ONLY JSON with keys: relevant (bool), fit_score (0-10 number), " +
	"reasons (list of strings), action (string)."

// userPrompt renders the per-paper judgment request.
func userPrompt(overview, title, abstract string) string {
	return fmt.Sprintf(
		"Project overview:\n%s\n\nCandidate paper:\nTitle: %s\nAbstract: %s\n\nReturn JSON only.",
		overview, title, abstract,
	)
}
