// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rerank

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON decodes a JSON object from model output. Chat models often wrap
// the object in markdown fences or prose, so when the text does not parse as
// a whole it salvages the span from the first "{" to the last "}".
func ExtractJSON(text string) (map[string]any, error) {
	text = strings.TrimSpace(text)

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return obj, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return nil, fmt.Errorf("parsing salvaged JSON span: %w", err)
	}
	return obj, nil
}
