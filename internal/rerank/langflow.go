// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mudler/xlog"

	"github.com/pdiddy/arxivlens/internal/httputil"
	"github.com/pdiddy/arxivlens/pkg/types"
)

// preferredTextKeys are checked first when digging a chat message out of a
// Langflow run payload. Order matters.
var preferredTextKeys = []string{"message", "text", "content", "output"}

// FlowRunner executes an exported flow file in-process. It is the seam for
// the local execution mode; the returned payload is mined for the judgment
// JSON the same way an HTTP response body is.
type FlowRunner interface {
	RunFlow(ctx context.Context, flowPath string, tweaks map[string]any) (any, error)
}

// LangflowAdapter judges papers by running a Langflow workflow. In HTTP mode
// it posts to the server's run endpoint; in local mode it delegates to a
// FlowRunner. Either way the flow receives the overview, title, and abstract
// as component tweaks and is expected to emit the judgment JSON in a chat
// message somewhere in its output.
type LangflowAdapter struct {
	cfg    types.LangflowConfig
	client *http.Client
	runner FlowRunner
}

// NewLangflowAdapter validates the configuration and builds the adapter.
// runner may be nil in HTTP mode.
func NewLangflowAdapter(cfg types.LangflowConfig, runner FlowRunner) (*LangflowAdapter, error) {
	if cfg.Mode == "" {
		cfg.Mode = types.LangflowHTTP
	}
	switch cfg.Mode {
	case types.LangflowHTTP:
		if cfg.FlowID == "" {
			return nil, fmt.Errorf("langflow flow_id is required in http mode")
		}
	case types.LangflowLocal:
		if cfg.FlowPath == "" {
			return nil, fmt.Errorf("langflow flow_path is required in local mode")
		}
		if runner == nil {
			return nil, fmt.Errorf("langflow local mode requires a flow runner")
		}
	default:
		return nil, fmt.Errorf("unsupported langflow mode %q", cfg.Mode)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:7863"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 1
	}
	return &LangflowAdapter{
		cfg:    cfg,
		client: httputil.NoProxyLocalClient(cfg.Timeout),
		runner: runner,
	}, nil
}

// Judge runs the flow once per paper, retrying transport and parse failures.
func (a *LangflowAdapter) Judge(ctx context.Context, overview, title, abstract string) (map[string]any, error) {
	tweaks := buildTweaks(overview, title, abstract)

	var lastErr error
	for attempt := 0; attempt <= a.cfg.Retries; attempt++ {
		var (
			obj map[string]any
			err error
		)
		if a.cfg.Mode == types.LangflowLocal {
			obj, err = a.runLocalOnce(ctx, tweaks)
		} else {
			obj, err = a.runHTTPOnce(ctx, tweaks)
		}
		if err == nil {
			return obj, nil
		}
		lastErr = err
		xlog.Warn("langflow rerank failed", "mode", string(a.cfg.Mode), "attempt", attempt+1, "max", a.cfg.Retries+1, "error", err.Error())
	}
	return nil, fmt.Errorf("langflow rerank failed after %d attempts: %w", a.cfg.Retries+1, lastErr)
}

func buildTweaks(overview, title, abstract string) map[string]any {
	return map[string]any{
		"overview": map[string]any{"input_value": overview},
		"title":    map[string]any{"input_value": title},
		"abstract": map[string]any{"input_value": abstract},
	}
}

func (a *LangflowAdapter) runLocalOnce(ctx context.Context, tweaks map[string]any) (map[string]any, error) {
	payload, err := a.runner.RunFlow(ctx, a.cfg.FlowPath, tweaks)
	if err != nil {
		return nil, fmt.Errorf("running flow %s: %w", a.cfg.FlowPath, err)
	}
	return payloadToJSON(payload)
}

func (a *LangflowAdapter) runHTTPOnce(ctx context.Context, tweaks map[string]any) (map[string]any, error) {
	body, err := json.Marshal(map[string]any{
		"input_type":  "chat",
		"output_type": "chat",
		"input_value": "",
		"session_id":  uuid.NewString(),
		"tweaks":      tweaks,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding run request: %w", err)
	}

	url := a.cfg.BaseURL + "/api/v1/run/" + a.cfg.FlowID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building run request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.cfg.APIKey != "" {
		req.Header.Set("x-api-key", a.cfg.APIKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting run request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("langflow returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding run response: %w", err)
	}
	return payloadToJSON(payload)
}

// payloadToJSON turns an arbitrary flow payload into the judgment object.
// A payload that already carries the canonical keys is returned as-is;
// otherwise the chat message text is located and parsed as JSON.
func payloadToJSON(payload any) (map[string]any, error) {
	var content string
	switch val := payload.(type) {
	case map[string]any:
		if hasCanonicalKeys(val) {
			return val, nil
		}
		content = extractMessage(val)
	case []any:
		for _, item := range val {
			if obj, ok := item.(map[string]any); ok && hasCanonicalKeys(obj) {
				return obj, nil
			}
		}
		content = deepFindText(val, newVisitSet())
	case string:
		content = val
	default:
		content = deepFindText(val, newVisitSet())
	}

	if content == "" {
		return nil, fmt.Errorf("langflow response missing message content")
	}
	return ExtractJSON(content)
}

func hasCanonicalKeys(obj map[string]any) bool {
	_, hasRelevant := obj["relevant"]
	_, hasFit := obj["fit_score"]
	return hasRelevant && hasFit
}

// extractMessage walks the documented run-response shape
// (outputs[].outputs[].messages[].message) before falling back to the
// generic deep search.
func extractMessage(payload map[string]any) string {
	outputs, _ := payload["outputs"].([]any)
	for _, runOutput := range outputs {
		run, ok := runOutput.(map[string]any)
		if !ok {
			continue
		}
		results, _ := run["outputs"].([]any)
		for _, r := range results {
			result, ok := r.(map[string]any)
			if !ok {
				continue
			}
			messages, _ := result["messages"].([]any)
			for _, m := range messages {
				msg, ok := m.(map[string]any)
				if !ok {
					continue
				}
				if content, ok := msg["message"].(string); ok && strings.TrimSpace(content) != "" {
					return content
				}
			}
			outputMap, _ := result["outputs"].(map[string]any)
			for _, v := range outputMap {
				inner, ok := v.(map[string]any)
				if !ok {
					continue
				}
				for _, key := range []string{"message", "text"} {
					if content, ok := inner[key].(string); ok && strings.TrimSpace(content) != "" {
						return content
					}
				}
			}
		}
	}
	if message, ok := payload["message"].(string); ok && strings.TrimSpace(message) != "" {
		return message
	}
	return deepFindText(payload, newVisitSet())
}

// visitSet tracks container identities already seen during a deep search so
// cyclic payloads terminate.
type visitSet map[uintptr]struct{}

func newVisitSet() visitSet { return make(visitSet) }

func (s visitSet) enter(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer:
		if v.IsNil() {
			return false
		}
		p := v.Pointer()
		if _, seen := s[p]; seen {
			return false
		}
		s[p] = struct{}{}
	}
	return true
}

// deepFindText is the last-resort extraction: depth-first search for the
// first non-empty string, preferring the well-known message keys at every
// map level. Handles decoded JSON values and, via reflection, arbitrary
// structs a local flow runner may return.
func deepFindText(value any, seen visitSet) string {
	if value == nil {
		return ""
	}

	switch val := value.(type) {
	case string:
		return strings.TrimSpace(val)
	case map[string]any:
		if !seen.enter(reflect.ValueOf(val)) {
			return ""
		}
		for _, key := range preferredTextKeys {
			if s, ok := val[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		for _, key := range preferredTextKeys {
			if inner, ok := val[key]; ok {
				if content := deepFindText(inner, seen); content != "" {
					return content
				}
			}
		}
		for _, inner := range val {
			if content := deepFindText(inner, seen); content != "" {
				return content
			}
		}
		return ""
	case []any:
		if !seen.enter(reflect.ValueOf(val)) {
			return ""
		}
		for _, item := range val {
			if content := deepFindText(item, seen); content != "" {
				return content
			}
		}
		return ""
	}

	return deepFindTextReflect(reflect.ValueOf(value), seen)
}

// preferredFieldNames extends the message keys with the container fields a
// flow runner's result objects commonly nest content under.
var preferredFieldNames = []string{"Message", "Text", "Content", "Output", "Result", "Outputs", "Data"}

func deepFindTextReflect(v reflect.Value, seen visitSet) string {
	if !v.IsValid() {
		return ""
	}
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return ""
		}
		return deepFindTextReflect(v.Elem(), seen)
	case reflect.Pointer:
		if !seen.enter(v) {
			return ""
		}
		return deepFindTextReflect(v.Elem(), seen)
	case reflect.String:
		return strings.TrimSpace(v.String())
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && !seen.enter(v) {
			return ""
		}
		for i := 0; i < v.Len(); i++ {
			if content := deepFindTextReflect(v.Index(i), seen); content != "" {
				return content
			}
		}
		return ""
	case reflect.Map:
		if !seen.enter(v) {
			return ""
		}
		for _, key := range v.MapKeys() {
			if content := deepFindTextReflect(v.MapIndex(key), seen); content != "" {
				return content
			}
		}
		return ""
	case reflect.Struct:
		t := v.Type()
		for _, name := range preferredFieldNames {
			if f, ok := t.FieldByName(name); ok && f.IsExported() {
				if content := deepFindTextReflect(v.FieldByIndex(f.Index), seen); content != "" {
					return content
				}
			}
		}
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			if content := deepFindTextReflect(v.Field(i), seen); content != "" {
				return content
			}
		}
		return ""
	}
	return ""
}
