package anthropic

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// CleanJSON strips markdown code fences from model output. Models sometimes
// wrap JSON responses in ```json ... ``` despite instructions.
func CleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx >= 0 {
			text = text[idx+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	return strings.TrimSpace(text)
}

// ParseStringArray parses a JSON array of strings out of model output. Fences
// are stripped first; if the remainder is not a bare array, the first
// bracketed span is extracted, which tolerates prose around the payload.
func ParseStringArray(text string) ([]string, error) {
	text = CleanJSON(text)

	if !strings.HasPrefix(text, "[") {
		start := strings.Index(text, "[")
		end := strings.LastIndex(text, "]")
		if start < 0 || end <= start {
			return nil, eris.Errorf("anthropic: no JSON array in output: %.80s", text)
		}
		text = text[start : end+1]
	}

	var out []string
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, eris.Wrap(err, "anthropic: parse string array")
	}

	cleaned := make([]string, 0, len(out))
	for _, s := range out {
		s = strings.TrimSpace(s)
		if s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return cleaned, nil
}
