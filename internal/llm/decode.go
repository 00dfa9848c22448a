package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

var errNotJSON = errors.New("generated text is not valid JSON")

// DecodeJSONText validates the text a model generated and returns it as raw
// JSON. Markdown code fences around the object are tolerated.
func DecodeJSONText(provider, text string) (json.RawMessage, error) {
	cleaned := stripCodeFence(strings.TrimSpace(text))
	if cleaned == "" {
		return nil, &ParseError{Provider: provider, Raw: text, Err: errors.New("generated text is empty")}
	}
	if !json.Valid([]byte(cleaned)) {
		return nil, &ParseError{Provider: provider, Raw: text, Err: errNotJSON}
	}
	return json.RawMessage(cleaned), nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag line, e.g. ```json
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
