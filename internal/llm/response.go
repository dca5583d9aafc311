package llm

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fenceStart = regexp.MustCompile("(?is)^\\s*```(?:json)?\\s*")
	fenceEnd   = regexp.MustCompile("(?is)\\s*```\\s*$")
)

// normalizeReport acepta el cuerpo tal cual si es JSON válido; si no, quita
// fences ```json y texto alrededor y se queda con el primer objeto.
func normalizeReport(body []byte) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		return json.RawMessage(trimmed), true
	}

	cleaned := cleanJSONResponse(string(body))
	if cleaned == "" {
		return nil, false
	}
	if json.Valid([]byte(cleaned)) {
		return json.RawMessage(cleaned), true
	}
	obj := extractFirstJSONObject(cleaned)
	if obj == "" || !json.Valid([]byte(obj)) {
		return nil, false
	}
	return json.RawMessage(obj), true
}

// cleanJSONResponse quita fences ```json ... ``` y BOM.
func cleanJSONResponse(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, "\uFEFF")
	s = fenceStart.ReplaceAllString(s, "")
	s = fenceEnd.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func extractFirstJSONObject(input string) string {
	start := strings.IndexByte(input, '{')
	if start == -1 {
		return ""
	}

	inString := false
	escape := false
	depth := 0

	for i := start; i < len(input); i++ {
		ch := input[i]

		if inString {
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}

	return ""
}
