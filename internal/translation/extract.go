package translation

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Reasoning-mode models wrap chain-of-thought in these markers before the
// actual answer.
const (
	reasoningOpen  = "<think>"
	reasoningClose = "</think>"
)

var translatedKeyPrefix = regexp.MustCompile(`^\s*\{?\s*["']?translated["']?\s*:\s*`)

// extractCandidate cleans one raw model reply down to the text that should
// hold the translation record: reasoning blocks are removed, then the first
// top-level balanced JSON object is taken. When no object is found the whole
// cleaned reply is the candidate.
func extractCandidate(raw string) string {
	cleaned := stripReasoning(raw)
	if obj, ok := firstJSONObject(cleaned); ok {
		return obj
	}
	return strings.TrimSpace(cleaned)
}

// decodeTranslation parses a candidate as a translation record and returns
// the translated text. Malformed candidates are recovered via fallback
// extraction rather than surfaced as errors.
func decodeTranslation(candidate string) string {
	var record map[string]any
	if err := json.Unmarshal([]byte(candidate), &record); err == nil {
		if value, ok := record["translated"].(string); ok {
			return value
		}
		return ""
	}
	return fallbackTranslation(candidate)
}

// fallbackTranslation salvages a best-effort translated string from text that
// failed strict JSON parsing: a leading translated-key token is dropped and
// surrounding quote/brace characters are trimmed.
func fallbackTranslation(candidate string) string {
	cleaned := strings.TrimSpace(candidate)
	cleaned = translatedKeyPrefix.ReplaceAllString(cleaned, "")
	cleaned = strings.Trim(cleaned, "{}\"'")
	return strings.TrimSpace(cleaned)
}

// stripReasoning removes every marker-delimited reasoning block. An opening
// marker without a matching close drops the remainder of the text.
func stripReasoning(raw string) string {
	text := raw
	for {
		start := strings.Index(text, reasoningOpen)
		if start < 0 {
			return strings.TrimSpace(text)
		}
		rest := text[start+len(reasoningOpen):]
		end := strings.Index(rest, reasoningClose)
		if end < 0 {
			return strings.TrimSpace(text[:start])
		}
		text = text[:start] + rest[end+len(reasoningClose):]
	}
}

// firstJSONObject scans for the first top-level balanced brace-delimited
// object, tracking brace depth and skipping braces inside JSON string values
// (including escaped quotes). Quotes outside an object are treated as prose.
func firstJSONObject(text string) (string, bool) {
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
