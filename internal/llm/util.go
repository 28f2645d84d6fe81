// Package llm - util.go provides shared helpers for model output handling.
package llm

import "strings"

// CleanJSONBlock normalizes a model response down to its JSON payload.
// Models wrap JSON in ```json fences or chat around it ("Here is the
// result: ...") often enough that every structured call runs its output
// through this before unmarshalling.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return isolateJSON(strings.TrimSpace(text))
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// A short first line without spaces or braces is a language tag
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return isolateJSON(strings.TrimSpace(text))
	}

	return isolateJSON(text)
}

// isolateJSON trims conversational preamble and trailing chatter around the
// first complete JSON object or array in text. Returns text unchanged when
// no balanced JSON value is found.
func isolateJSON(text string) string {
	objIdx := strings.Index(text, "{")
	arrIdx := strings.Index(text, "[")

	start := -1
	extract := extractJSONObject
	switch {
	case objIdx >= 0 && (arrIdx < 0 || objIdx < arrIdx):
		start = objIdx
	case arrIdx >= 0:
		start = arrIdx
		extract = extractJSONArray
	}
	if start < 0 {
		return text
	}

	if out := extract(text[start:]); out != "" {
		return out
	}
	return text
}

// extractJSONObject returns the balanced {...} prefix of s, tracking string
// literals and escapes so braces inside values do not end the scan. Returns
// "" when s does not start with an object or the object never closes.
func extractJSONObject(s string) string {
	return extractBalanced(s, '{', '}')
}

// extractJSONArray is extractJSONObject for [...] values.
func extractJSONArray(s string) string {
	return extractBalanced(s, '[', ']')
}

func extractBalanced(s string, open, close byte) string {
	if len(s) == 0 || s[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
