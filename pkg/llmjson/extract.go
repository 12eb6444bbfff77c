// Package llmjson pulls JSON payloads out of free-form model replies, which
// often wrap the object in markdown fences or surround it with prose.
package llmjson

import (
	"encoding/json"
	"strings"
)

// StripFences removes a surrounding markdown code fence (``` or ```json).
// Text without a fence is returned trimmed.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	start := strings.Index(s, "```")
	if start == -1 {
		return s
	}
	body := s[start+3:]
	if nl := strings.Index(body, "\n"); nl != -1 {
		// Drop the info string (json, JSON, ...).
		body = body[nl+1:]
	} else {
		body = strings.TrimPrefix(strings.TrimPrefix(body, "json"), "JSON")
	}
	if end := strings.Index(body, "```"); end != -1 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// Object returns the first balanced JSON object in text, looking inside a
// code fence first. Braces inside string literals are ignored.
func Object(text string) (string, bool) {
	if obj, ok := firstObject(StripFences(text)); ok {
		return obj, true
	}
	return firstObject(text)
}

// Decode extracts the first JSON object from text and unmarshals it into v.
func Decode(text string, v any) error {
	obj, ok := Object(text)
	if !ok {
		return ErrNoObject
	}
	return json.Unmarshal([]byte(obj), v)
}

func firstObject(s string) (string, bool) {
	for start := strings.Index(s, "{"); start != -1; {
		if end := matchBrace(s, start); end != -1 {
			candidate := s[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, true
			}
		}
		next := strings.Index(s[start+1:], "{")
		if next == -1 {
			break
		}
		start += next + 1
	}
	return "", false
}

// matchBrace returns the index of the brace closing the one at start, or -1.
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
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
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
