// Package extract pulls JSON objects out of free-form model output.
//
// Models frequently wrap structured replies in prose ("Sure! {...} — hope
// that helps"). Every call site that expects JSON goes through this package
// so leniency stays uniform: directive parsing in the agent engine and the
// one-shot JSON agents share the exact same extraction rules.
package extract

import (
	"encoding/json"
	"strings"
)

// Object locates the first syntactically balanced JSON object in text and
// parses it. It returns the parsed map, the raw JSON slice it came from,
// and whether extraction succeeded. It never panics and treats malformed
// input as a miss rather than an error.
func Object(text string) (map[string]any, string, bool) {
	start := nextBrace(text, 0)
	for start >= 0 {
		end := FindMatchingBrace(text, start)
		if end == start {
			// Unbalanced from this brace to end of input; nothing after
			// it can balance either.
			return nil, "", false
		}

		raw := text[start:end]
		var obj map[string]any
		if err := json.Unmarshal([]byte(raw), &obj); err == nil {
			return obj, raw, true
		}

		// Balanced but not valid JSON (e.g. code snippet braces). Try the
		// next opening brace.
		start = nextBrace(text, start+1)
	}
	return nil, "", false
}

func nextBrace(text string, from int) int {
	idx := strings.IndexByte(text[from:], '{')
	if idx == -1 {
		return -1
	}
	return from + idx
}

// FindMatchingBrace returns the index just past the closing brace matching
// the opening brace at pos, or pos when no match exists. Braces inside
// string literals are ignored, with backslash escapes honored, so content
// like {"a": "}{"} scans correctly.
func FindMatchingBrace(text string, pos int) int {
	depth := 0
	inString := false
	escaped := false

	for i := pos; i < len(text); i++ {
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
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return pos
}

// StripObject removes the first JSON object starting with pattern from
// text, collapsing the surrounding whitespace. Text without the pattern is
// returned unchanged.
func StripObject(text, pattern string) string {
	start := strings.Index(text, pattern)
	if start == -1 {
		return text
	}

	end := FindMatchingBrace(text, start)
	if end == start {
		return text
	}

	before := strings.TrimRight(text[:start], " \t\n\r")
	after := strings.TrimLeft(text[end:], " \t\n\r")
	if before != "" && after != "" {
		return before + " " + after
	}
	return before + after
}
