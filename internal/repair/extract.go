// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repair

import (
	"fmt"
	"regexp"
	"strings"
)

// ExtractObject locates the outermost {...} span inside surrounding prose or
// code fences and returns that span alone. Returns "" when no balanced span
// exists.
func ExtractObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

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
				return s[start : i+1]
			}
		}
	}

	// Unbalanced: fall back to the first-to-last brace span so a truncated
	// tail is at least visible to later strategies.
	if end := strings.LastIndexByte(s, '}'); end > start {
		return s[start : end+1]
	}
	return ""
}

// pairPattern matches "key": value pairs where value is a string, number,
// boolean, or null.
var pairPattern = regexp.MustCompile(`"([A-Za-z_][A-Za-z0-9_]*)"\s*:\s*("(?:[^"\\]|\\.)*"|-?\d+(?:\.\d+)?|true|false|null)`)

// ReconstructPairs regex-scans for "key": value pairs anywhere in the text
// and rebuilds a flat object from whatever pairs are found. Only scalar
// values survive; the first occurrence of a key wins. Returns "" when no
// pairs are found.
func ReconstructPairs(s string) string {
	matches := pairPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return ""
	}

	seen := make(map[string]bool)
	var parts []string
	for _, m := range matches {
		key, value := m[1], m[2]
		if seen[key] {
			continue
		}
		seen[key] = true
		parts = append(parts, fmt.Sprintf("%q: %s", key, value))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// articleKeys are the flat keys the key-value strategy can map back onto
// the draft's article fields.
var articleKeys = map[string]bool{
	"title":    true,
	"excerpt":  true,
	"content":  true,
	"category": true,
}

// HasArticleKey reports whether the reconstructed flat object carries at
// least one article field, which is the bar for the key-value strategy to
// count as a successful recovery.
func HasArticleKey(flat map[string]string) bool {
	for k := range flat {
		if articleKeys[k] {
			return true
		}
	}
	return false
}
