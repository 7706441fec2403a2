// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repair

import "strings"

// StructuralRepair fixes common comma and key faults in near-JSON text:
// stray leading/trailing commas, duplicated commas, trailing commas before a
// closing bracket, missing commas between adjacent objects or arrays, and
// unquoted property names. String contents are left untouched.
func StructuralRepair(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(rs))

	inString := false
	escaped := false

	for i := 0; i < len(rs); {
		r := rs[i]

		if inString {
			b.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			i++
			continue
		}

		switch {
		case r == '"':
			inString = true
			b.WriteRune(r)
			i++

		case r == ',':
			j := nextNonSpace(rs, i+1)
			if j < 0 {
				// Trailing stray comma at end of text.
				i++
				continue
			}
			switch rs[j] {
			case ',':
				// Duplicate comma: drop this one, keep scanning.
				i++
			case '}', ']':
				// Trailing comma before a closing bracket.
				i++
			default:
				b.WriteRune(r)
				i++
			}

		case r == '{' || r == '[':
			b.WriteRune(r)
			i++
			// Stray commas directly after an opener.
			for {
				j := nextNonSpace(rs, i)
				if j < 0 || rs[j] != ',' {
					break
				}
				i = j + 1
			}

		case r == '}' || r == ']':
			b.WriteRune(r)
			if j := nextNonSpace(rs, i+1); j >= 0 && (rs[j] == '{' || rs[j] == '[') {
				b.WriteRune(',')
			}
			i++

		case isIdentStart(r):
			j := i
			for j < len(rs) && isIdentPart(rs[j]) {
				j++
			}
			word := string(rs[i:j])
			if k := nextNonSpace(rs, j); k >= 0 && rs[k] == ':' && word != "true" && word != "false" && word != "null" {
				// Unquoted property name.
				b.WriteRune('"')
				b.WriteString(word)
				b.WriteRune('"')
			} else {
				b.WriteString(word)
			}
			i = j

		default:
			b.WriteRune(r)
			i++
		}
	}

	out := strings.TrimSpace(b.String())
	out = strings.Trim(out, ",")
	return strings.TrimSpace(out)
}

// nextNonSpace returns the index of the first non-whitespace rune at or
// after i, or -1 when none remains.
func nextNonSpace(rs []rune, i int) int {
	for ; i < len(rs); i++ {
		switch rs[i] {
		case ' ', '\t', '\n', '\r':
		default:
			return i
		}
	}
	return -1
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}
