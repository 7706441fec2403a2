// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repair

import "strings"

// typographicReplacer folds smart punctuation to ASCII equivalents. Model
// output frequently arrives with typographic quotes that break JSON string
// delimiters.
var typographicReplacer = strings.NewReplacer(
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"„", `"`, // low double quote
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"–", "-", // en dash
	"—", "-", // em dash
	"…", "...", // ellipsis
	" ", " ", // no-break space
)

// Normalize folds typographic punctuation to ASCII, strips byte-order marks
// and control characters, and collapses runs of whitespace to single spaces.
func Normalize(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = typographicReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t' || r == '\r' || r == ' ':
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		case r < 0x20 || r == 0x7f || r == '\uFEFF':
			// drop control characters
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}
