// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gather

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// Quote length bounds. Shorter fragments are usually navigation text or
// scare quotes; longer ones are almost never a single quotation.
const (
	minQuoteLen = 12
	maxQuoteLen = 300
)

// ExtractQuotes scans block-quotation markup and quoted-text patterns in the
// page, deduplicates the findings, and returns at most maxQuotes entries.
// These strings form the evidence pool later stages treat as real.
func ExtractQuotes(doc *goquery.Document, rawText string, maxQuotes int) []string {
	seen := make(map[string]bool)
	var quotes []string

	add := func(q string) {
		q = collapseSpace(q)
		if len(q) < minQuoteLen || len(q) > maxQuoteLen {
			return
		}
		key := strings.ToLower(q)
		if seen[key] {
			return
		}
		seen[key] = true
		quotes = append(quotes, q)
	}

	doc.Find("blockquote, q").Each(func(_ int, sel *goquery.Selection) {
		add(sel.Text())
	})

	for _, span := range scanQuotedSpans(rawText) {
		add(span)
	}

	if len(quotes) > maxQuotes {
		quotes = quotes[:maxQuotes]
	}
	return quotes
}

// scanQuotedSpans returns the text between paired double quotes in raw page
// text. A straight quote serves as both opener and closer, so one opens a
// span only at a word boundary and closes it only before one. Typographic
// quotes pair unambiguously.
func scanQuotedSpans(text string) []string {
	var spans []string
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if !opensQuote(runes, i) {
			continue
		}
		limit := i + 1 + 2*maxQuoteLen
		if limit > len(runes) {
			limit = len(runes)
		}
		for j := i + 1; j < limit; j++ {
			if runes[j] == '“' {
				// unclosed span, restart at the new opener
				i = j - 1
				break
			}
			if closesQuote(runes, j) {
				spans = append(spans, string(runes[i+1:j]))
				i = j
				break
			}
		}
	}
	return spans
}

func opensQuote(runes []rune, i int) bool {
	switch runes[i] {
	case '“':
		return true
	case '"':
		return i == 0 || unicode.IsSpace(runes[i-1]) || strings.ContainsRune("([{", runes[i-1])
	}
	return false
}

func closesQuote(runes []rune, j int) bool {
	switch runes[j] {
	case '”':
		return true
	case '"':
		return j+1 == len(runes) || unicode.IsSpace(runes[j+1]) || strings.ContainsRune(".,;:!?)]}", runes[j+1])
	}
	return false
}
