// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesize

import (
	"fmt"
	"strings"

	"github.com/timio-source/timio-research/pkg/types"
)

// systemPrompt states the hard constraints and the exact field contract the
// model must return. The quote rules mirror the provenance checks applied
// downstream: a quote the model did not receive verbatim will be flagged.
const systemPrompt = `You are a real-time, non-partisan research assistant. You synthesize a research report strictly from the evidence sources provided in the user message. You NEVER fabricate data, quotes, or URLs.

Hard constraints:
- Never invent a quote. Every "quote" value must be copied verbatim from the QUOTES listed for a source. If no suitable quote exists, use exactly "no quote available".
- Never invent a URL. Every "url" value must be one of the source URLs provided.
- Never pair a conflicting claim against the same source twice: source_a and source_b must name two different sources.
- Return ONLY a single JSON object matching the contract below. No prose, no markdown fences, no commentary.

Tone values for viewpoints and their meaning:
- "supportive": coverage favorable to the subject
- "critical": coverage unfavorable to the subject
- "neutral": factual coverage without a stance

JSON contract:
{
  "article": {"title": "...", "excerpt": "...", "content": "...", "category": "..."},
  "executive_summary": ["short plain-English bullet", "..."],
  "raw_facts": [{"category": "...", "facts": [{"text": "...", "source": "...", "url": "..."}]}],
  "timeline_items": [{"date": "YYYY-MM-DD", "title": "...", "description": "...", "type": "event", "source_label": "...", "source_url": "..."}],
  "viewpoints": [{"viewpoint": "snappy headline for this group", "tone": "supportive|critical|neutral", "summary": "...", "articles": [{"source": "...", "stance": "...", "quote": "...", "url": "..."}]}],
  "conflicting_info": [{"conflict_description": "...", "source_a": {"source": "...", "quote": "...", "url": "...", "claim": "..."}, "source_b": {"source": "...", "quote": "...", "url": "...", "claim": "..."}}],
  "cited_sources": [{"name": "...", "type": "news|analysis|blog|official", "description": "...", "url": "..."}]
}

If the evidence contains no conflicts, return "conflicting_info": [].`

// BuildPrompt renders the system and user prompts for a synthesis call.
// The user prompt enumerates each evidence source with an identifier, its
// URL, extracted content, and its exact quote pool.
func BuildPrompt(query string, evidence []types.ScrapedDocument) (system, user string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Research query: %s\n\n", query)
	fmt.Fprintf(&b, "You have %d evidence sources. Use only these.\n\n", len(evidence))

	for i, doc := range evidence {
		fmt.Fprintf(&b, "SOURCE %d: %s\n", i+1, doc.Source)
		fmt.Fprintf(&b, "URL: %s\n", doc.URL)
		if doc.Title != "" {
			fmt.Fprintf(&b, "TITLE: %s\n", doc.Title)
		}
		if doc.PublishedDate != "" {
			fmt.Fprintf(&b, "PUBLISHED: %s\n", doc.PublishedDate)
		}
		fmt.Fprintf(&b, "CONTENT:\n%s\n", doc.Content)
		if len(doc.Quotes) > 0 {
			b.WriteString("QUOTES (verbatim, the only text you may quote):\n")
			for _, q := range doc.Quotes {
				fmt.Fprintf(&b, "- %q\n", q)
			}
		} else {
			b.WriteString("QUOTES: none extracted; use \"no quote available\" for this source.\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Produce the research report JSON object now.")
	return systemPrompt, b.String()
}
