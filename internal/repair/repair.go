// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package repair recovers a structured report draft from a model response
// that may be truncated, wrapped in prose or code fences, or syntactically
// broken JSON. Recovery is an ordered chain of pure strategies; the first
// strategy whose output parses wins, and a canonical minimal draft guarantees
// the chain always terminates with a usable result.
package repair

import (
	"encoding/json"

	"github.com/timio-source/timio-research/pkg/types"
)

// Outcome reports which recovery strategy produced the draft.
type Outcome struct {
	// Strategy is the name of the winning strategy: direct, normalize,
	// structural, extract, extract+structural, keyvalue, or minimal.
	Strategy string

	// Degraded is true when the minimal fallback draft was used.
	Degraded bool
}

// Repair converts a candidate payload into a parsed report draft. It never
// fails: if every strategy is exhausted the canonical minimal draft is
// returned with a degraded outcome.
func Repair(candidate string) (*types.ReportDraft, Outcome) {
	normalized := Normalize(candidate)
	extracted := ExtractObject(normalized)

	attempts := []struct {
		name string
		text string
	}{
		{"direct", candidate},
		{"normalize", normalized},
		{"structural", StructuralRepair(normalized)},
		{"extract", extracted},
		{"extract+structural", StructuralRepair(extracted)},
	}

	for _, a := range attempts {
		if a.text == "" {
			continue
		}
		if draft, ok := tryParse(a.text); ok {
			return draft, Outcome{Strategy: a.name}
		}
	}

	if draft, ok := reconstructDraft(normalized); ok {
		return draft, Outcome{Strategy: "keyvalue"}
	}

	return MinimalDraft(), Outcome{Strategy: "minimal", Degraded: true}
}

// reconstructDraft applies the key-value strategy: scan for flat scalar
// pairs and map any recognized article fields onto a fresh draft. It
// succeeds only when at least one article field was recovered.
func reconstructDraft(text string) (*types.ReportDraft, bool) {
	rebuilt := ReconstructPairs(text)
	if rebuilt == "" {
		return nil, false
	}

	var flat map[string]string
	if err := json.Unmarshal([]byte(rebuilt), &flat); err != nil {
		// Mixed value types: retry keeping only the string-typed pairs.
		var loose map[string]any
		if err := json.Unmarshal([]byte(rebuilt), &loose); err != nil {
			return nil, false
		}
		flat = make(map[string]string)
		for k, v := range loose {
			if s, ok := v.(string); ok {
				flat[k] = s
			}
		}
	}

	if !HasArticleKey(flat) {
		return nil, false
	}

	draft := MinimalDraft()
	if v := flat["title"]; v != "" {
		draft.Article.Title = v
	}
	if v := flat["excerpt"]; v != "" {
		draft.Article.Excerpt = v
	}
	if v := flat["content"]; v != "" {
		draft.Article.Content = v
	}
	if v := flat["category"]; v != "" {
		draft.Article.Category = v
	}
	return draft, true
}

// tryParse attempts to unmarshal text as a report draft. Top-level
// non-objects are rejected so a bare string or array cannot masquerade as
// a draft.
func tryParse(text string) (*types.ReportDraft, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &probe); err != nil || probe == nil {
		return nil, false
	}
	var draft types.ReportDraft
	if err := json.Unmarshal([]byte(text), &draft); err != nil {
		return nil, false
	}
	return &draft, true
}

// MinimalDraft returns the canonical empty-but-well-typed draft used when no
// strategy can recover the payload. The placeholder article fields signal
// the failure to the reader.
func MinimalDraft() *types.ReportDraft {
	return &types.ReportDraft{
		Article: types.ArticleDraft{
			Title:    "Report Unavailable",
			Excerpt:  "The response could not be parsed into a report.",
			Content:  "Report generation failed: the model response could not be recovered into a valid structure.",
			Category: "Research",
		},
		ExecutiveSummary: []string{},
		RawFacts:         []types.RawFactDraft{},
		TimelineItems:    []types.TimelineDraft{},
		Viewpoints:       []types.ViewpointGroup{},
		ConflictingInfo:  []types.ConflictingClaim{},
		CitedSources:     []types.SourceDraft{},
	}
}
