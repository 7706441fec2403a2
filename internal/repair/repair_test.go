// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairStrategyChain(t *testing.T) {
	tests := []struct {
		name         string
		candidate    string
		wantStrategy string
		wantTitle    string
	}{
		{
			name:         "well-formed payload",
			candidate:    `{"article": {"title": "Tesla Earnings", "content": "Body"}}`,
			wantStrategy: "direct",
			wantTitle:    "Tesla Earnings",
		},
		{
			name:         "smart quotes",
			candidate:    "{“article”: {“title”: “Smart Quoted”}}",
			wantStrategy: "normalize",
			wantTitle:    "Smart Quoted",
		},
		{
			name:         "control characters inside strings",
			candidate:    "{\"article\": {\"title\": \"Con\x01trol\"}}",
			wantStrategy: "normalize",
			wantTitle:    "Control",
		},
		{
			name:         "trailing comma",
			candidate:    `{"article": {"title": "Trailing"},}`,
			wantStrategy: "structural",
			wantTitle:    "Trailing",
		},
		{
			name:         "duplicate commas",
			candidate:    `{"article": {"title": "Dupes"},, "executive_summary": ["a",, "b"]}`,
			wantStrategy: "structural",
			wantTitle:    "Dupes",
		},
		{
			name:         "unquoted property names",
			candidate:    `{article: {title: "Unquoted"}}`,
			wantStrategy: "structural",
			wantTitle:    "Unquoted",
		},
		{
			name:         "missing comma between adjacent objects",
			candidate:    `{"article": {"title": "Adjacent"}, "timeline_items": [{"title": "a"} {"title": "b"}]}`,
			wantStrategy: "structural",
			wantTitle:    "Adjacent",
		},
		{
			name:         "markdown code fence",
			candidate:    "```json\n{\"article\": {\"title\": \"Fenced\"}}\n```",
			wantStrategy: "extract",
			wantTitle:    "Fenced",
		},
		{
			name:         "prose wrapped",
			candidate:    `Here is the report you requested: {"article": {"title": "Prose"}} Hope this helps!`,
			wantStrategy: "extract",
			wantTitle:    "Prose",
		},
		{
			name:         "key-value reconstruction",
			candidate:    `"title": "Recovered", "content": "Body text" {{{broken`,
			wantStrategy: "keyvalue",
			wantTitle:    "Recovered",
		},
		{
			name:         "truncated payload salvages article fields",
			candidate:    `{"article": {"title": "Cut Off", "content": "unfinish`,
			wantStrategy: "keyvalue",
			wantTitle:    "Cut Off",
		},
		{
			name:         "empty payload",
			candidate:    "",
			wantStrategy: "minimal",
			wantTitle:    "Report Unavailable",
		},
		{
			name:         "pure prose",
			candidate:    "I could not find any information about that topic.",
			wantStrategy: "minimal",
			wantTitle:    "Report Unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, outcome := Repair(tt.candidate)
			require.NotNil(t, draft)
			assert.Equal(t, tt.wantStrategy, outcome.Strategy)
			assert.Equal(t, tt.wantTitle, draft.Article.Title)
			assert.Equal(t, tt.wantStrategy == "minimal", outcome.Degraded)
		})
	}
}

func TestRepairNeverReturnsNil(t *testing.T) {
	// A grab bag of corrupted payloads; repair must produce a draft for all.
	fixtures := []string{
		"",
		"null",
		"[1, 2, 3]",
		`"just a string"`,
		"{",
		"}",
		"{{{{",
		"\uFEFF{\"article\": {}}",
		"\x00\x01\x02",
		"```\n\n```",
		`{"viewpoints": [{"tone": }]}`,
		`{,,,}`,
	}
	for _, f := range fixtures {
		draft, outcome := Repair(f)
		require.NotNil(t, draft, "fixture %q", f)
		require.NotEmpty(t, outcome.Strategy, "fixture %q", f)
	}
}

func TestRepairBOMOnly(t *testing.T) {
	draft, outcome := Repair("\uFEFF{\"article\": {\"title\": \"BOM\"}}")
	require.NotNil(t, draft)
	assert.Equal(t, "normalize", outcome.Strategy)
	assert.Equal(t, "BOM", draft.Article.Title)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"smart double quotes", "“hello”", `"hello"`},
		{"smart single quotes", "‘hi’", "'hi'"},
		{"dashes", "a–b—c", "a-b-c"},
		{"ellipsis", "wait…", "wait..."},
		{"collapse whitespace", "a \n\t  b", "a b"},
		{"strip controls", "a\x01\x02b", "ab"},
		{"strip BOM", "\uFEFFx", "x"},
		{"trim", "  x  ", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestStructuralRepair(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trailing comma object", `{"a": 1,}`, `{"a": 1}`},
		{"trailing comma array", `[1, 2,]`, `[1, 2]`},
		{"duplicate commas", `[1,, 2]`, `[1, 2]`},
		{"leading comma after opener", `{, "a": 1}`, `{ "a": 1}`},
		{"adjacent objects", `[{"a": 1} {"b": 2}]`, `[{"a": 1}, {"b": 2}]`},
		{"adjacent arrays", `[[1] [2]]`, `[[1], [2]]`},
		{"unquoted keys", `{a: 1, b_c: "x"}`, `{"a": 1, "b_c": "x"}`},
		{"boolean values untouched", `{"a": true, "b": null}`, `{"a": true, "b": null}`},
		{"commas inside strings untouched", `{"a": "x,, y,"}`, `{"a": "x,, y,"}`},
		{"outer stray commas trimmed", `,{"a": 1},`, `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StructuralRepair(tt.in))
		})
	}
}

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"prose around", `before {"a": {"b": 2}} after`, `{"a": {"b": 2}}`},
		{"code fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"braces in strings", `{"a": "with } brace"}`, `{"a": "with } brace"}`},
		{"no object", "plain text", ""},
		{"unbalanced falls back to brace span", `{"a": {"b": 1}`, `{"a": {"b": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractObject(tt.in))
		})
	}
}

func TestReconstructPairs(t *testing.T) {
	in := `garbage "title": "T", noise "count": 3, "ok": true, "title": "dup ignored"`
	out := ReconstructPairs(in)
	assert.JSONEq(t, `{"title": "T", "count": 3, "ok": true}`, out)

	assert.Equal(t, "", ReconstructPairs("no pairs here"))
}

func TestMinimalDraftShape(t *testing.T) {
	d := MinimalDraft()
	assert.NotEmpty(t, d.Article.Title)
	assert.NotNil(t, d.ExecutiveSummary)
	assert.NotNil(t, d.RawFacts)
	assert.NotNil(t, d.TimelineItems)
	assert.NotNil(t, d.Viewpoints)
	assert.NotNil(t, d.ConflictingInfo)
	assert.NotNil(t, d.CitedSources)
}
