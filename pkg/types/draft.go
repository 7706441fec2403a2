// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ReportDraft is the parsed-but-unvalidated object graph recovered from a
// model response. Field names match the JSON contract stated in the
// synthesis prompt; every field is optional because the repair engine may
// only recover a fragment of the payload.
type ReportDraft struct {
	Article          ArticleDraft       `json:"article"`
	ExecutiveSummary []string           `json:"executive_summary"`
	RawFacts         []RawFactDraft     `json:"raw_facts"`
	TimelineItems    []TimelineDraft    `json:"timeline_items"`
	Viewpoints       []ViewpointGroup   `json:"viewpoints"`
	ConflictingInfo  []ConflictingClaim `json:"conflicting_info"`
	CitedSources     []SourceDraft      `json:"cited_sources"`
}

// ArticleDraft holds the headline article fields as the model returned them.
type ArticleDraft struct {
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// RawFactDraft is one category of raw facts in the draft.
type RawFactDraft struct {
	Category string      `json:"category"`
	Facts    []FactDraft `json:"facts"`
}

// FactDraft is a single attributed fact in the draft.
type FactDraft struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	URL    string `json:"url"`
}

// TimelineDraft is one timeline entry in the draft.
type TimelineDraft struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	SourceLabel string `json:"source_label"`
	SourceURL   string `json:"source_url"`
}

// ViewpointGroup is one group of articles sharing a viewpoint. Tone is the
// model's declared stance (supportive, critical, neutral, or other); the
// assembler maps it to a display color.
type ViewpointGroup struct {
	Viewpoint string             `json:"viewpoint"`
	Tone      string             `json:"tone"`
	Summary   string             `json:"summary"`
	Articles  []ViewpointArticle `json:"articles"`
}

// ViewpointArticle is one member article of a viewpoint group.
type ViewpointArticle struct {
	Source string `json:"source"`
	Stance string `json:"stance"`
	Quote  string `json:"quote"`
	URL    string `json:"url"`
}

// ConflictingClaim pairs two sources making opposing claims. The two sides
// must reference distinct sources; same-source pairs are filtered out during
// validation.
type ConflictingClaim struct {
	Description string    `json:"conflict_description"`
	SourceA     ClaimSide `json:"source_a"`
	SourceB     ClaimSide `json:"source_b"`
}

// ClaimSide is one side of a conflicting-claim pair.
type ClaimSide struct {
	Source string `json:"source"`
	Quote  string `json:"quote"`
	URL    string `json:"url"`
	Claim  string `json:"claim"`
}

// SourceDraft is one cited source in the draft, before deduplication.
type SourceDraft struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	URL         string `json:"url"`
}
