// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the timio-research pipeline:
// evidence gathered from the web, the parsed-but-unvalidated report draft
// recovered from the model response, and the terminal ResearchReport artifact.
package types

// SearchResult is a candidate page returned by the search provider. Results
// are ephemeral: the gatherer consumes them immediately to drive scraping.
type SearchResult struct {
	URL     string  `json:"url" yaml:"url"`
	Title   string  `json:"title" yaml:"title"`
	Snippet string  `json:"snippet" yaml:"snippet"`
	Score   float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// ScrapedDocument holds the extracted content of one successfully fetched
// page. Quotes is the authoritative pool of text the synthesizer and the
// provenance validator may treat as real; nothing outside it counts as
// evidence for a quoted claim.
type ScrapedDocument struct {
	// URL is the fetched page URL after redirects.
	URL string `json:"url" yaml:"url"`

	// Title is the page title (og:title, <title>, or first heading).
	Title string `json:"title" yaml:"title"`

	// Content is the extracted article text, truncated to the scrape cap.
	Content string `json:"content" yaml:"content"`

	// Quotes are verbatim quotations found in the page, deduplicated and
	// capped. Only these strings may back a quoted claim downstream.
	Quotes []string `json:"quotes" yaml:"quotes"`

	// Author and PublishedDate are best-effort metadata; empty when the
	// page does not expose them.
	Author        string `json:"author,omitempty" yaml:"author,omitempty"`
	PublishedDate string `json:"published_date,omitempty" yaml:"published_date,omitempty"`

	// Source is the page's host name, used as the display source label.
	Source string `json:"source" yaml:"source"`

	// ImageURL is the page's lead image (og:image or twitter:image), if any.
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// Article is the headline article of a research report.
type Article struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Excerpt      string `json:"excerpt"`
	Content      string `json:"content"`
	Category     string `json:"category"`
	PublishedAt  string `json:"publishedAt"`
	ReadTime     int    `json:"readTime"`
	SourceCount  int    `json:"sourceCount"`
	HeroImageURL string `json:"heroImageUrl"`
	AuthorName   string `json:"authorName,omitempty"`
	AuthorTitle  string `json:"authorTitle,omitempty"`
}

// ExecutiveSummary is a short bullet-point summary of the report.
type ExecutiveSummary struct {
	ArticleID int      `json:"articleId"`
	Points    []string `json:"points"`
}

// TimelineItem is one dated entry in the report timeline.
type TimelineItem struct {
	ArticleID   int    `json:"articleId"`
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	SourceLabel string `json:"sourceLabel"`
	SourceURL   string `json:"sourceUrl,omitempty"`
}

// CitedSource is one deduplicated source referenced by the report.
type CitedSource struct {
	ArticleID   int    `json:"articleId"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Fact is a single attributed factual statement.
type Fact struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	URL    string `json:"url,omitempty"`
}

// RawFactGroup holds the facts filed under one category.
type RawFactGroup struct {
	ArticleID int    `json:"articleId"`
	Category  string `json:"category"`
	Facts     []Fact `json:"facts"`
}

// Perspective is a viewpoint attributed to a source. When the conflict
// fields are populated the perspective carries an opposing counterpart
// from a distinct source.
type Perspective struct {
	ArticleID      int    `json:"articleId"`
	Viewpoint      string `json:"viewpoint"`
	Description    string `json:"description"`
	Source         string `json:"source,omitempty"`
	Quote          string `json:"quote,omitempty"`
	Color          string `json:"color"`
	URL            string `json:"url,omitempty"`
	ConflictSource string `json:"conflictSource,omitempty"`
	ConflictQuote  string `json:"conflictQuote,omitempty"`
	ConflictURL    string `json:"conflictUrl,omitempty"`
}

// ResearchReport is the terminal artifact of a pipeline run. All list
// fields are always present: empty but typed, never absent.
type ResearchReport struct {
	Article          Article          `json:"article"`
	ExecutiveSummary ExecutiveSummary `json:"executiveSummary"`
	TimelineItems    []TimelineItem   `json:"timelineItems"`
	CitedSources     []CitedSource    `json:"citedSources"`
	RawFacts         []RawFactGroup   `json:"rawFacts"`
	Perspectives     []Perspective    `json:"perspectives"`
}
