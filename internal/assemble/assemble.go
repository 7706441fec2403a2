// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble turns a validated report draft into the terminal
// ResearchReport: grouping facts, flattening viewpoints, merging
// conflicting claims into perspectives, deduplicating cited sources, and
// attaching images. Every list field of the output is present and typed
// even when empty.
package assemble

import (
	"context"
	"encoding/binary"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/timio-source/timio-research/internal/imagery"
	"github.com/timio-source/timio-research/pkg/types"
)

const (
	maxSlugLen       = 80
	wordsPerMinute   = 200
	defaultCategory  = "General"
	defaultViewpoint = "Conflicting Coverage"
)

// toneColor maps a viewpoint group's declared tone to its display color.
func toneColor(tone string) string {
	switch strings.ToLower(strings.TrimSpace(tone)) {
	case "supportive":
		return "green"
	case "critical":
		return "red"
	case "neutral":
		return "blue"
	default:
		return "gray"
	}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a URL slug from a title: lowercased, non-alphanumeric runs
// collapsed to single hyphens, length-capped.
func Slug(title string) string {
	s := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = strings.Trim(s[:maxSlugLen], "-")
	}
	return s
}

// newArticleID derives a positive int from a random UUID so concurrently
// generated reports get distinct IDs without shared state.
func newArticleID() int {
	u := uuid.New()
	return int(binary.BigEndian.Uint32(u[:4]) & 0x7fffffff)
}

// readTime estimates reading minutes for the article body, at least 1.
func readTime(content string) int {
	words := len(strings.Fields(content))
	minutes := words / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// Report assembles the final research report from a repaired and validated
// draft. heroImageURL overrides image lookup for the article when set;
// query is the original research query, used as the hero image topic.
func Report(ctx context.Context, draft *types.ReportDraft, images imagery.Lookup, heroImageURL, query string) *types.ResearchReport {
	articleID := newArticleID()

	hero := heroImageURL
	if hero == "" {
		hero = images.ImageFor(ctx, query, 0)
	}

	category := strings.TrimSpace(draft.Article.Category)
	if category == "" {
		category = defaultCategory
	}

	report := &types.ResearchReport{
		Article: types.Article{
			ID:           articleID,
			Title:        draft.Article.Title,
			Slug:         Slug(draft.Article.Title),
			Excerpt:      draft.Article.Excerpt,
			Content:      draft.Article.Content,
			Category:     category,
			PublishedAt:  time.Now().UTC().Format(time.RFC3339),
			ReadTime:     readTime(draft.Article.Content),
			HeroImageURL: hero,
		},
		ExecutiveSummary: types.ExecutiveSummary{
			ArticleID: articleID,
			Points:    append([]string{}, draft.ExecutiveSummary...),
		},
		TimelineItems: assembleTimeline(articleID, draft.TimelineItems),
		RawFacts:      groupFacts(articleID, draft.RawFacts),
		Perspectives:  assemblePerspectives(articleID, draft),
	}

	report.CitedSources = assembleSources(ctx, articleID, draft.CitedSources, images)
	report.Article.SourceCount = len(report.CitedSources)

	return report
}

func assembleTimeline(articleID int, items []types.TimelineDraft) []types.TimelineItem {
	out := make([]types.TimelineItem, 0, len(items))
	for _, it := range items {
		out = append(out, types.TimelineItem{
			ArticleID:   articleID,
			Date:        it.Date,
			Title:       it.Title,
			Description: it.Description,
			Type:        it.Type,
			SourceLabel: it.SourceLabel,
			SourceURL:   it.SourceURL,
		})
	}
	return out
}

// groupFacts merges raw-fact entries by category key, defaulting to
// "General" when a category is absent, while preserving first-seen
// category order.
func groupFacts(articleID int, groups []types.RawFactDraft) []types.RawFactGroup {
	out := make([]types.RawFactGroup, 0, len(groups))
	index := make(map[string]int)

	for _, g := range groups {
		category := strings.TrimSpace(g.Category)
		if category == "" {
			category = defaultCategory
		}

		i, ok := index[strings.ToLower(category)]
		if !ok {
			i = len(out)
			index[strings.ToLower(category)] = i
			out = append(out, types.RawFactGroup{
				ArticleID: articleID,
				Category:  category,
				Facts:     []types.Fact{},
			})
		}

		for _, f := range g.Facts {
			text := strings.TrimSpace(f.Text)
			if text == "" {
				continue
			}
			out[i].Facts = append(out[i].Facts, types.Fact{
				Text:   text,
				Source: f.Source,
				URL:    f.URL,
			})
		}
	}
	return out
}

// assemblePerspectives flattens viewpoint groups into individual
// perspective entries, then merges conflicting-claim pairs in
// bidirectionally: a claim side matching an existing perspective's source
// populates that perspective's conflict fields, and an unmatched side
// becomes a new perspective of its own.
func assemblePerspectives(articleID int, draft *types.ReportDraft) []types.Perspective {
	perspectives := make([]types.Perspective, 0, len(draft.Viewpoints))

	for _, group := range draft.Viewpoints {
		color := toneColor(group.Tone)
		for _, art := range group.Articles {
			description := art.Stance
			if description == "" {
				description = group.Summary
			}
			perspectives = append(perspectives, types.Perspective{
				ArticleID:   articleID,
				Viewpoint:   group.Viewpoint,
				Description: description,
				Source:      art.Source,
				Quote:       art.Quote,
				URL:         art.URL,
				Color:       color,
			})
		}
	}

	for _, claim := range draft.ConflictingInfo {
		perspectives = mergeConflictSide(perspectives, articleID, claim.SourceA, claim.SourceB, claim.Description)
		perspectives = mergeConflictSide(perspectives, articleID, claim.SourceB, claim.SourceA, claim.Description)
	}

	return perspectives
}

// mergeConflictSide attaches the opposing side's source, quote, and URL to
// the perspective already attributed to side's source, or synthesizes a
// fresh perspective for side when none exists.
func mergeConflictSide(perspectives []types.Perspective, articleID int, side, opposing types.ClaimSide, description string) []types.Perspective {
	for i := range perspectives {
		if !sameSource(perspectives[i].Source, side.Source) {
			continue
		}
		if perspectives[i].ConflictSource == "" {
			perspectives[i].ConflictSource = opposing.Source
			perspectives[i].ConflictQuote = opposing.Quote
			perspectives[i].ConflictURL = opposing.URL
		}
		return perspectives
	}

	stance := side.Claim
	if stance == "" {
		stance = description
	}
	return append(perspectives, types.Perspective{
		ArticleID:      articleID,
		Viewpoint:      defaultViewpoint,
		Description:    stance,
		Source:         side.Source,
		Quote:          side.Quote,
		URL:            side.URL,
		Color:          toneColor(""),
		ConflictSource: opposing.Source,
		ConflictQuote:  opposing.Quote,
		ConflictURL:    opposing.URL,
	})
}

func sameSource(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// assembleSources deduplicates cited sources by URL when present, else by
// name, preserving first-seen order, and resolves one illustrative image
// per unique source.
func assembleSources(ctx context.Context, articleID int, sources []types.SourceDraft, images imagery.Lookup) []types.CitedSource {
	out := make([]types.CitedSource, 0, len(sources))
	seen := make(map[string]bool)

	for _, src := range sources {
		key := strings.ToLower(strings.TrimSpace(src.URL))
		if key == "" {
			key = "name:" + strings.ToLower(strings.TrimSpace(src.Name))
		}
		if key == "" || key == "name:" || seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, types.CitedSource{
			ArticleID:   articleID,
			Name:        src.Name,
			Type:        src.Type,
			Description: src.Description,
			URL:         src.URL,
			ImageURL:    images.ImageFor(ctx, src.Name, len(out)),
		})
	}
	return out
}
