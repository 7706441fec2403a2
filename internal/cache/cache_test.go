// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timio-source/timio-research/pkg/types"
)

func sampleReport(title, slug string) *types.ResearchReport {
	return &types.ResearchReport{
		Article: types.Article{Title: title, Slug: slug},
	}
}

func TestCacheGetWithinTTLReturnsSameInstance(t *testing.T) {
	c := New(15 * time.Minute)
	report := sampleReport("Tesla Earnings", "tesla-earnings")
	c.Put("Tesla earnings", report)

	got, ok := c.Get("Tesla earnings")
	require.True(t, ok)
	assert.Same(t, report, got)
}

func TestCacheKeyNormalization(t *testing.T) {
	c := New(time.Minute)
	c.Put("  Tesla   Earnings ", sampleReport("t", "t"))

	_, ok := c.Get("tesla earnings")
	assert.True(t, ok)

	assert.Equal(t, "tesla earnings", NormalizeKey("  Tesla \n Earnings "))
}

func TestCacheExpiry(t *testing.T) {
	c := New(15 * time.Minute)
	base := time.Now()
	c.now = func() time.Time { return base }
	c.Put("q", sampleReport("t", "t"))

	c.now = func() time.Time { return base.Add(14 * time.Minute) }
	_, ok := c.Get("q")
	assert.True(t, ok)

	c.now = func() time.Time { return base.Add(16 * time.Minute) }
	_, ok = c.Get("q")
	assert.False(t, ok, "expired entry should be treated as absent")

	// Lazy eviction removed the record entirely.
	assert.Empty(t, c.Entries())
}

func TestCacheEntriesAndPurge(t *testing.T) {
	c := New(time.Minute)
	c.Put("b query", sampleReport("B", "b"))
	c.Put("a query", sampleReport("A", "a"))

	entries := c.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a query", entries[0].Key)
	assert.Equal(t, "A", entries[0].Title)

	assert.Equal(t, 2, c.Purge())
	assert.Empty(t, c.Entries())
}

func TestArchiveRoundTrip(t *testing.T) {
	a, err := NewArchive(t.TempDir())
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	report := sampleReport("Tesla Earnings Beat", "tesla-earnings-beat")
	report.ExecutiveSummary = types.ExecutiveSummary{Points: []string{"revenue up"}}

	require.NoError(t, a.Save(ctx, "Tesla earnings", report))

	loaded, err := a.Load(ctx, "tesla-earnings-beat")
	require.NoError(t, err)
	assert.Equal(t, "Tesla Earnings Beat", loaded.Article.Title)
	assert.Equal(t, []string{"revenue up"}, loaded.ExecutiveSummary.Points)

	entries, err := a.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Tesla earnings", entries[0].Query)
}

func TestArchiveSaveReplacesSlug(t *testing.T) {
	a, err := NewArchive(t.TempDir())
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	require.NoError(t, a.Save(ctx, "q1", sampleReport("First", "same-slug")))
	require.NoError(t, a.Save(ctx, "q2", sampleReport("Second", "same-slug")))

	loaded, err := a.Load(ctx, "same-slug")
	require.NoError(t, err)
	assert.Equal(t, "Second", loaded.Article.Title)

	entries, err := a.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestArchiveLoadMissing(t *testing.T) {
	a, err := NewArchive(t.TempDir())
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Load(context.Background(), "nope")
	assert.ErrorContains(t, err, "not found")
}
