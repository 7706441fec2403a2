// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache memoizes complete research reports by normalized query for
// a bounded time window, and optionally archives them to a local SQLite
// database for later retrieval.
package cache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/timio-source/timio-research/pkg/types"
)

// Entry describes one live cache entry.
type Entry struct {
	Key       string
	Title     string
	StoredAt  time.Time
	ExpiresAt time.Time
}

type record struct {
	report   *types.ResearchReport
	storedAt time.Time
}

// Cache is a TTL-bounded in-memory report cache, safe for concurrent use.
// Expired entries are evicted lazily on access.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	records map[string]record

	// now is a seam for tests.
	now func() time.Time
}

// New returns a cache whose entries expire ttl after insertion.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		records: make(map[string]record),
		now:     time.Now,
	}
}

// NormalizeKey canonicalizes a query for use as a cache key: lowercased
// with whitespace runs collapsed.
func NormalizeKey(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

// Get returns the cached report for the query, or false when absent or
// expired. An expired entry is removed on the way out.
func (c *Cache) Get(query string) (*types.ResearchReport, bool) {
	key := NormalizeKey(query)

	c.mu.RLock()
	rec, ok := c.records[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.now().Sub(rec.storedAt) >= c.ttl {
		c.mu.Lock()
		// Re-check under the write lock in case a fresh Put raced in.
		if cur, ok := c.records[key]; ok && c.now().Sub(cur.storedAt) >= c.ttl {
			delete(c.records, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return rec.report, true
}

// Put stores the report under the normalized query key, replacing any
// previous entry.
func (c *Cache) Put(query string, report *types.ResearchReport) {
	key := NormalizeKey(query)
	c.mu.Lock()
	c.records[key] = record{report: report, storedAt: c.now()}
	c.mu.Unlock()
}

// Entries lists the live entries sorted by key, skipping expired ones.
func (c *Cache) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	var out []Entry
	for key, rec := range c.records {
		if now.Sub(rec.storedAt) >= c.ttl {
			continue
		}
		out = append(out, Entry{
			Key:       key,
			Title:     rec.report.Article.Title,
			StoredAt:  rec.storedAt,
			ExpiresAt: rec.storedAt.Add(c.ttl),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Purge drops every entry and returns how many were removed.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.records)
	c.records = make(map[string]record)
	return n
}
