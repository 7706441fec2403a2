// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/timio-source/timio-research/pkg/types"
)

const archiveDBFile = "reports.db"

// Archive persists generated reports to a local SQLite database, keyed by
// article slug. Unlike the TTL cache it survives restarts; it is a record
// of what was generated, not a freshness cache.
type Archive struct {
	db *sql.DB
}

// ArchiveEntry summarizes one archived report.
type ArchiveEntry struct {
	Slug      string
	Query     string
	Title     string
	CreatedAt time.Time
}

// NewArchive opens or creates the report archive at dir/reports.db,
// creating the schema if needed.
func NewArchive(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(dir, archiveDBFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening archive database: %w", err)
	}

	a := &Archive{db: db}
	if err := a.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating archive schema: %w", err)
	}
	return a, nil
}

// Close releases the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) createSchema() error {
	_, err := a.db.Exec(`CREATE TABLE IF NOT EXISTS reports (
		slug TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		title TEXT NOT NULL,
		created_at TEXT NOT NULL,
		payload TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Save stores the report under its article slug, replacing any previous
// report with the same slug.
func (a *Archive) Save(ctx context.Context, query string, report *types.ResearchReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	_, err = a.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO reports (slug, query, title, created_at, payload) VALUES (?, ?, ?, ?, ?)`,
		report.Article.Slug, query, report.Article.Title,
		time.Now().UTC().Format(time.RFC3339), string(payload))
	if err != nil {
		return fmt.Errorf("saving report %q: %w", report.Article.Slug, err)
	}
	return nil
}

// Load retrieves an archived report by slug.
func (a *Archive) Load(ctx context.Context, slug string) (*types.ResearchReport, error) {
	var payload string
	err := a.db.QueryRowContext(ctx,
		`SELECT payload FROM reports WHERE slug = ?`, slug).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report %q not found", slug)
	}
	if err != nil {
		return nil, fmt.Errorf("loading report %q: %w", slug, err)
	}

	var report types.ResearchReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("decoding report %q: %w", slug, err)
	}
	return &report, nil
}

// List returns archive entries, newest first.
func (a *Archive) List(ctx context.Context) ([]ArchiveEntry, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT slug, query, title, created_at FROM reports ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var entries []ArchiveEntry
	for rows.Next() {
		var e ArchiveEntry
		var created string
		if err := rows.Scan(&e.Slug, &e.Query, &e.Title, &created); err != nil {
			return nil, fmt.Errorf("scanning report row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Purge deletes every archived report and returns how many were removed.
func (a *Archive) Purge(ctx context.Context) (int, error) {
	res, err := a.db.ExecContext(ctx, `DELETE FROM reports`)
	if err != nil {
		return 0, fmt.Errorf("purging reports: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Export writes an archived report to w in the requested format, "json"
// or "yaml".
func (a *Archive) Export(ctx context.Context, slug, format string, w io.Writer) error {
	report, err := a.Load(ctx, slug)
	if err != nil {
		return err
	}

	switch format {
	case "yaml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
