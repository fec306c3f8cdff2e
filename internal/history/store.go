// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records MRD pipeline runs in a local SQLite database.
// Implements: prd014-history (R1-R5);
//
//	docs/ARCHITECTURE § Run History.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/mrd-engine/pkg/types"
)

const dbFile = "history.db"

// Store manages the run history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the history database at dir/history.db. It
// creates the directory and the schema if they do not exist.
func Open(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS drafts (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			product TEXT NOT NULL,
			created_at TEXT NOT NULL,
			strategy TEXT,
			confidence REAL,
			score INTEGER,
			passed INTEGER NOT NULL,
			document TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_drafts_created_at ON drafts(created_at)`,
		`CREATE TABLE IF NOT EXISTS dimensions (
			draft_id TEXT NOT NULL REFERENCES drafts(id),
			dimension TEXT NOT NULL,
			score INTEGER NOT NULL,
			PRIMARY KEY (draft_id, dimension)
		)`,
		`CREATE TABLE IF NOT EXISTS gaps (
			draft_id TEXT NOT NULL REFERENCES drafts(id),
			field TEXT NOT NULL,
			gap_id TEXT NOT NULL,
			category TEXT NOT NULL,
			priority TEXT NOT NULL,
			description TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_gaps_draft_id ON gaps(draft_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='drafts_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE drafts_fts USING fts5(document, content=drafts, content_rowid=rowid)`,
			`CREATE TRIGGER drafts_ai AFTER INSERT ON drafts BEGIN
				INSERT INTO drafts_fts(rowid, document) VALUES (new.rowid, new.document);
			END`,
			`CREATE TRIGGER drafts_ad AFTER DELETE ON drafts BEGIN
				INSERT INTO drafts_fts(drafts_fts, rowid, document) VALUES('delete', old.rowid, old.document);
			END`,
			`CREATE TRIGGER drafts_au AFTER UPDATE ON drafts BEGIN
				INSERT INTO drafts_fts(drafts_fts, rowid, document) VALUES('delete', old.rowid, old.document);
				INSERT INTO drafts_fts(rowid, document) VALUES (new.rowid, new.document);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Run holds everything the pipeline records about one completed
// generation.
type Run struct {
	// Product is the brief's product name.
	Product string

	// Strategy is the merge strategy that produced the final draft.
	Strategy string

	// Confidence is the merged draft's overall confidence.
	Confidence float64

	// Report is the quality assessment of the final draft.
	Report types.QualityReport

	// GapReports holds the per-field gap analysis of the brief.
	GapReports []types.GapReport

	// Document is the full rendered markdown.
	Document string
}

// Record inserts a completed run and returns its assigned id.
func (s *Store) Record(ctx context.Context, run Run) (string, error) {
	id := uuid.NewString()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO drafts (id, product, created_at, strategy, confidence, score, passed, document)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, run.Product, createdAt, run.Strategy,
		run.Confidence, run.Report.OverallScore, run.Report.Passed, run.Document,
	)
	if err != nil {
		return "", fmt.Errorf("inserting draft: %w", err)
	}

	for _, dim := range dimensionRows(run.Report.Dimensions) {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO dimensions (draft_id, dimension, score) VALUES (?, ?, ?)`,
			id, dim.name, dim.score,
		)
		if err != nil {
			return "", fmt.Errorf("inserting dimension %s: %w", dim.name, err)
		}
	}

	for _, report := range run.GapReports {
		for _, gap := range report.Gaps {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO gaps (draft_id, field, gap_id, category, priority, description)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				id, string(report.Field), gap.ID, gap.Category, string(gap.Priority), gap.Description,
			)
			if err != nil {
				return "", fmt.Errorf("inserting gap %s: %w", gap.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

type dimensionRow struct {
	name  string
	score int
}

func dimensionRows(d types.QualityDimensions) []dimensionRow {
	return []dimensionRow{
		{"completeness", d.Completeness},
		{"specificity", d.Specificity},
		{"structure", d.Structure},
		{"research", d.Research},
		{"technical", d.Technical},
	}
}
