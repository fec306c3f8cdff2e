// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pdiddy/mrd-engine/pkg/types"
)

// Summary is the list and search view of a recorded run, without the
// document body.
type Summary struct {
	ID         string    `json:"id" yaml:"id"`
	Product    string    `json:"product" yaml:"product"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	Strategy   string    `json:"strategy" yaml:"strategy"`
	Confidence float64   `json:"confidence" yaml:"confidence"`
	Score      int       `json:"score" yaml:"score"`
	Passed     bool      `json:"passed" yaml:"passed"`
}

// RecordedGap is one stored gap row, tied to the brief field it came from.
type RecordedGap struct {
	Field       string `json:"field" yaml:"field"`
	ID          string `json:"id" yaml:"id"`
	Category    string `json:"category" yaml:"category"`
	Priority    string `json:"priority" yaml:"priority"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// DraftRecord is a fully loaded run: the summary fields plus dimension
// scores, gaps, and the document markdown.
type DraftRecord struct {
	Summary    `yaml:",inline"`
	Dimensions types.QualityDimensions `json:"dimensions" yaml:"dimensions"`
	Gaps       []RecordedGap           `json:"gaps,omitempty" yaml:"gaps,omitempty"`
	Document   string                  `json:"document" yaml:"document"`
}

// List returns the most recent runs, newest first. A limit of zero or
// less uses the store default.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product, created_at, strategy, confidence, score, passed
		 FROM drafts
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows)
}

// Search runs an FTS5 MATCH over the recorded documents, most relevant
// first.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Summary, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.id, d.product, d.created_at, d.strategy, d.confidence, d.score, d.passed
		 FROM drafts_fts
		 JOIN drafts d ON d.rowid = drafts_fts.rowid
		 WHERE drafts_fts MATCH ?
		 ORDER BY bm25(drafts_fts)
		 LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching drafts: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func scanSummaries(rows *sql.Rows) ([]Summary, error) {
	var results []Summary
	for rows.Next() {
		var (
			sum       Summary
			createdAt string
		)
		if err := rows.Scan(&sum.ID, &sum.Product, &createdAt, &sum.Strategy,
			&sum.Confidence, &sum.Score, &sum.Passed); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			sum.CreatedAt = t
		}
		results = append(results, sum)
	}
	return results, rows.Err()
}

// Show loads one run in full.
func (s *Store) Show(ctx context.Context, id string) (*DraftRecord, error) {
	var (
		rec       DraftRecord
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, product, created_at, strategy, confidence, score, passed, document
		 FROM drafts WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Product, &createdAt, &rec.Strategy,
		&rec.Confidence, &rec.Score, &rec.Passed, &rec.Document)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("draft %s not found", id)
		}
		return nil, fmt.Errorf("looking up draft: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		rec.CreatedAt = t
	}

	dims, err := s.db.QueryContext(ctx,
		`SELECT dimension, score FROM dimensions WHERE draft_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("loading dimensions: %w", err)
	}
	defer dims.Close()
	for dims.Next() {
		var (
			name  string
			score int
		)
		if err := dims.Scan(&name, &score); err != nil {
			return nil, fmt.Errorf("scanning dimension: %w", err)
		}
		switch name {
		case "completeness":
			rec.Dimensions.Completeness = score
		case "specificity":
			rec.Dimensions.Specificity = score
		case "structure":
			rec.Dimensions.Structure = score
		case "research":
			rec.Dimensions.Research = score
		case "technical":
			rec.Dimensions.Technical = score
		}
	}
	if err := dims.Err(); err != nil {
		return nil, err
	}

	gapRows, err := s.db.QueryContext(ctx,
		`SELECT field, gap_id, category, priority, description
		 FROM gaps WHERE draft_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("loading gaps: %w", err)
	}
	defer gapRows.Close()
	for gapRows.Next() {
		var gap RecordedGap
		if err := gapRows.Scan(&gap.Field, &gap.ID, &gap.Category,
			&gap.Priority, &gap.Description); err != nil {
			return nil, fmt.Errorf("scanning gap: %w", err)
		}
		rec.Gaps = append(rec.Gaps, gap)
	}
	if err := gapRows.Err(); err != nil {
		return nil, err
	}

	return &rec, nil
}
