// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes every recorded run to w as YAML, oldest first.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	records, err := s.exportRecords(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportJSON writes every recorded run to w as indented JSON, oldest
// first.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	records, err := s.exportRecords(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// exportRecords loads all runs oldest first so repeated exports of an
// unchanged store produce identical output.
func (s *Store) exportRecords(ctx context.Context) ([]DraftRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM drafts ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	records := make([]DraftRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := s.Show(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}
