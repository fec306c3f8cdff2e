package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/mrd-engine/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	cfg := types.HistoryConfig{
		Dir:        filepath.Join(t.TempDir(), "history"),
		MaxResults: 20,
	}
	store, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRun(product string) Run {
	return Run{
		Product:    product,
		Strategy:   "weighted_blend",
		Confidence: 0.78,
		Report: types.QualityReport{
			OverallScore: 74,
			Passed:       true,
			Dimensions: types.QualityDimensions{
				Completeness: 83,
				Specificity:  61,
				Structure:    90,
				Research:     70,
				Technical:    55,
			},
		},
		GapReports: []types.GapReport{{
			Field: types.FieldMOQ,
			Gaps: []types.Gap{{
				ID:          "moq-volume_tiers",
				Category:    "volume_tiers",
				Priority:    types.PriorityMedium,
				Description: "No volume price tiers beyond the base MOQ.",
			}},
			Completeness: 0.7,
		}},
		Document: "# " + product + " MRD\n\n## 1. Executive Summary\n\nAn insulated travel mug for commuters.\n",
	}
}

func recordRun(t *testing.T, store *Store, run Run) string {
	t.Helper()
	id, err := store.Record(context.Background(), run)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

// --- schema tests ---

func TestOpenCreatesSchema(t *testing.T) {
	store := testStore(t)

	tables := []string{"drafts", "dimensions", "gaps", "drafts_fts"}
	for _, table := range tables {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type IN ('table','view') AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestOpenCreatesDBFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "history")

	store, err := Open(types.HistoryConfig{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(dir, dbFile)); os.IsNotExist(err) {
		t.Errorf("database file not created in %s", dir)
	}
}

// --- record and show tests ---

func TestRecordAndShow(t *testing.T) {
	store := testStore(t)
	run := sampleRun("Trail Mug")

	id := recordRun(t, store, run)
	if id == "" {
		t.Fatal("Record returned empty id")
	}

	rec, err := store.Show(context.Background(), id)
	if err != nil {
		t.Fatalf("Show: %v", err)
	}

	if rec.Product != "Trail Mug" {
		t.Errorf("Product = %q, want %q", rec.Product, "Trail Mug")
	}
	if rec.Strategy != "weighted_blend" {
		t.Errorf("Strategy = %q, want %q", rec.Strategy, "weighted_blend")
	}
	if rec.Confidence != 0.78 {
		t.Errorf("Confidence = %v, want 0.78", rec.Confidence)
	}
	if rec.Score != 74 {
		t.Errorf("Score = %d, want 74", rec.Score)
	}
	if !rec.Passed {
		t.Error("Passed = false, want true")
	}
	if rec.Dimensions != run.Report.Dimensions {
		t.Errorf("Dimensions = %+v, want %+v", rec.Dimensions, run.Report.Dimensions)
	}
	if !strings.Contains(rec.Document, "Trail Mug") {
		t.Errorf("Document does not carry the product name: %q", rec.Document)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
	if since := time.Since(rec.CreatedAt); since < 0 || since > time.Minute {
		t.Errorf("CreatedAt %v is not recent", rec.CreatedAt)
	}

	if len(rec.Gaps) != 1 {
		t.Fatalf("got %d gaps, want 1", len(rec.Gaps))
	}
	gap := rec.Gaps[0]
	if gap.Field != "moq" || gap.ID != "moq-volume_tiers" ||
		gap.Category != "volume_tiers" || gap.Priority != "medium" {
		t.Errorf("gap = %+v", gap)
	}
}

func TestRecordAssignsDistinctIDs(t *testing.T) {
	store := testStore(t)

	first := recordRun(t, store, sampleRun("First"))
	second := recordRun(t, store, sampleRun("Second"))

	if first == second {
		t.Errorf("both runs got id %s", first)
	}
}

func TestShowUnknownID(t *testing.T) {
	store := testStore(t)

	_, err := store.Show(context.Background(), "no-such-id")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not-found error, got: %v", err)
	}
}

// --- list tests ---

func TestListNewestFirst(t *testing.T) {
	store := testStore(t)
	for i := 0; i < 3; i++ {
		recordRun(t, store, sampleRun(fmt.Sprintf("run-%d", i)))
	}

	results, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, want := range []string{"run-2", "run-1", "run-0"} {
		if results[i].Product != want {
			t.Errorf("results[%d].Product = %q, want %q", i, results[i].Product, want)
		}
	}
}

func TestListLimit(t *testing.T) {
	store := testStore(t)
	for i := 0; i < 3; i++ {
		recordRun(t, store, sampleRun(fmt.Sprintf("run-%d", i)))
	}

	results, err := store.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestListEmptyStore(t *testing.T) {
	store := testStore(t)

	results, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

// --- search tests ---

func TestSearchMatchesDocument(t *testing.T) {
	store := testStore(t)

	mug := sampleRun("Trail Mug")
	sprinkler := sampleRun("Lawn Sprinkler")
	sprinkler.Document = "# Lawn Sprinkler MRD\n\n## 1. Executive Summary\n\nAn oscillating garden sprinkler.\n"
	recordRun(t, store, mug)
	recordRun(t, store, sprinkler)

	tests := []struct {
		name        string
		query       string
		wantCount   int
		wantProduct string
	}{
		{"matches one draft", "sprinkler", 1, "Lawn Sprinkler"},
		{"matches the other", "commuters", 1, "Trail Mug"},
		{"no match", "xyzzy", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.Search(context.Background(), tt.query, 0)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if len(results) != tt.wantCount {
				t.Fatalf("got %d results, want %d", len(results), tt.wantCount)
			}
			if tt.wantProduct != "" && results[0].Product != tt.wantProduct {
				t.Errorf("Product = %q, want %q", results[0].Product, tt.wantProduct)
			}
		})
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	store := testStore(t)

	_, err := store.Search(context.Background(), "", 0)
	if err == nil {
		t.Error("expected error for empty query")
	}
}

// --- export tests ---

func TestExportYAMLOldestFirst(t *testing.T) {
	store := testStore(t)
	recordRun(t, store, sampleRun("run-0"))
	recordRun(t, store, sampleRun("run-1"))

	var buf strings.Builder
	if err := store.ExportYAML(context.Background(), &buf); err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}

	var records []DraftRecord
	if err := yaml.Unmarshal([]byte(buf.String()), &records); err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Product != "run-0" || records[1].Product != "run-1" {
		t.Errorf("order = %q, %q; want run-0, run-1", records[0].Product, records[1].Product)
	}
	if records[0].Document == "" {
		t.Error("exported record missing document")
	}
}

func TestExportJSONCarriesFullRecord(t *testing.T) {
	store := testStore(t)
	run := sampleRun("Trail Mug")
	recordRun(t, store, run)

	var buf strings.Builder
	if err := store.ExportJSON(context.Background(), &buf); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var records []DraftRecord
	if err := json.Unmarshal([]byte(buf.String()), &records); err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Product != "Trail Mug" || rec.Score != 74 || !rec.Passed {
		t.Errorf("record = %+v", rec.Summary)
	}
	if rec.Dimensions != run.Report.Dimensions {
		t.Errorf("Dimensions = %+v, want %+v", rec.Dimensions, run.Report.Dimensions)
	}
	if len(rec.Gaps) != 1 || rec.Gaps[0].Category != "volume_tiers" {
		t.Errorf("Gaps = %+v", rec.Gaps)
	}
}
