// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/mrd-engine/pkg/types"
)

// --- rendering ---

func TestRenderDocumentOrderAndSeparators(t *testing.T) {
	sections := map[int]string{
		2: "A compact insulated mug for commuters.",
		1: "- **Summary** bullet.",
		3: "   \n",
	}

	doc := RenderDocument("Trail Mug MRD", sections)

	if !strings.HasPrefix(doc, "# Trail Mug MRD\n\n") {
		t.Errorf("document missing title heading:\n%s", doc)
	}
	first := strings.Index(doc, "## 1. Executive Summary")
	second := strings.Index(doc, "## 2. Product Overview")
	if first == -1 || second == -1 || first > second {
		t.Errorf("sections missing or out of order (1 at %d, 2 at %d):\n%s", first, second, doc)
	}
	if strings.Contains(doc, "## 3.") {
		t.Errorf("blank section should be skipped:\n%s", doc)
	}
	if got := strings.Count(doc, "---"); got != 1 {
		t.Errorf("separator count = %d, want 1 for two sections", got)
	}
}

func TestRenderDocumentWithSources(t *testing.T) {
	sections := map[int]string{1: "Summary."}
	sources := []types.SourceRef{
		{Title: "Mug market report", URL: "https://example.com/mugs"},
		{URL: "https://example.com/untitled"},
	}

	doc := RenderDocumentWithSources("Trail Mug MRD", sections, sources)

	if !strings.Contains(doc, "## Sources") {
		t.Fatalf("missing sources block:\n%s", doc)
	}
	if !strings.Contains(doc, "- [Mug market report](https://example.com/mugs)") {
		t.Errorf("missing linked source:\n%s", doc)
	}
	// An untitled source falls back to its URL as the link label.
	if !strings.Contains(doc, "- [https://example.com/untitled](https://example.com/untitled)") {
		t.Errorf("untitled source not rendered with URL label:\n%s", doc)
	}
}

func TestRenderDocumentNoTitle(t *testing.T) {
	doc := RenderDocument("  ", map[int]string{1: "Summary."})
	if !strings.HasPrefix(doc, "## 1. Executive Summary") {
		t.Errorf("blank title should be omitted:\n%s", doc)
	}
}

func TestRenderDocumentEmptySections(t *testing.T) {
	doc := RenderDocument("Empty", nil)
	if strings.Contains(doc, "##") {
		t.Errorf("no section headings expected:\n%s", doc)
	}
}

// --- ParseSections ---

func TestParseSectionsRoundTrip(t *testing.T) {
	sections := map[int]string{
		1:  "- **Summary** bullet.",
		2:  "Overview paragraph with 350 ml detail.",
		12: "- Phase 1: sampling",
	}

	doc := RenderDocument("Trail Mug MRD", sections)
	parsed := ParseSections(doc)

	if len(parsed) != 3 {
		t.Fatalf("parsed %d sections, want 3", len(parsed))
	}
	for number, body := range sections {
		if !strings.Contains(parsed[number], strings.TrimSpace(body)) {
			t.Errorf("section %d body %q not found in parsed %q", number, body, parsed[number])
		}
	}
}

func TestParseSectionsSkipsUnknownHeadings(t *testing.T) {
	doc := "## 1. Executive Summary\n\nBody.\n\n## Appendix\n\nExtra notes.\n"
	parsed := ParseSections(doc)

	if len(parsed) != 1 {
		t.Fatalf("parsed %d sections, want 1", len(parsed))
	}
	if strings.Contains(parsed[1], "Extra notes") {
		t.Errorf("appendix text leaked into section 1: %q", parsed[1])
	}
}

// --- candidate files ---

func TestWriteAndReadCandidateFile(t *testing.T) {
	dir := t.TempDir()
	cand := types.Candidate{
		ID:           "c01-claude",
		Source:       "claude",
		Sections:     map[int]string{1: "- Summary.", 2: "Overview."},
		Confidence:   map[int]float64{1: 0.8, 2: 0.5},
		OverallScore: 74,
	}

	path, err := WriteCandidateFile(dir, cand)
	if err != nil {
		t.Fatalf("WriteCandidateFile: %v", err)
	}
	if filepath.Base(path) != "c01-claude.yaml" {
		t.Errorf("path = %q, want file named after the candidate id", path)
	}

	got, err := ReadCandidateFile(path)
	if err != nil {
		t.Fatalf("ReadCandidateFile: %v", err)
	}
	if !reflect.DeepEqual(got, cand) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, cand)
	}
}

func TestWriteCandidateFileRequiresID(t *testing.T) {
	_, err := WriteCandidateFile(t.TempDir(), types.Candidate{Source: "claude"})
	if err == nil || !strings.Contains(err.Error(), "no id") {
		t.Errorf("expected missing-id error, got: %v", err)
	}
}

func TestReadCandidateFileMissing(t *testing.T) {
	_, err := ReadCandidateFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadCandidateFileRejectsBlankID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anon.yaml")
	if err := os.WriteFile(path, []byte("source: claude\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadCandidateFile(path)
	if err == nil || !strings.Contains(err.Error(), "no id") {
		t.Errorf("expected missing-id error, got: %v", err)
	}
}

func TestReadCandidateFileBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte(":::bad\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadCandidateFile(path)
	if err == nil || !strings.Contains(err.Error(), "parsing") {
		t.Errorf("expected parse error, got: %v", err)
	}
}

// --- CheckSourceLinks ---

func TestCheckSourceLinks(t *testing.T) {
	doc := "See [the report](https://example.com/mugs) and https://example.com/rogue. " +
		"Also https://example.com/rogue again."
	sources := []types.SourceRef{
		{Title: "Mug market report", URL: "https://example.com/mugs/"},
	}

	unknown := CheckSourceLinks(doc, sources)
	want := []string{"https://example.com/rogue"}
	if !reflect.DeepEqual(unknown, want) {
		t.Errorf("unknown = %v, want %v", unknown, want)
	}
}

func TestCheckSourceLinksAllKnown(t *testing.T) {
	doc := "Backed by https://example.com/mugs only."
	sources := []types.SourceRef{{URL: "https://example.com/mugs"}}

	if unknown := CheckSourceLinks(doc, sources); len(unknown) != 0 {
		t.Errorf("unknown = %v, want none", unknown)
	}
}

func TestCheckSourceLinksNoLinks(t *testing.T) {
	if unknown := CheckSourceLinks("No links here.", nil); len(unknown) != 0 {
		t.Errorf("unknown = %v, want none", unknown)
	}
}
