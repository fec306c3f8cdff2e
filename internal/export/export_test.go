package export

import (
	"archive/zip"
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/mrd-engine/pkg/types"
)

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		// --- plain paragraph ---
		{
			name: "single paragraph",
			body: "A compact insulated mug.",
			want: []string{"A compact insulated mug."},
		},
		// --- wrapped lines join ---
		{
			name: "wrapped lines join into one paragraph",
			body: "First line\nsecond line.",
			want: []string{"First line second line."},
		},
		// --- blank lines separate ---
		{
			name: "blank line separates paragraphs",
			body: "First.\n\nSecond.",
			want: []string{"First.", "Second."},
		},
		// --- bullets ---
		{
			name: "bullets become their own paragraphs",
			body: "Key features:\n- Leakproof lid\n- Fits cup holders",
			want: []string{"Key features:", "• Leakproof lid", "• Fits cup holders"},
		},
		// --- bold stripped ---
		{
			name: "bold markers stripped",
			body: "- **MOQ**: 500 units",
			want: []string{"• MOQ: 500 units"},
		},
		// --- separators dropped ---
		{
			name: "separator rule dropped",
			body: "Body text.\n\n---",
			want: []string{"Body text."},
		},
		// --- empty ---
		{
			name: "blank body",
			body: "   \n\n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitParagraphs(tt.body)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitParagraphs(%q) = %#v, want %#v", tt.body, got, tt.want)
			}
		})
	}
}

// readDocumentXML extracts the main document part from a .docx archive.
func readDocumentXML(t *testing.T, path string) string {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}
	t.Fatal("word/document.xml not found in archive")
	return ""
}

func TestWriteDOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mrd.docx")
	sections := map[int]string{
		1: "A compact insulated mug for commuters.",
		5: "- **Leakproof** lid\n- Fits cup holders",
	}
	sources := []types.SourceRef{
		{Title: "Mug market report", URL: "https://example.com/mugs"},
	}

	if err := WriteDOCX(path, "Trail Mug MRD", sections, sources); err != nil {
		t.Fatalf("WriteDOCX: %v", err)
	}

	xml := readDocumentXML(t, path)

	for _, want := range []string{
		"Trail Mug MRD",
		"1. Executive Summary",
		"5. Product Requirements",
		"• Leakproof lid",
		"Sources",
		"Mug market report",
		"808080",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("document.xml missing %q", want)
		}
	}

	if strings.Contains(xml, "**") {
		t.Error("bold markers leaked into the document")
	}
	if strings.Contains(xml, "2. Product Overview") {
		t.Error("absent section rendered anyway")
	}
}

func TestWriteDOCXNoSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mrd.docx")

	if err := WriteDOCX(path, "Trail Mug MRD", map[int]string{1: "Summary."}, nil); err != nil {
		t.Fatalf("WriteDOCX: %v", err)
	}

	if xml := readDocumentXML(t, path); strings.Contains(xml, "Sources") {
		t.Error("sources heading rendered with no sources")
	}
}
