// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert imports supplier spec sheets and category reports into
// the research corpus as markdown, using a containerized markitdown.
// Implements: prd008-research (R6-R8);
//
//	docs/ARCHITECTURE § Reference Import.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// markdownDir is the subdirectory under the research base for imported
// markdown.
const markdownDir = "markdown"

// supportedExt lists the document formats we hand to markitdown.
var supportedExt = map[string]bool{
	".pdf":  true,
	".docx": true,
	".pptx": true,
	".xlsx": true,
	".html": true,
}

// Converter turns one source document into markdown text.
type Converter interface {
	// Convert reads the document at path and returns its markdown content.
	Convert(path string) (string, error)
}

// ImportStatus reports the outcome of one file import.
type ImportStatus string

const (
	ImportDone    ImportStatus = "imported"
	ImportSkipped ImportStatus = "skipped"
	ImportFailed  ImportStatus = "failed"
)

// ImportResult holds counts from an import run.
type ImportResult struct {
	Imported int
	Skipped  int
	Failed   int
}

// Total returns the number of files processed.
func (r ImportResult) Total() int {
	return r.Imported + r.Skipped + r.Failed
}

// HasFailures reports whether any files failed to import.
func (r ImportResult) HasFailures() bool {
	return r.Failed > 0
}

// ImportFile converts one document and writes the markdown to
// researchDir/markdown/<slug>.md. Existing output is left in place.
// Per-file status goes to w.
func ImportFile(c Converter, path, researchDir string, w io.Writer) ImportStatus {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(base))
	if !supportedExt[ext] {
		fmt.Fprintf(w, "failed:  %s (unsupported format %q)\n", base, ext)
		return ImportFailed
	}

	slug := slugify(strings.TrimSuffix(base, filepath.Ext(base)))
	outDir := filepath.Join(researchDir, markdownDir)
	mdPath := filepath.Join(outDir, slug+".md")

	if _, err := os.Stat(mdPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already imported)\n", base)
		return ImportSkipped
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return ImportFailed
	}

	raw, err := c.Convert(path)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return ImportFailed
	}

	if err := os.WriteFile(mdPath, []byte(addFrontmatter(path, raw)), 0o644); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return ImportFailed
	}

	fmt.Fprintf(w, "imported: %s -> %s\n", base, mdPath)
	return ImportDone
}

// ImportFiles runs ImportFile over paths, printing per-file status to w
// and a closing summary.
func ImportFiles(c Converter, paths []string, researchDir string, w io.Writer) ImportResult {
	var result ImportResult
	for _, p := range paths {
		switch ImportFile(c, p, researchDir, w) {
		case ImportDone:
			result.Imported++
		case ImportSkipped:
			result.Skipped++
		case ImportFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nImport summary: %d imported, %d skipped, %d failed (total: %d)\n",
		result.Imported, result.Skipped, result.Failed, result.Total())
	return result
}

// slugify maps a file name to a lowercase hyphenated markdown name.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return "document"
	}
	return slug
}

// addFrontmatter prepends provenance frontmatter to imported markdown.
func addFrontmatter(sourcePath, body string) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "source: %q\n", sourcePath)
	fmt.Fprintf(&b, "imported_at: %q\n", time.Now().UTC().Format(time.RFC3339))
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String()
}
