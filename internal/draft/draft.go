// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package draft assembles MRD documents from section maps and moves
// generation candidates to and from disk.
// Implements: prd013-assembly (R1-R4);
//
//	docs/ARCHITECTURE § Draft Assembly.
package draft

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/mrd-engine/internal/score"
	"github.com/pdiddy/mrd-engine/pkg/types"
)

// urlPattern matches http(s) links in markdown text.
var urlPattern = regexp.MustCompile(`https?://[^\s)\]>"']+`)

// ParseSections splits a full document into numbered section bodies using
// the scoring rubric's heading rules, so every verb that reads a draft sees
// the same section boundaries as the scorer.
func ParseSections(doc string) map[int]string {
	return score.NewScorer(score.DefaultRubric()).SplitSections(doc)
}

// RenderDocument assembles section bodies into a canonical MRD: a title
// heading, `## N. Title` headings in template order, and a horizontal rule
// between sections. Absent or blank sections are skipped.
func RenderDocument(title string, sections map[int]string) string {
	return RenderDocumentWithSources(title, sections, nil)
}

// RenderDocumentWithSources renders the document with a trailing Sources
// block listing the research references (R2.2).
func RenderDocumentWithSources(title string, sections map[int]string, sources []types.SourceRef) string {
	var b strings.Builder
	if strings.TrimSpace(title) != "" {
		fmt.Fprintf(&b, "# %s\n\n", strings.TrimSpace(title))
	}

	first := true
	for _, def := range types.DefaultSections() {
		body, ok := sections[def.Number]
		if !ok || strings.TrimSpace(body) == "" {
			continue
		}
		if !first {
			b.WriteString("---\n\n")
		}
		first = false
		fmt.Fprintf(&b, "## %d. %s\n\n", def.Number, def.Title)
		b.WriteString(strings.TrimRight(body, "\n"))
		b.WriteString("\n\n")
	}

	if len(sources) > 0 {
		if !first {
			b.WriteString("---\n\n")
		}
		b.WriteString("## Sources\n\n")
		for _, s := range sources {
			label := strings.TrimSpace(s.Title)
			if label == "" {
				label = s.URL
			}
			fmt.Fprintf(&b, "- [%s](%s)\n", label, s.URL)
		}
	}

	return b.String()
}

// WriteCandidateFile saves one candidate under dir as <id>.yaml and returns
// the file path (R3.1).
func WriteCandidateFile(dir string, cand types.Candidate) (string, error) {
	if cand.ID == "" {
		return "", fmt.Errorf("candidate has no id")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating candidates dir: %w", err)
	}

	data, err := yaml.Marshal(cand)
	if err != nil {
		return "", fmt.Errorf("marshaling candidate %s: %w", cand.ID, err)
	}

	path := filepath.Join(dir, cand.ID+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// ReadCandidateFile loads a candidate written by WriteCandidateFile (R3.2).
func ReadCandidateFile(path string) (types.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Candidate{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var cand types.Candidate
	if err := yaml.Unmarshal(data, &cand); err != nil {
		return types.Candidate{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cand.ID == "" {
		return types.Candidate{}, fmt.Errorf("%s: candidate has no id", path)
	}
	return cand, nil
}

// CheckSourceLinks scans the document for in-text URLs that do not appear in
// the source list and returns them sorted (R4.1). An empty result means
// every link is backed by a collected source.
func CheckSourceLinks(doc string, sources []types.SourceRef) []string {
	known := make(map[string]bool, len(sources))
	for _, s := range sources {
		if u := canonicalURL(s.URL); u != "" {
			known[u] = true
		}
	}

	seen := make(map[string]bool)
	for _, raw := range urlPattern.FindAllString(doc, -1) {
		u := canonicalURL(raw)
		if u == "" || known[u] || seen[u] {
			continue
		}
		seen[u] = true
	}

	unknown := make([]string, 0, len(seen))
	for u := range seen {
		unknown = append(unknown, u)
	}
	sort.Strings(unknown)
	return unknown
}

// canonicalURL trims whitespace, trailing punctuation picked up by the
// matcher, and a trailing slash.
func canonicalURL(rawURL string) string {
	u := strings.TrimSpace(rawURL)
	u = strings.TrimRight(u, ".,;:")
	return strings.TrimRight(u, "/")
}
