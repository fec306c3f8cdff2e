// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders an assembled MRD into shareable formats.
// Implements: prd015-export (R1-R3);
//
//	docs/ARCHITECTURE § Export.
package export

import (
	"fmt"
	"strings"

	"github.com/gingfrederik/docx"

	"github.com/pdiddy/mrd-engine/pkg/types"
)

// WriteDOCX writes the MRD to path as a Word document. Sections are
// emitted in template order; absent or blank sections are skipped.
func WriteDOCX(path, title string, sections map[int]string, sources []types.SourceRef) error {
	f := docx.NewFile()

	if strings.TrimSpace(title) != "" {
		p := f.AddParagraph()
		run := p.AddText(title)
		run.Size(20)
		f.AddParagraph() // Spacer
	}

	for _, def := range types.DefaultSections() {
		body, ok := sections[def.Number]
		if !ok || strings.TrimSpace(body) == "" {
			continue
		}

		p := f.AddParagraph()
		run := p.AddText(fmt.Sprintf("%d. %s", def.Number, def.Title))
		run.Size(16)

		for _, para := range splitParagraphs(body) {
			f.AddParagraph().AddText(para)
		}
		f.AddParagraph() // Spacer
	}

	if len(sources) > 0 {
		p := f.AddParagraph()
		run := p.AddText("Sources")
		run.Size(16)

		for _, src := range sources {
			label := src.Title
			if label == "" {
				label = src.URL
			}
			line := label
			if src.URL != "" && src.URL != label {
				line = fmt.Sprintf("%s (%s)", label, src.URL)
			}
			p := f.AddParagraph()
			run := p.AddText(line)
			run.Size(10)
			run.Color("808080")
		}
	}

	return f.Save(path)
}

// splitParagraphs breaks a markdown section body into docx paragraphs.
// Blank lines separate paragraphs; each bullet item becomes its own
// paragraph; separator rules are dropped.
func splitParagraphs(body string) []string {
	var paras []string
	for _, block := range strings.Split(body, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		var plain []string
		flush := func() {
			if len(plain) > 0 {
				paras = append(paras, stripBold(strings.Join(plain, " ")))
				plain = plain[:0]
			}
		}

		for _, line := range strings.Split(block, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || trimmed == "---" {
				continue
			}
			if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
				flush()
				paras = append(paras, "• "+stripBold(trimmed[2:]))
				continue
			}
			plain = append(plain, trimmed)
		}
		flush()
	}
	return paras
}

// stripBold removes markdown emphasis markers, which plain docx runs
// cannot carry.
func stripBold(s string) string {
	return strings.ReplaceAll(s, "**", "")
}
