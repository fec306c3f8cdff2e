// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/mrd-engine/pkg/types"
)

// TemplateBackend renders a deterministic draft directly from the brief. It
// uses no network and never fails, which makes it the ensemble's fallback: a
// slot that loses its AI backend still yields a complete candidate (R5.1).
type TemplateBackend struct{}

// NewTemplateBackend returns the deterministic fallback backend.
func NewTemplateBackend() *TemplateBackend { return &TemplateBackend{} }

func (t *TemplateBackend) Name() string { return "template" }

// Generate renders all twelve sections from the brief (R5.2). The returned
// error is always nil; the signature satisfies Backend.
func (t *TemplateBackend) Generate(_ context.Context, req Request) (*Response, error) {
	resp := &Response{Sections: make([]ResponseSection, 0, types.SectionCount)}
	for _, def := range types.DefaultSections() {
		resp.Sections = append(resp.Sections, ResponseSection{
			Number:     def.Number,
			Title:      def.Title,
			Content:    templateSection(def.Number, req),
			Confidence: templateConfidence(def.Number),
		})
	}
	return resp, nil
}

// templateConfidence is fixed per section: 0.5 where the brief feeds the
// section directly, 0.35 everywhere else (R5.3).
func templateConfidence(number int) float64 {
	switch number {
	case 2, 3, 5, 8:
		return 0.5
	default:
		return 0.35
	}
}

// templateSection renders one section body. Every section is non-blank even
// for a zero-value brief, so a template draft always validates.
func templateSection(number int, req Request) string {
	brief := req.Brief
	var b strings.Builder
	switch number {
	case 1:
		fmt.Fprintf(&b, "**%s** is a candidate for development.\n\n", orNote(brief.ProductName, "Unnamed product"))
		fmt.Fprintf(&b, "- Working description: %s\n", orNote(brief.ProductDescription, "not yet provided"))
		fmt.Fprintf(&b, "- Target market: %s\n", orNote(brief.TargetMarket, "not yet provided"))
		fmt.Fprintf(&b, "- Target price: %s\n", orNote(brief.TargetPrice, "not yet provided"))
		fmt.Fprintf(&b, "- Minimum order quantity: %s\n", orNote(brief.MOQ, "not yet provided"))
	case 2:
		fmt.Fprintf(&b, "%s\n\n", orNote(brief.ProductDescription, "The brief does not describe the product yet."))
		b.WriteString("Open questions:\n\n")
		b.WriteString("- What are the product's dimensions and weight?\n")
		b.WriteString("- What materials is it made from?\n")
	case 3:
		fmt.Fprintf(&b, "%s\n\n", orNote(brief.TargetMarket, "The brief does not identify a target market yet."))
		b.WriteString("Open questions:\n\n")
		b.WriteString("- Which demographics does the product serve?\n")
		b.WriteString("- Which sales channels will carry it?\n")
	case 4:
		if len(brief.Competitors) == 0 {
			b.WriteString("No competitors are named in the brief.\n")
		} else {
			b.WriteString("Named competitors:\n\n")
			for _, comp := range brief.Competitors {
				fmt.Fprintf(&b, "- %s\n", comp)
			}
		}
		if len(req.Sources) > 0 {
			b.WriteString("\nResearch sources reviewed:\n\n")
			for _, src := range req.Sources {
				fmt.Fprintf(&b, "- %s (%s)\n", src.Title, src.URL)
			}
		}
	case 5:
		if len(brief.Features) == 0 {
			b.WriteString("No features are listed in the brief.\n\n")
		} else {
			b.WriteString("Features from the brief:\n\n")
			for _, feat := range brief.Features {
				fmt.Fprintf(&b, "- %s\n", feat)
			}
			b.WriteString("\n")
		}
		b.WriteString("Open question: which requirements are must-have for launch?\n")
	case 6:
		b.WriteString("To be confirmed with the factory:\n\n")
		b.WriteString("- Dimensions and weight\n")
		b.WriteString("- Materials and finish\n")
		b.WriteString("- Electrical or mechanical ratings, where applicable\n")
	case 7:
		fmt.Fprintf(&b, "- Minimum order quantity: %s\n", orNote(brief.MOQ, "not yet provided"))
		b.WriteString("- Open question: which sourcing region and incoterms apply to the first order?\n")
		b.WriteString("- Open question: what is the factory lead time from deposit to ex-works?\n")
	case 8:
		fmt.Fprintf(&b, "- Target price: %s\n", orNote(brief.TargetPrice, "not yet provided"))
		b.WriteString("- Open question: what landed cost keeps the margin acceptable at the target price?\n")
	case 9:
		b.WriteString("Certifications have not been scoped yet.\n\n")
		b.WriteString("- Open question: which certifications does the product category require?\n")
		b.WriteString("- Open question: which markets' labeling rules apply?\n")
	case 10:
		b.WriteString("- Open question: what carton dimensions and weights result from the order quantity?\n")
		b.WriteString("- Open question: does the product ship boxed or polybagged?\n")
	case 11:
		b.WriteString("- Risk: the brief leaves key specifications open. Mitigation: close the open questions in this draft before requesting supplier quotes.\n")
		if len(req.Sources) == 0 {
			b.WriteString("- Risk: no research sources were reviewed. Mitigation: collect category research before committing to pricing.\n")
		} else {
			b.WriteString("- Risk: research coverage is limited to the sources listed above. Mitigation: widen the search before committing to pricing.\n")
		}
	case 12:
		b.WriteString("- Phase 1: validate the brief and close the open questions\n")
		b.WriteString("- Phase 2: sample the product and test it with the target market\n")
		b.WriteString("- Phase 3: place the first production run at the minimum order quantity\n")
	}
	return b.String()
}

// orNote returns s trimmed, or the note when s is blank.
func orNote(s, note string) string {
	if strings.TrimSpace(s) == "" {
		return note
	}
	return strings.TrimSpace(s)
}
