// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"regexp"
	"strings"

	"github.com/pdiddy/mrd-engine/pkg/types"
)

// SectionRule pairs one template section with the heading pattern that
// detects it. Patterns accept #-levels 1-3, optional "N." numbering, and a
// small set of alternate titles. Per prd010-scoring R1.2.
type SectionRule struct {
	types.SectionDef

	// Pattern matches the section's heading line, case-insensitively.
	Pattern *regexp.Regexp
}

// DimensionWeights holds each dimension's contribution to the overall score.
// The weights sum to 1.0. Per prd010-scoring R3.1.
type DimensionWeights struct {
	Completeness float64
	Specificity  float64
	Structure    float64
	Research     float64
	Technical    float64
}

// Rubric is the scoring configuration: section rules, keyword tables,
// weights, and thresholds. Callers treat it as immutable; DefaultRubric
// returns a fresh copy. Per prd010-scoring R5.1.
type Rubric struct {
	// Sections lists the template sections with their heading patterns,
	// in template order.
	Sections []SectionRule

	// Weights combines the five dimensions into the overall score.
	Weights DimensionWeights

	// PassThreshold is the minimum overall score to pass (default 70).
	PassThreshold int

	// MinCompleteness is the completeness floor below which the document
	// fails regardless of overall score (default 50).
	MinCompleteness int

	// MinSpecificity is the specificity floor below which the document
	// fails regardless of overall score (default 40).
	MinSpecificity int

	// BrandTerms are recognized brand and retailer names, lowercase.
	BrandTerms []string

	// FillerPhrases are generic marketing phrases that cost specificity
	// points, lowercase.
	FillerPhrases []string

	// StandardsTokens are compliance and certification marks counted by the
	// technical dimension.
	StandardsTokens []string

	// DomainTerms are manufacturing and sourcing vocabulary counted by the
	// technical dimension, lowercase.
	DomainTerms []string

	// PlaceholderMarkers are unresolved-work markers that cost technical
	// points, lowercase.
	PlaceholderMarkers []string
}

// sectionAlternates maps section number to accepted heading fragments.
// Fragment syntax is regexp; fragments for one section are joined with "|".
var sectionAlternates = map[int][]string{
	1:  {`executive\s+summary`},
	2:  {`product\s+overview`, `product\s+description`},
	3:  {`target\s+market`, `target\s+audience`},
	4:  {`competitive\s+landscape`, `competitor\s+analysis`},
	5:  {`product\s+requirements`, `functional\s+requirements`},
	6:  {`technical\s+specifications`, `technical\s+specs`},
	7:  {`sourcing\s*(?:&|and)\s*manufacturing`, `manufacturing\s+plan`},
	8:  {`pricing\s*(?:&|and)\s*margins`, `pricing\s+strategy`},
	9:  {`compliance\s*(?:&|and)\s*certifications?`, `regulatory\s+compliance`},
	10: {`logistics\s*(?:&|and)\s*packaging`, `packaging\s*(?:&|and)\s*logistics`},
	11: {`risks?\s*(?:&|and)\s*mitigations?`, `risk\s+assessment`},
	12: {`launch\s+plan`, `go[- ]to[- ]market(?:\s+plan)?`, `timeline\s*(?:&|and)\s*milestones`},
}

// headingRule compiles the heading pattern for one set of title fragments.
func headingRule(fragments []string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^#{1,3}\s*(?:\d{1,2}[.)]\s*)?(?:` + strings.Join(fragments, "|") + `)\b`)
}

// DefaultRubric returns the standard MRD scoring rubric.
func DefaultRubric() Rubric {
	defs := types.DefaultSections()
	sections := make([]SectionRule, 0, len(defs))
	for _, def := range defs {
		sections = append(sections, SectionRule{
			SectionDef: def,
			Pattern:    headingRule(sectionAlternates[def.Number]),
		})
	}

	return Rubric{
		Sections: sections,
		Weights: DimensionWeights{
			Completeness: 0.25,
			Specificity:  0.25,
			Structure:    0.15,
			Research:     0.20,
			Technical:    0.15,
		},
		PassThreshold:   70,
		MinCompleteness: 50,
		MinSpecificity:  40,
		BrandTerms: []string{
			"amazon", "walmart", "costco", "shopify", "ebay", "etsy",
			"alibaba", "aliexpress", "temu", "wayfair", "home depot",
			"best buy", "ikea", "apple", "samsung", "sony", "dyson",
			"philips", "anker", "yeti", "stanley", "sharkninja", "bosch",
			"dewalt", "makita",
		},
		FillerPhrases: []string{
			"high quality", "best in class", "state of the art",
			"world class", "cutting edge", "innovative", "revolutionary",
			"game changing", "premium quality", "top notch",
			"industry leading",
		},
		StandardsTokens: []string{
			"ISO", "ASTM", "CE", "RoHS", "REACH", "FCC", "UL", "IEC",
			"ANSI", "CPSIA", "FDA", "EN71", "UKCA", "ETL", "CSA",
			"IP65", "IP67",
		},
		DomainTerms: []string{
			"tolerance", "injection mold", "anodized", "tooling", "aql",
			"oem", "odm", "bom", "lead time", "incoterms", "fob", "exw",
			"ddp", "hs code", "carton", "pallet", "sku",
		},
		PlaceholderMarkers: []string{
			"tbd", "todo", "fixme", "xxx", "lorem ipsum", "[placeholder]",
		},
	}
}
