// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SectionCount is the number of sections in the MRD template.
// Per prd010-scoring R1.1.
const SectionCount = 12

// SectionDef names one section of the MRD template.
type SectionDef struct {
	// Number is the section's position in the template, 1-12.
	Number int `json:"number" yaml:"number"`

	// Title is the canonical section heading.
	Title string `json:"title" yaml:"title"`
}

// DefaultSections returns the canonical MRD section template in order.
// The scorer, the drafting helpers, and the generation prompt all rely on
// this table; heading alternates live with the scoring rubric.
func DefaultSections() []SectionDef {
	return []SectionDef{
		{Number: 1, Title: "Executive Summary"},
		{Number: 2, Title: "Product Overview"},
		{Number: 3, Title: "Target Market"},
		{Number: 4, Title: "Competitive Landscape"},
		{Number: 5, Title: "Product Requirements"},
		{Number: 6, Title: "Technical Specifications"},
		{Number: 7, Title: "Sourcing & Manufacturing"},
		{Number: 8, Title: "Pricing & Margins"},
		{Number: 9, Title: "Compliance & Certifications"},
		{Number: 10, Title: "Logistics & Packaging"},
		{Number: 11, Title: "Risks & Mitigations"},
		{Number: 12, Title: "Launch Plan"},
	}
}

// SourceRef identifies one research source backing an MRD.
// Per prd008-research R2.1-R2.3.
type SourceRef struct {
	// Title is the source's headline or page title.
	Title string `json:"title" yaml:"title"`

	// URL is the source link.
	URL string `json:"url" yaml:"url"`

	// Provider names the collector that found the source (e.g. "feeds", "news").
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`

	// Published is the source's publication time. Zero when the feed
	// omitted it.
	Published time.Time `json:"published,omitempty" yaml:"published,omitempty"`
}
