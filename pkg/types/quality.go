package types

// QualityDimensions holds the five rubric dimension scores, each 0-100.
// Per prd010-scoring R2.1-R2.5.
type QualityDimensions struct {
	// Completeness reflects how many template sections are present.
	Completeness int `json:"completeness" yaml:"completeness"`

	// Specificity rewards measurable detail and penalizes filler phrases.
	Specificity int `json:"specificity" yaml:"specificity"`

	// Structure reflects markdown organization: headings, bullets, spacing.
	Structure int `json:"structure" yaml:"structure"`

	// Research reflects cited sources and in-text links.
	Research int `json:"research" yaml:"research"`

	// Technical reflects manufacturing and standards vocabulary, minus
	// unresolved placeholders.
	Technical int `json:"technical" yaml:"technical"`
}

// SectionCheck records the scorer's verdict for one template section.
// Per prd010-scoring R1.2-R1.3.
type SectionCheck struct {
	// Number is the template section number, 1-12.
	Number int `json:"number" yaml:"number"`

	// Title is the canonical section heading.
	Title string `json:"title" yaml:"title"`

	// Present reports whether the section's heading was found.
	Present bool `json:"present" yaml:"present"`

	// Score is the per-section quality score, 0-100. Absent sections score 0.
	Score int `json:"score" yaml:"score"`
}

// QualityReport is the scorer's full assessment of one MRD document.
// Per prd010-scoring R3.1-R3.5.
type QualityReport struct {
	// OverallScore is the weighted combination of the dimension scores, 0-100.
	OverallScore int `json:"overall_score" yaml:"overall_score"`

	// Passed is true when OverallScore meets the pass threshold and no
	// critical issues were found.
	Passed bool `json:"passed" yaml:"passed"`

	// Dimensions holds the five dimension scores.
	Dimensions QualityDimensions `json:"dimensions" yaml:"dimensions"`

	// Sections holds one check per template section, in template order.
	Sections []SectionCheck `json:"sections" yaml:"sections"`

	// CriticalIssues lists problems that fail the document regardless of
	// its overall score.
	CriticalIssues []string `json:"critical_issues" yaml:"critical_issues"`

	// Suggestions lists actionable improvements.
	Suggestions []string `json:"suggestions" yaml:"suggestions"`

	// Strengths lists what the document already does well.
	Strengths []string `json:"strengths" yaml:"strengths"`
}
