// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// GapPriority ranks how urgently a gap should be filled.
// Per prd012-gap-analysis R3.2.
type GapPriority string

const (
	PriorityHigh   GapPriority = "high"
	PriorityMedium GapPriority = "medium"
	PriorityLow    GapPriority = "low"
)

// Gap is one missing piece of information detected in a brief field.
// Per prd012-gap-analysis R3.1-R3.4.
type Gap struct {
	// ID is a deterministic identifier, "<scope>-<category>", where scope is
	// the field type or the triggering product type.
	ID string `json:"id" yaml:"id"`

	// Category names the kind of missing information (e.g. "volume_tiers").
	Category string `json:"category" yaml:"category"`

	// Description explains what is missing and why it matters.
	Description string `json:"description" yaml:"description"`

	// Priority ranks the gap: high, medium, or low.
	Priority GapPriority `json:"priority" yaml:"priority"`

	// SuggestedQuestion is a ready-to-ask prompt for the operator.
	SuggestedQuestion string `json:"suggested_question" yaml:"suggested_question"`

	// ExampleAnswer shows what a good answer looks like (optional).
	ExampleAnswer string `json:"example_answer,omitempty" yaml:"example_answer,omitempty"`
}

// GapReport holds the gap analysis for one brief field.
// Per prd012-gap-analysis R4.1-R4.2.
type GapReport struct {
	// Field identifies the analyzed brief field.
	Field FieldType `json:"field" yaml:"field"`

	// Gaps lists unresolved gaps, product-rule gaps first, in rule-table order.
	Gaps []Gap `json:"gaps" yaml:"gaps"`

	// Completeness estimates how fully the field is specified, 0.0-1.0.
	Completeness float64 `json:"completeness" yaml:"completeness"`
}
