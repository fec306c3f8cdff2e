// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gaps finds what the operator has not yet specified for a brief
// field, using keyword rule tables over bullets and recognized entities.
// Implements: prd012-gap-analysis (R1-R4);
//
//	docs/ARCHITECTURE § Gap Analysis.
package gaps

import (
	"fmt"
	"strings"

	"github.com/pdiddy/mrd-engine/pkg/types"
)

// Detector runs the gap rubric over operator input. Detection is pure and
// deterministic: the same field, bullets, and entities always produce the
// same report.
type Detector struct {
	rules RuleSet
}

// NewDetector returns a Detector bound to the given rule set.
func NewDetector(rules RuleSet) *Detector {
	return &Detector{rules: rules}
}

// ValidateInput collects every problem with a detection request before any
// processing. An empty result means detection can proceed (R1.2).
func ValidateInput(field types.FieldType, bullets []string, entities []types.Entity) []string {
	var errs []string
	if _, err := types.ParseFieldType(string(field)); err != nil {
		errs = append(errs, err.Error())
	}
	for i, b := range bullets {
		if strings.TrimSpace(b) == "" {
			errs = append(errs, fmt.Sprintf("bullet %d is blank", i))
		}
	}
	for i, e := range entities {
		if strings.TrimSpace(e.Type) == "" {
			errs = append(errs, fmt.Sprintf("entity %d: empty type", i))
		}
		if e.Confidence < 0 || e.Confidence > 1 {
			errs = append(errs, fmt.Sprintf("entity %d: confidence %.2f outside [0,1]", i, e.Confidence))
		}
	}
	return errs
}

// Detect reports the information gaps for one brief field. Product-type
// rules fire first when a trigger keyword appears in the bullets or entity
// values; the field's generic rules always follow. A rule is satisfied when
// any of its keywords appears in any bullet or entity type (R2.1-R2.2).
func (d *Detector) Detect(field types.FieldType, bullets []string, entities []types.Entity) (*types.GapReport, error) {
	if errs := ValidateInput(field, bullets, entities); len(errs) > 0 {
		return nil, fmt.Errorf("invalid gap input: %s", strings.Join(errs, "; "))
	}

	satisfiers := lowered(bullets)
	for _, e := range entities {
		satisfiers = append(satisfiers, strings.ToLower(e.Type))
	}
	triggerText := lowered(bullets)
	for _, e := range entities {
		triggerText = append(triggerText, strings.ToLower(e.Value))
	}

	var found []types.Gap
	for _, pr := range d.rules.Product {
		if !anyContains(triggerText, pr.Triggers) {
			continue
		}
		for _, rule := range pr.Rules {
			if !anyContains(satisfiers, rule.Keywords) {
				found = append(found, newGap(pr.ProductType, rule))
			}
		}
	}
	for _, rule := range d.rules.Field[field] {
		if !anyContains(satisfiers, rule.Keywords) {
			found = append(found, newGap(string(field), rule))
		}
	}

	return &types.GapReport{
		Field:        field,
		Gaps:         found,
		Completeness: completeness(len(bullets), len(entities), countHighPriority(found)),
	}, nil
}

// DetectAll runs detection over every brief field, deriving bullets from the
// operator's answers. Free-text fields contribute their non-blank lines;
// list fields contribute their entries (R1.4).
func (d *Detector) DetectAll(brief types.Brief) ([]types.GapReport, error) {
	inputs := map[types.FieldType][]string{
		types.FieldProductDescription: textBullets(brief.ProductDescription),
		types.FieldTargetMarket:       textBullets(brief.TargetMarket),
		types.FieldFeatures:           cleanBullets(brief.Features),
		types.FieldMOQ:                textBullets(brief.MOQ),
		types.FieldTargetPrice:        textBullets(brief.TargetPrice),
		types.FieldCompetitors:        cleanBullets(brief.Competitors),
	}

	reports := make([]types.GapReport, 0, len(inputs))
	for _, field := range types.AllFieldTypes() {
		report, err := d.Detect(field, inputs[field], nil)
		if err != nil {
			return nil, fmt.Errorf("analyzing %s: %w", field, err)
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

// newGap materializes one unsatisfied rule as a gap (R3.1).
func newGap(scope string, rule Rule) types.Gap {
	return types.Gap{
		ID:                scope + "-" + rule.Category,
		Category:          rule.Category,
		Description:       rule.Description,
		Priority:          rule.Priority,
		SuggestedQuestion: rule.SuggestedQuestion,
		ExampleAnswer:     rule.ExampleAnswer,
	}
}

// completeness blends input volume with high-priority gap pressure: 40%
// bullet coverage (full at 3), 30% entity coverage (full at 2), and a 30%
// allowance reduced by 15 points per high-priority gap, clamped to [0,1]
// (R4.1).
func completeness(bullets, entities, highGaps int) float64 {
	bulletRatio := float64(min(bullets, 3)) / 3
	entityRatio := float64(min(entities, 2)) / 2
	penalty := 0.15 * float64(highGaps)
	if penalty > 0.3 {
		penalty = 0.3
	}

	score := 0.4*bulletRatio + 0.3*entityRatio + (0.3 - penalty)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// countHighPriority counts the high-priority gaps in a detection result.
func countHighPriority(found []types.Gap) int {
	n := 0
	for _, g := range found {
		if g.Priority == types.PriorityHigh {
			n++
		}
	}
	return n
}

// anyContains reports whether any keyword is a substring of any item. Items
// must already be lowercased; rule keywords are stored lowercase.
func anyContains(items, keywords []string) bool {
	for _, item := range items {
		for _, kw := range keywords {
			if strings.Contains(item, kw) {
				return true
			}
		}
	}
	return false
}

// lowered returns a lowercased copy of items.
func lowered(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strings.ToLower(s)
	}
	return out
}

// textBullets splits free text into trimmed, non-blank lines.
func textBullets(text string) []string {
	return cleanBullets(strings.Split(text, "\n"))
}

// cleanBullets trims entries and drops blank ones.
func cleanBullets(items []string) []string {
	var out []string
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
