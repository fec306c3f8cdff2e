package gaps

import (
	"math"
	"strings"
	"testing"

	"github.com/pdiddy/mrd-engine/pkg/types"
)

func testDetector() *Detector {
	return NewDetector(DefaultRules())
}

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func gapIDs(report *types.GapReport) []string {
	ids := make([]string, 0, len(report.Gaps))
	for _, g := range report.Gaps {
		ids = append(ids, g.ID)
	}
	return ids
}

func hasGap(report *types.GapReport, id string) bool {
	for _, g := range report.Gaps {
		if g.ID == id {
			return true
		}
	}
	return false
}

// --- field rules ---

func TestDetectMOQVolumeTiers(t *testing.T) {
	report, err := testDetector().Detect(types.FieldMOQ,
		[]string{"Minimum order quantity: 500 units"}, nil)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if len(report.Gaps) != 1 {
		t.Fatalf("got %d gaps %v, want 1", len(report.Gaps), gapIDs(report))
	}
	gap := report.Gaps[0]
	if gap.ID != "moq-volume_tiers" {
		t.Errorf("ID = %q, want moq-volume_tiers", gap.ID)
	}
	if gap.Category != "volume_tiers" {
		t.Errorf("Category = %q, want volume_tiers", gap.Category)
	}
	if gap.Priority != types.PriorityMedium {
		t.Errorf("Priority = %q, want medium", gap.Priority)
	}
	if gap.SuggestedQuestion == "" {
		t.Error("SuggestedQuestion is empty")
	}
}

func TestDetectEmptyInputScoresZero(t *testing.T) {
	report, err := testDetector().Detect(types.FieldProductDescription, nil, nil)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	want := []string{
		"product_description-dimensions",
		"product_description-materials",
		"product_description-use_case",
	}
	got := gapIDs(report)
	if len(got) != len(want) {
		t.Fatalf("gaps = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("gap %d = %q, want %q", i, got[i], want[i])
		}
	}
	if report.Completeness != 0 {
		t.Errorf("Completeness = %v, want exactly 0", report.Completeness)
	}
}

func TestDetectFullySpecifiedScoresOne(t *testing.T) {
	bullets := []string{
		"Size: 30 cm by 20 cm folded",
		"Material: stainless steel with a silicone seal",
		"Purpose: daily coffee on the go",
	}
	entities := []types.Entity{
		{Type: "color", Value: "matte black", Confidence: 0.9},
		{Type: "weight", Value: "450 grams", Confidence: 0.9},
	}

	report, err := testDetector().Detect(types.FieldProductDescription, bullets, entities)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if len(report.Gaps) != 0 {
		t.Fatalf("gaps = %v, want none", gapIDs(report))
	}
	if report.Completeness != 1.0 {
		t.Errorf("Completeness = %v, want exactly 1.0", report.Completeness)
	}
}

// --- product-type rules ---

func TestDetectProductRulesFireOnTrigger(t *testing.T) {
	report, err := testDetector().Detect(types.FieldProductDescription,
		[]string{"Wireless speaker with bluetooth pairing"}, nil)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	// Product gaps come first in table order, then the field's generic gaps.
	want := []string{
		"electronics-battery_specs",
		"electronics-certifications",
		"electronics-warranty",
		"product_description-dimensions",
		"product_description-materials",
		"product_description-use_case",
	}
	got := gapIDs(report)
	if len(got) != len(want) {
		t.Fatalf("gaps = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("gap %d = %q, want %q", i, got[i], want[i])
		}
	}

	// One bullet, no entities, high-priority penalty capped.
	if !almost(report.Completeness, 0.4*(1.0/3.0)) {
		t.Errorf("Completeness = %v, want %v", report.Completeness, 0.4*(1.0/3.0))
	}
}

func TestDetectEntityTypeSatisfiesRule(t *testing.T) {
	report, err := testDetector().Detect(types.FieldProductDescription,
		[]string{"Wireless speaker with bluetooth pairing"},
		[]types.Entity{{Type: "battery", Value: "2500 mAh", Confidence: 0.9}})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if hasGap(report, "electronics-battery_specs") {
		t.Errorf("battery_specs still open despite battery entity: %v", gapIDs(report))
	}
	if !hasGap(report, "electronics-certifications") {
		t.Errorf("certifications gap missing: %v", gapIDs(report))
	}
}

func TestDetectEntityValueTriggersProductRules(t *testing.T) {
	// The trigger may come from an entity value, but rule satisfaction only
	// reads entity types and bullets.
	report, err := testDetector().Detect(types.FieldProductDescription,
		[]string{"Portable pocket speaker"},
		[]types.Entity{{Type: "connectivity", Value: "Bluetooth 5.3 with fast pairing", Confidence: 0.9}})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if !hasGap(report, "electronics-battery_specs") {
		t.Errorf("electronics rules did not fire from an entity value: %v", gapIDs(report))
	}
}

func TestDetectEntityValueDoesNotSatisfyRule(t *testing.T) {
	report, err := testDetector().Detect(types.FieldProductDescription,
		[]string{"Compact speaker"},
		[]types.Entity{{Type: "note", Value: "dimension and size specs pending", Confidence: 0.9}})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if !hasGap(report, "product_description-dimensions") {
		t.Errorf("dimensions gap missing; entity values must not satisfy rules: %v", gapIDs(report))
	}
}

// --- completeness ---

func TestCompleteness(t *testing.T) {
	tests := []struct {
		name     string
		bullets  int
		entities int
		highGaps int
		want     float64
		exact    bool
	}{
		{"empty with two high gaps", 0, 0, 2, 0, true},
		{"full credit", 3, 2, 0, 1.0, true},
		{"full inputs penalty capped", 3, 2, 4, 0.7, true},
		{"one high gap", 0, 0, 1, 0.15, true},
		{"counts cap", 5, 9, 0, 1.0, true},
		{"partial", 1, 1, 0, 0.4*(1.0/3.0) + 0.15 + 0.3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := completeness(tt.bullets, tt.entities, tt.highGaps)
			if tt.exact {
				if got != tt.want {
					t.Errorf("completeness = %v, want exactly %v", got, tt.want)
				}
			} else if !almost(got, tt.want) {
				t.Errorf("completeness = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- validation ---

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name     string
		field    types.FieldType
		bullets  []string
		entities []types.Entity
		wantErrs int
	}{
		{"valid", types.FieldMOQ, []string{"500 units"}, nil, 0},
		{"unknown field", "colorway", nil, nil, 1},
		{"blank bullet", types.FieldMOQ, []string{"   "}, nil, 1},
		{
			"entity empty type",
			types.FieldMOQ, nil,
			[]types.Entity{{Value: "x", Confidence: 0.5}},
			1,
		},
		{
			"entity confidence out of range",
			types.FieldMOQ, nil,
			[]types.Entity{{Type: "quantity", Value: "x", Confidence: 1.5}},
			1,
		},
		{
			"problems accumulate",
			types.FieldMOQ, nil,
			[]types.Entity{{Confidence: -0.5}},
			2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateInput(tt.field, tt.bullets, tt.entities)
			if len(errs) != tt.wantErrs {
				t.Errorf("got %d validation errors %v, want %d", len(errs), errs, tt.wantErrs)
			}
		})
	}
}

func TestDetectRejectsInvalidInput(t *testing.T) {
	report, err := testDetector().Detect("colorway", nil, nil)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if report != nil {
		t.Errorf("report = %+v, want nil on validation failure", report)
	}
	if !strings.Contains(err.Error(), "invalid gap input") {
		t.Errorf("error = %q, want it to mention invalid gap input", err)
	}
	if !strings.Contains(err.Error(), `unknown field type "colorway"`) {
		t.Errorf("error = %q, want it to carry the field detail", err)
	}
}

// --- whole brief ---

func TestDetectAll(t *testing.T) {
	brief := types.Brief{
		ProductName:        "Trail Mug",
		ProductDescription: "Stainless travel mug\nBrushed metal finish",
		Features:           []string{"Leak-proof lid", "  "},
		TargetPrice:        "Retail price around $30",
	}

	reports, err := testDetector().DetectAll(brief)
	if err != nil {
		t.Fatalf("DetectAll: %v", err)
	}

	fields := types.AllFieldTypes()
	if len(reports) != len(fields) {
		t.Fatalf("got %d reports, want %d", len(reports), len(fields))
	}
	for i, field := range fields {
		if reports[i].Field != field {
			t.Errorf("report %d field = %q, want %q", i, reports[i].Field, field)
		}
	}

	// Description names a material, so only dimensions and use_case stay open.
	desc := &reports[0]
	if hasGap(desc, "product_description-materials") {
		t.Errorf("materials gap still open: %v", gapIDs(desc))
	}
	if !hasGap(desc, "product_description-dimensions") {
		t.Errorf("dimensions gap missing: %v", gapIDs(desc))
	}

	// Nothing was said about MOQ at all.
	moq := &reports[3]
	want := []string{"moq-quantity", "moq-volume_tiers"}
	got := gapIDs(moq)
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("moq gaps = %v, want %v", got, want)
	}
	if !almost(moq.Completeness, 0.15) {
		t.Errorf("moq completeness = %v, want 0.15", moq.Completeness)
	}

	// The price line carries a price point but no margin.
	price := &reports[4]
	if hasGap(price, "target_price-price_point") {
		t.Errorf("price_point still open: %v", gapIDs(price))
	}
	if !hasGap(price, "target_price-margin") {
		t.Errorf("margin gap missing: %v", gapIDs(price))
	}
}
