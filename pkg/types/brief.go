// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Brief is the operator-supplied product form that seeds an MRD run.
// Loaded from brief.yaml. Per prd009-generation R1.1-R1.3.
type Brief struct {
	// ProductName is the working name for the product (e.g. "TrailLite Camp Stove").
	ProductName string `json:"product_name" yaml:"product_name"`

	// ProductDescription describes the product in the operator's words.
	ProductDescription string `json:"product_description" yaml:"product_description"`

	// TargetMarket describes who the product is for and where it sells.
	TargetMarket string `json:"target_market" yaml:"target_market"`

	// Features lists the product's planned features, one per entry.
	Features []string `json:"features" yaml:"features"`

	// MOQ captures minimum order quantity expectations (free text).
	MOQ string `json:"moq" yaml:"moq"`

	// TargetPrice captures retail price and margin expectations (free text).
	TargetPrice string `json:"target_price" yaml:"target_price"`

	// Competitors lists known competing products or brands.
	Competitors []string `json:"competitors" yaml:"competitors"`
}

// FieldType identifies one brief field for gap analysis.
// Per prd012-gap-analysis R1.1.
type FieldType string

const (
	FieldProductDescription FieldType = "product_description"
	FieldTargetMarket       FieldType = "target_market"
	FieldFeatures           FieldType = "features"
	FieldMOQ                FieldType = "moq"
	FieldTargetPrice        FieldType = "target_price"
	FieldCompetitors        FieldType = "competitors"
)

// AllFieldTypes returns every gap-analysis field in brief order.
func AllFieldTypes() []FieldType {
	return []FieldType{
		FieldProductDescription,
		FieldTargetMarket,
		FieldFeatures,
		FieldMOQ,
		FieldTargetPrice,
		FieldCompetitors,
	}
}

// ParseFieldType validates a field type string from CLI or config input.
func ParseFieldType(s string) (FieldType, error) {
	ft := FieldType(s)
	for _, known := range AllFieldTypes() {
		if ft == known {
			return ft, nil
		}
	}
	return "", fmt.Errorf("unknown field type %q", s)
}

// Entity is a typed value recognized in operator input, with extraction
// certainty. Per prd012-gap-analysis R2.1-R2.2.
type Entity struct {
	// Type is the entity category (e.g. "quantity", "material", "price").
	Type string `json:"type" yaml:"type"`

	// Value is the literal text of the entity.
	Value string `json:"value" yaml:"value"`

	// Confidence is a float between 0.0 and 1.0 indicating recognition certainty.
	Confidence float64 `json:"confidence" yaml:"confidence"`
}
