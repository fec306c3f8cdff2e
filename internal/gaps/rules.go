// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gaps

import "github.com/pdiddy/mrd-engine/pkg/types"

// Rule describes one piece of information a brief field should carry. The
// rule is satisfied when any keyword appears, case-insensitively, in any
// entity type or bullet for the field.
type Rule struct {
	Category          string
	Priority          types.GapPriority
	Keywords          []string
	Description       string
	SuggestedQuestion string
	ExampleAnswer     string
}

// ProductRule is a bundle of rules consulted only when one of its trigger
// keywords appears in the operator's text for the field.
type ProductRule struct {
	ProductType string
	Triggers    []string
	Rules       []Rule
}

// RuleSet is the full gap-detection rubric: product-type rules checked
// first, then the generic rules for the named field.
type RuleSet struct {
	Product []ProductRule
	Field   map[types.FieldType][]Rule
}

// DefaultRules returns the standard sourcing rubric. Keywords are stored
// lowercase; matching lowercases the input.
func DefaultRules() RuleSet {
	return RuleSet{
		Product: []ProductRule{
			{
				ProductType: "electronics",
				Triggers:    []string{"electronic", "battery", "charger", "bluetooth", "wireless", "usb", "led"},
				Rules: []Rule{
					{
						Category:          "battery_specs",
						Priority:          types.PriorityHigh,
						Keywords:          []string{"battery", "mah", "charge"},
						Description:       "battery capacity and charging expectations are not specified",
						SuggestedQuestion: "What battery capacity and charge time does the product need?",
						ExampleAnswer:     "2500 mAh, full charge in under 3 hours over USB-C",
					},
					{
						Category:          "certifications",
						Priority:          types.PriorityHigh,
						Keywords:          []string{"fcc", "ce", "ul", "certification"},
						Description:       "electronics certifications for the launch markets are not specified",
						SuggestedQuestion: "Which electronics certifications do your launch markets require?",
						ExampleAnswer:     "FCC for the US, CE for the EU",
					},
					{
						Category:          "warranty",
						Priority:          types.PriorityMedium,
						Keywords:          []string{"warranty", "guarantee"},
						Description:       "warranty terms are not specified",
						SuggestedQuestion: "What warranty term will you offer?",
						ExampleAnswer:     "12 month replacement warranty",
					},
				},
			},
			{
				ProductType: "apparel",
				Triggers:    []string{"apparel", "clothing", "shirt", "jacket", "garment", "wear"},
				Rules: []Rule{
					{
						Category:          "size_range",
						Priority:          types.PriorityHigh,
						Keywords:          []string{"size", "sizing", "xs", "xxl"},
						Description:       "the size range for the line is not specified",
						SuggestedQuestion: "What size range should the line cover?",
						ExampleAnswer:     "XS through XXL, standard US sizing",
					},
					{
						Category:          "fabric_composition",
						Priority:          types.PriorityHigh,
						Keywords:          []string{"fabric", "cotton", "polyester", "composition"},
						Description:       "fabric composition is not specified",
						SuggestedQuestion: "What fabric composition do you want?",
						ExampleAnswer:     "60 percent cotton, 40 percent recycled polyester",
					},
					{
						Category:          "care_instructions",
						Priority:          types.PriorityLow,
						Keywords:          []string{"care", "wash", "machine"},
						Description:       "care requirements are not specified",
						SuggestedQuestion: "Any care requirements, like machine washable or dry clean only?",
						ExampleAnswer:     "Machine washable cold, tumble dry low",
					},
				},
			},
			{
				ProductType: "home_goods",
				Triggers:    []string{"furniture", "kitchen", "home", "decor", "cookware"},
				Rules: []Rule{
					{
						Category:          "dimensions",
						Priority:          types.PriorityHigh,
						Keywords:          []string{"dimension", "width", "height", "depth"},
						Description:       "assembled dimensions are not specified",
						SuggestedQuestion: "What are the assembled dimensions?",
						ExampleAnswer:     "120 cm wide, 75 cm tall, 60 cm deep",
					},
					{
						Category:          "assembly",
						Priority:          types.PriorityMedium,
						Keywords:          []string{"assembly", "assemble", "flat-pack"},
						Description:       "whether the product ships assembled or flat-pack is not specified",
						SuggestedQuestion: "Does the product ship assembled or flat-pack?",
						ExampleAnswer:     "Flat-pack, assembles in 15 minutes with the included tool",
					},
					{
						Category:          "food_safety",
						Priority:          types.PriorityMedium,
						Keywords:          []string{"food safe", "bpa", "fda"},
						Description:       "food-safety requirements are not specified",
						SuggestedQuestion: "Are food-safety requirements in scope for materials or coatings?",
						ExampleAnswer:     "BPA-free interior, food safe coating",
					},
				},
			},
			{
				ProductType: "toys",
				Triggers:    []string{"toy", "game", "kids", "children"},
				Rules: []Rule{
					{
						Category:          "age_grading",
						Priority:          types.PriorityHigh,
						Keywords:          []string{"age", "years"},
						Description:       "the age range the product is graded for is not specified",
						SuggestedQuestion: "What age range is the product graded for?",
						ExampleAnswer:     "Ages 6 years and up",
					},
					{
						Category:          "safety_testing",
						Priority:          types.PriorityHigh,
						Keywords:          []string{"astm", "en71", "cpsia", "safety"},
						Description:       "toy safety standards for the launch markets are not specified",
						SuggestedQuestion: "Which toy safety standards must the product pass?",
						ExampleAnswer:     "ASTM F963 and CPSIA for the US",
					},
				},
			},
			{
				ProductType: "fitness",
				Triggers:    []string{"fitness", "yoga", "gym", "exercise", "workout"},
				Rules: []Rule{
					{
						Category:          "weight_capacity",
						Priority:          types.PriorityHigh,
						Keywords:          []string{"weight", "capacity", "load"},
						Description:       "weight capacity or load rating is not specified",
						SuggestedQuestion: "What weight capacity or load rating is required?",
						ExampleAnswer:     "Rated to 150 kg",
					},
					{
						Category:          "material_grade",
						Priority:          types.PriorityMedium,
						Keywords:          []string{"material", "grade", "density"},
						Description:       "material grade or density is not specified",
						SuggestedQuestion: "What material grade or density do you need?",
						ExampleAnswer:     "High-density TPE, 6 mm thick",
					},
				},
			},
		},
		Field: map[types.FieldType][]Rule{
			types.FieldProductDescription: {
				{
					Category:          "dimensions",
					Priority:          types.PriorityHigh,
					Keywords:          []string{"dimension", "size", "measurement"},
					Description:       "physical dimensions are not specified",
					SuggestedQuestion: "What are the product's dimensions and weight?",
					ExampleAnswer:     "30 cm x 20 cm x 10 cm, 450 g",
				},
				{
					Category:          "materials",
					Priority:          types.PriorityHigh,
					Keywords:          []string{"material", "fabric", "plastic", "metal", "wood"},
					Description:       "materials are not specified",
					SuggestedQuestion: "What materials should the product be made of?",
					ExampleAnswer:     "Food-grade silicone body with a bamboo lid",
				},
				{
					Category:          "use_case",
					Priority:          types.PriorityMedium,
					Keywords:          []string{"use case", "purpose", "intended"},
					Description:       "the primary use case is not specified",
					SuggestedQuestion: "What is the primary use case or setting?",
					ExampleAnswer:     "Daily commute coffee, fits car cup holders",
				},
			},
			types.FieldTargetMarket: {
				{
					Category:          "demographics",
					Priority:          types.PriorityHigh,
					Keywords:          []string{"demographic", "age", "gender"},
					Description:       "target customer demographics are not specified",
					SuggestedQuestion: "Who is the target customer, by age range and lifestyle?",
					ExampleAnswer:     "Urban professionals, 25 to 40, commute daily",
				},
				{
					Category:          "channel",
					Priority:          types.PriorityMedium,
					Keywords:          []string{"channel", "retail", "online", "marketplace"},
					Description:       "sales channels are not specified",
					SuggestedQuestion: "Which sales channels matter most at launch?",
					ExampleAnswer:     "Marketplace first, then specialty retail",
				},
				{
					Category:          "region",
					Priority:          types.PriorityMedium,
					Keywords:          []string{"region", "country", "geography"},
					Description:       "launch regions are not specified",
					SuggestedQuestion: "Which regions or countries are in scope at launch?",
					ExampleAnswer:     "US and Canada first, EU in year two",
				},
			},
			types.FieldFeatures: {
				{
					Category:          "core_features",
					Priority:          types.PriorityHigh,
					Keywords:          []string{"feature", "function", "capability"},
					Description:       "core features are not specified",
					SuggestedQuestion: "What are the three features the product must have?",
					ExampleAnswer:     "Leak-proof lid, 90 minute heat retention, dishwasher safe",
				},
				{
					Category:          "differentiation",
					Priority:          types.PriorityMedium,
					Keywords:          []string{"differentiat", "unique", "advantage"},
					Description:       "differentiation from existing options is not specified",
					SuggestedQuestion: "What differentiates this product from what is already on the shelf?",
					ExampleAnswer:     "Only option whose lid fully disassembles for cleaning",
				},
			},
			types.FieldMOQ: {
				{
					Category:          "quantity",
					Priority:          types.PriorityHigh,
					Keywords:          []string{"quantity", "units", "moq"},
					Description:       "minimum order quantity is not specified",
					SuggestedQuestion: "What minimum order quantity can you commit to?",
					ExampleAnswer:     "1,000 units for the first production run",
				},
				{
					Category:          "volume_tiers",
					Priority:          types.PriorityMedium,
					Keywords:          []string{"tier", "volume discount", "price break"},
					Description:       "volume tiers or price breaks are not specified",
					SuggestedQuestion: "What volume tiers or price breaks do you expect to negotiate?",
					ExampleAnswer:     "Quotes at 1k, 5k, and 10k units",
				},
			},
			types.FieldTargetPrice: {
				{
					Category:          "price_point",
					Priority:          types.PriorityHigh,
					Keywords:          []string{"price", "cost", "$"},
					Description:       "the target retail price is not specified",
					SuggestedQuestion: "What retail price are you targeting?",
					ExampleAnswer:     "$29.99 retail",
				},
				{
					Category:          "margin",
					Priority:          types.PriorityHigh,
					Keywords:          []string{"margin", "markup", "profit"},
					Description:       "margin expectations are not specified",
					SuggestedQuestion: "What gross margin do you need to make the program work?",
					ExampleAnswer:     "At least 40 percent after landed cost",
				},
				{
					Category:          "landed_cost",
					Priority:          types.PriorityLow,
					Keywords:          []string{"landed", "freight", "duty"},
					Description:       "landed cost assumptions are not specified",
					SuggestedQuestion: "Do you have a landed cost target including freight and duty?",
					ExampleAnswer:     "Under $8.50 per unit landed",
				},
			},
			types.FieldCompetitors: {
				{
					Category:          "named_competitors",
					Priority:          types.PriorityHigh,
					Keywords:          []string{"competitor", "brand", "rival"},
					Description:       "no specific competitors are named",
					SuggestedQuestion: "Which competitor products should we benchmark against?",
					ExampleAnswer:     "The two category leaders on the main marketplace listing",
				},
				{
					Category:          "price_comparison",
					Priority:          types.PriorityMedium,
					Keywords:          []string{"price", "cheaper", "premium"},
					Description:       "positioning against competitor pricing is not specified",
					SuggestedQuestion: "How should pricing compare to those competitors?",
					ExampleAnswer:     "10 percent under the category leader",
				},
				{
					Category:          "differentiation",
					Priority:          types.PriorityMedium,
					Keywords:          []string{"differentiat", "unique", "advantage"},
					Description:       "differentiation from competitors is not specified",
					SuggestedQuestion: "What will make a shopper pick this product over the incumbents?",
					ExampleAnswer:     "Longer warranty and a replaceable gasket",
				},
			},
		},
	}
}
