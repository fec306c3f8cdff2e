// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Candidate is one generated MRD draft competing in an ensemble merge.
// Per prd009-generation R2.1-R2.4, prd011-ensemble R1.1.
type Candidate struct {
	// ID is a stable identifier, unique within a merge call (e.g. "c01-claude").
	ID string `json:"id" yaml:"id"`

	// Source names the backend that produced the candidate.
	Source string `json:"source" yaml:"source"`

	// Sections maps section number (1-12) to the section's markdown body.
	Sections map[int]string `json:"sections" yaml:"sections"`

	// Confidence maps section number to the backend's certainty for that
	// section, between 0.0 and 1.0.
	Confidence map[int]float64 `json:"confidence" yaml:"confidence"`

	// OverallScore is the candidate's quality score between 0 and 100,
	// assigned by the scorer before merging. Per prd011-ensemble R2.3.
	OverallScore float64 `json:"overall_score" yaml:"overall_score"`
}

// MergeStrategy selects how the ensemble merger picks section winners.
// Per prd011-ensemble R2.1-R2.4.
type MergeStrategy string

const (
	StrategyHighestConfidence MergeStrategy = "highest_confidence"
	StrategyWeightedBlend     MergeStrategy = "weighted_blend"
	StrategyMajorityVote      MergeStrategy = "majority_vote"
)

// ParseMergeStrategy validates a strategy string from CLI or config input.
func ParseMergeStrategy(s string) (MergeStrategy, error) {
	switch ms := MergeStrategy(s); ms {
	case StrategyHighestConfidence, StrategyWeightedBlend, StrategyMajorityVote:
		return ms, nil
	}
	return "", fmt.Errorf("unknown merge strategy %q", s)
}

// MergeOptions tunes an ensemble merge. Per prd011-ensemble R3.1-R3.4.
type MergeOptions struct {
	// Strategy selects the section-winner rule.
	Strategy MergeStrategy `json:"strategy" yaml:"strategy"`

	// MinConfidence filters contenders below this per-section confidence
	// (default 0). When the filter would leave a section with no contenders,
	// all contenders stay eligible.
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"`

	// QualityWeight balances candidate quality against section confidence
	// for the weighted_blend strategy (default 0.3).
	QualityWeight float64 `json:"quality_weight" yaml:"quality_weight"`

	// EnableTieBreaking resolves exact ties by lexicographically smallest
	// candidate ID. When false, the earliest candidate in input order wins.
	EnableTieBreaking bool `json:"enable_tie_breaking" yaml:"enable_tie_breaking"`
}

// MergeResult is the merged document produced by the ensemble merger.
// Per prd011-ensemble R4.1-R4.3.
type MergeResult struct {
	// Sections maps section number to the winning section body.
	Sections map[int]string `json:"sections" yaml:"sections"`

	// Confidence maps section number to the merge's certainty for the
	// chosen body, between 0.0 and 1.0.
	Confidence map[int]float64 `json:"confidence" yaml:"confidence"`

	// Sources maps section number to the ID of the candidate that won it.
	Sources map[int]string `json:"sources" yaml:"sources"`

	// Strategy records the strategy that produced the result.
	Strategy MergeStrategy `json:"strategy" yaml:"strategy"`

	// OverallConfidence is the mean of the per-section confidences, or 0
	// when the result has no sections.
	OverallConfidence float64 `json:"overall_confidence" yaml:"overall_confidence"`
}
