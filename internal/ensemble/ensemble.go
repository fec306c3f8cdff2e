// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ensemble merges candidate MRD drafts into a single document,
// section by section.
// Implements: prd011-ensemble (R1-R4);
//
//	docs/ARCHITECTURE § Ensemble Merging.
package ensemble

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/mrd-engine/pkg/types"
)

// ValidateCandidates collects every problem with a merge request before any
// processing. An empty result means the merge can proceed (R1.2).
func ValidateCandidates(cands []types.Candidate, opts types.MergeOptions) []string {
	var errs []string
	if len(cands) == 0 {
		errs = append(errs, "no candidates to merge")
	}
	seen := make(map[string]bool, len(cands))
	for i, cand := range cands {
		if cand.ID == "" {
			errs = append(errs, fmt.Sprintf("candidate %d: empty id", i))
			continue
		}
		if seen[cand.ID] {
			errs = append(errs, fmt.Sprintf("candidate %d: duplicate id %q", i, cand.ID))
		}
		seen[cand.ID] = true
		for _, n := range sortedSections(cand.Confidence) {
			if c := cand.Confidence[n]; c < 0 || c > 1 {
				errs = append(errs, fmt.Sprintf("candidate %q: section %d confidence %.2f outside [0,1]", cand.ID, n, c))
			}
		}
		if cand.OverallScore < 0 || cand.OverallScore > 100 {
			errs = append(errs, fmt.Sprintf("candidate %q: overall score %.1f outside [0,100]", cand.ID, cand.OverallScore))
		}
	}
	if _, err := types.ParseMergeStrategy(string(opts.Strategy)); err != nil {
		errs = append(errs, err.Error())
	}
	if opts.MinConfidence < 0 || opts.MinConfidence > 1 {
		errs = append(errs, fmt.Sprintf("min confidence %.2f outside [0,1]", opts.MinConfidence))
	}
	if opts.QualityWeight < 0 || opts.QualityWeight > 1 {
		errs = append(errs, fmt.Sprintf("quality weight %.2f outside [0,1]", opts.QualityWeight))
	}
	return errs
}

// Merge combines the candidates into one document under the given options.
// Validation problems are reported together in a single error, with no
// partial result (R1.2). A single candidate passes through unchanged (R1.3).
// Merging is deterministic: the same candidates and options always produce
// an identical result.
func Merge(cands []types.Candidate, opts types.MergeOptions) (*types.MergeResult, error) {
	if errs := ValidateCandidates(cands, opts); len(errs) > 0 {
		return nil, fmt.Errorf("invalid merge input: %s", strings.Join(errs, "; "))
	}
	if len(cands) == 1 {
		return passThrough(cands[0], opts.Strategy), nil
	}

	result := &types.MergeResult{
		Sections:   make(map[int]string),
		Confidence: make(map[int]float64),
		Sources:    make(map[int]string),
		Strategy:   opts.Strategy,
	}

	pick := sectionPicker(cands, opts)
	for _, n := range sectionNumbers(cands) {
		contenders := eligibleContenders(cands, n, opts.MinConfidence)
		idx, conf := pick(contenders, n)
		result.Sections[n] = cands[idx].Sections[n]
		result.Confidence[n] = clampUnit(conf)
		result.Sources[n] = cands[idx].ID
	}
	result.OverallConfidence = meanConfidence(result.Confidence)
	return result, nil
}

// passThrough copies the sole candidate into a result without applying the
// MinConfidence filter (R1.3).
func passThrough(cand types.Candidate, strategy types.MergeStrategy) *types.MergeResult {
	result := &types.MergeResult{
		Sections:   make(map[int]string, len(cand.Sections)),
		Confidence: make(map[int]float64, len(cand.Confidence)),
		Sources:    make(map[int]string, len(cand.Sections)),
		Strategy:   strategy,
	}
	for n, body := range cand.Sections {
		result.Sections[n] = body
		result.Sources[n] = cand.ID
	}
	for n, conf := range cand.Confidence {
		result.Confidence[n] = conf
	}
	result.OverallConfidence = meanConfidence(result.Confidence)
	return result
}

// sectionPicker returns the per-section winner function for the strategy.
// Unknown strategies never reach here; validation rejects them first.
func sectionPicker(cands []types.Candidate, opts types.MergeOptions) func(contenders []int, n int) (int, float64) {
	switch opts.Strategy {
	case types.StrategyWeightedBlend:
		return func(contenders []int, n int) (int, float64) {
			return pickWeightedBlend(cands, contenders, n, opts)
		}
	case types.StrategyMajorityVote:
		return func(contenders []int, n int) (int, float64) {
			return pickMajorityVote(cands, contenders, n, opts)
		}
	default:
		return func(contenders []int, n int) (int, float64) {
			return pickHighestConfidence(cands, contenders, n, opts)
		}
	}
}

// sectionNumbers returns the sorted union of section numbers for which at
// least one candidate wrote a non-blank body (R4.1).
func sectionNumbers(cands []types.Candidate) []int {
	present := make(map[int]bool)
	for _, cand := range cands {
		for n, body := range cand.Sections {
			if strings.TrimSpace(body) != "" {
				present[n] = true
			}
		}
	}
	nums := make([]int, 0, len(present))
	for n := range present {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// eligibleContenders returns input-order indices of candidates holding a
// non-blank body for section n, filtered by minConfidence. When the filter
// would drop every contender, all contenders stay eligible so a section
// somebody wrote is never lost (R3.2).
func eligibleContenders(cands []types.Candidate, n int, minConfidence float64) []int {
	var contenders []int
	for i := range cands {
		if strings.TrimSpace(cands[i].Sections[n]) != "" {
			contenders = append(contenders, i)
		}
	}
	if minConfidence <= 0 {
		return contenders
	}
	var eligible []int
	for _, i := range contenders {
		if cands[i].Confidence[n] >= minConfidence {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		return contenders
	}
	return eligible
}

// pickHighestConfidence selects the contender with the highest section
// confidence (R2.1). Exact ties fall to breakTie.
func pickHighestConfidence(cands []types.Candidate, contenders []int, n int, opts types.MergeOptions) (int, float64) {
	best := contenders[0]
	for _, i := range contenders[1:] {
		if cands[i].Confidence[n] > cands[best].Confidence[n] {
			best = i
			continue
		}
		if cands[i].Confidence[n] == cands[best].Confidence[n] && breakTie(cands, best, i, opts) {
			best = i
		}
	}
	return best, cands[best].Confidence[n]
}

// pickWeightedBlend scores each contender by blending section confidence
// with overall candidate quality and selects the highest blend (R2.2).
func pickWeightedBlend(cands []types.Candidate, contenders []int, n int, opts types.MergeOptions) (int, float64) {
	blend := func(i int) float64 {
		return (1-opts.QualityWeight)*cands[i].Confidence[n] + opts.QualityWeight*(cands[i].OverallScore/100)
	}
	best := contenders[0]
	for _, i := range contenders[1:] {
		if blend(i) > blend(best) {
			best = i
			continue
		}
		if blend(i) == blend(best) && breakTie(cands, best, i, opts) {
			best = i
		}
	}
	return best, blend(best)
}

// voteGroup is one bucket of contenders sharing a normalized section body.
type voteGroup struct {
	members []int
	maxConf float64
	sumConf float64
	minID   string
}

// pickMajorityVote groups contenders by normalized body and picks from the
// largest group, preferring higher peak confidence and then the tie-break
// rule between equal groups. The result confidence blends the group's vote
// share with its mean confidence (R2.4).
func pickMajorityVote(cands []types.Candidate, contenders []int, n int, opts types.MergeOptions) (int, float64) {
	groups := groupVotes(cands, contenders, n)

	best := groups[0]
	for _, g := range groups[1:] {
		if betterGroup(g, best, opts) {
			best = g
		}
	}

	winner, _ := pickHighestConfidence(cands, best.members, n, opts)
	share := float64(len(best.members)) / float64(len(contenders))
	mean := best.sumConf / float64(len(best.members))
	return winner, 0.5*share + 0.5*mean
}

// groupVotes buckets contenders whose section bodies are identical after
// normalization, in first-appearance order.
func groupVotes(cands []types.Candidate, contenders []int, n int) []voteGroup {
	index := make(map[string]int)
	var groups []voteGroup
	for _, i := range contenders {
		key := normalizeBody(cands[i].Sections[n])
		gi, ok := index[key]
		if !ok {
			gi = len(groups)
			index[key] = gi
			groups = append(groups, voteGroup{minID: cands[i].ID})
		}
		g := &groups[gi]
		g.members = append(g.members, i)
		g.sumConf += cands[i].Confidence[n]
		if cands[i].Confidence[n] > g.maxConf {
			g.maxConf = cands[i].Confidence[n]
		}
		if cands[i].ID < g.minID {
			g.minID = cands[i].ID
		}
	}
	return groups
}

// betterGroup reports whether g beats best: more members, then higher peak
// confidence, then the smallest-ID rule when tie breaking is enabled.
// Without tie breaking the earlier group keeps the win.
func betterGroup(g, best voteGroup, opts types.MergeOptions) bool {
	if len(g.members) != len(best.members) {
		return len(g.members) > len(best.members)
	}
	if g.maxConf != best.maxConf {
		return g.maxConf > best.maxConf
	}
	return opts.EnableTieBreaking && g.minID < best.minID
}

// breakTie reports whether the challenger replaces the current winner on an
// exact tie: lexicographically smaller ID when tie breaking is enabled,
// otherwise the earlier candidate keeps the section (R3.4).
func breakTie(cands []types.Candidate, current, challenger int, opts types.MergeOptions) bool {
	return opts.EnableTieBreaking && cands[challenger].ID < cands[current].ID
}

// normalizeBody lowercases a section body and collapses every whitespace run
// so formatting differences do not split a vote.
func normalizeBody(body string) string {
	return strings.Join(strings.Fields(strings.ToLower(body)), " ")
}

// meanConfidence averages the per-section confidences, 0 for no sections.
func meanConfidence(conf map[int]float64) float64 {
	if len(conf) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range conf {
		sum += c
	}
	return sum / float64(len(conf))
}

// sortedSections returns the map's section numbers in ascending order.
func sortedSections(m map[int]float64) []int {
	nums := make([]int, 0, len(m))
	for n := range m {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// clampUnit limits a confidence to [0,1].
func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
