// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score rates rendered MRD documents against a fixed quality rubric.
// Implements: prd010-scoring (R1-R5);
//
//	docs/ARCHITECTURE § Quality Scoring.
package score

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/pdiddy/mrd-engine/pkg/types"
)

var (
	// headingLinePattern matches any markdown heading line.
	headingLinePattern = regexp.MustCompile(`(?m)^#{1,6}[ \t]`)

	// bulletPattern matches one markdown bullet line.
	bulletPattern = regexp.MustCompile(`(?m)^[ \t]*[-*•][ \t]+`)

	// hrPattern matches a horizontal rule line.
	hrPattern = regexp.MustCompile(`(?m)^(?:-{3,}|\*{3,}|_{3,})[ \t]*$`)

	// boldPattern matches inline bold text.
	boldPattern = regexp.MustCompile(`\*\*[^*\n]+\*\*`)

	// unitPattern matches a number followed by a measurement unit.
	unitPattern = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s?(?:mm|cm|km|m|in|inch(?:es)?|ft|kg|g|lbs?|oz|ml|l|kw|w|v|mah|wh|ghz|mhz|hz|db|gb|tb|rpm|psi|°c|°f)\b`)

	// currencyPattern matches currency amounts and percentages.
	currencyPattern = regexp.MustCompile(`(?i)(?:[$€£¥]\s?\d[\d,]*(?:\.\d+)?|\b\d+(?:\.\d+)?\s?%|\b(?:usd|eur|gbp|cny|rmb)\s?\d[\d,]*)`)

	// urlPattern matches in-text http(s) links.
	urlPattern = regexp.MustCompile(`https?://[^\s)>\]]+`)
)

// Scorer rates MRD documents against one rubric. Scoring is pure and
// deterministic: the same document and sources always produce the same
// report.
type Scorer struct {
	rubric           Rubric
	brandPattern     *regexp.Regexp
	standardsPattern *regexp.Regexp
	domainPattern    *regexp.Regexp
}

// NewScorer returns a Scorer bound to the given rubric.
func NewScorer(rubric Rubric) *Scorer {
	return &Scorer{
		rubric:           rubric,
		brandPattern:     termsPattern(rubric.BrandTerms),
		standardsPattern: termsPattern(rubric.StandardsTokens),
		domainPattern:    termsPattern(rubric.DomainTerms),
	}
}

// termsPattern compiles a case-insensitive whole-word alternation over terms.
func termsPattern(terms []string) *regexp.Regexp {
	escaped := make([]string, 0, len(terms))
	for _, t := range terms {
		escaped = append(escaped, regexp.QuoteMeta(t))
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(escaped, "|") + `)\b`)
}

// ValidateInput collects every problem with a scoring request before any
// computation. An empty result means the input is scoreable (R4.1).
func ValidateInput(doc string, sources []types.SourceRef) []string {
	var errs []string
	if strings.TrimSpace(doc) == "" {
		errs = append(errs, "document text is empty")
	}
	for i, src := range sources {
		if src.Title == "" && src.URL == "" {
			errs = append(errs, fmt.Sprintf("source %d: missing title and url", i))
		}
	}
	return errs
}

// Score rates one rendered MRD document and its research sources. The
// document passes when the overall score meets the rubric threshold and no
// critical issues were found (R3.4).
func (s *Scorer) Score(doc string, sources []types.SourceRef) (*types.QualityReport, error) {
	if errs := ValidateInput(doc, sources); len(errs) > 0 {
		return nil, fmt.Errorf("invalid scoring input: %s", strings.Join(errs, "; "))
	}

	bodies := s.SplitSections(doc)

	report := &types.QualityReport{
		Sections: make([]types.SectionCheck, 0, len(s.rubric.Sections)),
	}
	present := 0
	for _, rule := range s.rubric.Sections {
		check := types.SectionCheck{Number: rule.Number, Title: rule.Title}
		if body, ok := bodies[rule.Number]; ok {
			check.Present = true
			check.Score = scoreSection(body)
			present++
		}
		report.Sections = append(report.Sections, check)
	}

	report.Dimensions = types.QualityDimensions{
		Completeness: completenessScore(present),
		Specificity:  s.specificityScore(doc),
		Structure:    structureScore(doc),
		Research:     researchScore(doc, sources),
		Technical:    s.technicalScore(doc),
	}
	report.OverallScore = combineOverall(report.Dimensions, s.rubric.Weights)
	report.CriticalIssues = s.criticalIssues(report)
	report.Suggestions = s.suggestions(report, bodies, doc)
	report.Strengths = s.strengths(report)
	report.Passed = report.OverallScore >= s.rubric.PassThreshold && len(report.CriticalIssues) == 0

	return report, nil
}

// SplitSections locates each template section's body within the document.
// A body runs from the line after the matched heading to the next markdown
// heading or end of document. Absent sections have no entry (R1.3).
func (s *Scorer) SplitSections(doc string) map[int]string {
	headings := headingLinePattern.FindAllStringIndex(doc, -1)
	bodies := make(map[int]string, len(s.rubric.Sections))

	for _, rule := range s.rubric.Sections {
		loc := rule.Pattern.FindStringIndex(doc)
		if loc == nil {
			continue
		}

		start := loc[1]
		if nl := strings.IndexByte(doc[start:], '\n'); nl >= 0 {
			start += nl + 1
		} else {
			start = len(doc)
		}

		end := len(doc)
		for _, h := range headings {
			if h[0] >= start {
				end = h[0]
				break
			}
		}

		bodies[rule.Number] = doc[start:end]
	}

	return bodies
}

// scoreSection rates one present section body: base 50, plus 10 for each of
// bullet lines, bold text, numeric detail, body over 200 bytes, and body
// over 500 bytes, capped at 100 (R1.4).
func scoreSection(body string) int {
	score := 50
	if bulletPattern.MatchString(body) {
		score += 10
	}
	if boldPattern.MatchString(body) {
		score += 10
	}
	if strings.ContainsAny(body, "0123456789") {
		score += 10
	}
	if len(body) > 200 {
		score += 10
	}
	if len(body) > 500 {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}

// completenessScore converts the present-section count to 0-100 (R2.1).
func completenessScore(present int) int {
	return int(math.Round(100 * float64(present) / float64(types.SectionCount)))
}

// tierBonus converts a category hit count to its specificity bonus: 8 points
// once a category has any hits, 20 once it reaches 3 (R2.2).
func tierBonus(hits int) int {
	switch {
	case hits >= 3:
		return 20
	case hits >= 1:
		return 8
	default:
		return 0
	}
}

// specificityScore rewards measurable detail in three categories
// (measurements, brand terms, currency/percentages) and penalizes filler
// phrases (R2.2).
func (s *Scorer) specificityScore(doc string) int {
	lower := strings.ToLower(doc)

	score := 40
	score += tierBonus(len(unitPattern.FindAllString(doc, -1)))
	score += tierBonus(len(s.brandPattern.FindAllString(doc, -1)))
	score += tierBonus(len(currencyPattern.FindAllString(doc, -1)))

	penalty := 0
	for _, phrase := range s.rubric.FillerPhrases {
		penalty += 4 * strings.Count(lower, phrase)
	}
	if penalty > 20 {
		penalty = 20
	}

	return clampScore(score - penalty)
}

// structureScore rates markdown organization: headings, separators, bullets,
// paragraph spacing, minus walls of unbroken text (R2.3).
func structureScore(doc string) int {
	score := 20
	score += 4 * capCount(len(headingLinePattern.FindAllString(doc, -1)), 10)
	score += 5 * capCount(len(hrPattern.FindAllString(doc, -1)), 2)
	score += 2 * capCount(len(bulletPattern.FindAllString(doc, -1)), 10)
	if strings.Contains(doc, "\n\n") {
		score += 10
	}

	walls := 0
	for _, block := range strings.Split(doc, "\n\n") {
		if len(block) > 600 && !strings.Contains(block, "\n") {
			walls++
		}
	}
	score -= 10 * capCount(walls, 3)

	return clampScore(score)
}

// researchScore rates source backing: distinct entries in the source list
// plus in-text links (R2.4).
func researchScore(doc string, sources []types.SourceRef) int {
	distinct := make(map[string]bool, len(sources))
	for _, src := range sources {
		key := src.URL
		if key == "" {
			key = src.Title
		}
		if key != "" {
			distinct[key] = true
		}
	}

	score := 20
	score += 12 * capCount(len(distinct), 5)
	score += 4 * capCount(len(urlPattern.FindAllString(doc, -1)), 5)
	return clampScore(score)
}

// technicalScore rates manufacturing readiness: measurement detail,
// standards marks, sourcing vocabulary, minus unresolved placeholders (R2.5).
func (s *Scorer) technicalScore(doc string) int {
	score := 40
	score += 5 * capCount(len(unitPattern.FindAllString(doc, -1)), 4)
	score += 5 * capCount(distinctMatches(s.standardsPattern, doc), 4)
	score += 4 * capCount(distinctMatches(s.domainPattern, doc), 5)
	score -= 10 * capCount(s.placeholderCount(doc), 3)
	return clampScore(score)
}

// placeholderCount totals placeholder-marker occurrences in the document.
func (s *Scorer) placeholderCount(doc string) int {
	lower := strings.ToLower(doc)
	count := 0
	for _, marker := range s.rubric.PlaceholderMarkers {
		count += strings.Count(lower, marker)
	}
	return count
}

// distinctMatches counts distinct case-folded matches of p in doc.
func distinctMatches(p *regexp.Regexp, doc string) int {
	seen := make(map[string]bool)
	for _, m := range p.FindAllString(doc, -1) {
		seen[strings.ToLower(m)] = true
	}
	return len(seen)
}

// combineOverall folds the dimension scores into the overall score with a
// single final rounding (R3.1).
func combineOverall(d types.QualityDimensions, w DimensionWeights) int {
	sum := w.Completeness*float64(d.Completeness) +
		w.Specificity*float64(d.Specificity) +
		w.Structure*float64(d.Structure) +
		w.Research*float64(d.Research) +
		w.Technical*float64(d.Technical)
	return int(math.Round(sum))
}

// criticalIssues lists the problems that fail a document regardless of its
// overall score: missing sections and dimension floors (R3.2).
func (s *Scorer) criticalIssues(report *types.QualityReport) []string {
	var issues []string
	for _, check := range report.Sections {
		if !check.Present {
			issues = append(issues, fmt.Sprintf("missing required section %d: %s", check.Number, check.Title))
		}
	}
	if report.Dimensions.Completeness < s.rubric.MinCompleteness {
		issues = append(issues, fmt.Sprintf("completeness %d below critical floor %d", report.Dimensions.Completeness, s.rubric.MinCompleteness))
	}
	if report.Dimensions.Specificity < s.rubric.MinSpecificity {
		issues = append(issues, fmt.Sprintf("specificity %d below critical floor %d", report.Dimensions.Specificity, s.rubric.MinSpecificity))
	}
	return issues
}

// suggestions lists actionable improvements in a fixed order: thin sections
// first, then document-wide advice (R3.3).
func (s *Scorer) suggestions(report *types.QualityReport, bodies map[int]string, doc string) []string {
	var out []string
	for _, rule := range s.rubric.Sections {
		if body, ok := bodies[rule.Number]; ok && !bulletPattern.MatchString(body) {
			out = append(out, fmt.Sprintf("add bullet detail to section %d (%s)", rule.Number, rule.Title))
		}
	}
	if report.Dimensions.Research < 60 {
		out = append(out, "cite more research sources and link them in the text")
	}
	if report.Dimensions.Specificity < 70 {
		out = append(out, "replace generic claims with measurable specifics")
	}
	if s.placeholderCount(doc) > 0 {
		out = append(out, "resolve placeholder markers before review")
	}
	return out
}

// strengths lists what the document already does well: strong dimensions and
// well-developed sections (R3.5).
func (s *Scorer) strengths(report *types.QualityReport) []string {
	var out []string
	dims := []struct {
		name  string
		score int
	}{
		{"completeness", report.Dimensions.Completeness},
		{"specificity", report.Dimensions.Specificity},
		{"structure", report.Dimensions.Structure},
		{"research", report.Dimensions.Research},
		{"technical", report.Dimensions.Technical},
	}
	for _, d := range dims {
		if d.score >= 85 {
			out = append(out, fmt.Sprintf("%s is strong (%d)", d.name, d.score))
		}
	}
	for _, check := range report.Sections {
		if check.Score >= 90 {
			out = append(out, fmt.Sprintf("section %d (%s) is well developed", check.Number, check.Title))
		}
	}
	return out
}

// capCount limits a raw count to its scoring cap.
func capCount(n, cap int) int {
	if n > cap {
		return cap
	}
	return n
}

// clampScore limits a dimension score to [0,100].
func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
