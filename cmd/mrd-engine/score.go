// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mrd-engine/internal/score"
	"github.com/pdiddy/mrd-engine/pkg/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score <draft.md>",
	Short: "Score an MRD draft against the quality rubric",
	Long: `Score reads a markdown MRD draft, checks the twelve template sections,
and grades the five rubric dimensions: completeness, specificity, structure,
research integration, and technical accuracy. A draft passes at an overall
score of 70 or better with no critical issues.

Pass --sources to credit research integration from a collected sources file.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().String("sources", "", "path to a collected sources file (sources.yaml)")
	scoreCmd.Flags().Bool("json", false, "output the report as JSON")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading draft: %w", err)
	}

	sources, err := loadSourceRefs(cmd)
	if err != nil {
		return err
	}

	report, err := score.NewScorer(score.DefaultRubric()).Score(string(raw), sources)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatScoreOutput(report, jsonOutput)
}

func formatScoreOutput(report *types.QualityReport, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(os.Stdout, "Overall: %d/100  [%s]\n", report.OverallScore, passLabel(report.Passed))

	d := report.Dimensions
	fmt.Fprintf(os.Stdout, "\n%-14s  %s\n", "Dimension", "Score")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 21))
	for _, row := range []struct {
		name  string
		score int
	}{
		{"completeness", d.Completeness},
		{"specificity", d.Specificity},
		{"structure", d.Structure},
		{"research", d.Research},
		{"technical", d.Technical},
	} {
		fmt.Fprintf(os.Stdout, "%-14s  %d\n", row.name, row.score)
	}

	fmt.Fprintf(os.Stdout, "\n%-4s  %-32s  %-8s  %s\n", "No.", "Section", "Present", "Score")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 55))
	for _, check := range report.Sections {
		present := "yes"
		if !check.Present {
			present = "MISSING"
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-32s  %-8s  %d\n", check.Number, check.Title, present, check.Score)
	}

	printIssueList("Critical issues", report.CriticalIssues)
	printIssueList("Suggestions", report.Suggestions)
	printIssueList("Strengths", report.Strengths)
	return nil
}

func printIssueList(header string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(os.Stdout, "\n%s:\n", header)
	for _, item := range items {
		fmt.Fprintf(os.Stdout, "  - %s\n", item)
	}
}

func passLabel(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}
