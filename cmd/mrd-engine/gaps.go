// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mrd-engine/internal/gaps"
	"github.com/pdiddy/mrd-engine/pkg/types"
)

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Detect missing information in a product brief",
	Long: `Gaps checks brief fields against the required-information rules and
reports what is missing, with a priority and a suggested question per gap.

Analyze a whole brief file with --brief, or a single field by passing
--field together with --bullet and --entity values.`,
	RunE: runGaps,
}

func init() {
	gapsCmd.Flags().String("brief", "", "path to a product brief (brief.yaml); analyzes every field")
	gapsCmd.Flags().String("field", "", "single field to analyze: product_description, target_market, features, moq, target_price, competitors")
	gapsCmd.Flags().StringArray("bullet", nil, "bullet-point line for the field (repeatable)")
	gapsCmd.Flags().StringArray("entity", nil, "extracted entity as type=value:confidence (repeatable)")
	gapsCmd.Flags().Bool("json", false, "output the reports as JSON")

	rootCmd.AddCommand(gapsCmd)
}

func runGaps(cmd *cobra.Command, args []string) error {
	briefPath, _ := cmd.Flags().GetString("brief")
	fieldName, _ := cmd.Flags().GetString("field")

	detector := gaps.NewDetector(gaps.DefaultRules())

	var reports []types.GapReport
	switch {
	case briefPath != "":
		brief, err := loadBrief(briefPath)
		if err != nil {
			return err
		}
		reports, err = detector.DetectAll(brief)
		if err != nil {
			return err
		}
	case fieldName != "":
		field, err := types.ParseFieldType(fieldName)
		if err != nil {
			return err
		}
		bullets, _ := cmd.Flags().GetStringArray("bullet")
		specs, _ := cmd.Flags().GetStringArray("entity")
		entities, err := parseEntitySpecs(specs)
		if err != nil {
			return err
		}
		report, err := detector.Detect(field, bullets, entities)
		if err != nil {
			return err
		}
		reports = []types.GapReport{*report}
	default:
		return fmt.Errorf("provide --brief or --field")
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatGapsOutput(reports, jsonOutput)
}

// parseEntitySpecs parses --entity flags of the form type=value:confidence.
// The confidence suffix is optional and defaults to 1.0.
func parseEntitySpecs(specs []string) ([]types.Entity, error) {
	entities := make([]types.Entity, 0, len(specs))
	for _, spec := range specs {
		typ, rest, found := strings.Cut(spec, "=")
		if !found || typ == "" || rest == "" {
			return nil, fmt.Errorf("invalid entity %q: want type=value:confidence", spec)
		}

		value := rest
		confidence := 1.0
		if i := strings.LastIndex(rest, ":"); i >= 0 {
			if c, err := strconv.ParseFloat(rest[i+1:], 64); err == nil {
				value = rest[:i]
				confidence = c
			}
		}
		if value == "" {
			return nil, fmt.Errorf("invalid entity %q: empty value", spec)
		}
		entities = append(entities, types.Entity{Type: typ, Value: value, Confidence: confidence})
	}
	return entities, nil
}

func formatGapsOutput(reports []types.GapReport, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	total := 0
	for _, report := range reports {
		fmt.Fprintf(os.Stdout, "%s (completeness %.2f)\n", report.Field, report.Completeness)
		if len(report.Gaps) == 0 {
			fmt.Fprintln(os.Stdout, "  no gaps")
			continue
		}
		for _, gap := range report.Gaps {
			total++
			fmt.Fprintf(os.Stdout, "  [%-6s] %-28s  %s\n", gap.Priority, gap.ID, gap.Description)
			if gap.SuggestedQuestion != "" {
				fmt.Fprintf(os.Stdout, "           ask: %s\n", gap.SuggestedQuestion)
			}
		}
	}

	fmt.Fprintf(os.Stdout, "\n%d gap(s) across %d field(s)\n", total, len(reports))
	return nil
}
