// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mrd-engine/internal/draft"
	"github.com/pdiddy/mrd-engine/internal/ensemble"
	"github.com/pdiddy/mrd-engine/pkg/types"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <candidate.yaml>...",
	Short: "Merge stored candidate drafts into a single document",
	Long: `Merge re-runs the ensemble merger over candidate files saved by a
previous generate run. Each file carries one candidate's sections and
per-section confidences; the merger picks a winner per section under the
chosen strategy and prints the assembled markdown.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

func init() {
	addMergeFlags(mergeCmd)
	mergeCmd.Flags().String("title", "", "document title for the rendered draft")
	mergeCmd.Flags().String("output", "", "write the merged draft to this file instead of stdout")
	mergeCmd.Flags().Bool("json", false, "output the merge result as JSON")

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	cands := make([]types.Candidate, 0, len(args))
	for _, path := range args {
		cand, err := draft.ReadCandidateFile(path)
		if err != nil {
			return err
		}
		cands = append(cands, cand)
	}

	opts, err := mergeOptionsFromFlags(cmd, pipelineConfig().Merge)
	if err != nil {
		return err
	}

	result, err := ensemble.Merge(cands, opts)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	title, _ := cmd.Flags().GetString("title")
	doc := draft.RenderDocument(title, result.Sections)

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := os.WriteFile(output, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("writing merged draft: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Merged %d candidate(s) with %s (confidence %.2f) -> %s\n",
			len(cands), result.Strategy, result.OverallConfidence, output)
		return nil
	}

	fmt.Fprint(os.Stdout, doc)
	fmt.Fprintf(os.Stderr, "\nMerged %d candidate(s) with %s (confidence %.2f)\n",
		len(cands), result.Strategy, result.OverallConfidence)
	return nil
}
