// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mrd-engine/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past pipeline runs (list, search, show, export)",
	Long: `History manages the local SQLite record of pipeline runs. Every
generate run stores its merged draft, quality report, and gap analysis;
use the subcommands to list runs, search draft text, inspect one run,
or export the full history.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	summaries, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistoryOutput(summaries, jsonOutput)
}

// --- search subcommand ---

var historySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over recorded drafts",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHistorySearch,
}

func runHistorySearch(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	summaries, err := store.Search(context.Background(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistoryOutput(summaries, jsonOutput)
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recorded run in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Show(context.Background(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	fmt.Fprintf(os.Stdout, "ID:         %s\n", rec.ID)
	fmt.Fprintf(os.Stdout, "Product:    %s\n", rec.Product)
	fmt.Fprintf(os.Stdout, "Created:    %s\n", rec.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(os.Stdout, "Strategy:   %s\n", rec.Strategy)
	fmt.Fprintf(os.Stdout, "Confidence: %.2f\n", rec.Confidence)
	fmt.Fprintf(os.Stdout, "Score:      %d/100  [%s]\n", rec.Score, passLabel(rec.Passed))
	d := rec.Dimensions
	fmt.Fprintf(os.Stdout, "Dimensions: completeness %d, specificity %d, structure %d, research %d, technical %d\n",
		d.Completeness, d.Specificity, d.Structure, d.Research, d.Technical)
	if len(rec.Gaps) > 0 {
		fmt.Fprintln(os.Stdout, "Gaps:")
		for _, gap := range rec.Gaps {
			fmt.Fprintf(os.Stdout, "  [%-6s] %-28s  %s\n", gap.Priority, gap.ID, gap.Description)
		}
	}
	fmt.Fprintf(os.Stdout, "\n%s", rec.Document)
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the run history to YAML or JSON",
	Long: `Export writes every recorded run, oldest first, to stdout or the
--output file. Repeated exports of an unchanged store produce identical
output.`,
	RunE: runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	out := os.Stdout
	outPath, _ := cmd.Flags().GetString("output")
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		out = f
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "yaml", "":
		err = store.ExportYAML(context.Background(), out)
	case "json":
		err = store.ExportJSON(context.Background(), out)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	if outPath != "" {
		fmt.Printf("Exported to %s\n", outPath)
	}
	return nil
}

// --- shared helpers ---

func openHistory(cmd *cobra.Command) (*history.Store, error) {
	cfg := pipelineConfig().History
	if dir, _ := cmd.Flags().GetString("history-dir"); dir != "" {
		cfg.Dir = dir
	}
	if maxResults, _ := cmd.Flags().GetInt("max-results"); maxResults > 0 {
		cfg.MaxResults = maxResults
	}
	return history.Open(cfg)
}

func formatHistoryOutput(summaries []history.Summary, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	if len(summaries) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-16s  %-5s  %-6s  %s\n",
		"ID", "Product", "Created", "Score", "Status", "Strategy")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, sum := range summaries {
		product := sum.Product
		if len(product) > 20 {
			product = product[:17] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-16s  %-5d  %-6s  %s\n",
			sum.ID, product, sum.CreatedAt.Format("2006-01-02 15:04"), sum.Score,
			passLabel(sum.Passed), sum.Strategy)
	}

	fmt.Fprintf(os.Stdout, "\n%d run(s)\n", len(summaries))
	return nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	historyCmd.PersistentFlags().String("history-dir", "", "base directory for the history database (default from config)")
	historyCmd.PersistentFlags().Int("max-results", 0, "default maximum list/search results (0 = use default)")

	// List flags.
	historyListCmd.Flags().Int("limit", 0, "maximum runs to list (0 = use default)")
	historyListCmd.Flags().Bool("json", false, "output summaries as JSON")

	// Search flags.
	historySearchCmd.Flags().Int("limit", 0, "maximum matches to return (0 = use default)")
	historySearchCmd.Flags().Bool("json", false, "output summaries as JSON")

	// Show flags.
	historyShowCmd.Flags().Bool("json", false, "output the full record as JSON")

	// Export flags.
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("output", "", "write the export to this file instead of stdout")

	// Wire subcommands.
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
