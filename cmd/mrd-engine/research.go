// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mrd-engine/internal/convert"
	"github.com/pdiddy/mrd-engine/internal/research"
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Collect and import category research",
	Long: `Research gathers market context for a product category. The collect
subcommand queries the configured RSS feeds and Google News and writes a
sources file; the import subcommand converts local reference documents
(PDF, DOCX, PPTX) to markdown through a containerized markitdown.`,
}

// --- collect subcommand ---

var researchCollectCmd = &cobra.Command{
	Use:   "collect <query>",
	Short: "Collect product-category sources from feeds and news",
	Long: `Collect fans the query out to the configured research providers,
deduplicates the results by title and URL, keeps the newest, and writes
a sources file for later generate and score runs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearchCollect,
}

func runResearchCollect(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	cfg := pipelineConfig().Research
	if dir, _ := cmd.Flags().GetString("research-dir"); dir != "" {
		cfg.Dir = dir
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
		cfg.MaxSources = limit
	}
	if feeds, _ := cmd.Flags().GetStringSlice("feeds"); len(feeds) > 0 {
		cfg.Feeds = feeds
	}
	if noNews, _ := cmd.Flags().GetBool("no-news"); noNews {
		cfg.EnableNews = false
	}

	out, err := research.Collect(context.Background(), query, researchProviders(cfg), cfg, os.Stderr)
	if err != nil {
		return err
	}

	path, err := research.WriteSources(cfg.Dir, query, out.Sources)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return research.FormatJSON(out, os.Stdout)
	}
	research.FormatTable(out, os.Stdout)
	fmt.Fprintf(os.Stdout, "\nWrote %d source(s) to %s\n", len(out.Sources), path)
	return nil
}

// --- import subcommand ---

var researchImportCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import reference documents into the research corpus",
	Long: `Import converts supplier spec sheets and category reports (PDF, DOCX,
PPTX, XLSX, HTML) to markdown through a containerized markitdown and stores
them under the research markdown directory. Requires docker or podman with
a local markitdown image.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearchImport,
}

func runResearchImport(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig().Research
	if dir, _ := cmd.Flags().GetString("research-dir"); dir != "" {
		cfg.Dir = dir
	}

	rt, err := convert.DetectRuntime()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Using container runtime: %s\n", rt.Name())

	converter, err := convert.NewMarkitdownConverter(rt)
	if err != nil {
		return err
	}

	result := convert.ImportFiles(converter, args, cfg.Dir, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed import", result.Failed)
	}
	return nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	researchCmd.PersistentFlags().String("research-dir", "", "base directory for research artifacts (default from config)")

	// Collect flags.
	researchCollectCmd.Flags().Int("limit", 0, "maximum sources to keep (0 = use default)")
	researchCollectCmd.Flags().StringSlice("feeds", nil, "feed URLs to consult (overrides config)")
	researchCollectCmd.Flags().Bool("no-news", false, "skip the Google News provider")
	researchCollectCmd.Flags().Bool("json", false, "output collected sources as JSON")

	// Wire subcommands.
	researchCmd.AddCommand(researchCollectCmd)
	researchCmd.AddCommand(researchImportCmd)

	rootCmd.AddCommand(researchCmd)
}
