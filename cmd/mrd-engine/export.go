// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mrd-engine/internal/draft"
	"github.com/pdiddy/mrd-engine/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <draft.md>",
	Short: "Export an MRD draft to DOCX or markdown",
	Long: `Export renders a markdown MRD draft into a shareable format. The docx
format produces a Word document with styled headings and bullet lists;
the markdown format re-renders the draft in canonical section order.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "docx", "export format: docx or markdown")
	exportCmd.Flags().String("output", "", "output file (default: draft name with the new extension; markdown defaults to stdout)")
	exportCmd.Flags().String("title", "", "document title (default: the draft's own # heading)")
	exportCmd.Flags().String("sources", "", "path to a collected sources file to append")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading draft: %w", err)
	}
	doc := string(raw)

	sections := draft.ParseSections(doc)
	if len(sections) == 0 {
		return fmt.Errorf("no template sections found in %s", args[0])
	}

	sources, err := loadSourceRefs(cmd)
	if err != nil {
		return err
	}

	title := docTitle(cmd, doc)
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	switch format {
	case "docx", "":
		if output == "" {
			output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".docx"
		}
		if err := export.WriteDOCX(output, title, sections, sources); err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", output)
	case "markdown":
		rendered := draft.RenderDocumentWithSources(title, sections, sources)
		if output == "" {
			fmt.Print(rendered)
			return nil
		}
		if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("writing markdown: %w", err)
		}
		fmt.Printf("Exported to %s\n", output)
	default:
		return fmt.Errorf("unsupported format %q: use docx or markdown", format)
	}
	return nil
}

// docTitle returns the --title flag if set, otherwise the draft's own
// "# Title" heading, otherwise "".
func docTitle(cmd *cobra.Command, doc string) string {
	if title, _ := cmd.Flags().GetString("title"); title != "" {
		return title
	}
	for _, line := range strings.Split(doc, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "## ") {
			break
		}
		if rest, found := strings.CutPrefix(trimmed, "# "); found {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
