// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/mrd-engine/internal/draft"
	"github.com/pdiddy/mrd-engine/internal/ensemble"
	"github.com/pdiddy/mrd-engine/internal/gaps"
	"github.com/pdiddy/mrd-engine/internal/generate"
	"github.com/pdiddy/mrd-engine/internal/history"
	"github.com/pdiddy/mrd-engine/internal/research"
	"github.com/pdiddy/mrd-engine/internal/score"
	"github.com/pdiddy/mrd-engine/internal/secrets"
	"github.com/pdiddy/mrd-engine/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the full MRD pipeline for a product brief",
	Long: `Generate runs the full pipeline: collect category research for the
product, draft candidate MRDs through the configured AI backends, score
each candidate, merge them section by section, score the merged draft, and
gap-check the brief. The draft, the per-candidate files, and the quality
and gap reports land in one run directory under the output dir, and the
run is recorded in the history database.

Research collection is skipped when --sources points at an existing
sources file or --no-research is set. With --fallback-only the run uses
only the deterministic template backend and needs no API keys.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("brief", "brief.yaml", "path to the product brief")
	generateCmd.Flags().Int("candidates", 0, "number of candidate drafts (0 = use default)")
	generateCmd.Flags().StringSlice("backends", nil, "generation backends to rotate through: claude, gemini, template (overrides config)")
	generateCmd.Flags().Bool("fallback-only", false, "use only the deterministic template backend")
	generateCmd.Flags().String("sources", "", "path to an existing sources file (skips collection)")
	generateCmd.Flags().Bool("no-research", false, "skip research collection entirely")
	generateCmd.Flags().String("output-dir", "", "directory for run artifacts (default from config)")
	addMergeFlags(generateCmd)

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		cfg.Output.Dir = dir
	}

	briefPath, _ := cmd.Flags().GetString("brief")
	brief, err := loadBrief(briefPath)
	if err != nil {
		return err
	}

	opts, err := mergeOptionsFromFlags(cmd, cfg.Merge)
	if err != nil {
		return err
	}

	ctx := context.Background()

	sources, err := gatherSources(ctx, cmd, brief, cfg.Research)
	if err != nil {
		return err
	}

	backends, err := buildBackends(cmd, cfg.Generation)
	if err != nil {
		return err
	}
	count := cfg.Generation.Candidates
	if n, _ := cmd.Flags().GetInt("candidates"); n > 0 {
		count = n
	}

	fmt.Fprintf(os.Stderr, "Generating %d candidate(s)...\n", count)
	cands := generate.Ensemble(ctx, generate.Options{
		Backends:   backends,
		Candidates: count,
		MaxRetries: cfg.Generation.MaxRetries,
	}, generate.Request{Brief: brief, Sources: sources}, os.Stderr)

	scorer := score.NewScorer(score.DefaultRubric())
	for i := range cands {
		report, err := scorer.Score(draft.RenderDocument("", cands[i].Sections), sources)
		if err != nil {
			return fmt.Errorf("scoring candidate %s: %w", cands[i].ID, err)
		}
		cands[i].OverallScore = float64(report.OverallScore)
		fmt.Fprintf(os.Stderr, "  %s: %d/100\n", cands[i].ID, report.OverallScore)
	}

	result, err := ensemble.Merge(cands, opts)
	if err != nil {
		return err
	}

	doc := draft.RenderDocumentWithSources(brief.ProductName+" MRD", result.Sections, sources)
	report, err := scorer.Score(doc, sources)
	if err != nil {
		return fmt.Errorf("scoring merged draft: %w", err)
	}

	gapReports, err := gaps.NewDetector(gaps.DefaultRules()).DetectAll(brief)
	if err != nil {
		return err
	}

	paths, err := writeRunArtifacts(cfg.Output.Dir, brief, doc, cands, report, gapReports)
	if err != nil {
		return err
	}

	runID, err := recordRun(ctx, cfg.History, history.Run{
		Product:    brief.ProductName,
		Strategy:   string(result.Strategy),
		Confidence: result.OverallConfidence,
		Report:     *report,
		GapReports: gapReports,
		Document:   doc,
	})
	if err != nil {
		return err
	}

	formatGenerateSummary(os.Stdout, result, report, gapReports, paths, runID)
	return nil
}

// gatherSources resolves the research inputs for a run: an explicit sources
// file, a fresh collection, or nothing.
func gatherSources(ctx context.Context, cmd *cobra.Command, brief types.Brief, cfg types.ResearchConfig) ([]types.SourceRef, error) {
	if path, _ := cmd.Flags().GetString("sources"); path != "" {
		sf, err := research.ReadSources(path)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "Using %d source(s) from %s\n", len(sf.Sources), path)
		return sf.Sources, nil
	}
	if noResearch, _ := cmd.Flags().GetBool("no-research"); noResearch {
		return nil, nil
	}

	query := brief.ProductName
	fmt.Fprintf(os.Stderr, "Collecting research for %q...\n", query)
	out, err := research.Collect(ctx, query, researchProviders(cfg), cfg, os.Stderr)
	if err != nil {
		return nil, err
	}

	path, err := research.WriteSources(cfg.Dir, query, out.Sources)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(os.Stderr, "Wrote %d source(s) to %s\n", len(out.Sources), path)
	return out.Sources, nil
}

// buildBackends assembles the generation backend rotation from config and
// flags. API keys come from the config or the loaded secrets; a backend
// without a key is skipped with a warning.
func buildBackends(cmd *cobra.Command, cfg types.GenerationConfig) ([]generate.Backend, error) {
	if fallbackOnly, _ := cmd.Flags().GetBool("fallback-only"); fallbackOnly {
		return []generate.Backend{generate.NewTemplateBackend()}, nil
	}

	names := cfg.Backends
	if flagNames, _ := cmd.Flags().GetStringSlice("backends"); len(flagNames) > 0 {
		names = flagNames
	}

	backends := make([]generate.Backend, 0, len(names))
	for _, name := range names {
		switch name {
		case "claude":
			key := secretDefault(secrets.KeyAnthropic, cfg.APIKey)
			if key == "" {
				fmt.Fprintln(os.Stderr, "warning: no Claude API key configured, skipping claude backend")
				continue
			}
			backends = append(backends, &generate.ClaudeBackend{
				APIKey:    key,
				Model:     cfg.Model,
				MaxTokens: cfg.MaxTokens,
			})
		case "gemini":
			key := secretDefault(secrets.KeyGemini, cfg.GeminiAPIKey)
			if key == "" {
				fmt.Fprintln(os.Stderr, "warning: no Gemini API key configured, skipping gemini backend")
				continue
			}
			backends = append(backends, &generate.GeminiBackend{
				APIKey: key,
				Model:  cfg.GeminiModel,
			})
		case "template":
			backends = append(backends, generate.NewTemplateBackend())
		default:
			return nil, fmt.Errorf("unknown backend %q: use claude, gemini, or template", name)
		}
	}
	if len(backends) == 0 {
		fmt.Fprintln(os.Stderr, "warning: no usable AI backends, falling back to template drafts")
	}
	return backends, nil
}

// runArtifacts holds the paths written for one generate run.
type runArtifacts struct {
	Dir        string
	Draft      string
	Report     string
	Gaps       string
	Candidates []string
}

// writeRunArtifacts lays the run's outputs under one directory:
// draft.md, report.yaml, gaps.yaml, and candidates/*.yaml.
func writeRunArtifacts(outputDir string, brief types.Brief, doc string, cands []types.Candidate, report *types.QualityReport, gapReports []types.GapReport) (*runArtifacts, error) {
	runDir := filepath.Join(outputDir, runSlug(brief.ProductName, time.Now()))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}
	paths := &runArtifacts{Dir: runDir}

	paths.Draft = filepath.Join(runDir, "draft.md")
	if err := os.WriteFile(paths.Draft, []byte(doc), 0o644); err != nil {
		return nil, fmt.Errorf("writing draft: %w", err)
	}

	reportYAML, err := yaml.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}
	paths.Report = filepath.Join(runDir, "report.yaml")
	if err := os.WriteFile(paths.Report, reportYAML, 0o644); err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}

	gapsYAML, err := yaml.Marshal(gapReports)
	if err != nil {
		return nil, fmt.Errorf("marshaling gap reports: %w", err)
	}
	paths.Gaps = filepath.Join(runDir, "gaps.yaml")
	if err := os.WriteFile(paths.Gaps, gapsYAML, 0o644); err != nil {
		return nil, fmt.Errorf("writing gap reports: %w", err)
	}

	candDir := filepath.Join(runDir, "candidates")
	for _, cand := range cands {
		path, err := draft.WriteCandidateFile(candDir, cand)
		if err != nil {
			return nil, err
		}
		paths.Candidates = append(paths.Candidates, path)
	}
	return paths, nil
}

// runSlug builds the run directory name from the product name and a UTC
// timestamp, e.g. "trail-mug-20260825-142301".
func runSlug(product string, now time.Time) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(product) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		slug = "draft"
	}
	return slug + "-" + now.UTC().Format("20060102-150405")
}

// recordRun stores the run in the history database.
func recordRun(ctx context.Context, cfg types.HistoryConfig, run history.Run) (string, error) {
	store, err := history.Open(cfg)
	if err != nil {
		return "", err
	}
	defer store.Close()
	return store.Record(ctx, run)
}

func formatGenerateSummary(w io.Writer, result *types.MergeResult, report *types.QualityReport, gapReports []types.GapReport, paths *runArtifacts, runID string) {
	totalGaps, highGaps := 0, 0
	for _, gr := range gapReports {
		totalGaps += len(gr.Gaps)
		for _, gap := range gr.Gaps {
			if gap.Priority == types.PriorityHigh {
				highGaps++
			}
		}
	}

	fmt.Fprintf(w, "Draft:      %s\n", paths.Draft)
	fmt.Fprintf(w, "Report:     %s\n", paths.Report)
	fmt.Fprintf(w, "Candidates: %d under %s\n", len(paths.Candidates), filepath.Join(paths.Dir, "candidates"))
	fmt.Fprintf(w, "Strategy:   %s (confidence %.2f)\n", result.Strategy, result.OverallConfidence)
	fmt.Fprintf(w, "Score:      %d/100  [%s]\n", report.OverallScore, passLabel(report.Passed))
	fmt.Fprintf(w, "Gaps:       %d (%d high priority), see %s\n", totalGaps, highGaps, paths.Gaps)
	fmt.Fprintf(w, "Run ID:     %s\n", runID)
}
