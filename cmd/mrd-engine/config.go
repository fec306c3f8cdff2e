// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/mrd-engine/internal/research"
	"github.com/pdiddy/mrd-engine/pkg/types"
)

// pipelineConfig assembles the full pipeline configuration from viper, which
// layers mrd-engine.yaml, MRD_ENGINE_* environment variables, and the
// defaults registered in initConfig.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Research: types.ResearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("research.timeout"),
				UserAgent: viper.GetString("research.user_agent"),
			},
			Dir:          viper.GetString("research.dir"),
			Feeds:        viper.GetStringSlice("research.feeds"),
			EnableNews:   viper.GetBool("research.enable_news"),
			NewsLang:     viper.GetString("research.news_lang"),
			NewsCountry:  viper.GetString("research.news_country"),
			MaxSources:   viper.GetInt("research.max_sources"),
			RequestDelay: viper.GetDuration("research.request_delay"),
		},
		Generation: types.GenerationConfig{
			AIConfig: types.AIConfig{
				Model:      viper.GetString("generation.model"),
				APIKey:     viper.GetString("generation.api_key"),
				MaxRetries: viper.GetInt("generation.max_retries"),
			},
			GeminiModel:  viper.GetString("generation.gemini_model"),
			GeminiAPIKey: viper.GetString("generation.gemini_api_key"),
			MaxTokens:    viper.GetInt("generation.max_tokens"),
			Candidates:   viper.GetInt("generation.candidates"),
			Backends:     viper.GetStringSlice("generation.backends"),
		},
		Merge: types.MergeConfig{
			Strategy:      types.MergeStrategy(viper.GetString("merge.strategy")),
			MinConfidence: viper.GetFloat64("merge.min_confidence"),
			QualityWeight: viper.GetFloat64("merge.quality_weight"),
			TieBreaking:   viper.GetBool("merge.tie_breaking"),
		},
		History: types.HistoryConfig{
			Dir:        viper.GetString("history.dir"),
			MaxResults: viper.GetInt("history.max_results"),
		},
		Output: types.OutputConfig{
			Dir: viper.GetString("output.dir"),
		},
	}
}

// mergeOptionsFromFlags builds merge options from the config defaults and
// lets the strategy flags override individual values. Shared by the generate
// and merge commands, which register the same flag set.
func mergeOptionsFromFlags(cmd *cobra.Command, cfg types.MergeConfig) (types.MergeOptions, error) {
	opts := types.MergeOptions{
		Strategy:          cfg.Strategy,
		MinConfidence:     cfg.MinConfidence,
		QualityWeight:     cfg.QualityWeight,
		EnableTieBreaking: cfg.TieBreaking,
	}

	if s, _ := cmd.Flags().GetString("strategy"); s != "" {
		strategy, err := types.ParseMergeStrategy(s)
		if err != nil {
			return types.MergeOptions{}, err
		}
		opts.Strategy = strategy
	}
	if cmd.Flags().Changed("min-confidence") {
		opts.MinConfidence, _ = cmd.Flags().GetFloat64("min-confidence")
	}
	if cmd.Flags().Changed("quality-weight") {
		opts.QualityWeight, _ = cmd.Flags().GetFloat64("quality-weight")
	}
	if cmd.Flags().Changed("tie-breaking") {
		opts.EnableTieBreaking, _ = cmd.Flags().GetBool("tie-breaking")
	}
	return opts, nil
}

// addMergeFlags registers the merge tuning flags shared by generate and merge.
func addMergeFlags(cmd *cobra.Command) {
	cmd.Flags().String("strategy", "", "merge strategy: highest_confidence, weighted_blend, or majority_vote (default from config)")
	cmd.Flags().Float64("min-confidence", 0, "per-section confidence floor, 0-1 (default from config)")
	cmd.Flags().Float64("quality-weight", 0, "quality/confidence balance for weighted_blend, 0-1 (default from config)")
	cmd.Flags().Bool("tie-breaking", false, "break exact ties by lexicographically smallest candidate ID (default from config)")
}

// loadBrief reads and parses a product brief YAML file.
func loadBrief(path string) (types.Brief, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.Brief{}, fmt.Errorf("reading brief: %w", err)
	}

	var brief types.Brief
	if err := yaml.Unmarshal(raw, &brief); err != nil {
		return types.Brief{}, fmt.Errorf("parsing brief %s: %w", path, err)
	}
	if strings.TrimSpace(brief.ProductName) == "" {
		return types.Brief{}, fmt.Errorf("brief %s: product_name is required", path)
	}
	return brief, nil
}

// loadSourceRefs reads the sources file named by the --sources flag. An
// empty flag means no sources.
func loadSourceRefs(cmd *cobra.Command) ([]types.SourceRef, error) {
	path, _ := cmd.Flags().GetString("sources")
	if path == "" {
		return nil, nil
	}
	sf, err := research.ReadSources(path)
	if err != nil {
		return nil, err
	}
	return sf.Sources, nil
}

// researchProviders assembles the provider set for a collect run from the
// config: feeds when any are configured, Google News unless disabled.
func researchProviders(cfg types.ResearchConfig) []research.Provider {
	var providers []research.Provider
	if len(cfg.Feeds) > 0 {
		providers = append(providers, &research.FeedProvider{})
	}
	if cfg.EnableNews {
		providers = append(providers, &research.NewsProvider{})
	}
	return providers
}
