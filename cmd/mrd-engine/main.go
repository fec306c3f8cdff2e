// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the mrd-engine CLI.
// Implements: prd008-research, prd009-generation, prd010-scoring,
//             prd011-ensemble, prd012-gap-analysis, prd013-assembly,
//             prd014-history, prd015-export (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/mrd-engine/internal/secrets"
)

// Build metadata, set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the mrd-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "mrd-engine",
	Short: "Assemble market requirements documents from product briefs",
	Long: `mrd-engine turns a product brief into a Market Requirements Document.
The generate command runs the full pipeline: collect category research,
draft candidate documents through an ensemble of AI backends, merge the
candidates section by section, score the merged draft against a fixed
quality rubric, and flag gaps in the brief.

Each pipeline stage is also a subcommand (research, score, gaps, merge,
export, history) so stages can be run and re-run in isolation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./mrd-engine.yaml or ~/.config/mrd-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("mrd-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "mrd-engine"))
		}
	}

	viper.SetEnvPrefix("MRD_ENGINE")
	viper.AutomaticEnv()

	setConfigDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setConfigDefaults registers the built-in default for every config key.
// Values in mrd-engine.yaml and MRD_ENGINE_* environment variables override
// them; command flags override both.
func setConfigDefaults() {
	viper.SetDefault("research.dir", "research")
	viper.SetDefault("research.timeout", "15s")
	viper.SetDefault("research.user_agent", "mrd-engine/0.1")
	viper.SetDefault("research.max_sources", 12)
	viper.SetDefault("research.enable_news", true)
	viper.SetDefault("research.news_lang", "en-US")
	viper.SetDefault("research.news_country", "US")
	viper.SetDefault("research.request_delay", "1s")

	viper.SetDefault("generation.model", "claude-sonnet-4-5-20250929")
	viper.SetDefault("generation.gemini_model", "gemini-2.5-flash")
	viper.SetDefault("generation.max_tokens", 8192)
	viper.SetDefault("generation.max_retries", 3)
	viper.SetDefault("generation.candidates", 3)
	viper.SetDefault("generation.backends", []string{"claude", "gemini"})

	viper.SetDefault("merge.strategy", "weighted_blend")
	viper.SetDefault("merge.min_confidence", 0.0)
	viper.SetDefault("merge.quality_weight", 0.3)
	viper.SetDefault("merge.tie_breaking", true)

	viper.SetDefault("history.dir", "history")
	viper.SetDefault("history.max_results", 20)

	viper.SetDefault("output.dir", "output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
