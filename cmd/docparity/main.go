// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docparity CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/docparity/docparity/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the docparity CLI.
var rootCmd = &cobra.Command{
	Use:   "docparity",
	Short: "Translation parity tracking for multilingual documentation",
	Long: `docparity tracks how much of a documentation tree has been translated
and packs the untranslated parts into token-budgeted batches for machine
translation.

Parse caches each language's node tree, compare maps source nodes to their
translations, export writes a translation handoff file, and import applies
the filled-in translations back onto the cache.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./docparity.yaml or ~/.config/docparity/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docparity")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docparity"))
		}
	}

	viper.SetEnvPrefix("DOCPARITY")
	viper.AutomaticEnv()

	setConfigDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setConfigDefaults seeds viper with the built-in pipeline defaults so
// config files only need to name what they change.
func setConfigDefaults() {
	def := types.DefaultPipelineConfig()

	viper.SetDefault("project.docs_dir", def.Project.DocsDir)
	viper.SetDefault("project.cache_dir", def.Project.CacheDir)
	viper.SetDefault("project.source_lang", def.Project.SourceLang)
	viper.SetDefault("project.target_lang", def.Project.TargetLang)
	viper.SetDefault("project.glossary_file", def.Project.GlossaryFile)

	viper.SetDefault("compare.similarity_threshold", def.Compare.SimilarityThreshold)
	viper.SetDefault("compare.workers", def.Compare.Workers)

	viper.SetDefault("batch.target_size", def.Batch.TargetSize)
	viper.SetDefault("batch.min_size", def.Batch.MinSize)
	viper.SetDefault("batch.max_size", def.Batch.MaxSize)
	viper.SetDefault("batch.context_window", def.Batch.ContextWindow)
	viper.SetDefault("batch.enable_context", def.Batch.EnableContext)

	viper.SetDefault("token.default_divisor", def.Token.DefaultDivisor)
	viper.SetDefault("token.cjk_divisor", def.Token.CJKDivisor)
	viper.SetDefault("token.code_divisor", def.Token.CodeDivisor)
	viper.SetDefault("token.cache_size", def.Token.CacheSize)
}

// pipelineConfig materializes the effective configuration from viper
// and validates it. Flag overrides are applied by the callers.
func pipelineConfig() (types.PipelineConfig, error) {
	cfg := types.PipelineConfig{
		Project: types.ProjectConfig{
			DocsDir:      viper.GetString("project.docs_dir"),
			CacheDir:     viper.GetString("project.cache_dir"),
			SourceLang:   viper.GetString("project.source_lang"),
			TargetLang:   viper.GetString("project.target_lang"),
			GlossaryFile: viper.GetString("project.glossary_file"),
		},
		Compare: types.CompareConfig{
			SimilarityThreshold: viper.GetFloat64("compare.similarity_threshold"),
			Workers:             viper.GetInt("compare.workers"),
		},
		Batch: types.BatchConfig{
			TargetSize:    viper.GetInt("batch.target_size"),
			MinSize:       viper.GetInt("batch.min_size"),
			MaxSize:       viper.GetInt("batch.max_size"),
			ContextWindow: viper.GetInt("batch.context_window"),
			EnableContext: viper.GetBool("batch.enable_context"),
		},
		Token: types.TokenConfig{
			DefaultDivisor: viper.GetFloat64("token.default_divisor"),
			CJKDivisor:     viper.GetFloat64("token.cjk_divisor"),
			CodeDivisor:    viper.GetFloat64("token.code_divisor"),
			CacheSize:      viper.GetInt("token.cache_size"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return types.PipelineConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
