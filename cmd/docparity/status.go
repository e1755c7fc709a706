// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docparity/docparity/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache contents and translation coverage",
	Long: `Status lists the cached language trees and, when both configured
languages are cached, the coverage summary from a fresh comparison.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}

	s, err := store.NewStore(cfg.Project.CacheDir)
	if err != nil {
		return err
	}

	ctx := context.Background()
	langs, err := s.Languages(ctx)
	if err != nil {
		s.Close()
		return err
	}

	if len(langs) == 0 {
		s.Close()
		fmt.Println("cache is empty: run docparity parse first")
		return nil
	}

	fmt.Println("cached languages:")
	cached := make(map[string]bool, len(langs))
	for _, lang := range langs {
		count, err := s.NodeCount(ctx, lang)
		if err != nil {
			s.Close()
			return err
		}
		cached[lang] = true
		fmt.Printf("  %-6s %d nodes\n", lang, count)
	}
	s.Close()

	sourceLang, targetLang := langFlags(cmd, cfg)
	if !cached[sourceLang] || !cached[targetLang] {
		fmt.Printf("\nparse both %s and %s to see coverage\n", sourceLang, targetLang)
		return nil
	}

	result, fileErrors, err := compareFromCache(cmd)
	if err != nil {
		return err
	}
	fmt.Println()
	printCoverageReport(result)
	if len(fileErrors) > 0 {
		fmt.Printf("\n%d file(s) were skipped due to structural errors\n", len(fileErrors))
	}
	return nil
}

func init() {
	statusCmd.Flags().String("source-lang", "", "source language code (default from config)")
	statusCmd.Flags().String("target-lang", "", "target language code (default from config)")
	statusCmd.Flags().Float64("threshold", 0, "fuzzy similarity threshold, 0..1")
	statusCmd.Flags().Int("workers", 0, "parallel file workers")

	rootCmd.AddCommand(statusCmd)
}
