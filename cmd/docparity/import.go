// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docparity/docparity/internal/export"
	"github.com/docparity/docparity/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Apply translations from a filled-in export file",
	Long: `Import reads a translation export file, validates its schema version,
and writes the filled-in target texts back onto the cached target-language
nodes. Units left empty are ignored. Translations for nodes that no longer
exist in the cache are reported but do not fail the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	doc, err := export.Read(f)
	if err != nil {
		return err
	}

	translations := doc.Translations()
	if len(translations) == 0 {
		fmt.Println("no filled-in translations found; nothing to import")
		return nil
	}

	targetLang, _ := cmd.Flags().GetString("target-lang")
	if targetLang == "" {
		targetLang = doc.Metadata.TargetLang
	}
	if targetLang == "" {
		targetLang = cfg.Project.TargetLang
	}

	s, err := store.NewStore(cfg.Project.CacheDir)
	if err != nil {
		return err
	}
	defer s.Close()

	applied, unknown, err := s.ApplyTranslations(context.Background(), targetLang, translations)
	if err != nil {
		return err
	}

	fmt.Printf("applied %d translation(s) to %s\n", applied, targetLang)
	if unknown > 0 {
		fmt.Printf("%d translation(s) had no cached node; re-run docparity parse and export for new content\n", unknown)
	}
	return nil
}

func init() {
	importCmd.Flags().String("target-lang", "", "language to apply translations to (default from the export file)")

	rootCmd.AddCommand(importCmd)
}
