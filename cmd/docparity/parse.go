// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docparity/docparity/internal/langid"
	"github.com/docparity/docparity/internal/store"
)

var parseCmd = &cobra.Command{
	Use:   "parse [dir]",
	Short: "Parse a documentation tree into the node cache",
	Long: `Parse reads every Markdown file under a language's documentation root,
splits it into structural nodes, and caches the nodes in SQLite. Unchanged
files are skipped on subsequent runs.

The root defaults to <docs-dir>/<lang>. When --lang is omitted the language
is detected from the documents themselves.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	lang, _ := cmd.Flags().GetString("lang")

	var root string
	switch {
	case len(args) == 1:
		root = args[0]
	case lang != "":
		root = filepath.Join(cfg.Project.DocsDir, lang)
	default:
		return fmt.Errorf("either a directory argument or --lang is required")
	}
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("documentation root: %w", err)
	}

	if lang == "" {
		lang, err = detectLanguage(root)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "detected language: %s\n", lang)
	}

	s, err := store.NewStore(cfg.Project.CacheDir)
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.IngestDir(context.Background(), root, lang, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed to parse", summary.Failed)
	}
	return nil
}

// detectLanguage samples the first Markdown file under root and asks
// the language detector.
func detectLanguage(root string) (string, error) {
	var sample string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		sample = string(data)
		return filepath.SkipAll
	})
	if err != nil {
		return "", fmt.Errorf("sampling %s for language detection: %w", root, err)
	}
	if sample == "" {
		return "", fmt.Errorf("no Markdown files under %s to detect a language from", root)
	}

	lang, ok := langid.New().Detect(sample)
	if !ok {
		return "", fmt.Errorf("could not detect document language; pass --lang explicitly")
	}
	return lang, nil
}

func init() {
	parseCmd.Flags().String("lang", "", "language code of the tree (detected when omitted)")

	rootCmd.AddCommand(parseCmd)
}
