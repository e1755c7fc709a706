// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docparity/docparity/internal/compare"
	"github.com/docparity/docparity/internal/store"
	"github.com/docparity/docparity/pkg/types"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two cached language trees and report coverage",
	Long: `Compare maps every source-language node to its translation in the
target language. Nodes match exactly by reference metadata and content,
fuzzily by content similarity, or not at all. The report shows strict and
lenient coverage per file and the per-kind structure diff.`,
	RunE: runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	result, fileErrors, err := compareFromCache(cmd)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(result)
	}

	printCoverageReport(result)
	if len(fileErrors) > 0 {
		fmt.Fprintf(os.Stderr, "\n%d file(s) were skipped due to structural errors\n", len(fileErrors))
	}
	return nil
}

// compareFromCache loads both language trees from the node cache and
// runs the comparator. Shared by compare, export, and status.
func compareFromCache(cmd *cobra.Command) (*types.ComparisonResult, []string, error) {
	cfg, err := pipelineConfig()
	if err != nil {
		return nil, nil, err
	}
	sourceLang, targetLang := langFlags(cmd, cfg)

	if threshold, _ := cmd.Flags().GetFloat64("threshold"); cmd.Flags().Changed("threshold") {
		cfg.Compare.SimilarityThreshold = threshold
	}
	if workers, _ := cmd.Flags().GetInt("workers"); cmd.Flags().Changed("workers") {
		cfg.Compare.Workers = workers
	}

	s, err := store.NewStore(cfg.Project.CacheDir)
	if err != nil {
		return nil, nil, err
	}
	defer s.Close()

	ctx := context.Background()
	src, err := cachedNodes(ctx, s, sourceLang)
	if err != nil {
		return nil, nil, err
	}
	tgt, err := cachedNodes(ctx, s, targetLang)
	if err != nil {
		return nil, nil, err
	}

	cmp, err := compare.New(cfg.Compare)
	if err != nil {
		return nil, nil, err
	}
	out, err := cmp.Compare(src, tgt, sourceLang, targetLang, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	return out.Result, out.FileErrors, nil
}

func cachedNodes(ctx context.Context, s *store.Store, lang string) ([]types.DocumentNode, error) {
	nodes, err := s.Nodes(ctx, lang)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no cached nodes for language %q: run docparity parse first", lang)
	}
	return nodes, nil
}

func langFlags(cmd *cobra.Command, cfg types.PipelineConfig) (string, string) {
	sourceLang, _ := cmd.Flags().GetString("source-lang")
	if sourceLang == "" {
		sourceLang = cfg.Project.SourceLang
	}
	targetLang, _ := cmd.Flags().GetString("target-lang")
	if targetLang == "" {
		targetLang = cfg.Project.TargetLang
	}
	return sourceLang, targetLang
}

func printCoverageReport(result *types.ComparisonResult) {
	overall := result.CoverageStats.Overall
	fmt.Printf("comparison %s -> %s\n\n", result.SourceLang, result.TargetLang)
	fmt.Printf("coverage: %.1f%% strict, %.1f%% lenient (%d nodes: %d exact, %d fuzzy, %d missing)\n\n",
		overall.StrictCoverage()*100, overall.LenientCoverage()*100,
		overall.Total, overall.Exact, overall.Fuzzy, overall.Missing)

	files := make([]string, 0, len(result.CoverageStats.ByFile))
	for f := range result.CoverageStats.ByFile {
		files = append(files, f)
	}
	sort.Strings(files)

	fmt.Printf("%-40s  %7s  %7s  %7s  %7s\n", "File", "Strict", "Total", "Fuzzy", "Missing")
	fmt.Println(strings.Repeat("-", 78))
	for _, f := range files {
		c := result.CoverageStats.ByFile[f]
		name := f
		if len(name) > 40 {
			name = "..." + name[len(name)-37:]
		}
		fmt.Printf("%-40s  %6.1f%%  %7d  %7d  %7d\n",
			name, c.StrictCoverage()*100, c.Total, c.Fuzzy, c.Missing)
	}

	if len(result.StructureDiff) > 0 {
		fmt.Println("\nstructure diff (target - source):")
		kinds := make([]string, 0, len(result.StructureDiff))
		for k := range result.StructureDiff {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			d := result.StructureDiff[types.NodeKind(k)]
			if d.Diff == 0 {
				continue
			}
			fmt.Printf("  %-12s %+d (%d source, %d target)\n", k, d.Diff, d.Source, d.Target)
		}
	}
}

func init() {
	compareCmd.Flags().String("source-lang", "", "source language code (default from config)")
	compareCmd.Flags().String("target-lang", "", "target language code (default from config)")
	compareCmd.Flags().Float64("threshold", 0, "fuzzy similarity threshold, 0..1")
	compareCmd.Flags().Int("workers", 0, "parallel file workers")
	compareCmd.Flags().Bool("json", false, "output the full comparison result as JSON")

	rootCmd.AddCommand(compareCmd)
}
