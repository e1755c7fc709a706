// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/docparity/docparity/internal/assemble"
	"github.com/docparity/docparity/internal/batch"
	"github.com/docparity/docparity/internal/export"
	"github.com/docparity/docparity/internal/glossary"
	"github.com/docparity/docparity/internal/store"
	"github.com/docparity/docparity/internal/token"
	"github.com/docparity/docparity/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export untranslated nodes as token-budgeted translation batches",
	Long: `Export compares the cached language trees, packs every node that still
needs translation into token-budgeted batches, and writes a versioned JSON
handoff file. Translators (human or machine) fill in the target fields and
the file comes back through docparity import.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	applyBatchFlags(cmd, &cfg.Batch)

	result, fileErrors, err := compareFromCache(cmd)
	if err != nil {
		return err
	}
	if len(fileErrors) > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d file(s) skipped during comparison\n", len(fileErrors))
	}

	pending := result.NeedingTranslation()
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].FilePath != pending[j].FilePath {
			return pending[i].FilePath < pending[j].FilePath
		}
		return pending[i].LineNumber < pending[j].LineNumber
	})

	est := token.NewEstimator(cfg.Token)

	var asm *assemble.Assembler
	if cfg.Batch.EnableContext {
		s, err := store.NewStore(cfg.Project.CacheDir)
		if err != nil {
			return err
		}
		defer s.Close()

		src, err := s.Nodes(context.Background(), result.SourceLang)
		if err != nil {
			return err
		}
		gloss, err := glossary.Load(cfg.Project.GlossaryFile)
		if err != nil {
			return err
		}
		asm = assemble.New(src, gloss)
	}

	packer, err := batch.NewPacker(cfg.Batch, est, asm)
	if err != nil {
		return err
	}
	batches, metrics, err := packer.Pack(pending, os.Stderr)
	if err != nil {
		return err
	}

	doc := export.Build(result, batches, metrics, version)

	output, _ := cmd.Flags().GetString("output")
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	defer f.Close()
	if err := export.Write(f, doc); err != nil {
		return err
	}

	fmt.Printf("exported %d nodes in %d batches to %s\n",
		metrics.TotalNodes, metrics.TotalBatches, output)
	fmt.Printf("batch efficiency %.2f, %d API calls saved",
		metrics.BatchEfficiency, metrics.APICallsSaved)
	if metrics.OversizedBatches > 0 {
		fmt.Printf(", %d oversized batch(es)", metrics.OversizedBatches)
	}
	fmt.Println()
	return nil
}

func applyBatchFlags(cmd *cobra.Command, cfg *types.BatchConfig) {
	if v, _ := cmd.Flags().GetInt("target-size"); cmd.Flags().Changed("target-size") {
		cfg.TargetSize = v
	}
	if v, _ := cmd.Flags().GetInt("min-size"); cmd.Flags().Changed("min-size") {
		cfg.MinSize = v
	}
	if v, _ := cmd.Flags().GetInt("max-size"); cmd.Flags().Changed("max-size") {
		cfg.MaxSize = v
	}
	if v, _ := cmd.Flags().GetBool("context"); cmd.Flags().Changed("context") {
		cfg.EnableContext = v
	}
}

func init() {
	exportCmd.Flags().String("output", "translations.json", "path of the export file")
	exportCmd.Flags().Int("target-size", 0, "preferred batch size in tokens")
	exportCmd.Flags().Int("min-size", 0, "minimum batch size in tokens")
	exportCmd.Flags().Int("max-size", 0, "hard batch token ceiling")
	exportCmd.Flags().Bool("context", false, "attach surrounding context to each batch")
	exportCmd.Flags().String("source-lang", "", "source language code (default from config)")
	exportCmd.Flags().String("target-lang", "", "target language code (default from config)")
	exportCmd.Flags().Float64("threshold", 0, "fuzzy similarity threshold, 0..1")
	exportCmd.Flags().Int("workers", 0, "parallel file workers")

	rootCmd.AddCommand(exportCmd)
}
