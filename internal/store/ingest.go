// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/docparity/docparity/internal/parser"
)

// IngestSummary holds counts from a directory ingestion run.
type IngestSummary struct {
	Parsed  int
	Skipped int
	Failed  int
	Nodes   int
}

// Total returns the number of files processed.
func (s IngestSummary) Total() int {
	return s.Parsed + s.Skipped + s.Failed
}

// HasFailures reports whether any files failed.
func (s IngestSummary) HasFailures() bool {
	return s.Failed > 0
}

// IngestDir parses every .md file under root and caches the nodes for
// lang. Files whose content hash matches the cache are skipped, so
// repeated runs only pay for what changed. Failures are logged on w and
// the run continues.
func (s *Store) IngestDir(ctx context.Context, root, lang string, w io.Writer) (IngestSummary, error) {
	p := parser.NewMarkdownParser()
	var summary IngestSummary

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", rel, err)
			summary.Failed++
			return nil
		}
		hash := ContentHash(data)

		unchanged, err := s.FileUnchanged(ctx, lang, rel, hash)
		if err != nil {
			return err
		}
		if unchanged {
			fmt.Fprintf(w, "skipped %s\n", rel)
			summary.Skipped++
			return nil
		}

		nodes, err := p.Parse(strings.NewReader(string(data)), rel, lang)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", rel, err)
			summary.Failed++
			return nil
		}

		if err := s.SaveFile(ctx, lang, rel, hash, nodes); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", rel, err)
			summary.Failed++
			return nil
		}

		fmt.Fprintf(w, "parsed  %s (%d nodes)\n", rel, len(nodes))
		summary.Parsed++
		summary.Nodes += len(nodes)
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("walking %s: %w", root, err)
	}

	fmt.Fprintf(w, "\nparsed: %d, skipped: %d, failed: %d\n",
		summary.Parsed, summary.Skipped, summary.Failed)
	return summary, nil
}
