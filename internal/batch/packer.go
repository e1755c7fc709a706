// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch groups translation units into token-bounded batches while
// preserving document locality. Packing is a single greedy pass: section
// boundaries win over size optimization, the token ceiling forces a
// flush, and a batch closes eagerly once it reaches the target size.
// The pass is linear and the output order locality-stable.
package batch

import (
	"fmt"
	"io"

	"github.com/docparity/docparity/internal/assemble"
	"github.com/docparity/docparity/internal/token"
	"github.com/docparity/docparity/pkg/types"
)

// Packer turns a pre-filtered, (file, line)-sorted node list into
// batches. Independent packing runs may execute concurrently; a single
// Pack call is sequential, since correctness depends on document order.
type Packer struct {
	cfg types.BatchConfig
	est *token.Estimator
	asm *assemble.Assembler
}

// NewPacker validates cfg and builds a packer. asm supplies context bags
// and may be nil when cfg.EnableContext is false.
func NewPacker(cfg types.BatchConfig, est *token.Estimator, asm *assemble.Assembler) (*Packer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.EnableContext && asm == nil {
		return nil, fmt.Errorf("context enabled but no assembler provided")
	}
	return &Packer{cfg: cfg, est: est, asm: asm}, nil
}

// Pack batches nodes in input order. The emitted batches partition the
// input: every node id lands in exactly one batch. Oversized singletons
// are warned about on w and flagged, never split and never an error.
func (p *Packer) Pack(nodes []types.DocumentNode, w io.Writer) ([]types.TranslationBatch, types.PackingMetrics, error) {
	var (
		batches       []types.TranslationBatch
		current       []types.DocumentNode
		currentTokens int
	)

	flush := func(oversized bool) error {
		if len(current) == 0 {
			return nil
		}
		b, err := p.finalize(current, currentTokens, len(batches)+1, oversized)
		if err != nil {
			return err
		}
		batches = append(batches, b)
		current = nil
		currentTokens = 0
		return nil
	}

	for _, n := range nodes {
		// Section boundaries flush whatever accumulated, full or not.
		if startsSection(n) {
			if err := flush(false); err != nil {
				return nil, types.PackingMetrics{}, err
			}
		}

		nodeTokens := p.est.EstimateNode(n)

		if nodeTokens > p.cfg.MaxSize {
			// A single unit over the ceiling is emitted alone; the
			// overrun shows up in metrics, never as an error.
			if err := flush(false); err != nil {
				return nil, types.PackingMetrics{}, err
			}
			fmt.Fprintf(w, "warning: node %s estimates %d tokens, over ceiling %d; emitting as its own batch\n",
				n.ID, nodeTokens, p.cfg.MaxSize)
			current = []types.DocumentNode{n}
			currentTokens = nodeTokens
			if err := flush(true); err != nil {
				return nil, types.PackingMetrics{}, err
			}
			continue
		}

		if currentTokens+nodeTokens > p.cfg.MaxSize {
			if err := flush(false); err != nil {
				return nil, types.PackingMetrics{}, err
			}
		}

		current = append(current, n)
		currentTokens += nodeTokens

		// Eager closure once the optimal zone is reached.
		if currentTokens >= p.cfg.TargetSize {
			if err := flush(false); err != nil {
				return nil, types.PackingMetrics{}, err
			}
		}
	}
	if err := flush(false); err != nil {
		return nil, types.PackingMetrics{}, err
	}

	return batches, p.metrics(len(nodes), batches), nil
}

// finalize stamps a flushed batch with its id, file group, section
// range, and optional context bag.
func (p *Packer) finalize(nodes []types.DocumentNode, tokens, id int, oversized bool) (types.TranslationBatch, error) {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}

	b := types.TranslationBatch{
		BatchID:         id,
		EstimatedTokens: tokens,
		FileGroup:       dominantFile(nodes),
		SectionRange:    sectionRange(nodes),
		NodeIDs:         ids,
		OversizedUnit:   oversized,
	}

	if p.cfg.EnableContext {
		ctx, err := p.asm.BatchContext(ids, p.cfg.ContextWindow)
		if err != nil {
			return types.TranslationBatch{}, err
		}
		b.Context = ctx
	}
	return b, nil
}

// startsSection reports whether n opens a new top-level section.
func startsSection(n types.DocumentNode) bool {
	return n.Kind == types.KindSection && n.Level <= 1
}

// dominantFile returns the file contributing the most nodes to the
// batch; ties go to the first file seen, keeping output deterministic.
func dominantFile(nodes []types.DocumentNode) string {
	counts := make(map[string]int)
	best, bestCount := "", 0
	for _, n := range nodes {
		counts[n.FilePath]++
		if counts[n.FilePath] > bestCount {
			best, bestCount = n.FilePath, counts[n.FilePath]
		}
	}
	return best
}

// sectionRange builds the human-readable span descriptor from the first
// and last node titles, falling back to line numbers when untitled.
func sectionRange(nodes []types.DocumentNode) string {
	first := nodeTitle(nodes[0])
	last := nodeTitle(nodes[len(nodes)-1])
	switch {
	case first == "" && last == "":
		return fmt.Sprintf("lines %d-%d", nodes[0].LineNumber, nodes[len(nodes)-1].LineNumber)
	case first == last || last == "":
		return first
	case first == "":
		return last
	default:
		return first + " to " + last
	}
}

func nodeTitle(n types.DocumentNode) string {
	if n.Title != "" {
		return n.Title
	}
	return n.Caption
}

// metrics summarizes a completed run. Reporting only; packing decisions
// never read these.
func (p *Packer) metrics(inputCount int, batches []types.TranslationBatch) types.PackingMetrics {
	m := types.PackingMetrics{
		TotalNodes:   inputCount,
		TotalBatches: len(batches),
	}
	if len(batches) == 0 {
		return m
	}

	m.APICallsSaved = inputCount - len(batches)
	total := 0
	m.MinBatchTokens = batches[0].EstimatedTokens
	for _, b := range batches {
		total += b.EstimatedTokens
		if b.EstimatedTokens < m.MinBatchTokens {
			m.MinBatchTokens = b.EstimatedTokens
		}
		if b.EstimatedTokens > m.MaxBatchTokens {
			m.MaxBatchTokens = b.EstimatedTokens
		}
		if b.OversizedUnit {
			m.OversizedBatches++
		}
	}
	m.BatchEfficiency = float64(total) / float64(len(batches)) / float64(p.cfg.TargetSize)
	return m
}
