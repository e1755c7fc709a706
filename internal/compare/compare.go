// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compare aligns a source document tree against a target tree and
// classifies every source node as exactly translated, fuzzily matched, or
// missing. Matching runs independently per file pair, which keeps the
// passes near-linear and allows per-file parallelism with deterministic
// output.
package compare

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/docparity/docparity/pkg/types"
)

// maxFuzzySimilarity caps fuzzy scores so a 1.0 similarity is reserved
// for exact (label/name) matches.
const maxFuzzySimilarity = 0.99

// Comparator aligns node trees. It is stateless across invocations and
// safe for concurrent use.
type Comparator struct {
	threshold float64
	workers   int
}

// Output holds a comparison result together with per-file failures.
// A structural inconsistency aborts matching for its file only; the
// failure is reported here and the run continues.
type Output struct {
	Result *types.ComparisonResult

	// FileErrors lists files skipped due to structural inconsistencies,
	// in file-path order.
	FileErrors []string
}

// New builds a comparator, validating the configuration first.
func New(cfg types.CompareConfig) (*Comparator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	threshold := cfg.SimilarityThreshold
	if threshold == 0 {
		threshold = 0.6
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	return &Comparator{threshold: threshold, workers: workers}, nil
}

// Compare aligns sourceNodes against targetNodes. Both lists arrive in
// depth-first document order; grouping by file path is meaningful and
// matching never crosses files. Progress and warnings go to w.
//
// Running Compare twice on identical inputs yields identical results:
// files are processed in lexicographic path order and mappings preserve
// source document order, whatever the worker count.
func (c *Comparator) Compare(sourceNodes, targetNodes []types.DocumentNode, sourceLang, targetLang string, w io.Writer) (Output, error) {
	srcByFile := groupByFile(sourceNodes)
	tgtByFile := groupByFile(targetNodes)

	files := make([]string, 0, len(srcByFile))
	for f := range srcByFile {
		files = append(files, f)
	}
	sort.Strings(files)

	perFile := make([][]types.NodeMapping, len(files))
	perFileErr := make([]error, len(files))

	var wg sync.WaitGroup
	work := make(chan int)
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				file := files[idx]
				perFile[idx], perFileErr[idx] = c.matchFile(srcByFile[file], tgtByFile[file])
			}
		}()
	}
	for idx := range files {
		work <- idx
	}
	close(work)
	wg.Wait()

	var mappings []types.NodeMapping
	var fileErrors []string
	for idx, file := range files {
		if err := perFileErr[idx]; err != nil {
			fmt.Fprintf(w, "skipped %s: %v\n", file, err)
			fileErrors = append(fileErrors, fmt.Sprintf("%s: %v", file, err))
			continue
		}
		mappings = append(mappings, perFile[idx]...)
	}

	result := &types.ComparisonResult{
		SourceLang:    sourceLang,
		TargetLang:    targetLang,
		Mappings:      mappings,
		CoverageStats: coverage(mappings),
		StructureDiff: structureDiff(sourceNodes, targetNodes),
		Timestamp:     time.Now().UTC(),
	}
	return Output{Result: result, FileErrors: fileErrors}, nil
}

// matchFile runs the three matching passes for one file pair. An empty
// target list is valid: every source node comes back missing.
func (c *Comparator) matchFile(src, tgt []types.DocumentNode) ([]types.NodeMapping, error) {
	if err := checkEdges(src); err != nil {
		return nil, err
	}
	if err := checkEdges(tgt); err != nil {
		return nil, err
	}

	mappings := make([]types.NodeMapping, len(src))
	matched := make([]bool, len(src))
	consumed := make([]bool, len(tgt))

	// Pass 1: exact matches on (label, name) identity plus kind. Targets
	// are indexed by key; the first target in document order wins a key.
	tgtByKey := make(map[matchKey][]int)
	for i, n := range tgt {
		if n.Label == "" && n.Name == "" {
			continue
		}
		k := keyOf(n)
		tgtByKey[k] = append(tgtByKey[k], i)
	}
	for i, n := range src {
		if n.Label == "" && n.Name == "" {
			continue
		}
		candidates := tgtByKey[keyOf(n)]
		for len(candidates) > 0 {
			j := candidates[0]
			candidates = candidates[1:]
			if consumed[j] {
				continue
			}
			consumed[j] = true
			tgtByKey[keyOf(n)] = candidates
			target := tgt[j]
			mappings[i] = types.NodeMapping{
				SourceNode:    n,
				TargetNode:    &target,
				Kind:          types.MappingExact,
				Similarity:    1.0,
				MetadataMatch: true,
			}
			matched[i] = true
			break
		}
	}

	// Pass 2: fuzzy content matching among leftovers of the same kind.
	// Greedy in source document order; ties break toward the closest
	// document position to keep alignment locality-stable.
	for i, n := range src {
		if matched[i] {
			continue
		}
		best, bestScore, bestDist := -1, 0.0, 0
		for j, t := range tgt {
			if consumed[j] || t.Kind != n.Kind {
				continue
			}
			score := Similarity(n.Content, t.Content)
			if score < c.threshold {
				continue
			}
			dist := abs(i - j)
			if score > bestScore || (score == bestScore && dist < bestDist) {
				best, bestScore, bestDist = j, score, dist
			}
		}
		if best >= 0 {
			consumed[best] = true
			target := tgt[best]
			mappings[i] = types.NodeMapping{
				SourceNode:    n,
				TargetNode:    &target,
				Kind:          types.MappingFuzzy,
				Similarity:    min(bestScore, maxFuzzySimilarity),
				MetadataMatch: false,
			}
			matched[i] = true
		}
	}

	// Pass 3: everything still unmatched is missing. Leftover target
	// nodes are not mapped; they surface in the structure diff.
	for i, n := range src {
		if !matched[i] {
			mappings[i] = types.NodeMapping{
				SourceNode: n,
				Kind:       types.MappingMissing,
				Similarity: 0.0,
			}
		}
	}
	return mappings, nil
}

type matchKey struct {
	label string
	name  string
	kind  types.NodeKind
}

func keyOf(n types.DocumentNode) matchKey {
	return matchKey{label: n.Label, name: n.Name, kind: n.Kind}
}

// checkEdges validates tree-edge consistency within one file: every
// ParentID must resolve to a node in the same file.
func checkEdges(nodes []types.DocumentNode) error {
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}
	for _, n := range nodes {
		if n.ParentID != "" && !ids[n.ParentID] {
			return &types.StructuralError{NodeID: n.ID, Ref: n.ParentID, FilePath: n.FilePath}
		}
	}
	return nil
}

// groupByFile splits a document-order node list into per-file lists,
// preserving order within each file.
func groupByFile(nodes []types.DocumentNode) map[string][]types.DocumentNode {
	byFile := make(map[string][]types.DocumentNode)
	for _, n := range nodes {
		byFile[n.FilePath] = append(byFile[n.FilePath], n)
	}
	return byFile
}

// coverage aggregates mapping counts per file and overall.
func coverage(mappings []types.NodeMapping) types.CoverageStats {
	stats := types.CoverageStats{ByFile: make(map[string]types.CoverageCounts)}
	for _, m := range mappings {
		c := stats.ByFile[m.SourceNode.FilePath]
		c.Total++
		stats.Overall.Total++
		switch m.Kind {
		case types.MappingExact:
			c.Exact++
			stats.Overall.Exact++
		case types.MappingFuzzy:
			c.Fuzzy++
			stats.Overall.Fuzzy++
		default:
			c.Missing++
			stats.Overall.Missing++
		}
		stats.ByFile[m.SourceNode.FilePath] = c
	}
	return stats
}

// structureDiff counts nodes per kind in both trees. Target-only nodes
// show up as positive diffs.
func structureDiff(src, tgt []types.DocumentNode) types.StructureDiff {
	diff := make(types.StructureDiff)
	for _, n := range src {
		d := diff[n.Kind]
		d.Source++
		diff[n.Kind] = d
	}
	for _, n := range tgt {
		d := diff[n.Kind]
		d.Target++
		diff[n.Kind] = d
	}
	for k, d := range diff {
		d.Diff = d.Target - d.Source
		diff[k] = d
	}
	return diff
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
