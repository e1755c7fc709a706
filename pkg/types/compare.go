// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// MappingKind categorizes the alignment outcome for one source node.
type MappingKind string

const (
	MappingExact   MappingKind = "exact"
	MappingFuzzy   MappingKind = "fuzzy"
	MappingMissing MappingKind = "missing"
)

// NodeMapping is the alignment outcome for one source node against the
// target tree. Each target node is consumed by at most one mapping and
// every source node appears in exactly one mapping.
type NodeMapping struct {
	// SourceNode is the node being aligned.
	SourceNode DocumentNode `json:"source_node" yaml:"source_node"`

	// TargetNode is the matched node, nil when the mapping is missing.
	TargetNode *DocumentNode `json:"target_node,omitempty" yaml:"target_node,omitempty"`

	// Kind is exact, fuzzy, or missing.
	Kind MappingKind `json:"mapping_kind" yaml:"mapping_kind"`

	// Similarity is the content-similarity score in [0, 1]. Exact matches
	// score 1.0, missing mappings 0.0.
	Similarity float64 `json:"similarity" yaml:"similarity"`

	// MetadataMatch reports label/name agreement between the two nodes.
	MetadataMatch bool `json:"metadata_match" yaml:"metadata_match"`
}

// IsTranslated reports whether the source node has a target counterpart.
func (m NodeMapping) IsTranslated() bool { return m.TargetNode != nil }

// NeedsTranslation reports whether the source node should be submitted
// for translation: missing entirely, or fuzzy (stale).
func (m NodeMapping) NeedsTranslation() bool {
	return m.Kind == MappingMissing || m.Kind == MappingFuzzy
}

// CoverageCounts holds mapping counts for one file or for a whole run.
type CoverageCounts struct {
	Total   int `json:"total" yaml:"total"`
	Exact   int `json:"exact" yaml:"exact"`
	Fuzzy   int `json:"fuzzy" yaml:"fuzzy"`
	Missing int `json:"missing" yaml:"missing"`
}

// StrictCoverage is the fraction of source nodes with an exact match.
func (c CoverageCounts) StrictCoverage() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Exact) / float64(c.Total)
}

// LenientCoverage counts fuzzy matches as translated.
func (c CoverageCounts) LenientCoverage() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Exact+c.Fuzzy) / float64(c.Total)
}

// CoverageStats aggregates mapping counts per file and overall.
type CoverageStats struct {
	Overall CoverageCounts            `json:"overall" yaml:"overall"`
	ByFile  map[string]CoverageCounts `json:"by_file" yaml:"by_file"`
}

// KindDelta holds per-kind node counts for the two trees.
type KindDelta struct {
	Source int `json:"source" yaml:"source"`
	Target int `json:"target" yaml:"target"`
	Diff   int `json:"diff" yaml:"diff"`
}

// StructureDiff maps each node kind to its count delta between trees.
// Target-only leftovers (nodes present in target with no source
// counterpart) show up here as positive diffs rather than as mappings.
type StructureDiff map[NodeKind]KindDelta

// ComparisonResult is the complete, immutable output of one comparison
// invocation. Mappings are ordered by (file path, source document order)
// so identical inputs always yield identical results.
type ComparisonResult struct {
	SourceLang    string        `json:"source_lang" yaml:"source_lang"`
	TargetLang    string        `json:"target_lang" yaml:"target_lang"`
	Mappings      []NodeMapping `json:"mappings" yaml:"mappings"`
	CoverageStats CoverageStats `json:"coverage_stats" yaml:"coverage_stats"`
	StructureDiff StructureDiff `json:"structure_diff" yaml:"structure_diff"`
	Timestamp     time.Time     `json:"timestamp" yaml:"timestamp"`
}

// NeedingTranslation returns the source nodes whose mappings are missing
// or fuzzy, in result order. This is the usual input to batch packing.
func (r *ComparisonResult) NeedingTranslation() []DocumentNode {
	var nodes []DocumentNode
	for _, m := range r.Mappings {
		if m.NeedsTranslation() {
			nodes = append(nodes, m.SourceNode)
		}
	}
	return nodes
}
