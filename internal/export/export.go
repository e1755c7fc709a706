// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes comparison results and translation batches to a
// versioned JSON document and reads filled-in translations back. The
// document is the handoff format between this tool and whatever does
// the actual translating.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/docparity/docparity/pkg/types"
)

// SchemaVersion is the only document version this build reads or
// writes. Import rejects anything else.
const SchemaVersion = "1.0"

// Statistics summarizes a run for the document metadata block.
type Statistics struct {
	TotalNodes         int     `json:"total_nodes"`
	Exact              int     `json:"exact"`
	Fuzzy              int     `json:"fuzzy"`
	Missing            int     `json:"missing"`
	TotalFiles         int     `json:"total_files"`
	CoveragePercentage float64 `json:"coverage_percentage"`
	TotalBatches       int     `json:"total_batches"`
	EstimatedTokens    int     `json:"estimated_tokens"`
	BatchEfficiency    float64 `json:"batch_efficiency"`
	APICallsSaved      int     `json:"api_calls_saved"`
}

// Metadata describes the run that produced a document.
type Metadata struct {
	ToolVersion     string     `json:"docparity_version"`
	ExportTimestamp time.Time  `json:"export_timestamp"`
	SourceLang      string     `json:"source_lang"`
	TargetLang      string     `json:"target_lang"`
	Statistics      Statistics `json:"statistics"`
}

// Unit is one translation unit. Source carries the source-language
// content; translators fill Target in place and the file round-trips
// through import.
type Unit struct {
	ID          string   `json:"id"`
	TargetID    string   `json:"target_id,omitempty"`
	Kind        string   `json:"kind"`
	Level       int      `json:"level,omitempty"`
	Source      string   `json:"source"`
	Target      string   `json:"target"`
	Status      string   `json:"status"`
	FilePath    string   `json:"file_path"`
	LineNumber  int      `json:"line_number"`
	ParentID    string   `json:"parent_id,omitempty"`
	ChildrenIDs []string `json:"children_ids,omitempty"`
}

// Document is the complete export schema.
type Document struct {
	SchemaVersion      string                   `json:"schema_version"`
	Metadata           Metadata                 `json:"metadata"`
	Units              map[string]Unit          `json:"units"`
	TranslationBatches []types.TranslationBatch `json:"translation_batches"`
}

// Build assembles a document from a comparison result and the batches
// packed from its untranslated nodes.
func Build(result *types.ComparisonResult, batches []types.TranslationBatch, metrics types.PackingMetrics, toolVersion string) *Document {
	units := make(map[string]Unit, len(result.Mappings))
	tokens := 0
	for _, b := range batches {
		tokens += b.EstimatedTokens
	}

	for _, m := range result.Mappings {
		n := m.SourceNode
		u := Unit{
			ID:          n.ID,
			Kind:        string(n.Kind),
			Level:       n.Level,
			Source:      n.Content,
			Status:      string(m.Kind),
			FilePath:    n.FilePath,
			LineNumber:  n.LineNumber,
			ParentID:    n.ParentID,
			ChildrenIDs: n.ChildrenIDs,
		}
		if m.TargetNode != nil {
			u.TargetID = m.TargetNode.ID
			u.Target = m.TargetNode.Content
		}
		units[n.ID] = u
	}

	overall := result.CoverageStats.Overall
	return &Document{
		SchemaVersion: SchemaVersion,
		Metadata: Metadata{
			ToolVersion:     toolVersion,
			ExportTimestamp: time.Now().UTC(),
			SourceLang:      result.SourceLang,
			TargetLang:      result.TargetLang,
			Statistics: Statistics{
				TotalNodes:         overall.Total,
				Exact:              overall.Exact,
				Fuzzy:              overall.Fuzzy,
				Missing:            overall.Missing,
				TotalFiles:         len(result.CoverageStats.ByFile),
				CoveragePercentage: overall.StrictCoverage() * 100,
				TotalBatches:       metrics.TotalBatches,
				EstimatedTokens:    tokens,
				BatchEfficiency:    metrics.BatchEfficiency,
				APICallsSaved:      metrics.APICallsSaved,
			},
		},
		Units:              units,
		TranslationBatches: batches,
	}
}

// Write serializes doc as indented JSON.
func Write(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding export document: %w", err)
	}
	return nil
}

// Read parses and validates a document. Documents without a schema
// version, or with one this build does not understand, are rejected.
func Read(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding export document: %w", err)
	}
	if doc.SchemaVersion == "" {
		return nil, fmt.Errorf("document has no schema_version; only version %s is supported", SchemaVersion)
	}
	if doc.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("unsupported schema version %s; only version %s is supported", doc.SchemaVersion, SchemaVersion)
	}
	return &doc, nil
}

// Translations collects the filled-in target texts from a document.
// Keys are target node ids where a target node exists (fuzzy matches),
// source ids otherwise. Units whose target is still empty are skipped,
// as are units whose source already had an exact counterpart.
func (d *Document) Translations() map[string]string {
	out := make(map[string]string)
	for id, u := range d.Units {
		if u.Target == "" {
			continue
		}
		if u.Status == string(types.MappingExact) {
			continue
		}
		key := u.TargetID
		if key == "" {
			key = id
		}
		out[key] = u.Target
	}
	return out
}

// BatchNodes resolves a batch's node ids against the unit table.
// Unknown ids are skipped.
func (d *Document) BatchNodes(batchID int) []Unit {
	for _, b := range d.TranslationBatches {
		if b.BatchID != batchID {
			continue
		}
		units := make([]Unit, 0, len(b.NodeIDs))
		for _, id := range b.NodeIDs {
			if u, ok := d.Units[id]; ok {
				units = append(units, u)
			}
		}
		return units
	}
	return nil
}
