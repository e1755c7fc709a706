// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compare

import (
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/docparity/docparity/pkg/types"
)

func testComparator(t *testing.T) *Comparator {
	t.Helper()
	c, err := New(types.CompareConfig{SimilarityThreshold: 0.6, Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func node(id string, kind types.NodeKind, content, label, file string, line int) types.DocumentNode {
	return types.DocumentNode{
		ID:         id,
		Kind:       kind,
		Content:    content,
		Label:      label,
		FilePath:   file,
		LineNumber: line,
	}
}

func TestExactMatchAndMissing(t *testing.T) {
	// Source has labeled intro and body; target only translated intro
	// under the same label. Half coverage, no errors.
	src := []types.DocumentNode{
		node("s1", types.KindSection, "# Introduction", "intro", "index.md", 1),
		node("s2", types.KindParagraph, "Body paragraph.", "body", "index.md", 3),
	}
	tgt := []types.DocumentNode{
		node("t1", types.KindSection, "# Introduction", "intro", "index.md", 1),
	}

	out, err := testComparator(t).Compare(src, tgt, "en", "ja", io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	r := out.Result

	if len(r.Mappings) != 2 {
		t.Fatalf("got %d mappings, want 2", len(r.Mappings))
	}
	if r.Mappings[0].Kind != types.MappingExact || !r.Mappings[0].MetadataMatch || r.Mappings[0].Similarity != 1.0 {
		t.Errorf("intro mapping = %+v, want exact/metadata/1.0", r.Mappings[0])
	}
	if r.Mappings[0].TargetNode == nil || r.Mappings[0].TargetNode.ID != "t1" {
		t.Error("intro should map to t1")
	}
	if r.Mappings[1].Kind != types.MappingMissing || r.Mappings[1].TargetNode != nil || r.Mappings[1].Similarity != 0.0 {
		t.Errorf("body mapping = %+v, want missing", r.Mappings[1])
	}
	if got := r.CoverageStats.Overall.StrictCoverage(); got != 0.5 {
		t.Errorf("strict coverage = %g, want 0.5", got)
	}
}

func TestFuzzyMatchTypo(t *testing.T) {
	src := []types.DocumentNode{
		node("s1", types.KindParagraph, "Hello world", "", "index.md", 1),
	}
	tgt := []types.DocumentNode{
		node("t1", types.KindParagraph, "Hello wrold", "", "index.md", 1),
	}

	out, err := testComparator(t).Compare(src, tgt, "en", "ja", io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	m := out.Result.Mappings[0]
	if m.Kind != types.MappingFuzzy {
		t.Fatalf("kind = %s, want fuzzy", m.Kind)
	}
	if m.Similarity < 0.6 || m.Similarity >= 1.0 {
		t.Errorf("similarity = %g, want in [0.6, 1.0)", m.Similarity)
	}
	if m.MetadataMatch {
		t.Error("fuzzy match must not report metadata agreement")
	}
}

func TestFuzzyRestrictedToSameKind(t *testing.T) {
	src := []types.DocumentNode{
		node("s1", types.KindParagraph, "shared content here", "", "index.md", 1),
	}
	tgt := []types.DocumentNode{
		node("t1", types.KindTable, "shared content here", "", "index.md", 1),
	}

	out, err := testComparator(t).Compare(src, tgt, "en", "ja", io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if out.Result.Mappings[0].Kind != types.MappingMissing {
		t.Errorf("cross-kind content matched: %+v", out.Result.Mappings[0])
	}
}

func TestFuzzyTieBreaksByProximity(t *testing.T) {
	// Two identical-content candidates; the closer one by index wins.
	src := []types.DocumentNode{
		node("s1", types.KindParagraph, "alpha beta gamma", "", "index.md", 1),
		node("s2", types.KindParagraph, "same same same text", "", "index.md", 3),
	}
	tgt := []types.DocumentNode{
		node("t1", types.KindParagraph, "same same same txet", "", "index.md", 1),
		node("t2", types.KindParagraph, "same same same txet", "", "index.md", 3),
	}

	out, err := testComparator(t).Compare(src, tgt, "en", "ja", io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	m := out.Result.Mappings[1]
	if m.Kind != types.MappingFuzzy || m.TargetNode == nil || m.TargetNode.ID != "t2" {
		t.Errorf("s2 mapped to %+v, want t2 (closest index)", m.TargetNode)
	}
}

func TestTargetConsumedOnce(t *testing.T) {
	// Two sources competing for one target: only the first (greedy,
	// source order) gets it.
	src := []types.DocumentNode{
		node("s1", types.KindParagraph, "duplicate paragraph text", "", "index.md", 1),
		node("s2", types.KindParagraph, "duplicate paragraph text", "", "index.md", 3),
	}
	tgt := []types.DocumentNode{
		node("t1", types.KindParagraph, "duplicate paragraph text", "", "index.md", 1),
	}

	out, err := testComparator(t).Compare(src, tgt, "en", "ja", io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	r := out.Result
	if r.Mappings[0].Kind != types.MappingFuzzy {
		t.Errorf("s1 kind = %s, want fuzzy", r.Mappings[0].Kind)
	}
	if r.Mappings[1].Kind != types.MappingMissing {
		t.Errorf("s2 kind = %s, want missing (target already consumed)", r.Mappings[1].Kind)
	}
}

func TestEverySourceNodeMapsExactlyOnce(t *testing.T) {
	var src, tgt []types.DocumentNode
	files := []string{"a.md", "b.md", "c.md"}
	for fi, f := range files {
		for i := 0; i < 7; i++ {
			src = append(src, node(
				f+string(rune('0'+i)), types.KindParagraph,
				strings.Repeat("source text ", i+1), "", f, fi*10+i))
		}
		// Target has fewer nodes per file.
		for i := 0; i < 4; i++ {
			tgt = append(tgt, node(
				"t"+f+string(rune('0'+i)), types.KindParagraph,
				strings.Repeat("source text ", i+1), "", f, fi*10+i))
		}
	}

	out, err := testComparator(t).Compare(src, tgt, "en", "de", io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	r := out.Result

	if len(r.Mappings) != len(src) {
		t.Fatalf("got %d mappings, want %d", len(r.Mappings), len(src))
	}
	seen := make(map[string]bool)
	targets := make(map[string]bool)
	for _, m := range r.Mappings {
		if seen[m.SourceNode.ID] {
			t.Errorf("source %s mapped twice", m.SourceNode.ID)
		}
		seen[m.SourceNode.ID] = true
		if m.TargetNode != nil {
			if targets[m.TargetNode.ID] {
				t.Errorf("target %s consumed twice", m.TargetNode.ID)
			}
			targets[m.TargetNode.ID] = true
		}
		if m.Similarity < 0 || m.Similarity > 1 {
			t.Errorf("similarity %g out of bounds", m.Similarity)
		}
		if (m.Similarity == 1.0) != (m.Kind == types.MappingExact) {
			t.Errorf("similarity 1.0 must coincide with exact: %+v", m)
		}
	}
	c := r.CoverageStats.Overall
	if c.Exact+c.Fuzzy+c.Missing != len(src) {
		t.Errorf("counts %d+%d+%d != %d", c.Exact, c.Fuzzy, c.Missing, len(src))
	}
}

func TestMissingTargetFile(t *testing.T) {
	src := []types.DocumentNode{
		node("s1", types.KindParagraph, "only in source", "", "orphan.md", 1),
	}

	out, err := testComparator(t).Compare(src, nil, "en", "ja", io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.FileErrors) != 0 {
		t.Errorf("missing target file is not an error, got %v", out.FileErrors)
	}
	if out.Result.Mappings[0].Kind != types.MappingMissing {
		t.Errorf("kind = %s, want missing", out.Result.Mappings[0].Kind)
	}
}

func TestStructureDiffCountsTargetOnly(t *testing.T) {
	src := []types.DocumentNode{
		node("s1", types.KindParagraph, "one", "", "index.md", 1),
	}
	tgt := []types.DocumentNode{
		node("t1", types.KindParagraph, "one", "", "index.md", 1),
		node("t2", types.KindTable, "| extra |", "", "index.md", 3),
	}

	out, err := testComparator(t).Compare(src, tgt, "en", "ja", io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	d := out.Result.StructureDiff[types.KindTable]
	if d.Source != 0 || d.Target != 1 || d.Diff != 1 {
		t.Errorf("table delta = %+v, want target-only addition", d)
	}
}

func TestStructuralErrorSkipsFileOnly(t *testing.T) {
	src := []types.DocumentNode{
		{ID: "s1", Kind: types.KindParagraph, Content: "ok", FilePath: "good.md", LineNumber: 1},
		{ID: "s2", Kind: types.KindParagraph, Content: "broken", ParentID: "ghost", FilePath: "bad.md", LineNumber: 1},
	}
	tgt := []types.DocumentNode{
		{ID: "t1", Kind: types.KindParagraph, Content: "ok", FilePath: "good.md", LineNumber: 1},
	}

	var log strings.Builder
	out, err := testComparator(t).Compare(src, tgt, "en", "ja", &log)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.FileErrors) != 1 || !strings.Contains(out.FileErrors[0], "bad.md") {
		t.Fatalf("FileErrors = %v, want one entry for bad.md", out.FileErrors)
	}
	if len(out.Result.Mappings) != 1 || out.Result.Mappings[0].SourceNode.ID != "s1" {
		t.Errorf("good.md should still be compared, got %d mappings", len(out.Result.Mappings))
	}
	if !strings.Contains(log.String(), "skipped bad.md") {
		t.Errorf("expected skip warning in log, got %q", log.String())
	}
}

func TestCompareIdempotent(t *testing.T) {
	var src, tgt []types.DocumentNode
	for _, f := range []string{"z.md", "a.md", "m.md"} {
		src = append(src,
			node("s-"+f, types.KindSection, "# Heading for "+f, f+"-label", f, 1),
			node("p-"+f, types.KindParagraph, "Paragraph content in "+f, "", f, 3),
		)
		tgt = append(tgt,
			node("ts-"+f, types.KindSection, "# Heading for "+f, f+"-label", f, 1),
		)
	}

	c := testComparator(t)
	first, err := c.Compare(src, tgt, "en", "ja", io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := c.Compare(src, tgt, "en", "ja", io.Discard)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first.Result.Mappings, again.Result.Mappings) {
			t.Fatal("mapping order or values changed between identical runs")
		}
		if !reflect.DeepEqual(first.Result.CoverageStats, again.Result.CoverageStats) {
			t.Fatal("coverage changed between identical runs")
		}
	}
	// Files come back in lexicographic order regardless of input order.
	wantOrder := []string{"a.md", "a.md", "m.md", "m.md", "z.md", "z.md"}
	for i, m := range first.Result.Mappings {
		if m.SourceNode.FilePath != wantOrder[i] {
			t.Fatalf("mapping %d from %s, want %s", i, m.SourceNode.FilePath, wantOrder[i])
		}
	}
}

func TestEmptyInputs(t *testing.T) {
	out, err := testComparator(t).Compare(nil, nil, "en", "ja", io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Result.Mappings) != 0 {
		t.Errorf("got %d mappings for empty input", len(out.Result.Mappings))
	}
	if got := out.Result.CoverageStats.Overall.StrictCoverage(); got != 0 {
		t.Errorf("coverage of nothing = %g, want 0", got)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(types.CompareConfig{SimilarityThreshold: 1.5}); err == nil {
		t.Error("threshold 1.5 should be rejected")
	}
	if _, err := New(types.CompareConfig{SimilarityThreshold: -0.1}); err == nil {
		t.Error("negative threshold should be rejected")
	}
}
