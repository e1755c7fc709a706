// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package glossary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/docparity/docparity/pkg/types"
)

func sampleTerms() []types.GlossaryTerm {
	return []types.GlossaryTerm{
		{Term: "Sphinx", Definition: "Documentation generator", MaintainOriginal: true},
		{Term: "toctree", Definition: "Table of contents directive", Aliases: []string{"toc tree"}},
		{Term: "node", Definition: "Structural unit", Translation: "ノード"},
	}
}

func TestFindInText(t *testing.T) {
	g := New(sampleTerms())

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"no match", "plain paragraph", []string{}},
		{"canonical term", "Build docs with Sphinx.", []string{"Sphinx"}},
		{"case insensitive", "build docs with SPHINX", []string{"Sphinx"}},
		{"alias match", "Add a toc tree at the top.", []string{"toctree"}},
		{"multiple in glossary order", "A Sphinx node inside a toctree.", []string{"Sphinx", "toctree", "node"}},
		{"empty text", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := g.FindInText(tt.text)
			if len(found) != len(tt.want) {
				t.Fatalf("found %d terms, want %d", len(found), len(tt.want))
			}
			for i, term := range found {
				if term.Term != tt.want[i] {
					t.Errorf("found[%d] = %q, want %q", i, term.Term, tt.want[i])
				}
			}
		})
	}
}

func TestLookup(t *testing.T) {
	g := New(sampleTerms())

	if term, ok := g.Lookup("TOC TREE"); !ok || term.Term != "toctree" {
		t.Errorf("Lookup alias = (%v, %v), want toctree", term.Term, ok)
	}
	if _, ok := g.Lookup("unknown"); ok {
		t.Error("Lookup(unknown) should not match")
	}
}

func TestDuplicateTermLastWins(t *testing.T) {
	g := New([]types.GlossaryTerm{
		{Term: "API", Definition: "first"},
		{Term: "api", Definition: "second"},
	})
	if g.Len() != 1 {
		t.Fatalf("Len = %d, want 1", g.Len())
	}
	term, _ := g.Lookup("API")
	if term.Definition != "second" {
		t.Errorf("duplicate term definition = %q, want second", term.Definition)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "glossary.yaml")
	content := `terms:
  - term: Sphinx
    definition: Documentation generator
    maintain_original: true
  - term: node
    definition: Structural unit
    translation: ノード
    aliases: [nodes]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if g.Len() != 2 {
		t.Fatalf("Len = %d, want 2", g.Len())
	}
	term, ok := g.Lookup("nodes")
	if !ok || term.Translation != "ノード" {
		t.Errorf("alias lookup = (%+v, %v)", term, ok)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "glossary.json")
	content := `{"terms": [{"term": "API", "definition": "interface", "maintain_original": true}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	term, ok := g.Lookup("API")
	if !ok || !term.MaintainOriginal {
		t.Errorf("Lookup(API) = (%+v, %v)", term, ok)
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	g, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if g.Len() != 0 {
		t.Errorf("Len = %d, want 0", g.Len())
	}
	if found := g.FindInText("anything"); found != nil {
		t.Errorf("empty glossary matched %v", found)
	}
}
