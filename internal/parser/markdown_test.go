// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parser

import (
	"strings"
	"testing"

	"github.com/docparity/docparity/pkg/types"
)

func parseString(t *testing.T, input string) []types.DocumentNode {
	t.Helper()
	p := NewMarkdownParser()
	nodes, err := p.Parse(strings.NewReader(input), "doc.md", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return nodes
}

func TestParseHeadingHierarchy(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Deep content.

## Section B

Section B content.
`
	nodes := parseString(t, input)

	kinds := make([]types.NodeKind, len(nodes))
	for i, n := range nodes {
		kinds[i] = n.Kind
	}
	want := []types.NodeKind{
		types.KindSection, types.KindParagraph,
		types.KindSection, types.KindParagraph,
		types.KindSection, types.KindParagraph,
		types.KindSection, types.KindParagraph,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %d nodes (%v), want %d", len(kinds), kinds, len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("node %d kind = %s, want %s", i, kinds[i], want[i])
		}
	}

	title, secA, subA1, secB := nodes[0], nodes[2], nodes[4], nodes[6]
	if title.Level != 1 || title.Title != "Title" {
		t.Errorf("h1 = %+v", title)
	}
	if secA.ParentID != title.ID {
		t.Error("Section A should nest under Title")
	}
	if subA1.ParentID != secA.ID {
		t.Error("Subsection A1 should nest under Section A")
	}
	if secB.ParentID != title.ID {
		t.Error("Section B should nest under Title, not Subsection A1")
	}
	// Intro paragraph attaches to the h1.
	if nodes[1].ParentID != title.ID {
		t.Error("intro paragraph should attach to Title")
	}
	if len(title.ChildrenIDs) != 3 {
		t.Errorf("Title children = %v, want intro + two h2s", title.ChildrenIDs)
	}
}

func TestParseLabelAttachesToHeading(t *testing.T) {
	input := `(installation)=
# Installation

Run the installer.
`
	nodes := parseString(t, input)
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2 (label line is not a node)", len(nodes))
	}
	if nodes[0].Label != "installation" {
		t.Errorf("label = %q, want installation", nodes[0].Label)
	}
	if nodes[1].Kind != types.KindParagraph || nodes[1].Label != "" {
		t.Errorf("paragraph = %+v", nodes[1])
	}
}

func TestParseFencedCode(t *testing.T) {
	input := "# Setup\n\n```python\nprint(\"hi\")\n```\n"
	nodes := parseString(t, input)
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	code := nodes[1]
	if code.Kind != types.KindCodeBlock {
		t.Fatalf("kind = %s, want code_block", code.Kind)
	}
	if code.Language != "python" {
		t.Errorf("language = %q, want python", code.Language)
	}
	if code.Content != "print(\"hi\")" {
		t.Errorf("content = %q", code.Content)
	}
	if code.LineNumber != 3 {
		t.Errorf("line = %d, want 3", code.LineNumber)
	}
}

func TestParseDirectives(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     types.NodeKind
		check    func(t *testing.T, n types.DocumentNode)
	}{
		{
			name:  "figure",
			input: "```{figure} images/arch.png\n:name: fig-arch\n:alt: Architecture\nThe system architecture.\n```\n",
			kind:  types.KindFigure,
			check: func(t *testing.T, n types.DocumentNode) {
				if n.Name != "fig-arch" {
					t.Errorf("name = %q", n.Name)
				}
				if n.Caption != "The system architecture." {
					t.Errorf("caption = %q", n.Caption)
				}
				if n.Metadata["src"] != "images/arch.png" || n.Metadata["alt"] != "Architecture" {
					t.Errorf("metadata = %v", n.Metadata)
				}
			},
		},
		{
			name:  "math",
			input: "```{math}\n:name: eq-loss\nL = -\\sum y \\log p\n```\n",
			kind:  types.KindMathBlock,
			check: func(t *testing.T, n types.DocumentNode) {
				if n.Name != "eq-loss" {
					t.Errorf("name = %q", n.Name)
				}
				if !strings.Contains(n.Content, "\\sum") {
					t.Errorf("content = %q", n.Content)
				}
			},
		},
		{
			name:  "admonition",
			input: "```{warning}\nDo not do this in production.\n```\n",
			kind:  types.KindAdmonition,
			check: func(t *testing.T, n types.DocumentNode) {
				if n.Metadata["type"] != "warning" {
					t.Errorf("metadata = %v", n.Metadata)
				}
			},
		},
		{
			name:  "code-block directive",
			input: "```{code-block} go\n:caption: Hello\nfmt.Println(\"hi\")\n```\n",
			kind:  types.KindCodeBlock,
			check: func(t *testing.T, n types.DocumentNode) {
				if n.Language != "go" {
					t.Errorf("language = %q", n.Language)
				}
				if n.Caption != "Hello" {
					t.Errorf("caption = %q", n.Caption)
				}
			},
		},
		{
			name:  "toctree",
			input: "```{toctree}\n:maxdepth: 2\n:caption: Contents\nintro\nusage\n```\n",
			kind:  types.KindTocTree,
			check: func(t *testing.T, n types.DocumentNode) {
				if n.Metadata["maxdepth"] != "2" {
					t.Errorf("metadata = %v", n.Metadata)
				}
				if n.Caption != "Contents" {
					t.Errorf("caption = %q", n.Caption)
				}
				if n.Content != "intro\nusage" {
					t.Errorf("content = %q", n.Content)
				}
			},
		},
		{
			name:  "unknown directive",
			input: "```{glossary}\nterm\n  definition\n```\n",
			kind:  types.KindDirective,
			check: func(t *testing.T, n types.DocumentNode) {
				if n.Metadata["type"] != "glossary" {
					t.Errorf("metadata = %v", n.Metadata)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := parseString(t, tt.input)
			if len(nodes) != 1 {
				t.Fatalf("got %d nodes, want 1", len(nodes))
			}
			if nodes[0].Kind != tt.kind {
				t.Fatalf("kind = %s, want %s", nodes[0].Kind, tt.kind)
			}
			tt.check(t, nodes[0])
		})
	}
}

func TestParseTableAndList(t *testing.T) {
	input := `# Data

| Name | Value |
|------|-------|
| a    | 1     |

- first
- second
`
	nodes := parseString(t, input)
	if len(nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(nodes))
	}
	table, list := nodes[1], nodes[2]
	if table.Kind != types.KindTable {
		t.Errorf("kind = %s, want table", table.Kind)
	}
	if !strings.Contains(table.Content, "| Name | Value |") {
		t.Errorf("table content = %q", table.Content)
	}
	if list.Kind != types.KindList {
		t.Errorf("kind = %s, want list", list.Kind)
	}
	if !strings.Contains(list.Content, "- first") || !strings.Contains(list.Content, "- second") {
		t.Errorf("list content = %q", list.Content)
	}
}

func TestParseDeterministicIDs(t *testing.T) {
	input := "# Title\n\nSome paragraph.\n"
	a := parseString(t, input)
	b := parseString(t, input)
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Errorf("node %d id differs across runs: %s vs %s", i, a[i].ID, b[i].ID)
		}
	}
}

func TestParseLineNumbers(t *testing.T) {
	input := "# One\n\nFirst.\n\n## Two\n\nSecond.\n"
	nodes := parseString(t, input)
	wantLines := []int{1, 3, 5, 7}
	if len(nodes) != len(wantLines) {
		t.Fatalf("got %d nodes", len(nodes))
	}
	for i, want := range wantLines {
		if nodes[i].LineNumber != want {
			t.Errorf("node %d line = %d, want %d", i, nodes[i].LineNumber, want)
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	nodes := parseString(t, "")
	if len(nodes) != 0 {
		t.Errorf("got %d nodes for empty input", len(nodes))
	}
}

func TestParseRecordsFileAndLanguage(t *testing.T) {
	p := NewMarkdownParser()
	nodes, err := p.Parse(strings.NewReader("# Setup\n\nInstall it.\n"), "guide/setup.md", "ja")
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range nodes {
		if n.FilePath != "guide/setup.md" {
			t.Errorf("node %s file = %q", n.ID, n.FilePath)
		}
		if n.DocLanguage != "ja" {
			t.Errorf("node %s language = %q", n.ID, n.DocLanguage)
		}
	}
}
