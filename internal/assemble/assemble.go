// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble builds context bags for translation units: the nodes
// surrounding a unit in document order, its enclosing section title, and
// matching terminology. Assembly is read-only; input nodes are never
// mutated.
package assemble

import (
	"strings"

	"github.com/docparity/docparity/internal/glossary"
	"github.com/docparity/docparity/pkg/types"
)

// maxSnippetLen caps how much of a neighboring node's content goes into
// a context summary.
const maxSnippetLen = 200

// Context is the context bag for one node.
type Context struct {
	// Preceding and Following are neighboring nodes in document order,
	// clipped at file boundaries.
	Preceding []types.DocumentNode
	Following []types.DocumentNode

	// SectionTitle is the nearest enclosing section title; empty when the
	// node sits outside any section or hierarchy was not requested.
	SectionTitle string

	// Terms are glossary records whose surface forms occur in the node
	// content.
	Terms []types.GlossaryTerm
}

// Assembler answers context queries over one document-order node list.
type Assembler struct {
	nodes []types.DocumentNode
	index map[string]int
	gloss *glossary.Glossary
}

// New builds an assembler over nodes in document order. A nil glossary is
// treated as empty.
func New(nodes []types.DocumentNode, gloss *glossary.Glossary) *Assembler {
	if gloss == nil {
		gloss = glossary.New(nil)
	}
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}
	return &Assembler{nodes: nodes, index: index, gloss: gloss}
}

// Context returns the context bag for nodeID: up to window preceding and
// following nodes from the same file, the enclosing section title when
// includeHierarchy is set, and matching glossary terms. An unknown nodeID
// or a dangling parent reference is a structural error.
func (a *Assembler) Context(nodeID string, window int, includeHierarchy bool) (Context, error) {
	i, ok := a.index[nodeID]
	if !ok {
		return Context{}, &types.StructuralError{NodeID: nodeID, Ref: nodeID}
	}
	node := a.nodes[i]

	ctx := Context{
		Preceding: a.neighbors(i, -1, window, node.FilePath),
		Following: a.neighbors(i, +1, window, node.FilePath),
		Terms:     a.gloss.FindInText(node.Content),
	}

	if includeHierarchy {
		title, err := a.sectionTitle(node)
		if err != nil {
			return Context{}, err
		}
		ctx.SectionTitle = title
	}
	return ctx, nil
}

// BatchContext builds the shared context bag for a batch: neighborhood of
// its first and last members, the first member's section title, and
// glossary terms matched across all member content.
func (a *Assembler) BatchContext(nodeIDs []string, window int) (*types.BatchContext, error) {
	if len(nodeIDs) == 0 {
		return &types.BatchContext{}, nil
	}

	first, err := a.Context(nodeIDs[0], window, true)
	if err != nil {
		return nil, err
	}
	last, err := a.Context(nodeIDs[len(nodeIDs)-1], window, false)
	if err != nil {
		return nil, err
	}

	var content strings.Builder
	for _, id := range nodeIDs {
		i, ok := a.index[id]
		if !ok {
			return nil, &types.StructuralError{NodeID: id, Ref: id}
		}
		content.WriteString(a.nodes[i].Content)
		content.WriteByte(' ')
	}

	bc := &types.BatchContext{
		PrecedingText: summarize(first.Preceding),
		FollowingText: summarize(last.Following),
		SectionTitle:  first.SectionTitle,
	}
	for _, t := range a.gloss.FindInText(content.String()) {
		bc.GlossaryTerms = append(bc.GlossaryTerms, t.Term)
	}
	return bc, nil
}

// neighbors collects up to window non-section nodes in direction dir
// (+1 forward, -1 backward) from position i, stopping at file boundaries.
// Backward results come out in document order.
func (a *Assembler) neighbors(i, dir, window int, filePath string) []types.DocumentNode {
	if window <= 0 {
		return nil
	}
	var out []types.DocumentNode
	for j := i + dir; j >= 0 && j < len(a.nodes) && len(out) < window; j += dir {
		n := a.nodes[j]
		if n.FilePath != filePath {
			break
		}
		if n.Kind == types.KindSection {
			continue
		}
		out = append(out, n)
	}
	if dir < 0 {
		for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
			out[l], out[r] = out[r], out[l]
		}
	}
	return out
}

// sectionTitle walks the parent chain to the nearest section node.
func (a *Assembler) sectionTitle(node types.DocumentNode) (string, error) {
	cur := node
	for cur.ParentID != "" {
		i, ok := a.index[cur.ParentID]
		if !ok {
			return "", &types.StructuralError{
				NodeID:   cur.ID,
				Ref:      cur.ParentID,
				FilePath: cur.FilePath,
			}
		}
		cur = a.nodes[i]
		if cur.Kind == types.KindSection {
			if cur.Title != "" {
				return cur.Title, nil
			}
			return snippet(cur.Content), nil
		}
	}
	if node.Kind == types.KindSection {
		return node.Title, nil
	}
	return "", nil
}

// summarize joins node snippets with an ellipsis separator.
func summarize(nodes []types.DocumentNode) string {
	if len(nodes) == 0 {
		return ""
	}
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, snippet(n.Content))
	}
	return strings.Join(parts, " [...] ")
}

func snippet(s string) string {
	r := []rune(s)
	if len(r) <= maxSnippetLen {
		return s
	}
	return string(r[:maxSnippetLen])
}
