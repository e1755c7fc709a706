// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data model for docparity: document nodes,
// comparison results, translation batches, glossary records, and stage
// configuration.
package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// NodeKind categorizes a structural unit of a parsed document.
type NodeKind string

const (
	KindSection    NodeKind = "section"
	KindParagraph  NodeKind = "paragraph"
	KindCodeBlock  NodeKind = "code_block"
	KindMathBlock  NodeKind = "math_block"
	KindTable      NodeKind = "table"
	KindFigure     NodeKind = "figure"
	KindAdmonition NodeKind = "admonition"
	KindList       NodeKind = "list"
	KindListItem   NodeKind = "list_item"
	KindDirective  NodeKind = "directive"
	KindTocTree    NodeKind = "toc_tree"
)

// validNodeKinds is the set of accepted NodeKind values.
var validNodeKinds = map[NodeKind]bool{
	KindSection:    true,
	KindParagraph:  true,
	KindCodeBlock:  true,
	KindMathBlock:  true,
	KindTable:      true,
	KindFigure:     true,
	KindAdmonition: true,
	KindList:       true,
	KindListItem:   true,
	KindDirective:  true,
	KindTocTree:    true,
}

// Valid reports whether k is a known node kind.
func (k NodeKind) Valid() bool { return validNodeKinds[k] }

// DocumentNode is one structural unit of a parsed document. Nodes are
// produced by the parser in depth-first document order and are immutable
// afterwards; the comparison and batching stages only read them.
type DocumentNode struct {
	// ID is a stable content-derived identifier, unique within a project.
	ID string `json:"id" yaml:"id"`

	// Kind categorizes the node: section, paragraph, code_block, and so on.
	Kind NodeKind `json:"kind" yaml:"kind"`

	// Content is the raw text of the node.
	Content string `json:"content" yaml:"content"`

	// Level is the section depth for section nodes (0 when not a section).
	Level int `json:"level,omitempty" yaml:"level,omitempty"`

	// Title is the section title, when present.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Label is a stable cross-reference key, e.g. a "(label)=" target.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Name is an explicit :name: attribute, when present.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Caption is a :caption: attribute, when present.
	Caption string `json:"caption,omitempty" yaml:"caption,omitempty"`

	// Language is the code block language, when present.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// ParentID links to the owning node; empty for roots.
	ParentID string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`

	// ChildrenIDs lists owned nodes in document order.
	ChildrenIDs []string `json:"children_ids,omitempty" yaml:"children_ids,omitempty"`

	// FilePath is the source file the node was parsed from, relative to
	// the project root.
	FilePath string `json:"file_path" yaml:"file_path"`

	// LineNumber is the 1-based line where the node begins.
	LineNumber int `json:"line_number" yaml:"line_number"`

	// DocLanguage is the document language code (ISO 639-1).
	DocLanguage string `json:"doc_language,omitempty" yaml:"doc_language,omitempty"`

	// Metadata is an open key/value bag for parser extras.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NodeID derives a stable content-based identifier from a node's file,
// position, and content. Identical input always yields the same ID.
func NodeID(filePath string, lineNumber int, content string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%s", filePath, lineNumber, content)))
	return hex.EncodeToString(sum[:])[:16]
}
