// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parser turns MyST-flavored Markdown into flat, depth-first
// lists of document nodes. Goldmark supplies the CommonMark and GFM
// structure; the MyST layer (labels, fenced directives) sits on top of
// the fenced-code info string, which is where MyST puts it.
package parser

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/docparity/docparity/pkg/types"
)

// labelRe matches a MyST reference target on its own line: (label)=
var labelRe = regexp.MustCompile(`^\(([^)]+)\)=$`)

// directiveRe splits a fenced directive info string: {type} arguments
var directiveRe = regexp.MustCompile(`^\{([^}]+)\}\s*(.*)$`)

// optionRe matches a directive option line: :key: value
var optionRe = regexp.MustCompile(`^:([^:]+):\s*(.*)$`)

// admonitionTypes are the directive names that produce admonition nodes.
var admonitionTypes = map[string]bool{
	"note": true, "warning": true, "tip": true, "caution": true,
	"attention": true, "error": true, "hint": true, "important": true,
	"admonition": true,
}

// MarkdownParser parses one MyST Markdown document at a time. It holds
// no state between calls and is safe for concurrent use.
type MarkdownParser struct {
	md goldmark.Markdown
}

// NewMarkdownParser builds a parser with GFM tables enabled.
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Parse reads one document and returns its nodes in document order.
// filePath is recorded on every node and should be relative to the
// language root so source and target trees line up file by file.
func (p *MarkdownParser) Parse(r io.Reader, filePath, docLang string) ([]types.DocumentNode, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}

	doc := p.md.Parser().Parse(text.NewReader(src))
	lines := newLineIndex(src)

	w := &docWalk{
		src:      src,
		lines:    lines,
		filePath: filePath,
		docLang:  docLang,
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		w.block(n)
	}
	return w.nodes, nil
}

// docWalk accumulates nodes while walking a document's top-level blocks.
// Sections nest by heading level on a stack, docgest style; every other
// block attaches to the innermost open section.
type docWalk struct {
	src      []byte
	lines    *lineIndex
	filePath string
	docLang  string

	nodes []types.DocumentNode
	// stack holds indexes into nodes for the open sections, outermost
	// first. Levels strictly increase along the stack.
	stack        []int
	pendingLabel string
}

func (w *docWalk) block(n ast.Node) {
	switch node := n.(type) {
	case *ast.Heading:
		w.heading(node)
	case *ast.Paragraph:
		w.paragraph(node)
	case *ast.FencedCodeBlock:
		w.fenced(node)
	case *ast.CodeBlock:
		content, line := w.span(node)
		w.append(types.KindCodeBlock, content, line, func(*types.DocumentNode) {})
	case *ast.List:
		content, line := w.span(node)
		w.append(types.KindList, content, line, func(*types.DocumentNode) {})
	case *east.Table:
		content, line := w.span(node)
		w.append(types.KindTable, content, line, func(*types.DocumentNode) {})
	case *ast.Blockquote:
		content, line := w.span(node)
		w.append(types.KindParagraph, content, line, func(*types.DocumentNode) {})
	}
	// Thematic breaks and raw HTML carry no translatable text.
}

func (w *docWalk) heading(h *ast.Heading) {
	title := strings.TrimSpace(string(h.Text(w.src)))
	content := strings.Repeat("#", h.Level) + " " + title
	line := w.firstLine(h)

	// Close sections at the same or deeper level.
	for len(w.stack) > 0 {
		top := w.nodes[w.stack[len(w.stack)-1]]
		if top.Level < h.Level {
			break
		}
		w.stack = w.stack[:len(w.stack)-1]
	}

	idx := w.append(types.KindSection, content, line, func(n *types.DocumentNode) {
		n.Level = h.Level
		n.Title = title
		n.Label = w.pendingLabel
	})
	w.pendingLabel = ""
	w.stack = append(w.stack, idx)
}

func (w *docWalk) paragraph(p *ast.Paragraph) {
	content, line := w.span(p)
	if m := labelRe.FindStringSubmatch(strings.TrimSpace(content)); m != nil {
		// A reference target names the heading that follows it.
		w.pendingLabel = m[1]
		return
	}
	w.append(types.KindParagraph, content, line, func(*types.DocumentNode) {})
}

func (w *docWalk) fenced(f *ast.FencedCodeBlock) {
	var info string
	line := 0
	if f.Info != nil {
		info = string(f.Info.Segment.Value(w.src))
		line = w.lines.at(f.Info.Segment.Start)
	}
	body := blockLines(f, w.src)
	if line == 0 {
		_, line = w.span(f)
	}

	if m := directiveRe.FindStringSubmatch(info); m != nil {
		w.directive(m[1], strings.TrimSpace(m[2]), body, line)
		return
	}

	w.append(types.KindCodeBlock, body, line, func(n *types.DocumentNode) {
		n.Language = strings.TrimSpace(info)
	})
}

// directive maps a MyST fenced directive onto a node. Options of the
// form :key: value are split off the top of the body.
func (w *docWalk) directive(dtype, args, body string, line int) {
	opts, content := splitOptions(body)

	switch {
	case dtype == "code-block" || dtype == "code":
		w.append(types.KindCodeBlock, content, line, func(n *types.DocumentNode) {
			n.Language = args
			n.Name = opts["name"]
			n.Caption = opts["caption"]
		})
	case dtype == "figure" || dtype == "image":
		w.append(types.KindFigure, content, line, func(n *types.DocumentNode) {
			n.Name = opts["name"]
			n.Caption = content
			n.Metadata = metadata(map[string]string{
				"src":    args,
				"alt":    opts["alt"],
				"width":  opts["width"],
				"height": opts["height"],
				"align":  opts["align"],
			})
		})
	case dtype == "math":
		w.append(types.KindMathBlock, content, line, func(n *types.DocumentNode) {
			n.Name = opts["name"]
		})
	case dtype == "toctree":
		w.append(types.KindTocTree, content, line, func(n *types.DocumentNode) {
			n.Caption = opts["caption"]
			n.Metadata = metadata(map[string]string{
				"maxdepth": opts["maxdepth"],
			})
		})
	case admonitionTypes[dtype]:
		w.append(types.KindAdmonition, content, line, func(n *types.DocumentNode) {
			n.Metadata = metadata(map[string]string{
				"type":  dtype,
				"class": opts["class"],
			})
		})
	default:
		w.append(types.KindDirective, content, line, func(n *types.DocumentNode) {
			n.Name = opts["name"]
			n.Metadata = metadata(map[string]string{"type": dtype, "args": args})
		})
	}
}

// append creates a node, links it under the innermost open section, and
// returns its index in the walk's node list.
func (w *docWalk) append(kind types.NodeKind, content string, line int, fill func(*types.DocumentNode)) int {
	n := types.DocumentNode{
		Kind:        kind,
		Content:     content,
		FilePath:    w.filePath,
		LineNumber:  line,
		DocLanguage: w.docLang,
	}
	fill(&n)
	n.ID = types.NodeID(w.filePath, line, n.Content)

	if len(w.stack) > 0 {
		parent := &w.nodes[w.stack[len(w.stack)-1]]
		n.ParentID = parent.ID
		parent.ChildrenIDs = append(parent.ChildrenIDs, n.ID)
	}

	w.nodes = append(w.nodes, n)
	return len(w.nodes) - 1
}

// span returns the raw source text of a block, expanded to whole lines,
// and the 1-based line it starts on. It covers nodes whose text lives
// in descendants (tables, lists) as well as plain blocks.
func (w *docWalk) span(n ast.Node) (string, int) {
	start, stop, ok := segmentSpan(n)
	if !ok {
		return "", 0
	}
	for start > 0 && w.src[start-1] != '\n' {
		start--
	}
	for stop < len(w.src) && w.src[stop] != '\n' {
		stop++
	}
	return strings.TrimRight(string(w.src[start:stop]), "\n"), w.lines.at(start)
}

func (w *docWalk) firstLine(n ast.Node) int {
	_, line := w.span(n)
	return line
}

// segmentSpan finds the byte range covered by a node and everything
// under it.
func segmentSpan(n ast.Node) (start, stop int, ok bool) {
	update := func(s, e int) {
		if !ok || s < start {
			start = s
		}
		if !ok || e > stop {
			stop = e
		}
		ok = true
	}
	_ = ast.Walk(n, func(cn ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if cn.Type() == ast.TypeBlock {
			lines := cn.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				update(seg.Start, seg.Stop)
			}
		}
		if t, isText := cn.(*ast.Text); isText {
			update(t.Segment.Start, t.Segment.Stop)
		}
		return ast.WalkContinue, nil
	})
	return start, stop, ok
}

// blockLines joins a block's own source lines, which for fenced code is
// the body without the fences.
func blockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// splitOptions peels :key: value lines off the top of a directive body.
func splitOptions(body string) (map[string]string, string) {
	opts := make(map[string]string)
	lines := strings.Split(body, "\n")
	i := 0
	for ; i < len(lines); i++ {
		m := optionRe.FindStringSubmatch(lines[i])
		if m == nil {
			break
		}
		opts[strings.TrimSpace(m[1])] = strings.TrimSpace(m[2])
	}
	return opts, strings.TrimSpace(strings.Join(lines[i:], "\n"))
}

// metadata drops empty values so nodes serialize without noise.
func metadata(kv map[string]string) map[string]string {
	out := make(map[string]string, len(kv))
	for k, v := range kv {
		if v != "" {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex struct {
	starts []int
}

func newLineIndex(src []byte) *lineIndex {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

func (li *lineIndex) at(offset int) int {
	return sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	})
}
