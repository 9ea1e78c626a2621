package csharp

import (
	"context"
	"fmt"
	"strings"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	tscsharp "github.com/smacker/go-tree-sitter/csharp"

	"cmdlint/internal/diag"
	"cmdlint/internal/source"
	"cmdlint/internal/syntax"
)

// Parser turns C# source into syntax trees. A Parser is not safe for
// concurrent use; create one per goroutine.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a parser with the C# grammar loaded.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(tscsharp.GetLanguage())
	return &Parser{parser: p}
}

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	if p != nil && p.parser != nil {
		p.parser.Close()
		p.parser = nil
	}
}

// Parse converts content into a syntax tree bound to file. Regions the
// grammar could not parse are reported as SynParseError and kept in the tree
// as KindError nodes.
func (p *Parser) Parse(ctx context.Context, file source.FileID, content []byte, r diag.Reporter) (*syntax.Tree, error) {
	tsTree, err := p.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	defer tsTree.Close()

	c := &converter{src: content, file: file, reporter: r}
	root := c.convert(tsTree.RootNode(), true)
	if root == nil || root.tok != nil {
		root = &pnode{kind: syntax.KindCompilationUnit}
	}
	root.kind = syntax.KindCompilationUnit
	eof := &pnode{kind: syntax.KindEndOfFile, tok: &ptok{start: c.srcLen(), end: c.srcLen()}}
	root.children = append(root.children, eof)
	c.toks = append(c.toks, eof.tok)

	c.assignTrivia()
	return syntax.NewTree(file, root.green()), nil
}

// ParseFile parses a file of the set.
func (p *Parser) ParseFile(ctx context.Context, fs *source.FileSet, id source.FileID, r diag.Reporter) (*syntax.Tree, error) {
	f := fs.Get(id)
	if f == nil {
		return nil, fmt.Errorf("parse: unknown file id %d", id)
	}
	tree, err := p.Parse(ctx, id, f.Content, r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Path, err)
	}
	return tree, nil
}

// pnode is the intermediate tree: shape is known before trivia is.
type pnode struct {
	kind     syntax.Kind
	children []*pnode
	tok      *ptok
}

type ptok struct {
	start, end        uint32
	text              string
	leading, trailing string
}

type converter struct {
	src      []byte
	file     source.FileID
	reporter diag.Reporter
	toks     []*ptok
}

func (c *converter) srcLen() uint32 {
	n, err := safecast.Conv[uint32](len(c.src))
	if err != nil {
		panic(fmt.Errorf("source too large: %w", err))
	}
	return n
}

func (c *converter) token(kind syntax.Kind, n *sitter.Node) *pnode {
	t := &ptok{start: n.StartByte(), end: n.EndByte()}
	c.toks = append(c.toks, t)
	return &pnode{kind: kind, tok: t}
}

func (c *converter) report(n *sitter.Node, what string) {
	if c.reporter == nil {
		return
	}
	sp := source.Span{File: c.file, Start: n.StartByte(), End: n.EndByte()}
	diag.ReportDescriptor(c.reporter, diag.SynParseError, sp, what).Emit()
}

// convert maps one tree-sitter node. wrapIdent tells whether a bare
// identifier at this position is a reference (IdentifierName) rather than
// a declared name.
func (c *converter) convert(n *sitter.Node, wrapIdent bool) *pnode {
	typ := n.Type()
	switch {
	case triviaNodes[typ]:
		return nil
	case n.IsMissing():
		c.report(n, fmt.Sprintf("missing %s", describe(typ)))
		return nil
	case n.StartByte() == n.EndByte() && n.ChildCount() == 0:
		return nil
	case typ == "identifier":
		id := c.token(syntax.KindIdentifierToken, n)
		if !wrapIdent {
			return id
		}
		return &pnode{kind: syntax.KindIdentifierName, children: []*pnode{id}}
	case typ == "ERROR":
		c.report(n, "unexpected input")
		if n.ChildCount() == 0 {
			return &pnode{kind: syntax.KindError, children: []*pnode{c.token(syntax.KindToken, n)}}
		}
	case n.ChildCount() == 0 || isLiteral(typ):
		return c.token(syntax.KindToken, n)
	}

	nameStart := c.declaredNameStart(n)
	out := &pnode{kind: kindOf(typ)}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		isName := child.Type() == "identifier" && int64(child.StartByte()) == nameStart
		if pn := c.convert(child, !isName); pn != nil {
			out.children = append(out.children, pn)
		}
	}
	return out
}

// declaredNameStart returns the start byte of the declared identifier of
// n, or -1 when n declares nothing.
func (c *converter) declaredNameStart(n *sitter.Node) int64 {
	typ := n.Type()
	if !declarations[typ] {
		return -1
	}
	if name := n.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
		return int64(name.StartByte())
	}
	if nameFirst[typ] {
		for i := 0; i < int(n.ChildCount()); i++ {
			if child := n.Child(i); child != nil && child.Type() == "identifier" {
				return int64(child.StartByte())
			}
		}
	}
	return -1
}

func isLiteral(typ string) bool {
	return strings.HasSuffix(typ, "_literal") ||
		strings.HasPrefix(typ, "interpolated_") ||
		typ == "raw_string_literal"
}

func describe(typ string) string {
	if typ == "" {
		return "token"
	}
	if strings.ContainsAny(typ[:1], "abcdefghijklmnopqrstuvwxyz") {
		return strings.ReplaceAll(typ, "_", " ")
	}
	return fmt.Sprintf("'%s'", typ)
}

// assignTrivia distributes the text between tokens. A token's trailing
// trivia runs up to and including the first newline after it; everything
// else belongs to the leading trivia of the next token.
func (c *converter) assignTrivia() {
	var prev *ptok
	var prevEnd uint32
	for _, t := range c.toks {
		if t.start < prevEnd {
			t.start = prevEnd
		}
		if t.end < t.start {
			t.end = t.start
		}
		gap := string(c.src[prevEnd:t.start])
		if prev == nil {
			t.leading = gap
		} else if nl := strings.IndexByte(gap, '\n'); nl >= 0 {
			prev.trailing = gap[:nl+1]
			t.leading = gap[nl+1:]
		} else {
			prev.trailing = gap
		}
		t.text = string(c.src[t.start:t.end])
		prev, prevEnd = t, t.end
	}
}

func (n *pnode) green() *syntax.Green {
	if n.tok != nil {
		return syntax.NewToken(n.kind, n.tok.text, n.tok.leading, n.tok.trailing)
	}
	children := make([]*syntax.Green, 0, len(n.children))
	for _, ch := range n.children {
		children = append(children, ch.green())
	}
	return syntax.NewNode(n.kind, children...)
}
