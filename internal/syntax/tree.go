package syntax

import (
	"errors"

	"cmdlint/internal/source"
)

// ErrForeignNode is returned when an edit targets a node of another tree.
var ErrForeignNode = errors.New("node does not belong to this tree")

// Tree is an immutable syntax tree of one file.
type Tree struct {
	file source.FileID
	root *Green
}

// NewTree wraps root, which must be a KindCompilationUnit node.
func NewTree(file source.FileID, root *Green) *Tree {
	return &Tree{file: file, root: root}
}

func (t *Tree) File() source.FileID { return t.file }

// Root returns the compilation unit.
func (t *Tree) Root() *Node {
	return &Node{green: t.root, index: -1, file: t.file}
}

// Text renders the tree; it equals the parsed source byte for byte.
func (t *Tree) Text() string {
	return t.root.FullText()
}

// FindNode returns the deepest non-token node whose span contains span.
// It returns nil when span lies outside the tree.
func (t *Tree) FindNode(span source.Span) *Node {
	root := t.Root()
	if span.Start > span.End || span.End > root.FullSpan().End {
		return nil
	}
	cur := root
	for {
		var next *Node
		for _, c := range cur.Children() {
			if c.IsToken() {
				continue
			}
			sp := c.Span()
			if sp.Start <= span.Start && span.End <= sp.End && !(sp.Empty() && !span.Empty()) {
				next = c
				break
			}
		}
		if next == nil {
			return cur
		}
		cur = next
	}
}

// ReplaceNode returns a new tree in which old is replaced by replacement.
// Unchanged subtrees are shared with t; t itself is never modified.
func (t *Tree) ReplaceNode(old *Node, replacement *Green) (*Tree, error) {
	if old == nil || replacement == nil {
		return nil, ErrForeignNode
	}
	root := old
	for root.parent != nil {
		root = root.parent
	}
	if root.green != t.root || old.file != t.file {
		return nil, ErrForeignNode
	}
	g := replacement
	for n := old; n.parent != nil; n = n.parent {
		g = n.parent.green.ReplaceChild(n.index, g)
	}
	return &Tree{file: t.file, root: g}, nil
}
