package syntax

import (
	"cmdlint/internal/source"
)

// Node is a positioned view over a Green node. It knows its parent and its
// absolute offset. Nodes are created on demand and compared by Equal, not
// by pointer.
type Node struct {
	green  *Green
	parent *Node
	offset uint32 // start of the full span, trivia included
	index  int    // position in parent.Children()
	file   source.FileID
}

func (n *Node) Green() *Green { return n.green }
func (n *Node) Kind() Kind    { return n.green.kind }
func (n *Node) Parent() *Node { return n.parent }
func (n *Node) Index() int    { return n.index }
func (n *Node) IsToken() bool { return n.green.IsToken() }

// Equal reports whether both nodes are the same node of the same tree version.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.green == other.green && n.offset == other.offset
}

// Children materializes the child nodes.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.green.children))
	off := n.offset
	for i, g := range n.green.children {
		out[i] = &Node{green: g, parent: n, offset: off, index: i, file: n.file}
		off += g.width
	}
	return out
}

// ChildNodes returns children that are not tokens.
func (n *Node) ChildNodes() []*Node {
	all := n.Children()
	out := all[:0]
	for _, c := range all {
		if !c.IsToken() {
			out = append(out, c)
		}
	}
	return out
}

// ChildTokens returns children that are tokens.
func (n *Node) ChildTokens() []*Node {
	all := n.Children()
	out := all[:0]
	for _, c := range all {
		if c.IsToken() {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first child of kind k, or nil.
func (n *Node) FirstChild(k Kind) *Node {
	for _, c := range n.Children() {
		if c.Kind() == k {
			return c
		}
	}
	return nil
}

// ChildrenOfKind returns every direct child of kind k.
func (n *Node) ChildrenOfKind(k Kind) []*Node {
	var out []*Node
	for _, c := range n.Children() {
		if c.Kind() == k {
			out = append(out, c)
		}
	}
	return out
}

// FullSpan covers the node with its leading and trailing trivia.
func (n *Node) FullSpan() source.Span {
	return source.Span{File: n.file, Start: n.offset, End: n.offset + n.green.width}
}

// Span covers the node without its outer trivia.
func (n *Node) Span() source.Span {
	lead := width(n.green.LeadingTrivia())
	trail := width(n.green.TrailingTrivia())
	if lead+trail > n.green.width {
		return source.Span{File: n.file, Start: n.offset, End: n.offset}
	}
	return source.Span{File: n.file, Start: n.offset + lead, End: n.offset + n.green.width - trail}
}

func (n *Node) Text() string     { return n.green.Text() }
func (n *Node) FullText() string { return n.green.FullText() }

// Ancestors yields the parent chain, nearest first.
func (n *Node) Ancestors(yield func(*Node) bool) {
	for p := n.parent; p != nil; p = p.parent {
		if !yield(p) {
			return
		}
	}
}

// AncestorOfKind walks up the parent chain starting at n itself and returns
// the first node of kind k, or nil when the root is reached.
func (n *Node) AncestorOfKind(k Kind) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.Kind() == k {
			return cur
		}
	}
	return nil
}

// Descendants yields every node below n in document order. Returning false
// from visit skips the subtree of that node.
func (n *Node) Descendants(visit func(*Node) bool) {
	for _, c := range n.Children() {
		if visit(c) {
			c.Descendants(visit)
		}
	}
}

// DescendantsOfKind collects every node of kind k below n.
func (n *Node) DescendantsOfKind(k Kind) []*Node {
	var out []*Node
	n.Descendants(func(d *Node) bool {
		if d.Kind() == k {
			out = append(out, d)
		}
		return true
	})
	return out
}

// PreviousToken returns the token immediately before n in the tree, or nil.
func (n *Node) PreviousToken() *Node {
	for cur := n; cur.parent != nil; cur = cur.parent {
		siblings := cur.parent.Children()
		for i := cur.index - 1; i >= 0; i-- {
			if t := siblings[i].lastTokenNode(); t != nil {
				return t
			}
		}
	}
	return nil
}

// FirstToken returns the first token at or below n.
func (n *Node) FirstToken() *Node {
	if n.IsToken() {
		return n
	}
	for _, c := range n.Children() {
		if t := c.FirstToken(); t != nil {
			return t
		}
	}
	return nil
}

func (n *Node) lastTokenNode() *Node {
	if n.IsToken() {
		return n
	}
	children := n.Children()
	for i := len(children) - 1; i >= 0; i-- {
		if t := children[i].lastTokenNode(); t != nil {
			return t
		}
	}
	return nil
}
