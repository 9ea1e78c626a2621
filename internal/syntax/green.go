package syntax

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// Green is an immutable, position-independent tree node. Green nodes are
// shared between tree versions; every edit copies only the path to the root.
//
// Tokens carry their text plus leading and trailing trivia (whitespace,
// comments, directives). Concatenating the trivia and text of every token
// reproduces the source exactly.
type Green struct {
	kind        Kind
	text        string
	leading     string
	trailing    string
	children    []*Green
	width       uint32
	annotations Annotation
}

func width(s string) uint32 {
	w, err := safecast.Conv[uint32](len(s))
	if err != nil {
		panic(fmt.Errorf("text width overflow: %w", err))
	}
	return w
}

// NewToken creates a leaf. kind must be a token kind.
func NewToken(kind Kind, text, leading, trailing string) *Green {
	if !kind.IsToken() {
		panic(fmt.Sprintf("syntax: %s is not a token kind", kind))
	}
	return &Green{
		kind:     kind,
		text:     text,
		leading:  leading,
		trailing: trailing,
		width:    width(leading) + width(text) + width(trailing),
	}
}

// NewNode creates an inner node over children.
func NewNode(kind Kind, children ...*Green) *Green {
	if kind.IsToken() {
		panic(fmt.Sprintf("syntax: %s is a token kind", kind))
	}
	g := &Green{kind: kind, children: children}
	for _, c := range children {
		g.width += c.width
	}
	return g
}

func (g *Green) Kind() Kind                      { return g.kind }
func (g *Green) IsToken() bool                   { return g.kind.IsToken() }
func (g *Green) FullWidth() uint32               { return g.width }
func (g *Green) Annotations() Annotation         { return g.annotations }
func (g *Green) HasAnnotation(a Annotation) bool { return g.annotations&a != 0 }

// Children returns the child slice. Do not modify it.
func (g *Green) Children() []*Green { return g.children }

// TokenText is the text of a token without trivia; "" for nodes.
func (g *Green) TokenText() string { return g.text }

func (g *Green) firstToken() *Green {
	if g.IsToken() {
		return g
	}
	for _, c := range g.children {
		if t := c.firstToken(); t != nil {
			return t
		}
	}
	return nil
}

func (g *Green) lastToken() *Green {
	if g.IsToken() {
		return g
	}
	for i := len(g.children) - 1; i >= 0; i-- {
		if t := g.children[i].lastToken(); t != nil {
			return t
		}
	}
	return nil
}

// LeadingTrivia is the leading trivia of the first token.
func (g *Green) LeadingTrivia() string {
	if t := g.firstToken(); t != nil {
		return t.leading
	}
	return ""
}

// TrailingTrivia is the trailing trivia of the last token.
func (g *Green) TrailingTrivia() string {
	if t := g.lastToken(); t != nil {
		return t.trailing
	}
	return ""
}

// FullText renders the node including its outer trivia.
func (g *Green) FullText() string {
	var b strings.Builder
	b.Grow(int(g.width))
	g.write(&b)
	return b.String()
}

// Text renders the node without its outer trivia.
func (g *Green) Text() string {
	full := g.FullText()
	return full[len(g.LeadingTrivia()) : len(full)-len(g.TrailingTrivia())]
}

func (g *Green) write(b *strings.Builder) {
	if g.IsToken() {
		b.WriteString(g.leading)
		b.WriteString(g.text)
		b.WriteString(g.trailing)
		return
	}
	for _, c := range g.children {
		c.write(b)
	}
}

func (g *Green) clone() *Green {
	c := *g
	return &c
}

// WithAnnotations returns a copy carrying a in addition to existing annotations.
func (g *Green) WithAnnotations(a Annotation) *Green {
	c := g.clone()
	c.annotations |= a
	return c
}

// WithoutAnnotations returns a copy with a cleared.
func (g *Green) WithoutAnnotations(a Annotation) *Green {
	c := g.clone()
	c.annotations &^= a
	return c
}

// WithChildren returns a copy of g with a new child list; kind and annotations are kept.
func (g *Green) WithChildren(children []*Green) *Green {
	n := NewNode(g.kind, children...)
	n.annotations = g.annotations
	return n
}

// ReplaceChild returns a copy of g whose i-th child is child.
func (g *Green) ReplaceChild(i int, child *Green) *Green {
	children := make([]*Green, len(g.children))
	copy(children, g.children)
	children[i] = child
	return g.WithChildren(children)
}

// InsertChild returns a copy of g with child inserted before position i.
func (g *Green) InsertChild(i int, child *Green) *Green {
	children := make([]*Green, 0, len(g.children)+1)
	children = append(children, g.children[:i]...)
	children = append(children, child)
	children = append(children, g.children[i:]...)
	return g.WithChildren(children)
}

// WithLeadingTrivia replaces the leading trivia of the first token and
// clears AnnotationElasticLeading.
func (g *Green) WithLeadingTrivia(trivia string) *Green {
	out := g.mapEdgeToken(true, func(t *Green) *Green {
		return NewToken(t.kind, t.text, trivia, t.trailing)
	})
	return out.WithoutAnnotations(AnnotationElasticLeading)
}

// WithTrailingTrivia replaces the trailing trivia of the last token and
// clears AnnotationElasticTrailing.
func (g *Green) WithTrailingTrivia(trivia string) *Green {
	out := g.mapEdgeToken(false, func(t *Green) *Green {
		return NewToken(t.kind, t.text, t.leading, trivia)
	})
	return out.WithoutAnnotations(AnnotationElasticTrailing)
}

func (g *Green) mapEdgeToken(first bool, fn func(*Green) *Green) *Green {
	if g.IsToken() {
		t := fn(g)
		t.annotations = g.annotations
		return t
	}
	idx := -1
	if first {
		for i, c := range g.children {
			if c.firstToken() != nil {
				idx = i
				break
			}
		}
	} else {
		for i := len(g.children) - 1; i >= 0; i-- {
			if g.children[i].lastToken() != nil {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return g
	}
	return g.ReplaceChild(idx, g.children[idx].mapEdgeToken(first, fn))
}
