package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"cmdlint/internal/source"
	"cmdlint/internal/syntax"
)

// CheckTreeInvariants checks the structural promises of a parsed tree:
// 1) printing the tree reproduces content byte-for-byte
// 2) the root full span covers exactly [0, len(content))
// 3) children tile their parent's full span without gaps or overlap
// 4) every span lies inside its full span and points at the tree's file
func CheckTreeInvariants(tree *syntax.Tree, content []byte) error {
	if tree == nil {
		return fmt.Errorf("nil tree")
	}
	if text := tree.Text(); text != string(content) {
		return fmt.Errorf("round trip mismatch: got %d bytes, want %d", len(text), len(content))
	}

	size, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	root := tree.Root()
	if want := (source.Span{File: tree.File(), End: size}); root.FullSpan() != want {
		return fmt.Errorf("root full span %v, want %v", root.FullSpan(), want)
	}
	return checkNode(root, tree.File())
}

func checkNode(n *syntax.Node, file source.FileID) error {
	full := n.FullSpan()
	if full.File != file {
		return fmt.Errorf("%s: span file mismatch: got=%d want=%d", n.Kind(), full.File, file)
	}
	if !full.Contains(n.Span()) {
		return fmt.Errorf("%s: span %v outside full span %v", n.Kind(), n.Span(), full)
	}

	children := n.Children()
	if len(children) == 0 {
		return nil
	}
	at := full.Start
	for _, c := range children {
		cs := c.FullSpan()
		if cs.Start != at {
			return fmt.Errorf("%s: child %s starts at %d, want %d", n.Kind(), c.Kind(), cs.Start, at)
		}
		if err := checkNode(c, file); err != nil {
			return err
		}
		at = cs.End
	}
	if at != full.End {
		return fmt.Errorf("%s: children end at %d, parent at %d", n.Kind(), at, full.End)
	}
	return nil
}
