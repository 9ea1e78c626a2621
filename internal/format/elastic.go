package format

import (
	"fmt"
	"strings"

	"cmdlint/internal/syntax"
)

// Pending reports whether the tree still carries formatter annotations.
func Pending(tree *syntax.Tree) bool {
	return nextAnnotated(tree.Root()) != nil
}

// Resolve replaces the elastic trivia of every formatter-annotated node and
// drops the annotations. A tree without annotations is returned as is.
//
// A node after a line break is placed on its own line, indented one step
// deeper than an opening brace (or level with a preceding statement) and
// followed by a newline. Otherwise it is separated by single spaces.
func Resolve(tree *syntax.Tree, opt Options) (*syntax.Tree, error) {
	opt = opt.withDefaults()
	for {
		n := nextAnnotated(tree.Root())
		if n == nil {
			return tree, nil
		}
		next, err := tree.ReplaceNode(n, resolveNode(tree, n, opt))
		if err != nil {
			return nil, fmt.Errorf("format: %w", err)
		}
		tree = next
	}
}

func nextAnnotated(root *syntax.Node) *syntax.Node {
	var found *syntax.Node
	root.Descendants(func(n *syntax.Node) bool {
		if found != nil {
			return false
		}
		if n.Green().HasAnnotation(syntax.AnnotationFormatter) {
			found = n
			return false
		}
		return true
	})
	return found
}

func resolveNode(tree *syntax.Tree, n *syntax.Node, opt Options) *syntax.Green {
	g := n.Green()
	if !g.HasAnnotation(syntax.AnnotationElastic) {
		return g.WithoutAnnotations(syntax.AnnotationFormatter)
	}

	var prevTrailing, indent string
	afterBrace := false
	if prev := n.PreviousToken(); prev != nil {
		prevTrailing = prev.Green().TrailingTrivia()
		indent = lineIndent(tree.Text(), int(prev.Span().Start))
		afterBrace = prev.Green().TokenText() == "{"
	}

	var leading, trailing string
	if strings.Contains(prevTrailing, "\n") {
		leading = indent
		if afterBrace {
			leading += opt.unit(indent)
		}
		trailing = "\n"
	} else {
		if prevTrailing == "" || !isBlank(prevTrailing[len(prevTrailing)-1]) {
			leading = " "
		}
		trailing = " "
	}

	if g.HasAnnotation(syntax.AnnotationElasticLeading) {
		g = g.WithLeadingTrivia(leading)
	}
	if g.HasAnnotation(syntax.AnnotationElasticTrailing) {
		g = g.WithTrailingTrivia(trailing)
	}
	return g.WithoutAnnotations(syntax.AnnotationFormatter | syntax.AnnotationElastic)
}

// lineIndent returns the run of blanks that starts the line containing off.
func lineIndent(text string, off int) string {
	start := strings.LastIndexByte(text[:off], '\n') + 1
	end := start
	for end < len(text) && isBlank(text[end]) {
		end++
	}
	return text[start:end]
}

func isBlank(b byte) bool { return b == ' ' || b == '\t' }
