// Package rewrite plans and applies the BindHandler insertion.
package rewrite

import (
	"errors"
	"fmt"

	"cmdlint/internal/format"
	"cmdlint/internal/rules"
	"cmdlint/internal/source"
	"cmdlint/internal/syntax"
)

var (
	// ErrNoClass means the span is not inside a class declaration.
	ErrNoClass = errors.New("no enclosing class")
	// ErrNoConstructor means the class declares no constructor directly.
	ErrNoConstructor = errors.New("class has no constructor")
	// ErrNoBody means the constructor is expression-bodied or has no body.
	ErrNoBody = errors.New("constructor has no block body")
)

// Locate finds the constructor of the class enclosing span that receives
// the call, preferring instance constructors over a static one.
func Locate(tree *syntax.Tree, span source.Span) (syntax.ConstructorDeclaration, error) {
	node := tree.FindNode(span)
	if node == nil {
		return syntax.ConstructorDeclaration{}, ErrNoClass
	}
	class, ok := syntax.AsClassDeclaration(node.AncestorOfKind(syntax.KindClassDeclaration))
	if !ok {
		return syntax.ConstructorDeclaration{}, ErrNoClass
	}
	ctor, ok := rules.TargetConstructor(class)
	if !ok {
		return syntax.ConstructorDeclaration{}, fmt.Errorf("%s: %w", class.Name(), ErrNoConstructor)
	}
	return ctor, nil
}

// Plan returns a replacement for ctor whose body starts with BindHandler().
// It reports false when the constructor has no block body.
func Plan(ctor syntax.ConstructorDeclaration) (*syntax.Green, bool) {
	body := ctor.Body()
	if body == nil {
		return nil, false
	}
	stmt := syntax.CallStatement(rules.BinderMethod)
	if stmts := body.Statements(); len(stmts) > 0 {
		first := stmts[0].Green()
		stmt = stmt.WithLeadingTrivia(first.LeadingTrivia()).WithTrailingTrivia(first.TrailingTrivia())
	}
	return ctor.Node().Green().ReplaceChild(body.Node().Index(), body.WithStatementInserted(0, stmt)), true
}

// Apply locates the constructor for span, inserts the call and resolves
// formatting. Any locate or planning failure returns tree unchanged.
func Apply(tree *syntax.Tree, span source.Span, opt format.Options) *syntax.Tree {
	out, _, err := apply(tree, span, opt)
	if err != nil {
		return tree
	}
	return out
}

func apply(tree *syntax.Tree, span source.Span, opt format.Options) (*syntax.Tree, syntax.ConstructorDeclaration, error) {
	ctor, err := Locate(tree, span)
	if err != nil {
		return nil, ctor, err
	}
	repl, ok := Plan(ctor)
	if !ok {
		return nil, ctor, ErrNoBody
	}
	next, err := tree.ReplaceNode(ctor.Node(), repl)
	if err != nil {
		return nil, ctor, err
	}
	out, err := format.Resolve(next, opt)
	if err != nil {
		return nil, ctor, err
	}
	return out, ctor, nil
}
