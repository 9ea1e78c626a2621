package syntax

import (
	"testing"

	"cmdlint/internal/source"
)

func tok(text, leading, trailing string) *Green {
	return NewToken(KindToken, text, leading, trailing)
}

func ident(text, leading, trailing string) *Green {
	return NewToken(KindIdentifierToken, text, leading, trailing)
}

// class Foo : Command
// {
//     public Foo() { Setup(); }
// }
func sampleTree() *Tree {
	call := NewNode(KindExpressionStatement,
		NewNode(KindInvocationExpression,
			NewNode(KindIdentifierName, ident("Setup", "", "")),
			NewNode(KindArgumentList, tok("(", "", ""), tok(")", "", "")),
		),
		tok(";", "", " "),
	)
	body := NewNode(KindBlock, tok("{", "", " "), call, tok("}", "", "\n"))
	ctor := NewNode(KindConstructorDeclaration,
		tok("public", "    ", " "),
		ident("Foo", "", ""),
		NewNode(KindParameterList, tok("(", "", ""), tok(")", "", " ")),
		body,
	)
	class := NewNode(KindClassDeclaration,
		tok("class", "", " "),
		ident("Foo", "", " "),
		NewNode(KindBaseList, tok(":", "", " "), NewNode(KindIdentifierName, ident("Command", "", "\n"))),
		NewNode(KindDeclarationList, tok("{", "", "\n"), ctor, tok("}", "", "\n")),
	)
	root := NewNode(KindCompilationUnit, class, NewToken(KindEndOfFile, "", "", ""))
	return NewTree(0, root)
}

const sampleText = "class Foo : Command\n{\n    public Foo() { Setup(); }\n}\n"

func TestTreeText(t *testing.T) {
	tree := sampleTree()
	if got := tree.Text(); got != sampleText {
		t.Fatalf("text mismatch:\n%q\n%q", got, sampleText)
	}
}

func TestSpansExcludeTrivia(t *testing.T) {
	tree := sampleTree()
	class, ok := AsClassDeclaration(tree.Root().FirstChild(KindClassDeclaration))
	if !ok {
		t.Fatal("class not found")
	}
	id := class.Identifier()
	if got := id.Span(); got != (source.Span{File: 0, Start: 6, End: 9}) {
		t.Fatalf("identifier span = %v", got)
	}
	if got := id.FullSpan(); got != (source.Span{File: 0, Start: 6, End: 10}) {
		t.Fatalf("identifier full span = %v", got)
	}
	ctor := class.Constructors()[0].Node()
	if got := ctor.Text(); got != "public Foo() { Setup(); }" {
		t.Fatalf("ctor text = %q", got)
	}
}

func TestFindNodeAndAncestor(t *testing.T) {
	tree := sampleTree()
	// inside "Setup"
	n := tree.FindNode(source.Span{Start: 41, End: 46})
	if n == nil || n.Kind() != KindIdentifierName {
		t.Fatalf("FindNode = %v", n)
	}
	if text, _ := IdentifierText(n); text != "Setup" {
		t.Fatalf("identifier = %q", text)
	}
	if c := n.AncestorOfKind(KindClassDeclaration); c == nil {
		t.Fatal("enclosing class not found")
	}
	// class identifier resolves to the class itself
	n = tree.FindNode(source.Span{Start: 6, End: 9})
	if n.Kind() != KindClassDeclaration {
		t.Fatalf("FindNode(class id) = %s", n.Kind())
	}
	if tree.FindNode(source.Span{Start: 10, End: 1000}) != nil {
		t.Fatal("out of range span must yield nil")
	}
}

func TestReplaceNodeIsPersistent(t *testing.T) {
	tree := sampleTree()
	class, _ := AsClassDeclaration(tree.Root().FirstChild(KindClassDeclaration))
	body := class.Constructors()[0].Body()
	stmt := CallStatement("BindHandler").WithLeadingTrivia("").WithTrailingTrivia(" ")
	newBody := body.WithStatementInserted(0, stmt)

	next, err := tree.ReplaceNode(body.Node(), newBody)
	if err != nil {
		t.Fatal(err)
	}
	if tree.Text() != sampleText {
		t.Fatal("original tree changed")
	}
	want := "class Foo : Command\n{\n    public Foo() { BindHandler(); Setup(); }\n}\n"
	if got := next.Text(); got != want {
		t.Fatalf("new text = %q", got)
	}
	// the base list green is shared between versions
	oldBase := tree.Root().Children()[0].FirstChild(KindBaseList).Green()
	newBase := next.Root().Children()[0].FirstChild(KindBaseList).Green()
	if oldBase != newBase {
		t.Fatal("unchanged subtree was copied")
	}
}

func TestReplaceNodeRejectsForeignNode(t *testing.T) {
	a, b := sampleTree(), sampleTree()
	class := b.Root().FirstChild(KindClassDeclaration)
	if _, err := a.ReplaceNode(class, class.Green()); err != ErrForeignNode {
		t.Fatalf("expected ErrForeignNode, got %v", err)
	}
}

func TestTriviaEditsClearElastic(t *testing.T) {
	stmt := CallStatement("BindHandler")
	if !stmt.HasAnnotation(AnnotationElasticLeading) || !stmt.HasAnnotation(AnnotationFormatter) {
		t.Fatal("synthesized statement must be elastic and formatter-annotated")
	}
	lead := stmt.WithLeadingTrivia("\n    ")
	if lead.HasAnnotation(AnnotationElasticLeading) || !lead.HasAnnotation(AnnotationElasticTrailing) {
		t.Fatalf("annotations after leading edit: %b", lead.Annotations())
	}
	if !lead.HasAnnotation(AnnotationFormatter) {
		t.Fatal("formatter annotation lost")
	}
	if lead.FullText() != "\n    BindHandler();" || lead.Text() != "BindHandler();" {
		t.Fatalf("text = %q", lead.FullText())
	}
}

func TestInsertIntoEmptyBlock(t *testing.T) {
	block := NewNode(KindBlock, tok("{", "", " "), tok("}", "", ""))
	tree := NewTree(0, NewNode(KindCompilationUnit, block))
	b := &Block{node: tree.Root().Children()[0]}
	if len(b.Statements()) != 0 {
		t.Fatal("expected empty block")
	}
	g := b.WithStatementInserted(0, CallStatement("BindHandler"))
	if g.FullText() != "{ BindHandler();}" {
		t.Fatalf("got %q", g.FullText())
	}
}

func TestConstructorIsStatic(t *testing.T) {
	params := func() *Green { return NewNode(KindParameterList, tok("(", "", ""), tok(")", "", " ")) }
	tests := []struct {
		name string
		ctor *Green
		want bool
	}{
		{"bare token", NewNode(KindConstructorDeclaration, tok("static", "", " "), ident("A", "", ""), params()), true},
		{"wrapped modifier", NewNode(KindConstructorDeclaration, NewNode(KindOther, tok("static", "", " ")), ident("A", "", ""), params()), true},
		{"instance", NewNode(KindConstructorDeclaration, tok("public", "", " "), ident("A", "", ""), params()), false},
		{"parameter named static", NewNode(KindConstructorDeclaration, ident("A", "", ""), NewNode(KindParameterList, tok("(", "", ""), ident("@static", "", ""), tok(")", "", " "))), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewTree(0, tt.ctor).Root()
			ctor, ok := AsConstructorDeclaration(root)
			if !ok {
				t.Fatalf("root is %v, want a constructor", root.Kind())
			}
			if got := ctor.IsStatic(); got != tt.want {
				t.Errorf("IsStatic() = %v, want %v", got, tt.want)
			}
		})
	}
}
