package csharp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdlint/internal/diag"
	"cmdlint/internal/syntax"
	"cmdlint/internal/testkit"
)

const commandSource = `using System.CommandLine;

namespace Demo.Commands;

// greets people
[GenerateCommandHandler]
public partial class HelloCommand : Command
{
    /// <summary>ctor</summary>
    public HelloCommand() : base("hello", "Says hello")
    {
        // first
        AddOption(new Option<string>("--name"));
        BindHandler();
    }

    public void BindHandler() { }
}
`

func parse(t *testing.T, src string) (*syntax.Tree, *diag.Bag) {
	t.Helper()
	p := NewParser()
	defer p.Close()
	bag := diag.NewBag(0)
	tree, err := p.Parse(context.Background(), 0, []byte(src), diag.BagReporter{Bag: bag})
	require.NoError(t, err)
	return tree, bag
}

func firstClass(t *testing.T, tree *syntax.Tree) syntax.ClassDeclaration {
	t.Helper()
	nodes := tree.Root().DescendantsOfKind(syntax.KindClassDeclaration)
	require.NotEmpty(t, nodes)
	class, ok := syntax.AsClassDeclaration(nodes[0])
	require.True(t, ok)
	return class
}

func TestRoundTrip(t *testing.T) {
	sources := []string{
		"",
		"\n\n",
		commandSource,
		"class A{}",
		"class A { A() { } }  // tail comment without newline",
		"#region x\nclass A\n{\n\tA() => Init();\n}\n#endregion\n",
		"class A : B { string s = @\"multi\nline\"; }\n",
		"class Broken : { public Broken( { }\n",
	}
	for _, src := range sources {
		tree, _ := parse(t, src)
		assert.Equal(t, src, tree.Text())
		assert.Equal(t, syntax.KindCompilationUnit, tree.Root().Kind())
		assert.NoError(t, testkit.CheckTreeInvariants(tree, []byte(src)))
	}
}

func TestClassShape(t *testing.T) {
	tree, bag := parse(t, commandSource)
	assert.Equal(t, 0, bag.Len())

	class := firstClass(t, tree)
	assert.Equal(t, "HelloCommand", class.Name())

	attrs := class.Attributes()
	require.Len(t, attrs, 1)
	name, ok := syntax.IdentifierText(attrs[0].Name())
	require.True(t, ok)
	assert.Equal(t, "GenerateCommandHandler", name)

	bases := class.BaseTypes()
	require.Len(t, bases, 1)
	base, ok := syntax.IdentifierText(bases[0])
	require.True(t, ok)
	assert.Equal(t, "Command", base)

	ctors := class.Constructors()
	require.Len(t, ctors, 1)
	body := ctors[0].Body()
	require.NotNil(t, body)
	require.Len(t, body.Statements(), 2)

	var callees []string
	for _, inv := range ctors[0].Invocations() {
		if text, ok := syntax.IdentifierText(inv.Callee()); ok {
			callees = append(callees, text+"/"+string(rune('0'+len(inv.Arguments()))))
		}
	}
	assert.Contains(t, callees, "AddOption/1")
	assert.Contains(t, callees, "BindHandler/0")
}

func TestCommentsBecomeTrivia(t *testing.T) {
	tree, _ := parse(t, commandSource)
	class := firstClass(t, tree)
	stmts := class.Constructors()[0].Body().Statements()
	lead := stmts[0].Green().LeadingTrivia()
	assert.Contains(t, lead, "// first")
	assert.Equal(t, "\n", stmts[0].Green().TrailingTrivia())
	assert.Equal(t, "AddOption(new Option<string>(\"--name\"));", stmts[0].Text())
}

func TestExpressionBodiedConstructorHasNoBody(t *testing.T) {
	tree, _ := parse(t, "class A : Command { A() => Init(); }")
	class := firstClass(t, tree)
	ctors := class.Constructors()
	require.Len(t, ctors, 1)
	assert.Nil(t, ctors[0].Body())
}

func TestStaticConstructorModifier(t *testing.T) {
	tree, _ := parse(t, "class A : Command { [Obsolete] static A() { } public A() { } }")
	class := firstClass(t, tree)
	ctors := class.Constructors()
	require.Len(t, ctors, 2)
	assert.True(t, ctors[0].IsStatic())
	assert.False(t, ctors[1].IsStatic())
}

func TestQualifiedBaseIsNotIdentifier(t *testing.T) {
	tree, _ := parse(t, "class A : System.CommandLine.Command { }")
	bases := firstClass(t, tree).BaseTypes()
	require.Len(t, bases, 1)
	assert.Equal(t, syntax.KindQualifiedName, bases[0].Kind())
	_, ok := syntax.IdentifierText(bases[0])
	assert.False(t, ok)
}

func TestSyntaxErrorsReported(t *testing.T) {
	tree, bag := parse(t, "class Broken : { public Broken( { }\n")
	require.NotNil(t, tree)
	require.Greater(t, bag.Len(), 0)
	for _, d := range bag.Items() {
		assert.Equal(t, diag.SynParseError, d.Code)
	}
}

func TestGeneratedDetection(t *testing.T) {
	assert.True(t, IsGeneratedPath("obj/Foo.g.cs"))
	assert.True(t, IsGeneratedPath("Form1.Designer.cs"))
	assert.False(t, IsGeneratedPath("Commands/Foo.cs"))

	tree, _ := parse(t, "// <auto-generated/>\nclass A { }\n")
	assert.True(t, IsGeneratedTree(tree))
	tree, _ = parse(t, commandSource)
	assert.False(t, IsGeneratedTree(tree))
}
