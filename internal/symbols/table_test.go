package symbols

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdlint/internal/csharp"
	"cmdlint/internal/source"
)

func collect(t *testing.T, sources ...string) []FileDecls {
	t.Helper()
	p := csharp.NewParser()
	defer p.Close()
	var out []FileDecls
	for i, src := range sources {
		tree, err := p.Parse(context.Background(), source.FileID(i), []byte(src), nil)
		require.NoError(t, err)
		out = append(out, Collect(tree))
	}
	return out
}

const fileA = `using System.CommandLine;
namespace App.Commands
{
    public partial class Root : RootCommand { }
    public class Hello : Command
    {
        public class Nested : Base<int> { }
    }
    public class Base<T> : Command { }
    public class Impl : IDisposable { }
    interface IThing { }
    class Thing : IThing { }
}
`

const fileB = `namespace App.Commands;

public partial class Root { }
public struct Point { }
public enum Color { Red }
public class Fancy : System.CommandLine.Command { }
`

func TestCollect(t *testing.T) {
	files := collect(t, fileA)
	require.Len(t, files, 1)
	decls := files[0]
	assert.Equal(t, []string{"App.Commands"}, decls.Namespaces)

	byName := map[string]TypeDecl{}
	for _, d := range decls.Types {
		byName[d.MetadataName()] = d
	}
	require.Contains(t, byName, "Root")
	require.Contains(t, byName, "Nested")
	require.Contains(t, byName, "Base`1")

	assert.Equal(t, []string{"System.CommandLine"}, byName["Root"].Usings)
	assert.Equal(t, "RootCommand", byName["Root"].Base.String())
	assert.Equal(t, []string{"Hello"}, byName["Nested"].Outer)
	assert.Equal(t, "Base`1", byName["Nested"].Base.String())
	assert.Equal(t, TypeInterface, byName["IThing"].Kind)
}

func TestBuildResolvesBases(t *testing.T) {
	table := Build(collect(t, fileA, fileB))

	base := func(qualified string) string {
		id, ok := table.Lookup(qualified)
		require.True(t, ok, qualified)
		b := table.Get(table.Get(id).Base)
		if b == nil {
			return ""
		}
		return b.MetadataName
	}

	assert.Equal(t, "RootCommand", base("App.Commands.Root"))
	assert.Equal(t, "Command", base("App.Commands.Hello"))
	assert.Equal(t, "Base`1", base("App.Commands.Hello.Nested"))
	assert.Equal(t, "Command", base("App.Commands.Fancy"))
	// interface bases do not occupy the base class slot
	assert.Equal(t, "Object", base("App.Commands.Impl"))
	assert.Equal(t, "Object", base("App.Commands.Thing"))
	assert.Equal(t, "", base("App.Commands.IThing"))
	assert.Equal(t, "ValueType", base("App.Commands.Point"))
	assert.Equal(t, "Enum", base("App.Commands.Color"))

	// the nested class resolves to the declared generic, not an external
	nested, _ := table.Lookup("App.Commands.Hello.Nested")
	declaredBase, _ := table.Lookup("App.Commands.Base`1")
	assert.Equal(t, declaredBase, table.Get(nested).Base)
}

func TestPartialTypesMerge(t *testing.T) {
	table := Build(collect(t, fileA, fileB))
	id, ok := table.Lookup("App.Commands.Root")
	require.True(t, ok)
	assert.Len(t, table.Get(id).Decls, 2)
}

func TestSameExternalSharedBetweenMentions(t *testing.T) {
	table := Build(collect(t,
		"class A : Command { }",
		"class B : Command { }",
	))
	a, _ := table.Lookup("A")
	b, _ := table.Lookup("B")
	assert.Equal(t, table.Get(a).Base, table.Get(b).Base)
	assert.True(t, table.Get(table.Get(a).Base).IsExternal())
}

func TestWalkerCollectsDistinctTypes(t *testing.T) {
	table := Build(collect(t, fileA, fileB))
	ids, err := NewWalker(table).Walk(context.Background())
	require.NoError(t, err)

	// Root, Hello, Nested, Base`1, Impl, IThing, Thing, Point, Color, Fancy
	assert.Len(t, ids, 10)
	for _, id := range ids {
		assert.False(t, table.Get(id).IsExternal())
	}
}

func TestWalkerDedupsTypesReachableTwice(t *testing.T) {
	table := Build(collect(t, "namespace A { class Outer { class Inner { } } }"))
	outer, ok := table.Lookup("A.Outer")
	require.True(t, ok)
	// make Outer reachable a second time through another namespace
	other := table.Namespace("B")
	table.Get(other).Members = append(table.Get(other).Members, outer)

	ids, err := NewWalker(table).Walk(context.Background())
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestWalkerCancellation(t *testing.T) {
	table := Build(collect(t, fileA))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWalker(table)
	ids, err := w.Walk(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, ids)
	assert.Nil(t, w.seen)
}
