package symbols

import (
	"fmt"
	"strings"

	"cmdlint/internal/source"
	"cmdlint/internal/syntax"
)

// TypeRef is a syntactic reference to a type: dotted name parts plus the
// generic arity of the last part.
type TypeRef struct {
	Parts []string
	Arity int
}

func (r TypeRef) String() string {
	s := strings.Join(r.Parts, ".")
	if r.Arity > 0 {
		s = fmt.Sprintf("%s`%d", s, r.Arity)
	}
	return s
}

// TypeDecl is one declaration of a named type as written in a file.
type TypeDecl struct {
	Namespace string   // dotted, "" for the global namespace
	Outer     []string // metadata names of containing types, outermost first
	Name      string
	Arity     int
	Kind      TypeKind
	Base      *TypeRef // first entry of the base list
	Usings    []string // namespaces imported where the declaration appears
	Span      source.Span
}

// MetadataName is Name with the arity suffix.
func (d *TypeDecl) MetadataName() string {
	return metadataName(d.Name, d.Arity)
}

func metadataName(name string, arity int) string {
	if arity == 0 {
		return name
	}
	return fmt.Sprintf("%s`%d", name, arity)
}

// FileDecls is everything the symbol table needs from one file. It holds
// plain data only so it can be cached between runs.
type FileDecls struct {
	File       source.FileID
	Namespaces []string
	Types      []TypeDecl
}

var typeKinds = map[syntax.Kind]TypeKind{
	syntax.KindClassDeclaration:     TypeClass,
	syntax.KindStructDeclaration:    TypeStruct,
	syntax.KindInterfaceDeclaration: TypeInterface,
	syntax.KindRecordDeclaration:    TypeRecord,
	syntax.KindEnumDeclaration:      TypeEnum,
}

type collectScope struct {
	namespace string
	outer     []string
	usings    []string
}

// Collect extracts namespace and type declarations from a tree.
func Collect(tree *syntax.Tree) FileDecls {
	c := &collector{out: FileDecls{File: tree.File()}}
	c.members(tree.Root(), collectScope{})
	return c.out
}

type collector struct {
	out FileDecls
}

// members processes the declarations directly inside n.
func (c *collector) members(n *syntax.Node, sc collectScope) {
	children := n.ChildNodes()
	for _, ch := range children {
		if ch.Kind() == syntax.KindUsingDirective {
			if ns, ok := usingNamespace(ch); ok {
				sc.usings = append(append([]string(nil), sc.usings...), ns)
			}
		}
	}
	for _, ch := range children {
		switch k := ch.Kind(); {
		case k == syntax.KindNamespaceDeclaration:
			inner := sc
			inner.namespace = joinNamespace(sc.namespace, namespaceName(ch))
			c.addNamespace(inner.namespace)
			if body := ch.FirstChild(syntax.KindDeclarationList); body != nil {
				c.members(body, inner)
			}
		case k == syntax.KindFileScopedNamespaceDeclaration:
			// members may be nested in the declaration or follow it as siblings
			sc.namespace = joinNamespace(sc.namespace, namespaceName(ch))
			c.addNamespace(sc.namespace)
			c.members(ch, sc)
		case k.IsTypeDeclaration():
			c.typeDecl(ch, sc)
		case k == syntax.KindError || k == syntax.KindDeclarationList:
			c.members(ch, sc)
		}
	}
}

func (c *collector) addNamespace(ns string) {
	for _, existing := range c.out.Namespaces {
		if existing == ns {
			return
		}
	}
	c.out.Namespaces = append(c.out.Namespaces, ns)
}

func (c *collector) typeDecl(n *syntax.Node, sc collectScope) {
	id := n.FirstChild(syntax.KindIdentifierToken)
	if id == nil {
		return
	}
	decl := TypeDecl{
		Namespace: sc.namespace,
		Outer:     append([]string(nil), sc.outer...),
		Name:      id.Green().TokenText(),
		Arity:     listArity(n.FirstChild(syntax.KindTypeParameterList)),
		Kind:      typeKinds[n.Kind()],
		Usings:    sc.usings,
		Span:      id.Span(),
	}
	if bl := n.FirstChild(syntax.KindBaseList); bl != nil {
		if bases := syntax.BaseTypes(bl); len(bases) > 0 {
			if ref, ok := typeRef(bases[0]); ok {
				decl.Base = &ref
			}
		}
	}
	c.out.Types = append(c.out.Types, decl)

	if body := n.FirstChild(syntax.KindDeclarationList); body != nil {
		inner := sc
		inner.outer = append(append([]string(nil), sc.outer...), decl.MetadataName())
		c.members(body, inner)
	}
}

func joinNamespace(outer, inner string) string {
	switch {
	case inner == "":
		return outer
	case outer == "":
		return inner
	}
	return outer + "." + inner
}

func namespaceName(n *syntax.Node) string {
	for _, ch := range n.ChildNodes() {
		if ref, ok := typeRef(ch); ok {
			return strings.Join(ref.Parts, ".")
		}
	}
	return ""
}

// usingNamespace returns the imported namespace of a plain using directive.
// Aliases and using static are ignored.
func usingNamespace(n *syntax.Node) (string, bool) {
	for _, tok := range n.ChildTokens() {
		switch tok.Green().TokenText() {
		case "=", "static":
			return "", false
		}
	}
	for _, ch := range n.ChildNodes() {
		if ref, ok := typeRef(ch); ok {
			return strings.Join(ref.Parts, "."), true
		}
	}
	return "", false
}

// typeRef converts a name expression into a TypeRef. Anything that is not
// a (possibly qualified or generic) name yields false.
func typeRef(n *syntax.Node) (TypeRef, bool) {
	switch n.Kind() {
	case syntax.KindIdentifierName:
		text, ok := syntax.IdentifierText(n)
		return TypeRef{Parts: []string{text}}, ok
	case syntax.KindGenericName:
		var name string
		for _, ch := range n.Children() {
			if ch.Kind() == syntax.KindIdentifierName {
				name, _ = syntax.IdentifierText(ch)
			} else if ch.Kind() == syntax.KindIdentifierToken {
				name = ch.Green().TokenText()
			}
		}
		if name == "" {
			return TypeRef{}, false
		}
		return TypeRef{Parts: []string{name}, Arity: listArity(n.FirstChild(syntax.KindTypeArgumentList))}, true
	case syntax.KindQualifiedName:
		names := n.ChildNodes()
		if len(names) != 2 {
			return TypeRef{}, false
		}
		left, ok := typeRef(names[0])
		if !ok {
			return TypeRef{}, false
		}
		right, ok := typeRef(names[1])
		if !ok {
			return TypeRef{}, false
		}
		return TypeRef{Parts: append(append([]string(nil), left.Parts...), right.Parts...), Arity: right.Arity}, true
	case syntax.KindAliasQualifiedName:
		// global::X.Y drops the alias
		names := n.ChildNodes()
		if len(names) == 0 {
			return TypeRef{}, false
		}
		return typeRef(names[len(names)-1])
	}
	return TypeRef{}, false
}

// listArity counts entries of a <...> list by its top-level commas.
func listArity(list *syntax.Node) int {
	if list == nil {
		return 0
	}
	commas := 0
	for _, tok := range list.ChildTokens() {
		if tok.Green().TokenText() == "," {
			commas++
		}
	}
	return commas + 1
}
