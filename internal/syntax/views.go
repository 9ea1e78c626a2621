package syntax

// ClassDeclaration is a typed view over a KindClassDeclaration node.
type ClassDeclaration struct{ node *Node }

// AsClassDeclaration wraps n when it is a class declaration.
func AsClassDeclaration(n *Node) (ClassDeclaration, bool) {
	if n == nil || n.Kind() != KindClassDeclaration {
		return ClassDeclaration{}, false
	}
	return ClassDeclaration{node: n}, true
}

func (c ClassDeclaration) Node() *Node { return c.node }

// Identifier returns the name token of the class.
func (c ClassDeclaration) Identifier() *Node {
	return c.node.FirstChild(KindIdentifierToken)
}

// Name is the identifier text, or "" for a malformed declaration.
func (c ClassDeclaration) Name() string {
	if id := c.Identifier(); id != nil {
		return id.Green().TokenText()
	}
	return ""
}

// AttributeLists returns the bracketed attribute groups in source order.
func (c ClassDeclaration) AttributeLists() []*Node {
	return c.node.ChildrenOfKind(KindAttributeList)
}

// Attributes flattens all attribute lists.
func (c ClassDeclaration) Attributes() []Attribute {
	var out []Attribute
	for _, list := range c.AttributeLists() {
		for _, a := range list.ChildrenOfKind(KindAttribute) {
			out = append(out, Attribute{node: a})
		}
	}
	return out
}

// BaseList returns the ": A, B" clause, or nil.
func (c ClassDeclaration) BaseList() *Node {
	return c.node.FirstChild(KindBaseList)
}

// BaseTypes returns the type expressions of the base list in order.
// A primary-constructor base "Base(x)" contributes its type expression.
func (c ClassDeclaration) BaseTypes() []*Node {
	bl := c.BaseList()
	if bl == nil {
		return nil
	}
	return BaseTypes(bl)
}

// BaseTypes lists the type expressions of a base list node.
func BaseTypes(baseList *Node) []*Node {
	var out []*Node
	for _, t := range baseList.ChildNodes() {
		if t.Kind() == KindPrimaryConstructorBaseType {
			if nodes := t.ChildNodes(); len(nodes) > 0 {
				out = append(out, nodes[0])
			}
			continue
		}
		out = append(out, t)
	}
	return out
}

// Members returns member declarations from the class body.
func (c ClassDeclaration) Members() []*Node {
	body := c.node.FirstChild(KindDeclarationList)
	if body == nil {
		return nil
	}
	return body.ChildNodes()
}

// Constructors returns constructors declared directly in the class, in order.
func (c ClassDeclaration) Constructors() []ConstructorDeclaration {
	var out []ConstructorDeclaration
	for _, m := range c.Members() {
		if m.Kind() == KindConstructorDeclaration {
			out = append(out, ConstructorDeclaration{node: m})
		}
	}
	return out
}

// Attribute is a view over a KindAttribute node.
type Attribute struct{ node *Node }

func (a Attribute) Node() *Node { return a.node }

// Name returns the name expression of the attribute (IdentifierName,
// QualifiedName, GenericName or AliasQualifiedName).
func (a Attribute) Name() *Node {
	for _, c := range a.node.ChildNodes() {
		if c.Kind().IsName() {
			return c
		}
	}
	return nil
}

// ConstructorDeclaration is a view over a KindConstructorDeclaration node.
type ConstructorDeclaration struct{ node *Node }

// AsConstructorDeclaration wraps n when it is a constructor.
func AsConstructorDeclaration(n *Node) (ConstructorDeclaration, bool) {
	if n == nil || n.Kind() != KindConstructorDeclaration {
		return ConstructorDeclaration{}, false
	}
	return ConstructorDeclaration{node: n}, true
}

func (c ConstructorDeclaration) Node() *Node { return c.node }

// Body returns the block body. Expression-bodied and bodiless
// constructors have none.
func (c ConstructorDeclaration) Body() *Block {
	if b := c.node.FirstChild(KindBlock); b != nil {
		return &Block{node: b}
	}
	return nil
}

// Invocations returns every invocation anywhere inside the constructor,
// including its initializer and expression body.
func (c ConstructorDeclaration) Invocations() []Invocation {
	var out []Invocation
	for _, n := range c.node.DescendantsOfKind(KindInvocationExpression) {
		out = append(out, Invocation{node: n})
	}
	return out
}

// IsStatic reports whether the static modifier precedes the constructor name.
func (c ConstructorDeclaration) IsStatic() bool {
	for _, ch := range c.node.Children() {
		switch {
		case ch.Kind() == KindIdentifierToken:
			return false
		case ch.Kind() == KindAttributeList:
			continue
		}
		if t := ch.FirstToken(); t != nil && t.Green().TokenText() == "static" {
			return true
		}
	}
	return false
}

// Block is a view over a KindBlock node.
type Block struct{ node *Node }

func (b *Block) Node() *Node { return b.node }

// OpenBrace returns the "{" token.
func (b *Block) OpenBrace() *Node {
	return b.node.FirstToken()
}

// Statements returns the statements of the block in order.
func (b *Block) Statements() []*Node {
	return b.node.ChildNodes()
}

// WithStatementInserted returns a green copy of the block with stmt placed
// before the i-th statement, or after the last one when i equals the count.
func (b *Block) WithStatementInserted(i int, stmt *Green) *Green {
	g := b.node.Green()
	seen := 0
	for pos, c := range g.children {
		if c.IsToken() {
			continue
		}
		if seen == i {
			return g.InsertChild(pos, stmt)
		}
		seen++
	}
	// after the last statement: before the closing brace when present
	pos := len(g.children)
	if last := g.lastToken(); last != nil && last.text == "}" && g.children[pos-1] == last {
		pos--
	}
	return g.InsertChild(pos, stmt)
}

// Invocation is a view over a KindInvocationExpression node.
type Invocation struct{ node *Node }

// AsInvocation wraps n when it is an invocation expression.
func AsInvocation(n *Node) (Invocation, bool) {
	if n == nil || n.Kind() != KindInvocationExpression {
		return Invocation{}, false
	}
	return Invocation{node: n}, true
}

func (i Invocation) Node() *Node { return i.node }

// Callee returns the invoked expression.
func (i Invocation) Callee() *Node {
	for _, c := range i.node.ChildNodes() {
		if c.Kind() != KindArgumentList {
			return c
		}
	}
	return nil
}

// Arguments returns the argument nodes.
func (i Invocation) Arguments() []*Node {
	list := i.node.FirstChild(KindArgumentList)
	if list == nil {
		return nil
	}
	return list.ChildrenOfKind(KindArgument)
}

// IdentifierText returns the identifier of an IdentifierName node.
func IdentifierText(n *Node) (string, bool) {
	if n == nil || n.Kind() != KindIdentifierName {
		return "", false
	}
	tok := n.FirstChild(KindIdentifierToken)
	if tok == nil {
		return "", false
	}
	return tok.Green().TokenText(), true
}
