package syntax

// Identifier creates an IdentifierName node without trivia.
func Identifier(name string) *Green {
	return NewNode(KindIdentifierName, NewToken(KindIdentifierToken, name, "", ""))
}

// Punct creates a punctuation or keyword token without trivia.
func Punct(text string) *Green {
	return NewToken(KindToken, text, "", "")
}

// CallStatement builds "name();" as an expression statement annotated for
// the formatter, with elastic trivia on both sides.
func CallStatement(name string) *Green {
	call := NewNode(KindInvocationExpression,
		Identifier(name),
		NewNode(KindArgumentList, Punct("("), Punct(")")),
	)
	stmt := NewNode(KindExpressionStatement, call, Punct(";"))
	return stmt.WithAnnotations(AnnotationFormatter | AnnotationElastic)
}
