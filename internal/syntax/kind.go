package syntax

type Kind uint8

const (
	KindInvalid Kind = iota
	// tokens
	KindToken
	KindIdentifierToken
	KindEndOfFile
	// nodes
	KindCompilationUnit
	KindUsingDirective
	KindNamespaceDeclaration
	KindFileScopedNamespaceDeclaration
	KindClassDeclaration
	KindStructDeclaration
	KindInterfaceDeclaration
	KindRecordDeclaration
	KindEnumDeclaration
	KindDeclarationList
	KindAttributeList
	KindAttribute
	KindBaseList
	KindPrimaryConstructorBaseType
	KindTypeParameterList
	KindTypeArgumentList
	KindIdentifierName
	KindQualifiedName
	KindGenericName
	KindAliasQualifiedName
	KindConstructorDeclaration
	KindMethodDeclaration
	KindParameterList
	KindBlock
	KindExpressionStatement
	KindInvocationExpression
	KindArgumentList
	KindArgument
	KindMemberAccessExpression
	KindArrowExpressionClause
	KindError
	KindOther
)

var kindNames = [...]string{
	KindInvalid:                        "Invalid",
	KindToken:                          "Token",
	KindIdentifierToken:                "IdentifierToken",
	KindEndOfFile:                      "EndOfFile",
	KindCompilationUnit:                "CompilationUnit",
	KindUsingDirective:                 "UsingDirective",
	KindNamespaceDeclaration:           "NamespaceDeclaration",
	KindFileScopedNamespaceDeclaration: "FileScopedNamespaceDeclaration",
	KindClassDeclaration:               "ClassDeclaration",
	KindStructDeclaration:              "StructDeclaration",
	KindInterfaceDeclaration:           "InterfaceDeclaration",
	KindRecordDeclaration:              "RecordDeclaration",
	KindEnumDeclaration:                "EnumDeclaration",
	KindDeclarationList:                "DeclarationList",
	KindAttributeList:                  "AttributeList",
	KindAttribute:                      "Attribute",
	KindBaseList:                       "BaseList",
	KindPrimaryConstructorBaseType:     "PrimaryConstructorBaseType",
	KindTypeParameterList:              "TypeParameterList",
	KindTypeArgumentList:               "TypeArgumentList",
	KindIdentifierName:                 "IdentifierName",
	KindQualifiedName:                  "QualifiedName",
	KindGenericName:                    "GenericName",
	KindAliasQualifiedName:             "AliasQualifiedName",
	KindConstructorDeclaration:         "ConstructorDeclaration",
	KindMethodDeclaration:              "MethodDeclaration",
	KindParameterList:                  "ParameterList",
	KindBlock:                          "Block",
	KindExpressionStatement:            "ExpressionStatement",
	KindInvocationExpression:           "InvocationExpression",
	KindArgumentList:                   "ArgumentList",
	KindArgument:                       "Argument",
	KindMemberAccessExpression:         "MemberAccessExpression",
	KindArrowExpressionClause:          "ArrowExpressionClause",
	KindError:                          "Error",
	KindOther:                          "Other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// IsToken reports whether k is a leaf kind.
func (k Kind) IsToken() bool {
	return k == KindToken || k == KindIdentifierToken || k == KindEndOfFile
}

// IsTypeDeclaration reports whether k declares a named type.
func (k Kind) IsTypeDeclaration() bool {
	switch k {
	case KindClassDeclaration, KindStructDeclaration, KindInterfaceDeclaration,
		KindRecordDeclaration, KindEnumDeclaration:
		return true
	}
	return false
}

// IsName reports whether k is a name expression (simple, qualified or generic).
func (k Kind) IsName() bool {
	switch k {
	case KindIdentifierName, KindQualifiedName, KindGenericName, KindAliasQualifiedName:
		return true
	}
	return false
}

// Annotation marks nodes for later passes.
type Annotation uint8

const (
	// AnnotationFormatter marks a node as synthesized and open to reformatting.
	AnnotationFormatter Annotation = 1 << iota
	// AnnotationElasticLeading means the leading trivia is a placeholder the formatter must compute.
	AnnotationElasticLeading
	// AnnotationElasticTrailing is the trailing counterpart of AnnotationElasticLeading.
	AnnotationElasticTrailing

	AnnotationElastic = AnnotationElasticLeading | AnnotationElasticTrailing
)
