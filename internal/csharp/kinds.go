package csharp

import "cmdlint/internal/syntax"

var nodeKinds = map[string]syntax.Kind{
	"compilation_unit":                  syntax.KindCompilationUnit,
	"using_directive":                   syntax.KindUsingDirective,
	"namespace_declaration":             syntax.KindNamespaceDeclaration,
	"file_scoped_namespace_declaration": syntax.KindFileScopedNamespaceDeclaration,
	"class_declaration":                 syntax.KindClassDeclaration,
	"struct_declaration":                syntax.KindStructDeclaration,
	"record_struct_declaration":         syntax.KindStructDeclaration,
	"interface_declaration":             syntax.KindInterfaceDeclaration,
	"record_declaration":                syntax.KindRecordDeclaration,
	"enum_declaration":                  syntax.KindEnumDeclaration,
	"declaration_list":                  syntax.KindDeclarationList,
	"attribute_list":                    syntax.KindAttributeList,
	"attribute":                         syntax.KindAttribute,
	"base_list":                         syntax.KindBaseList,
	"primary_constructor_base_type":     syntax.KindPrimaryConstructorBaseType,
	"type_parameter_list":               syntax.KindTypeParameterList,
	"type_argument_list":                syntax.KindTypeArgumentList,
	"qualified_name":                    syntax.KindQualifiedName,
	"generic_name":                      syntax.KindGenericName,
	"alias_qualified_name":              syntax.KindAliasQualifiedName,
	"constructor_declaration":           syntax.KindConstructorDeclaration,
	"method_declaration":                syntax.KindMethodDeclaration,
	"parameter_list":                    syntax.KindParameterList,
	"block":                             syntax.KindBlock,
	"expression_statement":              syntax.KindExpressionStatement,
	"invocation_expression":             syntax.KindInvocationExpression,
	"argument_list":                     syntax.KindArgumentList,
	"argument":                          syntax.KindArgument,
	"member_access_expression":          syntax.KindMemberAccessExpression,
	"arrow_expression_clause":           syntax.KindArrowExpressionClause,
	"ERROR":                             syntax.KindError,
}

func kindOf(typ string) syntax.Kind {
	if k, ok := nodeKinds[typ]; ok {
		return k
	}
	return syntax.KindOther
}

// Nodes that carry no syntax of their own; their text becomes trivia.
var triviaNodes = map[string]bool{
	"comment":             true,
	"preproc_region":      true,
	"preproc_endregion":   true,
	"preproc_pragma":      true,
	"preproc_nullable":    true,
	"preproc_line":        true,
	"preproc_error":       true,
	"preproc_warning":     true,
	"preproc_define":      true,
	"preproc_undef":       true,
	"region_directive":    true,
	"endregion_directive": true,
	"pragma_directive":    true,
	"nullable_directive":  true,
}

// Declarations whose "name" child is the declared identifier rather than a
// reference to something else.
var declarations = map[string]bool{
	"class_declaration":         true,
	"struct_declaration":        true,
	"record_struct_declaration": true,
	"interface_declaration":     true,
	"record_declaration":        true,
	"enum_declaration":          true,
	"constructor_declaration":   true,
	"destructor_declaration":    true,
	"method_declaration":        true,
	"delegate_declaration":      true,
	"property_declaration":      true,
	"event_declaration":         true,
	"local_function_statement":  true,
	"enum_member_declaration":   true,
	"variable_declarator":       true,
	"parameter":                 true,
	"type_parameter":            true,
}

// Declarations where the first direct identifier child is always the name.
var nameFirst = map[string]bool{
	"class_declaration":         true,
	"struct_declaration":        true,
	"record_struct_declaration": true,
	"interface_declaration":     true,
	"record_declaration":        true,
	"enum_declaration":          true,
	"constructor_declaration":   true,
	"destructor_declaration":    true,
}
