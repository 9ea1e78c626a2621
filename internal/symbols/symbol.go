package symbols

import (
	"cmdlint/internal/source"
)

// SymbolKind classifies a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolNamespace
	SymbolType
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolNamespace:
		return "namespace"
	case SymbolType:
		return "type"
	default:
		return "invalid"
	}
}

// TypeKind refines SymbolType symbols.
type TypeKind uint8

const (
	TypeUnknown TypeKind = iota
	TypeClass
	TypeStruct
	TypeInterface
	TypeRecord
	TypeEnum
	// TypeExternal is a type referenced but not declared in the compilation.
	TypeExternal
)

func (k TypeKind) String() string {
	switch k {
	case TypeClass:
		return "class"
	case TypeStruct:
		return "struct"
	case TypeInterface:
		return "interface"
	case TypeRecord:
		return "record"
	case TypeEnum:
		return "enum"
	case TypeExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Symbol is a namespace or a named type. Identity is the SymbolID: two
// mentions of the same type resolve to the same ID.
type Symbol struct {
	ID       SymbolID
	Kind     SymbolKind
	TypeKind TypeKind
	Name     string
	// MetadataName is Name, or Name`N for a type with N type parameters.
	MetadataName string
	Container    SymbolID
	// Base is the base class; NoSymbolID for namespaces, interfaces and
	// unresolved declarations.
	Base SymbolID
	// Members holds nested namespaces and types for a namespace, nested
	// types for a type.
	Members []SymbolID
	// Decls are the identifier spans of every declaration; partial types have several.
	Decls []source.Span
}

// IsExternal reports whether the symbol was synthesized for an unresolved reference.
func (s *Symbol) IsExternal() bool {
	return s.TypeKind == TypeExternal
}
