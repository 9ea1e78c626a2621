package symbols

import (
	"fmt"
	"regexp"
	"strings"

	"fortio.org/safecast"

	"cmdlint/internal/source"
)

type memberKey struct {
	container SymbolID
	name      string // metadata name
}

// Table is the declared-type graph of one compilation: an arena of
// namespace and type symbols rooted at the global namespace.
type Table struct {
	syms     []Symbol // index 0 reserved for NoSymbolID
	global   SymbolID
	members  map[memberKey]SymbolID
	external map[string]SymbolID
}

// NewTable creates a table holding only the global namespace.
func NewTable() *Table {
	t := &Table{
		syms:     make([]Symbol, 1, 64),
		members:  make(map[memberKey]SymbolID),
		external: make(map[string]SymbolID),
	}
	t.global = t.alloc(Symbol{Kind: SymbolNamespace})
	return t
}

func (t *Table) alloc(s Symbol) SymbolID {
	value, err := safecast.Conv[uint32](len(t.syms))
	if err != nil {
		panic(fmt.Errorf("symbols arena overflow: %w", err))
	}
	s.ID = SymbolID(value)
	t.syms = append(t.syms, s)
	return s.ID
}

// Global returns the root namespace.
func (t *Table) Global() SymbolID { return t.global }

// Get returns the symbol or nil if the ID is invalid.
func (t *Table) Get(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(t.syms) {
		return nil
	}
	return &t.syms[id]
}

// Len reports the number of symbols excluding the sentinel.
func (t *Table) Len() int { return len(t.syms) - 1 }

// Member finds a direct member of container by metadata name.
func (t *Table) Member(container SymbolID, metadataName string) (SymbolID, bool) {
	id, ok := t.members[memberKey{container, metadataName}]
	return id, ok
}

func (t *Table) addMember(container, member SymbolID) {
	c := t.Get(container)
	c.Members = append(c.Members, member)
	t.members[memberKey{container, t.Get(member).MetadataName}] = member
}

// Namespace returns (and creates if needed) the namespace with the dotted name.
func (t *Table) Namespace(qualified string) SymbolID {
	cur := t.global
	if qualified == "" {
		return cur
	}
	for _, part := range strings.Split(qualified, ".") {
		if id, ok := t.Member(cur, part); ok && t.Get(id).Kind == SymbolNamespace {
			cur = id
			continue
		}
		id := t.alloc(Symbol{Kind: SymbolNamespace, Name: part, MetadataName: part, Container: cur})
		t.addMember(cur, id)
		cur = id
	}
	return cur
}

// QualifiedName renders the dotted metadata path of id.
func (t *Table) QualifiedName(id SymbolID) string {
	s := t.Get(id)
	if s == nil {
		return ""
	}
	if s.IsExternal() {
		for key, ext := range t.external {
			if ext == id {
				return key
			}
		}
	}
	var parts []string
	for cur := s; cur != nil && cur.ID != t.global; cur = t.Get(cur.Container) {
		parts = append(parts, cur.MetadataName)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// Lookup resolves a dotted metadata path from the global namespace.
func (t *Table) Lookup(qualified string) (SymbolID, bool) {
	cur := t.global
	for _, part := range strings.Split(qualified, ".") {
		id, ok := t.Member(cur, part)
		if !ok {
			return NoSymbolID, false
		}
		cur = id
	}
	return cur, true
}

// externalType returns the one symbol standing for an undeclared type.
func (t *Table) externalType(ref TypeRef) SymbolID {
	key := ref.String()
	if id, ok := t.external[key]; ok {
		return id
	}
	name := ref.Parts[len(ref.Parts)-1]
	id := t.alloc(Symbol{
		Kind:         SymbolType,
		TypeKind:     TypeExternal,
		Name:         name,
		MetadataName: metadataName(name, ref.Arity),
	})
	t.external[key] = id
	return id
}

var (
	objectRef    = TypeRef{Parts: []string{"System", "Object"}}
	valueTypeRef = TypeRef{Parts: []string{"System", "ValueType"}}
	enumRef      = TypeRef{Parts: []string{"System", "Enum"}}

	// interfaceName is the naming convention used to keep undeclared
	// interfaces out of the base-class slot.
	interfaceName = regexp.MustCompile(`^I[A-Z]`)
)

// Build merges the declarations of all files into one table. Namespaces
// merge by qualified name and partial types by container and metadata name.
func Build(files []FileDecls) *Table {
	t := NewTable()
	type declared struct {
		decl *TypeDecl
		id   SymbolID
	}
	var all []declared

	for fi := range files {
		for _, ns := range files[fi].Namespaces {
			t.Namespace(ns)
		}
		for di := range files[fi].Types {
			d := &files[fi].Types[di]
			all = append(all, declared{decl: d, id: t.declare(d)})
		}
	}

	// resolving may allocate external symbols, so never hold a *Symbol across it
	for _, e := range all {
		s := t.Get(e.id)
		if s.Base.IsValid() || e.decl.Base == nil {
			continue
		}
		if s.TypeKind != TypeClass && s.TypeKind != TypeRecord {
			continue
		}
		if base := t.resolve(e.decl, e.id, *e.decl.Base); base.IsValid() && t.isBaseClass(base) {
			t.Get(e.id).Base = base
		}
	}

	declaredCount := len(t.syms)
	for i := 1; i < declaredCount; i++ {
		if t.syms[i].Kind != SymbolType || t.syms[i].Base.IsValid() {
			continue
		}
		var base SymbolID
		switch t.syms[i].TypeKind {
		case TypeClass, TypeRecord:
			base = t.externalType(objectRef)
		case TypeStruct:
			base = t.externalType(valueTypeRef)
		case TypeEnum:
			base = t.externalType(enumRef)
		default:
			continue
		}
		t.syms[i].Base = base
	}
	return t
}

func (t *Table) declare(d *TypeDecl) SymbolID {
	container := t.Namespace(d.Namespace)
	for _, outer := range d.Outer {
		id, ok := t.Member(container, outer)
		if !ok {
			name, _, _ := strings.Cut(outer, "`")
			id = t.alloc(Symbol{Kind: SymbolType, TypeKind: TypeUnknown, Name: name, MetadataName: outer, Container: container})
			t.addMember(container, id)
		}
		container = id
	}
	meta := d.MetadataName()
	if id, ok := t.Member(container, meta); ok && t.Get(id).Kind == SymbolType {
		s := t.Get(id)
		s.Decls = append(s.Decls, d.Span)
		if s.TypeKind == TypeUnknown {
			s.TypeKind = d.Kind
		}
		return id
	}
	id := t.alloc(Symbol{
		Kind:         SymbolType,
		TypeKind:     d.Kind,
		Name:         d.Name,
		MetadataName: meta,
		Container:    container,
		Decls:        []source.Span{d.Span},
	})
	t.addMember(container, id)
	return id
}

func (t *Table) isBaseClass(id SymbolID) bool {
	s := t.Get(id)
	switch s.TypeKind {
	case TypeInterface, TypeStruct, TypeEnum:
		return false
	case TypeExternal:
		return !interfaceName.MatchString(s.Name)
	}
	return true
}

// resolve looks a base reference up from the declaration site: containing
// types, then enclosing namespaces innermost first, then using namespaces.
// Unresolved references become external symbols.
func (t *Table) resolve(d *TypeDecl, self SymbolID, ref TypeRef) SymbolID {
	first := ref.Parts[0]
	if len(ref.Parts) == 1 {
		first = metadataName(first, ref.Arity)
	}

	var scopes []SymbolID
	for cur := t.Get(self).Container; cur.IsValid(); cur = t.Get(cur).Container {
		scopes = append(scopes, cur)
	}
	for _, scope := range scopes {
		if id, ok := t.Member(scope, first); ok && id != self {
			if found := t.descend(id, ref); found.IsValid() {
				return found
			}
		}
	}
	for _, u := range d.Usings {
		ns, ok := t.Lookup(u)
		if !ok {
			continue
		}
		if id, ok := t.Member(ns, first); ok && t.Get(id).Kind == SymbolType {
			if found := t.descend(id, ref); found.IsValid() {
				return found
			}
		}
	}
	return t.externalType(ref)
}

func (t *Table) descend(start SymbolID, ref TypeRef) SymbolID {
	cur := start
	for i := 1; i < len(ref.Parts); i++ {
		name := ref.Parts[i]
		if i == len(ref.Parts)-1 {
			name = metadataName(name, ref.Arity)
		}
		next, ok := t.Member(cur, name)
		if !ok {
			return NoSymbolID
		}
		cur = next
	}
	if t.Get(cur).Kind != SymbolType {
		return NoSymbolID
	}
	return cur
}
