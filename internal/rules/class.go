package rules

import (
	"cmdlint/internal/diag"
	"cmdlint/internal/source"
	"cmdlint/internal/syntax"
)

// FindingKind classifies a per-class violation.
type FindingKind uint8

const (
	FindingBindHandlerMissing FindingKind = iota + 1
	FindingGeneratorAttributeMissing
)

func (k FindingKind) Code() diag.Code {
	switch k {
	case FindingBindHandlerMissing:
		return diag.CmdBindHandlerMissing
	case FindingGeneratorAttributeMissing:
		return diag.CmdGeneratorAttributeMissing
	}
	return diag.UnknownCode
}

// Finding is one violation found in a class. It is recomputed on every run.
type Finding struct {
	Kind     FindingKind
	Class    syntax.ClassDeclaration
	Name     string
	Location source.Span // class identifier
	// Marker is the generator attribute name, when present.
	Marker *syntax.Node
	// Constructor is the place a fix would insert the binder call, see
	// TargetConstructor. Nil when the class declares none.
	Constructor *syntax.ConstructorDeclaration
}

// BinderCall is a located binder invocation.
type BinderCall struct {
	Constructor syntax.ConstructorDeclaration
	Invocation  syntax.Invocation
}

// CommandType returns the base type expression when the first listed base
// is a bare identifier naming a command type.
func CommandType(class syntax.ClassDeclaration) (*syntax.Node, bool) {
	return firstBaseNamed(class, commandBases)
}

// IsRootCommand reports whether the first listed base is the bare
// identifier RootCommand.
func IsRootCommand(class syntax.ClassDeclaration) bool {
	_, ok := firstBaseNamed(class, rootBases)
	return ok
}

func firstBaseNamed(class syntax.ClassDeclaration, names nameSet) (*syntax.Node, bool) {
	bases := class.BaseTypes()
	if len(bases) == 0 {
		return nil, false
	}
	name, ok := syntax.IdentifierText(bases[0])
	if !ok || !names.has(name) {
		return nil, false
	}
	return bases[0], true
}

// GeneratorAttribute returns the name of the first attribute that marks the
// class for handler generation.
func GeneratorAttribute(class syntax.ClassDeclaration) (*syntax.Node, bool) {
	return attributeNamed(class, generatorMarkers)
}

// IsMarkerExempt reports classes that may omit the generator marker: root
// commands and classes declaring a parent/child relationship.
func IsMarkerExempt(class syntax.ClassDeclaration) bool {
	if IsRootCommand(class) {
		return true
	}
	_, ok := attributeNamed(class, relationshipMarkers)
	return ok
}

func attributeNamed(class syntax.ClassDeclaration, names nameSet) (*syntax.Node, bool) {
	for _, attr := range class.Attributes() {
		name := attr.Name()
		if text, ok := syntax.IdentifierText(name); ok && names.has(text) {
			return name, true
		}
	}
	return nil, false
}

// BinderCalls collects every zero-argument call to the binder method, by
// bare identifier, anywhere inside a constructor declared directly in the class.
func BinderCalls(class syntax.ClassDeclaration) []BinderCall {
	var out []BinderCall
	for _, ctor := range class.Constructors() {
		for _, inv := range ctor.Invocations() {
			if IsBinderCall(inv) {
				out = append(out, BinderCall{Constructor: ctor, Invocation: inv})
			}
		}
	}
	return out
}

// IsBinderCall matches "BindHandler()"; qualified, generic or argument
// carrying calls do not count.
func IsBinderCall(inv syntax.Invocation) bool {
	name, ok := syntax.IdentifierText(inv.Callee())
	return ok && name == BinderMethod && len(inv.Arguments()) == 0
}

// CheckClass runs the per-class rules and returns at most one finding.
func CheckClass(class syntax.ClassDeclaration) (Finding, bool) {
	if _, ok := CommandType(class); !ok {
		return Finding{}, false
	}
	f := Finding{Class: class, Name: class.Name(), Location: class.Node().Span()}
	if id := class.Identifier(); id != nil {
		f.Location = id.Span()
	}
	marker, ok := GeneratorAttribute(class)
	if !ok {
		if IsMarkerExempt(class) {
			return Finding{}, false
		}
		f.Kind = FindingGeneratorAttributeMissing
		return f, true
	}
	if len(BinderCalls(class)) > 0 {
		return Finding{}, false
	}
	f.Kind = FindingBindHandlerMissing
	f.Marker = marker
	if ctor, ok := TargetConstructor(class); ok {
		f.Constructor = &ctor
	}
	return f, true
}

// TargetConstructor picks the constructor that receives the binder call: the
// first instance constructor declared directly in class, or the first
// constructor when all of them are static.
func TargetConstructor(class syntax.ClassDeclaration) (syntax.ConstructorDeclaration, bool) {
	ctors := class.Constructors()
	if len(ctors) == 0 {
		return syntax.ConstructorDeclaration{}, false
	}
	for _, ctor := range ctors {
		if !ctor.IsStatic() {
			return ctor, true
		}
	}
	return ctors[0], true
}

// FixProvider returns the fix offered for a finding, or nil.
type FixProvider func(Finding) *diag.Fix

// AnalyzeClass reports the finding of class, if any, at the class identifier.
func AnalyzeClass(class syntax.ClassDeclaration, r diag.Reporter) (Finding, bool) {
	return analyzeClass(class, r, nil)
}

func analyzeClass(class syntax.ClassDeclaration, r diag.Reporter, fixes FixProvider) (Finding, bool) {
	f, ok := CheckClass(class)
	if !ok {
		return Finding{}, false
	}
	b := diag.ReportDescriptor(r, f.Kind.Code(), f.Location, f.Name)
	if fixes != nil {
		if fx := fixes(f); fx != nil {
			b.WithFix(fx)
		}
	}
	b.Emit()
	return f, true
}

// AnalyzeTree runs AnalyzeClass over every class in the tree, nested ones included.
func AnalyzeTree(tree *syntax.Tree, r diag.Reporter) []Finding {
	return AnalyzeTreeWithFixes(tree, r, nil)
}

// AnalyzeTreeWithFixes is AnalyzeTree with fixes attached to the reports.
func AnalyzeTreeWithFixes(tree *syntax.Tree, r diag.Reporter, fixes FixProvider) []Finding {
	var out []Finding
	for _, n := range tree.Root().DescendantsOfKind(syntax.KindClassDeclaration) {
		class, _ := syntax.AsClassDeclaration(n)
		if f, ok := analyzeClass(class, r, fixes); ok {
			out = append(out, f)
		}
	}
	return out
}
