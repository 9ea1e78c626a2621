package diag

import (
	"cmdlint/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span // source.NoSpan for compilation-scoped findings
	Notes    []Note
	Fixes    []*Fix
}

// New builds a diagnostic from the descriptor of code using its default severity.
func New(code Code, primary source.Span, args ...string) *Diagnostic {
	desc, ok := Lookup(code)
	if !ok {
		desc = descriptors[UnknownCode]
	}
	return &Diagnostic{
		Severity: desc.DefaultSeverity,
		Code:     code,
		Message:  desc.Format(args...),
		Primary:  primary,
	}
}

func (d *Diagnostic) WithNote(sp source.Span, msg string) *Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d *Diagnostic) WithFix(fix *Fix) *Diagnostic {
	if fix != nil {
		d.Fixes = append(d.Fixes, fix)
	}
	return d
}
