package diag

import "cmdlint/internal/source"

// Override changes the effective severity of a code, or disables it.
type Override struct {
	Severity Severity
	Disabled bool
}

// OverrideReporter applies user severity overrides before forwarding.
// Codes whose descriptor is NotConfigurable pass through untouched.
type OverrideReporter struct {
	next      Reporter
	overrides map[Code]Override
}

func NewOverrideReporter(next Reporter, overrides map[Code]Override) *OverrideReporter {
	return &OverrideReporter{next: next, overrides: overrides}
}

func (r *OverrideReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []*Fix) {
	if ov, ok := r.overrides[code]; ok && Configurable(code) {
		if ov.Disabled {
			return
		}
		sev = ov.Severity
	}
	r.next.Report(code, sev, primary, msg, notes, fixes)
}

// Configurable reports whether users may change the severity of code.
func Configurable(code Code) bool {
	d, ok := Lookup(code)
	return ok && !d.NotConfigurable
}
