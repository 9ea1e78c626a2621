package fix

import (
	"cmdlint/internal/diag"
	"cmdlint/internal/source"
)

// Option mutates fix during construction.
type Option func(*diag.Fix)

// WithApplicability overrides applicability metadata.
func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) { f.Applicability = app }
}

// WithKind overrides fix classification.
func WithKind(kind diag.FixKind) Option {
	return func(f *diag.Fix) { f.Kind = kind }
}

// Preferred marks fix as preferred suggestion.
func Preferred() Option {
	return func(f *diag.Fix) { f.IsPreferred = true }
}

// WithID sets stable identifier for fix.
func WithID(id string) Option {
	return func(f *diag.Fix) { f.ID = id }
}

// WithRequiresAll marks a fix that only makes sense together with its siblings.
func WithRequiresAll() Option {
	return func(f *diag.Fix) { f.RequiresAll = true }
}

func build(f diag.Fix, opts []Option) *diag.Fix {
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return &f
}

// ReplaceSpan replaces the text covered by span with newText. A non-empty
// expect guards the edit against stale buffers.
func ReplaceSpan(title string, span source.Span, newText, expect string, opts ...Option) *diag.Fix {
	return build(diag.Fix{
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         []diag.TextEdit{{Span: span, NewText: newText, OldText: expect}},
	}, opts)
}

// InsertText inserts text at the start of at.
func InsertText(title string, at source.Span, text string, opts ...Option) *diag.Fix {
	at.End = at.Start
	return ReplaceSpan(title, at, text, "", opts...)
}

// Lazy creates a fix whose edits are computed by thunk when the fix is
// materialized.
func Lazy(title string, thunk diag.FixThunk, opts ...Option) *diag.Fix {
	return build(diag.Fix{
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Thunk:         thunk,
	}, opts)
}
