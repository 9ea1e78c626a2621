package diag

import (
	"errors"
	"fmt"

	"cmdlint/internal/source"
)

// FixApplicability tells the fix engine how much to trust a fix.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	}
	return "unknown"
}

// FixKind is a coarse classification used by UIs.
type FixKind uint8

const (
	FixKindQuickFix FixKind = iota
	FixKindRefactor
	FixKindRefactorRewrite
	FixKindSourceAction
)

func (k FixKind) String() string {
	switch k {
	case FixKindQuickFix:
		return "quickfix"
	case FixKindRefactor:
		return "refactor"
	case FixKindRefactorRewrite:
		return "refactor.rewrite"
	case FixKindSourceAction:
		return "source"
	}
	return "unknown"
}

// TextEdit replaces Span with NewText. A non-empty OldText guards the edit:
// the engine refuses to apply it when the current text differs.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// FixBuildContext is handed to lazy fix builders.
type FixBuildContext struct {
	FileSet *source.FileSet
}

// FixThunk builds the edits of a fix on demand against the current file contents.
type FixThunk func(ctx FixBuildContext) (Fix, error)

type Fix struct {
	ID            string
	Title         string
	Kind          FixKind
	Applicability FixApplicability
	IsPreferred   bool
	RequiresAll   bool
	Edits         []TextEdit
	Thunk         FixThunk `msgpack:"-"`
}

// ErrFixUnavailable is returned by thunks whose preconditions no longer hold.
var ErrFixUnavailable = errors.New("fix no longer applicable")

// Resolve returns a materialised copy of f. Metadata set on f wins over
// whatever the thunk returns, except for edits.
func (f *Fix) Resolve(ctx FixBuildContext) (Fix, error) {
	if f == nil {
		return Fix{}, errors.New("nil fix")
	}
	out := *f
	out.Thunk = nil
	if f.Thunk == nil {
		out.Edits = append([]TextEdit(nil), f.Edits...)
		return out, nil
	}
	built, err := f.Thunk(ctx)
	if err != nil {
		return Fix{}, fmt.Errorf("build fix %q: %w", f.Title, err)
	}
	out.Edits = append([]TextEdit(nil), built.Edits...)
	if out.ID == "" {
		out.ID = built.ID
	}
	if out.Title == "" {
		out.Title = built.Title
	}
	return out, nil
}

// MaterializeFixes resolves every fix. The first failure aborts.
func MaterializeFixes(ctx FixBuildContext, fixes []*Fix) ([]Fix, error) {
	out := make([]Fix, 0, len(fixes))
	for _, f := range fixes {
		resolved, err := f.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}
