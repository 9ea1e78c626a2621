package driver

import (
	"context"
	"fmt"

	"cmdlint/internal/csharp"
	"cmdlint/internal/diag"
	"cmdlint/internal/fix"
	"cmdlint/internal/format"
	"cmdlint/internal/rewrite"
	"cmdlint/internal/rules"
	"cmdlint/internal/source"
)

// bindHandlerFixes offers the insertion fix for missing binder calls in
// constructors that have a block body.
func bindHandlerFixes(opt format.Options) rules.FixProvider {
	return func(f rules.Finding) *diag.Fix {
		if f.Kind != rules.FindingBindHandlerMissing || f.Constructor == nil {
			return nil
		}
		if _, ok := rewrite.Plan(*f.Constructor); !ok {
			return nil
		}
		id := fmt.Sprintf("%s-%s-%d", f.Kind.Code().ID(), f.Name, f.Location.Start)
		return bindHandlerFix(f.Location, id, opt)
	}
}

// bindHandlerFix re-parses the current content of the file when the fix is
// materialized, so it never works on a stale tree.
func bindHandlerFix(at source.Span, id string, opt format.Options) *diag.Fix {
	thunk := func(ctx diag.FixBuildContext) (diag.Fix, error) {
		file := ctx.FileSet.Get(at.File)
		if file == nil {
			return diag.Fix{}, fmt.Errorf("%w: file %d is gone", diag.ErrFixUnavailable, at.File)
		}
		p := csharp.NewParser()
		defer p.Close()
		tree, err := p.Parse(context.Background(), at.File, file.Content, diag.NopReporter{})
		if err != nil {
			return diag.Fix{}, err
		}
		edit, err := rewrite.BuildEdit(tree, at, opt)
		if err != nil {
			return diag.Fix{}, fmt.Errorf("%w: %w", diag.ErrFixUnavailable, err)
		}
		return diag.Fix{Edits: []diag.TextEdit{edit}}, nil
	}
	return fix.Lazy(rewrite.FixTitle, thunk, fix.Preferred(), fix.WithID(id))
}
