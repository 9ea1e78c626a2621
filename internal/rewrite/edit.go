package rewrite

import (
	"cmdlint/internal/diag"
	"cmdlint/internal/fix"
	"cmdlint/internal/format"
	"cmdlint/internal/source"
	"cmdlint/internal/syntax"
)

// BuildEdit expresses the insertion for span as a single edit replacing the
// constructor's full text. The edit carries the old text so a stale buffer
// is detected before it is applied.
func BuildEdit(tree *syntax.Tree, span source.Span, opt format.Options) (diag.TextEdit, error) {
	next, ctor, err := apply(tree, span, opt)
	if err != nil {
		return diag.TextEdit{}, err
	}
	full := ctor.Node().FullSpan()
	oldText := ctor.Node().FullText()
	text := next.Text()
	grown := len(text) - len(tree.Text())
	newText := text[full.Start : int(full.Start)+len(oldText)+grown]
	return diag.TextEdit{Span: full, NewText: newText, OldText: oldText}, nil
}

// BuildFix wraps BuildEdit into a preferred quick fix for a missing binder call.
func BuildFix(tree *syntax.Tree, span source.Span, opt format.Options, opts ...fix.Option) (*diag.Fix, error) {
	edit, err := BuildEdit(tree, span, opt)
	if err != nil {
		return nil, err
	}
	opts = append([]fix.Option{fix.Preferred()}, opts...)
	return fix.ReplaceSpan(FixTitle, edit.Span, edit.NewText, edit.OldText, opts...), nil
}

// FixTitle is shown for the binder call insertion.
const FixTitle = "Inject BindHandler call"
