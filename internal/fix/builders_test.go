package fix

import (
	"errors"
	"testing"

	"cmdlint/internal/diag"
	"cmdlint/internal/source"
)

func TestReplaceSpanDefaults(t *testing.T) {
	span := source.Span{File: 0, Start: 2, End: 5}
	f := ReplaceSpan("rename", span, "abc", "xyz")

	if f.Kind != diag.FixKindQuickFix {
		t.Errorf("expected quick fix, got %s", f.Kind)
	}
	if f.Applicability != diag.FixApplicabilityAlwaysSafe {
		t.Errorf("expected always-safe, got %s", f.Applicability)
	}
	if len(f.Edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(f.Edits))
	}
	if e := f.Edits[0]; e.Span != span || e.NewText != "abc" || e.OldText != "xyz" {
		t.Errorf("unexpected edit %+v", e)
	}
}

func TestInsertTextCollapsesSpan(t *testing.T) {
	f := InsertText("insert", source.Span{Start: 4, End: 9}, "x")
	if e := f.Edits[0]; e.Span.Start != 4 || e.Span.End != 4 {
		t.Errorf("expected empty span at 4, got %s", e.Span)
	}
}

func TestOptions(t *testing.T) {
	f := ReplaceSpan("t", source.Span{}, "", "",
		WithID("fix-1"),
		WithKind(diag.FixKindRefactor),
		WithApplicability(diag.FixApplicabilityManualReview),
		Preferred(),
		WithRequiresAll(),
		nil,
	)
	if f.ID != "fix-1" {
		t.Errorf("expected id fix-1, got %q", f.ID)
	}
	if f.Kind != diag.FixKindRefactor {
		t.Errorf("expected refactor, got %s", f.Kind)
	}
	if f.Applicability != diag.FixApplicabilityManualReview {
		t.Errorf("expected manual review, got %s", f.Applicability)
	}
	if !f.IsPreferred || !f.RequiresAll {
		t.Errorf("expected preferred and requires-all flags, got %+v", f)
	}
}

func TestLazyResolvesThroughThunk(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.cs", []byte("class A { }"))
	calls := 0
	f := Lazy("lazy", func(ctx diag.FixBuildContext) (diag.Fix, error) {
		calls++
		file := ctx.FileSet.Get(id)
		return diag.Fix{Edits: []diag.TextEdit{{
			Span:    source.Span{File: id, Start: 6, End: 7},
			NewText: "B",
			OldText: file.Slice(source.Span{File: id, Start: 6, End: 7}),
		}}}, nil
	}, WithID("lazy-1"))

	if len(f.Edits) != 0 {
		t.Fatalf("lazy fix must not carry edits before resolution")
	}
	got, err := f.Resolve(diag.FixBuildContext{FileSet: fs})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected one thunk call, got %d", calls)
	}
	if got.ID != "lazy-1" || got.Title != "lazy" {
		t.Errorf("metadata lost: %+v", got)
	}
	if len(got.Edits) != 1 || got.Edits[0].OldText != "A" {
		t.Errorf("unexpected edits %+v", got.Edits)
	}
}

func TestLazyUnavailable(t *testing.T) {
	f := Lazy("gone", func(diag.FixBuildContext) (diag.Fix, error) {
		return diag.Fix{}, diag.ErrFixUnavailable
	})
	_, err := f.Resolve(diag.FixBuildContext{})
	if !errors.Is(err, diag.ErrFixUnavailable) {
		t.Fatalf("expected ErrFixUnavailable, got %v", err)
	}
}
