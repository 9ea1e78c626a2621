package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cmdlint/internal/diag"
	"cmdlint/internal/source"
)

func diagWith(code diag.Code, span source.Span, fixes ...*diag.Fix) *diag.Diagnostic {
	d := diag.New(code, span, "X")
	for _, f := range fixes {
		d.WithFix(f)
	}
	return d
}

func TestGatherCandidatesSkipsDuplicateFixIDs(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cs", []byte(""))
	span := source.Span{File: fileID, Start: 0, End: 0}

	diagnostics := []*diag.Diagnostic{diagWith(diag.CmdBindHandlerMissing, span,
		InsertText("insert call", span, "BindHandler();", WithID("fix-duplicate")),
		InsertText("insert call again", span, "BindHandler();", WithID("fix-duplicate")),
	)}

	candidates, skips := gatherCandidates(diag.FixBuildContext{FileSet: fs}, diagnostics)

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if len(skips) != 1 {
		t.Fatalf("expected 1 skipped fix, got %d", len(skips))
	}
	if skips[0].ID != "fix-duplicate" || skips[0].Reason != "duplicate fix id" {
		t.Fatalf("unexpected skip %+v", skips[0])
	}
}

func TestGatherCandidatesSynthesizesIDs(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cs", []byte("abc"))
	span := source.Span{File: fileID, Start: 1, End: 2}

	candidates, _ := gatherCandidates(diag.FixBuildContext{FileSet: fs}, []*diag.Diagnostic{
		diagWith(diag.CmdBindHandlerMissing, span, ReplaceSpan("t", span, "B", "b")),
	})
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if got := candidates[0].fix.ID; got != "ATSCG001-0-1-0" {
		t.Fatalf("unexpected synthesized id %q", got)
	}
}

func TestApplyDryRun(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.cs", []byte("class A { }"))
	open := source.Span{File: fileID, Start: 8, End: 11}

	diagnostics := []*diag.Diagnostic{
		diagWith(diag.CmdBindHandlerMissing, open, ReplaceSpan("fill", open, "{ X(); }", "{ }", WithID("a"))),
	}
	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(res.Applied) != 1 || len(res.FileChanges) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := string(res.FileChanges[0].Content); got != "class A { X(); }" {
		t.Fatalf("unexpected content %q", got)
	}
	if got := string(fs.Get(fileID).Content); got != "class A { }" {
		t.Fatalf("file set mutated: %q", got)
	}
}

func TestApplySkipsStaleFix(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.cs", []byte("class A { }"))
	span := source.Span{File: fileID, Start: 6, End: 7}

	diagnostics := []*diag.Diagnostic{
		diagWith(diag.CmdBindHandlerMissing, span, ReplaceSpan("rename", span, "B", "Z")),
	}
	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "existing text does not match expected content" {
		t.Fatalf("unexpected skips %+v", res.Skipped)
	}
}

func TestApplyConflictingFixes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.cs", []byte("0123456789"))
	first := source.Span{File: fileID, Start: 2, End: 6}
	second := source.Span{File: fileID, Start: 4, End: 8}

	diagnostics := []*diag.Diagnostic{
		diagWith(diag.CmdBindHandlerMissing, first, ReplaceSpan("one", first, "x", "", WithID("one"))),
		diagWith(diag.CmdBindHandlerMissing, second, ReplaceSpan("two", second, "y", "", WithID("two"))),
	}
	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(res.Applied) != 1 || res.Applied[0].ID != "one" {
		t.Fatalf("expected only the first fix, got %+v", res.Applied)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].ID != "two" {
		t.Fatalf("expected the second fix skipped, got %+v", res.Skipped)
	}
	if got := string(res.FileChanges[0].Content); got != "01x6789" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestApplyShiftsLaterEdits(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.cs", []byte("aa bb cc"))
	a := source.Span{File: fileID, Start: 0, End: 2}
	c := source.Span{File: fileID, Start: 6, End: 8}

	diagnostics := []*diag.Diagnostic{
		diagWith(diag.CmdBindHandlerMissing, a, ReplaceSpan("a", a, "AAAA", "aa", WithID("a"))),
		diagWith(diag.CmdBindHandlerMissing, c, ReplaceSpan("c", c, "C", "cc", WithID("c"))),
	}
	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := string(res.FileChanges[0].Content); got != "AAAA bb C" {
		t.Fatalf("unexpected content %q", got)
	}
	if res.FileChanges[0].EditCount != 2 {
		t.Fatalf("expected 2 edits, got %d", res.FileChanges[0].EditCount)
	}
}

func TestApplyModes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.cs", []byte("aa bb"))
	a := source.Span{File: fileID, Start: 0, End: 2}
	b := source.Span{File: fileID, Start: 3, End: 5}
	diagnostics := []*diag.Diagnostic{
		diagWith(diag.CmdBindHandlerMissing, a, ReplaceSpan("a", a, "A", "", WithID("a"), WithApplicability(diag.FixApplicabilityManualReview))),
		diagWith(diag.CmdBindHandlerMissing, b, ReplaceSpan("b", b, "B", "", WithID("b"))),
	}

	tests := []struct {
		name    string
		opts    ApplyOptions
		applied []string
		content string
		err     error
	}{
		{name: "all skips unsafe", opts: ApplyOptions{Mode: ApplyModeAll}, applied: []string{"b"}, content: "aa B"},
		{name: "once prefers safe", opts: ApplyOptions{Mode: ApplyModeOnce}, applied: []string{"b"}, content: "aa B"},
		{name: "by id", opts: ApplyOptions{Mode: ApplyModeID, TargetID: "a"}, applied: []string{"a"}, content: "A bb"},
		{name: "missing id", opts: ApplyOptions{Mode: ApplyModeID, TargetID: "zzz"}, err: ErrNoFixes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.DryRun = true
			res, err := Apply(fs, diagnostics, tt.opts)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("expected %v, got %v", tt.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			var ids []string
			for _, a := range res.Applied {
				ids = append(ids, a.ID)
			}
			if len(ids) != len(tt.applied) || ids[0] != tt.applied[0] {
				t.Fatalf("expected %v applied, got %v", tt.applied, ids)
			}
			if got := string(res.FileChanges[0].Content); got != tt.content {
				t.Fatalf("unexpected content %q", got)
			}
		})
	}
}

func TestApplyWritesWithOriginalEncoding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.cs")
	orig := "\xEF\xBB\xBFclass A\r\n{\r\n}\r\n"
	if err := os.WriteFile(path, []byte(orig), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSetWithBase(dir)
	fileID, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	// "class A\n{\n}\n": the opening brace sits at offset 8
	span := source.Span{File: fileID, Start: 8, End: 9}
	diagnostics := []*diag.Diagnostic{
		diagWith(diag.CmdBindHandlerMissing, span, ReplaceSpan("body", span, "{\n    X();", "{")),
	}
	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(res.FileChanges) != 1 || res.FileChanges[0].Path != "a.cs" {
		t.Fatalf("unexpected changes %+v", res.FileChanges)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "\xEF\xBB\xBFclass A\r\n{\r\n    X();\r\n}\r\n"; string(got) != want {
		t.Fatalf("unexpected file content %q", got)
	}
}

func TestApplyRefusesVirtualFileWrites(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.cs", []byte("ab"))
	span := source.Span{File: fileID, Start: 0, End: 1}
	res, err := Apply(fs, []*diag.Diagnostic{
		diagWith(diag.CmdBindHandlerMissing, span, ReplaceSpan("t", span, "A", "a")),
	}, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "target file is virtual" {
		t.Fatalf("unexpected skips %+v", res.Skipped)
	}
}
