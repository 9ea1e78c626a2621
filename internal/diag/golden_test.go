package diag

import (
	"testing"

	"cmdlint/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/src/Commands/Foo.cs", []byte("a\nb\n"), 0)

	diags := []*Diagnostic{
		{
			Severity: SevError,
			Code:     CmdBindHandlerMissing,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     CmdGeneratorAttributeMissing,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
		New(CmdRootCommandMissing, source.NoSpan),
	}

	expected := "warning ATSCG003 <compilation> There is no command that inherits RootCommand\n" +
		"error ATSCG001 src/Commands/Foo.cs:1:1 first line second\n" +
		"note ATSCG001 src/Commands/Foo.cs:2:1 note line\n" +
		"warning ATSCG002 src/Commands/Foo.cs:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}
