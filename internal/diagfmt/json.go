package diagfmt

import (
	"encoding/json"
	"io"
	"sort"

	"cmdlint/internal/diag"
	"cmdlint/internal/source"
)

// LocationJSON is a location inside a file. Compilation-scoped diagnostics
// carry the "<compilation>" placeholder and no offsets.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte,omitempty"`
	EndByte   uint32 `json:"end_byte,omitempty"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	OldText     string       `json:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

type FixJSON struct {
	ID            string        `json:"id,omitempty"`
	Title         string        `json:"title"`
	Kind          string        `json:"kind"`
	Applicability string        `json:"applicability"`
	IsPreferred   bool          `json:"is_preferred,omitempty"`
	BuildError    string        `json:"build_error,omitempty"`
	Edits         []FixEditJSON `json:"edits,omitempty"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON document.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	loc := LocationJSON{File: displayPath(fs, span, pathMode)}
	if !span.IsValid() {
		return loc
	}
	loc.StartByte, loc.EndByte = span.Start, span.End
	if includePositions {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine, loc.StartCol = startPos.Line, startPos.Col
		loc.EndLine, loc.EndCol = endPos.Line, endPos.Col
	}
	return loc
}

// BuildDiagnosticsOutput assembles the JSON document without encoding it.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}

	diagnostics := make([]DiagnosticJSON, 0, len(items))
	for _, d := range items {
		out := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions),
		}
		if opts.IncludeNotes {
			for _, note := range d.Notes {
				out.Notes = append(out.Notes, NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(note.Span, fs, opts.PathMode, opts.IncludePositions),
				})
			}
		}
		if opts.IncludeFixes && len(d.Fixes) > 0 {
			out.Fixes = fixesJSON(d.Fixes, fs, opts)
		}
		diagnostics = append(diagnostics, out)
	}
	return DiagnosticsOutput{Diagnostics: diagnostics, Count: len(diagnostics)}
}

func fixesJSON(fixes []*diag.Fix, fs *source.FileSet, opts JSONOpts) []FixJSON {
	fixes = append([]*diag.Fix(nil), fixes...)
	sort.SliceStable(fixes, func(i, j int) bool {
		fi, fj := fixes[i], fixes[j]
		if fi.IsPreferred != fj.IsPreferred {
			return fi.IsPreferred
		}
		if fi.Applicability != fj.Applicability {
			return fi.Applicability < fj.Applicability
		}
		if fi.Title != fj.Title {
			return fi.Title < fj.Title
		}
		return fi.ID < fj.ID
	})

	ctx := diag.FixBuildContext{FileSet: fs}
	out := make([]FixJSON, 0, len(fixes))
	for _, lazy := range fixes {
		fj := FixJSON{
			ID:            lazy.ID,
			Title:         lazy.Title,
			Kind:          lazy.Kind.String(),
			Applicability: lazy.Applicability.String(),
			IsPreferred:   lazy.IsPreferred,
		}
		resolved, err := lazy.Resolve(ctx)
		if err != nil {
			fj.BuildError = err.Error()
			out = append(out, fj)
			continue
		}
		fj.ID, fj.Title = resolved.ID, resolved.Title
		for _, edit := range resolved.Edits {
			ej := FixEditJSON{
				Location: makeLocation(edit.Span, fs, opts.PathMode, opts.IncludePositions),
				NewText:  edit.NewText,
				OldText:  edit.OldText,
			}
			if opts.IncludePreviews {
				if pv, err := buildFixEditPreview(fs, edit); err == nil {
					ej.BeforeLines, ej.AfterLines = pv.before, pv.after
				}
			}
			fj.Edits = append(fj.Edits, ej)
		}
		out = append(out, fj)
	}
	return out
}

// JSON writes the diagnostics as one indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
