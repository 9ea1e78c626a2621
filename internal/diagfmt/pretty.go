package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cmdlint/internal/diag"
	"cmdlint/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, caret, gutter, code, fix *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgGreen, color.Bold),
		gutter: color.New(color.FgBlue),
		code:   color.New(color.Bold),
		fix:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.caret, p.gutter, p.code, p.fix} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty prints bag.Items() (sort the bag first) in a human readable form:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed by the source line with a ^~~~ underline of the primary span and,
// when enabled, notes and fixes. Compilation-scoped diagnostics have no
// source excerpt.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		location(fs, d.Primary, opts.PathMode),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message,
	)
	writeExcerpt(w, fs, d.Primary, int(opts.Context), p)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
		}
	}
	if opts.ShowFixes {
		writeFixes(w, d, fs, opts, p)
	}
}

func writeExcerpt(w io.Writer, fs *source.FileSet, span source.Span, context int, p palette) {
	if !span.IsValid() {
		return
	}
	f := fs.Get(span.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(span)
	lines := len(f.LineIdx) + 1
	if len(f.Content) > 0 && f.Content[len(f.Content)-1] == '\n' {
		lines--
	}
	first := max(int(start.Line)-context, 1)
	last := max(min(int(start.Line)+context, lines), int(start.Line))
	gutter := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		line := f.GetLine(uint32(ln))
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutter, ln), expandTabs(line))
		if ln != int(start.Line) {
			continue
		}
		prefix := displayWidth(line, 0, int(start.Col)-1)
		endCol := len(line) + 1
		if end.Line == start.Line {
			endCol = int(end.Col)
		}
		width := max(displayWidth(line, int(start.Col)-1, endCol-1), 1)
		fmt.Fprintf(w, "%s %s%s\n",
			p.gutter.Sprintf("%*s |", gutter, ""),
			strings.Repeat(" ", prefix),
			p.caret.Sprint("^"+strings.Repeat("~", width-1)),
		)
	}
}

func writeFixes(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	ctx := diag.FixBuildContext{FileSet: fs}
	for i, lazy := range d.Fixes {
		f, err := lazy.Resolve(ctx)
		if err != nil {
			fmt.Fprintf(w, "  %s %s (unavailable: %v)\n", p.fix.Sprintf("fix #%d:", i+1), lazy.Title, err)
			continue
		}
		meta := []string{f.Kind.String(), f.Applicability.String()}
		if f.IsPreferred {
			meta = append(meta, "preferred")
		}
		if f.ID != "" {
			meta = append(meta, "id="+f.ID)
		}
		fmt.Fprintf(w, "  %s %s [%s]\n", p.fix.Sprintf("fix #%d:", i+1), f.Title, strings.Join(meta, ", "))
		for _, e := range f.Edits {
			fmt.Fprintf(w, "    edit %s apply=%q\n", location(fs, e.Span, opts.PathMode), e.NewText)
			if !opts.ShowPreview {
				continue
			}
			pv, err := buildFixEditPreview(fs, e)
			if err != nil {
				continue
			}
			fmt.Fprintln(w, "    preview:")
			for _, l := range pv.before {
				fmt.Fprintf(w, "      - %s\n", l)
			}
			for _, l := range pv.after {
				fmt.Fprintf(w, "      + %s\n", l)
			}
		}
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// displayWidth is the terminal width of line[from:to] after tab expansion.
func displayWidth(line string, from, to int) int {
	from = min(max(from, 0), len(line))
	to = min(max(to, from), len(line))
	return runewidth.StringWidth(expandTabs(line[from:to]))
}
