package diagfmt

import (
	"fmt"

	"cmdlint/internal/source"
)

// displayPath renders the file of span; compilation-scoped spans render as
// their placeholder.
func displayPath(fs *source.FileSet, span source.Span, mode PathMode) string {
	if !span.IsValid() {
		return span.String()
	}
	f := fs.Get(span.File)
	if f == nil {
		return span.String()
	}
	baseDir := ""
	if mode == PathModeRelative {
		baseDir = fs.BaseDir()
	}
	return f.FormatPath(mode.String(), baseDir)
}

// location renders "path:line:col", or just the path for spans outside files.
func location(fs *source.FileSet, span source.Span, mode PathMode) string {
	path := displayPath(fs, span, mode)
	if !span.IsValid() || fs.Get(span.File) == nil {
		return path
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}
