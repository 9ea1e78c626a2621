package diagfmt

import (
	"fmt"
	"io"

	"cmdlint/internal/diag"
	"cmdlint/internal/source"
)

// Short writes one line per diagnostic: "<sev> <CODE> <path>:<line>:<col> <message>".
// PathModeRelative yields the stable golden form, paths relative to the
// FileSet base; any other mode shortens long absolute paths.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode, includeNotes bool) error {
	var out string
	if mode == PathModeRelative {
		out = diag.FormatGoldenDiagnostics(bag.Items(), fs, includeNotes)
	} else {
		out = diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes)
	}
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
