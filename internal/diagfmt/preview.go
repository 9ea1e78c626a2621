package diagfmt

import (
	"errors"
	"fmt"
	"strings"

	"cmdlint/internal/diag"
	"cmdlint/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview renders the whole lines touched by edit before and
// after applying it.
func buildFixEditPreview(fs *source.FileSet, edit diag.TextEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, errors.New("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	if int(edit.Span.End) > len(file.Content) || edit.Span.Start > edit.Span.End {
		return fixEditPreview{}, fmt.Errorf("edit span %s out of range", edit.Span)
	}

	content := string(file.Content)
	blockStart := strings.LastIndexByte(content[:edit.Span.Start], '\n') + 1
	blockEnd := len(content)
	if i := strings.IndexByte(content[edit.Span.End:], '\n'); i >= 0 {
		blockEnd = int(edit.Span.End) + i + 1
	}

	original := content[blockStart:blockEnd]
	after := content[blockStart:edit.Span.Start] + edit.NewText + content[edit.Span.End:blockEnd]
	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

// splitPreviewLines drops the final newline so it does not show as a blank line.
func splitPreviewLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
