package fix

import (
	"fmt"
	"slices"
	"sort"

	"cmdlint/internal/diag"
	"cmdlint/internal/source"
)

// buffer is the working copy of one file. Spans of incoming edits refer to
// the original content; applied keeps every committed edit sorted by start
// so positions can be shifted into the working copy.
type buffer struct {
	file    *source.File
	content []byte
	applied []diag.TextEdit
	edits   int
}

// stage applies edits to a copy of b. On failure it returns a reason and
// leaves b untouched.
func (b *buffer) stage(edits []diag.TextEdit) (*buffer, string) {
	for _, prev := range b.applied {
		for _, e := range edits {
			if spansConflict(prev, e) {
				return nil, "conflicts with previously applied edits in " + b.file.FormatPath("auto", "")
			}
		}
	}

	// back to front so earlier positions stay valid
	ordered := append([]diag.TextEdit(nil), edits...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Span.Start == ordered[j].Span.Start {
			return ordered[i].Span.End > ordered[j].Span.End
		}
		return ordered[i].Span.Start > ordered[j].Span.Start
	})

	next := &buffer{
		file:    b.file,
		content: append([]byte(nil), b.content...),
		applied: append([]diag.TextEdit(nil), b.applied...),
		edits:   b.edits + len(edits),
	}
	for _, e := range ordered {
		start := int(e.Span.Start) + shift(next.applied, int(e.Span.Start))
		end := int(e.Span.End) + shift(next.applied, int(e.Span.End))
		if start < 0 || end < start || end > len(next.content) {
			return nil, "edit span out of range"
		}
		if e.OldText != "" && string(next.content[start:end]) != e.OldText {
			return nil, "existing text does not match expected content"
		}
		tail := append([]byte(nil), next.content[end:]...)
		next.content = append(append(next.content[:start], e.NewText...), tail...)
		next.applied = insertEditSorted(next.applied, e)
	}
	return next, ""
}

// session accumulates buffers across the selected fixes.
type session struct {
	fs      *source.FileSet
	dryRun  bool
	buffers map[source.FileID]*buffer
}

func newSession(fs *source.FileSet, dryRun bool) *session {
	return &session{fs: fs, dryRun: dryRun, buffers: make(map[source.FileID]*buffer)}
}

// apply stages all edits of one fix atomically across files.
func (s *session) apply(edits []diag.TextEdit) string {
	byFile := make(map[source.FileID][]diag.TextEdit)
	for _, e := range edits {
		byFile[e.Span.File] = append(byFile[e.Span.File], e)
	}

	staged := make(map[source.FileID]*buffer, len(byFile))
	for _, id := range sortedFileIDs(byFile) {
		cur, ok := s.buffers[id]
		if !ok {
			file := s.fs.Get(id)
			if file == nil {
				return fmt.Sprintf("unknown file %d", id)
			}
			if file.Flags&source.FileVirtual != 0 && !s.dryRun {
				return "target file is virtual"
			}
			cur = &buffer{file: file, content: file.Content}
		}
		next, reason := cur.stage(byFile[id])
		if reason != "" {
			return reason
		}
		staged[id] = next
	}
	for id, b := range staged {
		s.buffers[id] = b
	}
	return ""
}

// commit writes every touched file (restoring its original line endings and
// BOM) unless the session is a dry run.
func (s *session) commit() ([]FileChange, error) {
	baseDir := s.fs.BaseDir()
	changes := make([]FileChange, 0, len(s.buffers))
	for _, id := range sortedFileIDs(s.buffers) {
		b := s.buffers[id]
		if !s.dryRun {
			if err := writeFile(b.file.Path, b.file.Encode(b.content)); err != nil {
				return changes, err
			}
		}
		changes = append(changes, FileChange{
			FileID:    id,
			Path:      b.file.FormatPath("relative", baseDir),
			EditCount: b.edits,
			Content:   b.content,
		})
	}
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}

// spansConflict treats spans as half-open. Two insertions never conflict;
// an insertion conflicts with a span that strictly contains its position
// from the left edge on.
func spansConflict(a, b diag.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End
	switch {
	case aStart == aEnd && bStart == bEnd:
		return false
	case aStart == aEnd:
		return bStart <= aStart && aStart < bEnd
	case bStart == bEnd:
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

// shift is the length change caused by applied edits that end at or before pos.
func shift(applied []diag.TextEdit, pos int) int {
	delta := 0
	for _, e := range applied {
		if int(e.Span.Start) > pos {
			break
		}
		if int(e.Span.End) <= pos {
			delta += len(e.NewText) - int(e.Span.End-e.Span.Start)
		}
	}
	return delta
}

func insertEditSorted(edits []diag.TextEdit, edit diag.TextEdit) []diag.TextEdit {
	i := sort.Search(len(edits), func(i int) bool {
		if edits[i].Span.Start == edit.Span.Start {
			return edits[i].Span.End >= edit.Span.End
		}
		return edits[i].Span.Start > edit.Span.Start
	})
	return slices.Insert(edits, i, edit)
}
