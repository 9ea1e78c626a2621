package fix

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"

	"cmdlint/internal/diag"
	"cmdlint/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected and whether files are written.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// DryRun computes the new contents without touching the disk.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications of one file. Content is the new
// normalized text (LF, no BOM).
type FileChange struct {
	FileID    source.FileID
	Path      string
	EditCount int
	Content   []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  *diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply collects fixes from diagnostics, selects a subset according to opts,
// and applies them. The FileSet is never mutated; new contents go to disk
// (or only into the result with DryRun).
func Apply(fs *source.FileSet, diagnostics []*diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, errors.New("fix: FileSet is nil")
	}

	candidates, skips := gatherCandidates(diag.FixBuildContext{FileSet: fs}, diagnostics)
	result.Skipped = append(result.Skipped, skips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	selected, skips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, skips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	s := newSession(fs, opts.DryRun)
	for _, cand := range selected {
		if reason := s.apply(cand.fix.Edits); reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: reason})
			continue
		}
		result.Applied = append(result.Applied, AppliedFix{
			ID:            cand.fix.ID,
			Title:         cand.fix.Title,
			Code:          cand.diag.Code,
			Message:       cand.diag.Message,
			Applicability: cand.fix.Applicability,
			PrimaryPath:   formatFilePath(fs, cand.diag.Primary.File),
			EditCount:     len(cand.fix.Edits),
		})
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	changes, err := s.commit()
	result.FileChanges = changes
	return result, err
}

// gatherCandidates materializes the fixes of every diagnostic. Fixes that
// fail to build, carry no edits or reuse an already seen ID are skipped.
// Missing IDs are synthesized from the code, primary position and index.
func gatherCandidates(ctx diag.FixBuildContext, diagnostics []*diag.Diagnostic) ([]candidate, []SkippedFix) {
	var (
		cands []candidate
		skips []SkippedFix
		order int
	)
	seen := make(map[string]struct{})
	for _, d := range diagnostics {
		if d == nil || len(d.Fixes) == 0 {
			continue
		}
		for idx, lazy := range d.Fixes {
			f, err := lazy.Resolve(ctx)
			if err != nil {
				reason := fmt.Sprintf("failed to build fix: %v", err)
				if errors.Is(err, diag.ErrFixUnavailable) {
					reason = "fix is no longer applicable"
				}
				skips = append(skips, SkippedFix{ID: lazy.ID, Title: lazy.Title, Reason: reason})
				continue
			}
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			}
			if _, dup := seen[f.ID]; dup {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "duplicate fix id"})
				continue
			}
			seen[f.ID] = struct{}{}
			cands = append(cands, candidate{diag: d, fix: f, order: order})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders by file, span, insertion order, code, preference,
// ID and title.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		pa, pb := a.diag.Primary, b.diag.Primary
		switch {
		case pa.File != pb.File:
			return pa.File < pb.File
		case pa.Start != pb.Start:
			return pa.Start < pb.Start
		case pa.End != pb.End:
			return pa.End < pb.End
		case a.order != b.order:
			return a.order < b.order
		case a.diag.Code != b.diag.Code:
			return a.diag.Code < b.diag.Code
		case a.fix.IsPreferred != b.fix.IsPreferred:
			return a.fix.IsPreferred
		case a.fix.ID != b.fix.ID:
			return a.fix.ID < b.fix.ID
		}
		return a.fix.Title < b.fix.Title
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.fix.ID != opts.TargetID {
				continue
			}
			if cand.fix.RequiresAll {
				return nil, []SkippedFix{{ID: opts.TargetID, Title: cand.fix.Title, Reason: "fix requires all fixes to be applied"}}
			}
			return []candidate{cand}, nil
		}
		return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}

	case ApplyModeAll:
		var selected []candidate
		var skipped []SkippedFix
		for _, cand := range candidates {
			if cand.fix.Applicability != diag.FixApplicabilityAlwaysSafe {
				skipped = append(skipped, SkippedFix{
					ID:     cand.fix.ID,
					Title:  cand.fix.Title,
					Reason: "applicability is " + cand.fix.Applicability.String(),
				})
				continue
			}
			selected = append(selected, cand)
		}
		return selected, skipped

	case ApplyModeOnce:
		var fallback *candidate
		var skipped []SkippedFix
		for i := range candidates {
			cand := candidates[i]
			if cand.fix.RequiresAll {
				skipped = append(skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: "fix requires all fixes to be applied"})
				continue
			}
			if cand.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				return []candidate{cand}, skipped
			}
			if fallback == nil {
				fallback = &candidates[i]
			}
		}
		if fallback != nil {
			return []candidate{*fallback}, skipped
		}
		return nil, skipped
	}
	return nil, nil
}

func formatFilePath(fs *source.FileSet, fileID source.FileID) string {
	if fs == nil {
		return ""
	}
	file := fs.Get(fileID)
	if file == nil {
		return ""
	}
	return file.FormatPath("auto", fs.BaseDir())
}

// sortedFileIDs returns the keys of m in ascending order.
func sortedFileIDs[V any](m map[source.FileID]V) []source.FileID {
	ids := make([]source.FileID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func writeFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
