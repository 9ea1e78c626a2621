package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"cmdlint/internal/diag"
	"cmdlint/internal/project"
	"cmdlint/internal/rules"
	"cmdlint/internal/source"
	"cmdlint/internal/symbols"
	"cmdlint/internal/syntax"
	"cmdlint/internal/trace"
)

// FileResult is the outcome of the per-file pass.
type FileResult struct {
	Path      string
	FileID    source.FileID
	Tree      *syntax.Tree // nil for cache hits and load failures
	Bag       *diag.Bag
	Generated bool
	Cached    bool
	decls     symbols.FileDecls
}

// Result is one complete analysis.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
	Symbols *symbols.Table
	Bag     *diag.Bag // sorted, deduplicated, capped at MaxDiagnostics
}

// HasErrors reports whether any diagnostic has error severity.
func (r *Result) HasErrors() bool { return r.Bag.HasErrors() }

// Analyze runs the whole analysis over targets (files, directories or
// globs; the config root when empty).
func Analyze(ctx context.Context, targets []string, opts Options) (*Result, error) {
	root := "."
	if len(targets) == 1 {
		root = targets[0]
	}
	opts = opts.withDefaults(root)
	cfg := opts.Config

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "analyze")
	defer span.End("")

	overrides, ignored, err := cfg.Overrides()
	if err != nil {
		return nil, err
	}

	done := opts.phase("load")
	paths, err := cfg.ListFiles(targets)
	if err != nil {
		done("")
		return nil, err
	}
	fs := source.NewFileSetWithBase(cfg.Root)
	files := loadFiles(ctx, fs, paths, opts)
	done(strconv.Itoa(len(files)) + " files")
	span.WithExtra("files", strconv.Itoa(len(files)))

	done = opts.phase("files")
	if err := analyzeFiles(ctx, fs, files, overrides, opts); err != nil {
		done("cancelled")
		return nil, err
	}
	done("")

	res := &Result{FileSet: fs, Files: files, Bag: diag.NewBag(0)}
	final := diag.NewOverrideReporter(diag.BagReporter{Bag: res.Bag}, overrides)
	for _, id := range ignored {
		diag.ReportDescriptor(diag.BagReporter{Bag: res.Bag}, diag.CfgOverrideIgnored, source.NoSpan, id).Emit()
	}

	done = opts.phase("compilation")
	opts.emit(ctx, Event{Stage: StageCompilation, Status: StatusWorking})
	res.Symbols, err = analyzeCompilation(ctx, files, final)
	if err != nil {
		done("cancelled")
		return nil, err
	}
	opts.emit(ctx, Event{Stage: StageCompilation, Status: StatusDone})
	done(strconv.Itoa(res.Symbols.Len()) + " symbols")

	for _, f := range files {
		res.Bag.Merge(f.Bag)
	}
	res.Bag = finalize(res.Bag, opts.MaxDiagnostics)
	return res, nil
}

// loadFiles reads every path. Unreadable files become results carrying
// an IO diagnostic and no file id.
func loadFiles(ctx context.Context, fs *source.FileSet, paths []string, opts Options) []FileResult {
	ctx, span := trace.Start(ctx, trace.ScopePass, "load")
	defer span.End("")

	out := make([]FileResult, len(paths))
	for i, path := range paths {
		out[i] = FileResult{Path: path, Bag: diag.NewBag(0), FileID: source.NoFileID}
		id, err := fs.Load(path)
		if err != nil {
			diag.ReportDescriptor(diag.BagReporter{Bag: out[i].Bag}, diag.IOLoadFileError, source.NoSpan,
				filepath.ToSlash(path), err.Error()).Emit()
			opts.emit(ctx, Event{File: path, Stage: StageLoad, Status: StatusError})
			continue
		}
		out[i].FileID = id
		out[i].Path = fs.Get(id).Path
		opts.emit(ctx, Event{File: out[i].Path, Stage: StageLoad, Status: StatusQueued})
	}
	return out
}

// analyzeFiles runs the per-file pass in parallel. Every task writes only
// files[i], so no locking is needed.
func analyzeFiles(ctx context.Context, fs *source.FileSet, files []FileResult, overrides map[diag.Code]diag.Override, opts Options) error {
	ctx, span := trace.Start(ctx, trace.ScopePass, "parse")
	defer span.End("")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i := range files {
		if files[i].FileID == source.NoFileID {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return analyzeFile(gctx, fs, &files[i], overrides, opts)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("analyze files: %w", err)
	}
	return nil
}

// analyzeCompilation builds the symbol table from every file, generated
// ones included, and runs the compilation rule.
func analyzeCompilation(ctx context.Context, files []FileResult, r diag.Reporter) (*symbols.Table, error) {
	ctx, span := trace.Start(ctx, trace.ScopePass, "compilation")
	defer span.End("")

	decls := make([]symbols.FileDecls, 0, len(files))
	for _, f := range files {
		if f.FileID != source.NoFileID {
			decls = append(decls, f.decls)
		}
	}
	table := symbols.Build(decls)
	if err := rules.AnalyzeCompilation(ctx, table, r); err != nil {
		return nil, err
	}
	return table, nil
}

// finalize sorts, deduplicates and applies the diagnostics limit.
func finalize(all *diag.Bag, limit int) *diag.Bag {
	all.Sort()
	all.Dedup()
	if limit <= 0 || all.Len() <= limit {
		return all
	}
	out := diag.NewBag(limit)
	for _, d := range all.Items() {
		out.Add(d)
	}
	return out
}

// Reanalyze repeats Analyze with the same inputs; used by watch mode.
func Reanalyze(ctx context.Context, targets []string, opts Options) (*Result, error) {
	if opts.Config != nil && opts.Config.Path != "" {
		cfg, err := project.LoadFile(opts.Config.Path)
		if err != nil {
			return nil, err
		}
		opts.Config = cfg
	}
	return Analyze(ctx, targets, opts)
}
