package driver

import (
	"context"
	"fmt"
	"time"

	"cmdlint/internal/csharp"
	"cmdlint/internal/diag"
	"cmdlint/internal/format"
	"cmdlint/internal/rules"
	"cmdlint/internal/source"
	"cmdlint/internal/symbols"
	"cmdlint/internal/trace"
)

// analyzeFile fills res from the cache or by parsing. Either way the
// file's reports are replayed through the severity overrides into res.Bag.
func analyzeFile(ctx context.Context, fs *source.FileSet, res *FileResult, overrides map[diag.Code]diag.Override, opts Options) error {
	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+res.Path)
	defer span.End("")

	file := fs.Get(res.FileID)
	generatedPath := csharp.IsGeneratedPath(res.Path)
	key := cacheKey(file, generatedPath)

	var payload DiskPayload
	hit, err := opts.Cache.Get(key, &payload)
	if err != nil {
		trace.Point(ctx, trace.ScopeFile, "cache", err.Error())
		hit = false
	}
	if hit {
		res.Cached = true
		res.Generated = payload.Generated
		res.decls = fromPayload(&payload, res.FileID)
		replay(payload.Reports, res, overrides, opts.Format)
		span.WithExtra("cache", "hit")
		opts.emit(ctx, Event{File: res.Path, Stage: StageAnalyze, Status: StatusCached})
		return nil
	}

	opts.emit(ctx, Event{File: res.Path, Stage: StageParse, Status: StatusWorking})
	started := time.Now()
	rec := &recorder{ctx: ctx}

	p := csharp.NewParser()
	defer p.Close()
	// Syntax errors are recorded separately so generated files can drop them.
	syntaxErrs := &recorder{ctx: ctx}
	tree, err := p.Parse(ctx, res.FileID, file.Content, syntaxErrs)
	if err != nil {
		opts.emit(ctx, Event{File: res.Path, Stage: StageParse, Status: StatusError})
		return fmt.Errorf("parse %s: %w", res.Path, err)
	}
	res.Tree = tree
	res.decls = symbols.Collect(tree)
	res.Generated = generatedPath || csharp.IsGeneratedTree(tree)

	if !res.Generated {
		rec.reports = append(rec.reports, syntaxErrs.reports...)
		opts.emit(ctx, Event{File: res.Path, Stage: StageAnalyze, Status: StatusWorking})
		rules.AnalyzeTreeWithFixes(tree, rec, bindHandlerFixes(opts.Format))
	}
	if opts.Timer != nil {
		opts.Timer.Add("parse+rules/file", time.Since(started))
	}

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, toPayload(res.Path, res.Generated, res.decls, rec.reports)); err != nil {
			trace.Point(ctx, trace.ScopeFile, "cache", err.Error())
		}
	}
	replay(rec.reports, res, overrides, opts.Format)

	status := StatusDone
	if res.Generated {
		status = StatusSkipped
		span.WithExtra("generated", "true")
	}
	opts.emit(ctx, Event{File: res.Path, Stage: StageAnalyze, Status: status})
	return nil
}

// recorder keeps reports in a cacheable form. Spans are file-local.
type recorder struct {
	ctx     context.Context
	reports []report
}

func (r *recorder) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []*diag.Fix) {
	rep := report{Code: code, Severity: sev, Start: primary.Start, End: primary.End, Message: msg}
	for _, n := range notes {
		rep.Notes = append(rep.Notes, reportNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
	}
	if len(fixes) > 0 {
		rep.FixID = fixes[0].ID
	}
	r.reports = append(r.reports, rep)
	trace.Point(r.ctx, trace.ScopeClass, code.ID(), msg)
}

// replay turns recorded reports back into diagnostics of res.FileID.
func replay(reports []report, res *FileResult, overrides map[diag.Code]diag.Override, opt format.Options) {
	r := diag.NewOverrideReporter(diag.BagReporter{Bag: res.Bag}, overrides)
	for _, rep := range reports {
		primary := source.Span{File: res.FileID, Start: rep.Start, End: rep.End}
		var notes []diag.Note
		for _, n := range rep.Notes {
			notes = append(notes, diag.Note{Span: source.Span{File: res.FileID, Start: n.Start, End: n.End}, Msg: n.Msg})
		}
		var fixes []*diag.Fix
		if rep.FixID != "" {
			fixes = append(fixes, bindHandlerFix(primary, rep.FixID, opt))
		}
		r.Report(rep.Code, rep.Severity, primary, rep.Message, notes, fixes)
	}
}
