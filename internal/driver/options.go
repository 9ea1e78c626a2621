package driver

import (
	"context"

	"cmdlint/internal/format"
	"cmdlint/internal/observ"
	"cmdlint/internal/project"
)

// Options configures one analysis run. Zero values fall back to Config.
type Options struct {
	Config         *project.Config
	Jobs           int
	MaxDiagnostics int
	Format         format.Options
	Cache          *DiskCache    // nil disables the result cache
	Events         chan<- Event  // optional progress stream
	Timer          *observ.Timer // optional
}

func (o Options) withDefaults(root string) Options {
	if o.Config == nil {
		o.Config = project.Default(root)
	}
	if o.Jobs <= 0 {
		o.Jobs = o.Config.Analysis.Jobs
	}
	if o.MaxDiagnostics <= 0 {
		o.MaxDiagnostics = o.Config.Analysis.MaxDiagnostics
	}
	if o.Format == (format.Options{}) && o.Config.Format.Indent != "" {
		o.Format = format.OptionsFromIndent(o.Config.Format.Indent)
	}
	return o
}

// Stage is the part of the run an Event refers to.
type Stage uint8

const (
	StageLoad Stage = iota + 1
	StageParse
	StageAnalyze
	StageCompilation
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StageParse:
		return "parse"
	case StageAnalyze:
		return "analyze"
	case StageCompilation:
		return "compilation"
	}
	return "unknown"
}

// Status of a file or stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusCached
	StatusSkipped // generated code
	StatusError
)

// Event reports progress. File is empty for whole-run stages.
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

func (o Options) emit(ctx context.Context, ev Event) {
	if o.Events == nil {
		return
	}
	select {
	case o.Events <- ev:
	case <-ctx.Done():
	}
}

func (o Options) phase(name string) func(note string) {
	if o.Timer == nil {
		return func(string) {}
	}
	idx := o.Timer.Begin(name)
	return func(note string) { o.Timer.End(idx, note) }
}
