package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"cmdlint/internal/project"
	"cmdlint/internal/trace"
)

// DefaultDebounce is how long Watch waits for more changes before re-running.
const DefaultDebounce = 200 * time.Millisecond

// WatchFunc receives the result of every run. Returning an error stops Watch.
type WatchFunc func(res *Result, err error) error

// Watch runs Analyze once and again after every debounced batch of changes
// to C# sources or cmdlint.toml below the project root. It returns when ctx
// is cancelled or fn returns an error.
func Watch(ctx context.Context, targets []string, opts Options, debounce time.Duration, fn WatchFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	root := "."
	if opts.Config != nil {
		root = opts.Config.Root
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close() //nolint:errcheck

	if err := addWatchesRecursive(w, root); err != nil {
		return err
	}

	if err := fn(Reanalyze(ctx, targets, opts)); err != nil {
		return err
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	pending := 0
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && isDir(ev.Name) {
				if err := addWatchesRecursive(w, ev.Name); err != nil {
					trace.Point(ctx, trace.ScopeDriver, "watch", err.Error())
				}
				continue
			}
			if !relevant(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			pending++
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			trace.Point(ctx, trace.ScopeDriver, "watch", err.Error())

		case <-timer.C:
			if pending == 0 {
				continue
			}
			trace.Point(ctx, trace.ScopeDriver, "watch", "rerun")
			pending = 0
			if err := fn(Reanalyze(ctx, targets, opts)); err != nil {
				return err
			}
		}
	}
}

func relevant(path string) bool {
	base := filepath.Base(path)
	return strings.EqualFold(filepath.Ext(base), ".cs") || base == project.ConfigFileName
}

func addWatchesRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		base := d.Name()
		if path != root && (strings.HasPrefix(base, ".") || base == "bin" || base == "obj") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
